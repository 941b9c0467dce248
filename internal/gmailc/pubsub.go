package gmailc

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/sirupsen/logrus"
)

type notification struct {
	EmailAddress string `json:"emailAddress"`
	HistoryID    uint64 `json:"historyId"`
}

// Listen consumes Gmail push notifications from the subscription and
// invokes the handler once per new history ID. Gmail resends the same
// history ID across notifications, so duplicates are dropped here.
func Listen(ctx context.Context, projectID, subscriptionID string, log *logrus.Logger, handler func(historyID uint64)) error {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("pubsub client error: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("error closing pub/sub client")
		}
	}()

	sub := client.Subscription(subscriptionID)

	log.Info("pub/sub listener started")

	seen := make(map[uint64]bool)

	return sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		var n notification
		if err := json.Unmarshal(m.Data, &n); err != nil {
			log.WithError(err).WithField("raw", string(m.Data)).Warn("unparsable notification")
			m.Ack()
			return
		}

		if seen[n.HistoryID] {
			m.Ack()
			return
		}
		seen[n.HistoryID] = true

		log.WithFields(logrus.Fields{
			"account":    n.EmailAddress,
			"history_id": n.HistoryID,
		}).Info("new mail notification")

		handler(n.HistoryID)
		m.Ack()
	})
}
