package gmailc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/gmail/v1"
)

// EnableWatch registers the mailbox for push notifications on the given
// Pub/Sub topic.
func (c *Client) EnableWatch(ctx context.Context, topic string) error {
	req := &gmail.WatchRequest{
		TopicName: topic,
	}

	resp, err := c.srv.Users.Watch("me", req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail watch error: %w", err)
	}

	c.log.WithField("expiration", resp.Expiration).Info("gmail watch enabled")

	return nil
}

// FetchNewMessagesSince lists message-added history entries after the
// given history ID. Gmail writes history asynchronously, so empty results
// are retried briefly before being treated as genuinely empty.
func (c *Client) FetchNewMessagesSince(ctx context.Context, historyID uint64) ([]*gmail.History, error) {
	for attempt := 1; attempt <= 5; attempt++ {
		resp, err := c.srv.Users.History.List("me").
			StartHistoryId(historyID).
			HistoryTypes("messageAdded").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("gmail history list error: %w", err)
		}

		if len(resp.History) > 0 {
			return resp.History, nil
		}

		time.Sleep(time.Duration(attempt*80) * time.Millisecond)
	}

	// Still empty after retries; Gmail often sends events early.
	return nil, nil
}

// ExtractMessageIDs flattens history entries into message IDs, skipping
// drafts so the pipeline never triages its own output.
func (c *Client) ExtractMessageIDs(histories []*gmail.History) []string {
	var ids []string

	for _, h := range histories {
		for _, added := range h.MessagesAdded {
			if added.Message != nil && !isDraft(added.Message) {
				ids = append(ids, added.Message.Id)
			}
		}
	}

	return ids
}

func isDraft(msg *gmail.Message) bool {
	for _, labelID := range msg.LabelIds {
		if labelID == "DRAFT" {
			return true
		}
	}
	return false
}
