package mailbox

import (
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/sirupsen/logrus"

	"github.com/Bandeaditi/mail-automated-system/internal/domain/email"
)

const fetchTimeout = 30 * time.Second

// IMAP reads mail over IMAP with TLS. Fetches are read-only; nothing is
// marked seen or moved.
type IMAP struct {
	cl  *client.Client
	log *logrus.Logger
}

// DialIMAP connects and authenticates in one step.
func DialIMAP(addr, username, password string, log *logrus.Logger) (*IMAP, error) {
	cl, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("IMAP connection error: %w", err)
	}

	if err := cl.Login(username, password); err != nil {
		_ = cl.Logout()
		return nil, fmt.Errorf("IMAP login error: %w", err)
	}

	log.WithField("server", addr).Info("connected to IMAP server")

	return &IMAP{cl: cl, log: log}, nil
}

func (m *IMAP) FetchRecent(_ context.Context, folder string, max int) ([]*email.Record, error) {
	mbox, err := m.cl.Select(folder, true)
	if err != nil {
		return nil, fmt.Errorf("folder selection error: %w", err)
	}

	if mbox.Messages == 0 {
		return nil, nil
	}

	from := uint32(1)
	if mbox.Messages > uint32(max) {
		from = mbox.Messages - uint32(max) + 1
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddRange(from, mbox.Messages)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchInternalDate, imap.FetchUid}

	prevTimeout := m.cl.Timeout
	m.cl.Timeout = fetchTimeout
	defer func() { m.cl.Timeout = prevTimeout }()

	messages := make(chan *imap.Message, max)
	done := make(chan error, 1)
	go func() {
		done <- m.cl.Fetch(seqSet, items, messages)
	}()

	var records []*email.Record
	for msg := range messages {
		rec, err := parseMessage(msg, section)
		if err != nil {
			m.log.WithError(err).Warn("skipping unparsable message")
			continue
		}
		records = append(records, rec)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("error fetching messages: %w", err)
	}

	// IMAP returns oldest first; callers want the newest at the front.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	m.log.WithFields(logrus.Fields{
		"folder":  folder,
		"fetched": len(records),
	}).Info("fetched recent emails")

	return records, nil
}

func (m *IMAP) Close() error {
	if m.cl == nil {
		return nil
	}
	return m.cl.Logout()
}
