// Package gmailc is the Gmail-backed mailbox provider. It fetches message
// records through the Gmail API, uploads unapproved drafts into the
// mailbox, and feeds push notifications into the pipeline in watch mode.
package gmailc

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/gmail/v1"

	"github.com/Bandeaditi/mail-automated-system/internal/domain/email"
	"github.com/Bandeaditi/mail-automated-system/internal/safety"
)

type Client struct {
	srv *gmail.Service
	log *logrus.Logger
}

func NewClient(srv *gmail.Service, log *logrus.Logger) *Client {
	return &Client{srv: srv, log: log}
}

// FetchRecent lists the newest messages in the folder (a Gmail label, e.g.
// INBOX) and fetches each one fully. Newest first, matching the IMAP
// provider.
func (c *Client) FetchRecent(ctx context.Context, folder string, max int) ([]*email.Record, error) {
	listRes, err := c.srv.Users.Messages.List("me").
		LabelIds(strings.ToUpper(folder)).
		MaxResults(int64(max)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	var records []*email.Record
	for _, m := range listRes.Messages {
		rec, err := c.FetchByID(ctx, m.Id)
		if err != nil {
			c.log.WithError(err).WithField("id", m.Id).Warn("skipping unfetchable message")
			continue
		}
		records = append(records, rec)
	}

	c.log.WithFields(logrus.Fields{
		"folder":  folder,
		"fetched": len(records),
	}).Info("fetched recent emails")

	return records, nil
}

// FetchByID fetches one message with full headers and body.
func (c *Client) FetchByID(ctx context.Context, id string) (*email.Record, error) {
	msg, err := c.srv.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	rec := &email.Record{
		UID:        id,
		TraceID:    uuid.New().String(),
		From:       extractAddress(header(msg, "From")),
		To:         extractAddress(header(msg, "To")),
		Subject:    header(msg, "Subject"),
		MessageID:  strings.TrimSpace(header(msg, "Message-Id")),
		InReplyTo:  strings.TrimSpace(header(msg, "In-Reply-To")),
		References: strings.TrimSpace(header(msg, "References")),
		Body:       safety.SanitizeBody(extractBody(msg)),
		Date:       time.UnixMilli(msg.InternalDate),
	}

	return rec, nil
}

func (c *Client) Close() error {
	return nil
}

func header(msg *gmail.Message, name string) string {
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func extractBody(msg *gmail.Message) string {
	if msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
		d, _ := base64.URLEncoding.DecodeString(msg.Payload.Body.Data)
		return string(d)
	}

	for _, p := range msg.Payload.Parts {
		if p.MimeType == "text/plain" && p.Body != nil && p.Body.Data != "" {
			d, _ := base64.URLEncoding.DecodeString(p.Body.Data)
			return string(d)
		}
	}
	return ""
}

// extractAddress strips a display name off an address header.
func extractAddress(value string) string {
	if start := strings.LastIndex(value, "<"); start >= 0 {
		if end := strings.LastIndex(value, ">"); end > start {
			return value[start+1 : end]
		}
	}
	return strings.TrimSpace(value)
}
