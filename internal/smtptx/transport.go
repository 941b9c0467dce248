// Package smtptx delivers composed messages over SMTP with STARTTLS and
// PLAIN authentication.
package smtptx

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/sirupsen/logrus"

	"github.com/Bandeaditi/mail-automated-system/internal/dispatch"
)

type Client struct {
	addr     string
	username string
	password string
	log      *logrus.Logger
}

func NewClient(addr, username, password string, log *logrus.Logger) *Client {
	return &Client{
		addr:     addr,
		username: username,
		password: password,
		log:      log,
	}
}

// Send renders the composed message to wire format and submits it. The
// connection is upgraded with STARTTLS before authentication.
func (c *Client) Send(ctx context.Context, msg *dispatch.OutboundMessage) error {
	raw, err := render(msg)
	if err != nil {
		return fmt.Errorf("render message: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"server": c.addr,
		"to":     msg.To,
	}).Debug("submitting message over smtp")

	auth := sasl.NewPlainClient("", c.username, c.password)
	if err := smtp.SendMail(c.addr, auth, msg.From, []string{msg.To}, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// render produces the RFC 5322 byte form of the message. Threading headers
// are written verbatim; the mail client on the other end depends on the
// References order being untouched.
func render(msg *dispatch.OutboundMessage) ([]byte, error) {
	var h mail.Header
	h.SetDate(msg.Date)
	h.SetSubject(msg.Subject)
	h.SetAddressList("From", []*mail.Address{{Address: msg.From}})
	h.SetAddressList("To", []*mail.Address{{Address: msg.To}})
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	if msg.InReplyTo != "" {
		h.Set("In-Reply-To", msg.InReplyTo)
		h.Set("References", msg.References)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, msg.Body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
