// Package dispatch validates, rate-limits and sends approved drafts. It
// never sends speculatively: every path to the transport goes through an
// explicit approval flag checked before any side effect.
package dispatch

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Bandeaditi/mail-automated-system/internal/domain/email"
	"github.com/Bandeaditi/mail-automated-system/internal/logging"
	"github.com/Bandeaditi/mail-automated-system/internal/safety"
)

// OutboundMessage is the fully composed message handed to the transport.
type OutboundMessage struct {
	From       string
	To         string
	Subject    string
	Date       time.Time
	InReplyTo  string
	References string
	Body       string
}

// Transport is the outbound sink. It reports success or failure only;
// there are no partial sends.
type Transport interface {
	Send(ctx context.Context, msg *OutboundMessage) error
}

// Result is the explicit outcome of one dispatch attempt.
type Result struct {
	OK      bool
	Message string
}

// Pair couples a record with its draft for batch sending.
type Pair struct {
	Email *email.Record
	Draft *email.Draft
}

type Sender struct {
	from      string
	transport Transport
	limiter   *Limiter
	gate      *safety.Gate
	log       *logrus.Logger
	dryRun    bool
	now       func() time.Time
	sleep     func(time.Duration)
}

func NewSender(from string, transport Transport, limiter *Limiter, gate *safety.Gate, log *logrus.Logger, dryRun bool) *Sender {
	return &Sender{
		from:      from,
		transport: transport,
		limiter:   limiter,
		gate:      gate,
		log:       log,
		dryRun:    dryRun,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// Send dispatches one approved draft as a reply to the original message.
// Unapproved, invalid or rate-limited attempts fail without touching the
// transport.
func (s *Sender) Send(ctx context.Context, rec *email.Record, draft *email.Draft, approved bool) Result {
	return s.Dispatch(ctx, &email.DispatchRecord{Email: rec, Draft: draft, Approved: approved})
}

// Dispatch consumes one dispatch record. It is never retried automatically.
func (s *Sender) Dispatch(ctx context.Context, dr *email.DispatchRecord) Result {
	if !dr.Approved {
		s.log.Error("attempted to send email without approval")
		return Result{OK: false, Message: "email must be explicitly approved before sending"}
	}

	rec, draft := dr.Email, dr.Draft

	s.log.WithFields(logging.EmailFields(rec.Subject, rec.From)).Info("preparing to send reply")

	if ok, reason := s.validate(rec, draft); !ok {
		s.log.WithField("reason", reason).Error("send validation failed")
		return Result{OK: false, Message: reason}
	}

	if !s.limiter.Allow() {
		s.log.Warn("rate limit exceeded")
		return Result{OK: false, Message: "rate limit exceeded, wait before sending another email"}
	}

	msg := s.compose(rec, draft)

	if s.dryRun {
		s.log.WithFields(logrus.Fields{
			"to":      msg.To,
			"subject": msg.Subject,
		}).Info("dry run: would have sent email")
		s.limiter.Record()
		return Result{OK: true, Message: "email sent successfully (dry run)"}
	}

	if err := s.transport.Send(ctx, msg); err != nil {
		s.log.WithError(err).Error("transport send failed")
		return Result{OK: false, Message: err.Error()}
	}

	s.limiter.Record()
	s.log.WithFields(logging.EmailFields(rec.Subject, rec.From)).
		WithField("sent_total", s.limiter.Sent()).Info("email sent")

	return Result{OK: true, Message: "email sent successfully"}
}

// validate covers everything that must hold before the transport is
// touched: a deliverable recipient, an injection-free subject and a body
// with real content.
func (s *Sender) validate(rec *email.Record, draft *email.Draft) (bool, string) {
	if ok, reason := safety.ValidateAddress(rec.From); !ok {
		return false, "invalid recipient email: " + reason
	}

	if s.gate.IsNoReply(rec.From) {
		return false, "cannot send to a no-reply address"
	}

	if ok, reason := safety.ValidateSubject(draft.Subject); !ok {
		return false, "invalid subject: " + reason
	}

	if len(strings.TrimSpace(draft.Body)) < safety.MinDispatchBody {
		return false, "reply body is too short or empty"
	}

	if len(draft.Warnings) > 0 {
		// Warnings inform the reviewer but do not block an approved send.
		s.log.WithField("warnings", strings.Join(draft.Warnings, "; ")).Warn("draft has warnings")
	}

	return true, ""
}

// compose builds the outbound message. When the original carries a
// Message-ID the threading headers are set so the reply lands in the same
// conversation: In-Reply-To names the original, References extends the
// original chain with it, order preserved.
func (s *Sender) compose(rec *email.Record, draft *email.Draft) *OutboundMessage {
	msg := &OutboundMessage{
		From:    s.from,
		To:      rec.From,
		Subject: draft.Subject,
		Date:    s.now(),
		Body:    draft.Body,
	}

	if rec.MessageID != "" {
		msg.InReplyTo = rec.MessageID
		if rec.References != "" {
			msg.References = rec.References + " " + rec.MessageID
		} else {
			msg.References = rec.MessageID
		}
	}

	return msg
}

// SendBatch dispatches the approved subset of the given pairs, sleeping
// the minimum interval between real sends. Results are keyed by record
// UID; one failure never aborts the remaining items.
func (s *Sender) SendBatch(ctx context.Context, pairs []Pair, approvedUIDs map[string]bool) map[string]Result {
	results := make(map[string]Result)

	s.log.WithFields(logrus.Fields{
		"approved": len(approvedUIDs),
		"total":    len(pairs),
	}).Info("starting batch send")

	for _, p := range pairs {
		if !approvedUIDs[p.Email.UID] {
			s.log.WithField("subject", p.Email.Subject).Debug("skipping unapproved email")
			continue
		}

		res := s.Send(ctx, p.Email, p.Draft, true)
		results[p.Email.UID] = res

		if res.OK && !s.dryRun {
			s.sleep(s.limiter.Interval())
		}
	}

	successful := 0
	for _, r := range results {
		if r.OK {
			successful++
		}
	}
	s.log.WithFields(logrus.Fields{
		"successful": successful,
		"attempted":  len(results),
	}).Info("batch send complete")

	return results
}
