// Package triage classifies messages into importance, replyability, action
// and urgency. The model is consulted for everything except no-reply
// senders, and every model failure degrades to a safe default instead of
// propagating.
package triage

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Bandeaditi/mail-automated-system/internal/domain/email"
	"github.com/Bandeaditi/mail-automated-system/internal/llm"
	"github.com/Bandeaditi/mail-automated-system/internal/logging"
	"github.com/Bandeaditi/mail-automated-system/internal/prompt"
	"github.com/Bandeaditi/mail-automated-system/internal/safety"
)

// triageMaxTokens bounds the model output; three short lines is all the
// contract allows.
const triageMaxTokens = 200

type Analyzer struct {
	llm  llm.Generator
	gate *safety.Gate
	log  *logrus.Logger
}

func NewAnalyzer(generator llm.Generator, gate *safety.Gate, log *logrus.Logger) *Analyzer {
	return &Analyzer{
		llm:  generator,
		gate: gate,
		log:  log,
	}
}

// Analyze attaches a fresh classification to the record and returns it.
// It never fails: an unreachable model yields the fallback classification.
func (a *Analyzer) Analyze(ctx context.Context, rec *email.Record) *email.Classification {
	a.log.WithFields(logging.EmailFields(rec.Subject, rec.From)).Info("analyzing email")

	// No-reply senders never need the model.
	if a.gate.IsNoReply(rec.From) {
		c := email.NoReplyClassification()
		rec.Classify(c)
		return c
	}

	text, err := a.llm.Generate(ctx, prompt.Triage(rec.From, rec.Subject, rec.Body), triageMaxTokens)
	if err != nil {
		a.log.WithFields(logging.EmailFields(rec.Subject, rec.From)).
			Warn("model unavailable, using fallback classification")
		c := email.FallbackClassification()
		rec.Classify(c)
		return c
	}

	parsed := prompt.ParseTriage(text)

	replyability := email.ReplyabilityNo
	action := email.ActionReadOnly
	if parsed.Actionable {
		replyability = email.ReplyabilityYes
		action = email.ActionReply
	}

	c := email.NewClassification(replyability, action, parsed.Urgency, parsed.Reasoning)
	rec.Classify(c)

	a.log.WithFields(logrus.Fields{
		"subject": rec.Subject,
		"action":  c.Action,
		"urgency": c.Urgency,
	}).Info("analysis complete")

	return c
}

// AnalyzeBatch classifies a sequence in order. One item's model failure
// degrades only that item via the fallback, never the batch.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, recs []*email.Record) {
	a.log.WithField("count", len(recs)).Info("analyzing batch")

	for _, rec := range recs {
		a.Analyze(ctx, rec)
	}
}
