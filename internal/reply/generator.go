// Package reply produces draft replies for actionable messages. Every call
// returns a Draft, even on failure: a draft that says why not to reply is
// still a draft, and the caller never has a nil to check.
package reply

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Bandeaditi/mail-automated-system/internal/domain/email"
	"github.com/Bandeaditi/mail-automated-system/internal/llm"
	"github.com/Bandeaditi/mail-automated-system/internal/logging"
	"github.com/Bandeaditi/mail-automated-system/internal/prompt"
	"github.com/Bandeaditi/mail-automated-system/internal/safety"
)

// replyMaxTokens bounds reply generation; drafts are a few paragraphs.
const replyMaxTokens = 800

type Generator struct {
	llm  llm.Generator
	gate *safety.Gate
	log  *logrus.Logger
}

func NewGenerator(generator llm.Generator, gate *safety.Gate, log *logrus.Logger) *Generator {
	return &Generator{
		llm:  generator,
		gate: gate,
		log:  log,
	}
}

// Generate produces a draft reply for the record. The safety gate runs
// before any model call; its warnings end up on the draft regardless of
// the outcome so reviewers always see them.
func (g *Generator) Generate(ctx context.Context, rec *email.Record, userContext string) *email.Draft {
	g.log.WithFields(logging.EmailFields(rec.Subject, rec.From)).Info("generating reply")

	isSafe, warnings := g.gate.Check(rec.From, rec.Subject, rec.Body)

	if !isSafe {
		g.log.WithFields(logging.EmailFields(rec.Subject, rec.From)).
			WithField("warnings", warnings).Warn("reply safety check failed")
		draft := fallbackDraft(rec.Subject, "unsafe to reply")
		draft.Warnings = warnings
		return draft
	}

	if rec.Classification != nil && rec.Classification.Replyability == email.ReplyabilityNo {
		return &email.Draft{
			Subject:   ensureReplyPrefix(rec.Subject),
			Reasoning: "analysis determined no reply needed",
		}
	}

	draft := g.draftFromModel(ctx, rec, userContext)

	draft.Warnings = append(draft.Warnings, warnings...)

	g.log.WithFields(logging.EmailFields(rec.Subject, rec.From)).
		WithField("should_send", draft.ShouldSend).Info("reply generated")

	return draft
}

func (g *Generator) draftFromModel(ctx context.Context, rec *email.Record, userContext string) *email.Draft {
	p := prompt.Reply(rec.From, rec.To, rec.Subject, rec.Body, userContext)

	text, err := g.llm.Generate(ctx, p, replyMaxTokens)
	if err != nil {
		return fallbackDraft(rec.Subject, "model failed to generate reply")
	}

	return g.draftFromResponse(text, rec.Subject)
}

// draftFromResponse turns a parsed model response into a Draft, shared by
// generation and refinement.
func (g *Generator) draftFromResponse(text, originalSubject string) *email.Draft {
	parsed := prompt.ParseReply(text)

	subject := parsed.Subject
	if subject == "" {
		subject = originalSubject
	}
	subject = ensureReplyPrefix(subject)

	body := strings.TrimSpace(parsed.Body)

	reasoning := parsed.Reasoning
	if reasoning == "" {
		reasoning = "Generated by model"
	}

	draft := &email.Draft{
		Subject:   subject,
		Body:      body,
		Reasoning: reasoning,
	}

	if body == "" {
		draft.AddWarning("model did not generate email body")
	}
	draft.ShouldSend = draft.Sendable()

	// Length-bound check shares the dispatch bounds family; it warns but
	// never blocks ShouldSend.
	if ok, reason := safety.ValidateDraftBody(body); !ok {
		draft.AddWarning("draft validation issue: " + reason)
	}

	return draft
}

// Refine produces a new draft from an existing draft body plus free-text
// instructions. The old draft is never mutated.
func (g *Generator) Refine(ctx context.Context, originalDraft, instructions, originalSubject string) *email.Draft {
	text, err := g.llm.Generate(ctx, prompt.Refine(originalDraft, instructions), replyMaxTokens)
	if err != nil {
		return fallbackDraft(originalSubject, "failed to refine draft")
	}

	draft := g.draftFromResponse(text, originalSubject)
	g.log.Info("draft refined")
	return draft
}

// GenerateBatch drafts replies sequentially, keyed by record UID. With
// onlyReplyable set, records not classified replyable are skipped. A
// failure on one record never aborts the rest.
func (g *Generator) GenerateBatch(ctx context.Context, recs []*email.Record, userContext string, onlyReplyable bool) map[string]*email.Draft {
	drafts := make(map[string]*email.Draft)

	toProcess := recs
	if onlyReplyable {
		toProcess = nil
		for _, rec := range recs {
			if rec.Replyable() {
				toProcess = append(toProcess, rec)
			}
		}
		g.log.WithFields(logrus.Fields{
			"replyable": len(toProcess),
			"total":     len(recs),
		}).Info("generating replies for replyable emails")
	}

	for _, rec := range toProcess {
		draft := g.Generate(ctx, rec, userContext)
		drafts[rec.UID] = draft
		rec.Draft = draft
	}

	g.log.WithField("count", len(drafts)).Info("batch reply generation complete")

	return drafts
}

// fallbackDraft is the zero-content draft used whenever generation is
// refused or fails. ShouldSend is always false.
func fallbackDraft(subject, reason string) *email.Draft {
	return &email.Draft{
		Subject:    ensureReplyPrefix(subject),
		Body:       "",
		Reasoning:  reason,
		ShouldSend: false,
		Warnings:   []string{reason},
	}
}

// ensureReplyPrefix prepends "Re: " exactly once.
func ensureReplyPrefix(subject string) string {
	if strings.HasPrefix(subject, "Re: ") || strings.HasPrefix(subject, "RE: ") {
		return subject
	}
	return "Re: " + subject
}
