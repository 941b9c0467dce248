// Package app wires the pipeline together and drives it: fetch, triage,
// draft, human approval, dispatch. Batches run sequentially and one bad
// item never takes down the rest.
package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Bandeaditi/mail-automated-system/internal/config"
	"github.com/Bandeaditi/mail-automated-system/internal/dispatch"
	"github.com/Bandeaditi/mail-automated-system/internal/domain/email"
	"github.com/Bandeaditi/mail-automated-system/internal/export"
	"github.com/Bandeaditi/mail-automated-system/internal/gmailc"
	"github.com/Bandeaditi/mail-automated-system/internal/llm"
	"github.com/Bandeaditi/mail-automated-system/internal/mailbox"
	"github.com/Bandeaditi/mail-automated-system/internal/reply"
	"github.com/Bandeaditi/mail-automated-system/internal/safety"
	"github.com/Bandeaditi/mail-automated-system/internal/smtptx"
	"github.com/Bandeaditi/mail-automated-system/internal/store"
	"github.com/Bandeaditi/mail-automated-system/internal/triage"
)

type App struct {
	cfg *config.Config
	log *logrus.Logger

	mailbox  mailbox.Mailbox
	gmail    *gmailc.Client
	store    *store.Store
	saver    *export.Saver
	analyzer *triage.Analyzer
	replies  *reply.Generator
	sender   *dispatch.Sender

	in *bufio.Reader
}

func New(ctx context.Context, cfg *config.Config, log *logrus.Logger, dryRun bool) (*App, error) {
	gate := safety.NewGate(cfg.NoReplyPatterns, cfg.SpamKeywords)

	generator, err := newGenerator(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("model client error: %w", err)
	}

	box, gmail, err := newMailbox(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("mailbox error: %w", err)
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite error: %w", err)
	}

	saver, err := export.NewSaver(cfg.ExportDir)
	if err != nil {
		return nil, fmt.Errorf("export error: %w", err)
	}

	transport := smtptx.NewClient(cfg.SMTPAddr(), cfg.EmailAddress, cfg.AppPassword, log)
	limiter := dispatch.NewLimiter(dispatch.MinSendInterval, nil)

	if dryRun {
		log.Warn("dry run mode: emails will not actually be sent")
	}

	return &App{
		cfg:      cfg,
		log:      log,
		mailbox:  box,
		gmail:    gmail,
		store:    st,
		saver:    saver,
		analyzer: triage.NewAnalyzer(generator, gate, log),
		replies:  reply.NewGenerator(generator, gate, log),
		sender:   dispatch.NewSender(cfg.EmailAddress, transport, limiter, gate, log, dryRun),
		in:       bufio.NewReader(os.Stdin),
	}, nil
}

func newGenerator(cfg *config.Config, log *logrus.Logger) (llm.Generator, error) {
	switch cfg.ModelProvider {
	case config.ProviderOpenAI:
		return llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.ModelName, log)
	default:
		return llm.NewOllama(cfg.ModelName, cfg.ModelURL, cfg.ModelTimeout, log), nil
	}
}

func newMailbox(ctx context.Context, cfg *config.Config, log *logrus.Logger) (mailbox.Mailbox, *gmailc.Client, error) {
	if cfg.MailboxProvider == config.MailboxGmail {
		srv, err := gmailc.NewService(ctx, log)
		if err != nil {
			return nil, nil, err
		}
		client := gmailc.NewClient(srv, log)
		return client, client, nil
	}

	box, err := mailbox.DialIMAP(cfg.IMAPAddr(), cfg.EmailAddress, cfg.AppPassword, log)
	if err != nil {
		return nil, nil, err
	}
	return box, nil, nil
}

func (a *App) Close() {
	if err := a.mailbox.Close(); err != nil {
		a.log.WithError(err).Warn("mailbox close error")
	}
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("store close error")
	}
}

// Run executes one full pass over the mailbox: fetch, triage, draft,
// export, then the interactive approval and dispatch loop.
func (a *App) Run(ctx context.Context, userContext string) error {
	recs, err := a.mailbox.FetchRecent(ctx, a.cfg.Folder, a.cfg.MaxEmails)
	if err != nil {
		return fmt.Errorf("fetch emails: %w", err)
	}
	if len(recs) == 0 {
		a.log.Info("no emails to process")
		return nil
	}

	fresh := recs[:0]
	for _, rec := range recs {
		already, err := a.store.AlreadyProcessed(rec.UID)
		if err != nil {
			a.log.WithError(err).Warn("ledger check error")
		}
		if already {
			continue
		}
		if rec.Body == "" {
			a.log.WithField("uid", rec.UID).Debug("empty body, skipping")
			continue
		}
		fresh = append(fresh, rec)
	}

	if len(fresh) == 0 {
		a.log.Info("all fetched emails already processed")
		return nil
	}

	a.analyzer.AnalyzeBatch(ctx, fresh)
	for _, rec := range fresh {
		if err := a.store.SaveTriage(rec); err != nil {
			a.log.WithError(err).WithField("uid", rec.UID).Warn("save triage error")
		}
	}

	drafts := a.replies.GenerateBatch(ctx, fresh, userContext, true)
	for uid, d := range drafts {
		if err := a.store.SaveDraft(uid, d); err != nil {
			a.log.WithError(err).WithField("uid", uid).Warn("save draft error")
		}
	}

	if path, err := a.saver.SaveBatch(fresh); err != nil {
		a.log.WithError(err).Warn("export error")
	} else {
		a.log.WithField("path", path).Info("analysis exported")
	}

	return a.reviewAndSend(ctx, fresh, drafts)
}

// reviewAndSend walks the drafts one by one, asks for an explicit
// decision on each, and dispatches only what was approved.
func (a *App) reviewAndSend(ctx context.Context, recs []*email.Record, drafts map[string]*email.Draft) error {
	var pairs []dispatch.Pair
	approved := make(map[string]bool)

	for _, rec := range recs {
		draft, ok := drafts[rec.UID]
		if !ok {
			continue
		}

		a.printDraft(rec, draft)

		if !draft.ShouldSend {
			fmt.Printf("Not sendable: %s\n\n", draft.Reasoning)
			continue
		}

		for {
			fmt.Print("Send this reply? [y/N/e=refine]: ")
			answer := a.readLine()

			if answer == "e" {
				fmt.Print("Refinement instructions: ")
				instructions := a.readLine()
				draft = a.replies.Refine(ctx, draft.Body, instructions, rec.Subject)
				drafts[rec.UID] = draft
				if err := a.store.SaveDraft(rec.UID, draft); err != nil {
					a.log.WithError(err).Warn("save refined draft error")
				}
				a.printDraft(rec, draft)
				continue
			}

			if answer == "y" || answer == "yes" {
				approved[rec.UID] = true
			}
			break
		}

		pairs = append(pairs, dispatch.Pair{Email: rec, Draft: draft})
	}

	if len(approved) == 0 {
		a.log.Info("nothing approved for sending")
		return nil
	}

	results := a.sender.SendBatch(ctx, pairs, approved)
	for uid, res := range results {
		if res.OK {
			if err := a.store.MarkSent(uid); err != nil {
				a.log.WithError(err).Warn("mark sent error")
			}
		}
		fmt.Printf("%s: %s\n", uid, res.Message)
	}

	return nil
}

func (a *App) printDraft(rec *email.Record, draft *email.Draft) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Original: %q from %s\n", rec.Subject, rec.From)
	if rec.Classification != nil {
		fmt.Printf("Triage: %s urgency=%d (%s)\n",
			rec.Classification.Importance, rec.Classification.Urgency, rec.Classification.Reasoning)
	}
	fmt.Printf("Draft subject: %s\n", draft.Subject)
	fmt.Printf("Draft body:\n%s\n", draft.Body)
	if len(draft.Warnings) > 0 {
		fmt.Printf("Warnings: %s\n", strings.Join(draft.Warnings, "; "))
	}
	fmt.Println(strings.Repeat("-", 60))
}

func (a *App) readLine() string {
	line, err := a.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(line))
}
