package app

import (
	"context"
	"fmt"

	"github.com/Bandeaditi/mail-automated-system/internal/config"
	"github.com/Bandeaditi/mail-automated-system/internal/gmailc"
)

// Watch blocks on Gmail push notifications and triages new mail as it
// arrives. Drafts for actionable messages are uploaded to the mailbox as
// Gmail drafts; nothing is ever sent from this mode.
func (a *App) Watch(ctx context.Context, userContext string) error {
	if a.gmail == nil {
		return fmt.Errorf("watch mode requires the %s mailbox provider", config.MailboxGmail)
	}
	if a.cfg.GoogleCloudProject == "" || a.cfg.SubscriptionID == "" {
		return fmt.Errorf("GOOGLE_CLOUD_PROJECT and SUBSCRIPTION_ID are required for watch mode")
	}

	if err := a.gmail.EnableWatch(ctx, a.cfg.TopicName); err != nil {
		return fmt.Errorf("enable watch error: %w", err)
	}

	return gmailc.Listen(ctx, a.cfg.GoogleCloudProject, a.cfg.SubscriptionID, a.log, func(historyID uint64) {
		a.handleNotification(ctx, historyID, userContext)
	})
}

func (a *App) handleNotification(ctx context.Context, historyID uint64, userContext string) {
	histories, err := a.gmail.FetchNewMessagesSince(ctx, historyID)
	if err != nil {
		a.log.WithError(err).Warn("history fetch error")
		return
	}

	for _, id := range a.gmail.ExtractMessageIDs(histories) {
		already, err := a.store.AlreadyProcessed(id)
		if err != nil {
			a.log.WithError(err).Warn("ledger check error")
			continue
		}
		if already {
			continue
		}

		rec, err := a.gmail.FetchByID(ctx, id)
		if err != nil {
			a.log.WithError(err).WithField("id", id).Warn("fetch error")
			continue
		}
		if rec.Body == "" {
			continue
		}

		a.analyzer.Analyze(ctx, rec)
		if err := a.store.SaveTriage(rec); err != nil {
			a.log.WithError(err).Warn("save triage error")
		}

		if !rec.NeedsReply() {
			continue
		}

		draft := a.replies.Generate(ctx, rec, userContext)
		rec.Draft = draft
		if err := a.store.SaveDraft(rec.UID, draft); err != nil {
			a.log.WithError(err).Warn("save draft error")
		}

		if draft.ShouldSend {
			if err := a.gmail.UploadDraft(rec, draft); err != nil {
				a.log.WithError(err).Warn("draft upload error")
			} else {
				a.log.WithField("uid", rec.UID).Info("draft uploaded to mailbox")
			}
		}
	}
}
