// Package export writes analyzed batches to timestamped JSON files so the
// results can be inspected or fed to other tools.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Bandeaditi/mail-automated-system/internal/domain/email"
)

type Saver struct {
	dir string
}

func NewSaver(dir string) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &Saver{dir: dir}, nil
}

type exportedEmail struct {
	UID          string   `json:"uid"`
	From         string   `json:"from"`
	Subject      string   `json:"subject"`
	Date         string   `json:"date"`
	Importance   string   `json:"importance"`
	Replyability string   `json:"replyability"`
	Action       string   `json:"action"`
	Urgency      int      `json:"urgency"`
	Reasoning    string   `json:"reasoning"`
	DraftSubject string   `json:"draft_subject,omitempty"`
	DraftBody    string   `json:"draft_body,omitempty"`
	ShouldSend   bool     `json:"should_send,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

type report struct {
	AnalyzedAt    string          `json:"analyzed_at"`
	Total         int             `json:"total"`
	Actionable    []exportedEmail `json:"actionable"`
	NonActionable []exportedEmail `json:"non_actionable"`
	Summary       map[string]int  `json:"summary"`
}

// SaveBatch writes one analysis run, split into actionable and
// non-actionable messages, and returns the file path.
func (s *Saver) SaveBatch(recs []*email.Record) (string, error) {
	rep := report{
		AnalyzedAt: time.Now().Format(time.RFC3339),
		Total:      len(recs),
		Summary:    make(map[string]int),
	}

	for _, rec := range recs {
		e := toExported(rec)
		rep.Summary[e.Importance]++
		if rec.NeedsReply() {
			rep.Actionable = append(rep.Actionable, e)
		} else {
			rep.NonActionable = append(rep.NonActionable, e)
		}
	}

	name := fmt.Sprintf("emails_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return path, nil
}

func toExported(rec *email.Record) exportedEmail {
	e := exportedEmail{
		UID:     rec.UID,
		From:    rec.From,
		Subject: rec.Subject,
		Date:    rec.Date.Format(time.RFC3339),
	}

	if c := rec.Classification; c != nil {
		e.Importance = string(c.Importance)
		e.Replyability = string(c.Replyability)
		e.Action = string(c.Action)
		e.Urgency = c.Urgency
		e.Reasoning = c.Reasoning
	}

	if d := rec.Draft; d != nil {
		e.DraftSubject = d.Subject
		e.DraftBody = d.Body
		e.ShouldSend = d.ShouldSend
		e.Warnings = d.Warnings
	}

	return e
}
