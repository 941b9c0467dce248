package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Bandeaditi/mail-automated-system/internal/domain/email"
)

func TestSaveBatch(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSaver(dir)
	if err != nil {
		t.Fatalf("NewSaver: %v", err)
	}

	actionable := email.NewRecord("1", "boss@co.com", "me@co.com", "Report due",
		"Please send the quarterly report by Friday, the board needs it for review.")
	actionable.Classify(email.NewClassification(email.ReplyabilityYes, email.ActionReply, 70, "deadline"))
	actionable.Draft = &email.Draft{
		Subject:    "Re: Report due",
		Body:       "I will have the report to you by Thursday afternoon at the latest.",
		ShouldSend: true,
	}

	fyi := email.NewRecord("2", "news@letter.example", "me@co.com", "Weekly digest",
		"Here is what happened in the industry this week, lots of small updates.")
	fyi.Classify(email.NewClassification(email.ReplyabilityNo, email.ActionReadOnly, 15, "newsletter"))

	path, err := s.SaveBatch([]*email.Record{actionable, fyi})
	if err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("report written to %q, want %q", filepath.Dir(path), dir)
	}
	if name := filepath.Base(path); !strings.HasPrefix(name, "emails_") || !strings.HasSuffix(name, ".json") {
		t.Errorf("report name = %q", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var rep struct {
		Total         int              `json:"total"`
		Actionable    []map[string]any `json:"actionable"`
		NonActionable []map[string]any `json:"non_actionable"`
		Summary       map[string]int   `json:"summary"`
	}
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}

	if rep.Total != 2 {
		t.Errorf("total = %d, want 2", rep.Total)
	}
	if len(rep.Actionable) != 1 || len(rep.NonActionable) != 1 {
		t.Fatalf("split = %d/%d, want 1/1", len(rep.Actionable), len(rep.NonActionable))
	}
	if got := rep.Actionable[0]["uid"]; got != "1" {
		t.Errorf("actionable uid = %v", got)
	}
	if got := rep.Actionable[0]["draft_body"]; got == nil || got == "" {
		t.Error("actionable entry missing its draft body")
	}
	if _, ok := rep.NonActionable[0]["draft_body"]; ok {
		t.Error("non-actionable entry should omit the empty draft body")
	}
	if rep.Summary["HIGH"] != 1 || rep.Summary["LOW"] != 1 {
		t.Errorf("summary = %v, want HIGH:1 LOW:1", rep.Summary)
	}
}

func TestSaveBatchEmpty(t *testing.T) {
	s, err := NewSaver(t.TempDir())
	if err != nil {
		t.Fatalf("NewSaver: %v", err)
	}

	path, err := s.SaveBatch(nil)
	if err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("empty report not written: %v", err)
	}
}
