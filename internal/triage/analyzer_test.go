package triage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/Bandeaditi/mail-automated-system/internal/domain/email"
	"github.com/Bandeaditi/mail-automated-system/internal/safety"
)

// fakeModel returns a canned response, or a response picked per call, and
// counts how often it is consulted.
type fakeModel struct {
	response  string
	err       error
	responses []string
	calls     int
}

func (f *fakeModel) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) > 0 {
		r := f.responses[0]
		f.responses = f.responses[1:]
		return r, nil
	}
	return f.response, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestAnalyzer(model *fakeModel) *Analyzer {
	return NewAnalyzer(model, safety.NewGate(nil, nil), quietLogger())
}

func TestAnalyzeActionable(t *testing.T) {
	model := &fakeModel{response: "ACTIONABLE: YES\nURGENCY: 70\nREASONING: Boss asking for document with deadline"}
	a := newTestAnalyzer(model)

	rec := email.NewRecord("1", "boss@co.com", "me@co.com", "URGENT: need the report",
		"Please send the quarterly report by end of day, this is needed for the board meeting tomorrow.")

	c := a.Analyze(context.Background(), rec)

	if c.Replyability != email.ReplyabilityYes {
		t.Errorf("Replyability = %s, want %s", c.Replyability, email.ReplyabilityYes)
	}
	if c.Action != email.ActionReply {
		t.Errorf("Action = %s, want %s", c.Action, email.ActionReply)
	}
	if c.Urgency != 70 {
		t.Errorf("Urgency = %d, want 70", c.Urgency)
	}
	if c.Importance != email.ImportanceHigh {
		t.Errorf("Importance = %s, want %s", c.Importance, email.ImportanceHigh)
	}
	if rec.Classification != c {
		t.Error("classification not attached to the record")
	}
	if model.calls != 1 {
		t.Errorf("model calls = %d, want 1", model.calls)
	}
}

func TestAnalyzeNotActionable(t *testing.T) {
	model := &fakeModel{response: "ACTIONABLE: NO\nURGENCY: 10\nREASONING: newsletter"}
	a := newTestAnalyzer(model)

	rec := email.NewRecord("2", "news@letter.example", "me@co.com", "Weekly digest", "Here is what happened this week in tech, lots of interesting stories.")
	c := a.Analyze(context.Background(), rec)

	if c.Replyability != email.ReplyabilityNo || c.Action != email.ActionReadOnly {
		t.Errorf("got %s/%s, want NO/READ_ONLY", c.Replyability, c.Action)
	}
	if c.Importance != email.ImportanceLow {
		t.Errorf("Importance = %s, want %s", c.Importance, email.ImportanceLow)
	}
}

func TestAnalyzeNoReplySkipsModel(t *testing.T) {
	model := &fakeModel{response: "ACTIONABLE: YES\nURGENCY: 90\nREASONING: should never be used"}
	a := newTestAnalyzer(model)

	rec := email.NewRecord("3", "noreply@github.com", "me@co.com", "Build finished", "Your build completed successfully, see the logs for details.")
	c := a.Analyze(context.Background(), rec)

	if model.calls != 0 {
		t.Fatalf("model calls = %d, want 0 for a no-reply sender", model.calls)
	}
	if c.Replyability != email.ReplyabilityNo {
		t.Errorf("Replyability = %s, want %s", c.Replyability, email.ReplyabilityNo)
	}
	if c.Action != email.ActionReadOnly {
		t.Errorf("Action = %s, want %s", c.Action, email.ActionReadOnly)
	}
	if c.Urgency != 0 {
		t.Errorf("Urgency = %d, want 0", c.Urgency)
	}
}

func TestAnalyzeModelFailure(t *testing.T) {
	model := &fakeModel{err: errors.New("connection refused")}
	a := newTestAnalyzer(model)

	rec := email.NewRecord("4", "alice@example.com", "me@co.com", "Question", "Do you have time for a quick call this afternoon about the contract?")
	c := a.Analyze(context.Background(), rec)

	if c.Replyability != email.ReplyabilityUnknown {
		t.Errorf("Replyability = %s, want %s", c.Replyability, email.ReplyabilityUnknown)
	}
	if c.Urgency != 50 {
		t.Errorf("Urgency = %d, want 50", c.Urgency)
	}
	if c.Importance != email.ImportanceNormal {
		t.Errorf("Importance = %s, want %s", c.Importance, email.ImportanceNormal)
	}
}

func TestAnalyzeBatch(t *testing.T) {
	model := &fakeModel{responses: []string{
		"ACTIONABLE: YES\nURGENCY: 85\nREASONING: urgent client request",
		"ACTIONABLE: NO\nURGENCY: 15\nREASONING: fyi only",
	}}
	a := newTestAnalyzer(model)

	recs := []*email.Record{
		email.NewRecord("1", "client@big.example", "me@co.com", "Contract signature needed",
			"We need the signed contract back today or the deal falls through, please respond."),
		email.NewRecord("2", "noreply@ci.example", "me@co.com", "Pipeline green",
			"All checks passed on the main branch, nothing to do here."),
		email.NewRecord("3", "peer@co.com", "me@co.com", "Design doc",
			"Sharing the design doc for next quarter, no action needed from you right now."),
	}

	a.AnalyzeBatch(context.Background(), recs)

	if model.calls != 2 {
		t.Errorf("model calls = %d, want 2 (no-reply item must skip the model)", model.calls)
	}
	for i, rec := range recs {
		if rec.Classification == nil {
			t.Fatalf("record %d left unclassified", i)
		}
	}
	if recs[0].Classification.Importance != email.ImportanceCritical {
		t.Errorf("first record importance = %s, want %s", recs[0].Classification.Importance, email.ImportanceCritical)
	}
	if recs[1].Classification.Urgency != 0 {
		t.Errorf("no-reply record urgency = %d, want 0", recs[1].Classification.Urgency)
	}
	if recs[2].Classification.Action != email.ActionReadOnly {
		t.Errorf("third record action = %s, want %s", recs[2].Classification.Action, email.ActionReadOnly)
	}
}
