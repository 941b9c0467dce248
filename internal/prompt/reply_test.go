package prompt

import (
	"strings"
	"testing"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name          string
		response      string
		wantSubject   string
		wantBody      string
		wantReasoning string
	}{
		{
			name: "well formed three sections",
			response: "SUBJECT: Re: Project update\n---\nBODY:\nHi Sam,\n\nThanks for the update. I will review it today.\n\nBest\n---\nREASONING: acknowledges and commits to a time",
			wantSubject:   "Re: Project update",
			wantBody:      "Hi Sam,\n\nThanks for the update. I will review it today.\n\nBest",
			wantReasoning: "acknowledges and commits to a time",
		},
		{
			name:        "subject only",
			response:    "SUBJECT: Re: Hello\n---\n",
			wantSubject: "Re: Hello",
			wantBody:    "",
		},
		{
			name: "loose body without label",
			response: "SUBJECT: Re: Invoice question\n---\nHi there, thanks for reaching out about the invoice. I have attached the corrected version for your records.\n---\nREASONING: answers the question",
			wantSubject:   "Re: Invoice question",
			wantBody:      "Hi there, thanks for reaching out about the invoice. I have attached the corrected version for your records.",
			wantReasoning: "answers the question",
		},
		{
			name:     "first segment never treated as loose body",
			response: "This is a fairly long preamble from the model that exceeds fifty characters easily but has no labels at all",
			wantBody: "",
		},
		{
			name: "short unlabeled segment ignored",
			response: "SUBJECT: Re: Hi\n---\nshort text\n---\nREASONING: too terse",
			wantSubject:   "Re: Hi",
			wantBody:      "",
			wantReasoning: "too terse",
		},
		{
			name:     "empty response",
			response: "",
			wantBody: "",
		},
		{
			name: "body label on same line",
			response: "SUBJECT: Re: Sync\n---\nBODY: Sounds good, let us meet at three tomorrow afternoon.\n---\nREASONING: confirms the slot",
			wantSubject:   "Re: Sync",
			wantBody:      "Sounds good, let us meet at three tomorrow afternoon.",
			wantReasoning: "confirms the slot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseReply(tt.response)
			if got.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", got.Subject, tt.wantSubject)
			}
			if got.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", got.Body, tt.wantBody)
			}
			if got.Reasoning != tt.wantReasoning {
				t.Errorf("Reasoning = %q, want %q", got.Reasoning, tt.wantReasoning)
			}
		})
	}
}

func TestReplyPrompt(t *testing.T) {
	t.Run("includes sender subject and body", func(t *testing.T) {
		p := Reply("alice@example.com", "me@example.com", "Re: Budget", "Can you confirm the numbers?", "")
		for _, want := range []string{
			"alice@example.com",
			"Re: Budget",
			"Can you confirm the numbers?",
			contextPlaceholder,
		} {
			if !strings.Contains(p, want) {
				t.Errorf("prompt missing %q", want)
			}
		}
	})

	t.Run("user context replaces placeholder", func(t *testing.T) {
		p := Reply("a@b.com", "me@b.com", "Subject", "body", "keep it short and decline politely")
		if !strings.Contains(p, "keep it short and decline politely") {
			t.Error("user context missing from prompt")
		}
		if strings.Contains(p, contextPlaceholder) {
			t.Error("placeholder left in prompt despite user context")
		}
	})

	t.Run("reply prefix stripped for format hint", func(t *testing.T) {
		p := Reply("a@b.com", "me@b.com", "Re: Quarterly report", "body", "")
		if !strings.Contains(p, `"Re: Quarterly report"`) {
			t.Error("format hint should rebuild a single Re: prefix")
		}
		if strings.Contains(p, "Re: Re:") {
			t.Error("format hint doubled the Re: prefix")
		}
	})

	t.Run("long body truncated with marker", func(t *testing.T) {
		body := strings.Repeat("y", replyBodyLimit+500)
		p := Reply("a@b.com", "me@b.com", "s", body, "")
		if !strings.Contains(p, truncationMarker) {
			t.Error("truncation marker missing")
		}
		if strings.Contains(p, strings.Repeat("y", replyBodyLimit+1)) {
			t.Error("body not truncated")
		}
	})

	t.Run("short body not truncated", func(t *testing.T) {
		p := Reply("a@b.com", "me@b.com", "s", "short body", "")
		if strings.Contains(p, truncationMarker) {
			t.Error("truncation marker present for short body")
		}
	})
}

func TestRefinePrompt(t *testing.T) {
	p := Refine("Original draft text here", "make it more formal")
	if !strings.Contains(p, "Original draft text here") {
		t.Error("original draft missing")
	}
	if !strings.Contains(p, "make it more formal") {
		t.Error("instructions missing")
	}
	if !strings.Contains(p, "BODY:") || !strings.Contains(p, "REASONING:") {
		t.Error("refine format hint missing")
	}
}
