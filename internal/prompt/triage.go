// Package prompt is the codec between the typed domain and the model's
// free-text channel: it renders the fixed prompt templates and parses the
// rigid response grammars back into typed fields. Parsing is lenient;
// every path has a non-failing default.
package prompt

import (
	"fmt"
	"strconv"
	"strings"
)

// triageBodyLimit bounds the excerpt embedded in the triage prompt.
const triageBodyLimit = 1000

// Response labels. Matching is exact-prefix and case-sensitive.
const (
	labelActionable = "ACTIONABLE:"
	labelUrgency    = "URGENCY:"
	labelReasoning  = "REASONING:"
)

const triageTemplate = `Analyze this email and tell me:
1. Does it need a response/action from me?
2. How urgent is it (0-100)?
3. Why?

EMAIL:
From: %s
Subject: %s
Body: %s

Respond in this exact format:
ACTIONABLE: YES or NO
URGENCY: [number 0-100]
REASONING: [one sentence why]

Examples:

Email: "Can you send the Q4 report urgently?"
ACTIONABLE: YES
URGENCY: 85
REASONING: Requests document with urgent keyword

Email: "FYI - New policy update"
ACTIONABLE: NO
URGENCY: 20
REASONING: Just information, no action needed

Email: "Please review this by tomorrow"
ACTIONABLE: YES
URGENCY: 70
REASONING: Requests review with deadline

Now analyze the email above:`

// Triage renders the classification prompt for one message.
func Triage(from, subject, body string) string {
	if len(body) > triageBodyLimit {
		body = body[:triageBodyLimit]
	}
	return fmt.Sprintf(triageTemplate, from, subject, body)
}

// TriageResult is the typed form of a triage response.
type TriageResult struct {
	Actionable bool
	Urgency    int
	Reasoning  string
}

// ParseTriage scans the response for the three fixed labels. Unmatched or
// malformed lines are ignored; a non-numeric urgency falls back to 50 and
// numeric values are clamped into [0,100].
func ParseTriage(response string) TriageResult {
	result := TriageResult{
		Actionable: false,
		Urgency:    50,
		Reasoning:  "Standard email",
	}

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, labelActionable):
			value := strings.ToUpper(strings.TrimSpace(line[len(labelActionable):]))
			result.Actionable = value == "YES"

		case strings.HasPrefix(line, labelUrgency):
			value := strings.TrimSpace(line[len(labelUrgency):])
			n, err := strconv.Atoi(value)
			if err != nil {
				result.Urgency = 50
				continue
			}
			result.Urgency = clamp(n, 0, 100)

		case strings.HasPrefix(line, labelReasoning):
			result.Reasoning = strings.TrimSpace(line[len(labelReasoning):])
		}
	}

	return result
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
