package safety

import (
	"fmt"
	"strings"
)

// DefaultNoReplyPatterns are matched as case-insensitive substrings of the
// sender address.
var DefaultNoReplyPatterns = []string{
	"noreply",
	"no-reply",
	"donotreply",
	"do-not-reply",
	"no_reply",
	"notifications",
	"mailer-daemon",
	"postmaster",
}

// DefaultSpamKeywords are matched as case-insensitive substrings of the
// subject line.
var DefaultSpamKeywords = []string{
	"viagra",
	"casino",
	"lottery",
	"nigerian prince",
	"click here now",
	"act now",
	"limited time",
}

// minHumanBody is the trimmed length below which a body looks automated.
const minHumanBody = 50

// Gate runs the reply-safety checks. The pattern lists are data, not
// branching, so deployments can swap them without code changes.
type Gate struct {
	noReplyPatterns []string
	spamKeywords    []string
}

// NewGate builds a gate with the given pattern lists; nil falls back to
// the defaults.
func NewGate(noReplyPatterns, spamKeywords []string) *Gate {
	if noReplyPatterns == nil {
		noReplyPatterns = DefaultNoReplyPatterns
	}
	if spamKeywords == nil {
		spamKeywords = DefaultSpamKeywords
	}
	return &Gate{
		noReplyPatterns: noReplyPatterns,
		spamKeywords:    spamKeywords,
	}
}

// IsNoReply reports whether the address belongs to a mailbox that does not
// accept replies.
func (g *Gate) IsNoReply(addr string) bool {
	lower := strings.ToLower(addr)
	for _, p := range g.noReplyPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Check runs all three safety checks without short-circuiting and returns
// every triggered warning. The message is safe to reply to iff the warning
// list is empty.
func (g *Gate) Check(sender, subject, body string) (bool, []string) {
	var warnings []string

	if g.IsNoReply(sender) {
		warnings = append(warnings, "Sender is a no-reply address")
	}

	subjectLower := strings.ToLower(subject)
	for _, kw := range g.spamKeywords {
		if strings.Contains(subjectLower, kw) {
			warnings = append(warnings, fmt.Sprintf("Suspicious subject content: %s", kw))
		}
	}

	if len(strings.TrimSpace(body)) < minHumanBody {
		warnings = append(warnings, "Very short email body - might be automated")
	}

	return len(warnings) == 0, warnings
}
