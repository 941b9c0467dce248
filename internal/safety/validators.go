// Package safety holds the pre-flight checks that run before any model
// call or outbound send: no-reply detection, spam heuristics, address and
// header validation, body sanitization.
package safety

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

// Bounds shared by draft validation in the reply engine and the dispatch
// engine.
const (
	MinDraftBody    = 20
	MaxDraftBody    = 10000
	MinDispatchBody = 10
	MaxSubjectLen   = 500
)

var (
	manyNewlines = regexp.MustCompile(`\n{4,}`)
	manySpaces   = regexp.MustCompile(` {3,}`)
)

// ValidateAddress checks that an address is well-formed enough to send to.
func ValidateAddress(addr string) (bool, string) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return false, "email address is empty"
	}
	if !strings.Contains(addr, "@") {
		return false, "email must contain @"
	}

	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return false, "invalid email format"
	}

	domain := parsed.Address[strings.LastIndex(parsed.Address, "@")+1:]
	if !strings.Contains(domain, ".") {
		return false, "email domain must contain a dot"
	}

	return true, ""
}

// ValidateSubject rejects subjects that could smuggle extra headers into
// the outbound message.
func ValidateSubject(subject string) (bool, string) {
	if strings.TrimSpace(subject) == "" {
		return true, ""
	}
	if len(subject) > MaxSubjectLen {
		return false, fmt.Sprintf("subject exceeds maximum length (%d chars)", MaxSubjectLen)
	}

	for _, c := range []string{"\n", "\r", "\x00"} {
		if strings.Contains(subject, c) {
			return false, fmt.Sprintf("subject contains suspicious character: %q", c)
		}
	}

	return true, ""
}

// ValidateDraftBody applies the length bounds a generated draft must stay
// within.
func ValidateDraftBody(body string) (bool, string) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return false, "reply draft is empty"
	}
	if len(trimmed) < MinDraftBody {
		return false, fmt.Sprintf("reply draft too short (%d < %d chars)", len(trimmed), MinDraftBody)
	}
	if len(trimmed) > MaxDraftBody {
		return false, fmt.Sprintf("reply draft too long (%d > %d chars)", len(trimmed), MaxDraftBody)
	}
	return true, ""
}

// SanitizeBody normalizes a message body for storage and prompting:
// strips NUL bytes, unifies line endings and collapses excessive
// whitespace.
func SanitizeBody(body string) string {
	if body == "" {
		return ""
	}

	body = strings.ReplaceAll(body, "\x00", "")
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	body = manyNewlines.ReplaceAllString(body, "\n\n\n")
	body = manySpaces.ReplaceAllString(body, "  ")

	return strings.TrimSpace(body)
}
