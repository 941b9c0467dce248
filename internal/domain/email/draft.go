package email

import "strings"

// MinSendableBody is the trimmed body length a draft must exceed before
// ShouldSend may be true.
const MinSendableBody = 20

// Draft is a candidate reply pending human approval. Drafts are created
// whole and never patched; refinement produces a new Draft.
type Draft struct {
	Subject    string
	Body       string
	Reasoning  string
	ShouldSend bool
	Warnings   []string
}

func (d *Draft) AddWarning(w string) {
	d.Warnings = append(d.Warnings, w)
}

// Sendable reports whether the body clears the minimum-content bar.
func (d *Draft) Sendable() bool {
	return len(strings.TrimSpace(d.Body)) > MinSendableBody
}

// DispatchRecord pairs a record with its draft and the explicit approval
// flag. It is consumed exactly once by the dispatch engine and never
// retried automatically.
type DispatchRecord struct {
	Email    *Record
	Draft    *Draft
	Approved bool
}
