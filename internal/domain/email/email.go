package email

import "time"

// Record holds the immutable facts about one fetched message. The mailbox
// adapter fills every field except Classification and Draft, which the
// pipeline attaches after triage and reply generation.
type Record struct {
	UID     string
	TraceID string

	From    string
	To      string
	Subject string
	Body    string
	Date    time.Time

	// Threading headers, kept verbatim as they appeared on the wire.
	MessageID  string
	InReplyTo  string
	References string

	Classification *Classification
	Draft          *Draft
}

func NewRecord(uid, from, to, subject, body string) *Record {
	return &Record{
		UID:     uid,
		From:    from,
		To:      to,
		Subject: subject,
		Body:    body,
		Date:    time.Now(),
	}
}

// Classify replaces the current classification. A re-triage overwrites
// entirely, it never merges with a previous result.
func (r *Record) Classify(c *Classification) {
	r.Classification = c
}

func (r *Record) Replyable() bool {
	return r.Classification != nil && r.Classification.Replyability == ReplyabilityYes
}

func (r *Record) NeedsReply() bool {
	return r.Classification != nil && r.Classification.Action == ActionReply
}
