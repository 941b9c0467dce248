package email

type Importance string

const (
	ImportanceCritical Importance = "CRITICAL"
	ImportanceHigh     Importance = "HIGH"
	ImportanceNormal   Importance = "NORMAL"
	ImportanceLow      Importance = "LOW"
)

type Replyability string

const (
	ReplyabilityYes     Replyability = "YES"
	ReplyabilityNo      Replyability = "NO"
	ReplyabilityUnknown Replyability = "UNKNOWN"
)

type Action string

const (
	ActionReply    Action = "REPLY"
	ActionReadOnly Action = "READ_ONLY"
	ActionTrack    Action = "TRACK"
	ActionIgnore   Action = "IGNORE"
)

func (i Importance) IsValid() bool {
	switch i {
	case ImportanceCritical, ImportanceHigh, ImportanceNormal, ImportanceLow:
		return true
	}
	return false
}

func (a Action) IsValid() bool {
	switch a {
	case ActionReply, ActionReadOnly, ActionTrack, ActionIgnore:
		return true
	}
	return false
}

// Classification is the triage verdict for one message. Urgency stays in
// [0,100] and Importance is always derived from it through
// ImportanceForUrgency, so the two never disagree.
type Classification struct {
	Importance   Importance
	Replyability Replyability
	Action       Action
	Urgency      int
	Reasoning    string
}

func NewClassification(replyability Replyability, action Action, urgency int, reasoning string) *Classification {
	return &Classification{
		Importance:   ImportanceForUrgency(urgency),
		Replyability: replyability,
		Action:       action,
		Urgency:      urgency,
		Reasoning:    reasoning,
	}
}

// ImportanceForUrgency maps an urgency score to an importance bucket.
// Thresholds are hand-tuned; see the triage prompt for how scores are asked for.
func ImportanceForUrgency(urgency int) Importance {
	switch {
	case urgency >= 80:
		return ImportanceCritical
	case urgency >= 60:
		return ImportanceHigh
	case urgency >= 30:
		return ImportanceNormal
	default:
		return ImportanceLow
	}
}

// NoReplyClassification is the fixed verdict for mail from no-reply senders.
// No model call is involved.
func NoReplyClassification() *Classification {
	return NewClassification(ReplyabilityNo, ActionReadOnly, 0, "No-reply address")
}

// FallbackClassification is the safety net used when the model is
// unreachable or returns nothing usable.
func FallbackClassification() *Classification {
	return &Classification{
		Importance:   ImportanceNormal,
		Replyability: ReplyabilityUnknown,
		Action:       ActionReadOnly,
		Urgency:      50,
		Reasoning:    "model unavailable - default analysis",
	}
}
