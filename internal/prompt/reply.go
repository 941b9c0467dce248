package prompt

import (
	"fmt"
	"strings"
)

const (
	// replyBodyLimit bounds the original body embedded in the reply prompt.
	replyBodyLimit = 2000

	truncationMarker   = "\n\n[... email truncated for length ...]"
	contextPlaceholder = "No additional context provided."

	// sectionDelimiter separates the SUBJECT/BODY/REASONING sections of a
	// reply response.
	sectionDelimiter = "---"

	labelSubject = "SUBJECT:"
	labelBody    = "BODY:"

	// minLooseBody is the length past which a delimiter-separated segment
	// without a BODY: prefix is still treated as the body. Models often
	// drop the prefix; this leniency can also misread a long REASONING-less
	// segment as body text.
	minLooseBody = 50
)

const replyTemplate = `You are a professional email writing assistant.

Generate a polite, professional reply to the following email.

ORIGINAL EMAIL:
---
From: %s
To: %s
Subject: %s
Body:
%s
---

CONTEXT:
%s

REPLY GUIDELINES:

1. ACKNOWLEDGE URGENCY:
   - If email says "urgent/asap/immediately" start with "I understand the urgency..."
   - If requesting documents, acknowledge the request clearly

2. BE SPECIFIC:
   - If they need documents, state which documents and when you'll send them
   - If they ask questions, answer each question directly
   - If they need action, confirm what you'll do and by when

3. PROVIDE TIMELINE:
   - If urgent: "I'll get this to you within [X hours]"
   - If high priority: "I'll have this ready by [specific date/time]"
   - If you need more time: "I'll need until [date] to complete this properly"

4. PROFESSIONAL TONE:
   - Be warm but professional
   - Show you understand their needs
   - Keep it concise (2-4 paragraphs max)

5. IF UNSURE:
   - Don't make commitments you can't keep
   - Use: "Let me check and get back to you by [time]"

RESPONSE FORMAT:
You MUST respond in EXACTLY this format:

SUBJECT: [Reply subject line - typically "Re: %s"]
---
BODY:
[The reply email body - be specific about what you'll do and when]
---
REASONING: [One sentence explaining your approach to the reply]

Now generate a professional reply to the email above. Remember to:
- Acknowledge any urgency
- Be specific about what you'll do
- Provide clear timelines
- Answer all questions directly`

// Reply renders the draft-generation prompt. An empty context string is
// replaced with a fixed placeholder so the template never has a hole.
func Reply(from, to, subject, body, context string) string {
	if len(body) > replyBodyLimit {
		body = body[:replyBodyLimit] + truncationMarker
	}
	if context == "" {
		context = contextPlaceholder
	}

	originalSubject := strings.TrimPrefix(strings.TrimPrefix(subject, "Re: "), "RE: ")

	return fmt.Sprintf(replyTemplate, from, to, subject, body, context, originalSubject)
}

const refineTemplate = `You are refining an email reply based on user feedback.

ORIGINAL DRAFT:
---
%s
---

USER FEEDBACK:
%s

Please revise the draft according to the user's feedback. Maintain professional tone.

RESPONSE FORMAT:
BODY:
[The refined email body]
---
REASONING: [One sentence explaining the changes made]
`

// Refine renders the draft-refinement prompt: same BODY/REASONING contract
// as Reply, without a SUBJECT section.
func Refine(originalDraft, instructions string) string {
	return fmt.Sprintf(refineTemplate, originalDraft, instructions)
}

// ReplyResult is the typed form of a reply response. Absent sections stay
// empty; the caller decides the fallbacks.
type ReplyResult struct {
	Subject   string
	Body      string
	Reasoning string
}

// ParseReply splits the response on the section delimiter and matches
// section prefixes. A segment without the BODY: prefix is still accepted
// as the body when it is not the first segment and is long enough to
// plausibly be one.
func ParseReply(response string) ReplyResult {
	var result ReplyResult

	parts := strings.Split(response, sectionDelimiter)

	for i, part := range parts {
		part = strings.TrimSpace(part)

		switch {
		case strings.HasPrefix(part, labelSubject):
			result.Subject = strings.TrimSpace(part[len(labelSubject):])

		case strings.HasPrefix(part, labelBody):
			result.Body = strings.TrimSpace(part[len(labelBody):])

		case strings.HasPrefix(part, labelReasoning):
			result.Reasoning = strings.TrimSpace(part[len(labelReasoning):])

		case !strings.Contains(part, "BODY") && i > 0:
			if result.Body == "" && len(part) > minLooseBody {
				result.Body = part
			}
		}
	}

	return result
}
