package mailbox

import (
	"io"
	"mime"
	"regexp"
	"strconv"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	"github.com/Bandeaditi/mail-automated-system/internal/domain/email"
	"github.com/Bandeaditi/mail-automated-system/internal/safety"
)

var (
	addressPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	htmlTag        = regexp.MustCompile(`<[^>]+>`)
	htmlScript     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	htmlStyle      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// parseMessage turns one fetched IMAP message into a domain record:
// decoded headers, threading fields kept verbatim, plain-text body
// preferred with stripped HTML as fallback, everything sanitized.
func parseMessage(msg *imap.Message, section *imap.BodySectionName) (*email.Record, error) {
	r := msg.GetBody(section)
	if r == nil {
		return nil, io.EOF
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, err
	}

	header := mr.Header

	rec := &email.Record{
		UID:        strconv.FormatUint(uint64(msg.Uid), 10),
		TraceID:    uuid.New().String(),
		From:       extractAddress(header.Get("From")),
		Subject:    decodeHeader(header.Get("Subject")),
		MessageID:  strings.TrimSpace(header.Get("Message-Id")),
		InReplyTo:  strings.TrimSpace(header.Get("In-Reply-To")),
		References: strings.TrimSpace(header.Get("References")),
		Date:       msg.InternalDate,
	}

	if toList, err := header.AddressList("To"); err == nil && len(toList) > 0 {
		rec.To = toList[0].Address
	}

	if date, err := header.Date(); err == nil && !date.IsZero() {
		rec.Date = date
	}

	var plain, html string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			break
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, err := h.ContentType()
		if err != nil {
			continue
		}

		switch contentType {
		case "text/plain":
			if body, err := io.ReadAll(p.Body); err == nil && plain == "" {
				plain = string(body)
			}
		case "text/html":
			if body, err := io.ReadAll(p.Body); err == nil && html == "" {
				html = string(body)
			}
		}
	}

	body := plain
	if body == "" && html != "" {
		body = stripHTML(html)
	}
	rec.Body = safety.SanitizeBody(body)

	return rec, nil
}

// extractAddress pulls the bare address out of a From header that may
// carry a display name.
func extractAddress(fromHeader string) string {
	return addressPattern.FindString(fromHeader)
}

// decodeHeader decodes MIME-encoded header words (e.g. "=?UTF-8?B?...?=").
func decodeHeader(encoded string) string {
	decoder := new(mime.WordDecoder)
	decoded, err := decoder.DecodeHeader(encoded)
	if err != nil {
		return encoded
	}
	return decoded
}

// stripHTML is a rough tag stripper, good enough for feeding body text to
// the model.
func stripHTML(html string) string {
	html = htmlScript.ReplaceAllString(html, "")
	html = htmlStyle.ReplaceAllString(html, "")
	html = htmlTag.ReplaceAllString(html, " ")

	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", `"`,
	)
	html = replacer.Replace(html)

	return strings.TrimSpace(whitespaceRun.ReplaceAllString(html, " "))
}
