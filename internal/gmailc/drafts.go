package gmailc

import (
	"encoding/base64"
	"fmt"

	"google.golang.org/api/gmail/v1"

	"github.com/Bandeaditi/mail-automated-system/internal/domain/email"
)

// UploadDraft stores an unapproved draft in the Gmail drafts folder so it
// can be reviewed or sent from any client. Nothing is sent here.
func (c *Client) UploadDraft(rec *email.Record, draft *email.Draft) error {
	raw := fmt.Sprintf(
		"To: %s\r\nSubject: %s\r\n\r\n%s",
		rec.From, draft.Subject, draft.Body,
	)

	encoded := base64.URLEncoding.EncodeToString([]byte(raw))

	_, err := c.srv.Users.Drafts.Create("me", &gmail.Draft{
		Message: &gmail.Message{
			Raw: encoded,
		},
	}).Do()

	return err
}
