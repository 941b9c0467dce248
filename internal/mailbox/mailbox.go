// Package mailbox supplies raw message records to the pipeline. The core
// never speaks a mailbox protocol itself; it consumes this interface.
package mailbox

import (
	"context"

	"github.com/Bandeaditi/mail-automated-system/internal/domain/email"
)

type Mailbox interface {
	// FetchRecent returns up to max messages from the folder, newest
	// first, with headers, threading fields and a sanitized plain-text
	// body filled in.
	FetchRecent(ctx context.Context, folder string, max int) ([]*email.Record, error)
	Close() error
}
