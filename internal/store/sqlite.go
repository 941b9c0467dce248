// Package store keeps the processed-email ledger in SQLite: fetched
// messages, their triage verdicts and their drafts. Re-runs consult it to
// skip mail that was already triaged.
package store

import (
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Bandeaditi/mail-automated-system/internal/domain/email"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	schema := `
CREATE TABLE IF NOT EXISTS emails (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uid TEXT UNIQUE,
    from_addr TEXT,
    to_addr TEXT,
    subject TEXT,
    body TEXT,
    message_id TEXT,
    in_reply_to TEXT,
    refs TEXT,
    importance TEXT,
    replyability TEXT,
    action TEXT,
    urgency INTEGER,
    reasoning TEXT,
    draft_subject TEXT,
    draft_body TEXT,
    draft_reasoning TEXT,
    should_send INTEGER,
    warnings TEXT,
    sent_at INTEGER,
    created_at INTEGER
);
`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTriage records a triaged message. A re-triage of the same UID
// replaces the previous row entirely.
func (s *Store) SaveTriage(rec *email.Record) error {
	c := rec.Classification
	if c == nil {
		c = &email.Classification{}
	}

	_, err := s.db.Exec(
		`INSERT INTO emails
         (uid, from_addr, to_addr, subject, body, message_id, in_reply_to, refs,
          importance, replyability, action, urgency, reasoning, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(uid) DO UPDATE SET
          importance=excluded.importance,
          replyability=excluded.replyability,
          action=excluded.action,
          urgency=excluded.urgency,
          reasoning=excluded.reasoning`,
		rec.UID, rec.From, rec.To, rec.Subject, rec.Body,
		rec.MessageID, rec.InReplyTo, rec.References,
		string(c.Importance), string(c.Replyability), string(c.Action),
		c.Urgency, c.Reasoning, time.Now().Unix(),
	)
	return err
}

// SaveDraft attaches the current draft to an already-saved message.
func (s *Store) SaveDraft(uid string, d *email.Draft) error {
	shouldSend := 0
	if d.ShouldSend {
		shouldSend = 1
	}

	_, err := s.db.Exec(
		`UPDATE emails SET
          draft_subject = ?, draft_body = ?, draft_reasoning = ?,
          should_send = ?, warnings = ?
         WHERE uid = ?`,
		d.Subject, d.Body, d.Reasoning, shouldSend,
		strings.Join(d.Warnings, "; "), uid,
	)
	return err
}

// MarkSent stamps the send time on a dispatched message.
func (s *Store) MarkSent(uid string) error {
	_, err := s.db.Exec(`UPDATE emails SET sent_at = ? WHERE uid = ?`, time.Now().Unix(), uid)
	return err
}

// AlreadyProcessed reports whether a UID has been triaged before.
func (s *Store) AlreadyProcessed(uid string) (bool, error) {
	row := s.db.QueryRow(`SELECT 1 FROM emails WHERE uid = ? LIMIT 1`, uid)
	var dummy int
	err := row.Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
