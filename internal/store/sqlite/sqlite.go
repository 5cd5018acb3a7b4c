package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"mail-triage/internal/models"
	"mail-triage/internal/store"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store implements store.Store backed by a local SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at the given path and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serialises writers so conditional inserts never see SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS messages (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL UNIQUE,
	owner_id     TEXT NOT NULL,
	subject      TEXT NOT NULL DEFAULT '',
	body         TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL DEFAULT '',
	has_deadline INTEGER NOT NULL DEFAULT 0,
	content_key  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_owner_content ON messages (owner_id, content_key);

CREATE TABLE IF NOT EXISTS deadlines (
	seq      INTEGER PRIMARY KEY AUTOINCREMENT,
	id       TEXT NOT NULL UNIQUE,
	owner_id TEXT NOT NULL,
	title    TEXT NOT NULL,
	date     TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	source   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_deadlines_owner_title_date ON deadlines (owner_id, title, date);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) QueryMessages(ctx context.Context, ownerID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, subject, body, category, has_deadline FROM messages WHERE owner_id = ? ORDER BY seq", ownerID)
	if err != nil {
		return nil, store.Wrap("QueryMessages", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Subject, &m.Body, &m.Category, &m.HasDeadline); err != nil {
			return nil, store.Wrap("QueryMessages", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, store.Wrap("QueryMessages", rows.Err())
}

func (s *Store) InsertMessage(ctx context.Context, msg models.Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, owner_id, subject, body, category, has_deadline, content_key)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, newID(msg.ID), msg.OwnerID, msg.Subject, msg.Body, msg.Category, msg.HasDeadline, msg.ContentKey())
	return store.Wrap("InsertMessage", err)
}

func (s *Store) InsertMessageIfAbsent(ctx context.Context, msg models.Message) (bool, error) {
	key := msg.ContentKey()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, owner_id, subject, body, category, has_deadline, content_key)
		SELECT ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM messages WHERE owner_id = ? AND content_key = ?)
	`, newID(msg.ID), msg.OwnerID, msg.Subject, msg.Body, msg.Category, msg.HasDeadline, key, msg.OwnerID, key)
	if err != nil {
		return false, store.Wrap("InsertMessageIfAbsent", err)
	}
	return inserted(res, "InsertMessageIfAbsent")
}

func (s *Store) QueryDeadlines(ctx context.Context, ownerID string, filter store.DeadlineFilter) ([]models.Deadline, error) {
	return s.queryDeadlines(ctx, "QueryDeadlines",
		"SELECT id, title, date, category, source FROM deadlines WHERE owner_id = ? AND title = ? AND date = ? ORDER BY seq",
		ownerID, filter.Title, filter.Date)
}

func (s *Store) QueryAllDeadlines(ctx context.Context, ownerID string) ([]models.Deadline, error) {
	return s.queryDeadlines(ctx, "QueryAllDeadlines",
		"SELECT id, title, date, category, source FROM deadlines WHERE owner_id = ? ORDER BY seq",
		ownerID)
}

func (s *Store) queryDeadlines(ctx context.Context, op, query string, args ...any) ([]models.Deadline, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.Wrap(op, err)
	}
	defer rows.Close()

	var out []models.Deadline
	for rows.Next() {
		var d models.Deadline
		var source string
		if err := rows.Scan(&d.ID, &d.Title, &d.Date, &d.Category, &source); err != nil {
			return nil, store.Wrap(op, err)
		}
		d.Source = models.DeadlineSource(source)
		out = append(out, d)
	}
	return out, store.Wrap(op, rows.Err())
}

func (s *Store) InsertDeadline(ctx context.Context, ownerID string, d models.Deadline) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO deadlines (id, owner_id, title, date, category, source)
		VALUES (?, ?, ?, ?, ?, ?)
	`, newID(d.ID), ownerID, d.Title, d.Date, d.Category, string(d.Source))
	return store.Wrap("InsertDeadline", err)
}

func (s *Store) InsertDeadlineIfAbsent(ctx context.Context, ownerID string, d models.Deadline) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO deadlines (id, owner_id, title, date, category, source)
		SELECT ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM deadlines WHERE owner_id = ? AND title = ? AND date = ?
		)
	`, newID(d.ID), ownerID, d.Title, d.Date, d.Category, string(d.Source),
		ownerID, d.Title, d.Date)
	if err != nil {
		return false, store.Wrap("InsertDeadlineIfAbsent", err)
	}
	return inserted(res, "InsertDeadlineIfAbsent")
}

func inserted(res sql.Result, op string) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, store.Wrap(op, err)
	}
	return n > 0, nil
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
