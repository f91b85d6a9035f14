// File path: internal/session/store.go
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/meditrainhq/meditrain/internal/common"
)

// ErrNotFound is returned when a session id has no row.
var ErrNotFound = errors.New("session not found")

const previewLimit = 50

// Config holds the SQLite settings for the consultation history store.
type Config struct {
	Path string
}

// LoadConfig reads the store configuration from the environment.
// MEDITRAIN_DB overrides the database path.
func LoadConfig() Config {
	cfg := Config{Path: "meditrain.db"}
	if v := strings.TrimSpace(os.Getenv("MEDITRAIN_DB")); v != "" {
		cfg.Path = v
	}
	return cfg
}

// Session is one doctor/patient consultation.
type Session struct {
	ID        string    `db:"id" json:"session_id"`
	Email     string    `db:"email" json:"email"`
	CaseID    string    `db:"case_id" json:"case_id"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}

// Message is a single turn inside a session.
type Message struct {
	ID        int64     `db:"id" json:"-"`
	SessionID string    `db:"session_id" json:"-"`
	Role      string    `db:"role" json:"role"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}

// Summary is the list-view projection of a session: its identifiers plus a
// truncated preview of the most recent message.
type Summary struct {
	SessionID string    `json:"session_id"`
	CaseID    string    `json:"case_id"`
	Timestamp time.Time `json:"timestamp"`
	Preview   string    `json:"preview"`
}

// Store persists consultation sessions and their transcripts in SQLite.
type Store struct {
	db *sqlx.DB
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
                id TEXT PRIMARY KEY,
                email TEXT NOT NULL,
                case_id TEXT NOT NULL,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_email ON sessions(email);`,
	`CREATE TABLE IF NOT EXISTS messages (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                session_id TEXT NOT NULL,
                role TEXT NOT NULL,
                content TEXT NOT NULL,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                FOREIGN KEY(session_id) REFERENCES sessions(id) ON DELETE CASCADE
        );`,
	`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id);`,
}

// Open connects to the SQLite database at cfg.Path and migrates the schema.
func Open(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("session: database path required")
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", cfg.Path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping session db: %w", err)
	}
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate session db: %w", err)
		}
	}
	common.Logger().Info("session: store ready", "path", cfg.Path)
	return &Store{db: db}, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Start creates a new session for the given trainee email and case.
func (s *Store) Start(ctx context.Context, email, caseID string) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		Email:     strings.TrimSpace(email),
		CaseID:    strings.TrimSpace(caseID),
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, email, case_id, created_at) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.Email, sess.CaseID, sess.CreatedAt)
	if err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}
	return sess, nil
}

// Get loads one session by id.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := s.db.GetContext(ctx, &sess,
		`SELECT id, email, case_id, created_at FROM sessions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// Append records one conversation turn. The session must exist.
func (s *Store) Append(ctx context.Context, sessionID, role, content string) error {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, role, content, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// Messages returns a session's transcript in insertion order.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]Message, error) {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	var msgs []Message
	err := s.db.SelectContext(ctx, &msgs,
		`SELECT id, session_id, role, content, created_at FROM messages WHERE session_id = ? ORDER BY id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	return msgs, nil
}

// Sessions lists a trainee's sessions, most recent first, each with a preview
// of its latest message.
func (s *Store) Sessions(ctx context.Context, email string) ([]Summary, error) {
	rows := []struct {
		ID        string    `db:"id"`
		CaseID    string    `db:"case_id"`
		CreatedAt time.Time `db:"created_at"`
		Last      string    `db:"last"`
	}{}
	err := s.db.SelectContext(ctx, &rows, `
                SELECT s.id, s.case_id, s.created_at,
                       COALESCE((SELECT m.content FROM messages m
                                 WHERE m.session_id = s.id
                                 ORDER BY m.id DESC LIMIT 1), '') AS last
                FROM sessions s
                WHERE s.email = ?
                ORDER BY s.created_at DESC, s.id`, email)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]Summary, 0, len(rows))
	for _, r := range rows {
		out = append(out, Summary{
			SessionID: r.ID,
			CaseID:    r.CaseID,
			Timestamp: r.CreatedAt,
			Preview:   preview(r.Last),
		})
	}
	return out, nil
}

// preview truncates the latest message for list views. The trailing ellipsis
// is unconditional to match what trainees already see in the UI.
func preview(content string) string {
	if content == "" {
		return ""
	}
	runes := []rune(content)
	if len(runes) > previewLimit {
		runes = runes[:previewLimit]
	}
	return string(runes) + "..."
}
