// Package session persists sessions and their append-only command logs in
// a SQLite database.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/doeshing/guardsh/internal/domain"
	"github.com/doeshing/guardsh/internal/pkg/filesystem"
	"github.com/doeshing/guardsh/internal/ports"
)

// SQLiteStore implements ports.SessionStore over a SQLite database.
// Command entries are append-only; the only deletion path is the explicit
// Clear operation.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the ~/.guardsh/sessions.db database.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreAt(filepath.Join(filesystem.GuardshDir(), "sessions.db"))
}

// NewSQLiteStoreAt opens a store at an explicit path.
func NewSQLiteStoreAt(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("ensure session dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT,
		working_dir TEXT,
		environment TEXT,
		started_at TEXT,
		last_activity_at TEXT,
		status TEXT
	);
	CREATE TABLE IF NOT EXISTS command_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		input_text TEXT,
		command TEXT,
		risk_level TEXT,
		state TEXT,
		assessment_summary TEXT,
		result_summary TEXT,
		exit_code INTEGER,
		duration_ms INTEGER,
		timestamp TEXT,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);`)
	if err != nil {
		return fmt.Errorf("init session schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Start implements ports.SessionStore.
func (s *SQLiteStore) Start(ctx context.Context, userID, workingDir string, env map[string]string) (domain.Session, error) {
	now := time.Now().UTC()
	sess := domain.Session{
		ID:             uuid.NewString(),
		UserID:         userID,
		WorkingDir:     workingDir,
		Environment:    env,
		StartedAt:      now,
		LastActivityAt: now,
		Status:         domain.SessionActive,
	}
	envJSON, err := json.Marshal(env)
	if err != nil {
		return domain.Session{}, fmt.Errorf("encode environment: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO sessions
		(id, user_id, working_dir, environment, started_at, last_activity_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.WorkingDir, string(envJSON),
		now.Format(domain.TimestampFormat), now.Format(domain.TimestampFormat),
		string(sess.Status),
	)
	if err != nil {
		return domain.Session{}, fmt.Errorf("inserting session: %w", err)
	}
	return sess, nil
}

// Get implements ports.SessionStore.
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, user_id, working_dir, environment,
		started_at, last_activity_at, status FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return sess, err
}

// List implements ports.SessionStore.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]domain.Session, error) {
	query := `SELECT id, user_id, working_dir, environment, started_at, last_activity_at, status
		FROM sessions ORDER BY datetime(started_at) DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Append implements ports.SessionStore. It also advances the session's
// last-activity timestamp.
func (s *SQLiteStore) Append(ctx context.Context, sessionID string, entry domain.CommandEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO command_entries
		(session_id, input_text, command, risk_level, state, assessment_summary,
		 result_summary, exit_code, duration_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, entry.InputText, entry.Command, entry.RiskLevel.String(),
		string(entry.State), entry.AssessmentSummary, entry.ResultSummary,
		entry.ExitCode, entry.DurationMS,
		entry.Timestamp.Format(domain.TimestampFormat),
	)
	if err != nil {
		return fmt.Errorf("appending command entry: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE sessions SET last_activity_at = ? WHERE id = ?`,
		entry.Timestamp.Format(domain.TimestampFormat), sessionID)
	if err != nil {
		return fmt.Errorf("updating session activity: %w", err)
	}
	return nil
}

// Entries implements ports.SessionStore. Entries come back in insertion
// order, oldest first.
func (s *SQLiteStore) Entries(ctx context.Context, sessionID string, limit int) ([]domain.CommandEntry, error) {
	query := `SELECT input_text, command, risk_level, state, assessment_summary,
		result_summary, exit_code, duration_ms, timestamp
		FROM command_entries WHERE session_id = ? ORDER BY id`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing command entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.CommandEntry
	for rows.Next() {
		var entry domain.CommandEntry
		var level, state, ts string
		if err := rows.Scan(&entry.InputText, &entry.Command, &level, &state,
			&entry.AssessmentSummary, &entry.ResultSummary,
			&entry.ExitCode, &entry.DurationMS, &ts); err != nil {
			return nil, fmt.Errorf("scanning command entry: %w", err)
		}
		entry.RiskLevel = domain.ParseRiskLevel(level)
		entry.State = domain.PipelineState(state)
		if t, err := time.Parse(domain.TimestampFormat, ts); err == nil {
			entry.Timestamp = t
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Terminate implements ports.SessionStore.
func (s *SQLiteStore) Terminate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET status = ? WHERE id = ?`,
		string(domain.SessionTerminated), id)
	if err != nil {
		return fmt.Errorf("terminating session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Clear implements ports.SessionStore. This is the only deletion path for
// command entries.
func (s *SQLiteStore) Clear(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM command_entries WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("clearing command entries: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var sess domain.Session
	var envJSON, startedAt, lastActivity, status string
	if err := row.Scan(&sess.ID, &sess.UserID, &sess.WorkingDir, &envJSON,
		&startedAt, &lastActivity, &status); err != nil {
		return domain.Session{}, err
	}
	if envJSON != "" {
		if err := json.Unmarshal([]byte(envJSON), &sess.Environment); err != nil {
			return domain.Session{}, fmt.Errorf("decode environment: %w", err)
		}
	}
	if t, err := time.Parse(domain.TimestampFormat, startedAt); err == nil {
		sess.StartedAt = t
	}
	if t, err := time.Parse(domain.TimestampFormat, lastActivity); err == nil {
		sess.LastActivityAt = t
	}
	sess.Status = domain.SessionStatus(status)
	return sess, nil
}

var _ ports.SessionStore = (*SQLiteStore)(nil)
