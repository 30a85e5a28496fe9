package store

import (
	"database/sql"

	_ "github.com/glebarez/go-sqlite"
)

// Message is one entry of a session's conversation history.
type Message struct {
	Role    string
	Content string
}

// Reminder is a scheduled notification owned by a session.
type Reminder struct {
	ID              int64
	SessionID       string
	Description     string
	IntervalSeconds int
}

// ActionRecord is one audited executor step.
type ActionRecord struct {
	SessionID string
	RunID     string
	Tool      string
	Note      string
}

// Store persists session history, reminders and the action audit trail.
type Store struct {
	DB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Create tables if not exist
	queries := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT,
			role TEXT,
			content TEXT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS reminders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT,
			description TEXT,
			interval_seconds INTEGER,
			last_run DATETIME,
			status TEXT DEFAULT 'active'
		);`,
		`CREATE TABLE IF NOT EXISTS actions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT,
			run_id TEXT,
			tool TEXT,
			note TEXT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return nil, err
		}
	}

	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) AddMessage(sessionID, role, content string) error {
	query := `INSERT INTO messages (session_id, role, content) VALUES (?, ?, ?)`
	_, err := s.DB.Exec(query, sessionID, role, content)
	return err
}

// GetHistory returns the most recent messages for a session in
// chronological order.
func (s *Store) GetHistory(sessionID string, limit int) ([]Message, error) {
	query := `SELECT role, content FROM messages WHERE session_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`
	rows, err := s.DB.Query(query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, err
		}
		history = append(history, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to get chronological order
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history, nil
}

func (s *Store) AddReminder(sessionID, description string, intervalSeconds int) error {
	query := `INSERT INTO reminders (session_id, description, interval_seconds, last_run) VALUES (?, ?, ?, datetime('now', '-365 days'))`
	_, err := s.DB.Exec(query, sessionID, description, intervalSeconds)
	return err
}

// DueReminders returns active reminders whose interval has elapsed since
// their last run. One-shot reminders (interval 0) are always due until the
// scheduler deletes them.
func (s *Store) DueReminders() ([]Reminder, error) {
	query := `
		SELECT id, session_id, description, interval_seconds
		FROM reminders
		WHERE status = 'active'
		AND (last_run IS NULL OR (julianday('now') - julianday(last_run)) * 86400 >= interval_seconds)
		ORDER BY id`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []Reminder
	for rows.Next() {
		var r Reminder
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Description, &r.IntervalSeconds); err != nil {
			return nil, err
		}
		due = append(due, r)
	}
	return due, rows.Err()
}

func (s *Store) MarkReminderRun(id int64) error {
	query := `UPDATE reminders SET last_run = datetime('now') WHERE id = ?`
	_, err := s.DB.Exec(query, id)
	return err
}

func (s *Store) DeleteReminder(id int64) error {
	query := `DELETE FROM reminders WHERE id = ?`
	_, err := s.DB.Exec(query, id)
	return err
}

func (s *Store) ClearReminders(sessionID string) error {
	query := `DELETE FROM reminders WHERE session_id = ?`
	_, err := s.DB.Exec(query, sessionID)
	return err
}

func (s *Store) RecordAction(sessionID, runID, tool, note string) error {
	query := `INSERT INTO actions (session_id, run_id, tool, note) VALUES (?, ?, ?, ?)`
	_, err := s.DB.Exec(query, sessionID, runID, tool, note)
	return err
}

// ActionsForRun returns the audit trail of one execution run in insertion
// order.
func (s *Store) ActionsForRun(runID string) ([]ActionRecord, error) {
	query := `SELECT session_id, run_id, tool, note FROM actions WHERE run_id = ? ORDER BY id`
	rows, err := s.DB.Query(query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ActionRecord
	for rows.Next() {
		var r ActionRecord
		if err := rows.Scan(&r.SessionID, &r.RunID, &r.Tool, &r.Note); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
