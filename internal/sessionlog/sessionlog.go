// Package sessionlog persists personalisation sessions in a SQLite database.
package sessionlog

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/Rigaro/goesc"
)

// schema.sql defines the sessions and their per-iteration records.
//
//go:embed schema.sql
var schemaSQL string

// Session describes a stored session.
type Session struct {
	ID          string
	Estimator   string
	Config      *goesc.Config
	Notes       string
	Start       time.Time
	End         time.Time // zero while the session is open
	RecordCount int
}

// Log is a SQLite backed session log.
type Log struct {
	*sql.DB
}

// Open opens (creating it if needed) the session log at path. Use ":memory:" for a
// transient log.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise schema: %w", err)
	}
	return &Log{db}, nil
}

// StartSession creates a new session record for cfg and returns its ID.
func (l *Log) StartSession(cfg *goesc.Config, notes string) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to serialise config: %w", err)
	}
	id := uuid.New().String()
	_, err = l.Exec(`
		INSERT INTO sessions (session_id, estimator, config_yaml, notes, start_timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		id, cfg.Estimator.Type, string(data), notes, time.Now().UnixNano())
	if err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}
	return id, nil
}

// Append stores records in the session id.
func (l *Log) Append(id string, records []goesc.Record) error {
	tx, err := l.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO records (session_id, iteration, applied, performance, parameter, step, estimates, states)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		estimates, err := json.Marshal(r.Estimates)
		if err != nil {
			return fmt.Errorf("iteration %d: %w", r.Iteration, err)
		}
		states, err := json.Marshal(r.States)
		if err != nil {
			return fmt.Errorf("iteration %d: %w", r.Iteration, err)
		}
		if _, err := stmt.Exec(id, r.Iteration, r.Applied, r.Performance, r.Parameter, r.Step.String(), string(estimates), string(states)); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", r.Iteration, err)
		}
	}
	if _, err := tx.Exec(`
		UPDATE sessions SET record_count = (SELECT COUNT(*) FROM records WHERE session_id = ?)
		WHERE session_id = ?`, id, id); err != nil {
		return fmt.Errorf("failed to update record count: %w", err)
	}
	return tx.Commit()
}

// EndSession marks the session as closed.
func (l *Log) EndSession(id string) error {
	res, err := l.Exec(`UPDATE sessions SET end_timestamp = ? WHERE session_id = ?`, time.Now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("unknown session %s", id)
	}
	return nil
}

// Session returns the session id.
func (l *Log) Session(id string) (*Session, error) {
	var (
		s       Session
		cfgYAML string
		notes   sql.NullString
		start   int64
		end     sql.NullInt64
	)
	err := l.QueryRow(`
		SELECT session_id, estimator, config_yaml, notes, start_timestamp, end_timestamp, record_count
		FROM sessions WHERE session_id = ?`, id).Scan(&s.ID, &s.Estimator, &cfgYAML, &notes, &start, &end, &s.RecordCount)
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}
	s.Config = goesc.DefaultConfig()
	if err := yaml.Unmarshal([]byte(cfgYAML), s.Config); err != nil {
		return nil, fmt.Errorf("failed to parse config of session %s: %w", id, err)
	}
	s.Notes = notes.String
	s.Start = time.Unix(0, start)
	if end.Valid {
		s.End = time.Unix(0, end.Int64)
	}
	return &s, nil
}

// Sessions returns the IDs of all sessions, oldest first.
func (l *Log) Sessions() ([]string, error) {
	rows, err := l.Query(`SELECT session_id FROM sessions ORDER BY start_timestamp, session_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Records returns the records of session id ordered by iteration.
func (l *Log) Records(id string) ([]goesc.Record, error) {
	rows, err := l.Query(`
		SELECT iteration, applied, performance, parameter, step, estimates, states
		FROM records WHERE session_id = ? ORDER BY iteration`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []goesc.Record
	for rows.Next() {
		var (
			r                 goesc.Record
			step              string
			estimates, states string
		)
		if err := rows.Scan(&r.Iteration, &r.Applied, &r.Performance, &r.Parameter, &step, &estimates, &states); err != nil {
			return nil, err
		}
		if r.Step, err = goesc.ParseStepKind(step); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(estimates), &r.Estimates); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(states), &r.States); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
