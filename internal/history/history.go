// Package history is the append-only local run log the `lalrgen history`
// subcommand queries (SPEC_FULL.md's DOMAIN STACK entry for
// modernc.org/sqlite): one row per generator run, recording the
// grammar's fingerprint, a timestamp, the resulting state and conflict
// counts, and the output paths written. Grounded on the teacher's
// sqlite DAO (server/dao/sqlite/{sqlite,games}.go): `sql.Open("sqlite",
// path)`, a `CREATE TABLE IF NOT EXISTS` init statement run once at
// store construction, and QueryContext/ExecContext for reads/writes,
// generalized from that package's per-entity-repository split (UsersDB,
// GamesDB, ...) to the single `runs` table this log needs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one recorded generator invocation. BuildID is a fresh UUID
// stamped per invocation (not into the emitted parser source itself,
// since spec section 8's determinism property requires byte-identical
// output across runs on the same input) so an operator can trace a
// specific build back to its row in this log.
type Run struct {
	ID            int64
	BuildID       string
	Fingerprint   string
	GrammarPath   string
	Timestamp     time.Time
	StateCount    int
	ConflictCount int
	ParserOutput  string
	StatesOutput  string
}

// NewBuildID generates a fresh build identifier for a Run.
func NewBuildID() string {
	return uuid.New().String()
}

// Store is the run log, backed by a sqlite database file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the run log at storageDir/history.db.
func Open(storageDir string) (*Store, error) {
	db, err := sql.Open("sqlite", filepath.Join(storageDir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		grammar_path TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		state_count INTEGER NOT NULL,
		conflict_count INTEGER NOT NULL,
		parser_output TEXT NOT NULL,
		states_output TEXT NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("history: init schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one run to the log. If r.BuildID is empty, a fresh one
// is generated.
func (s *Store) Record(ctx context.Context, r Run) error {
	if r.BuildID == "" {
		r.BuildID = NewBuildID()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs
		(build_id, fingerprint, grammar_path, timestamp, state_count, conflict_count, parser_output, states_output)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		r.BuildID, r.Fingerprint, r.GrammarPath, r.Timestamp.Unix(), r.StateCount, r.ConflictCount, r.ParserOutput, r.StatesOutput)
	if err != nil {
		return fmt.Errorf("history: record run: %w", err)
	}
	return nil
}

// Recent returns the n most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, build_id, fingerprint, grammar_path, timestamp, state_count, conflict_count, parser_output, states_output
		FROM runs ORDER BY id DESC LIMIT ?;`, n)
	if err != nil {
		return nil, fmt.Errorf("history: query recent runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var ts int64
		if err := rows.Scan(&r.ID, &r.BuildID, &r.Fingerprint, &r.GrammarPath, &ts, &r.StateCount, &r.ConflictCount, &r.ParserOutput, &r.StatesOutput); err != nil {
			return nil, fmt.Errorf("history: scan run row: %w", err)
		}
		r.Timestamp = time.Unix(ts, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ForGrammar returns every recorded run for a given grammar fingerprint,
// newest first.
func (s *Store) ForGrammar(ctx context.Context, fingerprint string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, build_id, fingerprint, grammar_path, timestamp, state_count, conflict_count, parser_output, states_output
		FROM runs WHERE fingerprint = ? ORDER BY id DESC;`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("history: query runs for grammar: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var ts int64
		if err := rows.Scan(&r.ID, &r.BuildID, &r.Fingerprint, &r.GrammarPath, &ts, &r.StateCount, &r.ConflictCount, &r.ParserOutput, &r.StatesOutput); err != nil {
			return nil, fmt.Errorf("history: scan run row: %w", err)
		}
		r.Timestamp = time.Unix(ts, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}
