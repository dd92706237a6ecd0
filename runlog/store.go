// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runlog

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	description TEXT,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS steps (
	run_id   TEXT NOT NULL,
	step     INTEGER NOT NULL,
	reward   REAL NOT NULL,
	td_err   REAL NOT NULL,
	greedy_q REAL NOT NULL,
	chosen_q REAL NOT NULL,
	action   INTEGER NOT NULL,
	greedy   INTEGER NOT NULL,
	state    BLOB,
	PRIMARY KEY (run_id, step),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// Store persists runs and their steps in SQLite.
// It is safe for concurrent use by several agents.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the SQLite database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewRun records a new run and returns its id.
func (s *Store) NewRun(desc string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, description, created_at) VALUES (?, ?, ?)`,
		id, desc, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// InsertStep records one step of rw.Run.
func (s *Store) InsertStep(rw *Row) error {
	_, err := s.db.Exec(
		`INSERT INTO steps (run_id, step, reward, td_err, greedy_q, chosen_q, action, greedy, state)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rw.Run, rw.Step, rw.Reward, rw.TDErr, rw.GreedyQ, rw.ChosenQ, rw.Action, rw.Greedy, encodeVector(rw.State),
	)
	if err != nil {
		return fmt.Errorf("insert step %d: %w", rw.Step, err)
	}
	return nil
}

// CountSteps returns the number of steps recorded for run.
func (s *Store) CountSteps(run string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM steps WHERE run_id = ?`, run).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count steps: %w", err)
	}
	return n, nil
}

// GetStep returns one recorded step of run.
func (s *Store) GetStep(run string, step int) (Row, error) {
	rw := Row{Run: run}
	var state []byte
	err := s.db.QueryRow(
		`SELECT step, reward, td_err, greedy_q, chosen_q, action, greedy, state
		 FROM steps WHERE run_id = ? AND step = ?`, run, step,
	).Scan(&rw.Step, &rw.Reward, &rw.TDErr, &rw.GreedyQ, &rw.ChosenQ, &rw.Action, &rw.Greedy, &state)
	if err != nil {
		return Row{}, fmt.Errorf("get step %d: %w", step, err)
	}
	rw.State = decodeVector(state)
	return rw, nil
}

// MeanReward returns the mean reward over all steps of run.
func (s *Store) MeanReward(run string) (float64, error) {
	var m sql.NullFloat64
	err := s.db.QueryRow(`SELECT AVG(reward) FROM steps WHERE run_id = ?`, run).Scan(&m)
	if err != nil {
		return 0, fmt.Errorf("mean reward: %w", err)
	}
	return m.Float64, nil
}

func encodeVector(v []float32) []byte {
	if v == nil {
		return nil
	}
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) []float32 {
	if len(b) == 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
