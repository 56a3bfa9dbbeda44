// Package store persists per-run metric rows between the collect and
// aggregate stages so a batch can be parsed once and re-aggregated or
// re-plotted without touching the raw artifacts again.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"fbaseval/internal/metrics"
	"fbaseval/internal/sweep"
)

// DefaultPath is where the run store lives unless overridden.
const DefaultPath = ".fbaseval/runs.db"

const schemaVersion = 1

// Store wraps the SQLite run database.
type Store struct {
	db *sql.DB
}

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// Open opens or creates the run store at path and runs migrations.
// Creates the parent directory (e.g. .fbaseval) if it does not exist.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS schema_info (
	version INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	experiment        TEXT NOT NULL,
	params            TEXT NOT NULL,
	run               INTEGER NOT NULL,
	quorum_count      REAL NOT NULL,
	blocking_min      REAL,
	blocking_max      REAL,
	blocking_mean     REAL,
	intersection_min  REAL,
	intersection_max  REAL,
	intersection_mean REAL,
	created_at        TEXT NOT NULL,
	UNIQUE (experiment, params, run)
);
`)
	if err != nil {
		return fmt.Errorf("migrate store: %w", err)
	}

	var version int
	err = s.db.QueryRow(`SELECT version FROM schema_info`).Scan(&version)
	if err == sql.ErrNoRows {
		_, err = s.db.Exec(`INSERT INTO schema_info (version) VALUES (?)`, schemaVersion)
		return err
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("store schema version %d, this build expects %d", version, schemaVersion)
	}
	return nil
}

// paramsKey serializes a combination's parameters as a JSON object with
// sorted keys, the stable grouping key for a run.
func paramsKey(params []sweep.ParamValue) (string, error) {
	m := make(map[string]string, len(params))
	for _, p := range params {
		m[p.Name] = string(p.Value)
	}
	raw, err := json.Marshal(m) // map keys marshal sorted
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// PutRow inserts one per-run row, replacing any previous row for the same
// (experiment, params, run) so re-collecting a batch is idempotent.
func (s *Store) PutRow(row metrics.Row) error {
	key, err := paramsKey(row.Params)
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}

	_, err = s.db.Exec(`
INSERT INTO runs (experiment, params, run, quorum_count,
	blocking_min, blocking_max, blocking_mean,
	intersection_min, intersection_max, intersection_mean, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (experiment, params, run) DO UPDATE SET
	quorum_count = excluded.quorum_count,
	blocking_min = excluded.blocking_min,
	blocking_max = excluded.blocking_max,
	blocking_mean = excluded.blocking_mean,
	intersection_min = excluded.intersection_min,
	intersection_max = excluded.intersection_max,
	intersection_mean = excluded.intersection_mean,
	created_at = excluded.created_at`,
		row.Experiment, key, row.Run, row.QuorumCount,
		row.Blocking.Min, row.Blocking.Max, row.Blocking.Mean,
		row.Intersection.Min, row.Intersection.Max, row.Intersection.Mean,
		nowUTC())
	if err != nil {
		return fmt.Errorf("put row %s run %d: %w", row.Experiment, row.Run, err)
	}
	return nil
}

// Rows returns every stored per-run row, ordered by experiment, parameter
// key and run index.
func (s *Store) Rows() ([]metrics.Row, error) {
	rows, err := s.db.Query(`
SELECT experiment, params, run, quorum_count,
	blocking_min, blocking_max, blocking_mean,
	intersection_min, intersection_max, intersection_mean
FROM runs ORDER BY experiment, params, run`)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var out []metrics.Row
	for rows.Next() {
		var r metrics.Row
		var key string
		err := rows.Scan(&r.Experiment, &key, &r.Run, &r.QuorumCount,
			&r.Blocking.Min, &r.Blocking.Max, &r.Blocking.Mean,
			&r.Intersection.Min, &r.Intersection.Max, &r.Intersection.Mean)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if r.Params, err = decodeParams(key); err != nil {
			return nil, fmt.Errorf("decode params %q: %w", key, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteExperiment removes all rows of one experiment, e.g. before a
// fresh collect of a changed config.
func (s *Store) DeleteExperiment(name string) error {
	_, err := s.db.Exec(`DELETE FROM runs WHERE experiment = ?`, name)
	if err != nil {
		return fmt.Errorf("delete experiment %q: %w", name, err)
	}
	return nil
}

func decodeParams(key string) ([]sweep.ParamValue, error) {
	var m map[string]string
	if err := json.Unmarshal([]byte(key), &m); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]sweep.ParamValue, len(names))
	for i, name := range names {
		out[i] = sweep.ParamValue{Name: name, Value: sweep.Value(m[name])}
	}
	return out, nil
}
