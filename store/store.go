// package store persists benchmark results in a SQLite database.
package store

import (
	"fmt"
	"strings"
	"sync"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
create table if not exists benchmark_results (
	id          integer primary key autoincrement,
	created_at  text    not null default (datetime('now')),
	task        integer not null,
	task_name   text    not null,
	method      text    not null,
	duration_ns integer not null,
	ops_per_sec real    not null default 0,
	workers     integer not null default 1,
	build_label text    not null default '',
	notes       text    not null default ''
);
create index if not exists benchmark_results_created_at
	on benchmark_results (created_at);
`

// Result is one row of the benchmark_results table.
type Result struct {
	ID         int64
	CreatedAt  string
	Task       int
	TaskName   string
	Method     string
	DurationNs int64
	OpsPerSec  float64
	Workers    int
	BuildLabel string
	Notes      string
}

// Store wraps a single SQLite connection. All methods are safe for
// concurrent use; the connection is serialized behind a mutex.
type Store struct {
	mu   sync.Mutex
	conn *sqlite.Conn
}

// Open opens (or creates) the database at path and ensures the schema
// exists. Use ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	conn, err := sqlite.OpenConn(path)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// SaveResult inserts one result row. The ID and CreatedAt fields of r are
// ignored; the database assigns them.
func (s *Store) SaveResult(r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("store is closed")
	}

	err := sqlitex.ExecuteTransient(s.conn, `
		insert into benchmark_results
			(task, task_name, method, duration_ns, ops_per_sec, workers, build_label, notes)
		values (?, ?, ?, ?, ?, ?, ?, ?);`,
		&sqlitex.ExecOptions{
			Args: []any{
				r.Task, r.TaskName, r.Method, r.DurationNs,
				r.OpsPerSec, r.Workers, r.BuildLabel, r.Notes,
			},
		})
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// Results returns up to limit rows, newest first. A positive task filters to
// that task number; zero returns every task.
func (s *Store) Results(limit, task int) ([]Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil, fmt.Errorf("store is closed")
	}
	if limit <= 0 {
		limit = 100
	}

	var b strings.Builder
	b.WriteString(`select id, created_at, task, task_name, method,
		duration_ns, ops_per_sec, workers, build_label, notes
		from benchmark_results`)
	args := []any{}
	if task > 0 {
		b.WriteString(" where task = ?")
		args = append(args, task)
	}
	b.WriteString(" order by id desc limit ?;")
	args = append(args, limit)

	var results []Result
	err := sqlitex.ExecuteTransient(s.conn, b.String(), &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			results = append(results, Result{
				ID:         stmt.ColumnInt64(0),
				CreatedAt:  stmt.ColumnText(1),
				Task:       stmt.ColumnInt(2),
				TaskName:   stmt.ColumnText(3),
				Method:     stmt.ColumnText(4),
				DurationNs: stmt.ColumnInt64(5),
				OpsPerSec:  stmt.ColumnFloat(6),
				Workers:    stmt.ColumnInt(7),
				BuildLabel: stmt.ColumnText(8),
				Notes:      stmt.ColumnText(9),
			})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	return results, nil
}
