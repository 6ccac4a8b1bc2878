// package server exposes the benchmark workloads over an HTTP/JSON API and
// persists their results through the store package.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gorilla/handlers"

	"github.com/vanaluk/sharedptr/bench"
	"github.com/vanaluk/sharedptr/store"
	"github.com/vanaluk/sharedptr/tasks"
)

// Parameter defaults and caps, mirrored in the error messages below.
const (
	defaultLockIterations = 1_000_000
	maxLockIterations     = 100_000_000

	defaultEraseSize       = 100_000
	maxEraseSize           = 10_000_000
	defaultEraseIterations = 100
	maxEraseIterations     = 10_000

	defaultLookupSize = 100_000
	maxLookupSize     = 10_000_000
	defaultLookups    = 1_000_000
	maxLookups        = 100_000_000

	maxWorkers          = 64
	defaultResultsLimit = 100
)

// Task numbers used in persisted rows.
const (
	taskLock = iota + 1
	taskErase
	taskLookup
)

// Server serves the benchmark API. The store is optional: with a nil store
// the benchmarks still run, results are just not persisted.
type Server struct {
	store *store.Store
	http  *http.Server
}

// New builds a Server from the config. st may be nil.
func New(cfg *Config, st *store.Store) *Server {
	s := &Server{store: st}

	var handler http.Handler = s.Handler()
	if cfg.RequestLogging {
		handler = loggingMiddleware(handler)
	}
	s.http = &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
	return s
}

// Run listens and serves until Shutdown. A closed-server error is not
// reported as a failure.
func (s *Server) Run() error {
	slog.Info("listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler returns the route table. It is exported for tests and embedding.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /benchmark/lock", s.handleLock)
	mux.HandleFunc("GET /benchmark/erase", s.handleErase)
	mux.HandleFunc("GET /benchmark/lookup", s.handleLookup)
	mux.HandleFunc("GET /results", s.handleResults)
	mux.HandleFunc("/", s.handleNotFound)
	return mux
}

func loggingMiddleware(h http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(os.Stderr, h, logFormatter)
}

// logFormatter adapts the gorilla logging middleware to slog like the rest
// of the service.
func logFormatter(_ io.Writer, p handlers.LogFormatterParams) {
	slog.Info("request served",
		"url", p.URL.String(),
		"status_code", p.StatusCode,
		"response_size", p.Size,
		"duration_ms", float64(time.Since(p.TimeStamp).Nanoseconds())/1e6,
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	type body struct {
		Status string `json:"status"`
		Server string `json:"server"`
	}
	writeJSON(w, r, body{Status: "ok", Server: "sharedptr benchmark API"}, http.StatusOK)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	type body struct {
		Error     string   `json:"error"`
		Endpoints []string `json:"available_endpoints"`
	}
	writeJSON(w, r, body{
		Error: "not found",
		Endpoints: []string{
			"/health", "/benchmark/lock", "/benchmark/erase", "/benchmark/lookup", "/results",
		},
	}, http.StatusNotFound)
}

func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	iterations := positiveParam(r, "iterations", defaultLockIterations, maxLockIterations)
	workers := positiveParam(r, "workers", 1, maxWorkers)
	if iterations == 0 {
		writeJSONError(w, r, fmt.Sprintf(
			"invalid 'iterations' parameter: must be a positive integer <= %d", maxLockIterations),
			http.StatusBadRequest)
		return
	}
	if workers == 0 {
		writeJSONError(w, r, fmt.Sprintf(
			"invalid 'workers' parameter: must be a positive integer <= %d", maxWorkers),
			http.StatusBadRequest)
		return
	}

	durationNs := tasks.LockCycle(iterations, workers)
	opsPerSec := bench.OpsPerSec(iterations, durationNs)
	saved := s.save(store.Result{
		Task:       taskLock,
		TaskName:   "weak lock",
		Method:     "Weak.Lock",
		DurationNs: durationNs,
		OpsPerSec:  opsPerSec,
		Workers:    workers,
		BuildLabel: runtime.Version(),
	})

	type body struct {
		Task       int     `json:"task"`
		TaskName   string  `json:"task_name"`
		Method     string  `json:"method"`
		Iterations int     `json:"iterations"`
		Workers    int     `json:"workers"`
		DurationNs int64   `json:"duration_ns"`
		OpsPerSec  float64 `json:"ops_per_sec"`
		Saved      bool    `json:"saved_to_db"`
		Status     string  `json:"status"`
	}
	writeJSON(w, r, body{
		Task:       taskLock,
		TaskName:   "weak lock",
		Method:     "Weak.Lock",
		Iterations: iterations,
		Workers:    workers,
		DurationNs: durationNs,
		OpsPerSec:  opsPerSec,
		Saved:      saved,
		Status:     "success",
	}, http.StatusOK)
}

func (s *Server) handleErase(w http.ResponseWriter, r *http.Request) {
	size := positiveParam(r, "size", defaultEraseSize, maxEraseSize)
	iterations := positiveParam(r, "iterations", defaultEraseIterations, maxEraseIterations)
	workers := positiveParam(r, "workers", 1, maxWorkers)
	if size == 0 {
		writeJSONError(w, r, fmt.Sprintf(
			"invalid 'size' parameter: must be a positive integer <= %d", maxEraseSize),
			http.StatusBadRequest)
		return
	}
	if iterations == 0 {
		writeJSONError(w, r, fmt.Sprintf(
			"invalid 'iterations' parameter: must be a positive integer <= %d", maxEraseIterations),
			http.StatusBadRequest)
		return
	}
	if workers == 0 {
		writeJSONError(w, r, fmt.Sprintf(
			"invalid 'workers' parameter: must be a positive integer <= %d", maxWorkers),
			http.StatusBadRequest)
		return
	}

	type methodResult struct {
		Name       string  `json:"name"`
		DurationNs int64   `json:"duration_ns"`
		OpsPerSec  float64 `json:"ops_per_sec"`
	}

	savedCount := 0
	methods := make([]methodResult, 0, len(tasks.EraseMethods))
	for _, m := range tasks.EraseMethods {
		durationNs := tasks.EraseBench(m.Fn, size, iterations, workers)
		opsPerSec := bench.OpsPerSec(iterations, durationNs)
		methods = append(methods, methodResult{
			Name:       m.Name,
			DurationNs: durationNs,
			OpsPerSec:  opsPerSec,
		})
		if s.save(store.Result{
			Task:       taskErase,
			TaskName:   "slice erase",
			Method:     m.Name,
			DurationNs: durationNs,
			OpsPerSec:  opsPerSec,
			Workers:    workers,
			BuildLabel: runtime.Version(),
		}) {
			savedCount++
		}
	}

	type body struct {
		Task       int            `json:"task"`
		TaskName   string         `json:"task_name"`
		Size       int            `json:"size"`
		Iterations int            `json:"iterations"`
		Workers    int            `json:"workers"`
		Methods    []methodResult `json:"methods"`
		Saved      int            `json:"saved_to_db"`
		Status     string         `json:"status"`
	}
	writeJSON(w, r, body{
		Task:       taskErase,
		TaskName:   "slice erase",
		Size:       size,
		Iterations: iterations,
		Workers:    workers,
		Methods:    methods,
		Saved:      savedCount,
		Status:     "success",
	}, http.StatusOK)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	size := positiveParam(r, "size", defaultLookupSize, maxLookupSize)
	lookups := positiveParam(r, "lookups", defaultLookups, maxLookups)
	if size == 0 {
		writeJSONError(w, r, fmt.Sprintf(
			"invalid 'size' parameter: must be a positive integer <= %d", maxLookupSize),
			http.StatusBadRequest)
		return
	}
	if lookups == 0 {
		writeJSONError(w, r, fmt.Sprintf(
			"invalid 'lookups' parameter: must be a positive integer <= %d", maxLookups),
			http.StatusBadRequest)
		return
	}

	results, recommendation, err := tasks.CompareLookup(size, lookups)
	if err != nil {
		slog.ErrorContext(r.Context(), "lookup benchmark failed", "error", err)
		writeJSONError(w, r, "benchmark failed", http.StatusInternalServerError)
		return
	}

	type containerResult struct {
		Name        string  `json:"name"`
		Complexity  string  `json:"complexity"`
		InsertNs    int64   `json:"insert_ns"`
		LookupNs    int64   `json:"lookup_ns"`
		EraseNs     int64   `json:"erase_ns"`
		MemoryBytes uint64  `json:"memory_bytes"`
		OpsPerSec   float64 `json:"ops_per_sec"`
	}

	savedCount := 0
	containers := make([]containerResult, 0, len(results))
	for _, res := range results {
		containers = append(containers, containerResult{
			Name:        res.Name,
			Complexity:  res.Complexity,
			InsertNs:    res.InsertNs,
			LookupNs:    res.LookupNs,
			EraseNs:     res.EraseNs,
			MemoryBytes: res.MemoryBytes,
			OpsPerSec:   res.OpsPerSec,
		})
		if s.save(store.Result{
			Task:       taskLookup,
			TaskName:   "container lookup",
			Method:     res.Name,
			DurationNs: res.LookupNs,
			OpsPerSec:  res.OpsPerSec,
			Workers:    1,
			BuildLabel: runtime.Version(),
		}) {
			savedCount++
		}
	}

	type body struct {
		Task           int               `json:"task"`
		TaskName       string            `json:"task_name"`
		Elements       int               `json:"elements"`
		Lookups        int               `json:"lookups"`
		Containers     []containerResult `json:"containers"`
		Recommendation string            `json:"recommendation"`
		Saved          int               `json:"saved_to_db"`
		Status         string            `json:"status"`
	}
	writeJSON(w, r, body{
		Task:           taskLookup,
		TaskName:       "container lookup",
		Elements:       size,
		Lookups:        lookups,
		Containers:     containers,
		Recommendation: recommendation,
		Saved:          savedCount,
		Status:         "success",
	}, http.StatusOK)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSONError(w, r, "no database configured", http.StatusServiceUnavailable)
		return
	}
	limit := intParam(r, "limit", defaultResultsLimit)
	task := intParam(r, "task", 0)

	rows, err := s.store.Results(limit, task)
	if err != nil {
		slog.ErrorContext(r.Context(), "query results failed", "error", err)
		writeJSONError(w, r, "query failed", http.StatusInternalServerError)
		return
	}

	type row struct {
		ID         int64   `json:"id"`
		CreatedAt  string  `json:"created_at"`
		Task       int     `json:"task"`
		TaskName   string  `json:"task_name"`
		Method     string  `json:"method"`
		DurationNs int64   `json:"duration_ns"`
		OpsPerSec  float64 `json:"ops_per_sec"`
		Workers    int     `json:"workers"`
		BuildLabel string  `json:"build_label"`
		Notes      string  `json:"notes,omitempty"`
	}
	out := make([]row, 0, len(rows))
	for _, res := range rows {
		out = append(out, row{
			ID:         res.ID,
			CreatedAt:  res.CreatedAt,
			Task:       res.Task,
			TaskName:   res.TaskName,
			Method:     res.Method,
			DurationNs: res.DurationNs,
			OpsPerSec:  res.OpsPerSec,
			Workers:    res.Workers,
			BuildLabel: res.BuildLabel,
			Notes:      res.Notes,
		})
	}

	type body struct {
		Results []row `json:"results"`
		Count   int   `json:"count"`
	}
	writeJSON(w, r, body{Results: out, Count: len(out)}, http.StatusOK)
}

// save persists one row, reporting success. With no store configured it
// reports false; a failed insert is logged and does not fail the request.
func (s *Server) save(r store.Result) bool {
	if s.store == nil {
		return false
	}
	if err := s.store.SaveResult(r); err != nil {
		slog.Warn("saving benchmark result failed", "error", err)
		return false
	}
	return true
}
