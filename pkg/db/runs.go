package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Run represents one count invocation
type Run struct {
	RunID         int64
	CreatedAt     time.Time
	Threads       int
	BufferSize    int
	Separators    string
	SourceCount   int
	SuccessCount  int
	FailedCount   int
	TotalWords    int64
	DistinctWords int
	ElapsedMS     int64
}

// RunSource represents the outcome for one input file within a run
type RunSource struct {
	Path          string
	Status        string
	ErrorType     string
	ErrorMessage  string
	SizeBytes     int64
	ChunkCount    int
	TotalWords    int64
	DistinctWords int
	InvalidWords  int64
	ElapsedMS     int64
}

// RunWord is one ranked entry of a run's merged counts
type RunWord struct {
	Rank  int
	Word  string
	Count int64
}

const runColumns = `run_id, created_at, threads, buffer_size, separators, source_count,
	success_count, failed_count, total_words, distinct_words, elapsed_ms`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	err := row.Scan(&r.RunID, &r.CreatedAt, &r.Threads, &r.BufferSize, &r.Separators, &r.SourceCount,
		&r.SuccessCount, &r.FailedCount, &r.TotalWords, &r.DistinctWords, &r.ElapsedMS)
	return r, err
}

// CreateRun creates a new run record
func (db *DB) CreateRun(threads, bufferSize int, separators string, sourceCount int) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (threads, buffer_size, separators, source_count)
		VALUES (?, ?, ?, ?)
	`, threads, bufferSize, separators, sourceCount)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// InsertRunSource records the outcome for one input of a run
func (db *DB) InsertRunSource(runID int64, src RunSource) error {
	var errorType, errorMessage interface{}
	if src.ErrorType != "" {
		errorType = src.ErrorType
	}
	if src.ErrorMessage != "" {
		errorMessage = src.ErrorMessage
	}

	_, err := db.Exec(`
		INSERT INTO run_sources (run_id, path, status, error_type, error_message, size_bytes,
		                         chunk_count, total_words, distinct_words, invalid_words, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, src.Path, src.Status, errorType, errorMessage, src.SizeBytes,
		src.ChunkCount, src.TotalWords, src.DistinctWords, src.InvalidWords, src.ElapsedMS)
	if err != nil {
		return fmt.Errorf("failed to insert run source: %w", err)
	}
	return nil
}

// FinishRun stores the totals of a completed run
func (db *DB) FinishRun(runID int64, successCount, failedCount int, totalWords int64, distinctWords int, elapsed time.Duration) error {
	_, err := db.Exec(`
		UPDATE runs
		SET success_count = ?, failed_count = ?, total_words = ?, distinct_words = ?, elapsed_ms = ?
		WHERE run_id = ?
	`, successCount, failedCount, totalWords, distinctWords, elapsed.Milliseconds(), runID)
	if err != nil {
		return fmt.Errorf("failed to update run stats: %w", err)
	}
	return nil
}

// InsertRunWords stores the ranked top words of a run in one transaction
func (db *DB) InsertRunWords(runID int64, words []RunWord) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare("INSERT INTO run_words (run_id, rank, word, count) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare run word insert: %w", err)
	}
	defer stmt.Close()

	for _, w := range words {
		if _, err := stmt.Exec(runID, w.Rank, w.Word, w.Count); err != nil {
			return fmt.Errorf("failed to insert run word %q: %w", w.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run words: %w", err)
	}
	return nil
}

// GetRunByID retrieves a run by its ID
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	run, err := scanRun(db.QueryRow("SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// GetRunSources retrieves the per-input outcomes of a run in input order
func (db *DB) GetRunSources(runID int64) ([]RunSource, error) {
	rows, err := db.Query(`
		SELECT path, status, error_type, error_message, size_bytes, chunk_count,
		       total_words, distinct_words, invalid_words, elapsed_ms
		FROM run_sources
		WHERE run_id = ?
		ORDER BY source_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run sources: %w", err)
	}
	defer rows.Close()

	var sources []RunSource
	for rows.Next() {
		var s RunSource
		var errorType, errorMessage sql.NullString
		if err := rows.Scan(&s.Path, &s.Status, &errorType, &errorMessage, &s.SizeBytes, &s.ChunkCount,
			&s.TotalWords, &s.DistinctWords, &s.InvalidWords, &s.ElapsedMS); err != nil {
			return nil, fmt.Errorf("failed to scan run source: %w", err)
		}
		if errorType.Valid {
			s.ErrorType = errorType.String
		}
		if errorMessage.Valid {
			s.ErrorMessage = errorMessage.String
		}
		sources = append(sources, s)
	}

	return sources, rows.Err()
}

// GetRunWords retrieves the stored top words of a run by rank
func (db *DB) GetRunWords(runID int64) ([]RunWord, error) {
	rows, err := db.Query("SELECT rank, word, count FROM run_words WHERE run_id = ? ORDER BY rank", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run words: %w", err)
	}
	defer rows.Close()

	var words []RunWord
	for rows.Next() {
		var w RunWord
		if err := rows.Scan(&w.Rank, &w.Word, &w.Count); err != nil {
			return nil, fmt.Errorf("failed to scan run word: %w", err)
		}
		words = append(words, w)
	}

	return words, rows.Err()
}

// ListRuns retrieves runs ordered by most recent first
func (db *DB) ListRuns(limit int) ([]Run, error) {
	return db.QueryRuns(false, "", limit)
}

// QueryRuns filters runs by failure and by a substring of any input path
func (db *DB) QueryRuns(failedOnly bool, pathPattern string, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs"

	var conditions []string
	var args []interface{}

	if failedOnly {
		conditions = append(conditions, "failed_count > 0")
	}

	if pathPattern != "" {
		conditions = append(conditions, "run_id IN (SELECT run_id FROM run_sources WHERE path LIKE ?)")
		args = append(args, "%"+pathPattern+"%")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, run_id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}
