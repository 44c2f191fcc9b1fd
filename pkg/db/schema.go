package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per count invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    threads INTEGER NOT NULL,
    buffer_size INTEGER NOT NULL,
    separators TEXT NOT NULL,
    source_count INTEGER NOT NULL,
    success_count INTEGER DEFAULT 0,
    failed_count INTEGER DEFAULT 0,
    total_words INTEGER DEFAULT 0,
    distinct_words INTEGER DEFAULT 0,
    elapsed_ms INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

-- Run sources: per-input outcome within a run
CREATE TABLE IF NOT EXISTS run_sources (
    source_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    path TEXT NOT NULL,
    status TEXT NOT NULL,           -- success, failed
    error_type TEXT,                -- metadata_error, open_error, seek_error, read_error, worker_panic
    error_message TEXT,
    size_bytes INTEGER DEFAULT 0,
    chunk_count INTEGER DEFAULT 0,
    total_words INTEGER DEFAULT 0,
    distinct_words INTEGER DEFAULT 0,
    invalid_words INTEGER DEFAULT 0,
    elapsed_ms INTEGER DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_sources_run ON run_sources(run_id);
CREATE INDEX IF NOT EXISTS idx_run_sources_path ON run_sources(path);

-- Run words: most frequent words of the merged result
CREATE TABLE IF NOT EXISTS run_words (
    run_id INTEGER NOT NULL,
    rank INTEGER NOT NULL,
    word TEXT NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (run_id, rank),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);
`
