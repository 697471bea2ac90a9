package store

// attemptSchemaSQL is the DDL for the attempt history database.
const attemptSchemaSQL = `
-- One row per graded quiz attempt
CREATE TABLE IF NOT EXISTS attempts (
    id TEXT PRIMARY KEY,
    exam TEXT NOT NULL,
    taken_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    score INTEGER NOT NULL,
    total INTEGER NOT NULL,
    percentage REAL NOT NULL,
    passed INTEGER NOT NULL DEFAULT 0
);

-- Per-question detail rows, ordered by position within the attempt
CREATE TABLE IF NOT EXISTS attempt_answers (
    attempt_id TEXT NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    question_id INTEGER NOT NULL,
    stem_preview TEXT NOT NULL,
    user_answer TEXT NOT NULL,
    correct_answer TEXT NOT NULL,
    correct INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (attempt_id, position)
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_attempts_exam ON attempts(exam);
CREATE INDEX IF NOT EXISTS idx_attempts_taken_at ON attempts(taken_at);
`
