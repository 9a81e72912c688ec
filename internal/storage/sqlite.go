package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mathroute/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS problems (
	id         TEXT PRIMARY KEY,
	problem    TEXT NOT NULL,
	solution   TEXT NOT NULL,
	category   TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	source     TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback (
	id              TEXT PRIMARY KEY,
	problem_id      TEXT NOT NULL,
	accuracy_rating INTEGER NOT NULL,
	clarity_rating  TEXT NOT NULL,
	comments        TEXT,
	is_helpful      INTEGER NOT NULL,
	created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS activity (
	id         TEXT PRIMARY KEY,
	action     TEXT NOT NULL,
	source     TEXT NOT NULL,
	details    TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_problems_category ON problems(category);
CREATE INDEX IF NOT EXISTS idx_feedback_problem ON feedback(problem_id);
CREATE INDEX IF NOT EXISTS idx_activity_created ON activity(created_at);
`

// SQLiteStore persists records in a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) a database under dataDir and applies
// the schema. An empty dataDir defaults to ./data.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "mathroute.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// CreateProblem stores a new solved-problem record with a fresh id.
func (s *SQLiteStore) CreateProblem(ctx context.Context, problem, difficulty string, solution models.Solution, category models.Category, source models.SolutionSource) (*models.Problem, error) {
	record := &models.Problem{
		ID:         uuid.New().String(),
		Problem:    problem,
		Solution:   solution,
		Category:   category,
		Difficulty: difficulty,
		Source:     source,
		CreatedAt:  time.Now().UTC(),
	}

	solutionJSON, err := json.Marshal(record.Solution)
	if err != nil {
		return nil, fmt.Errorf("encoding solution: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO problems (id, problem, solution, category, difficulty, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Problem, string(solutionJSON), string(record.Category),
		record.Difficulty, string(record.Source), record.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("inserting problem: %w", err)
	}
	return record, nil
}

// GetProblem returns the record for id, or ErrNotFound.
func (s *SQLiteStore) GetProblem(ctx context.Context, id string) (*models.Problem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, problem, solution, category, difficulty, source, created_at
		 FROM problems WHERE id = ?`, id)

	record, err := scanProblem(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return record, err
}

// ProblemsByCategory returns all problems in the given category.
func (s *SQLiteStore) ProblemsByCategory(ctx context.Context, category models.Category) ([]*models.Problem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, problem, solution, category, difficulty, source, created_at
		 FROM problems WHERE category = ? ORDER BY created_at`, string(category))
	if err != nil {
		return nil, fmt.Errorf("querying problems: %w", err)
	}
	defer rows.Close()
	return collectProblems(rows)
}

// SearchProblems returns problems whose text contains the query.
func (s *SQLiteStore) SearchProblems(ctx context.Context, query string) ([]*models.Problem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, problem, solution, category, difficulty, source, created_at
		 FROM problems WHERE problem LIKE '%' || ? || '%' ORDER BY created_at`, query)
	if err != nil {
		return nil, fmt.Errorf("searching problems: %w", err)
	}
	defer rows.Close()
	return collectProblems(rows)
}

// CreateFeedback stores a new feedback record with a fresh id.
func (s *SQLiteStore) CreateFeedback(ctx context.Context, feedback models.Feedback) (*models.Feedback, error) {
	record := feedback
	record.ID = uuid.New().String()
	record.CreatedAt = time.Now().UTC()

	helpful := 0
	if record.IsHelpful {
		helpful = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, problem_id, accuracy_rating, clarity_rating, comments, is_helpful, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.ProblemID, record.AccuracyRating, string(record.ClarityRating),
		record.Comments, helpful, record.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("inserting feedback: %w", err)
	}
	return &record, nil
}

// FeedbackByProblem returns all feedback for a problem.
func (s *SQLiteStore) FeedbackByProblem(ctx context.Context, problemID string) ([]*models.Feedback, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, problem_id, accuracy_rating, clarity_rating, comments, is_helpful, created_at
		 FROM feedback WHERE problem_id = ? ORDER BY created_at`, problemID)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	var out []*models.Feedback
	for rows.Next() {
		var record models.Feedback
		var clarity, createdAt string
		var helpful int
		if err := rows.Scan(&record.ID, &record.ProblemID, &record.AccuracyRating,
			&clarity, &record.Comments, &helpful, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		record.ClarityRating = models.ClarityRating(clarity)
		record.IsHelpful = helpful == 1
		record.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, &record)
	}
	return out, rows.Err()
}

// FeedbackStats aggregates all feedback records.
func (s *SQLiteStore) FeedbackStats(ctx context.Context) (*models.FeedbackStats, error) {
	stats := &models.FeedbackStats{}
	var ratingSum, helpful sql.NullFloat64

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), SUM(accuracy_rating), SUM(is_helpful) FROM feedback`)
	if err := row.Scan(&stats.Total, &ratingSum, &helpful); err != nil {
		return nil, fmt.Errorf("aggregating feedback: %w", err)
	}

	if stats.Total > 0 {
		stats.AverageRating = ratingSum.Float64 / float64(stats.Total)
		stats.HelpfulPercentage = helpful.Float64 / float64(stats.Total) * 100
	}
	return stats, nil
}

// CreateActivity appends a new activity log record.
func (s *SQLiteStore) CreateActivity(ctx context.Context, action string, source models.SolutionSource, details string) (*models.Activity, error) {
	record := &models.Activity{
		ID:        uuid.New().String(),
		Action:    action,
		Source:    source,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity (id, action, source, details, created_at) VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.Action, string(record.Source), record.Details,
		record.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("inserting activity: %w", err)
	}
	return record, nil
}

// RecentActivity returns up to limit records, newest first.
func (s *SQLiteStore) RecentActivity(ctx context.Context, limit int) ([]*models.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, source, details, created_at
		 FROM activity ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying activity: %w", err)
	}
	defer rows.Close()
	return collectActivities(rows)
}

// ActivityBySource filters the activity log by source.
func (s *SQLiteStore) ActivityBySource(ctx context.Context, source models.SolutionSource) ([]*models.Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, source, details, created_at
		 FROM activity WHERE source = ? ORDER BY created_at DESC`, string(source))
	if err != nil {
		return nil, fmt.Errorf("querying activity: %w", err)
	}
	defer rows.Close()
	return collectActivities(rows)
}

// KnowledgeBaseStats counts stored problems per category.
func (s *SQLiteStore) KnowledgeBaseStats(ctx context.Context) (*models.KnowledgeBaseStats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM problems GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("aggregating problems: %w", err)
	}
	defer rows.Close()

	stats := &models.KnowledgeBaseStats{}
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scanning stats: %w", err)
		}
		stats.Total += count
		switch models.Category(category) {
		case models.CategoryCalculus:
			stats.Calculus = count
		case models.CategoryAlgebra:
			stats.Algebra = count
		case models.CategoryGeometry:
			stats.Geometry = count
		case models.CategoryStatistics:
			stats.Statistics = count
		case models.CategoryTrigonometry:
			stats.Trigonometry = count
		}
	}
	return stats, rows.Err()
}

// Ping verifies the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProblem(row rowScanner) (*models.Problem, error) {
	var record models.Problem
	var solutionJSON, category, source, createdAt string
	if err := row.Scan(&record.ID, &record.Problem, &solutionJSON, &category,
		&record.Difficulty, &source, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(solutionJSON), &record.Solution); err != nil {
		return nil, fmt.Errorf("decoding solution: %w", err)
	}
	record.Category = models.Category(category)
	record.Source = models.SolutionSource(source)
	record.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &record, nil
}

func collectProblems(rows *sql.Rows) ([]*models.Problem, error) {
	var out []*models.Problem
	for rows.Next() {
		record, err := scanProblem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning problem: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func collectActivities(rows *sql.Rows) ([]*models.Activity, error) {
	var out []*models.Activity
	for rows.Next() {
		var record models.Activity
		var source, createdAt string
		if err := rows.Scan(&record.ID, &record.Action, &source, &record.Details, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		record.Source = models.SolutionSource(source)
		record.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, &record)
	}
	return out, rows.Err()
}
