package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mathroute/pkg/models"
)

// MemoryStore keeps all records in uuid-keyed maps. Suitable for
// development and tests; a process restart loses everything.
type MemoryStore struct {
	mu         sync.RWMutex
	problems   map[string]*models.Problem
	feedback   map[string]*models.Feedback
	activities map[string]*models.Activity
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		problems:   make(map[string]*models.Problem),
		feedback:   make(map[string]*models.Feedback),
		activities: make(map[string]*models.Activity),
	}
}

// CreateProblem stores a new solved-problem record with a fresh id.
func (s *MemoryStore) CreateProblem(ctx context.Context, problem, difficulty string, solution models.Solution, category models.Category, source models.SolutionSource) (*models.Problem, error) {
	record := &models.Problem{
		ID:         uuid.New().String(),
		Problem:    problem,
		Solution:   solution,
		Category:   category,
		Difficulty: difficulty,
		Source:     source,
		CreatedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.problems[record.ID] = record
	s.mu.Unlock()
	return record, nil
}

// GetProblem returns the record for id, or ErrNotFound.
func (s *MemoryStore) GetProblem(ctx context.Context, id string) (*models.Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.problems[id]
	if !ok {
		return nil, ErrNotFound
	}
	return record, nil
}

// ProblemsByCategory returns all problems in the given category.
func (s *MemoryStore) ProblemsByCategory(ctx context.Context, category models.Category) ([]*models.Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Problem
	for _, record := range s.problems {
		if record.Category == category {
			out = append(out, record)
		}
	}
	return out, nil
}

// SearchProblems returns problems whose text contains the query.
func (s *MemoryStore) SearchProblems(ctx context.Context, query string) ([]*models.Problem, error) {
	lower := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Problem
	for _, record := range s.problems {
		if strings.Contains(strings.ToLower(record.Problem), lower) {
			out = append(out, record)
		}
	}
	return out, nil
}

// CreateFeedback stores a new feedback record with a fresh id.
func (s *MemoryStore) CreateFeedback(ctx context.Context, feedback models.Feedback) (*models.Feedback, error) {
	record := feedback
	record.ID = uuid.New().String()
	record.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	s.feedback[record.ID] = &record
	s.mu.Unlock()
	return &record, nil
}

// FeedbackByProblem returns all feedback for a problem.
func (s *MemoryStore) FeedbackByProblem(ctx context.Context, problemID string) ([]*models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Feedback
	for _, record := range s.feedback {
		if record.ProblemID == problemID {
			out = append(out, record)
		}
	}
	return out, nil
}

// FeedbackStats aggregates all feedback records.
func (s *MemoryStore) FeedbackStats(ctx context.Context) (*models.FeedbackStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.FeedbackStats{Total: len(s.feedback)}
	if stats.Total == 0 {
		return stats, nil
	}

	var ratingSum, helpful int
	for _, record := range s.feedback {
		ratingSum += record.AccuracyRating
		if record.IsHelpful {
			helpful++
		}
	}
	stats.AverageRating = float64(ratingSum) / float64(stats.Total)
	stats.HelpfulPercentage = float64(helpful) / float64(stats.Total) * 100
	return stats, nil
}

// CreateActivity appends a new activity log record.
func (s *MemoryStore) CreateActivity(ctx context.Context, action string, source models.SolutionSource, details string) (*models.Activity, error) {
	record := &models.Activity{
		ID:        uuid.New().String(),
		Action:    action,
		Source:    source,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.activities[record.ID] = record
	s.mu.Unlock()
	return record, nil
}

// RecentActivity returns up to limit records, newest first.
func (s *MemoryStore) RecentActivity(ctx context.Context, limit int) ([]*models.Activity, error) {
	s.mu.RLock()
	out := make([]*models.Activity, 0, len(s.activities))
	for _, record := range s.activities {
		out = append(out, record)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ActivityBySource filters the activity log by source.
func (s *MemoryStore) ActivityBySource(ctx context.Context, source models.SolutionSource) ([]*models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Activity
	for _, record := range s.activities {
		if record.Source == source {
			out = append(out, record)
		}
	}
	return out, nil
}

// KnowledgeBaseStats counts stored problems per category.
func (s *MemoryStore) KnowledgeBaseStats(ctx context.Context) (*models.KnowledgeBaseStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.KnowledgeBaseStats{Total: len(s.problems)}
	for _, record := range s.problems {
		switch record.Category {
		case models.CategoryCalculus:
			stats.Calculus++
		case models.CategoryAlgebra:
			stats.Algebra++
		case models.CategoryGeometry:
			stats.Geometry++
		case models.CategoryStatistics:
			stats.Statistics++
		case models.CategoryTrigonometry:
			stats.Trigonometry++
		}
	}
	return stats, nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
