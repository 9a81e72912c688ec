// Package storage persists solved problems, feedback and the activity log.
// Records are append-only: identifiers are assigned at creation and no
// update or delete operations exist.
package storage

import (
	"context"
	"errors"

	"github.com/mathroute/pkg/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence collaborator for the solve pipeline.
type Store interface {
	CreateProblem(ctx context.Context, problem, difficulty string, solution models.Solution, category models.Category, source models.SolutionSource) (*models.Problem, error)
	GetProblem(ctx context.Context, id string) (*models.Problem, error)
	ProblemsByCategory(ctx context.Context, category models.Category) ([]*models.Problem, error)
	SearchProblems(ctx context.Context, query string) ([]*models.Problem, error)

	CreateFeedback(ctx context.Context, feedback models.Feedback) (*models.Feedback, error)
	FeedbackByProblem(ctx context.Context, problemID string) ([]*models.Feedback, error)
	FeedbackStats(ctx context.Context) (*models.FeedbackStats, error)

	CreateActivity(ctx context.Context, action string, source models.SolutionSource, details string) (*models.Activity, error)
	RecentActivity(ctx context.Context, limit int) ([]*models.Activity, error)
	ActivityBySource(ctx context.Context, source models.SolutionSource) ([]*models.Activity, error)

	KnowledgeBaseStats(ctx context.Context) (*models.KnowledgeBaseStats, error)

	Ping(ctx context.Context) error
	Close() error
}
