package models

import "time"

// ClarityRating is the user's assessment of solution clarity
type ClarityRating string

const (
	ClarityVeryClear     ClarityRating = "Very Clear"
	ClaritySomewhatClear ClarityRating = "Somewhat Clear"
	ClarityUnclear       ClarityRating = "Unclear"
)

// Valid reports whether the rating is one of the known values.
func (c ClarityRating) Valid() bool {
	switch c {
	case ClarityVeryClear, ClaritySomewhatClear, ClarityUnclear:
		return true
	}
	return false
}

// Problem is a persisted solved-problem record
type Problem struct {
	ID         string         `json:"id"`
	Problem    string         `json:"problem"`
	Solution   Solution       `json:"solution"`
	Category   Category       `json:"category"`
	Difficulty string         `json:"difficulty"`
	Source     SolutionSource `json:"source"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Feedback is a persisted feedback record for a solved problem.
// IsHelpful is stored independently of the ratings, not derived from them.
type Feedback struct {
	ID             string        `json:"id"`
	ProblemID      string        `json:"problem_id"`
	AccuracyRating int           `json:"accuracy_rating"`
	ClarityRating  ClarityRating `json:"clarity_rating"`
	Comments       string        `json:"comments,omitempty"`
	IsHelpful      bool          `json:"is_helpful"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Activity is an append-only system activity log record
type Activity struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	Source    SolutionSource `json:"source"`
	Details   string         `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// FeedbackStats aggregates feedback records
type FeedbackStats struct {
	Total             int     `json:"total"`
	AverageRating     float64 `json:"average_rating"`
	HelpfulPercentage float64 `json:"helpful_percentage"`
}

// KnowledgeBaseStats counts stored problems per category
type KnowledgeBaseStats struct {
	Total        int `json:"total"`
	Calculus     int `json:"calculus"`
	Algebra      int `json:"algebra"`
	Geometry     int `json:"geometry"`
	Statistics   int `json:"statistics"`
	Trigonometry int `json:"trigonometry"`
}
