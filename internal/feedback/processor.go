// Package feedback turns user feedback into improvement suggestions and
// aggregate insights. The processing is rule-based: ratings, clarity levels
// and comment keywords map to fixed suggestion and adjustment strings.
package feedback

import (
	"strings"
	"sync"
	"time"

	"github.com/mathroute/pkg/models"
)

// Improvement holds the processed outcome for one problem's feedback.
type Improvement struct {
	ProblemID            string    `json:"problem_id"`
	Suggestions          []string  `json:"suggestions"`
	ConfidenceAdjustment string    `json:"confidence_adjustment"`
	ProcessedAt          time.Time `json:"processed_at"`
}

// Insights aggregates everything processed so far.
type Insights struct {
	TotalFeedback        int            `json:"total_feedback"`
	AverageAccuracy      float64        `json:"average_accuracy"`
	ClarityDistribution  map[string]int `json:"clarity_distribution"`
	Insights             []string       `json:"insights"`
	ImprovementCount     int            `json:"improvement_suggestions_count"`
}

// Processor accumulates feedback and derives improvement records.
type Processor struct {
	mu           sync.RWMutex
	history      []models.Feedback
	improvements map[string]*Improvement
}

// NewProcessor creates an empty processor.
func NewProcessor() *Processor {
	return &Processor{improvements: make(map[string]*Improvement)}
}

// Process records one feedback entry and derives suggestions for the
// problem it refers to.
func (p *Processor) Process(fb models.Feedback) *Improvement {
	improvement := &Improvement{
		ProblemID:            fb.ProblemID,
		Suggestions:          suggestionsFor(fb),
		ConfidenceAdjustment: confidenceAdjustment(fb),
		ProcessedAt:          time.Now().UTC(),
	}

	p.mu.Lock()
	p.history = append(p.history, fb)
	p.improvements[fb.ProblemID] = improvement
	p.mu.Unlock()

	return improvement
}

// ImprovementFor returns the latest improvement record for a problem, or
// nil when none exists.
func (p *Processor) ImprovementFor(problemID string) *Improvement {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.improvements[problemID]
}

// Summarize derives aggregate insights from all processed feedback.
func (p *Processor) Summarize() Insights {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := Insights{
		TotalFeedback:       len(p.history),
		ClarityDistribution: make(map[string]int),
		ImprovementCount:    len(p.improvements),
	}
	if len(p.history) == 0 {
		return out
	}

	var ratingSum int
	var allComments strings.Builder
	for _, fb := range p.history {
		ratingSum += fb.AccuracyRating
		out.ClarityDistribution[string(fb.ClarityRating)]++
		allComments.WriteString(strings.ToLower(fb.Comments))
		allComments.WriteString(" ")
	}
	out.AverageAccuracy = float64(ratingSum) / float64(len(p.history))

	if out.AverageAccuracy < 3 {
		out.Insights = append(out.Insights, "Overall solution accuracy needs improvement")
	}
	if out.ClarityDistribution[string(models.ClarityUnclear)] > out.ClarityDistribution[string(models.ClarityVeryClear)] {
		out.Insights = append(out.Insights, "Focus on improving explanation clarity")
	}

	comments := allComments.String()
	if strings.Contains(comments, "confusing") {
		out.Insights = append(out.Insights, "Users find explanations confusing - simplify language")
	}
	if strings.Contains(comments, "incomplete") {
		out.Insights = append(out.Insights, "Users want more comprehensive solutions")
	}

	return out
}

func suggestionsFor(fb models.Feedback) []string {
	var suggestions []string

	if fb.AccuracyRating <= 2 {
		suggestions = append(suggestions,
			"Review mathematical accuracy of the solution",
			"Verify calculation steps")
	}

	if fb.ClarityRating == models.ClarityUnclear {
		suggestions = append(suggestions,
			"Provide more detailed explanations",
			"Break down complex steps into smaller parts",
			"Add more context for mathematical concepts")
	}

	comments := strings.ToLower(fb.Comments)
	if strings.Contains(comments, "confusing") {
		suggestions = append(suggestions, "Simplify language and explanations")
	}
	if strings.Contains(comments, "wrong") {
		suggestions = append(suggestions, "Double-check mathematical calculations")
	}
	if strings.Contains(comments, "incomplete") {
		suggestions = append(suggestions, "Provide more comprehensive solution steps")
	}

	return suggestions
}

func confidenceAdjustment(fb models.Feedback) string {
	switch {
	case fb.AccuracyRating >= 4 && fb.ClarityRating == models.ClarityVeryClear:
		return "Increase confidence by 10%"
	case fb.AccuracyRating >= 3 && (fb.ClarityRating == models.ClarityVeryClear || fb.ClarityRating == models.ClaritySomewhatClear):
		return "Maintain current confidence level"
	case fb.AccuracyRating <= 2 || fb.ClarityRating == models.ClarityUnclear:
		return "Decrease confidence by 20%"
	default:
		return "Decrease confidence by 10%"
	}
}
