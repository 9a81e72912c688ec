// Package benchmark evaluates the routing agent against a fixed set of
// JEE-style exam problems and scores the solutions it produces.
package benchmark

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/mathroute/internal/agent"
	"github.com/mathroute/pkg/models"
)

// Problem is one benchmark case.
type Problem struct {
	ID               string          `json:"id"`
	Problem          string          `json:"problem"`
	Category         models.Category `json:"category"`
	Difficulty       string          `json:"difficulty"`
	ExpectedApproach string          `json:"expected_approach"`
	Topic            string          `json:"topic"`
}

// Evaluation scores one solution out of 100.
type Evaluation struct {
	Score              int      `json:"score"`
	Strengths          []string `json:"strengths"`
	Issues             []string `json:"issues"`
	MathematicalRigor  int      `json:"mathematical_rigor"`
	ExplanationClarity int      `json:"explanation_clarity"`
	Completeness       int      `json:"completeness"`
}

// ProblemResult is the outcome for one benchmark case.
type ProblemResult struct {
	ProblemID       string                `json:"problem_id"`
	ProblemText     string                `json:"problem_text"`
	Category        models.Category       `json:"category"`
	Difficulty      string                `json:"difficulty"`
	Topic           string                `json:"topic"`
	Solved          bool                  `json:"solved_successfully"`
	ResponseSeconds float64               `json:"response_time_seconds"`
	SourceUsed      models.SolutionSource `json:"source_used,omitempty"`
	Confidence      float64               `json:"confidence_score"`
	Evaluation      Evaluation            `json:"solution_evaluation"`
	StepsCount      int                   `json:"steps_count"`
	HasFinalAnswer  bool                  `json:"has_final_answer"`
	Error           string                `json:"error,omitempty"`
}

// Aggregate summarizes a full run.
type Aggregate struct {
	TotalProblems   int                        `json:"total_problems"`
	SolvedCount     int                        `json:"solved_count"`
	SuccessRate     float64                    `json:"success_rate"`
	AverageScore    float64                    `json:"average_score"`
	AverageSeconds  float64                    `json:"average_response_seconds"`
	ByCategory      map[models.Category]int    `json:"solved_by_category"`
	SourceBreakdown map[models.SolutionSource]int `json:"source_breakdown"`
}

// Report is the full benchmark output.
type Report struct {
	StartedAt       time.Time       `json:"started_at"`
	CompletedAt     time.Time       `json:"completed_at"`
	DurationSeconds float64         `json:"total_duration_seconds"`
	Results         []ProblemResult `json:"individual_results"`
	Aggregate       Aggregate       `json:"aggregate_metrics"`
}

// Runner drives the agent through the benchmark set.
type Runner struct {
	agent    *agent.Agent
	problems []Problem
}

// NewRunner creates a runner over the built-in problem set.
func NewRunner(a *agent.Agent) *Runner {
	return &Runner{agent: a, problems: jeeProblems()}
}

// Run solves and evaluates every benchmark problem.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: time.Now().UTC()}

	for _, problem := range r.problems {
		log.Printf("Benchmark: evaluating %s", problem.ID)
		report.Results = append(report.Results, r.evaluate(ctx, problem))
	}

	report.CompletedAt = time.Now().UTC()
	report.DurationSeconds = report.CompletedAt.Sub(report.StartedAt).Seconds()
	report.Aggregate = aggregate(report.Results)
	return report, nil
}

func (r *Runner) evaluate(ctx context.Context, problem Problem) ProblemResult {
	start := time.Now()
	result := ProblemResult{
		ProblemID:   problem.ID,
		ProblemText: problem.Problem,
		Category:    problem.Category,
		Difficulty:  problem.Difficulty,
		Topic:       problem.Topic,
	}

	response, err := r.agent.Solve(ctx, problem.Problem, true, true)
	result.ResponseSeconds = time.Since(start).Seconds()
	if err != nil {
		result.Evaluation = Evaluation{Issues: []string{"Failed to solve"}}
		result.Error = err.Error()
		return result
	}

	result.Solved = true
	result.SourceUsed = response.Source
	result.Confidence = response.Confidence
	result.StepsCount = len(response.Solution.Steps)
	result.HasFinalAnswer = response.Solution.FinalAnswer != ""
	result.Evaluation = evaluateSolution(problem, response.Solution)
	return result
}

var approachKeywords = map[string][]string{
	"discriminant_analysis":      {"discriminant", "real", "distinct"},
	"optimization_trigonometry":  {"maximum", "minimum", "derivative"},
	"circle_equation":            {"circle", "equation", "points"},
	"substitution_trigonometric": {"substitution", "trigonometric"},
	"complex_number_locus":       {"locus", "complex", "equation"},
}

var rigorTerms = []string{"theorem", "formula", "equation", "derivative", "integral", "proof"}

func evaluateSolution(problem Problem, solution models.Solution) Evaluation {
	eval := Evaluation{}

	if len(solution.Steps) > 0 {
		eval.Completeness += 5
		eval.Strengths = append(eval.Strengths, "Solution has step-by-step breakdown")
	} else {
		eval.Issues = append(eval.Issues, "No step-by-step solution provided")
	}

	if solution.FinalAnswer != "" {
		eval.Completeness += 5
		eval.Strengths = append(eval.Strengths, "Final answer provided")
	} else {
		eval.Issues = append(eval.Issues, "No final answer provided")
	}

	if len(solution.Steps) >= 2 {
		eval.MathematicalRigor += 4
		eval.Strengths = append(eval.Strengths, "Multi-step solution approach")
	}

	text, _ := json.Marshal(solution)
	lower := strings.ToLower(string(text))

	termCount := 0
	for _, term := range rigorTerms {
		if strings.Contains(lower, term) {
			termCount++
		}
	}
	if termCount >= 2 {
		eval.MathematicalRigor += 3
		eval.Strengths = append(eval.Strengths, "Uses appropriate mathematical terminology")
	}

	for _, step := range solution.Steps {
		if step.Explanation != "" {
			eval.ExplanationClarity += 2
		}
	}
	if eval.ExplanationClarity > 10 {
		eval.ExplanationClarity = 10
	}

	if keywords, ok := approachKeywords[problem.ExpectedApproach]; ok {
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				eval.MathematicalRigor += 3
				eval.Strengths = append(eval.Strengths, "Uses "+problem.ExpectedApproach+" approach")
				break
			}
		}
	}

	eval.Score = eval.MathematicalRigor*4 + eval.ExplanationClarity*3 + eval.Completeness*3
	eval.Score -= len(eval.Issues) * 10
	if eval.Score < 0 {
		eval.Score = 0
	}
	return eval
}

func aggregate(results []ProblemResult) Aggregate {
	agg := Aggregate{
		TotalProblems:   len(results),
		ByCategory:      make(map[models.Category]int),
		SourceBreakdown: make(map[models.SolutionSource]int),
	}
	if len(results) == 0 {
		return agg
	}

	var scoreSum, secondsSum float64
	for _, result := range results {
		secondsSum += result.ResponseSeconds
		scoreSum += float64(result.Evaluation.Score)
		if result.Solved {
			agg.SolvedCount++
			agg.ByCategory[result.Category]++
			agg.SourceBreakdown[result.SourceUsed]++
		}
	}

	agg.SuccessRate = float64(agg.SolvedCount) / float64(agg.TotalProblems) * 100
	agg.AverageScore = scoreSum / float64(agg.TotalProblems)
	agg.AverageSeconds = secondsSum / float64(agg.TotalProblems)
	return agg
}

// jeeProblems is the fixed benchmark set.
func jeeProblems() []Problem {
	return []Problem{
		{
			ID:               "jee_algebra_1",
			Problem:          "If the roots of the equation x² - 2ax + a² - b² = 0 are real and distinct, then prove that |a| < |b|",
			Category:         models.CategoryAlgebra,
			Difficulty:       "hard",
			ExpectedApproach: "discriminant_analysis",
			Topic:            "quadratic_equations",
		},
		{
			ID:               "jee_calculus_1",
			Problem:          "Find the maximum value of sin⁴x + cos⁴x",
			Category:         models.CategoryCalculus,
			Difficulty:       "hard",
			ExpectedApproach: "optimization_trigonometry",
			Topic:            "maxima_minima",
		},
		{
			ID:               "jee_geometry_1",
			Problem:          "Find the equation of the circle which passes through the points (0,0), (a,0) and (0,b)",
			Category:         models.CategoryGeometry,
			Difficulty:       "medium",
			ExpectedApproach: "circle_equation",
			Topic:            "coordinate_geometry",
		},
		{
			ID:               "jee_integration_1",
			Problem:          "Evaluate ∫(x²)/(√(1-x²)) dx",
			Category:         models.CategoryCalculus,
			Difficulty:       "hard",
			ExpectedApproach: "substitution_trigonometric",
			Topic:            "definite_integration",
		},
		{
			ID:               "jee_complex_1",
			Problem:          "If z = x + iy and |z - 1| = |z + 1|, find the locus of z",
			Category:         models.CategoryAlgebra,
			Difficulty:       "medium",
			ExpectedApproach: "complex_number_locus",
			Topic:            "complex_numbers",
		},
	}
}
