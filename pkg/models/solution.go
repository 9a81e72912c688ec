package models

// SolutionSource identifies which path produced a solution
type SolutionSource string

const (
	SourceKnowledgeBase SolutionSource = "knowledge_base"
	SourceWebSearch     SolutionSource = "web_search"
	SourceUserInput     SolutionSource = "user_input"
	SourceUserFeedback  SolutionSource = "user_feedback"
	SourceError         SolutionSource = "error"
)

// Category represents a mathematical problem category
type Category string

const (
	CategoryAlgebra      Category = "algebra"
	CategoryCalculus     Category = "calculus"
	CategoryGeometry     Category = "geometry"
	CategoryStatistics   Category = "statistics"
	CategoryTrigonometry Category = "trigonometry"
	CategoryGeneral      Category = "general"
)

// Categories lists all problem categories tracked in knowledge base stats
var Categories = []Category{
	CategoryAlgebra,
	CategoryCalculus,
	CategoryGeometry,
	CategoryStatistics,
	CategoryTrigonometry,
}

// Step represents a single step in a worked solution
type Step struct {
	Number      int    `json:"step"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Explanation string `json:"explanation,omitempty"`
}

// SourceRef points at an external resource a solution was assembled from
type SourceRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Solution represents a step-by-step solution with a final answer
type Solution struct {
	Steps       []Step      `json:"steps"`
	FinalAnswer string      `json:"final_answer"`
	Sources     []SourceRef `json:"sources,omitempty"`
	Confidence  float64     `json:"confidence_score,omitempty"`
}

// WithoutSteps returns a copy of the solution with the step sequence removed.
func (s Solution) WithoutSteps() Solution {
	out := s
	out.Steps = nil
	return out
}

// WithoutExplanations returns a copy of the solution with per-step
// explanations stripped.
func (s Solution) WithoutExplanations() Solution {
	out := s
	out.Steps = make([]Step, len(s.Steps))
	for i, step := range s.Steps {
		step.Explanation = ""
		out.Steps[i] = step
	}
	return out
}

// SearchResult represents one web search hit
type SearchResult struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	URL       string  `json:"url"`
	Relevance float64 `json:"relevance"`
}
