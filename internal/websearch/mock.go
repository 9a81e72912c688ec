package websearch

import (
	"fmt"

	"github.com/mathroute/pkg/models"
)

// MockResults returns static search results so the fallback path has a
// demonstrable shape without any API key configured.
func MockResults(query string) []models.SearchResult {
	return []models.SearchResult{
		{
			Title:     "Advanced Mathematical Concepts - MIT OpenCourseWare",
			Content:   fmt.Sprintf("This query '%s' involves advanced mathematical concepts that require specialized knowledge. The solution typically involves multiple steps using established mathematical principles and theorems.", query),
			URL:       "https://ocw.mit.edu/mathematics",
			Relevance: 0.85,
		},
		{
			Title:     "Mathematical Problem Solving - Khan Academy",
			Content:   fmt.Sprintf("Step-by-step approach to solving mathematical problems like '%s'. The methodology involves identifying the problem type, applying relevant formulas, and verifying the solution.", query),
			URL:       "https://khanacademy.org/math",
			Relevance: 0.78,
		},
	}
}
