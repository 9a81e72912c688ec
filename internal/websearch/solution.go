package websearch

import (
	"fmt"
	"strings"

	"github.com/mathroute/pkg/models"
)

// summaryLimit caps how much of the first result's content appears in the
// synthesized solution.
const summaryLimit = 200

// procedureKeywords hint that the search results describe a concrete
// mathematical method.
var procedureKeywords = []string{"solve", "equation", "derivative", "integral", "formula"}

// BuildSolution shapes search results into a generic solution document.
// This is a template, not real synthesis: it demonstrates the fallback
// path, it does not produce a correct mathematical answer.
func BuildSolution(query string, results []models.SearchResult) models.Solution {
	if len(results) == 0 {
		return models.Solution{
			Steps: []models.Step{
				{
					Number:      1,
					Title:       "Advanced Topic Identified",
					Content:     "This appears to be an advanced mathematical topic",
					Explanation: "The problem requires specialized knowledge not available in our knowledge base",
				},
			},
			FinalAnswer: "Please consult specialized mathematical literature or provide more specific details",
			Confidence:  0.3,
		}
	}

	var combined strings.Builder
	for i, result := range results {
		if i >= 2 {
			break
		}
		if combined.Len() > 0 {
			combined.WriteString(" ")
		}
		combined.WriteString(result.Content)
	}
	content := combined.String()

	summary := content
	if runes := []rune(summary); len(runes) > summaryLimit {
		summary = string(runes[:summaryLimit])
	}

	steps := []models.Step{
		{
			Number:      1,
			Title:       "Problem Analysis",
			Content:     fmt.Sprintf("Based on current mathematical research: %s...", summary),
			Explanation: "Analysis from leading mathematical resources and academic sources",
		},
		{
			Number:      2,
			Title:       "Solution Approach",
			Content:     "This problem requires advanced mathematical techniques",
			Explanation: "The solution involves principles found in specialized mathematical literature",
		},
	}

	lowerContent := strings.ToLower(content)
	for _, keyword := range procedureKeywords {
		if strings.Contains(lowerContent, keyword) {
			steps = append(steps, models.Step{
				Number:      3,
				Title:       "Mathematical Method",
				Content:     "Apply the relevant mathematical method as described in the sources",
				Explanation: "Follow the step-by-step procedure outlined in the mathematical literature",
			})
			break
		}
	}

	sources := make([]models.SourceRef, 0, 3)
	confidence := 0.0
	for i, result := range results {
		if i < 3 {
			sources = append(sources, models.SourceRef{Title: result.Title, URL: result.URL})
		}
		if result.Relevance > confidence {
			confidence = result.Relevance
		}
	}

	return models.Solution{
		Steps:       steps,
		FinalAnswer: "This is an advanced mathematical topic. For detailed solutions, please consult the provided sources or seek specialized assistance.",
		Sources:     sources,
		Confidence:  confidence,
	}
}
