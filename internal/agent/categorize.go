package agent

import (
	"strings"

	"github.com/mathroute/pkg/models"
)

var categoryKeywords = []struct {
	category models.Category
	keywords []string
}{
	{models.CategoryCalculus, []string{"derivative", "differentiate", "integrate", "integration", "limit", "d/dx", "∫"}},
	{models.CategoryAlgebra, []string{"equation", "solve", "factor", "quadratic", "linear", "polynomial", "system"}},
	{models.CategoryGeometry, []string{"triangle", "circle", "area", "volume", "perimeter", "angle", "coordinate"}},
	{models.CategoryStatistics, []string{"mean", "median", "mode", "standard deviation", "variance", "probability"}},
	{models.CategoryTrigonometry, []string{"sin", "cos", "tan", "trigonometric", "radian", "degree"}},
}

// Categorize buckets a problem by keyword. The first matching bucket wins;
// anything unmatched is general.
func Categorize(problem string) models.Category {
	lower := strings.ToLower(problem)
	for _, bucket := range categoryKeywords {
		for _, keyword := range bucket.keywords {
			if strings.Contains(lower, keyword) {
				return bucket.category
			}
		}
	}
	return models.CategoryGeneral
}
