package knowledge

import "github.com/mathroute/pkg/models"

type seedEntry struct {
	Problem  string
	Solution models.Solution
	Category models.Category
}

// seedProblems returns the built-in sample problems so that similarity
// search has deterministic non-empty output from process start.
func seedProblems() []seedEntry {
	return []seedEntry{
		{
			Problem:  "solve quadratic equation x² + 5x + 6 = 0",
			Category: models.CategoryAlgebra,
			Solution: models.Solution{
				Steps: []models.Step{
					{
						Number:      1,
						Title:       "Identify the quadratic equation",
						Content:     "x² + 5x + 6 = 0",
						Explanation: "This is a quadratic equation in standard form ax² + bx + c = 0",
					},
					{
						Number:      2,
						Title:       "Factor the quadratic expression",
						Content:     "x² + 5x + 6 = (x + 2)(x + 3)",
						Explanation: "Find two numbers that multiply to 6 and add to 5: 2 and 3",
					},
					{
						Number:      3,
						Title:       "Set each factor equal to zero",
						Content:     "x + 2 = 0  or  x + 3 = 0",
						Explanation: "Use the zero product property: if ab = 0, then a = 0 or b = 0",
					},
					{
						Number:      4,
						Title:       "Solve for x",
						Content:     "x = -2  or  x = -3",
						Explanation: "These are the roots of the quadratic equation",
					},
				},
				FinalAnswer: "x = -2 or x = -3",
			},
		},
		{
			Problem:  "find derivative of f(x) = 3x³ + 2x² - 5x + 1",
			Category: models.CategoryCalculus,
			Solution: models.Solution{
				Steps: []models.Step{
					{
						Number:      1,
						Title:       "Apply the power rule to each term",
						Content:     "f(x) = 3x³ + 2x² - 5x + 1",
						Explanation: "Use the power rule: d/dx[xⁿ] = n·xⁿ⁻¹",
					},
					{
						Number:      2,
						Title:       "Differentiate each term",
						Content:     "d/dx[3x³] = 9x²\nd/dx[2x²] = 4x\nd/dx[-5x] = -5\nd/dx[1] = 0",
						Explanation: "Apply the power rule and constant rule to each term",
					},
					{
						Number:      3,
						Title:       "Combine the results",
						Content:     "f'(x) = 9x² + 4x - 5",
						Explanation: "Sum all the derivatives to get the final answer",
					},
				},
				FinalAnswer: "f'(x) = 9x² + 4x - 5",
			},
		},
		{
			Problem:  "calculate area of triangle with sides 3, 4, 5",
			Category: models.CategoryGeometry,
			Solution: models.Solution{
				Steps: []models.Step{
					{
						Number:      1,
						Title:       "Check if it's a right triangle",
						Content:     "3² + 4² = 9 + 16 = 25 = 5²",
						Explanation: "Verify using Pythagorean theorem: a² + b² = c²",
					},
					{
						Number:      2,
						Title:       "Apply the area formula",
						Content:     "Area = ½ × base × height = ½ × 3 × 4 = 6",
						Explanation: "For a right triangle, use the two perpendicular sides",
					},
				},
				FinalAnswer: "Area = 6 square units",
			},
		},
		{
			Problem:  "solve system of equations 2x + y = 7, x - y = 2",
			Category: models.CategoryAlgebra,
			Solution: models.Solution{
				Steps: []models.Step{
					{
						Number:      1,
						Title:       "Set up the system",
						Content:     "2x + y = 7  ... (1)\nx - y = 2   ... (2)",
						Explanation: "We have a system of two linear equations with two unknowns",
					},
					{
						Number:      2,
						Title:       "Add the equations",
						Content:     "(2x + y) + (x - y) = 7 + 2\n3x = 9",
						Explanation: "Adding eliminates y, leaving us with one equation in x",
					},
					{
						Number:      3,
						Title:       "Solve for x",
						Content:     "x = 3",
						Explanation: "Divide both sides by 3",
					},
					{
						Number:      4,
						Title:       "Substitute to find y",
						Content:     "3 - y = 2\ny = 1",
						Explanation: "Substitute x = 3 into equation (2)",
					},
				},
				FinalAnswer: "x = 3, y = 1",
			},
		},
		{
			Problem:  "find sin(π/4) and cos(π/4)",
			Category: models.CategoryTrigonometry,
			Solution: models.Solution{
				Steps: []models.Step{
					{
						Number:      1,
						Title:       "Convert to degrees",
						Content:     "π/4 radians = 45°",
						Explanation: "π radians = 180°, so π/4 = 45°",
					},
					{
						Number:      2,
						Title:       "Use special triangle",
						Content:     "45-45-90 triangle has sides in ratio 1:1:√2",
						Explanation: "This is a well-known special right triangle",
					},
					{
						Number:      3,
						Title:       "Calculate trigonometric ratios",
						Content:     "sin(45°) = opposite/hypotenuse = 1/√2 = √2/2\ncos(45°) = adjacent/hypotenuse = 1/√2 = √2/2",
						Explanation: "Both sine and cosine are equal for 45°",
					},
				},
				FinalAnswer: "sin(π/4) = √2/2, cos(π/4) = √2/2",
			},
		},
	}
}
