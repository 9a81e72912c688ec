package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAcceptsMathProblems(t *testing.T) {
	g := New()

	inputs := []string{
		"Solve x² + 5x + 6 = 0",
		"Find the derivative of f(x) = 3x³ + 2x² - 5x + 1",
		"calculate area of triangle with sides 3, 4, 5",
		"What is the integral of sin(x)?",
		"2 + 2",
	}

	for _, input := range inputs {
		result := g.Validate(input)
		assert.True(t, result.Accepted, "expected %q to be accepted", input)
		assert.GreaterOrEqual(t, result.Confidence, 0.3)
	}
}

func TestValidateRejectsNonMathematical(t *testing.T) {
	g := New()

	result := g.Validate("hello there")
	assert.False(t, result.Accepted)
	assert.Equal(t, ViolationNonMathematical, result.Violation)
	assert.NotEmpty(t, result.Reason)
}

func TestValidateKeywordsMatchSubstrings(t *testing.T) {
	g := New()

	// "capital" contains the keyword "pi"; keyword detection is substring
	// based, so this is accepted despite not being mathematical.
	result := g.Validate("What is the capital of France?")
	assert.True(t, result.Accepted)
	assert.GreaterOrEqual(t, result.Confidence, 0.3)
}

func TestValidateRejectsPrivacy(t *testing.T) {
	g := New()

	inputs := []string{
		"solve for my SSN 123-45-6789",
		"my card is 1234 5678 9012 3456, calculate the interest",
		"email me at someone@example.com with the answer",
		"call 555-123-4567 and solve x + 1 = 2",
	}

	for _, input := range inputs {
		result := g.Validate(input)
		assert.False(t, result.Accepted, "expected %q to be rejected", input)
		assert.Equal(t, ViolationPrivacy, result.Violation)
	}
}

func TestValidateRejectsProhibitedContent(t *testing.T) {
	g := New()

	result := g.Validate("give me legal advice about taxes")
	assert.False(t, result.Accepted)
	assert.Equal(t, ViolationContent, result.Violation)
}

func TestValidatePrivacyBeforeContent(t *testing.T) {
	g := New()

	// Contains both a privacy pattern and a prohibited keyword; privacy wins.
	result := g.Validate("my credit card 1234 5678 9012 3456")
	assert.Equal(t, ViolationPrivacy, result.Violation)
}

func TestValidateConfidenceCapped(t *testing.T) {
	g := New()

	// Every signal fires at once.
	result := g.Validate("solve the quadratic equation x + 2 = 5 using algebra")
	assert.True(t, result.Accepted)
	assert.LessOrEqual(t, result.Confidence, 1.0)
}

func TestSanitizeStripsScript(t *testing.T) {
	g := New()

	out := g.Sanitize("solve x + 1 = 2 <script>alert('xss')</script>")
	assert.Equal(t, "solve x + 1 = 2", out)
}

func TestSanitizeStripsSQLInjection(t *testing.T) {
	g := New()

	out := g.Sanitize("solve x = 1; DROP   table users")
	assert.NotContains(t, out, "DROP ")
}

func TestSanitizePreservesMathNotation(t *testing.T) {
	g := New()

	out := g.Sanitize("  ∫ x² dx   from 0   to π  ")
	assert.Equal(t, "∫ x² dx from 0 to π", out)
}
