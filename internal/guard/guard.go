// Package guard classifies free-text input as mathematical or not before
// routing runs. Rejection short-circuits the whole solve pipeline.
package guard

import (
	"regexp"
	"strings"
)

// ViolationType tags why input was rejected
type ViolationType string

const (
	ViolationPrivacy         ViolationType = "privacy"
	ViolationContent         ViolationType = "content"
	ViolationNonMathematical ViolationType = "non_mathematical"
)

// Result is the outcome of validating one input string
type Result struct {
	Accepted   bool          `json:"is_valid"`
	Reason     string        `json:"reason,omitempty"`
	Violation  ViolationType `json:"violation_type,omitempty"`
	Confidence float64       `json:"confidence_score,omitempty"`
	Categories []string      `json:"detected_categories,omitempty"`
}

// mathKeywords accept input as mathematical vocabulary.
var mathKeywords = []string{
	"equation", "derivative", "integral", "function", "solve", "calculate", "find",
	"algebra", "calculus", "geometry", "trigonometry", "statistics", "probability",
	"matrix", "vector", "polynomial", "logarithm", "exponential", "limit",
	"theorem", "proof", "formula", "graph", "plot", "coordinate", "angle",
	"triangle", "circle", "square", "rectangle", "area", "volume", "perimeter",
	"differential", "integration", "optimization", "linear", "quadratic",
	"sine", "cosine", "tangent", "pi", "infinity", "complex", "rational",
}

// prohibitedKeywords reject input as non-educational or sensitive.
var prohibitedKeywords = []string{
	"politics", "religion", "personal information", "medical diagnosis",
	"legal advice", "financial advice", "inappropriate", "offensive",
	"violent", "sexual", "drugs", "weapons", "illegal", "harmful",
	"social security", "credit card", "password", "private key",
}

// privacyPatterns reject input carrying personal data.
var privacyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),                               // SSN
	regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`),          // credit card
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), // email
	regexp.MustCompile(`\b\d{3}[\s-]?\d{3}[\s-]?\d{4}\b`),                     // phone
}

var (
	mathSymbolPattern  = regexp.MustCompile(`[+\-*/=<>∫∑∏√∞π∂∇±×÷≤≥≠≈∈∅∪∩]`)
	digitPattern       = regexp.MustCompile(`\d+`)
	variablePattern    = regexp.MustCompile(`\b[a-z]\b`)
	expressionPattern  = regexp.MustCompile(`[a-z]\s*[+\-*/^]\s*[a-z0-9]`)
	problemVerbPattern = regexp.MustCompile(`(solve|find|calculate|compute|determine)`)

	scriptPattern     = regexp.MustCompile(`(?is)<script.*?</script>`)
	sqlPatterns       = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(union|select|insert|update|delete|drop|create|alter)\s+`),
		regexp.MustCompile(`(?i)(or|and)\s+1\s*=\s*1`),
		regexp.MustCompile(`(?i)(or|and)\s+1\s*=\s*0`),
	}
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// acceptThreshold is the minimum confidence for input to count as
// mathematical.
const acceptThreshold = 0.3

// Guard validates and sanitizes problem input
type Guard struct{}

// New creates a Guard.
func New() *Guard {
	return &Guard{}
}

// Validate applies the policy in order: privacy check, prohibited-content
// check, then mathematical-nature scoring.
func (g *Guard) Validate(input string) Result {
	lower := strings.ToLower(input)

	for _, pattern := range privacyPatterns {
		if pattern.MatchString(input) {
			return Result{
				Accepted:  false,
				Reason:    "Input contains sensitive personal information. Please remove any personal data and try again.",
				Violation: ViolationPrivacy,
			}
		}
	}

	for _, keyword := range prohibitedKeywords {
		if strings.Contains(lower, keyword) {
			return Result{
				Accepted:  false,
				Reason:    "Content appears to be non-educational or inappropriate. Please enter a mathematical problem.",
				Violation: ViolationContent,
			}
		}
	}

	return g.scoreMathematical(input, lower)
}

// scoreMathematical adds up signals: keywords, symbols, digit+variable
// pairs, expressions and problem verbs. The sum must reach acceptThreshold.
func (g *Guard) scoreMathematical(input, lower string) Result {
	var confidence float64
	var categories []string

	for _, keyword := range mathKeywords {
		if strings.Contains(lower, keyword) {
			confidence += 0.4
			categories = append(categories, "keywords")
			break
		}
	}

	if mathSymbolPattern.MatchString(input) {
		confidence += 0.3
		categories = append(categories, "symbols")
	}

	if digitPattern.MatchString(input) && variablePattern.MatchString(lower) {
		confidence += 0.2
		categories = append(categories, "variables_numbers")
	}

	if expressionPattern.MatchString(lower) {
		confidence += 0.1
		categories = append(categories, "expressions")
	}

	if problemVerbPattern.MatchString(lower) {
		confidence += 0.1
		categories = append(categories, "problem_language")
	}

	if confidence >= acceptThreshold {
		if confidence > 1.0 {
			confidence = 1.0
		}
		return Result{
			Accepted:   true,
			Confidence: confidence,
			Categories: categories,
		}
	}

	return Result{
		Accepted:   false,
		Reason:     "This doesn't appear to be a mathematical problem. Please enter a question related to mathematics, such as equations, calculus, geometry, or algebra.",
		Violation:  ViolationNonMathematical,
		Confidence: confidence,
	}
}

// Sanitize strips script tags and SQL-injection patterns while preserving
// mathematical notation, then collapses whitespace.
func (g *Guard) Sanitize(input string) string {
	sanitized := scriptPattern.ReplaceAllString(input, "")
	for _, pattern := range sqlPatterns {
		sanitized = pattern.ReplaceAllString(sanitized, "")
	}
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(sanitized, " "))
}
