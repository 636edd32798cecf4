// Package classifier decides whether a message is long-form or code-like
// enough to be moved out of the chat and into the paste store.
package classifier

import (
	"regexp"

	"pastebot/internal/models"
)

const (
	// longMessageLength forces externalization regardless of code-likeness.
	longMessageLength = 1000
	// codeLineThreshold is the minimum share of code-looking lines.
	codeLineThreshold = 0.3
)

// codeIndicators are tried in order against every line; the first match
// counts the line once.
var codeIndicators = []*regexp.Regexp{
	regexp.MustCompile("(?i)```"),
	regexp.MustCompile(`(?i)^\s*[a-zA-Z_][a-zA-Z0-9_]*\s*[=:]\s*`),
	regexp.MustCompile(`(?i)^\s*(def|function|class|import|from|if|for|while|try|catch)\s+`),
	regexp.MustCompile(`(?i)^\s*[{}()\[\]]`),
	regexp.MustCompile(`(?i)^\s*[#/]\s*`),
	regexp.MustCompile(`(?i)^\s*[a-zA-Z_][a-zA-Z0-9_]*\s*\(`),
}

// LanguageDetector is the detection capability the classifier falls back
// on when the line heuristics are inconclusive.
type LanguageDetector interface {
	Detect(sample models.Sample) string
}

// Decider is the eligibility classifier. It is pure: the decision is a
// function of the sample alone.
type Decider struct {
	minLength int
	detector  LanguageDetector
}

// NewDecider creates a classifier with the given minimum message length.
func NewDecider(minLength int, detector LanguageDetector) *Decider {
	return &Decider{minLength: minLength, detector: detector}
}

// ShouldExternalize reports whether the sample warrants a paste.
//
// Messages shorter than the minimum length never qualify. Above it, a
// message qualifies when it is very long, when more than 30% of its lines
// look like code, or when the language detector recognizes it.
func (d *Decider) ShouldExternalize(sample models.Sample) bool {
	if sample.Length < d.minLength {
		return false
	}

	codeLines := 0
	for _, line := range sample.Lines {
		for _, re := range codeIndicators {
			if re.MatchString(line) {
				codeLines++
				break
			}
		}
	}

	if sample.Length > longMessageLength {
		return true
	}
	if len(sample.Lines) > 0 && float64(codeLines)/float64(len(sample.Lines)) > codeLineThreshold {
		return true
	}

	return d.detector.Detect(sample) != ""
}
