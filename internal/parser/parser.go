// Package parser turns the model's free-text circuit answer into a structured
// CircuitAnalysis. It never fails: unparseable input degrades to defaults.
package parser

import (
	"strings"
	"time"

	"circuitsight/apimodels"
)

// Defaults used when a field cannot be extracted from the answer text.
const (
	DefaultCircuitType = "Unknown Circuit"
	DefaultSolution    = "Analysis completed"
	DefaultConfidence  = 0.8
)

// section is the scanner state. The answer text is scanned once, line by
// line; each line may switch the section and is then extracted under the
// section's own rule.
type section int

const (
	sectionNone section = iota
	sectionCircuitType
	sectionComponents
	sectionCalculations
	sectionSolution
	sectionConfidence
)

// solutionPrefixes are stripped from the front of the joined solution text,
// first match wins.
var solutionPrefixes = []string{"final answer:", "solution:", "answer:", "result:"}

// classify returns the section a line switches to, or the current one if no
// keyword set matches. Predicates are checked in a fixed order, first match
// wins.
func classify(line string, current section) section {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "circuit") &&
		(strings.Contains(lower, "type") || strings.Contains(lower, "identification")):
		return sectionCircuitType
	case strings.Contains(lower, "component"):
		return sectionComponents
	case strings.Contains(lower, "calculation"):
		return sectionCalculations
	case strings.Contains(lower, "solution") || strings.Contains(lower, "answer") ||
		strings.Contains(lower, "final") || strings.Contains(lower, "result"):
		return sectionSolution
	case strings.Contains(lower, "confidence"):
		return sectionConfidence
	}
	return current
}

// stripEmphasis removes markdown emphasis characters from a line.
func stripEmphasis(line string) string {
	line = strings.ReplaceAll(line, "*", "")
	line = strings.ReplaceAll(line, "`", "")
	return strings.TrimSpace(line)
}

// Parse scans the raw model answer and builds a CircuitAnalysis. Every field
// is populated; AnalysisSummary keeps the input verbatim. Components are never
// extracted from the text, and the confidence section is recognized but holds
// no extraction rule: ConfidenceLevel is always the fixed default before the
// validation adjustment is applied.
func Parse(raw string) apimodels.CircuitAnalysis {
	analysis := apimodels.CircuitAnalysis{
		CircuitType:     DefaultCircuitType,
		Components:      []apimodels.CircuitComponent{},
		AnalysisSummary: raw,
		Calculations:    []string{},
		Solution:        DefaultSolution,
		ConfidenceLevel: DefaultConfidence,
		Timestamp:       time.Now(),
	}

	current := sectionNone
	var solutionLines []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		current = classify(line, current)

		switch current {
		case sectionCircuitType:
			if idx := strings.Index(line, ":"); idx >= 0 {
				// last matching line wins
				analysis.CircuitType = strings.TrimSpace(line[idx+1:])
			}
		case sectionCalculations:
			if !strings.HasPrefix(line, "#") {
				analysis.Calculations = append(analysis.Calculations, line)
			}
		case sectionSolution:
			if !strings.HasPrefix(line, "#") {
				if clean := stripEmphasis(line); clean != "" {
					solutionLines = append(solutionLines, clean)
				}
			}
		}
	}

	if len(solutionLines) > 0 {
		analysis.Solution = stripSolutionPrefix(strings.Join(solutionLines, " "))
	}

	return analysis
}

// stripSolutionPrefix removes a leading "Final Answer:"-style label,
// case-insensitively. Only the first matching prefix is stripped.
func stripSolutionPrefix(solution string) string {
	lower := strings.ToLower(solution)
	for _, prefix := range solutionPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(solution[len(prefix):])
		}
	}
	return solution
}
