// Package validation cross-checks a CircuitAnalysis for internal consistency
// and produces a bounded confidence adjustment. The engine is a pure function
// of its input and the static rule tables: no I/O, no randomness, no mutation
// of the analysis.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"circuitsight/apimodels"
)

// Confidence adjustment weights and bounds.
const (
	errorPenalty   = 0.2
	warningPenalty = 0.1
	cleanBonus     = 0.1
	minAdjustment  = -0.5
	maxAdjustment  = 0.2
)

var (
	powerRe      = regexp.MustCompile(`(?i)power[^=\n]*=\s*(\d+\.?\d*)`)
	voltageRe    = regexp.MustCompile(`(?i)voltage[^=\n]*=\s*(\d+\.?\d*)`)
	currentRe    = regexp.MustCompile(`(?i)current[^=\n]*=\s*(\d+\.?\d*)`)
	resistanceRe = regexp.MustCompile(`(?i)resistance[^=\n]*=\s*(\d+\.?\d*)`)
)

type Engine struct {
	rules  []CircuitRule
	ranges map[string]ComponentRange
}

func NewEngine() *Engine {
	return &Engine{
		rules:  circuitRules,
		ranges: componentRanges,
	}
}

// Validate runs the four check families over the analysis and accumulates
// their findings in order. OverallValid is unconditionally true: no check
// family flips it today, and changing that is a policy decision for the call
// site, not a side effect of adding checks.
func (e *Engine) Validate(analysis apimodels.CircuitAnalysis) apimodels.ValidationResult {
	result := apimodels.ValidationResult{
		OverallValid: true,
		Warnings:     []string{},
		Errors:       []string{},
		Suggestions:  []string{},
	}

	e.checkCircuitType(analysis, &result)
	e.checkComponentValues(analysis.Components, &result)
	e.checkCalculations(analysis.Calculations, &result)
	e.checkPhysics(analysis, &result)

	result.ConfidenceAdjustment = adjustment(len(result.Errors), len(result.Warnings))
	return result
}

// checkCircuitType compares the identified circuit type against the known
// pattern signatures. Every pattern whose name appears in the type string is
// checked independently.
func (e *Engine) checkCircuitType(analysis apimodels.CircuitAnalysis, result *apimodels.ValidationResult) {
	typeLower := strings.ToLower(analysis.CircuitType)

	for _, rule := range e.rules {
		if !matchesPattern(typeLower, rule.Pattern) {
			continue
		}

		if len(analysis.Components) < len(rule.Components) {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"Circuit identified as %s but only %d components found. Expected at least %d.",
				rule.Pattern, len(analysis.Components), len(rule.Components)))
		}

		names := make(map[string]bool, len(analysis.Components))
		for _, comp := range analysis.Components {
			names[strings.ToLower(comp.Name)] = true
		}
		for _, expected := range rule.Components {
			if !names[expected] {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"Expected %s component for %s circuit", expected, rule.Pattern))
			}
		}
	}
}

// checkComponentValues parses each component's value string and flags
// magnitudes outside the plausible range for its kind.
func (e *Engine) checkComponentValues(components []apimodels.CircuitComponent, result *apimodels.ValidationResult) {
	for _, comp := range components {
		value, unit, ok := ExtractValue(comp.Value)
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"Could not parse value for %s: %s", comp.Name, comp.Value))
			continue
		}

		expected, known := e.ranges[strings.ToLower(comp.Name)]
		if !known {
			continue
		}

		normalized := normalizeValue(value, unit, expected.Unit)
		if normalized < expected.Min {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"%s value %s seems unusually low", comp.Name, comp.Value))
		} else if normalized > expected.Max {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"%s value %s seems unusually high", comp.Name, comp.Value))
		}
	}
}

// checkCalculations scans each calculation line for division by zero,
// negative passive-component values, and time-constant results missing a
// seconds unit.
func (e *Engine) checkCalculations(calculations []string, result *apimodels.ValidationResult) {
	for _, calc := range calculations {
		lower := strings.ToLower(calc)

		if strings.Contains(calc, "÷0") || strings.Contains(calc, "/0") ||
			strings.Contains(calc, "÷ 0") || strings.Contains(calc, "/ 0") {
			result.Errors = append(result.Errors, fmt.Sprintf("Division by zero detected: %s", calc))
		}

		if strings.Contains(calc, "= -") &&
			(strings.Contains(lower, "resistance") || strings.Contains(lower, "capacitance") ||
				strings.Contains(lower, "inductance")) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Negative value for passive component: %s", calc))
		}

		if strings.Contains(lower, "ohm") && strings.Contains(lower, "farad") &&
			strings.Contains(lower, "time") && !strings.Contains(lower, "second") {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"Time constant calculation should result in seconds: %s", calc))
		}
	}
}

// checkPhysics cross-checks quantities mentioned in the full answer text:
// implausibly high power figures, and Ohm's law over the first voltage,
// current and resistance values. Malformed numbers skip the check silently.
func (e *Engine) checkPhysics(analysis apimodels.CircuitAnalysis, result *apimodels.ValidationResult) {
	summary := analysis.AnalysisSummary
	summaryLower := strings.ToLower(summary)

	if strings.Contains(summaryLower, "power") {
		matches := powerRe.FindAllStringSubmatch(summary, -1)
		if len(matches) > 1 {
			maxPower := 0.0
			valid := true
			for _, m := range matches {
				p, err := strconv.ParseFloat(m[1], 64)
				if err != nil {
					valid = false
					break
				}
				maxPower = math.Max(maxPower, p)
			}
			if valid && maxPower > 1000 {
				result.Warnings = append(result.Warnings,
					"High power values detected - verify component ratings")
			}
		}
	}

	if strings.Contains(summaryLower, "voltage") && strings.Contains(summaryLower, "current") {
		v, okV := firstNumber(voltageRe, summary)
		i, okI := firstNumber(currentRe, summary)
		r, okR := firstNumber(resistanceRe, summary)
		if okV && okI && okR {
			// Ohm's law with 10% relative tolerance on the voltage term
			if math.Abs(v-i*r) > 0.1*v {
				result.Warnings = append(result.Warnings,
					"Voltage/current/resistance relationship may be inconsistent")
			}
		}
	}
}

// matchesPattern reports whether the circuit type mentions a pattern name.
// Pattern names use underscores internally ("voltage_divider") but model
// answers write them with spaces ("voltage divider circuit"); both forms
// match.
func matchesPattern(circuitType, pattern string) bool {
	return strings.Contains(circuitType, pattern) ||
		strings.Contains(circuitType, strings.ReplaceAll(pattern, "_", " "))
}

func firstNumber(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ExtractValue parses a component value string like "100 ohm", "10k" or
// "1.5V" into a numeric magnitude and unit. Patterns are tried in table
// order; the first match wins. ok is false when nothing matches.
func ExtractValue(valueStr string) (value float64, unit string, ok bool) {
	valueStr = strings.TrimSpace(valueStr)
	for _, vp := range valuePatterns {
		m := vp.re.FindStringSubmatch(valueStr)
		if m == nil {
			continue
		}
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		value, unit = vp.normalize(f, m[2])
		return value, unit, true
	}
	return 0, "", false
}

// normalizeValue converts between units for range comparison. Conversion is
// a passthrough today: magnitudes are compared as-is when the units differ.
func normalizeValue(value float64, fromUnit, toUnit string) float64 {
	if fromUnit == toUnit {
		return value
	}
	return value
}

// adjustment applies the scoring rule: each error costs 0.2, each warning
// 0.1, and a clean pass earns a flat 0.1 bonus. The result is clamped to
// [-0.5, 0.2].
func adjustment(errorCount, warningCount int) float64 {
	adj := -errorPenalty*float64(errorCount) - warningPenalty*float64(warningCount)
	if errorCount == 0 && warningCount == 0 {
		adj += cleanBonus
	}
	return math.Max(minAdjustment, math.Min(maxAdjustment, adj))
}
