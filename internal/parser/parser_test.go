package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCircuitTypeAndSolution(t *testing.T) {
	raw := "Circuit Type: Voltage Divider\nFinal Answer: The output is 5V."

	analysis := Parse(raw)

	assert.Equal(t, "Voltage Divider", analysis.CircuitType)
	assert.Equal(t, "The output is 5V.", analysis.Solution, "prefix stripped, trailing punctuation kept")
	assert.Equal(t, raw, analysis.AnalysisSummary, "summary keeps the input verbatim")
	assert.Empty(t, analysis.Components)
	assert.Empty(t, analysis.Calculations)
	assert.Equal(t, DefaultConfidence, analysis.ConfidenceLevel)
}

func TestParseUnstructuredInputFallsBackToDefaults(t *testing.T) {
	raw := "some prose without any of the section markers"

	analysis := Parse(raw)

	assert.Equal(t, DefaultCircuitType, analysis.CircuitType)
	assert.Equal(t, DefaultSolution, analysis.Solution)
	assert.Equal(t, raw, analysis.AnalysisSummary)
	assert.Empty(t, analysis.Components)
	assert.Empty(t, analysis.Calculations)
	assert.Equal(t, DefaultConfidence, analysis.ConfidenceLevel)
}

func TestParseEmptyInput(t *testing.T) {
	analysis := Parse("")

	assert.Equal(t, DefaultCircuitType, analysis.CircuitType)
	assert.Equal(t, DefaultSolution, analysis.Solution)
	assert.NotNil(t, analysis.Components)
	assert.NotNil(t, analysis.Calculations)
}

func TestParseLastCircuitTypeLineWins(t *testing.T) {
	raw := "Circuit Type: RC Circuit\nCircuit identification: RL Circuit"

	analysis := Parse(raw)

	assert.Equal(t, "RL Circuit", analysis.CircuitType)
}

func TestParseCalculationsIncludeHeaderLineAndSkipComments(t *testing.T) {
	raw := "Calculations:\nV = I * R\nV = 2 * 5 = 10V\n# internal note"

	analysis := Parse(raw)

	assert.Equal(t, []string{"Calculations:", "V = I * R", "V = 2 * 5 = 10V"}, analysis.Calculations)
}

func TestParseSolutionStripsMarkdownEmphasis(t *testing.T) {
	raw := "## Solution\n**The output voltage is `10V`**"

	analysis := Parse(raw)

	assert.Equal(t, "The output voltage is 10V", analysis.Solution)
}

func TestParseSolutionJoinsLinesWithSpaces(t *testing.T) {
	raw := "Solution:\nThe current is 2A.\nThe power is 20W."

	analysis := Parse(raw)

	assert.Equal(t, "The current is 2A. The power is 20W.", analysis.Solution)
}

func TestParseSolutionPrefixStrippedCaseInsensitively(t *testing.T) {
	for raw, want := range map[string]string{
		"FINAL ANSWER: yes":        "yes",
		"Solution: the answer":     "the answer",
		"Result: 42 ohms in total": "42 ohms in total",
	} {
		analysis := Parse(raw)
		assert.Equal(t, want, analysis.Solution, "input %q", raw)
	}
}

func TestParseConfidenceSectionPerformsNoExtraction(t *testing.T) {
	// the confidence section is recognized but deliberately carries no
	// extraction rule
	raw := "Confidence: 0.95"

	analysis := Parse(raw)

	assert.Equal(t, DefaultConfidence, analysis.ConfidenceLevel)
}

func TestParseComponentsSectionIsNeverStructurallyParsed(t *testing.T) {
	raw := "Components:\n- Resistor R1: 10k\n- Resistor R2: 20k"

	analysis := Parse(raw)

	assert.Empty(t, analysis.Components)
}

func TestParseSectionPriorityOrder(t *testing.T) {
	// "circuit type" wins over the solution keywords on the same line
	raw := "The final circuit type result: Series RLC"

	analysis := Parse(raw)

	assert.Equal(t, "Series RLC", analysis.CircuitType)
}
