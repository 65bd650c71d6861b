package apimodels

import "time"

// CircuitComponent is a single element extracted from a circuit, such as a
// resistor or voltage source. Value is kept as the free-text magnitude+unit
// string the model produced ("10k", "100 ohm"); interpretation happens in the
// validation engine.
type CircuitComponent struct {
	Name       string            `json:"name"`
	Value      string            `json:"value"`
	Position   string            `json:"position,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// CircuitAnalysis is the structured result of one analysis. It is created by
// the response parser and only ConfidenceLevel is mutated afterwards, by the
// orchestrator applying the validation adjustment.
type CircuitAnalysis struct {
	// CircuitType is the identified circuit topology, free text
	CircuitType string `json:"circuitType"`

	// Components in extraction order; may be empty
	Components []CircuitComponent `json:"components"`

	// AnalysisSummary is the full original model answer, kept verbatim
	AnalysisSummary string `json:"analysisSummary"`

	// Calculations are the step-by-step calculation lines, in order
	Calculations []string `json:"calculations"`

	// Solution is the cleaned direct answer
	Solution string `json:"solution"`

	// ConfidenceLevel is in [0,1]
	ConfidenceLevel float64 `json:"confidenceLevel"`

	Timestamp time.Time `json:"timestamp"`
}

// ClampConfidence forces ConfidenceLevel back into [0,1]. Every mutation of
// the field goes through this.
func (a *CircuitAnalysis) ClampConfidence() {
	if a.ConfidenceLevel < 0 {
		a.ConfidenceLevel = 0
	}
	if a.ConfidenceLevel > 1 {
		a.ConfidenceLevel = 1
	}
}
