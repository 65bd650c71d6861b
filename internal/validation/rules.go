package validation

import "regexp"

// CircuitRule describes a named circuit pattern and the component signature a
// circuit of that type is expected to carry. The relationship text is
// descriptive reference data only.
type CircuitRule struct {
	Pattern      string
	Components   []string
	Connections  string
	Relationship string
}

// ComponentRange bounds the plausible magnitude for a component kind. Values
// outside the range are flagged, not rejected.
type ComponentRange struct {
	Min  float64
	Max  float64
	Unit string
}

// circuitRules is ordered: rules are checked in this sequence so warning
// order is deterministic. A circuit type string can match several patterns;
// each match runs independently.
var circuitRules = []CircuitRule{
	{
		Pattern:      "voltage_divider",
		Components:   []string{"resistor", "resistor"},
		Connections:  "series",
		Relationship: "output voltage proportional to resistance",
	},
	{
		Pattern:      "current_divider",
		Components:   []string{"resistor", "resistor"},
		Connections:  "parallel",
		Relationship: "branch current inversely proportional to resistance",
	},
	{
		Pattern:      "rc_circuit",
		Components:   []string{"resistor", "capacitor"},
		Relationship: "time constant R * C",
	},
	{
		Pattern:      "rl_circuit",
		Components:   []string{"resistor", "inductor"},
		Relationship: "time constant L / R",
	},
}

// componentRanges maps a lowercased component kind to its typical magnitude
// range. Unknown kinds are parsed but never range-checked.
var componentRanges = map[string]ComponentRange{
	"resistor":       {Min: 0.1, Max: 1000000, Unit: "ohm"},
	"capacitor":      {Min: 0.000000001, Max: 1, Unit: "farad"},
	"inductor":       {Min: 0.000001, Max: 10, Unit: "henry"},
	"voltage_source": {Min: 0.1, Max: 1000000, Unit: "volt"},
	"current_source": {Min: 0.000001, Max: 100, Unit: "ampere"},
}

// valuePattern pairs a regular expression with the normalizer applied to its
// captures. Patterns are tried in order, first match wins; adding a unit
// (say, an uppercase mega prefix) is a table edit here, not new control flow.
type valuePattern struct {
	re        *regexp.Regexp
	normalize func(value float64, unit string) (float64, string)
}

var valuePatterns = []valuePattern{
	// "100 ohm", "47 uF" - number, whitespace, unit word
	{regexp.MustCompile(`^(\d+\.?\d*)\s+([a-zA-ZΩμ]+)`), normalizeUnit},
	// "10k", "47μ" - lowercase shorthand suffix
	{regexp.MustCompile(`^(\d+\.?\d*)([kmμu])`), normalizeUnit},
	// "1.5V", "2A" - electrical unit letter
	{regexp.MustCompile(`^(\d+\.?\d*)([VvAa])`), normalizeUnit},
}

// normalizeUnit applies the shorthand multipliers: k scales to ohms by 1000,
// m to ohms by 0.001, μ/u to farads by 1e-6. Anything else passes through
// with its matched unit text.
func normalizeUnit(value float64, unit string) (float64, string) {
	switch unit {
	case "k", "K":
		return value * 1000, "ohm"
	case "m":
		return value * 0.001, "ohm"
	case "μ", "u":
		return value * 0.000001, "farad"
	}
	return value, unit
}
