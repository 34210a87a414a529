package rules

import (
	"encoding/json"
	"fmt"
	"strings"
)

// wireRule is the JSON shape of a single rule object.
type wireRule struct {
	Type    string   `json:"type"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
	Options []string `json:"options"`
	Pattern string   `json:"pattern"`
}

// wireColumn is the JSON shape of one rule-spec entry.
type wireColumn struct {
	Column string     `json:"column"`
	Rules  []wireRule `json:"rules"`
}

// ParseSpec decodes the rule specification wire format: an ordered array of
// {column, rules} objects. Rules with an unknown type discriminator are
// dropped per-rule rather than failing the whole spec; schema mismatches are
// resolved later, at Compile time, by skipping unknown columns.
func ParseSpec(data []byte) ([]ColumnRules, error) {
	var wire []wireColumn
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("invalid rules JSON: %w", err)
	}

	spec := make([]ColumnRules, 0, len(wire))
	for _, wc := range wire {
		cr := ColumnRules{Column: wc.Column, Rules: make([]Rule, 0, len(wc.Rules))}
		for _, wr := range wc.Rules {
			r, ok := decodeRule(wr)
			if !ok {
				continue
			}
			cr.Rules = append(cr.Rules, r)
		}
		spec = append(spec, cr)
	}
	return spec, nil
}

func decodeRule(wr wireRule) (Rule, bool) {
	switch strings.ToLower(wr.Type) {
	case "notempty":
		return Rule{Type: TypeNotEmpty}, true
	case "number":
		return Rule{Type: TypeNumber, Min: wr.Min, Max: wr.Max}, true
	case "email":
		return Rule{Type: TypeEmail}, true
	case "oneof":
		return Rule{Type: TypeOneOf, Options: wr.Options}, true
	case "regex":
		return Rule{Type: TypeRegex, Pattern: wr.Pattern}, true
	}
	return Rule{}, false
}
