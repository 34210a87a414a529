// Package rules defines the declarative validation rule model, the JSON wire
// decoding for rule specifications, and the compiled per-column validator
// chains evaluated by the validation pass.
package rules

import (
	"math"
	"strconv"
	"strings"
)

// Kind is a violation category. The string values are the wire/display names
// consumed by callers, so they are stable.
type Kind string

const (
	KindRequired        Kind = "Required"
	KindNotANumber      Kind = "Not a Number"
	KindMinValue        Kind = "Min Value"
	KindMaxValue        Kind = "Max Value"
	KindInvalidEmail    Kind = "Invalid Email"
	KindInvalidOption   Kind = "Invalid Option"
	KindPatternMismatch Kind = "Pattern Mismatch"
)

// Type discriminates the closed set of rule variants.
type Type int

const (
	TypeNotEmpty Type = iota
	TypeNumber
	TypeEmail
	TypeOneOf
	TypeRegex
)

// String returns the wire name of the rule type.
func (t Type) String() string {
	switch t {
	case TypeNotEmpty:
		return "notempty"
	case TypeNumber:
		return "number"
	case TypeEmail:
		return "email"
	case TypeOneOf:
		return "oneof"
	case TypeRegex:
		return "regex"
	}
	return "unknown"
}

// Rule is one variant of the tagged union. Only the fields relevant to Type
// are populated.
type Rule struct {
	Type    Type
	Min     *float64 // TypeNumber
	Max     *float64 // TypeNumber
	Options []string // TypeOneOf
	Pattern string   // TypeRegex
}

// ColumnRules binds an ordered rule chain to a column name.
type ColumnRules struct {
	Column string
	Rules  []Rule
}

// validEmail applies the minimal syntactic check: exactly one '@' with
// non-empty local and domain parts. Deliberately not RFC 5322. The empty
// string fails, so an Email rule alone reports Invalid Email for empty
// fields.
func validEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return strings.IndexByte(s[at+1:], '@') < 0
}

// finiteNumber parses s as a float64 and rejects NaN and infinities.
// No trimming: " 24" is not a number.
func finiteNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
