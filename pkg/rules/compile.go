package rules

import (
	"fmt"
	"regexp"
	"sort"
)

// PatternError reports a regex rule whose pattern failed to compile. Fatal
// to the compile call, carrying the offending column and pattern.
type PatternError struct {
	Column  string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q for column %q: %v", e.Pattern, e.Column, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// compiledRule is a rule with its per-compile state resolved: the regex
// compiled once, the option set built once.
type compiledRule struct {
	rule    Rule
	re      *regexp.Regexp
	options map[string]struct{}
}

// Chain is the compiled rule chain of a single ruled column.
type Chain struct {
	Column string // header name
	Index  int    // position in the table headers
	rules  []compiledRule
}

// Len returns the number of rules in the chain.
func (ch *Chain) Len() int { return len(ch.rules) }

// EvaluateInto evaluates every rule in the chain against value, independently
// and in declaration order, appending each triggered kind to dst. It never
// short-circuits: one cell can contribute several kinds. dst is returned so
// callers can reuse one buffer across cells.
func (ch *Chain) EvaluateInto(value string, dst []Kind) []Kind {
	for i := range ch.rules {
		if k, bad := ch.rules[i].check(value); bad {
			dst = append(dst, k)
		}
	}
	return dst
}

// check applies one rule to a value. Exhaustive over the rule variants; a
// new variant must be handled here or validation silently passes it, so the
// default panics.
func (cr *compiledRule) check(value string) (Kind, bool) {
	switch cr.rule.Type {
	case TypeNotEmpty:
		if len(value) == 0 || allSpace(value) {
			return KindRequired, true
		}
	case TypeNumber:
		f, ok := finiteNumber(value)
		if !ok {
			return KindNotANumber, true
		}
		if cr.rule.Min != nil && f < *cr.rule.Min {
			return KindMinValue, true
		}
		if cr.rule.Max != nil && f > *cr.rule.Max {
			return KindMaxValue, true
		}
	case TypeEmail:
		if !validEmail(value) {
			return KindInvalidEmail, true
		}
	case TypeOneOf:
		if _, ok := cr.options[value]; !ok {
			return KindInvalidOption, true
		}
	case TypeRegex:
		if !cr.re.MatchString(value) {
			return KindPatternMismatch, true
		}
	default:
		panic(fmt.Sprintf("rules: unhandled rule type %d", cr.rule.Type))
	}
	return "", false
}

func allSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
		default:
			return false
		}
	}
	return true
}

// Compiled holds the per-column validator chains resolved against a concrete
// header row, ordered by header position.
type Compiled struct {
	chains  []Chain
	byIndex []*Chain // header position -> chain, nil for unruled columns
}

// Compile resolves each spec entry's column name to its first index in
// headers and pre-compiles regex patterns. Columns absent from headers are
// skipped silently (absent mapping means unchecked); a later spec entry for
// the same column replaces an earlier one. The only fatal outcome is a
// *PatternError.
func Compile(spec []ColumnRules, headers []string) (*Compiled, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}

	byCol := make(map[int]Chain)
	for _, cr := range spec {
		idx, ok := index[cr.Column]
		if !ok {
			continue
		}
		ch := Chain{Column: cr.Column, Index: idx, rules: make([]compiledRule, 0, len(cr.Rules))}
		for _, r := range cr.Rules {
			c := compiledRule{rule: r}
			switch r.Type {
			case TypeRegex:
				// Patterns match the whole field, not a substring.
				re, err := regexp.Compile(`\A(?:` + r.Pattern + `)\z`)
				if err != nil {
					return nil, &PatternError{Column: cr.Column, Pattern: r.Pattern, Err: err}
				}
				c.re = re
			case TypeOneOf:
				c.options = make(map[string]struct{}, len(r.Options))
				for _, o := range r.Options {
					c.options[o] = struct{}{}
				}
			}
			ch.rules = append(ch.rules, c)
		}
		byCol[idx] = ch
	}

	c := &Compiled{byIndex: make([]*Chain, len(headers))}
	c.chains = make([]Chain, 0, len(byCol))
	for _, ch := range byCol {
		c.chains = append(c.chains, ch)
	}
	sort.Slice(c.chains, func(i, j int) bool { return c.chains[i].Index < c.chains[j].Index })
	for i := range c.chains {
		c.byIndex[c.chains[i].Index] = &c.chains[i]
	}
	return c, nil
}

// Chains returns the compiled chains in header order.
func (c *Compiled) Chains() []Chain { return c.chains }

// ChainAt returns the chain for a header position, or nil if the column is
// unruled.
func (c *Compiled) ChainAt(index int) *Chain {
	if index < 0 || index >= len(c.byIndex) {
		return nil
	}
	return c.byIndex[index]
}

// EvaluateCell evaluates the chain at a header position against value and
// returns all triggered kinds in declaration order. Pure and deterministic.
func (c *Compiled) EvaluateCell(index int, value string) []Kind {
	ch := c.ChainAt(index)
	if ch == nil {
		return nil
	}
	return ch.EvaluateInto(value, nil)
}
