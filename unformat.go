// Package unformat extracts typed values from strings using format-style
// patterns. It is the dual of string interpolation: "{name} is {age:d}"
// compiles to a regular expression with one capture group per field, and
// each captured substring converts back to its declared type.
package unformat

import (
	"errors"
)

// ErrValue marks compile errors, converter mis-declarations and
// conversion failures. ErrIndex marks converter group counts that point
// past the groups actually present. Both are errors.Is-testable.
var (
	ErrValue = errors.New("unformat")
	ErrIndex = errors.New("unformat: group index")
)

// Converter is a caller-supplied custom type. Pattern returns the regex
// fragment matching the type (inserted into the compiled pattern
// verbatim) and Convert maps a captured substring to its value.
//
// A converter whose pattern contains capturing groups must also
// implement GroupCounter, declaring how many groups the pattern adds.
type Converter interface {
	Convert(value string) (any, error)
	Pattern() string
}

// GroupCounter declares the number of capturing groups inside a
// converter's pattern. Implement it only when the pattern has groups.
type GroupCounter interface {
	RegexGroupCount() int
}

type patternFunc struct {
	pattern string
	fn      func(string) (any, error)
}

func (c *patternFunc) Convert(value string) (any, error) { return c.fn(value) }
func (c *patternFunc) Pattern() string                   { return c.pattern }

type groupedPatternFunc struct {
	patternFunc
	groups int
}

func (c *groupedPatternFunc) RegexGroupCount() int { return c.groups }

// WithPattern builds a Converter from a regex fragment without capturing
// groups and a conversion function.
func WithPattern(pattern string, fn func(string) (any, error)) Converter {
	return &patternFunc{pattern: pattern, fn: fn}
}

// WithPatternGroups builds a Converter whose pattern contains groups
// capturing groups of its own.
func WithPatternGroups(pattern string, groups int, fn func(string) (any, error)) Converter {
	return &groupedPatternFunc{patternFunc: patternFunc{pattern: pattern, fn: fn}, groups: groups}
}

// Parse compiles pattern and matches input against it, anchored at both
// ends. A nil Result with a nil error means the input did not match.
func Parse(pattern, input string) (*Result, error) {
	p, err := Compile(pattern)
	if err != nil {
		return nil, err
	}
	return p.Parse(input)
}

// Search compiles pattern and finds its first occurrence inside input.
func Search(pattern, input string) (*Result, error) {
	p, err := Compile(pattern)
	if err != nil {
		return nil, err
	}
	return p.Search(input)
}
