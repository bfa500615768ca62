package unformat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Options adjust one Parse/Search/Match call. The zero value matches
// case-insensitively with only the compile-time converters.
type Options struct {
	// CaseSensitive selects the case-sensitive regex twin.
	CaseSensitive bool
	// ExtraTypes overlays the pattern's compile-time converter
	// snapshot for this call only.
	ExtraTypes map[string]Converter
}

// Parse matches input against the whole pattern. A nil Result with nil
// error means the input did not match (or a repeated name captured two
// different values).
func (p *Pattern) Parse(input string) (*Result, error) {
	return p.ParseOptions(input, Options{})
}

// ParseOptions is Parse with explicit per-call options.
func (p *Pattern) ParseOptions(input string, opts Options) (*Result, error) {
	res, _, err := p.extract(p.anchoredRegex(opts.CaseSensitive), input, opts, true)
	return res, err
}

// Search finds the first occurrence of the pattern anywhere in input.
func (p *Pattern) Search(input string) (*Result, error) {
	return p.SearchOptions(input, Options{})
}

// SearchOptions is Search with explicit per-call options.
func (p *Pattern) SearchOptions(input string, opts Options) (*Result, error) {
	re := p.reSearch
	if !opts.CaseSensitive && p.reSearchInsensive != nil {
		re = p.reSearchInsensive
	}
	res, _, err := p.extract(re, input, opts, true)
	return res, err
}

// Match runs the anchored regex but skips value conversion, returning
// the raw captured substrings and their spans.
func (p *Pattern) Match(input string) (*Match, error) {
	return p.MatchOptions(input, Options{})
}

// MatchOptions is Match with explicit per-call options.
func (p *Pattern) MatchOptions(input string, opts Options) (*Match, error) {
	_, m, err := p.extract(p.anchoredRegex(opts.CaseSensitive), input, opts, false)
	return m, err
}

func (p *Pattern) anchoredRegex(caseSensitive bool) *regexp.Regexp {
	if !caseSensitive && p.reInsensitive != nil {
		return p.reInsensitive
	}
	return p.re
}

// mergedConverters overlays per-call converters on the compile-time
// snapshot; per-call entries win.
func (p *Pattern) mergedConverters(extra map[string]Converter) map[string]Converter {
	if len(extra) == 0 {
		return p.extraTypes
	}
	merged := make(map[string]Converter, len(p.extraTypes)+len(extra))
	for k, v := range p.extraTypes {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// validateConverter checks a converter's group-count declaration against
// the groups actually present in its pattern.
func validateConverter(name string, conv Converter) error {
	actual := countCapturingGroups(conv.Pattern())
	gc, ok := conv.(GroupCounter)
	if !ok {
		if actual > 0 {
			return fmt.Errorf("%w: custom type %q pattern has %d capturing groups but the group count is not set", ErrValue, name, actual)
		}
		return nil
	}
	declared := gc.RegexGroupCount()
	if declared < 0 {
		return fmt.Errorf("%w: group count must be >= 0, got %d", ErrValue, declared)
	}
	if declared == 0 && actual > 0 {
		return fmt.Errorf("%w: custom type %q pattern has %d capturing groups but the group count is 0", ErrValue, name, actual)
	}
	if declared > actual {
		return fmt.Errorf("%w: custom type %q pattern has %d capturing groups but the group count is %d", ErrIndex, name, actual, declared)
	}
	return nil
}

// extract walks the field specs over one regex match, locating each
// field's capture, recording its span and, when evaluate is set,
// converting it and placing it into the result. A nil Result/Match with
// a nil error reports a rejected match.
func (p *Pattern) extract(re *regexp.Regexp, input string, opts Options, evaluate bool) (*Result, *Match, error) {
	loc := re.FindStringSubmatchIndex(input)
	if loc == nil {
		return nil, nil, nil
	}
	converters := p.mergedConverters(opts.ExtraTypes)

	var fixed []any
	named := make(map[string]any)
	fieldSpans := make(map[string]Span)
	captures := make([]string, 0, len(p.specs))
	rawNamed := make(map[string]string)

	span := Span{Start: loc[0], End: loc[1]}
	fixedIndex := 0
	capIdx := 1

	for i, spec := range p.specs {
		if spec.Type == TypeCustom {
			if conv, ok := converters[spec.CustomName]; ok && conv != nil {
				if err := validateConverter(spec.CustomName, conv); err != nil {
					return nil, nil, err
				}
			}
		}

		gi := -1
		if p.normNames[i] != "" {
			gi = re.SubexpIndex(p.normNames[i])
		} else {
			gi = capIdx
			// Alignment fragments nest the unpadded text in an inner
			// group; prefer it when it participated in the match.
			if spec.Alignment != 0 && p.fragGroups[i] > 0 {
				inner := capIdx + 1
				if 2*inner+1 < len(loc) && loc[2*inner] >= 0 {
					gi = inner
				}
			}
		}
		capIdx += 1 + p.fragGroups[i]

		if gi < 0 || 2*gi+1 >= len(loc) || loc[2*gi] < 0 {
			captures = append(captures, "")
			continue
		}
		fieldStart, fieldEnd := loc[2*gi], loc[2*gi+1]
		value := input[fieldStart:fieldEnd]

		captures = append(captures, value)
		if p.normNames[i] != "" {
			rawNamed[p.normNames[i]] = value
		}

		name := p.names[i]
		spanKey := name
		if name == "" {
			spanKey = strconv.Itoa(fixedIndex)
		}
		fieldSpans[spanKey] = Span{Start: fieldStart, End: fieldEnd}

		if !evaluate {
			if name == "" {
				fixedIndex++
			}
			continue
		}

		converted, err := spec.convertValue(value, converters)
		if err != nil {
			return nil, nil, err
		}

		if name != "" {
			if strings.Contains(name, "[") {
				// Nested destinations skip the repeated-name equality
				// check.
				insertNested(named, parseFieldPath(name), converted)
			} else {
				if existing, ok := named[name]; ok && !valuesEqual(existing, converted) {
					return nil, nil, nil
				}
				named[name] = converted
			}
		} else {
			fixed = append(fixed, converted)
			fixedIndex++
		}
	}

	if !evaluate {
		return nil, &Match{
			Pattern:    p.pattern,
			Captures:   captures,
			Named:      rawNamed,
			Span:       span,
			FieldSpans: fieldSpans,
		}, nil
	}
	return &Result{
		Fixed:      fixed,
		Named:      named,
		Span:       span,
		FieldSpans: fieldSpans,
	}, nil, nil
}
