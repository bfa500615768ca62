package unformat

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders values back into a compiled pattern. It is obtained
// from Pattern.Format and carries the original pattern string.
type Format struct {
	pattern *Pattern
}

// Format returns the formatting counterpart of the pattern.
func (p *Pattern) Format() *Format {
	return &Format{pattern: p}
}

// String returns the original pattern string.
func (f *Format) String() string {
	return f.pattern.pattern
}

// Apply substitutes positional and named values into the pattern's
// placeholders. Anonymous fields consume args in order, {0}-style
// fields index into args, and named fields look up named (walking
// nested maps for bracketed names).
func (f *Format) Apply(args []any, named map[string]any) (string, error) {
	var out strings.Builder
	nextArg := 0
	for _, tok := range f.pattern.tokens {
		if tok.field < 0 {
			out.WriteString(tok.literal)
			continue
		}
		spec := f.pattern.specs[tok.field]
		var value any
		switch {
		case spec.Name == "":
			if nextArg >= len(args) {
				return "", fmt.Errorf("%w: not enough positional arguments for %q", ErrIndex, f.pattern.pattern)
			}
			value = args[nextArg]
			nextArg++
		case isAllDigits(spec.Name):
			idx, _ := strconv.Atoi(spec.Name)
			if idx >= len(args) {
				return "", fmt.Errorf("%w: positional argument %d out of range", ErrIndex, idx)
			}
			value = args[idx]
		default:
			v, ok := lookupNamed(named, parseFieldPath(spec.Name))
			if !ok {
				return "", fmt.Errorf("%w: missing named argument %q", ErrValue, spec.Name)
			}
			value = v
		}
		out.WriteString(formatValue(&spec, value))
	}
	return out.String(), nil
}

func lookupNamed(named map[string]any, path []string) (any, bool) {
	current := any(named)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// formatValue renders one value per its field spec: base string first,
// then sign, then fill/alignment padding out to the requested width.
func formatValue(spec *FieldSpec, value any) string {
	base, negative := renderBase(spec, value)

	signPrefix := ""
	if negative {
		signPrefix = "-"
	} else if isNumeric(value) {
		switch spec.Sign {
		case '+':
			signPrefix = "+"
		case ' ':
			signPrefix = " "
		}
	}

	width := spec.Width
	if width < 0 {
		return signPrefix + base
	}
	pad := width - len(base) - len(signPrefix)
	if pad <= 0 {
		return signPrefix + base
	}

	fill := byte(' ')
	align := spec.Alignment
	if spec.Fill != 0 {
		fill = spec.Fill
	}
	if spec.ZeroPad && align == 0 {
		fill = '0'
		align = '='
	}
	if align == 0 {
		if isNumeric(value) {
			align = '>'
		} else {
			align = '<'
		}
	}

	padding := strings.Repeat(string(fill), pad)
	switch align {
	case '<':
		return signPrefix + base + padding
	case '^':
		left := pad / 2
		return padding[:left] + signPrefix + base + padding[left:]
	case '=':
		// Padding goes between sign and digits.
		return signPrefix + padding + base
	default:
		return padding + signPrefix + base
	}
}

// renderBase produces the unpadded, unsigned text for a value and
// reports whether it was negative.
func renderBase(spec *FieldSpec, value any) (string, bool) {
	switch spec.Type {
	case TypeInteger:
		n, ok := toInt64(value)
		if !ok {
			return fmt.Sprint(value), false
		}
		negative := n < 0
		if negative {
			n = -n
		}
		base := 10
		switch spec.OrigTypeChar {
		case 'x':
			base = 16
		case 'X':
			base = 16
		case 'o':
			base = 8
		case 'b':
			base = 2
		}
		s := strconv.FormatInt(n, base)
		if spec.OrigTypeChar == 'X' {
			s = strings.ToUpper(s)
		}
		return s, negative
	case TypeFloat, TypeScientific, TypeGeneralNumber:
		f, ok := toFloat64(value)
		if !ok {
			return fmt.Sprint(value), false
		}
		negative := f < 0
		if negative {
			f = -f
		}
		prec := spec.Precision
		if prec < 0 {
			prec = -1
		}
		format := byte('f')
		if spec.Type == TypeScientific {
			format = 'e'
			if prec < 0 {
				prec = 6
			}
		}
		return strconv.FormatFloat(f, format, prec, 64), negative
	case TypePercentage:
		f, ok := toFloat64(value)
		if !ok {
			return fmt.Sprint(value), false
		}
		negative := f < 0
		if negative {
			f = -f
		}
		prec := spec.Precision
		if prec < 0 {
			prec = -1
		}
		return strconv.FormatFloat(f*100, 'f', prec, 64) + "%", negative
	default:
		s := fmt.Sprint(value)
		if spec.Precision >= 0 && spec.Type == TypeString && len(s) > spec.Precision {
			s = s[:spec.Precision]
		}
		return s, false
	}
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	}
	return 0, false
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		if n, ok := toInt64(value); ok {
			return float64(n), true
		}
	}
	return 0, false
}

func isNumeric(value any) bool {
	if _, ok := toInt64(value); ok {
		return true
	}
	_, ok := value.(float64)
	if !ok {
		_, ok = value.(float32)
	}
	return ok
}
