package unformat

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// convertValue maps a captured substring back to the field's declared
// type. A converter registered under the field's canonical type code
// (see canonicalTypeName: "d" for integers of every base, "f", "e", "g",
// "s", the t* date codes, or the custom type name) overrides the
// built-in conversion.
func (s *FieldSpec) convertValue(value string, converters map[string]Converter) (any, error) {
	if conv, ok := converters[s.canonicalTypeName()]; ok && conv != nil {
		return conv.Convert(value)
	}

	switch s.Type {
	case TypeString:
		// Alignment padding survives in the capture; trim the side the
		// formatting added.
		switch s.Alignment {
		case '<':
			return strings.TrimRight(value, " \t\n\v\f\r"), nil
		case '>':
			return strings.TrimLeft(value, " \t\n\v\f\r"), nil
		case '^':
			return strings.TrimSpace(value), nil
		}
		return value, nil

	case TypeInteger:
		return s.convertInteger(value)

	case TypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid float: %s", ErrValue, value)
		}
		return f, nil

	case TypeBoolean:
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true, nil
		}
		return false, nil

	case TypeLetters, TypeWord, TypeNonLetters, TypeNonWhitespace, TypeNonDigits:
		return value, nil

	case TypeThousands:
		cleaned := strings.TrimSpace(value)
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		n, err := strconv.ParseInt(cleaned, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid number with thousands: %s", ErrValue, value)
		}
		return n, nil

	case TypeScientific:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid scientific notation: %s", ErrValue, value)
		}
		return f, nil

	case TypeGeneralNumber:
		trimmed := strings.TrimSpace(value)
		switch strings.ToLower(trimmed) {
		case "nan":
			return math.NaN(), nil
		case "inf", "+inf":
			return math.Inf(1), nil
		case "-inf":
			return math.Inf(-1), nil
		}
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f, nil
		}
		return nil, fmt.Errorf("%w: invalid number: %s", ErrValue, value)

	case TypePercentage:
		trimmed := strings.TrimSuffix(strings.TrimSpace(value), "%")
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid percentage: %s", ErrValue, value)
		}
		return f / 100, nil

	case TypeDateISO:
		return parseISO(value)
	case TypeDateRFC2822:
		return parseRFC2822(value)
	case TypeDateGlobal:
		return parseGlobal(value)
	case TypeDateUS:
		return parseUS(value)
	case TypeDateCtime:
		return parseCtime(value)
	case TypeDateHTTP:
		return parseHTTP(value)
	case TypeTimeOnly:
		return parseTimeOnly(value)
	case TypeDateSystem:
		return parseSystem(value)
	case TypeDateStrftime:
		if s.StrftimeFormat == "" {
			return value, nil
		}
		return parseStrftime(value, s.StrftimeFormat)

	case TypeCustom:
		// No converter registered: the raw capture is the value.
		return value, nil
	}
	return value, nil
}

// convertInteger parses an integer capture, honouring '=' fill padding,
// base prefixes and the base implied by the original type character.
func (s *FieldSpec) convertInteger(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)

	// With '=' alignment the fill characters sit between sign and
	// digits; strip them before base detection.
	if s.Fill != 0 && s.Alignment == '=' {
		fill := string(s.Fill)
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "+") {
			trimmed = trimmed[:1] + strings.TrimLeft(trimmed[1:], fill)
		} else {
			trimmed = strings.TrimLeft(trimmed, fill)
		}
	}

	negative := false
	num := trimmed
	if strings.HasPrefix(num, "-") {
		negative = true
		num = num[1:]
	} else if strings.HasPrefix(num, "+") {
		num = num[1:]
	}

	var n int64
	var err error
	switch {
	case strings.HasPrefix(num, "0x") || strings.HasPrefix(num, "0X"):
		n, err = strconv.ParseInt(num[2:], 16, 64)
	case strings.HasPrefix(num, "0o") || strings.HasPrefix(num, "0O"):
		n, err = strconv.ParseInt(num[2:], 8, 64)
	case strings.HasPrefix(num, "0b") || strings.HasPrefix(num, "0B"):
		if s.OrigTypeChar == 'x' || s.OrigTypeChar == 'X' {
			// For hex fields "0B1" is the hex number B1, not binary.
			n, err = strconv.ParseInt(num[1:], 16, 64)
		} else {
			n, err = strconv.ParseInt(num[2:], 2, 64)
		}
	default:
		switch s.OrigTypeChar {
		case 'b':
			n, err = strconv.ParseInt(num, 2, 64)
		case 'o':
			n, err = strconv.ParseInt(num, 8, 64)
		case 'x', 'X':
			n, err = strconv.ParseInt(num, 16, 64)
		default:
			n, err = strconv.ParseInt(num, 10, 64)
		}
	}
	if err != nil {
		return 0, fmt.Errorf("%w: invalid integer: %s", ErrValue, value)
	}
	if negative {
		n = -n
	}
	return n, nil
}
