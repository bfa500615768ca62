package unformat

import (
	"fmt"
	"regexp"
)

const (
	shortMonths = "Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec"
	longMonths  = "January|February|March|April|June|July|August|September|October|November|December"
	shortDays   = "Mon|Tue|Wed|Thu|Fri|Sat|Sun"
)

// signPattern returns the regex fragment matching the sign position for
// numeric fields. The default admits an optional + or -.
func signPattern(sign byte, defaultPattern string) string {
	switch sign {
	case '+':
		return `\+?`
	case '-':
		return `-?`
	case ' ':
		return `[- ]?`
	default:
		return defaultPattern
	}
}

// regexFragment emits the regex substring matching one field, before the
// capture-group wrapping. nextNonGreedy reports whether the following
// field is the bare {} marker; it only affects width-only string fields.
func (s *FieldSpec) regexFragment(customPatterns map[string]string, nextNonGreedy bool) string {
	switch s.Type {
	case TypeString:
		if s.Precision >= 0 {
			return fmt.Sprintf(".{%d}", s.Precision)
		}
		if s.Width >= 0 {
			if nextNonGreedy {
				return fmt.Sprintf(".{%d}", s.Width)
			}
			return fmt.Sprintf(".{%d,}", s.Width)
		}
		// Alignment without width captures the text and pushes the pad
		// runs into non-capturing groups.
		switch s.Alignment {
		case '<':
			return `([^\{\}\s]+(?:\s+[^\{\}\s]+)*?)(?:\s*)`
		case '>':
			return ` *(.+?)`
		case '^':
			return `(?:\s*)([^\{\}\s]+(?:\s+[^\{\}\s]+)*?)(?:\s*)`
		case '=':
			return `[^\{\}]+?`
		}
		return `.+?`

	case TypeInteger:
		sign := signPattern(s.Sign, `[+-]?`)
		fill := ""
		if s.Fill != 0 && s.Alignment == '=' {
			// '=' alignment pads between sign and digits.
			fill = regexp.QuoteMeta(string(s.Fill)) + "*"
		}
		if s.ZeroPad {
			if s.Width >= 0 {
				return fmt.Sprintf("%s%s[0-9]{%d}", sign, fill, s.Width)
			}
			return fmt.Sprintf("%s%s[0-9]+", sign, fill)
		}
		switch s.OrigTypeChar {
		case 'x', 'X':
			return sign + fill + `(?:0[xX][0-9a-fA-F]+|[0-9a-fA-F]+)`
		case 'o':
			return sign + fill + `(?:0[oO][0-7]+|[0-7]+)`
		case 'b':
			return sign + fill + `(?:0[bB][01]+|[01]+)`
		default:
			return sign + fill + `(?:0[xX][0-9a-fA-F]+|0[oO][0-7]+|0[bB][01]+|[0-9]+)`
		}

	case TypeFloat:
		sign := signPattern(s.Sign, `[+-]?`)
		if s.Precision >= 0 {
			p := s.Precision
			if s.Width >= 0 {
				// Width padding may put spaces before the number.
				return fmt.Sprintf(`\s*%s(?:\d*\.\d{%d}|\.\d{%d})(?:[eE][+-]?\d+)?`, sign, p, p)
			}
			return fmt.Sprintf(`%s(?:\d*\.\d{%d}|\.\d{%d})(?:[eE][+-]?\d+)?`, sign, p, p)
		}
		// A float must carry a decimal point; bare integers belong to d.
		return sign + `(?:\d+\.\d+|\.\d+|\d+\.)(?:[eE][+-]?\d+)?`

	case TypeBoolean:
		return "true|false|True|False|TRUE|FALSE|1|0|yes|no|Yes|No|YES|NO|on|off|On|Off|ON|OFF"

	case TypeLetters:
		return `[a-zA-Z]+`
	case TypeWord:
		return `\w+`
	case TypeNonLetters:
		return `[^a-zA-Z]+`
	case TypeNonWhitespace:
		return `\S+`
	case TypeNonDigits:
		return `[^0-9]+`

	case TypeThousands:
		sign := signPattern(s.Sign, `[+-]?`)
		return sign + `(?:\d{1,3}(?:[.,]\d{3})*|\d+)`

	case TypeScientific:
		sign := signPattern(s.Sign, `-?`)
		return sign + `\d*\.\d+[eE][-+]?\d+|nan|NAN|[-+]?inf|[-+]?INF`

	case TypeGeneralNumber:
		sign := signPattern(s.Sign, `-?`)
		return sign + `(?:\d+\.\d+|\.\d+|\d+\.|\d+)(?:[eE][+-]?\d+)?|nan|NAN|[-+]?inf|[-+]?INF`

	case TypePercentage:
		sign := signPattern(s.Sign, `-?`)
		return sign + `(?:\d+\.\d+|\.\d+|\d+)%`

	case TypeDateISO:
		return `\d{4}-\d{2}-\d{2}(?:[T ]\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?)?(?:\s*[Zz]|\s*[+-]\d{2}:?\d{2}|\s*[+-]\d{4})?`

	case TypeDateRFC2822:
		return `(?:(?:` + shortDays + `),\s+)?\d{1,2}\s+(?:` + shortMonths + `)\s+\d{4}\s+\d{2}:\d{2}:\d{2}\s+[+-]\d{2}:?\d{2,4}`

	case TypeDateGlobal:
		return `\d{1,2}[-/](?:\d{1,2}|` + shortMonths + `|` + longMonths + `)[-/]\d{4}(?:\s+\d{1,2}:\d{2}(?::\d{2})?(?:\s+[AP]M)?(?:\s+[+-]\d{1,2}:?\d{2,4})?)?`

	case TypeDateUS:
		return `(?:\d{1,2}|` + shortMonths + `|` + longMonths + `)[-/]\d{1,2}[-/]\d{4}(?:\s+\d{1,2}:\d{2}(?::\d{2})?(?:\s+[AP]M)?(?:\s+[+-]\d{2}:?\d{2,4})?)?`

	case TypeDateCtime:
		return `(?:` + shortDays + `)\s+(?:` + shortMonths + `)\s+\d{1,2}\s+\d{2}:\d{2}:\d{2}\s+\d{4}`

	case TypeDateHTTP:
		return `\d{2}/[A-Za-z]{3}/\d{4}:\d{2}:\d{2}:\d{2}\s+[+-]\d{2}:?\d{2,4}`

	case TypeTimeOnly:
		return `\d{1,2}:\d{2}(?::\d{2})?(?:\s+[AP]M)?(?:\s+[+-]\d{1,2}:?\d{2,4})?`

	case TypeDateSystem:
		return `[A-Za-z]{3}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2}`

	case TypeDateStrftime:
		if s.StrftimeFormat != "" {
			frag, _ := strftimeTranslate(s.StrftimeFormat, false)
			return frag
		}
		return `.+?`

	case TypeCustom:
		if p, ok := customPatterns[s.CustomName]; ok {
			return p
		}
		// Custom types without a registered pattern match a bare token.
		return `\S+`
	}
	return `.+?`
}

// countCapturingGroups counts the capturing groups in a regex string,
// skipping escapes, non-capturing constructs and named-group headers.
func countCapturingGroups(pattern string) int {
	count := 0
	i := 0
	for i < len(pattern) {
		switch pattern[i] {
		case '\\':
			i += 2
			continue
		case '(':
			if i+1 < len(pattern) && pattern[i+1] == '?' {
				// (?:, (?=, (?!, (?i), (?P<name>, ...
				if i+2 < len(pattern) && pattern[i+2] == 'P' && i+3 < len(pattern) && pattern[i+3] == '<' {
					// Named groups still capture.
					count++
					i += 4
					for i < len(pattern) && pattern[i] != '>' {
						i++
					}
				} else {
					i += 2
				}
				continue
			}
			count++
		}
		i++
	}
	return count
}
