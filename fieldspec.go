package unformat

import (
	"strconv"
	"strings"
)

// FieldType identifies the semantic type of one placeholder.
type FieldType int

const (
	TypeString FieldType = iota
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeLetters       // 'l' - letters only
	TypeWord          // 'w' - word characters
	TypeNonLetters    // 'W'
	TypeNonWhitespace // 'S'
	TypeNonDigits     // 'D'
	TypeThousands     // 'n' - numbers with thousands separators
	TypeScientific    // 'e'
	TypeGeneralNumber // 'g'
	TypePercentage    // '%'
	TypeDateISO       // 'ti'
	TypeDateRFC2822   // 'te'
	TypeDateGlobal    // 'tg' - day-first
	TypeDateUS        // 'ta' - month-first
	TypeDateCtime     // 'tc'
	TypeDateHTTP      // 'th'
	TypeTimeOnly      // 'tt'
	TypeDateSystem    // 'ts'
	TypeDateStrftime  // %-directive templates
	TypeCustom
)

func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBoolean:
		return "boolean"
	case TypeLetters:
		return "letters"
	case TypeWord:
		return "word"
	case TypeNonLetters:
		return "non-letters"
	case TypeNonWhitespace:
		return "non-whitespace"
	case TypeNonDigits:
		return "non-digits"
	case TypeThousands:
		return "number with thousands"
	case TypeScientific:
		return "scientific notation"
	case TypeGeneralNumber:
		return "number"
	case TypePercentage:
		return "percentage"
	case TypeDateISO:
		return "ISO 8601 datetime"
	case TypeDateRFC2822:
		return "RFC2822 datetime"
	case TypeDateGlobal:
		return "global datetime"
	case TypeDateUS:
		return "US datetime"
	case TypeDateCtime:
		return "ctime datetime"
	case TypeDateHTTP:
		return "HTTP datetime"
	case TypeTimeOnly:
		return "time"
	case TypeDateSystem:
		return "system datetime"
	case TypeDateStrftime:
		return "strftime datetime"
	case TypeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// FieldSpec is the parsed description of one {...} placeholder. It is
// immutable once compilation finishes.
type FieldSpec struct {
	// Original placeholder name, "" for anonymous or positional fields.
	// May contain '-', '.' and [key] index segments.
	Name string
	Type FieldType
	// Custom type name when Type is TypeCustom.
	CustomName string
	// Width and Precision are -1 when unset.
	Width     int
	Precision int
	// Alignment is one of '<', '>', '^', '=', or 0 when unset.
	Alignment byte
	// Sign is one of '+', '-', ' ', or 0 when unset.
	Sign byte
	// Fill is the pad character, 0 when unset.
	Fill    byte
	ZeroPad bool
	// StrftimeFormat holds the %-template when Type is TypeDateStrftime.
	StrftimeFormat string
	// OrigTypeChar retains b/o/x/X/d/i so integer conversion knows the
	// intended base, 0 for every other type code.
	OrigTypeChar byte
}

func newFieldSpec() FieldSpec {
	return FieldSpec{Type: TypeString, Width: -1, Precision: -1}
}

// parseFormatSpec fills spec from a format-spec string following
// [[fill]align][sign][#][0][width][,][.precision][type].
func parseFormatSpec(formatSpec string, spec *FieldSpec) {
	s := formatSpec
	isAlign := func(c byte) bool { return c == '<' || c == '>' || c == '^' || c == '=' }

	// fill+align or bare align
	if len(s) > 0 && isAlign(s[0]) {
		spec.Alignment = s[0]
		s = s[1:]
	} else if len(s) > 1 && isAlign(s[1]) {
		spec.Fill = s[0]
		spec.Alignment = s[1]
		s = s[2:]
	}

	if len(s) > 0 && (s[0] == '+' || s[0] == '-' || s[0] == ' ') {
		spec.Sign = s[0]
		s = s[1:]
	}

	// '#' alternate form carries no parsing meaning here
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}

	if len(s) > 0 && s[0] == '0' {
		spec.ZeroPad = true
		s = s[1:]
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 {
		if w, err := strconv.Atoi(s[:i]); err == nil {
			spec.Width = w
		}
		s = s[i:]
	}

	// ',' thousands grouping flag carries no parsing meaning here
	if len(s) > 0 && s[0] == ',' {
		s = s[1:]
	}

	if len(s) > 0 && s[0] == '.' {
		s = s[1:]
		i = 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i > 0 {
			if p, err := strconv.Atoi(s[:i]); err == nil {
				spec.Precision = p
			}
			s = s[i:]
		}
	}

	applyTypeString(s, spec)
}

// applyTypeString interprets the trailing type portion of a format spec.
func applyTypeString(typeStr string, spec *FieldSpec) {
	if typeStr == "%" {
		spec.Type = TypePercentage
		return
	}
	if strings.HasPrefix(typeStr, "%") {
		spec.Type = TypeDateStrftime
		spec.StrftimeFormat = typeStr
		return
	}

	var b strings.Builder
	for _, r := range typeStr {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	typeName := b.String()

	switch typeName {
	case "":
		spec.Type = TypeString
		return
	case "ti":
		spec.Type = TypeDateISO
		return
	case "te":
		spec.Type = TypeDateRFC2822
		return
	case "tg":
		spec.Type = TypeDateGlobal
		return
	case "ta":
		spec.Type = TypeDateUS
		return
	case "tc":
		spec.Type = TypeDateCtime
		return
	case "th":
		spec.Type = TypeDateHTTP
		return
	case "tt":
		spec.Type = TypeTimeOnly
		return
	case "ts":
		spec.Type = TypeDateSystem
		return
	}

	if len(typeName) > 1 {
		// Multi-character names are always custom types.
		spec.Type = TypeCustom
		spec.CustomName = typeName
		return
	}

	c := typeName[0]
	switch c {
	case 's':
		spec.Type = TypeString
	case 'd', 'i':
		spec.Type = TypeInteger
		spec.OrigTypeChar = c
	case 'b', 'o', 'x', 'X':
		// Binary, octal and hex are integers with a base recorded.
		spec.Type = TypeInteger
		spec.OrigTypeChar = c
	case 'n':
		spec.Type = TypeThousands
	case 'f', 'F':
		spec.Type = TypeFloat
	case 'e', 'E':
		spec.Type = TypeScientific
	case 'g', 'G':
		spec.Type = TypeGeneralNumber
	case 'l':
		spec.Type = TypeLetters
	case 'w':
		spec.Type = TypeWord
	case 'W':
		spec.Type = TypeNonLetters
	case 'S':
		spec.Type = TypeNonWhitespace
	case 'D':
		spec.Type = TypeNonDigits
	default:
		spec.Type = TypeCustom
		spec.CustomName = typeName
	}
}

// canonicalTypeName returns the type code used to look up converter
// overrides, matching the single-character built-in codes.
func (s *FieldSpec) canonicalTypeName() string {
	switch s.Type {
	case TypeCustom:
		return s.CustomName
	case TypeString:
		return "s"
	case TypeInteger:
		return "d"
	case TypeFloat:
		return "f"
	case TypeBoolean:
		return "b"
	case TypeLetters:
		return "l"
	case TypeWord:
		return "w"
	case TypeNonLetters:
		return "W"
	case TypeNonWhitespace:
		return "S"
	case TypeNonDigits:
		return "D"
	case TypeThousands:
		return "n"
	case TypeScientific:
		return "e"
	case TypeGeneralNumber:
		return "g"
	case TypePercentage:
		return "%"
	case TypeDateISO:
		return "ti"
	case TypeDateRFC2822:
		return "te"
	case TypeDateGlobal:
		return "tg"
	case TypeDateUS:
		return "ta"
	case TypeDateCtime:
		return "tc"
	case TypeDateHTTP:
		return "th"
	case TypeTimeOnly:
		return "tt"
	case TypeDateSystem:
		return "ts"
	case TypeDateStrftime:
		return "strftime"
	default:
		return ""
	}
}
