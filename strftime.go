package unformat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// strftimeTranslate converts a strftime template to a regex string. When
// capture is true the directives carrying datetime components (%Y %y %m
// %d %H %M %S %f %b %h %B) are wrapped in unnamed capture groups and the
// returned code list records, in group order, which directive each group
// extracts. The supported directive set is a documented subset of POSIX.
func strftimeTranslate(format string, capture bool) (string, []byte) {
	var parts []string
	var codes []byte

	add := func(code byte, pattern string) {
		if capture {
			parts = append(parts, "("+pattern+")")
			codes = append(codes, code)
		} else {
			parts = append(parts, pattern)
		}
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			parts = append(parts, regexp.QuoteMeta(string(c)))
			continue
		}
		if i+1 >= len(format) {
			break
		}
		i++
		switch format[i] {
		case 'Y':
			add('Y', `\d{4}`)
		case 'y':
			add('y', `\d{2}`)
		case 'm':
			add('m', `\d{1,2}`)
		case 'd':
			add('d', `\d{1,2}`)
		case 'H':
			add('H', `\d{1,2}`)
		case 'M':
			add('M', `\d{1,2}`)
		case 'S':
			add('S', `\d{1,2}`)
		case 'f':
			add('f', `\d{1,6}`)
		case 'b', 'h':
			add('b', `[A-Za-z]{3}`)
		case 'B':
			add('B', `[A-Za-z]+`)
		case 'a':
			parts = append(parts, `[A-Za-z]{3}`)
		case 'A':
			parts = append(parts, `[A-Za-z]+`)
		case 'w':
			parts = append(parts, `\d`)
		case 'j':
			parts = append(parts, `\d{1,3}`)
		case 'U', 'W':
			parts = append(parts, `\d{2}`)
		case 'c', 'x', 'X':
			parts = append(parts, `.+`)
		case '%':
			parts = append(parts, "%")
		default:
			parts = append(parts, `.+?`)
		}
	}
	return strings.Join(parts, ""), codes
}

var dayOfYearRe = regexp.MustCompile(`^(\d{4})/(\d{1,3})$`)
var bareDayOfYearRe = regexp.MustCompile(`^(\d{1,3})$`)

// parseStrftime matches value against a strftime template and assembles
// the extracted components. The translator emits unnamed groups, so the
// same template directive may appear twice without the duplicate-group
// failures a name-based strptime would hit.
func parseStrftime(value, format string) (DateTime, error) {
	hasTime := strings.Contains(format, "%H") || strings.Contains(format, "%M") ||
		strings.Contains(format, "%S") || strings.Contains(format, "%f")
	hasDate := strings.Contains(format, "%Y") || strings.Contains(format, "%y") ||
		strings.Contains(format, "%m") || strings.Contains(format, "%d") ||
		strings.Contains(format, "%j")

	// Day-of-year templates have no component directive to capture the
	// ordinal, so they are resolved before the generic path.
	if strings.Contains(format, "%j") && !hasTime {
		if m := dayOfYearRe.FindStringSubmatch(value); m != nil {
			year, _ := strconv.Atoi(m[1])
			doy, _ := strconv.Atoi(m[2])
			return dateFromDayOfYear(year, doy), nil
		}
		if m := bareDayOfYearRe.FindStringSubmatch(value); m != nil {
			doy, _ := strconv.Atoi(m[1])
			return dateFromDayOfYear(time.Now().Year(), doy), nil
		}
	}

	pattern, codes := strftimeTranslate(format, true)
	re, err := regexp.Compile("^" + pattern + "$")
	if err != nil {
		return DateTime{}, fmt.Errorf("%w: invalid strftime template %q: %v", ErrValue, format, err)
	}
	m := re.FindStringSubmatch(value)
	if m == nil {
		return DateTime{}, fmt.Errorf("%w: invalid date format: %s with format %s", ErrValue, value, format)
	}

	var dt DateTime
	for gi, code := range codes {
		s := m[gi+1]
		if s == "" {
			continue
		}
		switch code {
		case 'Y':
			dt.Year, _ = strconv.Atoi(s)
		case 'y':
			yy, _ := strconv.Atoi(s)
			// Two-digit years pivot at 68, like strptime.
			if yy <= 68 {
				dt.Year = 2000 + yy
			} else {
				dt.Year = 1900 + yy
			}
		case 'm':
			dt.Month, _ = strconv.Atoi(s)
		case 'd':
			dt.Day, _ = strconv.Atoi(s)
		case 'H':
			dt.Hour, _ = strconv.Atoi(s)
		case 'M':
			dt.Minute, _ = strconv.Atoi(s)
		case 'S':
			dt.Second, _ = strconv.Atoi(s)
		case 'f':
			dt.Microsecond = padMicroseconds(s)
		case 'b', 'B':
			mon, ok := monthNumbers[s]
			if !ok {
				return DateTime{}, fmt.Errorf("%w: invalid month: %s", ErrValue, s)
			}
			dt.Month = mon
		}
	}

	switch {
	case hasTime && !hasDate:
		dt.Kind = KindTime
	case hasDate && !hasTime:
		dt.Kind = KindDate
		dt.fillDateDefaults()
	default:
		dt.Kind = KindDateTime
		dt.fillDateDefaults()
	}
	return dt, nil
}

func dateFromDayOfYear(year, doy int) DateTime {
	d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, doy-1)
	return DateTime{Year: d.Year(), Month: int(d.Month()), Day: d.Day(), Kind: KindDate}
}
