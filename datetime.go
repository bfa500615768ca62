package unformat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateTimeKind tells which components of a DateTime are meaningful.
type DateTimeKind int

const (
	KindDateTime DateTimeKind = iota
	KindDate
	KindTime
)

// DateTime holds the abstract components extracted by a date/time
// sub-parser. Components are passed through as captured: Feb 30 is not
// rejected here, materialisation is the caller's concern.
type DateTime struct {
	Year, Month, Day                  int
	Hour, Minute, Second, Microsecond int
	Kind                              DateTimeKind
	// TZOffset is the fixed offset in minutes east of UTC, meaningful
	// only when HasTZ is set.
	TZOffset int
	HasTZ    bool
}

// Time materialises the components as a time.Time. Time-only values use
// the zero date; values without a timezone use time.Local. Out-of-range
// components normalise the way time.Date does.
func (dt DateTime) Time() time.Time {
	loc := time.Local
	if dt.HasTZ {
		if dt.TZOffset == 0 {
			loc = time.UTC
		} else {
			loc = time.FixedZone("", dt.TZOffset*60)
		}
	}
	year, month, day := dt.Year, dt.Month, dt.Day
	if dt.Kind == KindTime {
		year, month, day = 1, 1, 1
	}
	return time.Date(year, time.Month(month), day, dt.Hour, dt.Minute, dt.Second, dt.Microsecond*1000, loc)
}

func (dt *DateTime) fillDateDefaults() {
	if dt.Year == 0 {
		dt.Year = 1970
	}
	if dt.Month == 0 {
		dt.Month = 1
	}
	if dt.Day == 0 {
		dt.Day = 1
	}
}

var monthNumbers = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
	"January": 1, "February": 2, "March": 3, "April": 4, "June": 6,
	"July": 7, "August": 8, "September": 9, "October": 10,
	"November": 11, "December": 12,
}

// padMicroseconds right-pads a fractional-second string with zeros to
// six digits and truncates anything beyond.
func padMicroseconds(frac string) int {
	if len(frac) > 6 {
		frac = frac[:6]
	}
	for len(frac) < 6 {
		frac += "0"
	}
	n, _ := strconv.Atoi(frac)
	return n
}

var (
	isoDateRe    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	isoZuluRe    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[T ](\d{2}):(\d{2})(?::(\d{2})(?:\.(\d+))?)?\s*[Zz]$`)
	isoNumTZRe   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[T ](\d{2}):(\d{2})(?::(\d{2})(?:\.(\d+))?)?\s*([+-])(\d{2}):?(\d{2})$`)
	isoNoTZRe    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[T ](\d{2}):(\d{2})(?::(\d{2})(?:\.(\d+))?)?$`)
	tzOffsetRe   = regexp.MustCompile(`([+-])(\d{1,2}):?(\d{2})`)
	tzTrailingRe = regexp.MustCompile(`\s+([+-]\d{1,2}:?\d{2,4})$`)
	clockRe      = regexp.MustCompile(`(\d{1,2}):(\d{2})(?::(\d{2}))?`)
)

// parseISO handles YYYY-MM-DD with an optional [T ]HH:MM[:SS[.frac]]
// and an optional Z / ±HHMM / ±HH:MM suffix.
func parseISO(value string) (DateTime, error) {
	if m := isoDateRe.FindStringSubmatch(value); m != nil {
		return DateTime{
			Year:  atoi(m[1]),
			Month: atoi(m[2]),
			Day:   atoi(m[3]),
			Kind:  KindDateTime,
		}, nil
	}
	if m := isoZuluRe.FindStringSubmatch(value); m != nil {
		dt := isoComponents(m)
		dt.TZOffset = 0
		dt.HasTZ = true
		return dt, nil
	}
	if m := isoNumTZRe.FindStringSubmatch(value); m != nil {
		dt := isoComponents(m)
		sign := 1
		if m[8] == "-" {
			sign = -1
		}
		dt.TZOffset = sign * (atoi(m[9])*60 + atoi(m[10]))
		dt.HasTZ = true
		return dt, nil
	}
	if m := isoNoTZRe.FindStringSubmatch(value); m != nil {
		return isoComponents(m), nil
	}
	return DateTime{}, fmt.Errorf("%w: invalid ISO 8601 datetime: %s", ErrValue, value)
}

// isoComponents reads groups 1..7 (date, clock, optional fraction).
func isoComponents(m []string) DateTime {
	dt := DateTime{
		Year:   atoi(m[1]),
		Month:  atoi(m[2]),
		Day:    atoi(m[3]),
		Hour:   atoi(m[4]),
		Minute: atoi(m[5]),
		Kind:   KindDateTime,
	}
	if m[6] != "" {
		dt.Second = atoi(m[6])
	}
	if m[7] != "" {
		dt.Microsecond = padMicroseconds(m[7])
	}
	return dt
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

var rfc2822Re = regexp.MustCompile(`^(?:(?:` + shortDays + `),\s+)?(\d{1,2})\s+(` + shortMonths + `)\s+(\d{4})\s+(\d{2}):(\d{2}):(\d{2})\s+([+-])(\d{2}):?(\d{2})$`)

// parseRFC2822 handles "[Www, ]D Mon YYYY HH:MM:SS ±HHMM" (or ±HH:MM).
func parseRFC2822(value string) (DateTime, error) {
	m := rfc2822Re.FindStringSubmatch(value)
	if m == nil {
		return DateTime{}, fmt.Errorf("%w: invalid RFC2822 datetime: %s", ErrValue, value)
	}
	mon, ok := monthNumbers[m[2]]
	if !ok {
		return DateTime{}, fmt.Errorf("%w: invalid month: %s", ErrValue, m[2])
	}
	sign := 1
	if m[7] == "-" {
		sign = -1
	}
	return DateTime{
		Year:     atoi(m[3]),
		Month:    mon,
		Day:      atoi(m[1]),
		Hour:     atoi(m[4]),
		Minute:   atoi(m[5]),
		Second:   atoi(m[6]),
		Kind:     KindDateTime,
		TZOffset: sign * (atoi(m[8])*60 + atoi(m[9])),
		HasTZ:    true,
	}, nil
}

// parseTZOffset reads a ±H:MM / ±HH:MM / ±HHMM offset into minutes.
func parseTZOffset(tz string) (int, bool) {
	m := tzOffsetRe.FindStringSubmatch(tz)
	if m == nil {
		return 0, false
	}
	sign := 1
	if m[1] == "-" {
		sign = -1
	}
	return sign * (atoi(m[2])*60 + atoi(m[3])), true
}

// parseClock reads H:MM[:SS] with an optional AM/PM marker, applying the
// 12 AM -> 0 and 12 PM -> 12 rules.
func parseClock(timeStr string) (hour, minute, second int, err error) {
	upper := strings.ToUpper(timeStr)
	clockPart := timeStr
	meridiem := ""
	if idx := strings.Index(upper, "AM"); idx >= 0 {
		clockPart = strings.TrimSpace(timeStr[:idx])
		meridiem = "AM"
	} else if idx := strings.Index(upper, "PM"); idx >= 0 {
		clockPart = strings.TrimSpace(timeStr[:idx])
		meridiem = "PM"
	}
	m := clockRe.FindStringSubmatch(clockPart)
	if m == nil {
		return 0, 0, 0, fmt.Errorf("%w: invalid time: %s", ErrValue, timeStr)
	}
	hour = atoi(m[1])
	minute = atoi(m[2])
	if m[3] != "" {
		second = atoi(m[3])
	}
	switch meridiem {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour != 12 {
			hour += 12
		}
	}
	return hour, minute, second, nil
}

// splitClockAndTZ splits "10:21:36 PM -5:30" into its clock portion and
// an optional trailing timezone.
func splitClockAndTZ(rest string) (clock string, offset int, hasTZ bool) {
	rest = strings.TrimSpace(rest)
	if m := tzTrailingRe.FindStringSubmatch(rest); m != nil {
		clock = strings.TrimSpace(rest[:len(rest)-len(m[1])])
		clock = strings.TrimSpace(clock)
		offset, hasTZ = parseTZOffset(m[1])
		return clock, offset, hasTZ
	}
	return rest, 0, false
}

var (
	numericDateRe   = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})(?:\s+(.+))?$`)
	dayFirstNameRe  = regexp.MustCompile(`^(\d{1,2})[-/](` + shortMonths + `|` + longMonths + `)[-/](\d{4})(?:\s+(.+))?$`)
	monthFirstNameR = regexp.MustCompile(`^(` + shortMonths + `|` + longMonths + `)[-/](\d{1,2})[-/](\d{4})(?:\s+(.+))?$`)
)

// parseGlobal handles day-first dates: 21/11/2011, 21-Nov-2011, with an
// optional clock, AM/PM marker and timezone.
func parseGlobal(value string) (DateTime, error) {
	if m := numericDateRe.FindStringSubmatch(value); m != nil {
		return assembleDayMonth(atoi(m[1]), atoi(m[2]), atoi(m[3]), m[4])
	}
	if m := dayFirstNameRe.FindStringSubmatch(value); m != nil {
		mon, ok := monthNumbers[m[2]]
		if !ok {
			return DateTime{}, fmt.Errorf("%w: invalid month: %s", ErrValue, m[2])
		}
		return assembleDayMonth(atoi(m[1]), mon, atoi(m[3]), m[4])
	}
	return DateTime{}, fmt.Errorf("%w: invalid global datetime: %s", ErrValue, value)
}

// parseUS is the month-first analogue of parseGlobal.
func parseUS(value string) (DateTime, error) {
	if m := numericDateRe.FindStringSubmatch(value); m != nil {
		return assembleDayMonth(atoi(m[2]), atoi(m[1]), atoi(m[3]), m[4])
	}
	if m := monthFirstNameR.FindStringSubmatch(value); m != nil {
		mon, ok := monthNumbers[m[1]]
		if !ok {
			return DateTime{}, fmt.Errorf("%w: invalid month: %s", ErrValue, m[1])
		}
		return assembleDayMonth(atoi(m[2]), mon, atoi(m[3]), m[4])
	}
	return DateTime{}, fmt.Errorf("%w: invalid US datetime: %s", ErrValue, value)
}

func assembleDayMonth(day, month, year int, rest string) (DateTime, error) {
	dt := DateTime{Year: year, Month: month, Day: day, Kind: KindDateTime}
	if rest == "" {
		return dt, nil
	}
	clock, offset, hasTZ := splitClockAndTZ(rest)
	h, m, s, err := parseClock(clock)
	if err != nil {
		return DateTime{}, err
	}
	dt.Hour, dt.Minute, dt.Second = h, m, s
	dt.TZOffset, dt.HasTZ = offset, hasTZ
	return dt, nil
}

var ctimeRe = regexp.MustCompile(`^(?:` + shortDays + `)\s+(` + shortMonths + `)\s+(\d{1,2})\s+(\d{2}):(\d{2}):(\d{2})\s+(\d{4})$`)

// parseCtime handles "Www Mon D HH:MM:SS YYYY".
func parseCtime(value string) (DateTime, error) {
	m := ctimeRe.FindStringSubmatch(value)
	if m == nil {
		return DateTime{}, fmt.Errorf("%w: invalid ctime datetime: %s", ErrValue, value)
	}
	mon, ok := monthNumbers[m[1]]
	if !ok {
		return DateTime{}, fmt.Errorf("%w: invalid month: %s", ErrValue, m[1])
	}
	return DateTime{
		Year:   atoi(m[6]),
		Month:  mon,
		Day:    atoi(m[2]),
		Hour:   atoi(m[3]),
		Minute: atoi(m[4]),
		Second: atoi(m[5]),
		Kind:   KindDateTime,
	}, nil
}

var httpRe = regexp.MustCompile(`^(\d{2})/(` + shortMonths + `)/(\d{4}):(\d{2}):(\d{2}):(\d{2})\s+([+-])(\d{2}):?(\d{2})$`)

// parseHTTP handles access-log stamps "DD/Mon/YYYY:HH:MM:SS ±HHMM".
func parseHTTP(value string) (DateTime, error) {
	m := httpRe.FindStringSubmatch(value)
	if m == nil {
		return DateTime{}, fmt.Errorf("%w: invalid HTTP datetime: %s", ErrValue, value)
	}
	mon, ok := monthNumbers[m[2]]
	if !ok {
		return DateTime{}, fmt.Errorf("%w: invalid month: %s", ErrValue, m[2])
	}
	sign := 1
	if m[7] == "-" {
		sign = -1
	}
	return DateTime{
		Year:     atoi(m[3]),
		Month:    mon,
		Day:      atoi(m[1]),
		Hour:     atoi(m[4]),
		Minute:   atoi(m[5]),
		Second:   atoi(m[6]),
		Kind:     KindDateTime,
		TZOffset: sign * (atoi(m[8])*60 + atoi(m[9])),
		HasTZ:    true,
	}, nil
}

var systemRe = regexp.MustCompile(`^(` + shortMonths + `)\s+(\d{1,2})\s+(\d{2}):(\d{2}):(\d{2})$`)

// parseSystem handles syslog-style "Mon D HH:MM:SS"; the year comes from
// the current clock since the stamp does not carry one.
func parseSystem(value string) (DateTime, error) {
	m := systemRe.FindStringSubmatch(value)
	if m == nil {
		return DateTime{}, fmt.Errorf("%w: invalid system datetime: %s", ErrValue, value)
	}
	mon, ok := monthNumbers[m[1]]
	if !ok {
		return DateTime{}, fmt.Errorf("%w: invalid month: %s", ErrValue, m[1])
	}
	return DateTime{
		Year:   time.Now().Year(),
		Month:  mon,
		Day:    atoi(m[2]),
		Hour:   atoi(m[3]),
		Minute: atoi(m[4]),
		Second: atoi(m[5]),
		Kind:   KindDateTime,
	}, nil
}

// parseTimeOnly handles "H:MM[:SS] [AM/PM] [±tz]" and returns a
// time-only value.
func parseTimeOnly(value string) (DateTime, error) {
	clock, offset, hasTZ := splitClockAndTZ(value)
	h, m, s, err := parseClock(clock)
	if err != nil {
		return DateTime{}, fmt.Errorf("%w: invalid time: %s", ErrValue, value)
	}
	return DateTime{
		Hour:     h,
		Minute:   m,
		Second:   s,
		Kind:     KindTime,
		TZOffset: offset,
		HasTZ:    hasTZ,
	}, nil
}
