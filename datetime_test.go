package unformat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDateTime(t *testing.T, pattern, input string) DateTime {
	t.Helper()
	p, err := Compile(pattern)
	require.NoError(t, err)
	res, err := p.Parse(input)
	require.NoError(t, err)
	require.NotNil(t, res, "input %q must match %q", input, pattern)
	var v any
	if len(res.Fixed) > 0 {
		v = res.Fixed[0]
	} else {
		for _, nv := range res.Named {
			v = nv
		}
	}
	dt, ok := v.(DateTime)
	require.True(t, ok, "value %#v is not a DateTime", v)
	return dt
}

func tz(minutes int) *int { return &minutes }

func assertComponents(t *testing.T, dt DateTime, y, mo, d, h, mi, s, us int, offset *int) {
	t.Helper()
	assert.Equal(t, y, dt.Year)
	assert.Equal(t, mo, dt.Month)
	assert.Equal(t, d, dt.Day)
	assert.Equal(t, h, dt.Hour)
	assert.Equal(t, mi, dt.Minute)
	assert.Equal(t, s, dt.Second)
	assert.Equal(t, us, dt.Microsecond)
	if offset == nil {
		assert.False(t, dt.HasTZ)
	} else {
		require.True(t, dt.HasTZ)
		assert.Equal(t, *offset, dt.TZOffset)
	}
}

func TestDateTime_ISO(t *testing.T) {
	tests := []struct {
		input                  string
		y, mo, d, h, mi, s, us int
		offset                 *int
	}{
		{"2011-11-21", 2011, 11, 21, 0, 0, 0, 0, nil},
		{"2011-11-21T10:21:36Z", 2011, 11, 21, 10, 21, 36, 0, tz(0)},
		{"2011-11-21 10:21:36", 2011, 11, 21, 10, 21, 36, 0, nil},
		{"2011-11-21T10:21", 2011, 11, 21, 10, 21, 0, 0, nil},
		{"2011-11-21T10:21:36+1000", 2011, 11, 21, 10, 21, 36, 0, tz(600)},
		{"2011-11-21T10:21:36-05:30", 2011, 11, 21, 10, 21, 36, 0, tz(-330)},
		{"2011-11-21T10:21:36.123", 2011, 11, 21, 10, 21, 36, 123000, nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dt := parseDateTime(t, "{:ti}", tt.input)
			assertComponents(t, dt, tt.y, tt.mo, tt.d, tt.h, tt.mi, tt.s, tt.us, tt.offset)
		})
	}
}

func TestDateTime_RFC2822(t *testing.T) {
	dt := parseDateTime(t, "{:te}", "Mon, 21 Nov 2011 10:21:36 +1000")
	assertComponents(t, dt, 2011, 11, 21, 10, 21, 36, 0, tz(600))

	dt = parseDateTime(t, "{:te}", "21 Nov 2011 10:21:36 -05:30")
	assertComponents(t, dt, 2011, 11, 21, 10, 21, 36, 0, tz(-330))
}

func TestDateTime_Global(t *testing.T) {
	dt := parseDateTime(t, "{:tg}", "21/11/2011 10:21:36 PM +5:30")
	assertComponents(t, dt, 2011, 11, 21, 22, 21, 36, 0, tz(330))

	dt = parseDateTime(t, "{:tg}", "21-Nov-2011 10:21:36")
	assertComponents(t, dt, 2011, 11, 21, 10, 21, 36, 0, nil)

	dt = parseDateTime(t, "{:tg}", "1/2/2011")
	assertComponents(t, dt, 2011, 2, 1, 0, 0, 0, 0, nil)
}

func TestDateTime_US(t *testing.T) {
	dt := parseDateTime(t, "{:ta}", "11/21/2011 10:21:36 PM")
	assertComponents(t, dt, 2011, 11, 21, 22, 21, 36, 0, nil)

	dt = parseDateTime(t, "{:ta}", "Nov-21-2011")
	assertComponents(t, dt, 2011, 11, 21, 0, 0, 0, 0, nil)
}

func TestDateTime_Ctime(t *testing.T) {
	dt := parseDateTime(t, "{:tc}", "Mon Nov 21 10:21:36 2011")
	assertComponents(t, dt, 2011, 11, 21, 10, 21, 36, 0, nil)
}

func TestDateTime_HTTP(t *testing.T) {
	dt := parseDateTime(t, "{:th}", "21/Nov/2011:10:21:36 +1000")
	assertComponents(t, dt, 2011, 11, 21, 10, 21, 36, 0, tz(600))

	dt = parseDateTime(t, "{:th}", "21/Nov/2011:00:07:11 -0500")
	assertComponents(t, dt, 2011, 11, 21, 0, 7, 11, 0, tz(-300))
}

func TestDateTime_System(t *testing.T) {
	dt := parseDateTime(t, "{:ts}", "Nov 21 10:21:36")
	assertComponents(t, dt, time.Now().Year(), 11, 21, 10, 21, 36, 0, nil)
}

func TestDateTime_TimeOnly(t *testing.T) {
	dt := parseDateTime(t, "{:tt}", "10:21:36 PM -5:30")
	assert.Equal(t, KindTime, dt.Kind)
	assert.Equal(t, 22, dt.Hour)
	assert.Equal(t, 21, dt.Minute)
	assert.Equal(t, 36, dt.Second)
	require.True(t, dt.HasTZ)
	assert.Equal(t, -330, dt.TZOffset)

	dt = parseDateTime(t, "{:tt}", "10:21")
	assert.Equal(t, 10, dt.Hour)
	assert.Equal(t, 21, dt.Minute)
	assert.False(t, dt.HasTZ)
}

func TestDateTime_MeridiemRules(t *testing.T) {
	tests := []struct {
		input string
		hour  int
	}{
		{"12:00 AM", 0},
		{"1:00 AM", 1},
		{"12:00 PM", 12},
		{"1:00 PM", 13},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dt := parseDateTime(t, "{:tt}", tt.input)
			assert.Equal(t, tt.hour, dt.Hour)
		})
	}
}

func TestDateTime_MicrosecondPadding(t *testing.T) {
	tests := []struct {
		frac string
		want int
	}{
		{"1", 100000},
		{"000001", 1},
		{"1234567", 123456},
	}
	for _, tt := range tests {
		t.Run(tt.frac, func(t *testing.T) {
			assert.Equal(t, tt.want, padMicroseconds(tt.frac))
		})
	}
	dt := parseDateTime(t, "{:ti}", "2011-11-21T10:21:36.1")
	assert.Equal(t, 100000, dt.Microsecond)
}

func TestDateTime_Strftime(t *testing.T) {
	dt := parseDateTime(t, "{:%Y-%m-%d %H:%M:%S}", "2023-04-05 06:07:08")
	assert.Equal(t, KindDateTime, dt.Kind)
	assertComponents(t, dt, 2023, 4, 5, 6, 7, 8, 0, nil)

	dt = parseDateTime(t, "{:%Y-%m-%d}", "2023-04-05")
	assert.Equal(t, KindDate, dt.Kind)

	dt = parseDateTime(t, "{:%H:%M}", "06:07")
	assert.Equal(t, KindTime, dt.Kind)
	assert.Equal(t, 6, dt.Hour)

	dt = parseDateTime(t, "{:%d %b %Y}", "05 Apr 2023")
	assertComponents(t, dt, 2023, 4, 5, 0, 0, 0, 0, nil)

	dt = parseDateTime(t, "{:%y/%m/%d}", "03/04/05")
	assert.Equal(t, 2003, dt.Year)

	dt = parseDateTime(t, "{:%y/%m/%d}", "99/04/05")
	assert.Equal(t, 1999, dt.Year)
}

func TestDateTime_StrftimeRepeatedDirective(t *testing.T) {
	// The translator emits unnamed groups, so a directive may repeat
	// without duplicate-group failures.
	dt := parseDateTime(t, "{:%d/%d}", "05/05")
	assert.Equal(t, 5, dt.Day)
}

func TestDateTime_StrftimeDayOfYear(t *testing.T) {
	dt, err := parseStrftime("2023/64", "%Y/%j")
	require.NoError(t, err)
	assert.Equal(t, KindDate, dt.Kind)
	assert.Equal(t, 3, dt.Month)
	assert.Equal(t, 5, dt.Day)
}

func TestDateTime_TimeAdapter(t *testing.T) {
	dt := DateTime{Year: 2011, Month: 11, Day: 21, Hour: 10, Minute: 21, Second: 36, TZOffset: 600, HasTZ: true}
	got := dt.Time()
	assert.Equal(t, 2011, got.Year())
	_, offset := got.Zone()
	assert.Equal(t, 600*60, offset)
}

func TestStrftimeTranslate_Fragments(t *testing.T) {
	frag, codes := strftimeTranslate("%Y-%m-%d", false)
	assert.Equal(t, `\d{4}-\d{1,2}-\d{1,2}`, frag)
	assert.Empty(t, codes)

	frag, codes = strftimeTranslate("%H:%M:%S.%f", true)
	assert.Equal(t, `(\d{1,2}):(\d{1,2}):(\d{1,2})\.(\d{1,6})`, frag)
	assert.Equal(t, []byte{'H', 'M', 'S', 'f'}, codes)

	frag, _ = strftimeTranslate("%% %a", false)
	assert.Equal(t, `% [A-Za-z]{3}`, frag)
}
