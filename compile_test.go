package unformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_FieldSpecs(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		specs   []FieldSpec
	}{
		{
			name:    "anonymous string",
			pattern: "{}",
			specs:   []FieldSpec{{Type: TypeString, Width: -1, Precision: -1}},
		},
		{
			name:    "named integer",
			pattern: "{age:d}",
			specs:   []FieldSpec{{Name: "age", Type: TypeInteger, OrigTypeChar: 'd', Width: -1, Precision: -1}},
		},
		{
			name:    "width and precision",
			pattern: "{v:10.2f}",
			specs:   []FieldSpec{{Name: "v", Type: TypeFloat, Width: 10, Precision: 2}},
		},
		{
			name:    "fill align sign zero-pad",
			pattern: "{n:x=+08d}",
			specs: []FieldSpec{{
				Name: "n", Type: TypeInteger, OrigTypeChar: 'd',
				Fill: 'x', Alignment: '=', Sign: '+', ZeroPad: true, Width: 8, Precision: -1,
			}},
		},
		{
			name:    "strftime template",
			pattern: "{ts:%Y-%m-%d}",
			specs: []FieldSpec{{
				Name: "ts", Type: TypeDateStrftime, StrftimeFormat: "%Y-%m-%d",
				Width: -1, Precision: -1,
			}},
		},
		{
			name:    "multi-character custom type",
			pattern: "{x:Name}",
			specs:   []FieldSpec{{Name: "x", Type: TypeCustom, CustomName: "Name", Width: -1, Precision: -1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.specs, p.FieldSpecs())
		})
	}
}

func TestCompile_TypeCodes(t *testing.T) {
	tests := []struct {
		code string
		typ  FieldType
	}{
		{"d", TypeInteger},
		{"i", TypeInteger},
		{"b", TypeInteger},
		{"o", TypeInteger},
		{"x", TypeInteger},
		{"X", TypeInteger},
		{"f", TypeFloat},
		{"F", TypeFloat},
		{"e", TypeScientific},
		{"E", TypeScientific},
		{"g", TypeGeneralNumber},
		{"G", TypeGeneralNumber},
		{"n", TypeThousands},
		{"%", TypePercentage},
		{"l", TypeLetters},
		{"w", TypeWord},
		{"W", TypeNonLetters},
		{"S", TypeNonWhitespace},
		{"D", TypeNonDigits},
		{"s", TypeString},
		{"ti", TypeDateISO},
		{"te", TypeDateRFC2822},
		{"tg", TypeDateGlobal},
		{"ta", TypeDateUS},
		{"tc", TypeDateCtime},
		{"th", TypeDateHTTP},
		{"tt", TypeTimeOnly},
		{"ts", TypeDateSystem},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			p, err := Compile("{:" + tt.code + "}")
			require.NoError(t, err)
			require.Len(t, p.FieldSpecs(), 1)
			assert.Equal(t, tt.typ, p.FieldSpecs()[0].Type)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{"unclosed brace", "{name"},
		{"quoted bracket key", `{a['k']}`},
		{"repeated name type mismatch", "{a:d} {a:f}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.pattern)
			assert.Error(t, err)
		})
	}
}

func TestCompile_RepeatedNameSameType(t *testing.T) {
	_, err := Compile("{a:d} and {a:d}")
	assert.NoError(t, err)
}

func TestCompile_EscapedBraces(t *testing.T) {
	p, err := Compile("{{{v}}}")
	require.NoError(t, err)
	res, err := p.Parse("{x}")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "x", res.Named["v"])
}

func TestCompile_NameNormalization(t *testing.T) {
	p, err := Compile("{a-b} {a.b} {a_b}")
	require.NoError(t, err)
	// Hyphens and dots collapse to underscores; collisions grow
	// trailing underscores until unique.
	assert.Equal(t, []string{"a_b", "a_b_", "a_b__"}, p.NamedFields())
}

func TestCompile_PositionalNumericNames(t *testing.T) {
	p, err := Compile("{0} {1}")
	require.NoError(t, err)
	assert.Empty(t, p.NamedFields())
	res, err := p.Parse("hello world")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []any{"hello", "world"}, res.Fixed)
}

func TestExpression_Canonical(t *testing.T) {
	tests := []struct {
		pattern string
		expr    string
	}{
		{"{}", "(.+?)"},
		{"{} {}", "(.+?) (.+?)"},
		{"{:>}", " *(.+?)"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p, err := Compile(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.expr, p.Expression())
		})
	}
}

func TestCompile_InvariantParallelTables(t *testing.T) {
	p, err := Compile("{a} {} {b-c:d} {0}")
	require.NoError(t, err)
	assert.Len(t, p.specs, 4)
	assert.Len(t, p.names, 4)
	assert.Len(t, p.normNames, 4)
	assert.Equal(t, "b-c", p.nameMap["b_c"])
}

func TestCountCapturingGroups(t *testing.T) {
	tests := []struct {
		pattern string
		count   int
	}{
		{`\d+`, 0},
		{`(\d+)`, 1},
		{`(\d+)-(\d+)`, 2},
		{`(?:\d+)`, 0},
		{`\(\d+\)`, 0},
		{`(?P<x>\d+)`, 1},
		{`((a)(b))`, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.count, countCapturingGroups(tt.pattern), tt.pattern)
	}
}
