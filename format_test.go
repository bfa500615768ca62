package unformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		args    []any
		named   map[string]any
	}{
		{
			name:    "positional strings",
			pattern: "{} and {}",
			args:    []any{"spam", "eggs"},
		},
		{
			name:    "named integer",
			pattern: "{name}={value:d}",
			named:   map[string]any{"name": "n", "value": int64(42)},
		},
		{
			name:    "float with precision",
			pattern: "v={v:.2f}",
			named:   map[string]any{"v": 3.14},
		},
		{
			name:    "hex integer",
			pattern: "{:x}",
			args:    []any{int64(255)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.pattern)
			require.NoError(t, err)
			rendered, err := p.Format().Apply(tt.args, tt.named)
			require.NoError(t, err)
			res, err := p.Parse(rendered)
			require.NoError(t, err)
			require.NotNil(t, res, "rendered %q must parse back", rendered)
			if tt.args != nil {
				assert.Equal(t, tt.args, res.Fixed)
			}
			for k, v := range tt.named {
				assert.Equal(t, v, res.Named[k])
			}
		})
	}
}

func TestFormat_Padding(t *testing.T) {
	tests := []struct {
		pattern string
		args    []any
		want    string
	}{
		{"{:04d}", []any{int64(42)}, "0042"},
		{"{:04d}", []any{int64(-42)}, "-042"},
		{"{:>6}", []any{"ab"}, "    ab"},
		{"{:<6}", []any{"ab"}, "ab    "},
		{"{:^6}", []any{"ab"}, "  ab  "},
		{"{:*>5d}", []any{int64(7)}, "****7"},
		{"{:x=6d}", []any{int64(-42)}, "-xxx42"},
		{"{:+d}", []any{int64(5)}, "+5"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p, err := Compile(tt.pattern)
			require.NoError(t, err)
			got, err := p.Format().Apply(tt.args, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_NumberedAndNested(t *testing.T) {
	p, err := Compile("{1} {0} {cfg[port]:d}")
	require.NoError(t, err)
	got, err := p.Format().Apply([]any{"a", "b"}, map[string]any{
		"cfg": map[string]any{"port": int64(80)},
	})
	require.NoError(t, err)
	assert.Equal(t, "b a 80", got)
}

func TestFormat_MissingArguments(t *testing.T) {
	p, err := Compile("{} {}")
	require.NoError(t, err)
	_, err = p.Format().Apply([]any{"only"}, nil)
	assert.Error(t, err)

	p, err = Compile("{missing}")
	require.NoError(t, err)
	_, err = p.Format().Apply(nil, nil)
	assert.Error(t, err)
}

func TestFormat_EscapedBraces(t *testing.T) {
	p, err := Compile("{{{}}}")
	require.NoError(t, err)
	got, err := p.Format().Apply([]any{"x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "{x}", got)
}
