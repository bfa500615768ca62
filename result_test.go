package unformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFieldPath(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"plain", []string{"plain"}},
		{"a[b]", []string{"a", "b"}},
		{"a[b][c]", []string{"a", "b", "c"}},
		{"a[b-c]", []string{"a", "b-c"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseFieldPath(tt.name), tt.name)
	}
}

func TestInsertNested(t *testing.T) {
	named := make(map[string]any)
	insertNested(named, []string{"a", "b", "c"}, 1)
	insertNested(named, []string{"a", "b", "d"}, 2)
	insertNested(named, []string{"top"}, "v")

	a := named["a"].(map[string]any)
	b := a["b"].(map[string]any)
	assert.Equal(t, 1, b["c"])
	assert.Equal(t, 2, b["d"])
	assert.Equal(t, "v", named["top"])
}

func TestInsertNested_ReplacesScalarMidPath(t *testing.T) {
	named := map[string]any{"a": "scalar"}
	insertNested(named, []string{"a", "b"}, 1)
	a := named["a"].(map[string]any)
	assert.Equal(t, 1, a["b"])
}

func TestValuesEqual(t *testing.T) {
	assert.True(t, valuesEqual(int64(1), int64(1)))
	assert.False(t, valuesEqual(int64(1), int64(2)))
	assert.False(t, valuesEqual(int64(1), "1"))
	assert.True(t, valuesEqual("x", "x"))
	assert.True(t, valuesEqual(
		DateTime{Year: 2011, Month: 1, Day: 2},
		DateTime{Year: 2011, Month: 1, Day: 2},
	))
}
