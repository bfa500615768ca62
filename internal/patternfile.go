package internal

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/htfy96/unformat"
)

// PatternMode selects how a pattern is matched against a line.
type PatternMode string

const (
	// PatternModeParse anchors the pattern over the whole line.
	PatternModeParse PatternMode = "parse"
	// PatternModeSearch finds the first occurrence inside the line.
	PatternModeSearch PatternMode = "search"
)

var PatternFileName = ".unformat.toml"

// PatternDef is one extraction pattern from a pattern file.
type PatternDef struct {
	ID            string      `toml:"id"`
	Pattern       string      `toml:"pattern,multiline"`
	Mode          PatternMode `toml:"mode"`
	CaseSensitive bool        `toml:"case_sensitive,omitempty"`
	// Only populated after Compile.
	Compiled *unformat.Pattern `toml:"-"`
}

func (def *PatternDef) Compile() error {
	if def.Mode == "" {
		def.Mode = PatternModeSearch
	}
	if def.Mode != PatternModeParse && def.Mode != PatternModeSearch {
		return fmt.Errorf("pattern %q: unknown mode %q", def.ID, def.Mode)
	}
	compiled, err := unformat.Compile(def.Pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern in %q: %w", def.ID, err)
	}
	def.Compiled = compiled
	return nil
}

// Extract runs the pattern against a line per its mode.
func (def *PatternDef) Extract(line string) (*unformat.Result, error) {
	opts := unformat.Options{CaseSensitive: def.CaseSensitive}
	if def.Mode == PatternModeParse {
		return def.Compiled.ParseOptions(line, opts)
	}
	return def.Compiled.SearchOptions(line, opts)
}

// PatternFile is the on-disk TOML pattern set.
type PatternFile struct {
	Name     string       `toml:"name"`
	Patterns []PatternDef `toml:"patterns"`
}

func SamplePatternFile() PatternFile {
	return PatternFile{
		Name: "webserver",
		Patterns: []PatternDef{
			{
				ID:      "access",
				Pattern: `{ip:S} - - [{when:th}] "{method:w} {path:S} HTTP/{version}" {status:d} {size:d}`,
				Mode:    PatternModeSearch,
			},
			{
				ID:      "metric",
				Pattern: "load={load:f} mem={mem:%}",
				Mode:    PatternModeSearch,
			},
		},
	}
}

// ReadPatternFile loads and compiles a pattern file.
func ReadPatternFile(path string) (PatternFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PatternFile{}, fmt.Errorf("error reading pattern file: %w", err)
	}
	var file PatternFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return PatternFile{}, fmt.Errorf("error unmarshalling pattern file %q: %w", path, err)
	}
	seen := make(map[string]bool, len(file.Patterns))
	for i := range file.Patterns {
		id := file.Patterns[i].ID
		if seen[id] {
			return PatternFile{}, fmt.Errorf("duplicate pattern ID: %s", id)
		}
		seen[id] = true
		if err := file.Patterns[i].Compile(); err != nil {
			return PatternFile{}, err
		}
	}
	return file, nil
}
