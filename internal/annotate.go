package internal

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/muesli/termenv"
	"github.com/phuslu/log"

	"github.com/htfy96/unformat"
)

// AnnotateConfig controls line annotation.
type AnnotateConfig struct {
	// Minimum number of literal (non-captured) characters a match must
	// cover to qualify.
	MinMatchChars int
	// Minimum ratio of matched characters to line length.
	MinMatchedRatio float64
	// Width of the pattern-ID column, 0 disables the column.
	IDColumnWidth int
	// Skip highlighting captured values in the output.
	SkipHighlight bool
	// PatternFilter keeps only the listed pattern IDs.
	PatternFilter []string
}

func (c AnnotateConfig) Validate() error {
	if c.MinMatchChars < 0 {
		return fmt.Errorf("min_match_chars must be non-negative")
	}
	if c.MinMatchedRatio < 0 || c.MinMatchedRatio > 1 {
		return fmt.Errorf("min_matched_ratio must be within [0, 1]")
	}
	if c.IDColumnWidth < 0 {
		return fmt.Errorf("id_column_width must be non-negative")
	}
	return nil
}

// Annotator matches lines against a compiled pattern set and rewrites
// them with the best match highlighted.
type Annotator struct {
	Config AnnotateConfig
	Defs   []PatternDef
}

func NewAnnotator(config AnnotateConfig, file PatternFile) (*Annotator, error) {
	defs := make([]PatternDef, 0, len(file.Patterns))
	for _, def := range file.Patterns {
		if len(config.PatternFilter) > 0 && !slices.Contains(config.PatternFilter, def.ID) {
			continue
		}
		if def.Compiled == nil {
			if err := def.Compile(); err != nil {
				return nil, err
			}
		}
		defs = append(defs, def)
	}
	return &Annotator{Config: config, Defs: defs}, nil
}

type scoredMatch struct {
	def      *PatternDef
	result   *unformat.Result
	total    int
	literals int
}

// score measures how much of the match is literal pattern text rather
// than captured field content. Matches dominated by captures are weak
// evidence the pattern describes the line.
func score(res *unformat.Result) (total, literals int) {
	total = res.Span.End - res.Span.Start
	literals = total
	for _, span := range res.FieldSpans {
		literals -= span.End - span.Start
	}
	return total, literals
}

const idColumnSeparator = " | "

func (a *Annotator) buildIDColumn(id string) string {
	if a.Config.IDColumnWidth == 0 {
		return ""
	}
	output := termenv.NewOutput(os.Stdout)
	width := a.Config.IDColumnWidth - len(idColumnSeparator)
	var res strings.Builder
	if id == "" {
		res.WriteString(strings.Repeat(" ", width))
		res.WriteString(idColumnSeparator)
		return res.String()
	}
	if len(id) > width {
		id = id[:width-3] + "..."
	}
	res.WriteString(output.String(id).Foreground(output.Color("#dddddd")).String())
	res.WriteString(strings.Repeat(" ", width-min(len(id), width)))
	res.WriteString(idColumnSeparator)
	return res.String()
}

// ProcessLine annotates one input line. Lines no pattern explains come
// back with an empty ID column and untouched content.
func (a *Annotator) ProcessLine(line string) (string, error) {
	var best *scoredMatch
	for i := range a.Defs {
		def := &a.Defs[i]
		res, err := def.Extract(line)
		if err != nil {
			log.Debug().Msgf("pattern %s failed on line: %v", def.ID, err)
			continue
		}
		if res == nil {
			continue
		}
		total, literals := score(res)
		if best == nil || literals > best.literals ||
			(literals == best.literals && total > best.total) {
			best = &scoredMatch{def: def, result: res, total: total, literals: literals}
		}
	}

	if best == nil ||
		best.literals < a.Config.MinMatchChars ||
		float64(best.total) < a.Config.MinMatchedRatio*float64(len(line)) {
		return a.buildIDColumn("") + line, nil
	}

	annotated := line
	if !a.Config.SkipHighlight {
		annotated = highlightSpans(line, best.result.FieldSpans)
	}
	return a.buildIDColumn(best.def.ID) + annotated, nil
}

// highlightSpans colours the captured field ranges and tags each with
// its field name.
func highlightSpans(line string, fieldSpans map[string]unformat.Span) string {
	type namedSpan struct {
		name string
		span unformat.Span
	}
	spans := make([]namedSpan, 0, len(fieldSpans))
	for name, span := range fieldSpans {
		spans = append(spans, namedSpan{name: name, span: span})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].span.Start < spans[j].span.Start })

	output := termenv.NewOutput(os.Stdout)
	var b strings.Builder
	prevEnd := 0
	for _, ns := range spans {
		if ns.span.Start < prevEnd || ns.span.End > len(line) {
			log.Panic().Msgf("invalid field span %v for line of length %d", ns.span, len(line))
		}
		b.WriteString(line[prevEnd:ns.span.Start])
		b.WriteString(output.String("|" + ns.name + "=|").Foreground(output.Color("#006633")).Background(output.Color("#202020")).String())
		b.WriteString(output.String(line[ns.span.Start:ns.span.End]).Foreground(output.Color("#66cc99")).String())
		prevEnd = ns.span.End
	}
	b.WriteString(line[prevEnd:])
	return b.String()
}
