/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/phuslu/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/htfy96/unformat"
)

type extractRecord struct {
	Line  int               `json:"line"`
	Fixed []any             `json:"fixed,omitempty"`
	Named map[string]any    `json:"named,omitempty"`
	Span  [2]int            `json:"span"`
	Spans map[string][2]int `json:"field_spans,omitempty"`
}

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract -p PATTERN [file]",
	Short: "Apply one pattern to each input line and emit matches as JSON",
	Long: `Apply a format-style pattern to every input line (stdin or a file) and
print one JSON record per matching line with the extracted values.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern, err := cmd.Flags().GetString("pattern")
		if err != nil || pattern == "" {
			log.Fatal().Msgf("a pattern is required: %v", err)
			return
		}
		search, _ := cmd.Flags().GetBool("search")
		caseSensitive, _ := cmd.Flags().GetBool("case_sensitive")
		spans, _ := cmd.Flags().GetBool("spans")

		compiled, err := unformat.Compile(pattern)
		if err != nil {
			log.Fatal().Msgf("error compiling pattern %q: %v", pattern, err)
			return
		}

		var reader io.Reader = os.Stdin
		if len(args) > 0 {
			f, err := os.Open(args[0])
			if err != nil {
				log.Fatal().Msgf("error opening file: %v", err)
				return
			}
			defer f.Close()
			fi, err := f.Stat()
			if err != nil {
				log.Fatal().Msgf("error reading file info: %v", err)
				return
			}
			pbar := progressbar.DefaultBytes(fi.Size(), "extracting")
			reader = io.TeeReader(f, pbar)
		}

		opts := unformat.Options{CaseSensitive: caseSensitive}
		encoder := json.NewEncoder(os.Stdout)
		scanner := bufio.NewScanner(reader)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		lineNo := 0
		matched := 0
		for scanner.Scan() {
			lineNo++
			line := scanner.Text()
			var res *unformat.Result
			if search {
				res, err = compiled.SearchOptions(line, opts)
			} else {
				res, err = compiled.ParseOptions(line, opts)
			}
			if err != nil {
				log.Warn().Msgf("line %d: %v", lineNo, err)
				continue
			}
			if res == nil {
				log.Trace().Msgf("line %d did not match", lineNo)
				continue
			}
			matched++
			record := extractRecord{
				Line:  lineNo,
				Fixed: res.Fixed,
				Named: res.Named,
				Span:  [2]int{res.Span.Start, res.Span.End},
			}
			if spans {
				record.Spans = make(map[string][2]int, len(res.FieldSpans))
				for name, span := range res.FieldSpans {
					record.Spans[name] = [2]int{span.Start, span.End}
				}
			}
			if err := encoder.Encode(record); err != nil {
				log.Fatal().Msgf("error encoding record: %v", err)
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.Fatal().Msgf("error reading input: %v", err)
			return
		}
		fmt.Fprintf(os.Stderr, "%d/%d lines matched\n", matched, lineNo)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("pattern", "p", "", "format-style pattern, e.g. '{name}={value:d}'")
	extractCmd.Flags().Bool("search", false, "Find the pattern anywhere in the line instead of matching the whole line")
	extractCmd.Flags().Bool("case_sensitive", false, "Match case-sensitively")
	extractCmd.Flags().Bool("spans", false, "Include per-field spans in the output records")
	extractCmd.MarkFlagRequired("pattern")
}
