/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/atomic"

	"github.com/htfy96/unformat/internal"
)

// annotateCmd represents the annotate command
var annotateCmd = &cobra.Command{
	Use:   "annotate [file]",
	Short: "Annotate input lines with the best-matching pattern",
	Long: `Match each input line against the patterns in the pattern file, pick the
best match by the amount of literal pattern text it covers, and print the
line with its pattern ID and the extracted fields highlighted.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		patternFilePath, err := cmd.PersistentFlags().GetString("pattern_file")
		if err != nil {
			log.Fatal().Msgf("error getting pattern_file: %v", err)
			return
		}
		ids, err := cmd.PersistentFlags().GetStringArray("ids")
		if err != nil {
			log.Fatal().Msgf("error getting ids: %v", err)
			return
		}
		patternFile, err := internal.ReadPatternFile(patternFilePath)
		if err != nil {
			log.Fatal().Msgf("error reading pattern file: %v", err)
			return
		}
		config := internal.AnnotateConfig{
			MinMatchChars:   viper.GetInt("min_match_chars"),
			MinMatchedRatio: viper.GetFloat64("min_matched_ratio"),
			IDColumnWidth:   viper.GetInt("id_column_width"),
			SkipHighlight:   viper.GetBool("skip_highlight"),
			PatternFilter:   ids,
		}
		if err := config.Validate(); err != nil {
			log.Fatal().Msgf("error validating config: %v", err)
			return
		}
		annotator, err := internal.NewAnnotator(config, patternFile)
		if err != nil {
			log.Fatal().Msgf("error creating annotator: %v", err)
			return
		}

		type InputLine struct {
			Line    int
			Content string
		}

		currLine := atomic.NewInt64(0)
		inputQueue := internal.NewSafeQueue[InputLine]()

		completionQueue := internal.NewOrderPreservingCompletionQueue[string]()
		completionChan := completionQueue.GetCompletionChan()
		terminationChan := make(chan int)

		outputLine := 0

		// handlers
		for i := 0; i < 32; i++ {
			go func() {
				for {
					line := inputQueue.WaitToPop()
					processed, err := annotator.ProcessLine(line.Content)
					if err != nil {
						completionQueue.Push(line.Line, fmt.Sprintf("Line %d: %v", line.Line, err))
						continue
					}
					completionQueue.Push(line.Line, processed)
				}
			}()
		}

		go func() {
			reader := os.Stdin
			if len(args) > 0 {
				reader, err = os.Open(args[0])
				if err != nil {
					log.Fatal().Msgf("error opening file: %v", err)
					os.Exit(1)
				}
			}
			scanner := bufio.NewScanner(reader)
			for scanner.Scan() {
				line := scanner.Text()
				oldCurrLine := currLine.Add(1) - 1

				inputQueue.Push(InputLine{
					Content: line,
					Line:    int(oldCurrLine),
				})
			}
			terminationChan <- 1
		}()

		terminated := false
		for {
			select {
			case line := <-completionChan:
				println(line)
				outputLine++
			case <-terminationChan:
				terminated = true
			}
			if terminated && int(currLine.Load()) == outputLine {
				return
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(annotateCmd)
	viper.SetDefault("min_match_chars", 4)
	viper.SetDefault("id_column_width", 16)
	viper.SetDefault("skip_highlight", false)
	viper.SetDefault("min_matched_ratio", 0.3)
	annotateCmd.PersistentFlags().String("pattern_file", internal.PatternFileName, "Pattern file to match lines against")
	annotateCmd.PersistentFlags().Int("min_match_chars", 4, "Minimum number of literal pattern characters a match must cover to qualify")
	viper.BindPFlag("min_match_chars", annotateCmd.PersistentFlags().Lookup("min_match_chars"))
	annotateCmd.PersistentFlags().Int("id_column_width", 16, "Width of the pattern-ID column in the output. Setting it to 0 will disable the column.")
	viper.BindPFlag("id_column_width", annotateCmd.PersistentFlags().Lookup("id_column_width"))
	annotateCmd.PersistentFlags().Float64("min_matched_ratio", 0.3, "Minimum ratio of matched characters to total characters in a line to qualify as a match")
	viper.BindPFlag("min_matched_ratio", annotateCmd.PersistentFlags().Lookup("min_matched_ratio"))
	annotateCmd.PersistentFlags().Bool("skip_highlight", false, "Skip highlighting extracted fields in the output")
	viper.BindPFlag("skip_highlight", annotateCmd.PersistentFlags().Lookup("skip_highlight"))
	annotateCmd.PersistentFlags().StringArray("ids", []string{}, "Only match the listed pattern IDs. If not provided, all patterns are used")
}
