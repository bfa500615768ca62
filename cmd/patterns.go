/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/htfy96/unformat/internal"
)

// patternsCmd represents the patterns command
var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Manage pattern files (Check subcommands)",
	Long: `Manage pattern files.
A pattern file is a TOML collection of extraction patterns. Check subcommands for more details.`,
	Run: func(cmd *cobra.Command, args []string) {
		println("Please specify a subcommand for pattern operations.")
		os.Exit(1)
	},
}

var patternsNewConfigCmd = &cobra.Command{
	Use:   "new-config",
	Short: "Create a new pattern file",
	Long:  "Create a sample pattern file for unformat in the current directory",
	Run: func(cmd *cobra.Command, args []string) {
		conf := internal.SamplePatternFile()
		configBytes, err := toml.Marshal(conf)
		if err != nil {
			log.Fatal().Msgf("error marshaling sample pattern file: %v", err)
		}
		err = os.WriteFile(internal.PatternFileName, configBytes, 0644)
		if err != nil {
			log.Fatal().Msgf("error writing pattern file: %v", err)
		}
		fmt.Printf("Sample pattern file created at %s\n", internal.PatternFileName)
	},
}

var patternsCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a pattern file",
	Long:  "Compile every pattern in the file and report the compiled expressions",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := internal.PatternFileName
		if len(args) > 0 {
			path = args[0]
		}
		file, err := internal.ReadPatternFile(path)
		if err != nil {
			log.Fatal().Msgf("invalid pattern file: %v", err)
			return
		}
		fmt.Printf("Pattern file %s: %d patterns\n", path, len(file.Patterns))
		for _, def := range file.Patterns {
			fmt.Printf("  %s (%s): %s\n", def.ID, def.Mode, def.Compiled.Expression())
		}
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
	patternsCmd.AddCommand(patternsNewConfigCmd)
	patternsCmd.AddCommand(patternsCheckCmd)
}
