/*
Copyright © 2024 Zheng 'Vic' Luo vicluo96@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adrg/xdg"
	"github.com/phuslu/log"
)

var cfgFile string

func initFromGlobalConfig() {
	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(viper.GetString("loglevel")),
		Caller:     1,
		TimeField:  "time",
		TimeFormat: "2006-01-02 15:04:05",
		Writer: &log.ConsoleWriter{
			ColorOutput: true,
		},
	}
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "unformat {extract | annotate | patterns} [flags...]",
	Short: "Extract typed values from text using format-style patterns",
	Long: `A command-line tool around the unformat library: patterns written in the
"{name:type}" placeholder mini-language are compiled into regular
expressions and run in reverse over input lines, turning text back into
typed values.

'unformat extract' applies a single pattern and emits matches as JSON.
'unformat annotate' matches lines against a pattern file and highlights
the extracted fields.
'unformat patterns' manages pattern files.

Some flags (e.g., loglevel, min_matched_ratio, id_column_width) can be
set via $XDG_CONFIG_HOME/unformat/.unformat.yaml or ~/.unformat.yaml.

Set 'CLICOLOR_FORCE' or 'NO_COLOR' to force color output regardless of the terminal.
`,

	Run: func(cmd *cobra.Command, args []string) {
		println("Please specify a subcommand for unformat operations.")
		os.Exit(1)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.unformat.yaml)")
	rootCmd.PersistentFlags().String("loglevel", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	viper.BindPFlag("loglevel", rootCmd.PersistentFlags().Lookup("loglevel"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("loglevel", "warn")
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".unformat" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(xdg.ConfigHome + "/unformat")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".unformat")
	}
	viper.SetEnvPrefix("UNFORMAT")

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	initFromGlobalConfig()
}
