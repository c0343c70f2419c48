// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command go-refiner applies natural-language edits to React-email
// component files.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "go-refiner",
		Short: "Refine generated email components",
		Long: "go-refiner applies natural-language edit requests to React-email components, " +
			"editing in place when it can and regenerating through a language model when it cannot.",
		SilenceUsage: true,
	}

	// Global flags.
	flags := rootCmd.PersistentFlags()
	flags.String("root", ".", "Document directory")
	flags.String("store", "file", "Document store: file or sqlite")
	flags.String("db", "", "SQLite database path (default <root>/.go-refiner.db)")
	flags.String("provider", "", "Generation provider: bedrock or gemini (empty disables regeneration)")
	flags.String("model", "", "Model ID")
	flags.String("region", "", "AWS region for Bedrock")
	flags.String("profile", "", "AWS credential profile for Bedrock")
	flags.String("api-key", "", "Gemini API key")
	flags.Int("max-attempts", 3, "Regeneration attempts")
	flags.Duration("base-delay", 0, "Delay unit between regeneration attempts (default 1s)")
	flags.Duration("attempt-timeout", 0, "Deadline of one regeneration attempt (default 60s)")
	flags.Int("max-tokens", 8192, "Maximum tokens per generation")
	flags.String("strategy", "auto", "Routing strategy: auto, fast, or slow")
	flags.String("color-target", "", "Style property for color requests that name none (default color)")
	flags.String("registry", "", "YAML file merged over the built-in registry")
	flags.Bool("git", false, "Commit each saved refinement")
	flags.Bool("dirty-commit", false, "Commit manual edits of a document before refining it")
	flags.Bool("json", false, "Print results as JSON")
	flags.BoolP("verbose", "v", false, "Debug logging")

	// Bind flags to viper.
	flags.VisitAll(func(f *pflag.Flag) {
		viper.BindPFlag(f.Name, f)
	})

	// Env vars: GO_REFINER_MODEL, GO_REFINER_API_KEY, etc.
	viper.SetEnvPrefix("GO_REFINER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".go-refiner")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	rootCmd.AddCommand(newRefineCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newMapCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newUndoCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the production logger, at debug level with --verbose.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if viper.GetBool("verbose") {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print go-refiner version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "go-refiner %s\n", version)
		},
	}
}
