// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	gitpkg "github.com/petar-djukic/go-refiner/internal/git"
	"github.com/petar-djukic/go-refiner/pkg/refiner"
	"github.com/petar-djukic/go-refiner/pkg/types"
)

// configFromViper assembles the service config from flags, environment,
// and the config file.
func configFromViper() refiner.Config {
	return refiner.Config{
		Root:               viper.GetString("root"),
		StoreKind:          viper.GetString("store"),
		DBPath:             viper.GetString("db"),
		Provider:           viper.GetString("provider"),
		Model:              viper.GetString("model"),
		Region:             viper.GetString("region"),
		Profile:            viper.GetString("profile"),
		APIKey:             viper.GetString("api-key"),
		MaxAttempts:        viper.GetInt("max-attempts"),
		BaseDelay:          viper.GetDuration("base-delay"),
		AttemptTimeout:     viper.GetDuration("attempt-timeout"),
		MaxTokens:          viper.GetInt("max-tokens"),
		Strategy:           viper.GetString("strategy"),
		DefaultColorTarget: viper.GetString("color-target"),
		RegistryPath:       viper.GetString("registry"),
		Git: refiner.GitConfig{
			Enabled:     viper.GetBool("git"),
			DirtyCommit: viper.GetBool("dirty-commit"),
		},
	}
}

// newRefineCmd creates the "refine" command.
func newRefineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refine <key>",
		Short: "Apply an edit request to a stored document",
		Long: "Refine classifies the request, edits the document in place when the change is simple, " +
			"and otherwise regenerates it, retrying with validation feedback. On failure the document is left unchanged.",
		Args: cobra.ExactArgs(1),
		RunE: runRefine,
	}

	cmd.Flags().StringP("message", "m", "", "Edit request (required)")
	cmd.Flags().String("select", "", "Id of the component selected in the editor")
	cmd.Flags().String("select-type", "", "Type of the component selected in the editor")
	cmd.MarkFlagRequired("message")

	return cmd
}

// runRefine executes one edit request.
func runRefine(cmd *cobra.Command, args []string) error {
	message, _ := cmd.Flags().GetString("message")
	selected, _ := cmd.Flags().GetString("select")
	selectedType, _ := cmd.Flags().GetString("select-type")

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	svc, err := refiner.New(configFromViper(), logger)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer svc.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	result, err := svc.Refine(ctx, args[0], types.EditRequest{
		Message:               message,
		SelectedComponentID:   selected,
		SelectedComponentType: selectedType,
	})
	if viper.GetBool("json") {
		printJSON(cmd.OutOrStdout(), result)
	} else {
		printResult(cmd.OutOrStdout(), result)
	}
	return err
}

// newUndoCmd creates the "undo" command.
func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last go-refiner commit",
		Long:  "Undo moves HEAD back over the last commit made by go-refiner and restores the files it changed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := gitpkg.Open(gitpkg.Config{WorkDir: viper.GetString("root")})
			if err != nil {
				return fmt.Errorf("opening repository: %w", err)
			}

			paths, err := repo.Undo()
			if err != nil {
				return fmt.Errorf("undo failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Reverted last go-refiner commit.")
			for _, p := range paths {
				fmt.Fprintf(out, "  restored %s\n", p)
			}
			return nil
		},
	}
}
