// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-refiner/internal/diff"
	"github.com/petar-djukic/go-refiner/internal/parser"
	"github.com/petar-djukic/go-refiner/internal/registry"
	"github.com/petar-djukic/go-refiner/internal/validator"
	"github.com/petar-djukic/go-refiner/pkg/refiner"
)

// loadRegistry returns the registry named by --registry, or the built-in one.
func loadRegistry() (*registry.Registry, error) {
	if path := viper.GetString("registry"); path != "" {
		return registry.Load(path)
	}
	return registry.Default(), nil
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// newValidateCmd creates the "validate" command.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a component file against the structural rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readFile(args[0])
			if err != nil {
				return err
			}

			result := validator.New(validator.Options{}).Validate(source)
			if viper.GetBool("json") {
				printJSON(cmd.OutOrStdout(), result)
			} else {
				printValidation(cmd.OutOrStdout(), result)
			}
			if !result.Valid {
				return fmt.Errorf("%s: %d validation errors", args[0], len(result.Errors))
			}
			return nil
		},
	}
}

// newDiffCmd creates the "diff" command.
func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Report the ranked component changes between two versions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldSource, err := readFile(args[0])
			if err != nil {
				return err
			}
			newSource, err := readFile(args[1])
			if err != nil {
				return err
			}
			reg, err := loadRegistry()
			if err != nil {
				return err
			}

			changes := diff.New(parser.New(reg)).Diff(oldSource, newSource)
			if viper.GetBool("json") {
				printJSON(cmd.OutOrStdout(), changes)
				return nil
			}
			printChanges(cmd.OutOrStdout(), changes)
			printUnified(cmd.OutOrStdout(), diff.Unified(oldSource, newSource))
			return nil
		},
	}
}

// newMapCmd creates the "map" command.
func newMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map <file>",
		Short: "List the addressable components of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readFile(args[0])
			if err != nil {
				return err
			}
			reg, err := loadRegistry()
			if err != nil {
				return err
			}

			cm, err := parser.New(reg).Parse(source)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				printJSON(cmd.OutOrStdout(), cm.Nodes())
				return nil
			}
			printMap(cmd.OutOrStdout(), cm)
			return nil
		},
	}
}

// newListCmd creates the "list" command.
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the documents in the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromViper()
			cfg.Git.Enabled = false
			cfg.Provider = ""
			svc, err := refiner.New(cfg, nil)
			if err != nil {
				return fmt.Errorf("initialization failed: %w", err)
			}
			defer svc.Close()

			keys, err := svc.Keys(context.Background())
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				printJSON(cmd.OutOrStdout(), keys)
				return nil
			}
			printKeys(cmd.OutOrStdout(), keys)
			return nil
		},
	}
}
