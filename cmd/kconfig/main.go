// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Unikraft GmbH. All rights reserved.

// Command kconfig is a thin driver over the kconfig engine: it loads
// a Kconfig tree, optionally merges a .config stream on top of it,
// and writes out .config or auto-header text. It is not part of the
// core engine (the core never imports this package); it exists so
// the engine's query/mutation surface has at least one real caller
// besides tests.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"kconfig.sh/log"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var verbose bool
	var logLevel string
	var logType string

	cmd := &cobra.Command{
		Use:           "kconfig",
		Short:         "Inspect and manipulate Kconfig trees and .config files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if lvl, ok := log.Levels()[strings.ToLower(logLevel)]; ok {
				log.L.SetLevel(lvl)
			}
			if verbose {
				log.L.SetLevel(logrus.DebugLevel)
			}
			switch log.LoggerTypeFromString(logType) {
			case log.JSON:
				log.L.SetFormatter(&logrus.JSONFormatter{})
			case log.QUIET:
				log.L.SetOutput(io.Discard)
			default:
				log.L.SetFormatter(&log.TextFormatter{
					FullTimestamp: log.LoggerTypeFromString(logType) == log.FANCY,
				})
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "panic, fatal, error, warning, info, debug or trace")
	cmd.PersistentFlags().StringVar(&logType, "log-type", "basic", "quiet, basic, fancy or json")

	cmd.AddCommand(
		newLoadCommand(),
		newWriteConfigCommand(),
		newWriteAutoconfCommand(),
		newEvalCommand(),
		newDiffCommand(),
		newReplCommand(),
	)
	return cmd
}
