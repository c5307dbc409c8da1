// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Unikraft GmbH. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newReplCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "repl ROOT",
		Short: "Interactively evaluate expressions against a loaded tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0], configPath)
			if err != nil {
				return err
			}

			prompt := "> "
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				prompt = ""
			}

			scanner := bufio.NewScanner(os.Stdin)
			fmt.Fprint(os.Stdout, prompt)
			for scanner.Scan() {
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					fmt.Fprint(os.Stdout, prompt)
					continue
				}
				if text == "quit" || text == "exit" {
					return nil
				}
				v, err := m.EvalExpression(text)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
				} else {
					fmt.Fprintln(os.Stdout, v)
				}
				fmt.Fprint(os.Stdout, prompt)
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "merge a .config stream on top of the tree")
	return cmd
}
