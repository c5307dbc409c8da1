// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Unikraft GmbH. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoadCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "load ROOT",
		Short: "Parse a Kconfig tree and report its symbol and choice counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0], configPath)
			if err != nil {
				return err
			}
			fmt.Printf("%d symbols, %d choices, %d warnings\n",
				len(m.AllSymbols()), len(m.Choices()), len(m.Warnings))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "merge a .config stream on top of the tree")
	return cmd
}
