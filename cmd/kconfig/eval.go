// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Unikraft GmbH. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEvalCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "eval ROOT EXPR",
		Short: "Evaluate an ad-hoc dependency expression against a loaded tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0], configPath)
			if err != nil {
				return err
			}
			v, err := m.EvalExpression(args[1])
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "merge a .config stream on top of the tree")
	return cmd
}
