// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Unikraft GmbH. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

func newWriteConfigCommand() *cobra.Command {
	var configPath, outPath string

	cmd := &cobra.Command{
		Use:   "write-config ROOT",
		Short: "Load a Kconfig tree and write its resolved .config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0], configPath)
			if err != nil {
				return err
			}
			out, closeOut, err := openOutput(outPath)
			if err != nil {
				return err
			}
			defer closeOut()
			return m.WriteConfig(out)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "merge a .config stream on top of the tree")
	cmd.Flags().StringVarP(&outPath, "output", "o", "-", "output path, - for stdout")
	return cmd
}

func newWriteAutoconfCommand() *cobra.Command {
	var configPath, outPath string

	cmd := &cobra.Command{
		Use:   "write-autoconf ROOT",
		Short: "Load a Kconfig tree and write its auto-header output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0], configPath)
			if err != nil {
				return err
			}
			out, closeOut, err := openOutput(outPath)
			if err != nil {
				return err
			}
			defer closeOut()
			return m.WriteAutoconf(out)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "merge a .config stream on top of the tree")
	cmd.Flags().StringVarP(&outPath, "output", "o", "-", "output path, - for stdout")
	return cmd
}
