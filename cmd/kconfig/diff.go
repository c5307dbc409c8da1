// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Unikraft GmbH. All rights reserved.

package main

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"kconfig.sh/kconfig"
)

func newDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff ROOT CONFIG_A CONFIG_B",
		Short: "Show which resolved symbol values differ between two .config files over the same tree",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadModel(args[0], args[1])
			if err != nil {
				return err
			}
			b, err := loadModel(args[0], args[2])
			if err != nil {
				return err
			}

			diff := cmp.Diff(snapshotValues(a), snapshotValues(b))
			if diff == "" {
				fmt.Println("no differences")
				return nil
			}
			fmt.Print(diff)
			return nil
		},
	}
	return cmd
}

func snapshotValues(m *kconfig.Model) map[string]string {
	out := make(map[string]string)
	for _, s := range m.AllSymbols() {
		if s.Kind == kconfig.KindUnknown {
			continue
		}
		out[s.Name] = s.Value().String()
	}
	return out
}
