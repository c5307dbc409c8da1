// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Unikraft GmbH. All rights reserved.

package main

import (
	"fmt"
	"os"

	"kconfig.sh/kconfig"
)

// loadModel parses the Kconfig tree rooted at root and, if configPath
// is non-empty, merges that .config stream on top (replace=false, so
// a tree's own defaults still apply to anything the stream omits).
func loadModel(root, configPath string) (*kconfig.Model, error) {
	m, err := kconfig.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", root, err)
	}

	if configPath != "" {
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", configPath, err)
		}
		defer f.Close()

		if err := m.LoadConfig(f, false); err != nil {
			return nil, fmt.Errorf("loading %s: %w", configPath, err)
		}
	}

	for _, w := range m.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	return m, nil
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
