// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Unikraft GmbH. All rights reserved.

package kconfig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// readerFromString is a tiny convenience wrapper so config I/O tests
// read like the .config text they assert against.
func readerFromString(t *testing.T, s string) *strings.Reader {
	t.Helper()
	return strings.NewReader(s)
}

// mustLoad parses src as a standalone Kconfig tree and fails the test
// immediately on any parse error, the way every scenario in this
// package wants to start from a known-good model.
func mustLoad(t *testing.T, src string) *Model {
	t.Helper()
	m, err := LoadData([]byte(src), "test.kconfig")
	require.NoError(t, err)
	return m
}

func mustSymbol(t *testing.T, m *Model, name string) *Symbol {
	t.Helper()
	s := m.Symbol(name)
	require.NotNilf(t, s, "symbol %s not declared", name)
	return s
}
