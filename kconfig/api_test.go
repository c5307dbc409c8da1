// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Unikraft GmbH. All rights reserved.

package kconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignableBoolHasNoMod(t *testing.T) {
	m := mustLoad(t, `
config A
	bool "A"
`)
	a := mustSymbol(t, m, "A")
	assert.Equal(t, []Tristate{No, Yes}, a.Assignable())
}

func TestAssignableTristateFullRange(t *testing.T) {
	m := mustLoad(t, `
config A
	tristate "A"
`)
	a := mustSymbol(t, m, "A")
	assert.Equal(t, []Tristate{No, Mod, Yes}, a.Assignable())
}

func TestAssignableFloorRaisedByReverseDependency(t *testing.T) {
	m := mustLoad(t, `
config A
	tristate "A"

config B
	bool "B"
	select A
`)
	a := mustSymbol(t, m, "A")
	b := mustSymbol(t, m, "B")
	require.True(t, b.SetValue("y"))
	assert.Equal(t, []Tristate{Yes}, a.Assignable(), "once selected to y, n and m are no longer assignable")
}

func TestAssignableOnInvisibleSymbolOnlyAllowsN(t *testing.T) {
	m := mustLoad(t, `
config GATE
	bool "Gate"
	default n

config A
	bool "A"
	depends on GATE
`)
	a := mustSymbol(t, m, "A")
	assert.Equal(t, []Tristate{No}, a.Assignable(), "an invisible symbol with no reverse dep is only assignable to n")
}

func TestAssignableReturnsNilForNonTristateKind(t *testing.T) {
	m := mustLoad(t, `
config N
	int "N"
`)
	n := mustSymbol(t, m, "N")
	assert.Nil(t, n.Assignable())
}

func TestSetValueRejectsInvisibleSymbol(t *testing.T) {
	m := mustLoad(t, `
config GATE
	bool "Gate"
	default n

config A
	bool "A"
	depends on GATE
`)
	a := mustSymbol(t, m, "A")
	assert.False(t, a.SetValue("y"), "an invisible symbol must reject direct assignment")
	assert.Equal(t, No, a.Value().Tri)
}

func TestSetValueRejectsUnparsableTristate(t *testing.T) {
	m := mustLoad(t, `
config A
	bool "A"
`)
	a := mustSymbol(t, m, "A")
	assert.False(t, a.SetValue("maybe"))
}

func TestSetValueRejectsChoiceMemberDirectAssignment(t *testing.T) {
	m := mustLoad(t, `
choice
	prompt "Pick one"

config X
	bool "X"

config Y
	bool "Y"

endchoice
`)
	x := mustSymbol(t, m, "X")
	assert.False(t, x.SetValue("y"), "choice members are assigned via Choice.SetSelection, not SetValue")
}

func TestSetValueAcceptsNonTristateStringWhenVisible(t *testing.T) {
	m := mustLoad(t, `
config S
	string "S"
	default "a"
`)
	s := mustSymbol(t, m, "S")
	assert.True(t, s.SetValue("b"))
	assert.Equal(t, "b", s.Value().Str)
}

func TestUnsetRevertsToDefault(t *testing.T) {
	m := mustLoad(t, `
config A
	bool "A"
	default y
`)
	a := mustSymbol(t, m, "A")
	require.True(t, a.SetValue("n"))
	assert.Equal(t, No, a.Value().Tri)

	a.Unset()
	uv, ok := a.UserValue()
	assert.False(t, ok)
	assert.Empty(t, uv)
	assert.Equal(t, Yes, a.Value().Tri, "unsetting reverts to the default-derived value")
}

func TestUserValueReportsRawText(t *testing.T) {
	m := mustLoad(t, `
config A
	tristate "A"
`)
	a := mustSymbol(t, m, "A")
	_, ok := a.UserValue()
	assert.False(t, ok)

	require.True(t, a.SetValue("m"))
	v, ok := a.UserValue()
	assert.True(t, ok)
	assert.Equal(t, "m", v)
}

func TestDefaultsSelectsImpliesRangesAccessors(t *testing.T) {
	m := mustLoad(t, `
config A
	bool "A"
	default y
	select B
	imply C

config B
	bool

config C
	bool

config N
	int "N"
	range 1 10
	range 1 20 if A
`)
	a := mustSymbol(t, m, "A")
	assert.Len(t, a.Defaults(), 1)
	assert.Len(t, a.Selects(), 1)
	assert.Len(t, a.Implies(), 1)

	n := mustSymbol(t, m, "N")
	assert.Len(t, n.Ranges(), 2)
}
