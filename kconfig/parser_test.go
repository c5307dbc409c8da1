// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Unikraft GmbH. All rights reserved.

package kconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigPromptAndHelp(t *testing.T) {
	m := mustLoad(t, `
config FOO
	bool "Enable foo"
	help
	  This is the help text
	  for FOO, across two lines.

config BAR
	bool "Enable bar"
`)
	foo := mustSymbol(t, m, "FOO")
	assert.Equal(t, KindBool, foo.Kind)
	assert.Equal(t, "Enable foo", foo.Prompt())
	assert.Equal(t, "This is the help text\nfor FOO, across two lines.", foo.Help())

	bar := mustSymbol(t, m, "BAR")
	assert.Equal(t, "Enable bar", bar.Prompt())
	assert.Equal(t, "", bar.Help())
}

func TestParseHelpIndentationEndsBody(t *testing.T) {
	m := mustLoad(t, `
config FOO
	bool "Foo"
	help
	  line one
	  line two

config BAR
	bool "Bar"
`)
	foo := mustSymbol(t, m, "FOO")
	assert.Equal(t, "line one\nline two", foo.Help())
	bar := mustSymbol(t, m, "BAR")
	assert.Equal(t, "Bar", bar.Prompt())
}

func TestParseMenuconfigAndMenuNesting(t *testing.T) {
	m := mustLoad(t, `
menu "Networking"

menuconfig NET
	bool "Networking support"

config NET_FOO
	bool "Foo driver"
	depends on NET

endmenu
`)
	var names []string
	m.IterItems(func(n *Menu) {
		if n.Symbol != nil {
			names = append(names, n.Name())
		}
	})
	assert.Equal(t, []string{"NET", "NET_FOO"}, names)

	net := mustSymbol(t, m, "NET")
	netFoo := mustSymbol(t, m, "NET_FOO")
	require.True(t, setValue(t, net, "n"))
	assert.Equal(t, No, netFoo.Value().Tri)
}

func TestIfEndifFlattensIntoDependsOn(t *testing.T) {
	m := mustLoad(t, `
config GATE
	bool "Gate"

if GATE
config INNER
	bool "Inner"
	default y
endif
`)
	gate := mustSymbol(t, m, "GATE")
	inner := mustSymbol(t, m, "INNER")

	require.True(t, setValue(t, gate, "n"))
	assert.Equal(t, No, inner.Value().Tri, "INNER must be invisible once GATE is n")

	require.True(t, setValue(t, gate, "y"))
	assert.Equal(t, Yes, inner.Value().Tri)
}

// visible if on an enclosing menu gates only the menu's own banner:
// the contained symbols keep their own visibility, value and
// assignability.
func TestMenuVisibleIfDoesNotGateChildren(t *testing.T) {
	m := mustLoad(t, `
config GATE
	bool "Gate"
	default n

menu "Hidden section"
	visible if GATE

config CHILD
	bool "Child"
	default y

endmenu
`)
	child := mustSymbol(t, m, "CHILD")
	assert.Equal(t, Yes, child.Visibility(), "the menu's visible if must not touch the child's prompt")
	assert.Equal(t, Yes, child.Value().Tri)
	assert.Equal(t, []Tristate{No, Yes}, child.Assignable())
	require.True(t, child.SetValue("n"))
	assert.Equal(t, No, child.Value().Tri)
}

// visible if on a config hides that symbol's own prompt while leaving
// its defaults in force.
func TestVisibleIfOnConfigGatesItsOwnPrompt(t *testing.T) {
	m := mustLoad(t, `
config GATE
	bool "Gate"
	default n

config A
	bool "A"
	visible if GATE
	default y
`)
	a := mustSymbol(t, m, "A")
	assert.Equal(t, No, a.Visibility())
	assert.Equal(t, Yes, a.Value().Tri, "defaults still apply; visible if only hides the prompt")

	gate := mustSymbol(t, m, "GATE")
	require.True(t, gate.SetValue("y"))
	assert.Equal(t, Yes, a.Visibility())
}

func TestDuplicateKindConflictIsRejected(t *testing.T) {
	_, err := LoadData([]byte(`
config FOO
	bool "Foo"

config FOO
	string "Foo again"
`), "test.kconfig")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, SemanticError, perr.Kind)
}

func TestDuplicateKindSameKindIsAccepted(t *testing.T) {
	m := mustLoad(t, `
config FOO
	bool "Foo for arch A"
	depends on ARCH_A

config ARCH_A
	bool "Arch A"

config FOO
	bool "Foo for arch B"
	depends on ARCH_B

config ARCH_B
	bool "Arch B"
`)
	foo := mustSymbol(t, m, "FOO")
	assert.Equal(t, KindBool, foo.Kind)
	assert.Len(t, foo.Properties(), 2, "one prompt property per declaration site")
}

func TestSourceInclusion(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub.kconfig")
	require.NoError(t, os.WriteFile(sub, []byte(`
config SUB
	bool "Sub option"
`), 0o644))

	root := filepath.Join(dir, "Kconfig")
	require.NoError(t, os.WriteFile(root, []byte(`
config ROOT
	bool "Root option"

source "sub.kconfig"
`), 0o644))

	m, err := Load(root)
	require.NoError(t, err)
	assert.NotNil(t, m.Symbol("ROOT"))
	assert.NotNil(t, m.Symbol("SUB"))
}

func TestSourceInclusionCycleIsRejected(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.kconfig")
	b := filepath.Join(dir, "b.kconfig")
	require.NoError(t, os.WriteFile(a, []byte(`source "b.kconfig"`), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(`source "a.kconfig"`), 0o644))

	_, err := Load(a)
	require.Error(t, err)
}

func TestEnvExpansionInPrompt(t *testing.T) {
	t.Setenv("KCONFIG_TEST_NAME", "Widget")
	m := mustLoad(t, `
config FOO
	bool "Enable $KCONFIG_TEST_NAME support"
`)
	foo := mustSymbol(t, m, "FOO")
	assert.Equal(t, "Enable Widget support", foo.Prompt())
}

func TestEnvExpansionParenForm(t *testing.T) {
	t.Setenv("KCONFIG_TEST_PATH", "/opt/widget")
	m := mustLoad(t, `
config FOO
	string "Path"
	default "$(KCONFIG_TEST_PATH)/bin"
`)
	foo := mustSymbol(t, m, "FOO")
	assert.Equal(t, "/opt/widget/bin", foo.Value().Str)
}

func TestUnsetEnvExpandsEmpty(t *testing.T) {
	m := mustLoad(t, `
config FOO
	string "Path"
	default "prefix-$(KCONFIG_TEST_DOES_NOT_EXIST)-suffix"
`)
	foo := mustSymbol(t, m, "FOO")
	assert.Equal(t, "prefix--suffix", foo.Value().Str)
}

func TestMacroAssignmentVisibleToLaterDollarParenExpansion(t *testing.T) {
	m := mustLoad(t, `
FOO_NAME := Widget
config FOO
	bool "Enable $(FOO_NAME) support"
`)
	foo := mustSymbol(t, m, "FOO")
	assert.Equal(t, "Enable Widget support", foo.Prompt())
}

func TestOptionEnvInstallsImplicitDefault(t *testing.T) {
	t.Setenv("KCONFIG_TEST_ENVSYM", "from-env")
	m := mustLoad(t, `
config FOO
	string "Foo"
	option env="KCONFIG_TEST_ENVSYM"
`)
	foo := mustSymbol(t, m, "FOO")
	assert.Equal(t, "from-env", foo.Value().Str)
}

func TestCommentAndMenuNodesAreStructural(t *testing.T) {
	m := mustLoad(t, `
menu "Section"
comment "a comment"
config FOO
	bool "Foo"
endmenu
`)
	var kinds []MenuKind
	m.IterItems(func(n *Menu) { kinds = append(kinds, n.Kind) })
	assert.Equal(t, []MenuKind{MenuRoot, MenuMenu, MenuComment, MenuConfig}, kinds)
}

// setValue is a small test helper wrapping Symbol.SetValue with a
// nil error (SetValue never returns an error, just acceptance).
func setValue(t *testing.T, s *Symbol, v string) bool {
	t.Helper()
	return s.SetValue(v)
}
