// SPDX-License-Identifier: Apache-2.0
// Copyright 2020 syzkaller project authors. All rights reserved.
// Copyright 2022 Unikraft GmbH. All rights reserved.

package kconfig

// MenuKind identifies the structural role of a Menu node.
type MenuKind int

const (
	MenuRoot MenuKind = iota
	MenuConfig
	MenuMenuConfig
	MenuMenu
	MenuChoice
	MenuComment
)

func (k MenuKind) String() string {
	switch k {
	case MenuRoot:
		return "mainmenu"
	case MenuConfig:
		return "config"
	case MenuMenuConfig:
		return "menuconfig"
	case MenuMenu:
		return "menu"
	case MenuChoice:
		return "choice"
	case MenuComment:
		return "comment"
	default:
		return "?"
	}
}

// Prompt is text plus the condition under which it is shown.
type Prompt struct {
	Text string
	Cond expr
}

// Menu is a node of the item tree: a mainmenu root, a config or
// menuconfig entry, a menu container, a choice block, or a comment.
// `if ... endif` is flattened at parse time and never produces a
// node of its own.
type Menu struct {
	Kind MenuKind

	Symbol *Symbol // non-nil for MenuConfig/MenuMenuConfig
	Choice *Choice // non-nil for MenuChoice

	Parent   *Menu
	Children []*Menu

	Prompt *Prompt
	Help   string

	// Source is "file:line" of the declaration, used for diagnostics
	// and reproduced verbatim nowhere else.
	Source string

	// VisibleIf is this node's own `visible if COND`. It gates only
	// the node's prompt: a menu's banner or a symbol's prompt hides
	// while it fails, but children and value computation are
	// unaffected.
	VisibleIf expr

	// ParentDep is the AND of every enclosing if/depends-on condition
	// and this node's own; `visible if` is not part of it. It is
	// computed once the tree is fully built (finalizeTree in
	// parser.go) and is immutable thereafter.
	ParentDep expr

	// dependsOn accumulates this node's own `depends on` clauses
	// during parsing; it is folded into ParentDep during the final
	// tree walk alongside the parent chain.
	dependsOn expr
}

// Name reports the symbol name for a config/menuconfig node, "" for
// every other kind.
func (m *Menu) Name() string {
	if m.Symbol != nil {
		return m.Symbol.Name
	}
	return ""
}

// Text returns the node's displayed prompt text (for the root, the
// mainmenu title), or "" if it has none (e.g. a config with no
// prompt).
func (m *Menu) Text() string {
	if m.Prompt == nil {
		return ""
	}
	return m.Prompt.Text
}

// walkPreOrder visits m and every descendant in display order.
func walkPreOrder(m *Menu, cb func(*Menu)) {
	cb(m)
	for _, c := range m.Children {
		walkPreOrder(c, cb)
	}
}
