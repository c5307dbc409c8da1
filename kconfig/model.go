// SPDX-License-Identifier: Apache-2.0
// Copyright 2020 syzkaller project authors. All rights reserved.
// Copyright 2022 Unikraft GmbH. All rights reserved.

// Package kconfig implements parsing of Kconfig source trees (in the
// dialect shared by the Linux kernel, U-Boot and Buildroot) and of
// the .config files they produce. It builds an in-memory model of the
// symbols, choices, menus and comments a tree declares, evaluates the
// dependency expressions attached to them, and derives each symbol's
// current value the same way the reference `conf` tool does. See:
// https://www.kernel.org/doc/html/latest/kbuild/kconfig-language.html
package kconfig

import (
	"fmt"
	"os"
	"sort"
)

// Model is the parsed, queryable result of Load/LoadData.
// It is built once and its structure never changes afterwards; only
// the user-value slots of its symbols (choice election is derived
// from those), and the derived cache, mutate. A Model is owned by a single caller; concurrent
// mutation of one instance is not supported.
type Model struct {
	Root *Menu

	symbols map[string]*Symbol
	consts  map[string]*Symbol
	order   []*Symbol // first-seen order, for AllSymbols() / config writing

	choices []*Choice

	// env is the process environment snapshotted at parse time;
	// later changes to the real environment never affect the model.
	env map[string]string

	Warnings []Warning

	epoch int
}

func newModel(env map[string]string) *Model {
	return &Model{
		symbols: make(map[string]*Symbol),
		consts:  make(map[string]*Symbol),
		env:     env,
		epoch:   1,
	}
}

// bumpEpoch invalidates every symbol's and choice's memoized value.
// Recomputation is lazy and cheap enough that a global counter
// suffices in place of fine-grained dependency tracking.
func (m *Model) bumpEpoch() {
	m.epoch++
}

func (m *Model) internSymbol(name string) *Symbol {
	if s, ok := m.symbols[name]; ok {
		return s
	}
	s := &Symbol{Name: name, owner: m}
	m.symbols[name] = s
	m.order = append(m.order, s)
	return s
}

// internConstString interns a quoted-string literal, a bare numeral,
// or one of the reserved y/m/n tokens as a constant symbol.
func (m *Model) internConstString(text string) *Symbol {
	if s, ok := m.consts[text]; ok {
		return s
	}
	s := &Symbol{Name: text, Constant: true, owner: m}
	m.consts[text] = s
	return s
}

func (m *Model) addWarning(w Warning) {
	m.Warnings = append(m.Warnings, w)
}

// Symbol looks up a declared symbol by name. It returns nil if no
// config/menuconfig block ever declared that name, even if the name
// was referenced in an expression (auto-vivified symbols with no
// declaration are intentionally excluded from this lookup so callers
// don't mistake a typo for a real option; use AllSymbols to see every
// interned name instead).
func (m *Model) Symbol(name string) *Symbol {
	s := m.symbols[name]
	if s == nil || !s.kindFixed && len(s.menus) == 0 {
		return nil
	}
	return s
}

// AllSymbols returns every interned real (non-constant) symbol,
// including ones only ever referenced from an expression, in the
// order they were first seen.
func (m *Model) AllSymbols() []*Symbol {
	out := make([]*Symbol, len(m.order))
	copy(out, m.order)
	return out
}

// Choices returns every choice block in the tree, in declaration order.
func (m *Model) Choices() []*Choice {
	out := make([]*Choice, len(m.choices))
	copy(out, m.choices)
	return out
}

// IterItems walks the item tree in pre-order (display order),
// invoking cb for every node including the root.
func (m *Model) IterItems(cb func(*Menu)) {
	if m.Root == nil {
		return
	}
	walkPreOrder(m.Root, cb)
}

// Load parses the Kconfig tree rooted at path, following every
// `source` directive transitively. extra environment entries
// override the process environment for $VAR/$(VAR) expansion and
// `option env=`.
func Load(path string, extra ...KeyValue) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Kind: IOError, Msg: fmt.Sprintf("failed to open Kconfig file %v: %v", path, err)}
	}
	return LoadData(data, path, extra...)
}

// LoadData parses data as if it were read from file.
func LoadData(data []byte, file string, extra ...KeyValue) (*Model, error) {
	env := snapshotEnv()
	for _, kv := range extra {
		env[kv.Key] = kv.Value
	}

	m := newModel(env)
	p := newParser(m, data, file)
	p.parseFile()
	if p.err != nil {
		return nil, p.err
	}

	m.Root = p.root
	finalizeTree(m.Root, nil)
	finalizeChoices(m)

	return m, nil
}

func snapshotEnv() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				env[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	return env
}

// KeyValue is a single environment override passed to Load/LoadData.
type KeyValue struct {
	Key   string
	Value string
}

// EvalExpression parses and evaluates an ad-hoc dependency expression
// against the model's current state. It shares
// the same grammar and evaluator as the Kconfig source.
func (m *Model) EvalExpression(text string) (Tristate, error) {
	p := newParser(m, []byte(text), "<expr>")
	if !p.lexer.nextLine() {
		return No, &ParseError{Kind: SyntaxError, Msg: "empty expression"}
	}
	e := p.parseExpr()
	if p.err == nil {
		p.err = p.lexer.err
	}
	if p.err != nil {
		return No, p.err
	}
	if !p.lexer.eol() {
		return No, &ParseError{Kind: SyntaxError, Msg: "trailing tokens after expression"}
	}
	return e.eval(m), nil
}

// sortedSymbolNames returns every interned symbol name in sorted
// order, for deterministic output that does not depend on map
// iteration order.
func (m *Model) sortedSymbolNames() []string {
	names := make([]string, 0, len(m.symbols))
	for n := range m.symbols {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
