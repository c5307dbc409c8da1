// SPDX-License-Identifier: Apache-2.0
// Copyright 2020 syzkaller project authors. All rights reserved.
// Copyright 2022 Unikraft GmbH. All rights reserved.

package kconfig

// SymbolKind is the declared type of a symbol or choice.
type SymbolKind int

const (
	KindUnknown SymbolKind = iota
	KindBool
	KindTristate
	KindString
	KindInt
	KindHex
)

func (k SymbolKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindTristate:
		return "tristate"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindHex:
		return "hex"
	default:
		return "unknown"
	}
}

// numeric reports whether k is one of the types whose current value is
// a parsed number constrained by range clauses.
func (k SymbolKind) numeric() bool {
	return k == KindInt || k == KindHex
}

// tristateKind reports whether k carries a Tristate value rather than
// a string.
func (k SymbolKind) tristateKind() bool {
	return k == KindBool || k == KindTristate
}

// PropertyKind distinguishes the kinds of property line a symbol,
// menu, choice, or comment can carry.
type PropertyKind int

const (
	PropPrompt PropertyKind = iota
	PropDefault
	PropSelect
	PropImply
	PropRange
	PropEnv
	PropOptionModules
	PropOptionAllNoConfigY
	PropOptionDefconfigList
)

// Property is one property line attached to a symbol, menu, choice or
// comment, in the order it was declared. Properties are never shared
// between nodes: a symbol declared across several `config FOO` blocks
// (common for architecture-specific overrides) simply accumulates one
// Property per line, each carrying its own declaring node so its
// effective condition includes that node's parent_dep.
type Property struct {
	Kind PropertyKind

	Text string // prompt wording, for PropPrompt

	Value expr // default/def_bool/def_tristate/... value expression
	Cond  expr // trailing "if COND", nil if absent

	Target *Symbol // select/imply target

	RangeLow, RangeHigh expr // PropRange endpoints

	EnvName string // PropEnv: shell variable name

	node *Menu // node.ParentDep is ANDed into Cond for effective condition
}

// effectiveCond returns property_cond AND node_parent_dep: a property
// only applies when both its own "if COND" and its declaring node's
// full enclosing-dependency chain hold.
func (p *Property) effectiveCond() expr {
	var dep expr
	if p.node != nil {
		dep = p.node.ParentDep
	}
	return exprAnd(p.Cond, dep)
}

// Symbol is a named configuration option.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Constant bool // quoted-string literal or the reserved y/m/n

	owner *Model

	properties []*Property
	revDep     expr // OR-accumulator of every `select` targeting this symbol
	weakRevDep expr // OR-accumulator of every `imply` targeting this symbol

	choice *Choice // non-nil if this symbol is a choice member

	envName         string // set by `option env="NAME"`
	isAllNoConfigY  bool
	isDefconfigList bool
	isModulesSymbol bool

	userSet   bool
	userValue string // raw textual user value; for bool/tristate this is "n"/"m"/"y"

	kindFixed bool // true once Kind has been set by a real declaration

	// menus is every menu node that declares this symbol (config or
	// menuconfig blocks); display order uses menus[0].
	menus []*Menu

	// cache
	cacheEpoch    int
	cacheValue    Tristate
	cacheString   string
	cacheVis      Tristate
	visCacheEpoch int
	evaluating    bool
}

// Properties returns every property attached to the symbol, in
// declaration order.
func (s *Symbol) Properties() []*Property { return s.properties }

// Prompt returns the text of the first declared prompt, whether or
// not its condition currently holds, or "" if the symbol has no
// prompt at all. Used by callers
// that only want a single display string; Properties() exposes the
// full list for callers that need every prompt site.
func (s *Symbol) Prompt() string {
	for _, p := range s.properties {
		if p.Kind == PropPrompt {
			return p.Text
		}
	}
	return ""
}

// Help concatenates every help body attached to the symbol's
// declaration sites, in declaration order.
func (s *Symbol) Help() string {
	out := ""
	for _, m := range s.menus {
		if m.Help != "" {
			if out != "" {
				out += "\n"
			}
			out += m.Help
		}
	}
	return out
}

// Menu returns the primary menu node for this symbol (the first
// config/menuconfig block that declared it), or nil for constants.
func (s *Symbol) Menu() *Menu {
	if len(s.menus) == 0 {
		return nil
	}
	return s.menus[0]
}

// Choice returns the choice this symbol belongs to, or nil.
func (s *Symbol) Choice() *Choice { return s.choice }

func (s *Symbol) addProperty(p *Property) {
	s.properties = append(s.properties, p)
}

// Choice is a group of mutually-exclusive (mode y) or independently
// tristate (mode m) member symbols.
type Choice struct {
	Kind SymbolKind // KindBool or KindTristate

	Menu  *Menu
	owner *Model

	Members []*Symbol

	// Optional allows the choice to resolve to n (no member selected)
	// even when Kind is KindBool; set by an `optional` property line.
	Optional bool

	properties []*Property // prompt + default entries

	cacheEpoch int
	cacheMode  Tristate
}

func (c *Choice) addProperty(p *Property) { c.properties = append(c.properties, p) }

// Prompt returns the choice's own display text, if any.
func (c *Choice) Prompt() string {
	for _, p := range c.properties {
		if p.Kind == PropPrompt {
			return p.Text
		}
	}
	return ""
}
