// SPDX-License-Identifier: Apache-2.0
// Copyright 2020 syzkaller project authors. All rights reserved.
// Copyright 2022 Unikraft GmbH. All rights reserved.

package kconfig

// This file is the public query/mutation surface: the only
// touchpoint a menu UI, build-system glue, or CLI driver needs
// against a loaded Model.

// Value is a symbol's current value in whichever shape its Kind
// dictates: Tri for bool/tristate/unknown, Str for string/int/hex.
type Value struct {
	Kind SymbolKind
	Tri  Tristate
	Str  string
}

// String renders the value the way it would appear on the right-hand
// side of a `CONFIG_NAME=` assignment, without quoting.
func (v Value) String() string {
	if v.Kind.tristateKind() || v.Kind == KindUnknown {
		return v.Tri.String()
	}
	return v.Str
}

// Value computes and returns the symbol's current value.
func (s *Symbol) Value() Value {
	if s.Kind.tristateKind() {
		return Value{Kind: s.Kind, Tri: s.owner.symbolTristate(s)}
	}
	return Value{Kind: s.Kind, Str: s.owner.symbolString(s)}
}

// Visibility returns the symbol's current visibility.
func (s *Symbol) Visibility() Tristate {
	return s.owner.visibility(s)
}

// Assignable returns the set of tristate values set_value would
// currently accept for a bool/tristate symbol: every value from its
// reverse-dep floor up to its visibility ceiling. Returns nil for
// non-tristate kinds.
func (s *Symbol) Assignable() []Tristate {
	if !s.Kind.tristateKind() {
		return nil
	}
	v := s.owner.visibility(s)
	r := evalOrNo(s.revDep, s.owner)

	present := map[Tristate]bool{}
	for t := r; t <= v; t++ {
		present[t] = true
	}
	if s.Kind == KindBool {
		delete(present, Mod)
	}

	var out []Tristate
	for _, t := range [...]Tristate{No, Mod, Yes} {
		if present[t] {
			out = append(out, t)
		}
	}
	return out
}

// SetValue assigns a new user value, given in the same textual shape
// as a `.config` right-hand side (`"y"`/`"m"`/`"n"` for bool/tristate,
// the bare digits for int, `0x`-prefixed digits for hex, the unquoted
// text for string). It reports whether the assignment was accepted;
// rejection is silent, matching Kconfig tradition.
func (s *Symbol) SetValue(v string) bool {
	m := s.owner
	if s.choice != nil {
		// Members elect through Choice.SetSelection; the one direct
		// assignment that stays meaningful is m within a tristate
		// choice, where members resolve independently.
		t, ok := TristateFromString(v)
		if !ok || t != Mod || s.choice.Kind != KindTristate {
			return false
		}
		s.userSet = true
		s.userValue = v
		m.bumpEpoch()
		return true
	}
	if s.Kind.tristateKind() {
		t, ok := TristateFromString(v)
		if !ok {
			return false
		}
		ok = false
		for _, a := range s.Assignable() {
			if a == t {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	} else if m.visibility(s) == No {
		return false
	}
	s.userSet = true
	s.userValue = v
	m.bumpEpoch()
	return true
}

// Unset clears a previously set user value, reverting the symbol to
// its default-derived value.
func (s *Symbol) Unset() {
	s.userSet = false
	s.userValue = ""
	s.owner.bumpEpoch()
}

// UserValue reports the raw user-set value and whether one is set.
func (s *Symbol) UserValue() (string, bool) {
	return s.userValue, s.userSet
}

func filterProperties(props []*Property, kind PropertyKind) []*Property {
	var out []*Property
	for _, p := range props {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// Defaults returns the symbol's `default` properties in declared order.
func (s *Symbol) Defaults() []*Property { return filterProperties(s.properties, PropDefault) }

// Selects returns the symbol's `select` properties in declared order.
func (s *Symbol) Selects() []*Property { return filterProperties(s.properties, PropSelect) }

// Implies returns the symbol's `imply` properties in declared order.
func (s *Symbol) Implies() []*Property { return filterProperties(s.properties, PropImply) }

// Ranges returns the symbol's `range` properties in declared order.
func (s *Symbol) Ranges() []*Property { return filterProperties(s.properties, PropRange) }

// EnvName returns the environment variable bound via `option env=`,
// "" if none.
func (s *Symbol) EnvName() string { return s.envName }

// IsAllNoConfigY reports whether the symbol carries
// `option allnoconfig_y`.
func (s *Symbol) IsAllNoConfigY() bool { return s.isAllNoConfigY }

// IsDefconfigList reports whether the symbol carries
// `option defconfig_list`.
func (s *Symbol) IsDefconfigList() bool { return s.isDefconfigList }

// IsModules reports whether the symbol is the conventional MODULES
// symbol carrying `option modules`.
func (s *Symbol) IsModules() bool { return s.isModulesSymbol }

// Mode returns the choice's own tristate.
func (c *Choice) Mode() Tristate { return c.owner.choiceMode(c) }

// Selection returns the currently elected member in mode y. In mode m
// there is no single winner and in mode n nothing is selected, so both
// return nil.
func (c *Choice) Selection() *Symbol {
	if c.owner.choiceMode(c) != Yes {
		return nil
	}
	return c.owner.choiceSelection(c)
}

// SetSelection elects sym within its choice, provided sym is actually
// a member: sym is marked user-set to y and every other member is
// marked user-set to n, so the election in choiceSelection resolves
// to sym directly. Reports whether the selection was accepted.
func (c *Choice) SetSelection(sym *Symbol) bool {
	found := false
	for _, mem := range c.Members {
		if mem == sym {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	for _, mem := range c.Members {
		mem.userSet = true
		if mem == sym {
			mem.userValue = "y"
		} else {
			mem.userValue = "n"
		}
	}
	c.owner.bumpEpoch()
	return true
}
