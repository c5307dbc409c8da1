// SPDX-License-Identifier: Apache-2.0
// Copyright 2020 syzkaller project authors. All rights reserved.
// Copyright 2022 Unikraft GmbH. All rights reserved.

package kconfig

import (
	"fmt"
	"strconv"
)

// This file is the value engine: it derives every symbol's and
// choice's current value from user assignments, defaults, reverse
// dependencies, ranges and visibility, with epoch-based memoization
// and the "in-progress = n" rule for breaking evaluation cycles.

// symbolTristate is the tristate-shaped reading of any symbol,
// constant or real, used by every expr.eval(). Non-tristate real
// symbols coerce through their string value: nonzero numerics and
// nonempty strings read as y.
func (m *Model) symbolTristate(s *Symbol) Tristate {
	if s.Constant {
		return constTristate(s.Name)
	}
	if s.Kind.tristateKind() {
		return m.computeTristate(s)
	}
	if s.Kind == KindString || s.Kind == KindInt || s.Kind == KindHex {
		return stringToTristate(m.symbolString(s))
	}
	// A symbol referenced (via depends on/select/imply/an expression)
	// but never given a config/menuconfig block of its own has no
	// value to derive and reads as n.
	return No
}

// symbolString is the string-shaped reading of any symbol. Bool and
// tristate symbols print their single-letter value, matching how the
// reference tool renders them on the right side of a comparison
// against a quoted string; unknown-kind symbols read as "".
func (m *Model) symbolString(s *Symbol) string {
	if s.Constant {
		return s.Name
	}
	if s.Kind == KindString || s.Kind == KindInt || s.Kind == KindHex {
		return m.computeString(s)
	}
	if s.Kind.tristateKind() {
		return m.symbolTristate(s).String()
	}
	// KindUnknown: no declared shape, so no string form either.
	return ""
}

func constTristate(name string) Tristate {
	switch name {
	case "y":
		return Yes
	case "m":
		return Mod
	case "n":
		return No
	default:
		return stringToTristate(name)
	}
}

func stringToTristate(str string) Tristate {
	if str == "" {
		return No
	}
	if n, err := strconv.ParseInt(str, 0, 64); err == nil {
		if n == 0 {
			return No
		}
		return Yes
	}
	return Yes
}

func (m *Model) computeTristate(s *Symbol) Tristate {
	if s.evaluating {
		// Cycle-break rule: a symbol touched while already
		// being evaluated reads as n for that recursive visit.
		m.addWarning(Warning{Kind: EvalAnomaly, Msg: fmt.Sprintf("dependency cycle reached while evaluating %s", s.Name)})
		return No
	}
	if s.cacheEpoch == m.epoch {
		return s.cacheValue
	}
	s.evaluating = true
	v := m.computeTristateUncached(s)
	s.evaluating = false
	s.cacheEpoch = m.epoch
	s.cacheValue = v
	return v
}

func (m *Model) computeTristateUncached(s *Symbol) Tristate {
	if s.choice != nil {
		return m.choiceMemberValue(s)
	}
	return m.computeOrdinaryTristate(s)
}

// computeOrdinaryTristate resolves visibility, the user/default value,
// and the reverse-dependency floors for a symbol outside of any choice
// (or, via Mod-mode choice members, for a member evaluated independently).
func (m *Model) computeOrdinaryTristate(s *Symbol) Tristate {
	v := m.visibility(s)
	r := evalOrNo(s.revDep, m)
	w := evalOrNo(s.weakRevDep, m)

	var candidate Tristate
	explicit := false
	if s.userSet && v != No {
		uv, _ := TristateFromString(s.userValue)
		candidate = uv.Clamp(v).Or(r)
		explicit = true
	} else {
		candidate = No
		for _, p := range s.properties {
			if p.Kind != PropDefault {
				continue
			}
			cond := evalTristate(p.effectiveCond(), m)
			if cond == No {
				continue
			}
			candidate = evalTristate(p.Value, m).And(cond)
			explicit = true
			break
		}
		candidate = candidate.Or(r)
	}

	// A weak reverse dependency only ever fills in for a symbol with no
	// explicit assertion of its own: an explicit user value or default
	// of n blocks the raise, matching the "imply is overridden by any
	// explicit n" rule.
	if candidate == No && w != No && !explicit {
		candidate = w
	}

	if s.Kind == KindBool {
		candidate = candidate.asBool()
	}
	return candidate
}

func (m *Model) computeString(s *Symbol) string {
	if s.evaluating {
		m.addWarning(Warning{Kind: EvalAnomaly, Msg: fmt.Sprintf("dependency cycle reached while evaluating %s", s.Name)})
		return ""
	}
	if s.cacheEpoch == m.epoch {
		return s.cacheString
	}
	s.evaluating = true
	v := m.computeStringUncached(s)
	s.evaluating = false
	s.cacheEpoch = m.epoch
	s.cacheString = v
	return v
}

func (m *Model) computeStringUncached(s *Symbol) string {
	v := m.visibility(s)

	var candidate string
	if s.userSet && v != No {
		candidate = s.userValue
	} else {
		for _, p := range s.properties {
			if p.Kind != PropDefault {
				continue
			}
			if evalTristate(p.effectiveCond(), m) == No {
				continue
			}
			candidate = p.Value.evalString(m)
			break
		}
	}

	if s.Kind.numeric() {
		candidate = m.clampRange(s, candidate)
	}
	return candidate
}

// clampRange applies the first range clause whose condition holds:
// an out-of-range or unparsable candidate clamps to lo or hi.
func (m *Model) clampRange(s *Symbol, candidate string) string {
	for _, p := range s.properties {
		if p.Kind != PropRange {
			continue
		}
		if evalTristate(p.effectiveCond(), m) == No {
			continue
		}
		loN, loErr := strconv.ParseInt(p.RangeLow.evalString(m), 0, 64)
		hiN, hiErr := strconv.ParseInt(p.RangeHigh.evalString(m), 0, 64)
		if loErr != nil || hiErr != nil {
			return candidate
		}
		n, err := strconv.ParseInt(candidate, 0, 64)
		switch {
		case err != nil || n < loN:
			return formatNumeric(s.Kind, loN)
		case n > hiN:
			return formatNumeric(s.Kind, hiN)
		default:
			return candidate
		}
	}
	if candidate == "" {
		return formatNumeric(s.Kind, 0)
	}
	return candidate
}

func formatNumeric(k SymbolKind, n int64) string {
	if k == KindHex {
		if n < 0 {
			return fmt.Sprintf("-0x%x", -n)
		}
		return fmt.Sprintf("0x%x", n)
	}
	return fmt.Sprintf("%d", n)
}

// visibility is the max tristate over every prompt's effective
// condition, cached per epoch like current_value. A `visible if` on
// the declaring node further narrows that prompt, and only that
// prompt: values and children are computed as if it were absent.
func (m *Model) visibility(s *Symbol) Tristate {
	if s.visCacheEpoch == m.epoch {
		return s.cacheVis
	}
	v := No
	for _, p := range s.properties {
		if p.Kind != PropPrompt {
			continue
		}
		v = v.Or(m.promptVisibility(p))
	}
	s.cacheVis = v
	s.visCacheEpoch = m.epoch
	return v
}

func (m *Model) choiceVisibility(ch *Choice) Tristate {
	v := No
	for _, p := range ch.properties {
		if p.Kind != PropPrompt {
			continue
		}
		v = v.Or(m.promptVisibility(p))
	}
	return v
}

func (m *Model) promptVisibility(p *Property) Tristate {
	v := evalTristate(p.effectiveCond(), m)
	if p.node != nil {
		v = v.And(evalTristate(p.node.VisibleIf, m))
	}
	return v
}

// choiceMode resolves a choice's own tristate from its members' user
// activity. Absent member activity, mode tracks the choice's own
// visibility: an invisible choice contributes nothing, a visible one
// resolves to y (its members then elect among themselves) unless some
// member was explicitly set to m, which pulls the whole group to m.
// A choice marked Optional is the exception: if it is visible but
// nothing (no explicit member, no applicable default) has actually
// picked a member, mode stays n instead of forcing an election.
func (m *Model) choiceMode(ch *Choice) Tristate {
	if ch.cacheEpoch == m.epoch {
		return ch.cacheMode
	}
	v := m.choiceVisibility(ch)
	mode := v
	anySet := false
	for _, mem := range ch.Members {
		if !mem.userSet {
			continue
		}
		anySet = true
		if t, ok := TristateFromString(mem.userValue); ok && t == Mod {
			mode = Mod
		}
	}
	if ch.Optional && !anySet && m.choiceDefaultMember(ch) == nil {
		mode = No
	}
	mode = mode.Clamp(v)
	ch.cacheMode = mode
	ch.cacheEpoch = m.epoch
	return mode
}

// choiceDefaultMember returns the member named by the first `default`
// clause whose condition holds and which is itself visible, or nil.
func (m *Model) choiceDefaultMember(ch *Choice) *Symbol {
	for _, p := range ch.properties {
		if p.Kind != PropDefault {
			continue
		}
		if evalTristate(p.effectiveCond(), m) == No {
			continue
		}
		if sym := exprSymbol(p.Value); sym != nil && m.visibility(sym) != No {
			return sym
		}
	}
	return nil
}

// choiceSelection picks the one member at y when mode is y:
// the visible member the user explicitly set to y, else the member
// named by choiceDefaultMember, else the first visible member.
func (m *Model) choiceSelection(ch *Choice) *Symbol {
	for _, mem := range ch.Members {
		if !mem.userSet {
			continue
		}
		if t, ok := TristateFromString(mem.userValue); ok && t == Yes && m.visibility(mem) != No {
			return mem
		}
	}
	if sym := m.choiceDefaultMember(ch); sym != nil {
		return sym
	}
	for _, mem := range ch.Members {
		if m.visibility(mem) != No {
			return mem
		}
	}
	return nil
}

func (m *Model) choiceMemberValue(s *Symbol) Tristate {
	ch := s.choice
	switch m.choiceMode(ch) {
	case No:
		return No
	case Yes:
		if m.choiceSelection(ch) == s {
			return Yes
		}
		return No
	default: // Mod: members resolve independently, capped at m
		return m.computeOrdinaryTristate(s).Clamp(Mod)
	}
}

// exprSymbol recovers the symbol a bare atom expression refers to,
// used to read `default SYM` lines inside a choice where the default
// names a member rather than a general boolean expression.
func exprSymbol(e expr) *Symbol {
	if se, ok := e.(*symExpr); ok && !se.sym.Constant {
		return se.sym
	}
	return nil
}
