// SPDX-License-Identifier: Apache-2.0
// Copyright 2020 syzkaller project authors. All rights reserved.
// Copyright 2022 Unikraft GmbH. All rights reserved.

package kconfig

import (
	"fmt"
	"strconv"
)

// expr is a node of a dependency expression: the AND/OR/NOT tree over
// tristate atoms and the relational operators over symbol/constant
// atoms. Every construct in the language (prompt conditions, depends
// on, select/imply conditions, default conditions, ranges) is built
// from the same grammar, so a single tree type serves them all.
type expr interface {
	// eval computes the tristate value of the expression against the
	// current state of m. Only meaningful for boolean-shaped
	// expressions (everything except a bare string/int atom used on
	// one side of a comparison).
	eval(m *Model) Tristate

	// evalString computes the string value of an atom; used by
	// comparisons and by range clauses, which work over the textual
	// representation of numeric and string symbols.
	evalString(m *Model) string

	// collectDeps adds the name of every real (non-constant) symbol
	// referenced anywhere in the expression to out.
	collectDeps(out map[string]bool)

	// String renders the expression in roughly the same shape as the
	// Kconfig source it was parsed from. Used for diagnostics only.
	String() string
}

// symExpr is an atom referring to a real or constant symbol.
type symExpr struct {
	sym *Symbol
}

func (e *symExpr) eval(m *Model) Tristate {
	return m.symbolTristate(e.sym)
}

func (e *symExpr) evalString(m *Model) string {
	return m.symbolString(e.sym)
}

func (e *symExpr) collectDeps(out map[string]bool) {
	if !e.sym.Constant {
		out[e.sym.Name] = true
	}
}

func (e *symExpr) String() string { return e.sym.Name }

type notExpr struct{ x expr }

func (e *notExpr) eval(m *Model) Tristate          { return e.x.eval(m).Not() }
func (e *notExpr) evalString(m *Model) string      { return e.x.evalString(m) }
func (e *notExpr) collectDeps(out map[string]bool) { e.x.collectDeps(out) }
func (e *notExpr) String() string                  { return "!" + e.x.String() }

type andExpr struct{ a, b expr }

func (e *andExpr) eval(m *Model) Tristate { return e.a.eval(m).And(e.b.eval(m)) }
func (e *andExpr) evalString(m *Model) string {
	return e.a.evalString(m)
}
func (e *andExpr) collectDeps(out map[string]bool) {
	e.a.collectDeps(out)
	e.b.collectDeps(out)
}
func (e *andExpr) String() string { return "(" + e.a.String() + " && " + e.b.String() + ")" }

type orExpr struct{ a, b expr }

func (e *orExpr) eval(m *Model) Tristate { return e.a.eval(m).Or(e.b.eval(m)) }
func (e *orExpr) evalString(m *Model) string {
	return e.a.evalString(m)
}
func (e *orExpr) collectDeps(out map[string]bool) {
	e.a.collectDeps(out)
	e.b.collectDeps(out)
}
func (e *orExpr) String() string { return "(" + e.a.String() + " || " + e.b.String() + ")" }

type compareOp int

const (
	cmpEq compareOp = iota
	cmpNeq
	cmpLt
	cmpLeq
	cmpGt
	cmpGeq
)

func (op compareOp) String() string {
	switch op {
	case cmpEq:
		return "="
	case cmpNeq:
		return "!="
	case cmpLt:
		return "<"
	case cmpLeq:
		return "<="
	case cmpGt:
		return ">"
	case cmpGeq:
		return ">="
	default:
		return "?"
	}
}

// compareExpr compares two atoms, numerically if both sides parse as
// integers, lexicographically otherwise.
type compareExpr struct {
	op   compareOp
	a, b expr
}

func (e *compareExpr) eval(m *Model) Tristate {
	lhs, rhs := e.a.evalString(m), e.b.evalString(m)

	var cmp int
	li, lerr := strconv.ParseInt(lhs, 0, 64)
	ri, rerr := strconv.ParseInt(rhs, 0, 64)
	if lerr == nil && rerr == nil {
		switch {
		case li < ri:
			cmp = -1
		case li > ri:
			cmp = 1
		default:
			cmp = 0
		}
	} else {
		switch {
		case lhs < rhs:
			cmp = -1
		case lhs > rhs:
			cmp = 1
		default:
			cmp = 0
		}
	}

	ok := false
	switch e.op {
	case cmpEq:
		ok = cmp == 0
	case cmpNeq:
		ok = cmp != 0
	case cmpLt:
		ok = cmp < 0
	case cmpLeq:
		ok = cmp <= 0
	case cmpGt:
		ok = cmp > 0
	case cmpGeq:
		ok = cmp >= 0
	}
	if ok {
		return Yes
	}
	return No
}

func (e *compareExpr) evalString(m *Model) string {
	if e.eval(m) == Yes {
		return "y"
	}
	return "n"
}

func (e *compareExpr) collectDeps(out map[string]bool) {
	e.a.collectDeps(out)
	e.b.collectDeps(out)
}

func (e *compareExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.a.String(), e.op, e.b.String())
}

// exprAnd ANDs two possibly-nil expressions, treating nil as the
// tautology "y". The conjunctive accumulators in the parser (depends
// on, parent_dep, if conditions) are built by repeatedly folding with
// exprAnd so that an absent condition never forces a symbol to n.
func exprAnd(a, b expr) expr {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &andExpr{a, b}
}

// exprOr ORs two possibly-nil expressions, treating nil as the
// contradiction "n". Used to accumulate rev_dep/weak_rev_dep, which
// start absent (no selectors) and grow by disjunction.
func exprOr(a, b expr) expr {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &orExpr{a, b}
}

// evalTristate evaluates a possibly-nil expression, treating nil as
// the constant Yes (used for parent_dep/prompt conditions, where
// "no condition" means "always applies").
func evalTristate(e expr, m *Model) Tristate {
	if e == nil {
		return Yes
	}
	return e.eval(m)
}

// evalOrNo evaluates a possibly-nil expression, treating nil as the
// constant No (used for rev_dep/weak_rev_dep, where "nothing selects
// this symbol" must not raise its floor).
func evalOrNo(e expr, m *Model) Tristate {
	if e == nil {
		return No
	}
	return e.eval(m)
}
