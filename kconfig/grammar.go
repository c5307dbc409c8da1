// SPDX-License-Identifier: Apache-2.0
// Copyright 2020 syzkaller project authors. All rights reserved.
// Copyright 2022 Unikraft GmbH. All rights reserved.

package kconfig

// Expression grammar, precedence low to high:
//
//	expr    := or
//	or      := and ( "||" and )*
//	and     := not ( "&&" not )*
//	not     := "!" not | compare
//	compare := atom ( ("="|"!="|"<"|"<="|">"|">=") atom )?
//	atom    := "(" expr ")" | quoted-string | ident
//
// Every dependency-bearing line (prompt/depends on/visible if/select
// if/default if/range) shares this grammar.

func (p *parser) parseExpr() expr {
	return p.parseOr()
}

func (p *parser) parseOr() expr {
	left := p.parseAnd()
	for p.lexer.TryConsume("||") {
		left = &orExpr{left, p.parseAnd()}
	}
	return left
}

func (p *parser) parseAnd() expr {
	left := p.parseNot()
	for p.lexer.TryConsume("&&") {
		left = &andExpr{left, p.parseNot()}
	}
	return left
}

func (p *parser) parseNot() expr {
	if p.lexer.TryConsume("!") {
		return &notExpr{p.parseNot()}
	}
	return p.parseCompare()
}

func (p *parser) parseCompare() expr {
	left := p.parseAtom()
	op, ok := p.tryConsumeCompareOp()
	if !ok {
		return left
	}
	return &compareExpr{op: op, a: left, b: p.parseAtom()}
}

func (p *parser) tryConsumeCompareOp() (compareOp, bool) {
	switch {
	case p.lexer.TryConsume("!="):
		return cmpNeq, true
	case p.lexer.TryConsume("<="):
		return cmpLeq, true
	case p.lexer.TryConsume(">="):
		return cmpGeq, true
	case p.lexer.TryConsume("="):
		return cmpEq, true
	case p.lexer.TryConsume("<"):
		return cmpLt, true
	case p.lexer.TryConsume(">"):
		return cmpGt, true
	default:
		return 0, false
	}
}

func (p *parser) parseAtom() expr {
	if p.lexer.err != nil {
		return &symExpr{p.model.internConstString("n")}
	}
	if str, ok := p.lexer.TryQuotedString(); ok {
		return &symExpr{p.model.internConstString(str)}
	}
	if p.lexer.TryConsume("(") {
		e := p.parseExpr()
		p.lexer.MustConsume(")")
		return e
	}
	if p.lexer.eol() {
		p.failf("expected an expression")
		return &symExpr{p.model.internConstString("n")}
	}

	name := p.lexer.Ident()
	if name == "y" || name == "m" || name == "n" || isNumericLiteral(name) {
		return &symExpr{p.model.internConstString(name)}
	}
	return &symExpr{p.model.internSymbol(name)}
}

// isNumericLiteral reports whether an identifier-shaped token is
// really a bare number (decimal with an optional leading '-', or
// unsigned 0x-hex), which
// the grammar treats as a constant symbol the same way as a quoted
// string.
func isNumericLiteral(s string) bool {
	if s == "" {
		return false
	}
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		for _, c := range s[2:] {
			if !isHexDigit(byte(c)) {
				return false
			}
		}
		return true
	}
	start := 0
	if s[0] == '-' {
		start = 1
	}
	if start >= len(s) {
		return false
	}
	for _, c := range s[start:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
