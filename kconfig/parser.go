// SPDX-License-Identifier: Apache-2.0
// Copyright 2020 syzkaller project authors. All rights reserved.
// Copyright 2022 Unikraft GmbH. All rights reserved.

package kconfig

import (
	"fmt"
	"os"
	"path/filepath"
)

// parser is the recursive-descent block builder. It drives a
// lexer across one or more files (following `source`), maintaining a
// stack of open containers (mainmenu/menu/choice) and a stack of open
// `if` conditions, and emits the item tree reachable from root.
type parser struct {
	model *Model
	lexer *lexer

	includes     []*lexer
	includeFiles []string // currently-open file paths, for cycle detection

	containers []*Menu // mainmenu/menu/choice currently open
	ifConds    []expr  // active `if` conditions, innermost last

	cur *Menu // node currently receiving properties

	// help-body collection state, driven one line at a time from the
	// main parseLine loop rather than by a nested line-consuming loop,
	// so the dedented line that ends a help body is still seen by
	// parseLine as an ordinary statement instead of being skipped.
	inHelp         bool
	helpLines      []string
	helpBaseIndent int
	helpNode       *Menu

	root *Menu
	err  *ParseError
}

func newParser(m *Model, data []byte, file string) *parser {
	root := &Menu{Kind: MenuRoot, Source: file}
	l := newLexer(data, filepath.Dir(file), file, m.env)
	return &parser{
		model:        m,
		lexer:        l,
		containers:   []*Menu{root},
		includeFiles: []string{absOrSame(file)},
		root:         root,
	}
}

func absOrSame(file string) string {
	abs, err := filepath.Abs(file)
	if err != nil {
		return file
	}
	return abs
}

func (p *parser) parseFile() {
	for p.lexer.nextLine() {
		p.parseLine()
	}
	if p.inHelp {
		p.finishHelp()
	}
	p.endCurrent()
	if p.err == nil {
		p.err = p.lexer.err
	}
}

func (p *parser) parseLine() {
	if p.inHelp {
		if p.handleHelpLine() {
			return
		}
	} else if p.lexer.eol() {
		return
	}

	p.stripLineComment()
	if p.lexer.eol() {
		return
	}

	if p.tryConsumeMacroAssignment() {
		return
	}

	ident := p.lexer.Ident()
	if p.err != nil {
		return
	}
	p.parseStatement(ident)
}

// stripLineComment truncates the current logical line at the first
// unquoted '#', so trailing comments never reach the tokenizer.
func (p *parser) stripLineComment() {
	l := p.lexer
	line := l.current[l.col:]
	var quote byte
	cut := -1
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		if c == '"' || c == '\'' {
			quote = c
			continue
		}
		if c == '#' {
			cut = i
			break
		}
	}
	if cut >= 0 {
		l.current = l.current[:l.col+cut]
	}
}

// tryConsumeMacroAssignment recognizes the Kconfig macro-language
// `NAME := value` / `NAME = value` top-level assignment and feeds it
// into the same environment table consulted for $(NAME) expansion.
// This goes beyond plain $VAR/$(VAR) substitution, but real Kconfig
// trees use it, and once a name is bound it is visible to every file
// parsed afterwards.
func (p *parser) tryConsumeMacroAssignment() bool {
	l := p.lexer
	save := l.col
	if !isIdentStart(l.peek()) && !(l.peek() >= '0' && l.peek() <= '9') {
		return false
	}
	name := l.Ident()
	if l.TryConsume(":=") || l.TryConsume("=") {
		value := l.ConsumeLine()
		l.env[name] = value
		return true
	}
	l.col = save
	l.skipSpaces()
	return false
}

func (p *parser) parseStatement(cmd string) {
	switch cmd {
	case "source":
		file, ok := p.lexer.TryQuotedString()
		if !ok {
			file = p.lexer.ConsumeLine()
		}
		p.includeSource(file)

	case "mainmenu":
		p.root.Prompt = &Prompt{Text: p.lexer.QuotedString()}

	case "comment":
		p.newPending(&Menu{Kind: MenuComment, Prompt: &Prompt{Text: p.lexer.QuotedString()}, Source: p.loc()})

	case "menu":
		p.pushContainer(&Menu{Kind: MenuMenu, Prompt: &Prompt{Text: p.lexer.QuotedString()}, Source: p.loc()})

	case "if":
		p.ifConds = append(p.ifConds, p.parseExpr())

	case "choice":
		m := &Menu{Kind: MenuChoice, Source: p.loc()}
		if !p.lexer.eol() {
			_ = p.lexer.Ident() // optional choice name, not otherwise used
		}
		ch := &Choice{Menu: m, owner: p.model}
		m.Choice = ch
		p.model.choices = append(p.model.choices, ch)
		p.pushContainer(m)

	case "endmenu", "endchoice":
		p.popContainer(cmd)

	case "endif":
		if len(p.ifConds) == 0 {
			p.semanticFailf("unbalanced endif")
			return
		}
		p.ifConds = p.ifConds[:len(p.ifConds)-1]

	case "config":
		name := p.lexer.Ident()
		m := &Menu{Kind: MenuConfig, Source: p.loc()}
		sym := p.model.internSymbol(name)
		m.Symbol = sym
		p.newPending(m)
		sym.menus = append(sym.menus, m)
		p.maybeAdoptChoiceMember(sym)

	case "menuconfig":
		name := p.lexer.Ident()
		m := &Menu{Kind: MenuMenuConfig, Source: p.loc()}
		sym := p.model.internSymbol(name)
		m.Symbol = sym
		p.newPending(m)
		sym.menus = append(sym.menus, m)
		p.maybeAdoptChoiceMember(sym)

	default:
		p.parseConfigType(cmd)
	}
}

// maybeAdoptChoiceMember marks sym as belonging to the innermost open
// choice container, if any.
func (p *parser) maybeAdoptChoiceMember(sym *Symbol) {
	top := p.containers[len(p.containers)-1]
	if top.Kind != MenuChoice {
		return
	}
	ch := top.Choice
	if sym.choice != nil && sym.choice != ch {
		p.semanticFailf("symbol %q already belongs to another choice", sym.Name)
		return
	}
	sym.choice = ch
	for _, m := range ch.Members {
		if m == sym {
			return
		}
	}
	ch.Members = append(ch.Members, sym)
}

func (p *parser) parseConfigType(typ string) {
	switch typ {
	case "tristate":
		p.setKind(KindTristate)
		p.tryParsePrompt()
	case "def_tristate":
		p.setKind(KindTristate)
		p.parseDefaultValue()
	case "bool":
		p.setKind(KindBool)
		p.tryParsePrompt()
	case "def_bool":
		p.setKind(KindBool)
		p.parseDefaultValue()
	case "int":
		p.setKind(KindInt)
		p.tryParsePrompt()
	case "def_int":
		p.setKind(KindInt)
		p.parseDefaultValue()
	case "hex":
		p.setKind(KindHex)
		p.tryParsePrompt()
	case "def_hex":
		p.setKind(KindHex)
		p.parseDefaultValue()
	case "string":
		p.setKind(KindString)
		p.tryParsePrompt()
	case "def_string":
		p.setKind(KindString)
		p.parseDefaultValue()
	default:
		p.parseProperty(typ)
	}
}

func (p *parser) parseProperty(prop string) {
	switch prop {
	case "prompt":
		p.tryParsePrompt()

	case "depends":
		p.lexer.MustConsume("on")
		cond := p.parseExpr()
		if p.cur != nil {
			p.cur.dependsOn = exprAnd(p.cur.dependsOn, cond)
		}

	case "visible":
		p.lexer.MustConsume("if")
		cond := p.parseExpr()
		if p.cur != nil {
			p.cur.VisibleIf = exprAnd(p.cur.VisibleIf, cond)
		}

	case "select", "imply":
		p.parseSelectImply(prop == "imply")

	case "range":
		p.parseRange()

	case "option":
		p.parseOption()

	case "optional":
		if p.curChoice() != nil {
			p.curChoice().Optional = true
		}

	case "default":
		p.parseDefaultValue()

	case "help", "---help---":
		p.tryParseHelp()

	default:
		p.semanticFailf("unknown property %q", prop)
	}
}

func (p *parser) curSymbol() *Symbol {
	if p.cur == nil {
		return nil
	}
	return p.cur.Symbol
}

func (p *parser) curChoice() *Choice {
	if p.cur == nil {
		return nil
	}
	if p.cur.Choice != nil {
		return p.cur.Choice
	}
	return nil
}

func (p *parser) setKind(k SymbolKind) {
	if sym := p.curSymbol(); sym != nil {
		if sym.kindFixed && sym.Kind != k {
			p.semanticFailf("symbol %q redeclared with conflicting type: was %s, now %s", sym.Name, sym.Kind, k)
			return
		}
		sym.Kind = k
		sym.kindFixed = true
		return
	}
	if ch := p.curChoice(); ch != nil {
		if ch.Kind != KindUnknown && ch.Kind != k {
			p.semanticFailf("choice redeclared with conflicting type: was %s, now %s", ch.Kind, k)
			return
		}
		ch.Kind = k
		return
	}
	p.semanticFailf("type property outside of config/choice")
}

func (p *parser) tryParsePrompt() {
	str, ok := p.lexer.TryQuotedString()
	if !ok {
		return
	}
	var cond expr
	if p.lexer.TryConsume("if") {
		cond = p.parseExpr()
	}
	if p.cur != nil {
		p.cur.Prompt = &Prompt{Text: str, Cond: cond}
	}
	p.addProperty(&Property{Kind: PropPrompt, Text: str, Cond: cond, node: p.cur})
}

func (p *parser) parseDefaultValue() {
	value := p.parseExpr()
	var cond expr
	if p.lexer.TryConsume("if") {
		cond = p.parseExpr()
	}
	p.addProperty(&Property{Kind: PropDefault, Value: value, Cond: cond, node: p.cur})
}

func (p *parser) parseSelectImply(weak bool) {
	name := p.lexer.Ident()
	target := p.model.internSymbol(name)
	var cond expr
	if p.lexer.TryConsume("if") {
		cond = p.parseExpr()
	}
	kind := PropSelect
	if weak {
		kind = PropImply
	}
	p.addProperty(&Property{Kind: kind, Target: target, Cond: cond, node: p.cur})
}

func (p *parser) parseRange() {
	low := p.parseAtom()
	high := p.parseAtom()
	var cond expr
	if p.lexer.TryConsume("if") {
		cond = p.parseExpr()
	}
	p.addProperty(&Property{Kind: PropRange, RangeLow: low, RangeHigh: high, Cond: cond, node: p.cur})
}

func (p *parser) parseOption() {
	for !p.lexer.eol() {
		name := p.lexer.Ident()
		switch name {
		case "env":
			p.lexer.MustConsume("=")
			val := p.lexer.QuotedString()
			sym := p.curSymbol()
			if sym == nil {
				p.semanticFailf("option env outside of config")
				return
			}
			sym.envName = val
			p.addProperty(&Property{Kind: PropEnv, EnvName: val, node: p.cur})
			if envVal, ok := p.model.env[val]; ok {
				p.addProperty(&Property{
					Kind:  PropDefault,
					Value: &symExpr{p.model.internConstString(envVal)},
					node:  p.cur,
				})
			}

		case "defconfig_list":
			if sym := p.curSymbol(); sym != nil {
				sym.isDefconfigList = true
			}
			p.addProperty(&Property{Kind: PropOptionDefconfigList, node: p.cur})

		case "allnoconfig_y":
			if sym := p.curSymbol(); sym != nil {
				sym.isAllNoConfigY = true
			}
			p.addProperty(&Property{Kind: PropOptionAllNoConfigY, node: p.cur})

		case "modules":
			sym := p.curSymbol()
			if sym == nil || sym.Name != "MODULES" {
				p.warnf(SemanticError, "option modules is only supported on the symbol MODULES")
			} else {
				sym.isModulesSymbol = true
			}

		default:
			p.semanticFailf("unknown option %q", name)
			return
		}
	}
}

// addProperty appends prop to whichever of the current node's symbol
// or choice is active; when neither exists it raises a semantic error
// instead.
func (p *parser) addProperty(prop *Property) {
	if sym := p.curSymbol(); sym != nil {
		sym.addProperty(prop)
		return
	}
	if ch := p.curChoice(); ch != nil {
		ch.addProperty(prop)
		return
	}
	p.semanticFailf("property outside of config/choice")
}

// tryParseHelp opens a help body attached to the current node. The
// actual body lines are collected one at a time as parseLine is
// called on each subsequent line via handleHelpLine/finishHelp: the
// first non-empty line fixes the reference indentation, and the first
// line indented less than that ends the body without being consumed,
// so it is still parsed as the ordinary statement it is.
func (p *parser) tryParseHelp() {
	p.inHelp = true
	p.helpLines = nil
	p.helpBaseIndent = -1
	p.helpNode = p.cur
}

// handleHelpLine folds the lexer's current line into the open help
// body. It reports whether the line was consumed as help text (blank
// lines inside the body count as consumed); when it returns false the
// body has just been closed and the caller must still parse this same
// line as an ordinary statement.
func (p *parser) handleHelpLine() bool {
	if p.lexer.eol() {
		if len(p.helpLines) > 0 {
			p.helpLines = append(p.helpLines, "")
		}
		return true
	}
	level := p.lexer.identLevel()
	if p.helpBaseIndent == -1 {
		p.helpBaseIndent = level
	} else if level < p.helpBaseIndent {
		p.finishHelp()
		return false
	}
	p.helpLines = append(p.helpLines, p.lexer.ConsumeLine())
	return true
}

func (p *parser) finishHelp() {
	lines := p.helpLines
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if p.helpNode != nil {
		p.helpNode.Help = joinLines(lines)
	}
	p.inHelp = false
	p.helpLines = nil
	p.helpBaseIndent = -1
	p.helpNode = nil
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

func (p *parser) includeSource(file string) {
	if file == "" {
		return
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(p.lexer.baseDir, file)
	}
	abs := absOrSame(file)
	for _, f := range p.includeFiles {
		if f == abs {
			p.semanticFailf("inclusion cycle detected at %q", file)
			return
		}
	}

	data, err := os.ReadFile(file)
	if err != nil {
		if p.lexer.err == nil {
			p.lexer.err = &ParseError{
				Kind: IOError,
				File: p.lexer.file,
				Line: p.lexer.line,
				Col:  p.lexer.col,
				Msg:  err.Error(),
			}
		}
		return
	}

	p.endCurrent()

	p.includes = append(p.includes, p.lexer)
	p.includeFiles = append(p.includeFiles, abs)
	p.lexer = newLexer(data, filepath.Dir(file), file, p.model.env)

	// source can only occur as a statement, never inside an open help
	// body (every line while inHelp is folded into the body instead of
	// being dispatched as a statement), so there is no help state to
	// save across the recursive parse of the included file.
	p.parseFile()
	includeErr := p.err
	p.err = nil

	p.lexer = p.includes[len(p.includes)-1]
	p.includes = p.includes[:len(p.includes)-1]
	p.includeFiles = p.includeFiles[:len(p.includeFiles)-1]

	if includeErr != nil {
		p.err = includeErr
	}
}

// pushContainer opens a new menu/choice container: any pending node is
// attached first, then the new container becomes both `cur` (so
// depends on/prompt lines right after `menu`/`choice` attach to it)
// and the top of the container stack (so its children attach to it).
func (p *parser) pushContainer(m *Menu) {
	p.endCurrent()
	m.dependsOn = p.ambientIfCond()
	p.cur = m
	p.containers = append(p.containers, m)
}

func (p *parser) popContainer(cmd string) {
	p.endCurrent()
	if len(p.containers) < 2 {
		p.semanticFailf("unbalanced %s", cmd)
		return
	}
	top := p.containers[len(p.containers)-1]
	p.containers = p.containers[:len(p.containers)-1]
	parent := p.containers[len(p.containers)-1]
	top.Parent = parent
	parent.Children = append(parent.Children, top)
}

// newPending starts a fresh node (config/menuconfig/comment) to
// receive the properties that follow, attaching whatever was pending
// before it to the enclosing container first.
func (p *parser) newPending(m *Menu) {
	p.endCurrent()
	m.dependsOn = p.ambientIfCond()
	p.cur = m
}

// loc formats the lexer's current position for diagnostics.
func (p *parser) loc() string {
	return fmt.Sprintf("%s:%d", p.lexer.file, p.lexer.line)
}

// ambientIfCond is the AND of every `if` condition currently open,
// captured at node-creation time so `if ... endif` can be flattened
// away while still contributing to the
// node's own dependsOn accumulator.
func (p *parser) ambientIfCond() expr {
	var out expr
	for _, c := range p.ifConds {
		out = exprAnd(out, c)
	}
	return out
}

// endCurrent attaches the pending node (if any) to the container
// currently on top of the stack, unless it IS that container (the
// menu/choice/root itself).
func (p *parser) endCurrent() {
	if p.cur == nil {
		return
	}
	top := p.containers[len(p.containers)-1]
	if top != p.cur {
		p.cur.Parent = top
		top.Children = append(top.Children, p.cur)
	}
	p.cur = nil
}

func (p *parser) failf(msg string, args ...interface{}) {
	p.lexer.failf(msg, args...)
}

func (p *parser) semanticFailf(msg string, args ...interface{}) {
	if p.lexer.err == nil {
		p.lexer.err = &ParseError{
			Kind: SemanticError,
			File: p.lexer.file,
			Line: p.lexer.line,
			Col:  p.lexer.col,
			Msg:  fmt.Sprintf(msg, args...),
		}
	}
}

func (p *parser) warnf(kind ErrorKind, msg string, args ...interface{}) {
	p.model.addWarning(Warning{
		Kind: kind,
		File: p.lexer.file,
		Line: p.lexer.line,
		Msg:  fmt.Sprintf(msg, args...),
	})
}

// finalizeTree computes ParentDep for every node in the tree:
// the AND of the parent chain's dependency context with the node's
// own accumulated `depends on` clauses. A node's `visible if` is not
// part of this chain: it gates only that node's own prompt (see
// visibility in eval.go), never the values or visibility of its
// children.
func finalizeTree(m *Menu, parentChainDep expr) {
	m.ParentDep = exprAnd(parentChainDep, m.dependsOn)
	for _, c := range m.Children {
		finalizeTree(c, m.ParentDep)
	}
}

// finalizeChoices defaults an unset choice Kind to bool (the common
// case) and promotes unset member kinds to the choice's own. Members
// that declared a kind of their own keep it; it is not checked
// against the choice's kind.
func finalizeChoices(m *Model) {
	for _, ch := range m.choices {
		if ch.Kind == KindUnknown {
			ch.Kind = KindBool
		}
		for _, mem := range ch.Members {
			if !mem.kindFixed {
				mem.Kind = ch.Kind
				mem.kindFixed = true
			}
		}
	}
	finalizeRevDeps(m)
}

// finalizeRevDeps builds rev_dep/weak_rev_dep for every symbol from
// the select/imply properties recorded across the whole tree, now
// that every node's ParentDep is known.
func finalizeRevDeps(m *Model) {
	for _, sym := range m.order {
		for _, prop := range sym.properties {
			if prop.Kind != PropSelect && prop.Kind != PropImply {
				continue
			}
			term := exprAnd(&symExpr{sym}, prop.effectiveCond())
			if prop.Kind == PropSelect {
				prop.Target.revDep = exprOr(prop.Target.revDep, term)
			} else {
				prop.Target.weakRevDep = exprOr(prop.Target.weakRevDep, term)
			}
		}
	}
}
