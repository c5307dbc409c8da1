// SPDX-License-Identifier: Apache-2.0
// Copyright 2020 syzkaller project authors. All rights reserved.
// Copyright 2022 Unikraft GmbH. All rights reserved.

package kconfig

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const configPrefix = "CONFIG_"

var (
	reConfigSet   = regexp.MustCompile(`^` + configPrefix + `([A-Za-z0-9_]+)=(.*)$`)
	reConfigUnset = regexp.MustCompile(`^# ` + configPrefix + `([A-Za-z0-9_]+) is not set\s*$`)
)

// LoadConfig reads a `.config`-formatted stream into the model's user
// values. Each `CONFIG_NAME=value` line sets NAME's user value to the
// value text, dequoted if it is a quoted string; for a bool/tristate
// symbol a value other than y/m/n is dropped with a warning, while
// int/hex values are stored as written. Each `# CONFIG_NAME is not
// set` line sets a bool/tristate symbol to n and is ignored for other
// kinds. Unknown names are recorded as warnings but never abort the
// load. If replace
// is true, every existing user value is cleared first so the result
// reflects only the stream just read; otherwise the stream merges
// onto whatever user values are already set.
func (m *Model) LoadConfig(r io.Reader, replace bool) error {
	if replace {
		for _, s := range m.order {
			s.userSet = false
			s.userValue = ""
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r\n")
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || (strings.HasPrefix(trimmed, "#") && !reConfigUnset.MatchString(trimmed)) {
			continue
		}
		m.applyConfigLine(trimmed, line)
	}
	if err := scanner.Err(); err != nil {
		return &ParseError{Kind: IOError, Msg: fmt.Sprintf("reading config stream: %v", err)}
	}

	m.bumpEpoch()
	return nil
}

func (m *Model) applyConfigLine(text string, line int) {
	if match := reConfigUnset.FindStringSubmatch(text); match != nil {
		s := m.lookupConfigSymbol(match[1], line)
		// The "is not set" form only ever names a bool/tristate symbol;
		// for every other kind the line is ignored, matching the
		// reference tool.
		if s != nil && s.Kind.tristateKind() {
			s.userSet = true
			s.userValue = "n"
		}
		return
	}
	if match := reConfigSet.FindStringSubmatch(text); match != nil {
		value, ok := unquoteConfigValue(match[2])
		if !ok {
			m.addWarning(Warning{Kind: ValueWarning, Line: line, Msg: fmt.Sprintf("malformed value for %s%s, ignored", configPrefix, match[1])})
			return
		}
		m.setUserValue(match[1], value, line)
		return
	}
	m.addWarning(Warning{Kind: ValueWarning, Line: line, Msg: fmt.Sprintf("unrecognized config line: %q", text)})
}

func (m *Model) setUserValue(name, value string, line int) {
	s := m.lookupConfigSymbol(name, line)
	if s == nil {
		return
	}
	if s.Kind.tristateKind() {
		if _, ok := TristateFromString(value); !ok {
			m.addWarning(Warning{Kind: ValueWarning, Line: line, Msg: fmt.Sprintf("malformed value %q for %s%s, ignored", value, configPrefix, name)})
			return
		}
	}
	s.userSet = true
	s.userValue = value
}

func (m *Model) lookupConfigSymbol(name string, line int) *Symbol {
	s := m.symbols[name]
	if s == nil || !s.kindFixed {
		m.addWarning(Warning{Kind: ValueWarning, Line: line, Msg: fmt.Sprintf("unknown config option %s%s", configPrefix, name)})
		return nil
	}
	return s
}

// unquoteConfigValue dequotes a string-kind value and passes
// everything else through unchanged.
func unquoteConfigValue(raw string) (string, bool) {
	if len(raw) < 2 || raw[0] != '"' {
		return raw, true
	}
	if raw[len(raw)-1] != '"' {
		return "", false
	}
	var out strings.Builder
	body := raw[1 : len(raw)-1]
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) && (body[i+1] == '"' || body[i+1] == '\\') {
			i++
			out.WriteByte(body[i])
			continue
		}
		out.WriteByte(c)
	}
	return out.String(), true
}

func quoteConfigValue(s string) string {
	var out strings.Builder
	out.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			out.WriteByte('\\')
		}
		out.WriteByte(c)
	}
	out.WriteByte('"')
	return out.String()
}

// WriteConfig writes the model's current values as a `.config` stream,
// traversing the item tree in display order so the result is
// reproducible and matches the reference tool's line ordering. A
// symbol is emitted only if it is user-meaningful (has a prompt or a
// default somewhere in the tree); a bool/tristate symbol at n emits
// the "is not set" form, as does an int/hex symbol with an empty
// value, and a string symbol is always written as a quoted value.
func (m *Model) WriteConfig(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var walkErr error
	var lastWasBanner bool

	emit := func(line string) {
		if walkErr != nil {
			return
		}
		if _, err := bw.WriteString(line); err != nil {
			walkErr = err
		}
	}

	m.IterItems(func(node *Menu) {
		if walkErr != nil {
			return
		}
		// A node inside a suppressed branch (its full enclosing
		// dependency chain evaluates to n) contributes nothing, the
		// same way the reference tool drops the whole subtree.
		if evalTristate(node.ParentDep, m) == No {
			return
		}
		switch node.Kind {
		case MenuMenu:
			if node.Text() == "" || evalTristate(node.VisibleIf, m) == No {
				return
			}
			if !lastWasBanner {
				emit("\n")
			}
			emit(fmt.Sprintf("#\n# %s\n#\n", node.Text()))
			lastWasBanner = true
			return
		case MenuComment:
			if node.Text() == "" {
				return
			}
			emit(fmt.Sprintf("# %s\n", node.Text()))
			lastWasBanner = false
			return
		}
		sym := node.Symbol
		if sym == nil || sym.Menu() != node {
			return
		}
		if !symbolIsConfigWritable(sym) {
			return
		}
		emit(configLineFor(sym))
		lastWasBanner = false
	})

	if walkErr != nil {
		return &ParseError{Kind: IOError, Msg: walkErr.Error()}
	}
	return bw.Flush()
}

// symbolIsConfigWritable reports whether sym ever carries a prompt or
// a default anywhere in the tree, the usual "user-meaningful" test.
func symbolIsConfigWritable(sym *Symbol) bool {
	for _, p := range sym.properties {
		if p.Kind == PropPrompt || p.Kind == PropDefault {
			return true
		}
	}
	return false
}

func configLineFor(sym *Symbol) string {
	val := sym.Value()
	if sym.Kind.tristateKind() {
		if val.Tri == No {
			return fmt.Sprintf("# %s%s is not set\n", configPrefix, sym.Name)
		}
		return fmt.Sprintf("%s%s=%s\n", configPrefix, sym.Name, val.Tri)
	}
	switch sym.Kind {
	case KindString:
		return fmt.Sprintf("%s%s=%s\n", configPrefix, sym.Name, quoteConfigValue(val.Str))
	default: // int, hex, unknown
		if val.Str == "" {
			return fmt.Sprintf("# %s%s is not set\n", configPrefix, sym.Name)
		}
		return fmt.Sprintf("%s%s=%s\n", configPrefix, sym.Name, val.Str)
	}
}

// WriteAutoconf writes the C-preprocessor auto-header form:
// `#define CONFIG_NAME 1` for y, `#define CONFIG_NAME_MODULE 1` for
// m, a quoted/bare literal for string/numeric kinds, nothing for n.
func (m *Model) WriteAutoconf(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, sym := range m.order {
		if !symbolIsConfigWritable(sym) {
			continue
		}
		val := sym.Value()
		var line string
		switch {
		case sym.Kind.tristateKind():
			switch val.Tri {
			case Yes:
				line = fmt.Sprintf("#define %s%s 1\n", configPrefix, sym.Name)
			case Mod:
				line = fmt.Sprintf("#define %s%s_MODULE 1\n", configPrefix, sym.Name)
			default:
				continue
			}
		case sym.Kind == KindString:
			line = fmt.Sprintf("#define %s%s %s\n", configPrefix, sym.Name, quoteConfigValue(val.Str))
		case sym.Kind.numeric():
			if val.Str == "" {
				continue
			}
			line = fmt.Sprintf("#define %s%s %s\n", configPrefix, sym.Name, val.Str)
		default:
			continue
		}
		if _, err := bw.WriteString(line); err != nil {
			return &ParseError{Kind: IOError, Msg: err.Error()}
		}
	}
	return bw.Flush()
}
