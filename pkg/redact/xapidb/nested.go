// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package xapidb

import (
	"errors"
	"fmt"
	"strings"
)

// The VM table stores structured values as a small quoting language:
//
//	(('EFI-variables'%.'base64'))
//
// Parentheses group items, %. separates them and single quotes delimit
// strings. When a value is embedded inside another string its quotes gain
// backslashes (\' for one level, \\\' for the next). The parser below builds
// a tree that serializes back to exactly the input bytes, so only the leaf
// that is replaced ever changes.

const (
	efiVariablesKey = "EFI-variables"
	maxNestingDepth = 64
)

var (
	errStrayParen = errors.New("unbalanced closing parenthesis")
	errTooDeep    = fmt.Errorf("nesting deeper than %d levels", maxNestingDepth)
)

type tokenKind int

const (
	tokText tokenKind = iota
	tokOpen
	tokClose
	tokDelim
	tokQuote
)

type token struct {
	kind  tokenKind
	text  string
	level int // backslashes before a quote
}

func tokenize(s string) []token {
	var toks []token
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			toks = append(toks, token{kind: tokText, text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch c := s[i]; {
		case c == '(':
			flush()
			toks = append(toks, token{kind: tokOpen})
			i++
		case c == ')':
			flush()
			toks = append(toks, token{kind: tokClose})
			i++
		case c == '%' && i+1 < len(s) && s[i+1] == '.':
			flush()
			toks = append(toks, token{kind: tokDelim})
			i += 2
		case c == '\'':
			flush()
			toks = append(toks, token{kind: tokQuote})
			i++
		case c == '\\':
			j := i
			for j < len(s) && s[j] == '\\' {
				j++
			}
			if j < len(s) && s[j] == '\'' {
				flush()
				toks = append(toks, token{kind: tokQuote, level: j - i})
				i = j + 1
				continue
			}
			text.WriteString(s[i:j])
			i = j
		default:
			text.WriteByte(c)
			i++
		}
	}
	flush()
	return toks
}

type nodeKind int

const (
	nodeText nodeKind = iota
	nodeDelim
	nodeGroup
	nodeQuoted
)

// node is one element of the parsed value. Groups and quoted strings record
// whether their closing token was present so that truncated input
// serializes unchanged.
type node struct {
	kind     nodeKind
	text     string
	level    int
	closed   bool
	children []*node
}

func quote(level int) string {
	return strings.Repeat(`\`, level) + `'`
}

func (n *node) writeTo(b *strings.Builder) {
	switch n.kind {
	case nodeText:
		b.WriteString(n.text)
	case nodeDelim:
		b.WriteString("%.")
	case nodeGroup:
		b.WriteByte('(')
		writeNodes(b, n.children)
		if n.closed {
			b.WriteByte(')')
		}
	case nodeQuoted:
		b.WriteString(quote(n.level))
		writeNodes(b, n.children)
		if n.closed {
			b.WriteString(quote(n.level))
		}
	}
}

func writeNodes(b *strings.Builder, nodes []*node) {
	for _, n := range nodes {
		n.writeTo(b)
	}
}

func (n *node) content() string {
	var b strings.Builder
	writeNodes(&b, n.children)
	return b.String()
}

// parseNested builds the node tree of s. A quote closes the innermost open
// string of the same level, implicitly closing anything opened inside it;
// a quote of any other level opens a new string. Closing parentheses inside
// a string with no group open in that string are literal text.
func parseNested(s string) (*node, error) {
	root := &node{kind: nodeGroup, closed: true}
	stack := []*node{root}

	top := func() *node { return stack[len(stack)-1] }
	pop := func() {
		n := top()
		stack = stack[:len(stack)-1]
		p := top()
		p.children = append(p.children, n)
	}
	push := func(n *node) error {
		if len(stack) > maxNestingDepth {
			return errTooDeep
		}
		stack = append(stack, n)
		return nil
	}

	for _, t := range tokenize(s) {
		switch t.kind {
		case tokText:
			top().children = append(top().children, &node{kind: nodeText, text: t.text})
		case tokDelim:
			top().children = append(top().children, &node{kind: nodeDelim})
		case tokOpen:
			if err := push(&node{kind: nodeGroup}); err != nil {
				return nil, err
			}
		case tokClose:
			cur := top()
			switch {
			case cur.kind == nodeGroup && cur != root:
				cur.closed = true
				pop()
			case cur.kind == nodeQuoted:
				cur.children = append(cur.children, &node{kind: nodeText, text: ")"})
			default:
				return nil, errStrayParen
			}
		case tokQuote:
			at := -1
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].kind == nodeQuoted && stack[i].level == t.level {
					at = i
					break
				}
			}
			if at < 0 {
				if err := push(&node{kind: nodeQuoted, level: t.level}); err != nil {
					return nil, err
				}
				continue
			}
			for len(stack)-1 > at {
				pop()
			}
			top().closed = true
			pop()
		}
	}

	for len(stack) > 1 {
		pop()
	}
	return root, nil
}

// redactEFIVariables replaces the content of every string that follows an
// EFI-variables key and a delimiter at the same quoting level. It returns
// the number of values replaced.
func redactEFIVariables(n *node, marker string) int {
	count := 0
	c := n.children
	for i := range c {
		if i+2 < len(c) &&
			c[i].kind == nodeQuoted && c[i].content() == efiVariablesKey &&
			c[i+1].kind == nodeDelim &&
			c[i+2].kind == nodeQuoted && c[i+2].level == c[i].level {
			if c[i+2].content() != marker {
				c[i+2].children = []*node{{kind: nodeText, text: marker}}
			}
			count++
		}
		count += redactEFIVariables(c[i], marker)
	}
	return count
}

// RedactNested replaces the private EFI variable data inside a quoted
// value, leaving every other byte of value unchanged.
func RedactNested(value, marker string) (string, int, error) {
	root, err := parseNested(value)
	if err != nil {
		return "", 0, err
	}
	n := redactEFIVariables(root, marker)
	return root.content(), n, nil
}
