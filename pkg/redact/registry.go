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

package redact

import (
	"regexp"

	"github.com/xenserver/bugtool/pkg/defaults"
)

// Marker replaces every redacted value.
const Marker = defaults.RedactionMarker

// Redactor transforms captured output.
type Redactor interface {
	Redact(data []byte) []byte
}

// RedactorFunc adapts a function to the Redactor interface.
type RedactorFunc func(data []byte) []byte

// Redact calls f(data).
func (f RedactorFunc) Redact(data []byte) []byte {
	return f(data)
}

// Nop returns data unchanged.
var Nop Redactor = RedactorFunc(func(data []byte) []byte { return data })

// Rule is a single pattern based text filter. The replacement may reference
// capture groups and must never reintroduce text the pattern would change.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

const (
	assignKey   = `[A-Za-z0-9_.-]*`
	assignSep   = `"?[ \t]*[=:][ \t]*`
	assignValue = `(?:"[^"\n]*"|'[^'\n]*'|["'][^\n]*|[^\s,;&"']+)`

	flagWords = `password|passwd|secret|token|api[_-]?key|auth[_-]?key`
	flagValue = `(?:"[^"\n]*"|'[^'\n]*'|[^\s"'-]\S*)`
)

// assignmentRule redacts the value of `key = value` style assignments whose
// key contains one of words.
func assignmentRule(name, words string) Rule {
	return Rule{
		Name:        name,
		Pattern:     regexp.MustCompile(`(?i)(` + assignKey + `(?:` + words + `)` + assignKey + assignSep + `)` + assignValue),
		Replacement: "${1}" + Marker,
	}
}

// DefaultRules returns the generic secret rules in application order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "pem-private-key",
			Pattern:     regexp.MustCompile(`(?s)-----BEGIN ([A-Z0-9 ]*PRIVATE KEY)-----.*?-----END ([A-Z0-9 ]*PRIVATE KEY)-----`),
			Replacement: "-----BEGIN ${1}-----\n" + Marker + "\n-----END ${2}-----",
		},
		{
			Name:        "url-userinfo",
			Pattern:     regexp.MustCompile(`(?i)(\b[a-z][a-z0-9+.-]*://[^/\s:@]+:)[^/\s@]+@`),
			Replacement: "${1}" + Marker + "@",
		},
		assignmentRule("password-assignment", `password|passwd|pwd`),
		assignmentRule("secret-assignment", `secret|token|api[_-]?key|private[_-]?key|auth[_-]?key`),
		{
			// --password hunter2; the = form is an assignment.
			Name:        "flag-secret",
			Pattern:     regexp.MustCompile(`(?im)((?:^|[\s"'])--?[a-z0-9_-]*(?:` + flagWords + `)[a-z0-9_-]*[ \t]+)` + flagValue),
			Replacement: "${1}" + Marker,
		},
		{
			Name:        "snmp-community",
			Pattern:     regexp.MustCompile(`(?im)^([ \t]*(?:ro|rw)community6?[ \t]+)\S+`),
			Replacement: "${1}" + Marker,
		},
		{
			Name:        "snmp-com2sec",
			Pattern:     regexp.MustCompile(`(?im)^([ \t]*com2sec6?[ \t]+(?:-Cn[ \t]+\S+[ \t]+)?\S+[ \t]+\S+[ \t]+)\S+`),
			Replacement: "${1}" + Marker,
		},
	}
}

// Registry applies an ordered list of rules. Every rule is applied on each
// pass, in order.
type Registry struct {
	rules []Rule
}

// NewRegistry creates a registry from rules. With no rules the default set is used.
func NewRegistry(rules ...Rule) *Registry {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Registry{rules: rules}
}

// Rules returns a copy of the registry rules.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Redact applies every rule. Input matching no rule is returned unchanged.
func (r *Registry) Redact(data []byte) []byte {
	for _, rule := range r.rules {
		if !rule.Pattern.Match(data) {
			continue
		}
		data = rule.Pattern.ReplaceAll(data, []byte(rule.Replacement))
	}
	return data
}
