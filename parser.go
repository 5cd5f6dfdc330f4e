// parser.go: Token scanning and argument matching for Talaria
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package talaria

import (
	"strings"
)

// helpKey is the synthetic lookup entry produced for an empty token list
// when auto-help is enabled. It matches a declared argument named "help" (or
// aliased to it) exactly like a real token would.
const helpKey = "help"

// Parse scans raw tokens and populates matching argument records in place,
// returning the same (mutated) sequence.
//
// A token is a flag token when it is non-empty and starts with a configured
// prefix character. The key is the token with leading prefix characters and
// spaces stripped. A flag token binds at most the single following token as
// its value, and only when that token is non-empty and not itself
// flag-prefixed; the lookahead never extends further. Tokens that look like
// values but follow no flag are ignored. Duplicate keys overwrite silently.
//
// Each declared argument is then matched against the scanned pairs by full
// name, by the first rune of its name, and by its explicit alias. All three
// are checked in that order and a later match overwrites an earlier one. A
// match assigns the scanned value through SetValue and marks the argument as
// existing regardless of value emptiness.
//
// Parse never fails; malformed tokens degrade to no-ops.
func (r *Registry) Parse(tokens []string) []*Argument {
	pairs := r.scanTokens(tokens)

	matched := 0
	for _, a := range r.args {
		value, ok := lookupPair(pairs, a)
		if !ok {
			continue
		}
		a.SetValue(value)
		a.markExists()
		matched++
	}

	if r.auditLogger != nil {
		r.auditLogger.LogParse(len(tokens), matched)
	}
	return r.args
}

// scanTokens performs the left-to-right flag scan with one-token lookahead,
// producing the intermediate key→value mapping.
func (r *Registry) scanTokens(tokens []string) map[string]string {
	pairs := make(map[string]string)

	if len(tokens) == 0 {
		if !r.config.DisableAutoHelp {
			pairs[helpKey] = ""
		}
		return pairs
	}

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if !r.isFlagToken(token) {
			continue
		}

		key := r.deriveKey(token)
		value := ""
		if i+1 < len(tokens) && tokens[i+1] != "" && !r.isFlagToken(tokens[i+1]) {
			value = tokens[i+1]
			i++
		}
		pairs[key] = value
	}
	return pairs
}

// isFlagToken reports whether token is non-empty and starts with a prefix
// character.
func (r *Registry) isFlagToken(token string) bool {
	for _, first := range token {
		return r.config.isPrefixChar(first)
	}
	return false
}

// deriveKey strips leading prefix characters and surrounding spaces from the
// token to produce the lookup key. A token that is nothing but prefix
// characters yields an empty key, which matches no real argument.
func (r *Registry) deriveKey(token string) string {
	key := strings.TrimLeftFunc(token, r.config.isPrefixChar)
	return strings.TrimSpace(key)
}

// lookupPair resolves an argument against the scanned pairs. Name, implicit
// first-rune alias, and explicit alias are all consulted; the last one found
// wins since later checks overwrite earlier results.
func lookupPair(pairs map[string]string, a *Argument) (string, bool) {
	value, found := "", false

	if v, ok := pairs[a.name]; ok {
		value, found = v, true
	}
	if short := a.implicitAlias(); short != "" {
		if v, ok := pairs[short]; ok {
			value, found = v, true
		}
	}
	if a.alias != "" {
		if v, ok := pairs[a.alias]; ok {
			value, found = v, true
		}
	}
	return value, found
}
