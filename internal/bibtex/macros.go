package bibtex

import "regexp"

// AAS journal macros (\apj, \mnras, ...) appear in ADS-exported entries and
// break builds that don't load the AAS style files. These helpers parse the
// macro definitions out of a .sty file and expand them to plain text.

// refJnlPattern matches \def\macroname{\ref@jnl{value}} definitions.
var refJnlPattern = regexp.MustCompile(`\\def\\(\w+)\{\\ref@jnl\{([^}]+)\}\}`)

// aliasPattern matches alias definitions: \def\alias{\original} or
// \let\alias\original.
var aliasPattern = regexp.MustCompile(`\\(?:def|let)\\(\w+)[{ \\]\\(\w+)[}]?`)

// ParseAASMacros extracts journal macro definitions from .sty file content.
// The result maps macro name (without backslash) to its journal string,
// e.g. {"apj": "ApJ", "mnras": "MNRAS"}. Aliases resolve to the macro they
// point at.
func ParseAASMacros(styContent string) map[string]string {
	macros := make(map[string]string)

	for _, m := range refJnlPattern.FindAllStringSubmatch(styContent, -1) {
		macros[m[1]] = m[2]
	}

	for _, m := range aliasPattern.FindAllStringSubmatch(styContent, -1) {
		alias, original := m[1], m[2]
		if _, seen := macros[alias]; !seen {
			if val, ok := macros[original]; ok {
				macros[alias] = val
			}
		}
	}

	return macros
}

// macroUsePattern builds a regexp matching \name not followed by another
// word character (so \apj does not match inside \apjl).
func macroUsePattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\\` + regexp.QuoteMeta(name) + `\b`)
}

// UsedMacros returns the subset of macros that actually occur in the text.
func UsedMacros(text string, macros map[string]string) map[string]string {
	used := make(map[string]string)
	for name, value := range macros {
		if macroUsePattern(name).MatchString(text) {
			used[name] = value
		}
	}
	return used
}

// ExpandMacros replaces every macro occurrence in a BibTeX string with its
// plain-text expansion, so {\apj} becomes {ApJ}.
func ExpandMacros(text string, macros map[string]string) string {
	for name, value := range macros {
		text = macroUsePattern(name).ReplaceAllLiteralString(text, value)
	}
	return text
}
