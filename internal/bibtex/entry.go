// Package bibtex provides transforms over BibTeX entry text: key extraction
// and rewriting, field extraction, author truncation, crossref stubs, and
// AAS journal macro expansion.
package bibtex

import (
	"fmt"
	"regexp"
	"strings"
)

// entryKeyPattern matches the entry head: @type{key,
var entryKeyPattern = regexp.MustCompile(`@(\w+)\s*\{\s*([^,\s]+)\s*,`)

// ExtractKey returns the citation key of a BibTeX entry, or "" if the
// entry head cannot be found.
func ExtractKey(entry string) string {
	m := entryKeyPattern.FindStringSubmatch(entry)
	if m == nil {
		return ""
	}
	return m[2]
}

// ReplaceKey rewrites the citation key of a BibTeX entry. Only the first
// entry head is touched; the rest of the text is preserved verbatim.
func ReplaceKey(entry, newKey string) string {
	loc := entryKeyPattern.FindStringSubmatchIndex(entry)
	if loc == nil {
		return entry
	}
	// Rebuild as @type{newKey, keeping everything after the original comma.
	entryType := entry[loc[2]:loc[3]]
	return entry[:loc[0]] + "@" + entryType + "{" + newKey + "," + entry[loc[1]:]
}

// ExtractFields returns the values of the named fields from a BibTeX entry.
// Both double-quoted and brace-delimited values are handled. Fields not
// present are absent from the result.
func ExtractFields(entry string, fields ...string) map[string]string {
	result := make(map[string]string)
	for _, field := range fields {
		pattern := regexp.MustCompile(`(?mi)^\s*` + regexp.QuoteMeta(field) + `\s*=\s*(?:"([^"]+)"|\{([^}]+)\})`)
		m := pattern.FindStringSubmatch(entry)
		if m == nil {
			continue
		}
		val := m[1]
		if val == "" {
			val = m[2]
		}
		result[field] = strings.TrimSpace(val)
	}
	return result
}

// authorFieldPattern matches the (possibly multiline) author field.
var authorFieldPattern = regexp.MustCompile(`(?is)(\s*author\s*=\s*\{)(.+?)(\},?\s*\n)`)

// andSeparator splits a BibTeX author list on the standard " and " separator.
var andSeparator = regexp.MustCompile(`\s+and\s+`)

// TruncateAuthors limits the author list of an entry to max names, replacing
// the tail with "others". A max of zero or below disables truncation.
func TruncateAuthors(entry string, max int) string {
	if max <= 0 {
		return entry
	}

	loc := authorFieldPattern.FindStringSubmatchIndex(entry)
	if loc == nil {
		return entry
	}

	prefix := entry[loc[2]:loc[3]]
	authorList := entry[loc[4]:loc[5]]
	suffix := entry[loc[6]:loc[7]]

	authors := andSeparator.Split(authorList, -1)
	for i := range authors {
		authors[i] = strings.TrimSpace(authors[i])
	}
	if len(authors) <= max {
		return entry
	}

	truncated := append(authors[:max:max], "others")
	return entry[:loc[0]] + prefix + strings.Join(truncated, " and ") + suffix + entry[loc[1]:]
}

// CrossrefStub builds a minimal @misc entry under stubKey that cross-references
// the full entry stored under targetKey. Used so an arXiv-ID citation key
// still resolves to the paper's natural-keyed entry.
func CrossrefStub(stubKey, targetKey string) string {
	return fmt.Sprintf("@misc{%s,\n  crossref = {%s}\n}", stubKey, targetKey)
}

// NormalizeDOI normalizes a DOI for comparison: URL and scheme prefixes are
// stripped and the result lowercased.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}
