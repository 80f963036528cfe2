// Package citekey classifies raw citation keys by syntactic format.
package citekey

import (
	"fmt"
	"regexp"
)

// Format identifies the syntactic shape of a citation key.
type Format int

const (
	// FormatUnrecognized is any key that matches no known pattern.
	FormatUnrecognized Format = iota
	// FormatInspire is an INSPIRE texkey, e.g. "LIGOScientific:2016aoc".
	FormatInspire
	// FormatAdsBibcode is a NASA ADS bibcode, e.g. "2016PhRvL.116f1102A".
	FormatAdsBibcode
	// FormatArxivNew is a new-style arXiv ID, e.g. "2508.18080".
	FormatArxivNew
	// FormatArxivOld is an old-style arXiv ID, e.g. "hep-ph/9905318".
	FormatArxivOld
)

// String returns the format name used in CLI flags and JSON output.
func (f Format) String() string {
	switch f {
	case FormatInspire:
		return "inspire"
	case FormatAdsBibcode:
		return "ads"
	case FormatArxivNew:
		return "arxiv-new"
	case FormatArxivOld:
		return "arxiv-old"
	default:
		return "unrecognized"
	}
}

// IsArxiv returns true for either arXiv ID style.
func (f Format) IsArxiv() bool {
	return f == FormatArxivNew || f == FormatArxivOld
}

// ParseFormat parses a format name as used by the --key-type flag.
// Only enforceable formats (inspire, ads) are accepted.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "inspire":
		return FormatInspire, nil
	case "ads":
		return FormatAdsBibcode, nil
	default:
		return FormatUnrecognized, fmt.Errorf("unknown key type %q (valid: inspire, ads)", s)
	}
}

// Key is a raw citation key with its classified format.
// Keys are classified once and never mutated.
type Key struct {
	Raw    string `json:"key"`
	Format Format `json:"-"`
}

// New classifies raw and returns the resulting Key.
func New(raw string) Key {
	return Key{Raw: raw, Format: Classify(raw)}
}

var (
	// Old-style arXiv: archive (optionally with subject class) slash 7 digits,
	// e.g. hep-ph/9905318, astro-ph.CO/0001234.
	arxivOldPattern = regexp.MustCompile(`^[a-z][a-z-]*(\.[A-Za-z-]+)?/\d{7}$`)

	// New-style arXiv: YYMM.NNNNN (4 or 5 trailing digits).
	arxivNewPattern = regexp.MustCompile(`^\d{4}\.\d{4,5}$`)

	// ADS bibcode: 4-digit year, journal abbreviation, volume/page section,
	// author initial. Nominally 19 characters fixed width.
	adsBibcodePattern = regexp.MustCompile(`^\d{4}[A-Za-z&.]+\..*[A-Z]$`)

	// INSPIRE texkey: Author:YYYYxxx with a 2-3 letter lowercase suffix.
	inspirePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]+:\d{4}[a-z]{2,3}$`)
)

// minBibcodeLen guards against short strings that happen to match the
// bibcode shape. Real bibcodes are 19 characters.
const minBibcodeLen = 15

// Classify maps a raw key string to its Format. It is total: every input,
// including the empty string, yields exactly one format. Checks are purely
// syntactic and applied in precedence order; the first match wins.
func Classify(raw string) Format {
	switch {
	case arxivOldPattern.MatchString(raw):
		return FormatArxivOld
	case arxivNewPattern.MatchString(raw):
		return FormatArxivNew
	case adsBibcodePattern.MatchString(raw) && len(raw) >= minBibcodeLen:
		return FormatAdsBibcode
	case inspirePattern.MatchString(raw):
		return FormatInspire
	default:
		return FormatUnrecognized
	}
}
