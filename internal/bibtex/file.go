package bibtex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one BibTeX entry: its citation key and full text.
type Entry struct {
	Key  string
	Text string
}

// ParseEntries splits .bib file content into entries. An entry starts at a
// line whose first non-space character is '@' and runs to the next such line.
// Text outside any entry (comments, stray blank lines) is dropped. Entries
// whose key cannot be parsed are dropped as well.
func ParseEntries(content string) []Entry {
	var entries []Entry
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		text := strings.TrimRight(strings.Join(current, "\n"), "\n") + "\n"
		if key := ExtractKey(text); key != "" {
			entries = append(entries, Entry{Key: key, Text: text})
		}
		current = nil
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "@") {
			flush()
			current = []string{line}
			continue
		}
		if current != nil {
			current = append(current, line)
		}
	}
	flush()

	return entries
}

// ReadFile reads all entries from a .bib file. A missing file is not an
// error: it yields an empty entry list.
func ReadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading bib file: %w", err)
	}
	return ParseEntries(string(data)), nil
}

// WriteFile writes entries to a .bib file atomically: the content is written
// to a temp file in the same directory and renamed into place, so a crash
// mid-write never leaves a truncated bibliography.
func WriteFile(path string, entries []Entry) error {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.TrimRight(e.Text, "\n"))
		b.WriteString("\n")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".texbib-*.bib")
	if err != nil {
		return fmt.Errorf("creating temp bib file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing bib file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing bib file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing bib file: %w", err)
	}
	return nil
}
