// Package texscan extracts citation keys from LaTeX sources.
package texscan

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// citePattern matches all citation command variants: \cite{}, \citep{},
// \citet{}, \citealt{}, \citeauthor{}, \Citep{}, etc., including optional
// arguments such as \citep[e.g.][]{key}.
var citePattern = regexp.MustCompile(`\\[Cc]ite[a-zA-Z]*(?:\[[^\]]*\])*\{([^}]+)\}`)

// Result holds the keys found in one or more scanned files.
// Keys keeps first-appearance order with syntactic duplicates removed.
type Result struct {
	Keys     []string
	Warnings []string
}

// ScanText extracts citation keys from LaTeX text. The name parameter is
// used in warning messages only. A citation command may carry several
// comma-separated keys; each is reported separately.
func ScanText(name, content string) Result {
	var res Result
	seen := make(map[string]bool)

	for _, m := range citePattern.FindAllStringSubmatch(content, -1) {
		for _, key := range strings.Split(m[1], ",") {
			key = strings.TrimSpace(key)
			if key == "" {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s: empty citation key", name))
				continue
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			res.Keys = append(res.Keys, key)
		}
	}

	return res
}

// ScanFiles extracts citation keys from the given .tex files, preserving
// first-appearance order across the whole file list.
func ScanFiles(paths []string) (Result, error) {
	var res Result
	seen := make(map[string]bool)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return Result{}, fmt.Errorf("reading %s: %w", path, err)
		}

		fileRes := ScanText(path, string(data))
		res.Warnings = append(res.Warnings, fileRes.Warnings...)
		for _, key := range fileRes.Keys {
			if seen[key] {
				continue
			}
			seen[key] = true
			res.Keys = append(res.Keys, key)
		}
	}

	return res, nil
}
