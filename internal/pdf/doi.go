// Package pdf extracts DOIs from PDF files, for adding papers to the local
// library directly from a downloaded preprint or reprint.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// doiPattern matches 10.XXXX/... identifiers in free text.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// maxSearchPages bounds the scan; the DOI is almost always on page one.
const maxSearchPages = 3

// ExtractDOI returns the first DOI found in the leading pages of a PDF
// file, or "" if none is found. A missing DOI is not an error.
func ExtractDOI(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pages := maxSearchPages
	if r.NumPage() < pages {
		pages = r.NumPage()
	}

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if doi := FindDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil
}

// FindDOI returns the first plausible DOI in a block of text.
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isPlausibleDOI(match) {
			return match
		}
	}
	return ""
}

// isPlausibleDOI filters out pattern matches that cannot be real DOIs.
func isPlausibleDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	slash := strings.Index(doi, "/")
	return strings.HasPrefix(doi, "10.") && slash > 0 && slash < len(doi)-1
}
