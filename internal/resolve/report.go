package resolve

// AcceptedEntry is one entry accepted into the output set.
type AcceptedEntry struct {
	Key        string `json:"key"`
	Source     Source `json:"source"`
	NaturalKey string `json:"natural_key,omitempty"`
	// Crossref is set when this record is a stub: the key of the full
	// entry it points at.
	Crossref string `json:"crossref,omitempty"`
}

// Duplicate records a key skipped because an earlier key resolved to the
// same paper.
type Duplicate struct {
	Key              string `json:"key"`
	WinnerKey        string `json:"winner_key"`
	WinnerNaturalKey string `json:"winner_natural_key,omitempty"`
}

// Failure records a key whose whole fallback chain was exhausted.
type Failure struct {
	Key      string    `json:"key"`
	Reason   Reason    `json:"reason"`
	Attempts []Attempt `json:"attempts,omitempty"`
}

// Report is the outcome of one resolution run. All sequences are ordered by
// the first appearance of the key in the input, never by completion order,
// so identical inputs and provider responses yield identical reports.
type Report struct {
	Accepted   []AcceptedEntry `json:"accepted"`
	Duplicates []Duplicate     `json:"duplicates"`
	Failed     []Failure       `json:"failed"`
	// Existing lists keys skipped because they were already present in
	// the output set before the run (full-refresh off).
	Existing []string `json:"existing,omitempty"`
}

// OK reports whether every key either resolved or was already present.
func (r *Report) OK() bool {
	return len(r.Failed) == 0
}
