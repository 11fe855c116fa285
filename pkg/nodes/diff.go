package nodes

import "sort"

// Status classifies the outcome of comparing a declared node record
// against the store.
type Status string

// Diff statuses.
const (
	// StatusMatch means every declared field matched the stored record.
	StatusMatch Status = "match"

	// StatusMismatch means at least one declared field differed.
	StatusMismatch Status = "mismatch"

	// StatusMissing means the store holds no record for the hostname.
	StatusMissing Status = "missing_in_store"
)

// ValueAbsent is recorded as the stored value for a field that exists in
// the declared record but not in the stored mapping at all.
const ValueAbsent = "absent"

// FieldDiff is the declared/stored value pair for one mismatched field.
type FieldDiff struct {
	Declared any `json:"declared" yaml:"declared"`
	Stored   any `json:"stored" yaml:"stored"`
}

// Diff is the structured comparison result for one hostname. Fields is
// non-empty exactly when Status is StatusMismatch.
type Diff struct {
	Hostname string               `json:"hostname" yaml:"hostname"`
	Status   Status               `json:"status" yaml:"status"`
	Fields   map[string]FieldDiff `json:"field_differences,omitempty" yaml:"field_differences,omitempty"`
}

// NewMissingDiff returns the Diff for a hostname absent from the store.
func NewMissingDiff(hostname string) *Diff {
	return &Diff{Hostname: hostname, Status: StatusMissing}
}

// FieldNames returns the mismatched field names in deterministic order.
func (d *Diff) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for name := range d.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// record marks a field difference and flips the diff to StatusMismatch.
func (d *Diff) record(field string, declared, stored any) {
	if d.Fields == nil {
		d.Fields = map[string]FieldDiff{}
	}
	d.Fields[field] = FieldDiff{Declared: declared, Stored: stored}
	d.Status = StatusMismatch
}

// Summary aggregates per-hostname diffs into a run-level result.
type Summary struct {
	Match    int    `json:"match" yaml:"match"`
	Mismatch int    `json:"mismatch" yaml:"mismatch"`
	Missing  int    `json:"missing_in_store" yaml:"missing_in_store"`
	Reports  []Diff `json:"reports" yaml:"reports"`
}

// Add appends a diff to the summary and bumps the matching counter.
func (s *Summary) Add(d *Diff) {
	switch d.Status {
	case StatusMismatch:
		s.Mismatch++
	case StatusMissing:
		s.Missing++
	default:
		s.Match++
	}
	s.Reports = append(s.Reports, *d)
}

// Total returns the number of records compared.
func (s *Summary) Total() int {
	return s.Match + s.Mismatch + s.Missing
}

// Clean reports whether every record matched the store.
func (s *Summary) Clean() bool {
	return s.Mismatch == 0 && s.Missing == 0
}
