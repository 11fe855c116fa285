package reconcile

import (
	"github.com/agentstation/fleetmap/pkg/nodes"
)

// Outcome attributes one failure to one hostname. Bulk operations convert
// per-item errors into Outcomes instead of letting one bad node abort the
// batch.
type Outcome struct {
	Hostname string `json:"hostname" yaml:"hostname"`
	Err      error  `json:"-" yaml:"-"`
}

// Error is the outcome's failure cause as text, for serialized output.
func (o Outcome) Error() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// PutResult is the aggregate outcome of a bulk write: which hostnames
// succeeded and which failed with what error, in manifest order.
type PutResult struct {
	Succeeded []string  `json:"succeeded" yaml:"succeeded"`
	Failed    []Outcome `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// Ok reports full success.
func (r *PutResult) Ok() bool {
	return len(r.Failed) == 0
}

// Partial reports that some writes succeeded and some failed.
func (r *PutResult) Partial() bool {
	return len(r.Succeeded) > 0 && len(r.Failed) > 0
}

// Total returns the number of records attempted.
func (r *PutResult) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

// ValidationResult is the aggregate outcome of a validation run: the
// per-hostname diffs plus any store reads that failed outright.
type ValidationResult struct {
	Summary nodes.Summary `json:"summary" yaml:"summary"`
	Errors  []Outcome     `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Ok reports that every record was compared and matched the store.
func (r *ValidationResult) Ok() bool {
	return len(r.Errors) == 0 && r.Summary.Clean()
}

// Partial reports that some records could not be compared at all.
func (r *ValidationResult) Partial() bool {
	return len(r.Errors) > 0
}

// Drifted reports that comparison found mismatched or missing records.
func (r *ValidationResult) Drifted() bool {
	return !r.Summary.Clean()
}
