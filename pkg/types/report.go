package types

// BatchOutcome is the result of one per-cluster operation inside a batch.
type BatchOutcome struct {
	// Name of the target cluster.
	Name string `json:"name" yaml:"name"`

	// OK is true when the operation succeeded for this cluster.
	OK bool `json:"ok" yaml:"ok"`

	// Message is the human-readable per-cluster result line.
	Message string `json:"message" yaml:"message"`

	// Err holds the structured failure, nil on success or skip.
	Err error `json:"-" yaml:"-"`
}

// BatchReport aggregates the outcomes of one batch operation.
// Outcomes are ordered by completion, not by input order.
type BatchReport struct {
	// ID identifies the batch run, stamped on log lines.
	ID string `json:"id" yaml:"id"`

	Outcomes []BatchOutcome `json:"outcomes" yaml:"outcomes"`
}

// Successes returns how many outcomes succeeded.
func (r *BatchReport) Successes() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK {
			n++
		}
	}
	return n
}

// Failed returns the outcomes that did not succeed.
func (r *BatchReport) Failed() []BatchOutcome {
	var failed []BatchOutcome
	for _, o := range r.Outcomes {
		if !o.OK {
			failed = append(failed, o)
		}
	}
	return failed
}
