package job

// Status tracks a job through the pipeline.
type Status string

const (
	StatusAdmitted     Status = "ADMITTED"
	StatusDownloading  Status = "DOWNLOADING"
	StatusSizeChecking Status = "SIZE_CHECKING"
	StatusDelivering   Status = "DELIVERING"
	StatusDone         Status = "DONE"
	StatusRejected     Status = "REJECTED"
	StatusFailed       Status = "FAILED"
)

// OutcomeKind tags the terminal result of a job.
type OutcomeKind string

const (
	OutcomeDelivered        OutcomeKind = "delivered"
	OutcomeTooLarge         OutcomeKind = "too_large"
	OutcomeExtractionFailed OutcomeKind = "extraction_failed"
	OutcomeDeliveryFailed   OutcomeKind = "delivery_failed"
	OutcomeInternalError    OutcomeKind = "internal_error"
)

// Outcome is the terminal result of a job. Size is set for Delivered and
// TooLarge; Err carries the root cause for the failure kinds (logged, never
// shown to the user).
type Outcome struct {
	Kind OutcomeKind
	Size int64
	Err  error
}

// TerminalStatus maps an outcome to its terminal state.
func (o Outcome) TerminalStatus() Status {
	switch o.Kind {
	case OutcomeDelivered:
		return StatusDone
	case OutcomeTooLarge:
		return StatusRejected
	default:
		return StatusFailed
	}
}
