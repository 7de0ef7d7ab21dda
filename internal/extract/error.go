package extract

import "fmt"

// Reason classifies an extraction failure.
type Reason string

const (
	ReasonUnsupported  Reason = "unsupported_url"
	ReasonUnreachable  Reason = "unreachable"
	ReasonAuthRequired Reason = "auth_required"
	ReasonNoOutput     Reason = "no_output"
	ReasonTimeout      Reason = "timeout"
	ReasonToolFailure  Reason = "tool_failure"
)

// Error is a classified extraction failure. Detail carries the tool
// diagnostics for logging; it is never shown to the user.
type Error struct {
	Reason Reason
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("extraction failed (%s): %s", e.Reason, e.Detail)
}
