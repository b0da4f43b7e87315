package errors

// Code represents an error code
type Code string

// Error codes
const (
	CodeOK                 Code = "OK"
	CodeCanceled           Code = "CANCELED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeDeadlineExceeded   Code = "DEADLINE_EXCEEDED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"

	// CodeConfiguration marks reference data or actor data that contradicts itself,
	// e.g. a damage type listed as resisted, immune and vulnerable at once.
	CodeConfiguration Code = "CONFIGURATION"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// Recoverable reports whether a failure with this code should degrade the
// current operation instead of aborting it. Collaborator outages and timeouts
// are recoverable; bad input and bad configuration are not.
func (c Code) Recoverable() bool {
	switch c {
	case CodeUnavailable, CodeDeadlineExceeded, CodeCanceled, CodeInternal:
		return true
	default:
		return false
	}
}
