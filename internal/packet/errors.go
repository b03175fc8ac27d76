package packet

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Skip reasons reported by ParseLine. They can be compared with errors.Is().
var (
	// ErrMalformedLine indicates a line that did not split into exactly two fields.
	ErrMalformedLine = constError("malformed line")

	// ErrNonNumeric indicates a serial number or priority that is not a base-10 integer.
	ErrNonNumeric = constError("non-numeric data")

	// ErrPriorityOutOfRange indicates a priority outside [MinPriority, MaxPriority].
	ErrPriorityOutOfRange = constError("invalid priority")
)
