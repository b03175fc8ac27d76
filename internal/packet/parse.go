package packet

import (
	"errors"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// commentPrefix marks a line that is ignored without a diagnostic.
const commentPrefix = "#"

// expectedFields is the number of fields in a record line.
const expectedFields = 2

// separators matches any run of commas and/or whitespace. RE2's \s is ASCII
// only; \v, U+0085 and \p{Z} widen it to the set unicode.IsSpace reports, so
// splitting agrees with strings.TrimSpace.
//
//nolint:gochecknoglobals // Compiled once, read-only.
var separators = regexp.MustCompile(`[,\s\v\x{85}\p{Z}]+`)

// Kind classifies the outcome of parsing one line.
type Kind int

const (
	// KindIgnored is a blank or comment line. It is not an error.
	KindIgnored Kind = iota
	// KindRecord is a line that produced a valid Record.
	KindRecord
	// KindSkipped is a line rejected with a Reason.
	KindSkipped
)

// String returns a lowercase name for the kind, used in log fields.
func (k Kind) String() string {
	switch k {
	case KindIgnored:
		return "ignored"
	case KindRecord:
		return "record"
	case KindSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// LineResult is the outcome of ParseLine.
type LineResult struct {
	// LineNum is the 1-based line number.
	LineNum int
	// Raw is the line as read, without its line terminator.
	Raw string
	Kind Kind
	// Record is set when Kind is KindRecord.
	Record Record
	// Reason is one of ErrMalformedLine, ErrNonNumeric or ErrPriorityOutOfRange
	// when Kind is KindSkipped.
	Reason error
	// Priority holds the parsed priority in decimal for ErrPriorityOutOfRange.
	// It is text because the value may not fit in an int64.
	Priority string
}

// ParseLine parses a single raw line. lineNum is carried into the result for
// diagnostics only.
func ParseLine(lineNum int, raw string) LineResult {
	res := LineResult{LineNum: lineNum, Raw: raw}

	clean := strings.TrimSpace(raw)
	if clean == "" || strings.HasPrefix(clean, commentPrefix) {
		res.Kind = KindIgnored
		return res
	}

	fields := Tokenize(clean)
	if len(fields) != expectedFields {
		return res.skip(ErrMalformedLine)
	}

	serial, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return res.skip(ErrNonNumeric)
	}
	priority, err := strconv.ParseInt(fields[1], 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		// Still an integer, just far outside MinPriority..MaxPriority.
		res.Priority = bigDecimal(fields[1])
		return res.skip(ErrPriorityOutOfRange)
	}
	if err != nil {
		return res.skip(ErrNonNumeric)
	}

	if priority < MinPriority || priority > MaxPriority {
		res.Priority = strconv.FormatInt(priority, 10)
		return res.skip(ErrPriorityOutOfRange)
	}

	res.Kind = KindRecord
	res.Record = Record{Serial: serial, Priority: int(priority)}
	return res
}

// bigDecimal normalizes an out-of-range integer token such as "+0099..." to
// its canonical decimal form.
func bigDecimal(tok string) string {
	n, ok := new(big.Int).SetString(tok, 10)
	if !ok {
		return tok
	}
	return n.String()
}

// Tokenize splits an already trimmed line on runs of commas and whitespace.
// A leading or trailing separator produces an empty field.
func Tokenize(line string) []string {
	return separators.Split(line, -1)
}

func (r LineResult) skip(reason error) LineResult {
	r.Kind = KindSkipped
	r.Reason = reason
	return r
}
