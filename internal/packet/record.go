// Package packet parses and orders firewall packet records.
//
// A record is a (serial number, priority) pair read from one line of text.
// Parsing is pure: ParseLine never writes diagnostics itself, it returns a
// LineResult describing whether the line produced a record, was ignored, or
// was skipped and why. Callers decide how skipped lines are reported.
package packet

import (
	"sort"
	"strconv"
)

// Priority bounds, inclusive.
const (
	MinPriority = 1
	MaxPriority = 10
)

// Record is a validated packet record. Records are plain values; two records
// with the same serial and priority are interchangeable.
type Record struct {
	Serial   int64
	Priority int
}

// Format renders the record as "serial,priority".
func Format(r Record) string {
	return strconv.FormatInt(r.Serial, 10) + "," + strconv.Itoa(r.Priority)
}

// String implements fmt.Stringer using Format.
func (r Record) String() string {
	return Format(r)
}

// Less orders records by priority ascending, then serial ascending.
func Less(a, b Record) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.Serial < b.Serial
}

// SortBatch sorts records in place using Less.
func SortBatch(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return Less(records[i], records[j])
	})
}

// IsSorted reports whether records are ordered according to Less.
func IsSorted(records []Record) bool {
	return sort.SliceIsSorted(records, func(i, j int) bool {
		return Less(records[i], records[j])
	})
}
