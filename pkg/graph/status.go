package graph

import "strings"

// Status classifies an edge by the first segment of its pipe-delimited
// label. Everything that is not explicitly suspended or disabled counts
// as enabled, including empty and unrecognized labels.
type Status int

const (
	StatusEnabled Status = iota
	StatusSuspended
	StatusDisabled
)

// String returns the single-letter code used in labels and output.
func (s Status) String() string {
	switch s {
	case StatusSuspended:
		return "S"
	case StatusDisabled:
		return "D"
	default:
		return "E"
	}
}

// ClassifyLabel derives the status from a raw edge label. Only the first
// pipe-delimited segment is inspected; it is trimmed and upper-cased, and
// a leading S or D decides the status. Anything else is enabled.
func ClassifyLabel(raw string) Status {
	first := raw
	if i := strings.IndexByte(raw, '|'); i >= 0 {
		first = raw[:i]
	}
	first = strings.ToUpper(strings.TrimSpace(first))

	switch {
	case strings.HasPrefix(first, "S"):
		return StatusSuspended
	case strings.HasPrefix(first, "D"):
		return StatusDisabled
	default:
		return StatusEnabled
	}
}
