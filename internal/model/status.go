package model

import "strings"

type StatusKind string

const (
	StatusStarting    StatusKind = "Starting"
	StatusChecking    StatusKind = "Checking"
	StatusTransferred StatusKind = "Transferred"
	StatusCopying     StatusKind = "Copying"
	StatusCopied      StatusKind = "Copied"
	StatusFailure     StatusKind = "Failure"
)

var statusRank = map[StatusKind]int{
	StatusStarting:    0,
	StatusChecking:    1,
	StatusTransferred: 2,
	StatusCopying:     3,
	StatusCopied:      4,
}

// Status is a transfer's position in Starting → Checking → Transferred →
// Copying → Copied, or a terminal Failure carrying a free-text reason.
type Status struct {
	Kind   StatusKind `json:"kind"`
	Reason string     `json:"reason,omitempty"`
}

func Starting() Status    { return Status{Kind: StatusStarting} }
func Checking() Status    { return Status{Kind: StatusChecking} }
func Transferred() Status { return Status{Kind: StatusTransferred} }
func Copying() Status     { return Status{Kind: StatusCopying} }
func Copied() Status      { return Status{Kind: StatusCopied} }

func Failure(reason string) Status {
	return Status{Kind: StatusFailure, Reason: strings.TrimSpace(reason)}
}

func (s Status) String() string {
	if s.Kind == StatusFailure {
		return string(StatusFailure) + ": " + s.Reason
	}
	return string(s.Kind)
}

func (s Status) IsFailure() bool {
	return s.Kind == StatusFailure
}

// CanTransition reports whether next may follow s. Forward moves go one step at
// a time; Failure may follow anything except another Failure.
func (s Status) CanTransition(next Status) bool {
	if s.Kind == StatusFailure {
		return false
	}
	if next.Kind == StatusFailure {
		return true
	}

	cur, ok := statusRank[s.Kind]
	if !ok {
		return false
	}
	nxt, ok := statusRank[next.Kind]
	if !ok {
		return false
	}

	return nxt == cur+1
}
