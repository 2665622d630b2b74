package video

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Status is the conversion state of a single discovered file
type Status int

const (
	StatusReady Status = iota
	StatusConverting
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusConverting:
		return "Converting"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Terminal reports whether no further transition is allowed from s
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from s to next is allowed.
// Statuses only move forward: Ready -> Converting -> Completed|Failed.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusReady:
		return next == StatusConverting
	case StatusConverting:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// VideoFile is one input file discovered by a directory scan
type VideoFile struct {
	Path          string  // absolute path
	Name          string  // display name (base name)
	Size          int64   // bytes
	Duration      float64 // seconds, valid only when DurationKnown
	DurationKnown bool
	Selected      bool
	Status        Status
}

// Transition moves the file to the next status, refusing regressions
func (v *VideoFile) Transition(next Status) error {
	if !v.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s (%s)", ErrInvalidTransition, v.Status, next, v.Name)
	}
	v.Status = next
	return nil
}

// DurationLabel returns the duration as M:SS, or "Unknown" when the probe failed
func (v VideoFile) DurationLabel() string {
	if !v.DurationKnown {
		return UnknownDuration
	}
	return FormatDuration(v.Duration)
}

// SizeLabel returns a human readable file size
func (v VideoFile) SizeLabel() string {
	if v.Size < 0 {
		return "?"
	}
	return humanize.Bytes(uint64(v.Size))
}
