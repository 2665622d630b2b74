package video

import "errors"

var (
	// ErrNoInputDirectory indicates the scan was requested without a directory.
	ErrNoInputDirectory = errors.New("please select an input directory")

	// ErrInputDirectoryMissing indicates the input directory does not exist.
	ErrInputDirectoryMissing = errors.New("input directory does not exist")

	// ErrInvalidTransition indicates a status change that would regress a file.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrProbeFailed indicates the duration probe did not yield a value.
	ErrProbeFailed = errors.New("duration probe failed")
)
