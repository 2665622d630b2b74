package convert

import "errors"

var (
	// ErrUnknownProfile indicates a format identifier outside the supported set.
	ErrUnknownProfile = errors.New("unknown output format")

	// ErrUnknownPolicy indicates an unrecognised conflict resolution policy.
	ErrUnknownPolicy = errors.New("unknown conflict resolution policy")

	// ErrNoVideos indicates the file list is empty.
	ErrNoVideos = errors.New("no videos to convert")

	// ErrNothingSelected indicates no file is selected for conversion.
	ErrNothingSelected = errors.New("please select videos to convert")

	// ErrNoOutputDirectory indicates no output directory was chosen.
	ErrNoOutputDirectory = errors.New("please select an output directory")

	// ErrToolNotFound indicates the external converter binary could not be located.
	ErrToolNotFound = errors.New("conversion tool not found")

	// ErrToolFailed indicates the external converter exited unsuccessfully.
	ErrToolFailed = errors.New("conversion tool failed")

	// ErrOutputMissing indicates the converter did not create the destination file.
	ErrOutputMissing = errors.New("output file not created")

	// ErrOutputEmpty indicates the converter created an empty destination file.
	ErrOutputEmpty = errors.New("output file is empty")
)
