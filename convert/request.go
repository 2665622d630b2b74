package convert

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lepinkainen/resolveconv/video"
)

// Request is everything one conversion run needs, fixed before the run starts.
// It is passed by value so the worker never shares state with the UI.
type Request struct {
	RunID     uuid.UUID
	Files     []video.VideoFile // selected files in list order
	Profile   Profile
	OutputDir string
	Policy    Policy
}

// NewRequest validates the user's choices and copies the selected files.
// Copied files start the run in StatusReady.
func NewRequest(files []video.VideoFile, profile Profile, outputDir string, policy Policy) (Request, error) {
	if len(files) == 0 {
		return Request{}, ErrNoVideos
	}

	var selected []video.VideoFile
	for _, f := range files {
		if f.Selected {
			f.Status = video.StatusReady
			selected = append(selected, f)
		}
	}
	if len(selected) == 0 {
		return Request{}, ErrNothingSelected
	}

	if outputDir == "" {
		return Request{}, ErrNoOutputDirectory
	}

	if _, err := LookupProfile(profile.ID); err != nil {
		return Request{}, err
	}

	if policy == "" {
		policy = PolicyOverwrite
	} else if _, err := ParsePolicy(string(policy)); err != nil {
		return Request{}, err
	}

	return Request{
		RunID:     uuid.New(),
		Files:     selected,
		Profile:   profile,
		OutputDir: outputDir,
		Policy:    policy,
	}, nil
}

// Conflicts runs the advisory destination check for this request
func (r Request) Conflicts() Conflicts {
	return DetectConflicts(r.Files, r.OutputDir, r.Profile)
}

// WithPolicy returns a copy of the request using policy p
func (r Request) WithPolicy(p Policy) Request {
	r.Policy = p
	return r
}

// FormatLogLine prefixes a log message with a wall clock timestamp
func FormatLogLine(now time.Time, msg string) string {
	return fmt.Sprintf("[%s] %s", now.Format("15:04:05"), msg)
}
