package convert

import (
	"fmt"
	"strings"
)

// Profile identifiers. Adapter selection switches on these.
const (
	ProfileResolve = "resolve"
	ProfileH264    = "h264"
)

// Profile describes one supported output format
type Profile struct {
	ID           string
	Name         string
	Extension    string // output extension including the dot
	Encoder      string // video encoder identifier
	AudioEncoder string
	Container    string
	ProfileName  string // optional encoder profile
	Preset       string // optional tool preset
	Description  string
}

var profiles = []Profile{
	{
		ID:           ProfileResolve,
		Name:         "DaVinci Resolve (MOV)",
		Extension:    ".mov",
		Encoder:      "xvid4",
		AudioEncoder: "Lame",
		Container:    "MOV",
		Description:  "DaVinci Resolve Compatible - Professional quality",
	},
	{
		ID:          ProfileH264,
		Name:        "H.264 (MP4)",
		Extension:   ".mp4",
		Encoder:     "libx264",
		Container:   "MP4",
		ProfileName: "baseline",
		Preset:      "Fast 1080p30",
		Description: "Universal playback - Good compression",
	},
}

// Profiles returns the supported output formats in display order
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// DefaultProfile is the format preselected in a new session
func DefaultProfile() Profile {
	return profiles[0]
}

// LookupProfile finds a profile by identifier, case-insensitively
func LookupProfile(id string) (Profile, error) {
	for _, p := range profiles {
		if strings.EqualFold(p.ID, id) {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, id)
}

// ProfileIDs lists the identifiers accepted by LookupProfile
func ProfileIDs() []string {
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	return ids
}

// Next returns the profile following p, wrapping around
func (p Profile) Next() Profile {
	for i, candidate := range profiles {
		if candidate.ID == p.ID {
			return profiles[(i+1)%len(profiles)]
		}
	}
	return DefaultProfile()
}
