package convert

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDestinationPath(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		profile Profile
		want    string
	}{
		{"Resolve profile", "/in/clip.mp4", mustProfile(ProfileResolve), filepath.Join("/out", "clip.mov")},
		{"H264 profile", "/in/sub/clip.avi", mustProfile(ProfileH264), filepath.Join("/out", "clip.mp4")},
		{"Dotted stem", "/in/my.holiday.mkv", mustProfile(ProfileResolve), filepath.Join("/out", "my.holiday.mov")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DestinationPath("/out", tt.src, tt.profile))
		})
	}
}

func TestDetectConflicts(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	touch(t, filepath.Join(out, "clip.mov"), "old")
	touch(t, filepath.Join(out, "ignored.mov"), "old")

	files := selectedFiles(in, "clip.mp4", "other.mp4", "ignored.mp4")
	files[2].Selected = false

	got := DetectConflicts(files, out, mustProfile(ProfileResolve))

	assert.Equal(t, Conflicts{{
		Source:      filepath.Join(in, "clip.mp4"),
		Destination: filepath.Join(out, "clip.mov"),
	}}, got)
	assert.Equal(t, map[string]string{
		filepath.Join(in, "clip.mp4"): filepath.Join(out, "clip.mov"),
	}, got.Map())
}

func TestDetectConflicts_OtherProfile(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	touch(t, filepath.Join(out, "clip.mov"), "old")

	got := DetectConflicts(selectedFiles(in, "clip.mp4"), out, mustProfile(ProfileH264))
	assert.Empty(t, got, "clip.mp4 is not taken in the output directory")
}

func TestDetectConflicts_NoOutputDirectory(t *testing.T) {
	assert.Nil(t, DetectConflicts(selectedFiles("/in", "clip.mp4"), "", DefaultProfile()))
}

func mustProfile(id string) Profile {
	p, err := LookupProfile(id)
	if err != nil {
		panic(err)
	}
	return p
}
