package convert

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Policy decides what happens when a destination file already exists.
// One policy applies to every conflict of a run.
type Policy string

const (
	PolicyOverwrite Policy = "overwrite"
	PolicySkip      Policy = "skip"
	PolicySuffix    Policy = "suffix"
	PolicyTimestamp Policy = "timestamp"
)

// TimestampLayout is appended to the stem by PolicyTimestamp
const TimestampLayout = "20060102_150405"

// Policies lists every policy in the order they are offered to the user
func Policies() []Policy {
	return []Policy{PolicyOverwrite, PolicySkip, PolicySuffix, PolicyTimestamp}
}

// ParsePolicy parses a policy name
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PolicyOverwrite, PolicySkip, PolicySuffix, PolicyTimestamp:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Description is the label shown next to the policy in the conflict dialog
func (p Policy) Description() string {
	switch p {
	case PolicyOverwrite:
		return "Overwrite existing files"
	case PolicySkip:
		return "Skip conflicting files"
	case PolicySuffix:
		return "Add number suffix (e.g., _1, _2)"
	case PolicyTimestamp:
		return "Add timestamp suffix"
	default:
		return string(p)
	}
}

// Resolve returns the path a conversion should write to when dst is taken.
// skip is true when the file should be treated as already converted.
func (p Policy) Resolve(dst string, now time.Time) (path string, skip bool) {
	if !exists(dst) {
		return dst, false
	}

	switch p {
	case PolicySkip:
		return dst, true
	case PolicySuffix:
		return numericSuffixPath(dst), false
	case PolicyTimestamp:
		return timestampPath(dst, now), false
	default:
		return dst, false
	}
}

func splitPath(path string) (dir, stem, ext string) {
	dir = filepath.Dir(path)
	base := filepath.Base(path)
	ext = filepath.Ext(base)
	stem = strings.TrimSuffix(base, ext)
	return dir, stem, ext
}

func numericSuffixPath(dst string) string {
	dir, stem, ext := splitPath(dst)
	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		if !exists(candidate) {
			return candidate
		}
	}
}

func timestampPath(dst string, now time.Time) string {
	dir, stem, ext := splitPath(dst)
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, now.Format(TimestampLayout), ext))
}
