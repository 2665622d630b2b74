package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/resolveconv/convert"
)

// OptimizePaths drops the directory prefix shared by all paths, keeping one
// level of context, so long absolute paths fit a terminal row
func OptimizePaths(paths []string) []string {
	if len(paths) <= 1 {
		out := make([]string, len(paths))
		for i, p := range paths {
			out[i] = filepath.Base(p)
		}
		return out
	}

	sep := string(filepath.Separator)
	split := make([][]string, len(paths))
	shortest := -1
	for i, p := range paths {
		split[i] = strings.Split(filepath.Clean(p), sep)
		if shortest < 0 || len(split[i]) < shortest {
			shortest = len(split[i])
		}
	}

	// never strip the file name itself
	common := 0
	for common < shortest-1 {
		part := split[0][common]
		same := true
		for _, parts := range split[1:] {
			if parts[common] != part {
				same = false
				break
			}
		}
		if !same {
			break
		}
		common++
	}

	start := common
	if start > 0 {
		start-- // one level of context
	}

	result := make([]string, len(paths))
	for i, parts := range split {
		result[i] = filepath.Join(parts[start:]...)
		if start > 0 {
			result[i] = "..." + sep + result[i]
		}
	}
	return result
}

// RenderConflictList lists conflicting destinations, at most limit of them
func RenderConflictList(conflicts convert.Conflicts, limit int) string {
	dests := make([]string, len(conflicts))
	for i, c := range conflicts {
		dests[i] = c.Destination
	}
	display := OptimizePaths(dests)

	var b strings.Builder
	for i, c := range conflicts {
		if limit > 0 && i == limit {
			b.WriteString(MutedStyle.Render(fmt.Sprintf("  ... and %d more", len(conflicts)-limit)))
			b.WriteString("\n")
			break
		}
		b.WriteString(fmt.Sprintf("  • %s → %s\n", filepath.Base(c.Source), display[i]))
	}
	return b.String()
}
