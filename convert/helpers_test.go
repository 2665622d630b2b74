package convert

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/resolveconv/video"
)

// writeFakeTool creates an executable shell script standing in for an external binary
func writeFakeTool(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func selectedFiles(dir string, names ...string) []video.VideoFile {
	files := make([]video.VideoFile, len(names))
	for i, name := range names {
		files[i] = video.VideoFile{
			Path:     filepath.Join(dir, name),
			Name:     name,
			Size:     1024,
			Selected: true,
			Status:   video.StatusReady,
		}
	}
	return files
}

// recorder is an Observer that keeps everything it was told
type recorder struct {
	mu       sync.Mutex
	lines    []string
	progress [][2]int
	statuses map[int][]video.Status
}

func newRecorder() *recorder {
	return &recorder{statuses: make(map[int][]video.Status)}
}

func (r *recorder) Log(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func (r *recorder) Progress(done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, [2]int{done, total})
}

func (r *recorder) FileStatus(index int, file video.VideoFile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[index] = append(r.statuses[index], file.Status)
}

func (r *recorder) logged(line string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lines {
		if l == line {
			return true
		}
	}
	return false
}
