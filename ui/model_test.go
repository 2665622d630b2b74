package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/resolveconv/convert"
	"github.com/lepinkainen/resolveconv/utils"
	"github.com/lepinkainen/resolveconv/video"
)

type fakeScanner struct {
	files []video.VideoFile
	err   error
}

func (s fakeScanner) Scan(context.Context, string) ([]video.VideoFile, error) {
	return s.files, s.err
}

// fakeRunner replays a fixed list of events, or hands out ch when set
type fakeRunner struct {
	events []convert.Event
	ch     chan convert.Event
	reqs   []convert.Request
	ctxs   []context.Context
}

func (r *fakeRunner) Start(ctx context.Context, req convert.Request) <-chan convert.Event {
	r.reqs = append(r.reqs, req)
	r.ctxs = append(r.ctxs, ctx)
	if r.ch != nil {
		return r.ch
	}
	ch := make(chan convert.Event, len(r.events))
	for _, ev := range r.events {
		ch <- ev
	}
	close(ch)
	return ch
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+z":
		return tea.KeyMsg{Type: tea.KeyCtrlZ}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m ConverterModel, msg tea.Msg) (ConverterModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	cm, ok := next.(ConverterModel)
	require.True(t, ok, "Update returned %T", next)
	return cm, cmd
}

func press(t *testing.T, m ConverterModel, keys ...string) ConverterModel {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, keyPress(k))
	}
	return m
}

// drain feeds worker events back into the model until the run is done
func drain(t *testing.T, m ConverterModel, cmd tea.Cmd) ConverterModel {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		ev, ok := msg.(ConversionEventMsg)
		if !ok {
			m, _ = update(t, m, msg)
			return m
		}
		m, cmd = update(t, m, ev)
		if ev.Event.Kind == convert.EventDone {
			return m
		}
	}
	return m
}

func sampleFiles(dir string) []video.VideoFile {
	return []video.VideoFile{
		{Path: filepath.Join(dir, "a.mp4"), Name: "a.mp4", Size: 1024, Duration: 75, DurationKnown: true},
		{Path: filepath.Join(dir, "b.mp4"), Name: "b.mp4", Size: 2048},
	}
}

func newTestModel(t *testing.T, runner *fakeRunner) ConverterModel {
	t.Helper()
	in := t.TempDir()
	m := NewConverterModel(Options{
		Version:      "test",
		InputDir:     in,
		OutputDir:    t.TempDir(),
		Scanner:      fakeScanner{files: sampleFiles(in)},
		Orchestrator: runner,
		OpenDir:      func(string) error { return nil },
	})
	m, _ = update(t, m, ScanFinishedMsg{Dir: in, Files: sampleFiles(in)})
	return m
}

func logContains(m ConverterModel, substr string) bool {
	for _, l := range m.LogLines() {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestNewConverterModel(t *testing.T) {
	m := NewConverterModel(Options{
		InputDir:  "/videos",
		OutputDir: "/out",
		Tools: []utils.DependencyStatus{
			{Dependency: utils.Dependency{Name: "FFprobe", Binary: "ffprobe"}, Path: "/usr/bin/ffprobe"},
			{Dependency: utils.Dependency{Name: "HandBrake", Binary: "HandBrakeCLI"}, Err: errors.New("not found")},
		},
	})

	assert.Equal(t, "/videos", m.State().InputDir())
	assert.Equal(t, "/out", m.State().OutputDir())
	assert.Equal(t, convert.DefaultProfile(), m.State().Profile())
	assert.Equal(t, 0, m.State().Len())
	assert.True(t, logContains(m, "Ready"))
	assert.True(t, logContains(m, "HandBrake not found"))
	assert.False(t, logContains(m, "FFprobe not found"))
}

func TestInit_ScansInputDirectory(t *testing.T) {
	dir := t.TempDir()
	files := sampleFiles(dir)
	m := NewConverterModel(Options{InputDir: dir, Scanner: fakeScanner{files: files}})

	cmd := m.Init()
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, ScanFinishedMsg{}, msg)

	m, _ = update(t, m, msg)
	assert.Equal(t, 2, m.State().Len())
	assert.True(t, logContains(m, "Found 2 video files"))
}

func TestInit_NoInputDirectory(t *testing.T) {
	m := NewConverterModel(Options{})
	assert.Nil(t, m.Init())
}

func TestScanFailed(t *testing.T) {
	m := NewConverterModel(Options{})
	m, _ = update(t, m, ScanFinishedMsg{Dir: "/videos", Err: errors.New("permission denied")})

	assert.Contains(t, m.Status(), "Scan failed")
	assert.True(t, logContains(m, "permission denied"))
}

func TestScanKey_MissingDirectory(t *testing.T) {
	m := NewConverterModel(Options{InputDir: filepath.Join(t.TempDir(), "gone")})
	m, cmd := update(t, m, keyPress("s"))

	assert.NotNil(t, cmd)
	assert.Contains(t, m.Status(), "does not exist")
}

func TestSelectionKeys(t *testing.T) {
	m := newTestModel(t, &fakeRunner{})

	m = press(t, m, " ")
	assert.Equal(t, 1, m.State().SelectedCount())
	f, _ := m.State().File(0)
	assert.True(t, f.Selected)

	m = press(t, m, "j", " ")
	assert.Equal(t, 2, m.State().SelectedCount())

	m = press(t, m, "n")
	assert.Equal(t, 0, m.State().SelectedCount())

	m = press(t, m, "a")
	assert.Equal(t, 2, m.State().SelectedCount())

	m = press(t, m, "k", " ", "x")
	assert.Equal(t, 1, m.State().Len())
	f, _ = m.State().File(0)
	assert.Equal(t, "a.mp4", f.Name)
	assert.True(t, logContains(m, "Removed 1 videos"))

	m = press(t, m, "X")
	assert.Equal(t, 0, m.State().Len())
}

func TestCursorStaysInRange(t *testing.T) {
	m := newTestModel(t, &fakeRunner{})

	m = press(t, m, "j", "j", "j")
	assert.Equal(t, 1, m.cursor)

	m = press(t, m, "a", "x")
	assert.Equal(t, 0, m.cursor)

	// toggling an empty list does nothing
	m = press(t, m, " ")
	assert.Equal(t, 0, m.State().Len())
}

func TestFormatKeyCyclesProfiles(t *testing.T) {
	m := newTestModel(t, &fakeRunner{})

	m = press(t, m, "f")
	assert.Equal(t, convert.ProfileH264, m.State().Profile().ID)
	assert.True(t, logContains(m, "Output format: H.264 (MP4)"))

	m = press(t, m, "f")
	assert.Equal(t, convert.ProfileResolve, m.State().Profile().ID)
}

func TestStartConversion_Validation(t *testing.T) {
	runner := &fakeRunner{}
	m := newTestModel(t, runner)

	m = press(t, m, "enter")
	assert.Contains(t, m.Status(), convert.ErrNothingSelected.Error())
	assert.False(t, m.Running())

	m = press(t, m, "X", "enter")
	assert.Contains(t, m.Status(), convert.ErrNoVideos.Error())
	assert.Empty(t, runner.reqs)
}

func TestStartConversion_AppliesWorkerEvents(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	done := convert.Result{Total: 1, Converted: 1, Outcome: convert.OutcomeAllConverted}
	runner := &fakeRunner{events: []convert.Event{
		{Kind: convert.EventFileStatus, Time: now, Index: 0, File: video.VideoFile{Name: "b.mp4", Status: video.StatusConverting}},
		{Kind: convert.EventLog, Time: now, Line: "Converting b.mp4..."},
		{Kind: convert.EventProgress, Time: now, Done: 0, Total: 1},
		{Kind: convert.EventFileStatus, Time: now, Index: 0, File: video.VideoFile{Name: "b.mp4", Status: video.StatusCompleted}},
		{Kind: convert.EventProgress, Time: now, Done: 1, Total: 1},
		{Kind: convert.EventDone, Time: now, Result: done},
	}}
	m := newTestModel(t, runner)

	m = press(t, m, "j", " ")
	m, cmd := update(t, m, keyPress("enter"))
	require.True(t, m.Running())
	require.Len(t, runner.reqs, 1)
	assert.Len(t, runner.reqs[0].Files, 1)
	assert.Equal(t, convert.PolicyOverwrite, runner.reqs[0].Policy)

	m = drain(t, m, cmd)

	assert.False(t, m.Running())
	a, _ := m.State().File(0)
	b, _ := m.State().File(1)
	assert.Equal(t, video.StatusReady, a.Status)
	assert.Equal(t, video.StatusCompleted, b.Status)
	assert.True(t, logContains(m, "[10:00:00] Converting b.mp4..."))
	assert.Equal(t, "Successfully converted 1 videos", m.Status())
	assert.Equal(t, 1.0, m.progressRatio())
}

func TestStartConversion_ResetsPreviousStatuses(t *testing.T) {
	runner := &fakeRunner{events: []convert.Event{
		{Kind: convert.EventFileStatus, Index: 0, File: video.VideoFile{Status: video.StatusConverting}},
		{Kind: convert.EventFileStatus, Index: 0, File: video.VideoFile{Status: video.StatusFailed}},
		{Kind: convert.EventDone, Result: convert.Result{Total: 1, Failed: 1, Outcome: convert.OutcomePartial}},
	}}
	m := newTestModel(t, runner)
	m = press(t, m, " ")

	m, cmd := update(t, m, keyPress("enter"))
	m = drain(t, m, cmd)
	f, _ := m.State().File(0)
	require.Equal(t, video.StatusFailed, f.Status)
	assert.Equal(t, "Only 0/1 videos were converted successfully", m.Status())

	// a second run starts from Ready again
	m, cmd = update(t, m, keyPress("enter"))
	f, _ = m.State().File(0)
	assert.Equal(t, video.StatusReady, f.Status)
	m = drain(t, m, cmd)
	f, _ = m.State().File(0)
	assert.Equal(t, video.StatusFailed, f.Status)
	assert.Len(t, runner.reqs, 2)
}

func TestConflictDialog(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		policy convert.Policy // empty when the run is cancelled
	}{
		{"Overwrite by number", []string{"1"}, convert.PolicyOverwrite},
		{"Skip by number", []string{"2"}, convert.PolicySkip},
		{"Suffix by number", []string{"3"}, convert.PolicySuffix},
		{"Timestamp by number", []string{"4"}, convert.PolicyTimestamp},
		{"Cursor and enter", []string{"j", "j", "enter"}, convert.PolicySuffix},
		{"Cancel with esc", []string{"esc"}, ""},
		{"Cancel with c", []string{"c"}, ""},
		{"Cancel row", []string{"j", "j", "j", "j", "j", "enter"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{ch: make(chan convert.Event)}
			m := newTestModel(t, runner)
			require.NoError(t, os.WriteFile(filepath.Join(m.State().OutputDir(), "a.mov"), []byte("old"), 0o644))

			m = press(t, m, " ", "enter")
			require.Len(t, m.conflicts, 1)
			assert.Empty(t, runner.reqs)
			assert.Contains(t, m.View(), "1 files already exist")

			m = press(t, m, tt.keys...)
			assert.Empty(t, m.conflicts)
			if tt.policy == "" {
				assert.Empty(t, runner.reqs)
				assert.False(t, m.Running())
				assert.True(t, logContains(m, "Conversion cancelled"))
				return
			}
			require.Len(t, runner.reqs, 1)
			assert.Equal(t, tt.policy, runner.reqs[0].Policy)
			assert.True(t, m.Running())
		})
	}
}

func TestConfiguredPolicySkipsDialog(t *testing.T) {
	runner := &fakeRunner{ch: make(chan convert.Event)}
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "a.mov"), []byte("old"), 0o644))

	m := NewConverterModel(Options{InputDir: in, OutputDir: out, OnConflict: "skip", Orchestrator: runner})
	m, _ = update(t, m, ScanFinishedMsg{Dir: in, Files: sampleFiles(in)})
	m = press(t, m, " ", "enter")

	assert.Empty(t, m.conflicts)
	require.Len(t, runner.reqs, 1)
	assert.Equal(t, convert.PolicySkip, runner.reqs[0].Policy)
}

func TestStopWhileRunning(t *testing.T) {
	runner := &fakeRunner{ch: make(chan convert.Event)}
	m := newTestModel(t, runner)

	m = press(t, m, "a", "enter")
	require.True(t, m.Running())
	require.NoError(t, runner.ctxs[0].Err())

	// list changes are refused during a run
	m = press(t, m, "x")
	assert.Equal(t, 2, m.State().Len())
	assert.Contains(t, m.Status(), "Busy")

	m = press(t, m, "enter")
	assert.ErrorIs(t, runner.ctxs[0].Err(), context.Canceled)
	assert.True(t, logContains(m, "Stopping conversion"))
	assert.True(t, m.Running())

	m, _ = update(t, m, ConversionEventMsg{Event: convert.Event{
		Kind:   convert.EventDone,
		Result: convert.Result{Total: 2, Outcome: convert.OutcomeStopped},
	}})
	assert.False(t, m.Running())
	assert.Equal(t, "Conversion stopped by user (0/2 converted)", m.Status())
	assert.True(t, m.statusIsErr)
}

func TestQuitWhileRunningWaitsForWorker(t *testing.T) {
	runner := &fakeRunner{ch: make(chan convert.Event)}
	m := newTestModel(t, runner)

	m = press(t, m, "a", "enter", "q")
	assert.False(t, m.quitting)
	assert.ErrorIs(t, runner.ctxs[0].Err(), context.Canceled)

	m, cmd := update(t, m, ConversionEventMsg{Event: convert.Event{Kind: convert.EventDone}})
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestWorkerClosedUnexpectedly(t *testing.T) {
	runner := &fakeRunner{ch: make(chan convert.Event)}
	m := newTestModel(t, runner)

	m = press(t, m, "a", "enter")
	m, _ = update(t, m, WorkerClosedMsg{})

	assert.False(t, m.Running())
	assert.True(t, m.statusIsErr)
}

func TestWorkerCrashReported(t *testing.T) {
	runner := &fakeRunner{ch: make(chan convert.Event)}
	m := newTestModel(t, runner)

	m = press(t, m, "a", "enter")
	m, _ = update(t, m, ConversionEventMsg{Event: convert.Event{Kind: convert.EventDone, Err: errors.New("conversion worker crashed: boom")}})

	assert.False(t, m.Running())
	assert.Contains(t, m.Status(), "boom")
}

func TestDirectoryFieldUndoRedo(t *testing.T) {
	m := NewConverterModel(Options{InputDir: "/first", OutputDir: "/out"})

	m = press(t, m, "tab")
	require.Equal(t, focusInput, m.focus)

	m.inputField.SetValue("/second")
	m = press(t, m, "ctrl+z")
	assert.Equal(t, "/first", m.State().InputDir())
	assert.Equal(t, "/first", m.inputField.Value())

	m = press(t, m, "ctrl+y")
	assert.Equal(t, "/second", m.State().InputDir())
	assert.Equal(t, "/second", m.inputField.Value())

	// typing goes to the field, not the key bindings
	m = press(t, m, "q")
	assert.False(t, m.quitting)
	assert.Equal(t, "/secondq", m.inputField.Value())
}

func TestDirectoryFieldCommitOnFocusChange(t *testing.T) {
	m := NewConverterModel(Options{OutputDir: "/out"})

	m = press(t, m, "tab", "tab")
	require.Equal(t, focusOutput, m.focus)
	m.outputField.SetValue("/elsewhere")

	m = press(t, m, "tab")
	assert.Equal(t, focusFiles, m.focus)
	assert.Equal(t, "/elsewhere", m.State().OutputDir())
	assert.True(t, m.State().CanUndoOutput())
}

func TestDirPicked(t *testing.T) {
	m := NewConverterModel(Options{})

	m, _ = update(t, m, DirPickedMsg{Target: focusOutput, Dir: "/picked"})
	assert.Equal(t, "/picked", m.State().OutputDir())
	assert.Equal(t, "/picked", m.outputField.Value())

	m, _ = update(t, m, DirPickedMsg{Target: focusInput, Err: utils.ErrPickerUnavailable})
	assert.True(t, m.picking)
	assert.Contains(t, m.View(), "Select input directory")

	m = press(t, m, "esc")
	assert.False(t, m.picking)
}

func TestPickKeyWithoutNativePicker(t *testing.T) {
	m := NewConverterModel(Options{})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.NotNil(t, cmd)
	msg := cmd()
	picked, ok := msg.(DirPickedMsg)
	require.True(t, ok)
	assert.Equal(t, focusInput, picked.Target)
	assert.ErrorIs(t, picked.Err, utils.ErrPickerUnavailable)
}

func TestOpenOutputKey(t *testing.T) {
	var opened string
	m := NewConverterModel(Options{OutputDir: "/out", OpenDir: func(dir string) error {
		opened = dir
		return errors.New("no file manager")
	}})

	m, cmd := update(t, m, keyPress("o"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, "/out", opened)
	assert.True(t, logContains(m, "no file manager"))
}

func TestStatusClears(t *testing.T) {
	m := newTestModel(t, &fakeRunner{})
	m = press(t, m, "enter")
	require.NotEmpty(t, m.Status())

	m, _ = update(t, m, clearStatusMsg{seq: m.statusSeq - 1})
	assert.NotEmpty(t, m.Status(), "stale clear must not remove a newer status")

	m, _ = update(t, m, clearStatusMsg{seq: m.statusSeq})
	assert.Empty(t, m.Status())
}

func TestView(t *testing.T) {
	m := newTestModel(t, &fakeRunner{})
	m.opts.Tools = []utils.DependencyStatus{
		{Dependency: utils.Dependency{Name: "Avidemux"}, Err: errors.New("not found")},
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = press(t, m, " ")

	view := m.View()
	assert.Contains(t, view, "Resolve Converter test")
	assert.Contains(t, view, "a.mp4")
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, "1:15")
	assert.Contains(t, view, video.UnknownDuration)
	assert.Contains(t, view, "2 videos, 1 selected")
	assert.Contains(t, view, "Missing tools: Avidemux")
	assert.Contains(t, view, "DaVinci Resolve (MOV)")
}

func TestCtrlCQuits(t *testing.T) {
	m := NewConverterModel(Options{})
	m, cmd := update(t, m, keyPress("ctrl+c"))

	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, "", m.View())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a_very_...", truncate("a_very_long_name.mp4", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestShutdownDrainsWorker(t *testing.T) {
	runner := &fakeRunner{ch: make(chan convert.Event, 2)}
	m := newTestModel(t, runner)

	m = press(t, m, "a", "enter", "ctrl+c")
	require.True(t, m.quitting)
	assert.ErrorIs(t, runner.ctxs[0].Err(), context.Canceled)

	runner.ch <- convert.Event{Kind: convert.EventLog, Line: "Conversion stopped by user"}
	runner.ch <- convert.Event{Kind: convert.EventDone}
	close(runner.ch)

	assert.True(t, m.Shutdown(time.Second))
}

func TestShutdownTimesOut(t *testing.T) {
	runner := &fakeRunner{ch: make(chan convert.Event)}
	m := newTestModel(t, runner)
	m = press(t, m, "a", "enter")

	assert.False(t, m.Shutdown(50*time.Millisecond))
}

func TestShutdownWithoutRun(t *testing.T) {
	m := NewConverterModel(Options{})
	assert.True(t, m.Shutdown(time.Millisecond))
}
