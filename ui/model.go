package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/lepinkainen/resolveconv/convert"
	"github.com/lepinkainen/resolveconv/selection"
	"github.com/lepinkainen/resolveconv/utils"
	"github.com/lepinkainen/resolveconv/video"
)

// maxLogLines bounds the conversion log kept in memory
const maxLogLines = 500

type focusArea int

const (
	focusFiles focusArea = iota
	focusInput
	focusOutput
)

// Scanner discovers videos in a directory
type Scanner interface {
	Scan(ctx context.Context, dir string) ([]video.VideoFile, error)
}

// Runner starts a conversion on its own goroutine
type Runner interface {
	Start(ctx context.Context, req convert.Request) <-chan convert.Event
}

// Options wires the model to the rest of the application
type Options struct {
	Version   string
	InputDir  string
	OutputDir string
	Profile   convert.Profile
	// OnConflict is "ask" or a policy name applied without asking
	OnConflict string

	Scanner      Scanner
	Orchestrator Runner
	OpenDir      func(dir string) error
	PickDir      func(ctx context.Context, title string) (string, error)
	Tools        []utils.DependencyStatus
	Log          *logrus.Entry
}

// ConverterModel is the interactive batch converter
type ConverterModel struct {
	opts  Options
	state selection.State
	keys  keyMap

	// Inputs
	inputField  textinput.Model
	outputField textinput.Model
	focus       focusArea
	cursor      int

	// Scan
	scanning bool

	// Conversion run
	running      bool
	stopping     bool
	cancel       context.CancelFunc
	events       <-chan convert.Event
	runIndexes   []int // request file index -> list index
	done, total  int
	progress     progress.Model
	quitAfterRun bool

	// Conflict dialog
	conflicts      convert.Conflicts
	pendingReq     convert.Request
	conflictCursor int

	// Built-in directory picker
	picking      bool
	picker       filepicker.Model
	pickerTarget focusArea

	// Log
	logLines []string
	logView  viewport.Model

	status      string
	statusIsErr bool
	statusSeq   int

	help     help.Model
	showHelp bool
	width    int
	height   int
	quitting bool
}

// NewConverterModel creates the model with the configured defaults
func NewConverterModel(opts Options) ConverterModel {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger().WithField("component", "ui")
	}
	if opts.OnConflict == "" {
		opts.OnConflict = "ask"
	}

	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "directory with videos to convert"
	in.SetValue(opts.InputDir)

	out := textinput.New()
	out.Prompt = ""
	out.Placeholder = "directory for converted videos"
	out.SetValue(opts.OutputDir)

	vp := viewport.New(80, 8)

	m := ConverterModel{
		opts:        opts,
		state:       selection.New(opts.InputDir, opts.OutputDir, opts.Profile),
		keys:        defaultKeyMap(),
		inputField:  in,
		outputField: out,
		focus:       focusFiles,
		progress:    progress.New(progress.WithDefaultGradient()),
		logView:     vp,
		help:        help.New(),
	}
	m.appendLog(convert.FormatLogLine(time.Now(), "Ready. Press s to scan the input directory."))
	for _, t := range opts.Tools {
		if !t.Found() {
			m.appendLog(convert.FormatLogLine(time.Now(), fmt.Sprintf("⚠️  %s not found: %s", t.Name, utils.InstallationInstructions(t.Binary))))
		}
	}
	return m
}

// Init implements tea.Model
func (m ConverterModel) Init() tea.Cmd {
	if m.state.InputDir() != "" {
		return m.scan()
	}
	return nil
}

// State exposes the selection state
func (m ConverterModel) State() selection.State { return m.state }

// Running reports whether a conversion is in progress
func (m ConverterModel) Running() bool { return m.running }

// LogLines returns the conversion log
func (m ConverterModel) LogLines() []string { return m.logLines }

// Status returns the status line
func (m ConverterModel) Status() string { return m.status }

func (m *ConverterModel) appendLog(line string) {
	m.logLines = append(m.logLines, line)
	if over := len(m.logLines) - maxLogLines; over > 0 {
		m.logLines = m.logLines[over:]
	}
	m.logView.SetContent(strings.Join(m.logLines, "\n"))
	m.logView.GotoBottom()
}

func (m *ConverterModel) logf(format string, args ...any) {
	m.appendLog(convert.FormatLogLine(time.Now(), fmt.Sprintf(format, args...)))
}

// setStatus shows msg in the status line and clears it after a while
func (m *ConverterModel) setStatus(msg string, isErr bool) tea.Cmd {
	m.status = msg
	m.statusIsErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *ConverterModel) apply(a selection.Action) error {
	next, err := m.state.Apply(a)
	if err != nil {
		m.opts.Log.WithError(err).Warnf("action %T refused", a)
		return err
	}
	m.state = next
	m.clampCursor()
	return nil
}

func (m *ConverterModel) clampCursor() {
	if m.cursor >= m.state.Len() {
		m.cursor = m.state.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update implements tea.Model
func (m ConverterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.picking {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		return m, nil

	case ScanFinishedMsg:
		return m.handleScanFinished(msg)

	case ConversionEventMsg:
		return m.handleEvent(msg.Event)

	case WorkerClosedMsg:
		m.finishRun()
		return m, m.setStatus("Conversion worker stopped unexpectedly", true)

	case DirPickedMsg:
		return m.handleDirPicked(msg)

	case DirOpenedMsg:
		if msg.Err != nil {
			m.logf("Could not open directory: %v", msg.Err)
		}
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch {
		case m.picking:
			return m.handlePickerInput(msg)
		case len(m.conflicts) > 0:
			return m.handleConflictInput(msg)
		case m.focus != focusFiles:
			return m.handleFieldInput(msg)
		default:
			return m.handleNormalInput(msg)
		}
	}

	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *ConverterModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.progress.Width = max(min(width-20, 60), 10)
	m.inputField.Width = width - 16
	m.outputField.Width = width - 16
	m.logView.Width = width - 4
	m.logView.Height = max(height/4, 4)
	m.help.Width = width
}

func (m ConverterModel) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	m.quitting = true
	return m, tea.Quit
}

func (m ConverterModel) handleNormalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		if m.running {
			m.quitAfterRun = true
			return m.requestStop()
		}
		return m.quit()

	case key.Matches(msg, k.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, k.Focus):
		m.setFocus(m.nextFocus(msg.String() == "shift+tab"))

	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, k.Down):
		if m.cursor < m.state.Len()-1 {
			m.cursor++
		}

	case key.Matches(msg, k.Start):
		if m.running {
			return m.requestStop()
		}
		return m.startConversion()

	case key.Matches(msg, k.OpenOutput):
		return m, m.openOutput()

	case key.Matches(msg, k.Pick):
		return m, m.pickDir(focusInput)

	case m.running || m.scanning:
		return m, m.setStatus("Busy, wait for the current operation to finish", true)

	case key.Matches(msg, k.Scan):
		return m, m.scan()

	case key.Matches(msg, k.Toggle):
		if m.state.Len() > 0 {
			_ = m.apply(selection.Toggle{Index: m.cursor})
		}

	case key.Matches(msg, k.SelectAll):
		_ = m.apply(selection.SelectAll{})

	case key.Matches(msg, k.DeselectAll):
		_ = m.apply(selection.DeselectAll{})

	case key.Matches(msg, k.Remove):
		n := m.state.SelectedCount()
		if err := m.apply(selection.RemoveSelected{}); err == nil && n > 0 {
			m.logf("Removed %d videos from the list", n)
		}

	case key.Matches(msg, k.Clear):
		_ = m.apply(selection.Clear{})
		m.logf("Cleared video list")

	case key.Matches(msg, k.Format):
		if err := m.apply(selection.SetFormat{Profile: m.state.Profile().Next()}); err == nil {
			p := m.state.Profile()
			m.logf("Output format: %s (%s)", p.Name, p.Description)
		}
	}
	return m, nil
}

func (m ConverterModel) nextFocus(reverse bool) focusArea {
	order := []focusArea{focusFiles, focusInput, focusOutput}
	step := 1
	if reverse {
		step = len(order) - 1
	}
	return order[(int(m.focus)+step)%len(order)]
}

// setFocus moves focus, committing a directory field that loses it
func (m *ConverterModel) setFocus(next focusArea) {
	m.commitField(m.focus)
	m.focus = next
	m.inputField.Blur()
	m.outputField.Blur()
	switch next {
	case focusInput:
		m.inputField.Focus()
	case focusOutput:
		m.outputField.Focus()
	}
}

// commitField records the field's text in its directory history
func (m *ConverterModel) commitField(area focusArea) {
	switch area {
	case focusInput:
		if v := strings.TrimSpace(m.inputField.Value()); v != m.state.InputDir() {
			_ = m.apply(selection.SetInputDir{Dir: v})
		}
	case focusOutput:
		if v := strings.TrimSpace(m.outputField.Value()); v != m.state.OutputDir() {
			_ = m.apply(selection.SetOutputDir{Dir: v})
		}
	}
}

func (m *ConverterModel) syncFields() {
	m.inputField.SetValue(m.state.InputDir())
	m.outputField.SetValue(m.state.OutputDir())
}

func (m ConverterModel) handleFieldInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Focus):
		m.setFocus(m.nextFocus(msg.String() == "shift+tab"))
		return m, nil

	case msg.String() == "esc":
		m.setFocus(focusFiles)
		return m, nil

	case msg.String() == "enter":
		target := m.focus
		m.setFocus(focusFiles)
		if target == focusInput && m.state.InputDir() != "" && !m.running {
			return m, m.scan()
		}
		return m, nil

	case key.Matches(msg, k.Undo), key.Matches(msg, k.Redo):
		undo := key.Matches(msg, k.Undo)
		m.commitField(m.focus)
		var a selection.Action
		switch {
		case m.focus == focusInput && undo:
			a = selection.UndoInputDir{}
		case m.focus == focusInput:
			a = selection.RedoInputDir{}
		case undo:
			a = selection.UndoOutputDir{}
		default:
			a = selection.RedoOutputDir{}
		}
		_ = m.apply(a)
		m.syncFields()
		return m, nil

	case key.Matches(msg, k.Pick):
		return m, m.pickDir(m.focus)
	}

	var cmd tea.Cmd
	if m.focus == focusInput {
		m.inputField, cmd = m.inputField.Update(msg)
	} else {
		m.outputField, cmd = m.outputField.Update(msg)
	}
	return m, cmd
}

// scan starts a directory scan in the background
func (m *ConverterModel) scan() tea.Cmd {
	m.commitField(focusInput)
	dir := m.state.InputDir()
	if err := video.CheckInputDirectory(dir); err != nil {
		return m.setStatus(err.Error(), true)
	}

	m.scanning = true
	m.logf("Scanning %s...", dir)
	if utils.IsNetworkPath(dir) {
		m.logf("⚠️  Network drive detected, probing durations may be slow")
	}

	scanner := m.opts.Scanner
	return func() tea.Msg {
		if scanner == nil {
			return ScanFinishedMsg{Dir: dir, Err: fmt.Errorf("no scanner configured")}
		}
		files, err := scanner.Scan(context.Background(), dir)
		return ScanFinishedMsg{Dir: dir, Files: files, Err: err}
	}
}

func (m ConverterModel) handleScanFinished(msg ScanFinishedMsg) (tea.Model, tea.Cmd) {
	m.scanning = false
	if msg.Err != nil {
		m.logf("❌ Scan failed: %v", msg.Err)
		return m, m.setStatus(fmt.Sprintf("Scan failed: %v", msg.Err), true)
	}

	_ = m.apply(selection.Load{Files: msg.Files})
	m.cursor = 0
	m.logf("Found %d video files in %s", len(msg.Files), msg.Dir)
	if len(msg.Files) == 0 {
		return m, m.setStatus("No video files found", false)
	}
	return m, nil
}

func (m *ConverterModel) openOutput() tea.Cmd {
	dir := m.state.OutputDir()
	if dir == "" {
		return m.setStatus("Please select an output directory", true)
	}
	open := m.opts.OpenDir
	if open == nil {
		open = utils.OpenDirectory
	}
	return func() tea.Msg {
		return DirOpenedMsg{Dir: dir, Err: open(dir)}
	}
}

func (m ConverterModel) pickDir(target focusArea) tea.Cmd {
	if target == focusFiles {
		target = focusInput
	}
	title := "Select input directory"
	if target == focusOutput {
		title = "Select output directory"
	}
	pick := m.opts.PickDir
	return func() tea.Msg {
		if pick == nil {
			return DirPickedMsg{Target: target, Err: utils.ErrPickerUnavailable}
		}
		dir, err := pick(context.Background(), title)
		return DirPickedMsg{Target: target, Dir: dir, Err: err}
	}
}

func (m ConverterModel) handleDirPicked(msg DirPickedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// fall back to the built-in picker
		m.opts.Log.WithError(msg.Err).Debug("native picker unavailable")
		return m.openPicker(msg.Target)
	}
	m.setDir(msg.Target, msg.Dir)
	return m, nil
}

func (m *ConverterModel) setDir(target focusArea, dir string) {
	if target == focusOutput {
		_ = m.apply(selection.SetOutputDir{Dir: dir})
		m.logf("Output directory: %s", dir)
	} else {
		_ = m.apply(selection.SetInputDir{Dir: dir})
		m.logf("Input directory: %s", dir)
	}
	m.syncFields()
}

func (m ConverterModel) openPicker(target focusArea) (tea.Model, tea.Cmd) {
	fp := filepicker.New()
	fp.DirAllowed = true
	fp.FileAllowed = false
	fp.ShowHidden = false
	fp.AutoHeight = true

	start := m.state.InputDir()
	if target == focusOutput && m.state.OutputDir() != "" {
		start = m.state.OutputDir()
	}
	if fi, err := os.Stat(start); err != nil || !fi.IsDir() {
		if hd, err := os.UserHomeDir(); err == nil {
			start = hd
		} else {
			start = "."
		}
	}
	fp.CurrentDirectory = start

	m.picker = fp
	m.picking = true
	m.pickerTarget = target
	return m, tea.Batch(m.picker.Init(), func() tea.Msg {
		return tea.WindowSizeMsg{Width: m.width, Height: m.height}
	})
}

func (m ConverterModel) handlePickerInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" || msg.String() == "q" {
		m.picking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		m.setDir(m.pickerTarget, path)
	}
	return m, cmd
}
