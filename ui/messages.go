package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/resolveconv/convert"
	"github.com/lepinkainen/resolveconv/video"
)

// TUI Message Types for worker communication
type ScanFinishedMsg struct {
	Dir   string
	Files []video.VideoFile
	Err   error
}

type ConversionEventMsg struct {
	Event convert.Event
}

// WorkerClosedMsg arrives when the event channel closed without an EventDone
type WorkerClosedMsg struct{}

type DirPickedMsg struct {
	Target focusArea
	Dir    string
	Err    error
}

type DirOpenedMsg struct {
	Dir string
	Err error
}

type clearStatusMsg struct{ seq int }

// listen waits for the next worker event
func listen(events <-chan convert.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return WorkerClosedMsg{}
		}
		return ConversionEventMsg{Event: ev}
	}
}
