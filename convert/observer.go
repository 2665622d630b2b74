package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/lepinkainen/resolveconv/video"
)

// Observer receives everything a run reports. Calls come from the worker
// goroutine; implementations hand the data over to whatever renders it.
type Observer interface {
	// Log is one line for the user-visible conversion log
	Log(line string)
	// Progress reports done files out of total before each file and once at the end
	Progress(done, total int)
	// FileStatus reports a status change of the file at index in Request.Files
	FileStatus(index int, file video.VideoFile)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are ignored.
type ObserverFuncs struct {
	LogFunc        func(line string)
	ProgressFunc   func(done, total int)
	FileStatusFunc func(index int, file video.VideoFile)
}

func (o ObserverFuncs) Log(line string) {
	if o.LogFunc != nil {
		o.LogFunc(line)
	}
}

func (o ObserverFuncs) Progress(done, total int) {
	if o.ProgressFunc != nil {
		o.ProgressFunc(done, total)
	}
}

func (o ObserverFuncs) FileStatus(index int, file video.VideoFile) {
	if o.FileStatusFunc != nil {
		o.FileStatusFunc(index, file)
	}
}

// EventKind tells which field of an Event is set
type EventKind int

const (
	EventLog EventKind = iota
	EventProgress
	EventFileStatus
	EventDone
)

// Event is one Observer call, or the end of a run, as a value
type Event struct {
	Kind  EventKind
	Time  time.Time
	Line  string
	Done  int
	Total int
	Index int
	File  video.VideoFile
	// Result and Err are set on EventDone. Err is non-nil only when the
	// worker itself crashed.
	Result Result
	Err    error
}

// channelObserver forwards observer calls as events
type channelObserver struct {
	ch  chan<- Event
	now func() time.Time
}

func (c channelObserver) Log(line string) {
	c.ch <- Event{Kind: EventLog, Time: c.now(), Line: line}
}

func (c channelObserver) Progress(done, total int) {
	c.ch <- Event{Kind: EventProgress, Time: c.now(), Done: done, Total: total}
}

func (c channelObserver) FileStatus(index int, file video.VideoFile) {
	c.ch <- Event{Kind: EventFileStatus, Time: c.now(), Index: index, File: file}
}

// Start runs req on a new worker goroutine. Every observer call arrives on the
// returned channel in order, followed by one EventDone; then the channel is
// closed. The caller must drain the channel.
func (o *Orchestrator) Start(ctx context.Context, req Request) <-chan Event {
	events := make(chan Event, 64)
	go func() {
		defer close(events)
		defer func() {
			if r := recover(); r != nil {
				o.logger().Errorf("conversion worker crashed: %v", r)
				events <- Event{Kind: EventDone, Time: o.now(), Err: fmt.Errorf("conversion worker crashed: %v", r)}
			}
		}()

		res := o.Run(ctx, req, channelObserver{ch: events, now: o.now})
		events <- Event{Kind: EventDone, Time: o.now(), Result: res}
	}()
	return events
}
