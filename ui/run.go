package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/resolveconv/convert"
	"github.com/lepinkainen/resolveconv/selection"
)

// startConversion validates the selection and either starts the run or
// asks how to handle existing destination files
func (m ConverterModel) startConversion() (tea.Model, tea.Cmd) {
	if m.scanning {
		return m, m.setStatus("Busy, wait for the scan to finish", true)
	}

	req, err := m.state.BuildRequest(convert.PolicyOverwrite)
	if err != nil {
		return m, m.setStatus("⚠️  "+err.Error(), true)
	}

	conflicts := req.Conflicts()
	if len(conflicts) == 0 {
		return m, m.beginRun(req)
	}

	if m.opts.OnConflict != "ask" {
		policy, err := convert.ParsePolicy(m.opts.OnConflict)
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		m.logf("%d files already exist, using configured policy: %s", len(conflicts), policy)
		return m, m.beginRun(req.WithPolicy(policy))
	}

	m.pendingReq = req
	m.conflicts = conflicts
	m.conflictCursor = 0
	return m, nil
}

// conflictChoices is the number of rows in the conflict dialog: every policy plus cancel
func conflictChoices() int {
	return len(convert.Policies()) + 1
}

func (m ConverterModel) handleConflictInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch s := msg.String(); s {
	case "up", "k":
		if m.conflictCursor > 0 {
			m.conflictCursor--
		}
	case "down", "j":
		if m.conflictCursor < conflictChoices()-1 {
			m.conflictCursor++
		}
	case "1", "2", "3", "4":
		return m.chooseConflict(int(s[0] - '1'))
	case "enter":
		return m.chooseConflict(m.conflictCursor)
	case "esc", "c", "q":
		return m.chooseConflict(conflictChoices() - 1)
	}
	return m, nil
}

func (m ConverterModel) chooseConflict(choice int) (tea.Model, tea.Cmd) {
	req := m.pendingReq
	m.conflicts = nil
	m.pendingReq = convert.Request{}

	policies := convert.Policies()
	if choice < 0 || choice >= len(policies) {
		m.logf("Conversion cancelled")
		return m, nil
	}

	policy := policies[choice]
	m.logf("Conflict resolution: %s", policy.Description())
	return m, m.beginRun(req.WithPolicy(policy))
}

// beginRun hands req to the worker and starts listening for its events
func (m *ConverterModel) beginRun(req convert.Request) tea.Cmd {
	if m.opts.Orchestrator == nil {
		return m.setStatus("No converter configured", true)
	}

	_ = m.apply(selection.ResetSelected{})
	m.runIndexes = m.state.SelectedIndexes()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.stopping = false
	m.done, m.total = 0, len(req.Files)

	m.opts.Log.WithField("run", req.RunID.String()).Infof("starting conversion of %d files", len(req.Files))
	m.logf("Starting conversion of %d videos to %s", len(req.Files), req.Profile.Name)
	m.events = m.opts.Orchestrator.Start(ctx, req)
	return listen(m.events)
}

// requestStop cancels the run. The worker stops before the next file.
func (m ConverterModel) requestStop() (tea.Model, tea.Cmd) {
	if !m.running || m.stopping {
		return m, nil
	}
	m.stopping = true
	if m.cancel != nil {
		m.cancel()
	}
	m.logf("Stopping conversion...")
	return m, nil
}

func (m ConverterModel) handleEvent(ev convert.Event) (tea.Model, tea.Cmd) {
	if m.events == nil {
		return m, nil
	}

	switch ev.Kind {
	case convert.EventLog:
		m.appendLog(convert.FormatLogLine(ev.Time, ev.Line))

	case convert.EventProgress:
		m.done, m.total = ev.Done, ev.Total

	case convert.EventFileStatus:
		if ev.Index >= 0 && ev.Index < len(m.runIndexes) {
			if err := m.apply(selection.SetStatus{Index: m.runIndexes[ev.Index], Status: ev.File.Status}); err != nil {
				m.opts.Log.WithError(err).Warn("status update dropped")
			}
		}

	case convert.EventDone:
		m.finishRun()
		var cmd tea.Cmd
		if ev.Err != nil {
			m.logf("❌ %v", ev.Err)
			cmd = m.setStatus(ev.Err.Error(), true)
		} else {
			summary := ev.Result.Summary()
			m.logf("%s", summary)
			cmd = m.setStatus(summary, ev.Result.Outcome != convert.OutcomeAllConverted)
		}
		if m.quitAfterRun {
			return m.quit()
		}
		return m, cmd
	}

	return m, listen(m.events)
}

// Shutdown stops a run still in progress and drains the worker's events
// until it exits. It reports false when the worker outlived timeout.
func (m ConverterModel) Shutdown(timeout time.Duration) bool {
	if m.cancel != nil {
		m.cancel()
	}
	if m.events == nil {
		return true
	}

	deadline := time.After(timeout)
	for {
		select {
		case _, ok := <-m.events:
			if !ok {
				return true
			}
		case <-deadline:
			return false
		}
	}
}

func (m *ConverterModel) finishRun() {
	if m.cancel != nil {
		m.cancel()
	}
	m.cancel = nil
	m.events = nil
	m.running = false
	m.stopping = false
	m.runIndexes = nil
}

// progressRatio is the fraction of processed files in the current run
func (m ConverterModel) progressRatio() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

func (m ConverterModel) progressLabel() string {
	return fmt.Sprintf("%d/%d", m.done, m.total)
}
