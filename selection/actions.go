package selection

import (
	"github.com/lepinkainen/resolveconv/convert"
	"github.com/lepinkainen/resolveconv/video"
)

// Action is a user command applied to State
type Action interface {
	action()
}

// Load replaces the file list with the result of a scan
type Load struct{ Files []video.VideoFile }

// Toggle flips the selection of one file
type Toggle struct{ Index int }

// SelectAll selects every file
type SelectAll struct{}

// DeselectAll clears every selection
type DeselectAll struct{}

// RemoveSelected drops the selected files from the list
type RemoveSelected struct{}

// Clear empties the list
type Clear struct{}

// SetStatus moves one file to a new status
type SetStatus struct {
	Index  int
	Status video.Status
}

// ResetSelected puts every selected file back to StatusReady before a new run
type ResetSelected struct{}

// SetInputDir changes the input directory and records it for undo
type SetInputDir struct{ Dir string }

// SetOutputDir changes the output directory and records it for undo
type SetOutputDir struct{ Dir string }

// UndoInputDir restores the previous input directory
type UndoInputDir struct{}

// RedoInputDir reapplies an undone input directory
type RedoInputDir struct{}

// UndoOutputDir restores the previous output directory
type UndoOutputDir struct{}

// RedoOutputDir reapplies an undone output directory
type RedoOutputDir struct{}

// SetFormat chooses the output profile
type SetFormat struct{ Profile convert.Profile }

func (Load) action()           {}
func (Toggle) action()         {}
func (SelectAll) action()      {}
func (DeselectAll) action()    {}
func (RemoveSelected) action() {}
func (Clear) action()          {}
func (SetStatus) action()      {}
func (ResetSelected) action()  {}
func (SetInputDir) action()    {}
func (SetOutputDir) action()   {}
func (UndoInputDir) action()   {}
func (RedoInputDir) action()   {}
func (UndoOutputDir) action()  {}
func (RedoOutputDir) action()  {}
func (SetFormat) action()      {}
