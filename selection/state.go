// Package selection holds the user's working set: discovered files, which of
// them are selected, the chosen directories and the output format.
package selection

import (
	"fmt"
	"slices"

	"github.com/lepinkainen/resolveconv/convert"
	"github.com/lepinkainen/resolveconv/utils"
	"github.com/lepinkainen/resolveconv/video"
)

// State is an immutable snapshot. Apply returns a new State and never
// modifies the receiver.
type State struct {
	files     []video.VideoFile
	inputDir  utils.History[string]
	outputDir utils.History[string]
	profile   convert.Profile
}

// New creates a state with the given starting directories and format
func New(inputDir, outputDir string, profile convert.Profile) State {
	if profile.ID == "" {
		profile = convert.DefaultProfile()
	}
	return State{
		inputDir:  utils.NewHistory(inputDir, utils.DefaultHistoryCapacity),
		outputDir: utils.NewHistory(outputDir, utils.DefaultHistoryCapacity),
		profile:   profile,
	}
}

// Apply dispatches one action
func (s State) Apply(a Action) (State, error) {
	switch a := a.(type) {
	case Load:
		s.files = slices.Clone(a.Files)
	case Toggle:
		if err := s.checkIndex(a.Index); err != nil {
			return s, err
		}
		s.files = slices.Clone(s.files)
		s.files[a.Index].Selected = !s.files[a.Index].Selected
	case SelectAll:
		s.files = setSelected(s.files, true)
	case DeselectAll:
		s.files = setSelected(s.files, false)
	case RemoveSelected:
		s.files = slices.DeleteFunc(slices.Clone(s.files), func(f video.VideoFile) bool { return f.Selected })
	case Clear:
		s.files = nil
	case SetStatus:
		if err := s.checkIndex(a.Index); err != nil {
			return s, err
		}
		files := slices.Clone(s.files)
		if err := files[a.Index].Transition(a.Status); err != nil {
			return s, fmt.Errorf("%s: %w", files[a.Index].Name, err)
		}
		s.files = files
	case ResetSelected:
		files := slices.Clone(s.files)
		for i := range files {
			if files[i].Selected {
				files[i].Status = video.StatusReady
			}
		}
		s.files = files
	case SetInputDir:
		s.inputDir = s.inputDir.Push(a.Dir)
	case SetOutputDir:
		s.outputDir = s.outputDir.Push(a.Dir)
	case UndoInputDir:
		s.inputDir, _, _ = s.inputDir.Undo()
	case RedoInputDir:
		s.inputDir, _, _ = s.inputDir.Redo()
	case UndoOutputDir:
		s.outputDir, _, _ = s.outputDir.Undo()
	case RedoOutputDir:
		s.outputDir, _, _ = s.outputDir.Redo()
	case SetFormat:
		if _, err := convert.LookupProfile(a.Profile.ID); err != nil {
			return s, err
		}
		s.profile = a.Profile
	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
	return s, nil
}

func (s State) checkIndex(i int) error {
	if i < 0 || i >= len(s.files) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(s.files))
	}
	return nil
}

func setSelected(files []video.VideoFile, selected bool) []video.VideoFile {
	out := slices.Clone(files)
	for i := range out {
		out[i].Selected = selected
	}
	return out
}

// Files returns a copy of the file list
func (s State) Files() []video.VideoFile { return slices.Clone(s.files) }

// File returns the file at index i
func (s State) File(i int) (video.VideoFile, bool) {
	if s.checkIndex(i) != nil {
		return video.VideoFile{}, false
	}
	return s.files[i], true
}

// Len is the number of files in the list
func (s State) Len() int { return len(s.files) }

// InputDir is the current input directory
func (s State) InputDir() string { return s.inputDir.Current() }

// OutputDir is the current output directory
func (s State) OutputDir() string { return s.outputDir.Current() }

// Profile is the chosen output format
func (s State) Profile() convert.Profile { return s.profile }

// CanUndoInput reports whether UndoInputDir would change anything
func (s State) CanUndoInput() bool { return s.inputDir.CanUndo() }

// CanUndoOutput reports whether UndoOutputDir would change anything
func (s State) CanUndoOutput() bool { return s.outputDir.CanUndo() }

// Selected returns the selected files in list order
func (s State) Selected() []video.VideoFile {
	var out []video.VideoFile
	for _, f := range s.files {
		if f.Selected {
			out = append(out, f)
		}
	}
	return out
}

// SelectedCount is the number of selected files
func (s State) SelectedCount() int {
	n := 0
	for _, f := range s.files {
		if f.Selected {
			n++
		}
	}
	return n
}

// SelectedIndexes maps positions in Selected() back to list indexes
func (s State) SelectedIndexes() []int {
	var out []int
	for i, f := range s.files {
		if f.Selected {
			out = append(out, i)
		}
	}
	return out
}

// CanConvert reports whether a run could start with the current state
func (s State) CanConvert() bool {
	return s.SelectedCount() > 0 && s.OutputDir() != "" && len(s.files) > 0
}

// BuildRequest snapshots the selection into a conversion request
func (s State) BuildRequest(policy convert.Policy) (convert.Request, error) {
	return convert.NewRequest(s.files, s.profile, s.OutputDir(), policy)
}

// Conflicts checks the destinations of the selected files
func (s State) Conflicts() convert.Conflicts {
	return convert.DetectConflicts(s.files, s.OutputDir(), s.profile)
}

// Summary is the status line describing the list
func (s State) Summary() string {
	return fmt.Sprintf("%d videos, %d selected", len(s.files), s.SelectedCount())
}
