package selection

import "errors"

var (
	// ErrIndexOutOfRange indicates an action referred to a file that is not in the list.
	ErrIndexOutOfRange = errors.New("file index out of range")

	// ErrUnknownAction indicates an action type the state does not handle.
	ErrUnknownAction = errors.New("unknown action")
)
