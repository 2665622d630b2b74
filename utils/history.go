package utils

// DefaultHistoryCapacity is the number of entries kept per history
const DefaultHistoryCapacity = 20

// History is a bounded undo/redo stack of values.
// The zero value is not usable; create one with NewHistory.
type History[T comparable] struct {
	entries  []T
	cursor   int
	capacity int
}

// NewHistory creates a history holding initial as its only entry.
// A capacity below 1 uses DefaultHistoryCapacity.
func NewHistory[T comparable](initial T, capacity int) History[T] {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	return History[T]{entries: []T{initial}, capacity: capacity}
}

// Current returns the value under the cursor
func (h History[T]) Current() T {
	return h.entries[h.cursor]
}

// Push records value as the new current entry. Anything that could be redone is
// dropped, and the oldest entry is evicted past capacity. Pushing the current
// value is a no-op.
func (h History[T]) Push(value T) History[T] {
	if value == h.Current() {
		return h
	}

	entries := make([]T, h.cursor+1, h.cursor+2)
	copy(entries, h.entries[:h.cursor+1])
	entries = append(entries, value)

	if over := len(entries) - h.capacity; over > 0 {
		entries = entries[over:]
	}

	h.entries = entries
	h.cursor = len(entries) - 1
	return h
}

// Undo moves the cursor back. ok is false when there is nothing to undo.
func (h History[T]) Undo() (History[T], T, bool) {
	if h.cursor == 0 {
		return h, h.Current(), false
	}
	h.cursor--
	return h, h.Current(), true
}

// Redo moves the cursor forward. ok is false when there is nothing to redo.
func (h History[T]) Redo() (History[T], T, bool) {
	if h.cursor >= len(h.entries)-1 {
		return h, h.Current(), false
	}
	h.cursor++
	return h, h.Current(), true
}

// CanUndo reports whether Undo would move the cursor
func (h History[T]) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor
func (h History[T]) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Len is the number of stored entries
func (h History[T]) Len() int { return len(h.entries) }
