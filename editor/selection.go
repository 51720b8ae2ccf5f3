package editor

import (
	"errors"

	"github.com/milk9111/tilepaint/common"
)

var errEmptySelection = errors.New("editor: selection needs at least one item")

// Selection is a non-empty list with a current item. A clamped selection
// stops at either end; a ring selection wraps around.
type Selection[T any] struct {
	items []T
	index int
	wrap  bool
}

// NewClamped returns a selection that saturates at the first and last item.
func NewClamped[T any](items []T, start int) (Selection[T], error) {
	return newSelection(items, start, false)
}

// NewRing returns a selection whose Next and Prev wrap around.
func NewRing[T any](items []T, start int) (Selection[T], error) {
	return newSelection(items, start, true)
}

func newSelection[T any](items []T, start int, wrap bool) (Selection[T], error) {
	if len(items) == 0 {
		return Selection[T]{}, errEmptySelection
	}
	return Selection[T]{
		items: items,
		index: common.Clamp(start, 0, len(items)-1),
		wrap:  wrap,
	}, nil
}

// Next advances the selection by one.
func (s *Selection[T]) Next() { s.step(1) }

// Prev moves the selection back by one.
func (s *Selection[T]) Prev() { s.step(-1) }

func (s *Selection[T]) step(d int) {
	if s.wrap {
		s.index = common.Wrap(s.index+d, len(s.items))
		return
	}
	s.index = common.Clamp(s.index+d, 0, len(s.items)-1)
}

// Select moves to index i. It reports false and leaves the selection
// unchanged when i is out of range.
func (s *Selection[T]) Select(i int) bool {
	if i < 0 || i >= len(s.items) {
		return false
	}
	s.index = i
	return true
}

func (s *Selection[T]) Index() int { return s.index }

func (s *Selection[T]) Current() T { return s.items[s.index] }

func (s *Selection[T]) Len() int { return len(s.items) }

// Items returns the underlying list; callers must not modify it.
func (s *Selection[T]) Items() []T { return s.items }
