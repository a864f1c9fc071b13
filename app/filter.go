package app

import (
	"fmt"

	"todo-remote/model"
)

// FilterSelector is the filter dropdown: a closed option set, the current
// choice, and whether the option list is showing.
type FilterSelector struct {
	selected model.Filter
	open     bool
	onChange func(model.Filter)
}

// NewFilterSelector starts at FilterAll. onChange is called synchronously on
// every selection.
func NewFilterSelector(onChange func(model.Filter)) *FilterSelector {
	return &FilterSelector{selected: model.FilterAll, onChange: onChange}
}

func (s *FilterSelector) Options() []model.Filter { return model.Filters() }
func (s *FilterSelector) Selected() model.Filter  { return s.selected }
func (s *FilterSelector) IsOpen() bool            { return s.open }

// Toggle opens or closes the option list.
func (s *FilterSelector) Toggle() {
	s.open = !s.open
}

// Close hides the option list without changing the selection.
func (s *FilterSelector) Close() {
	s.open = false
}

// Select sets the filter, closes the option list and notifies the owner.
func (s *FilterSelector) Select(f model.Filter) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFilter, f)
	}
	s.selected = f
	s.open = false
	if s.onChange != nil {
		s.onChange(f)
	}
	return nil
}

// Next selects the option after the current one, wrapping around.
func (s *FilterSelector) Next() model.Filter {
	return s.step(1)
}

// Prev selects the option before the current one, wrapping around.
func (s *FilterSelector) Prev() model.Filter {
	return s.step(-1)
}

func (s *FilterSelector) step(delta int) model.Filter {
	opts := model.Filters()
	idx := 0
	for i, f := range opts {
		if f == s.selected {
			idx = i
			break
		}
	}
	next := opts[(idx+delta+len(opts))%len(opts)]
	_ = s.Select(next)
	return next
}
