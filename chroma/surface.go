package chroma

import "errors"

// Surface is anything that displays the composite color.
// All methods may be called from the loop worker goroutine.
type Surface interface {
	// SetBackgroundColor publishes one composite color; failures are not fatal to the loop
	SetBackgroundColor(c RGB) error
	// ShowIdle resets the surface to the stopped state with the start control visible
	ShowIdle()
	// ShowAnimating hides the start control ahead of a new run
	ShowAnimating()
}

// Surfaces fans every call out to each member
type Surfaces []Surface

func (ss Surfaces) SetBackgroundColor(c RGB) error {
	var errs []error
	for _, s := range ss {
		if err := s.SetBackgroundColor(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (ss Surfaces) ShowIdle() {
	for _, s := range ss {
		s.ShowIdle()
	}
}

func (ss Surfaces) ShowAnimating() {
	for _, s := range ss {
		s.ShowAnimating()
	}
}
