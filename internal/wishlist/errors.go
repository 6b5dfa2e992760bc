package wishlist

import "errors"

var (
	// ErrNoRoleKeywords is the validation error for a role keyword field
	// that is empty or holds only commas and whitespace.
	ErrNoRoleKeywords = errors.New("please enter at least one role keyword")

	// ErrCycleInFlight is returned when Generate is called while another
	// generation cycle has not finished.
	ErrCycleInFlight = errors.New("wishlist generation already running")
)
