package backtest

import (
	"errors"
	"fmt"

	"curve-lab/internal/launchdata"
)

// ErrInvalidWindow is returned by ParseWindow for unusable bounds.
var ErrInvalidWindow = errors.New("invalid backtest window")

// Window bounds a run by launch timestamp, inclusive on both ends.
// A zero bound is open.
type Window struct {
	FromMs int64
	ToMs   int64
}

// ParseWindow builds a window from ISO 8601 bounds. An empty string leaves
// that side open.
func ParseWindow(from, to string) (Window, error) {
	var w Window
	var err error
	if from != "" {
		if w.FromMs, err = launchdata.ParseTimestamp(from); err != nil {
			return Window{}, fmt.Errorf("%w: from: %v", ErrInvalidWindow, err)
		}
	}
	if to != "" {
		if w.ToMs, err = launchdata.ParseTimestamp(to); err != nil {
			return Window{}, fmt.Errorf("%w: to: %v", ErrInvalidWindow, err)
		}
	}
	if w.FromMs != 0 && w.ToMs != 0 && w.FromMs > w.ToMs {
		return Window{}, fmt.Errorf("%w: from %s is after to %s", ErrInvalidWindow, from, to)
	}
	return w, nil
}

// Contains reports whether ts falls inside the window.
func (w Window) Contains(ts int64) bool {
	if w.FromMs != 0 && ts < w.FromMs {
		return false
	}
	if w.ToMs != 0 && ts > w.ToMs {
		return false
	}
	return true
}
