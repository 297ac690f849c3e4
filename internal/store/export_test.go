package store

import "time"

// SetClock overrides the build timestamp source.
func (s *Store) SetClock(fn func() time.Time) {
	s.now = fn
}
