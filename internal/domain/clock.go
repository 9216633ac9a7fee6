package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze time via SetClock.
// The parsers use it for the timestamp-fallback rule and for created_at, so a
// fake clock makes their output fully deterministic.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by the parsers. Pass nil to reset to
// real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
