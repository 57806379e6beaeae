package engine

import "github.com/jonboulle/clockwork"

// clock stamps views and times derivations; tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the engine time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
