package pager

import "time"

// DebounceDelay is the quiet period after the last keystroke before a
// free-text query triggers a fetch.
const DebounceDelay = 500 * time.Millisecond

// Debounce implements settle-after-quiet-period by generation counting:
// every change arms a new generation, implicitly invalidating any timer
// armed for an earlier one. The caller schedules the timer (tea.Tick in
// the TUI) and asks Fires when it lands; only the input's final resting
// value ever fires.
//
// Not safe for concurrent use; in the TUI all calls happen on the single
// Update goroutine.
type Debounce struct {
	Gen int
}

// Arm registers a change and returns the generation the caller should
// attach to its timer.
func (d *Debounce) Arm() int {
	d.Gen++
	return d.Gen
}

// Fires reports whether a timer armed at gen is still the latest, i.e.
// no further change superseded it during the quiet period.
func (d *Debounce) Fires(gen int) bool {
	return gen == d.Gen
}
