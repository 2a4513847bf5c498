package session

import "time"

// emitGate enforces the emission policy: never send the same dedup key
// twice in a row, and keep consecutive emissions at least minGap apart.
// The very first emission is exempt from the spacing rule.
type emitGate struct {
	minGap   time.Duration
	lastKey  string
	lastEmit time.Time
	emitted  bool
}

func newEmitGate(minGap time.Duration) *emitGate {
	return &emitGate{minGap: minGap}
}

// Allow reports whether text with the given dedup key may be emitted
// now, and records the emission when it may.
func (g *emitGate) Allow(key string, now time.Time) bool {
	if key == g.lastKey {
		return false
	}
	if g.emitted && now.Sub(g.lastEmit) < g.minGap {
		return false
	}
	g.lastKey = key
	g.lastEmit = now
	g.emitted = true
	return true
}

// Reset clears emission history, e.g. on a "start" control message.
func (g *emitGate) Reset() {
	g.lastKey = ""
	g.lastEmit = time.Time{}
	g.emitted = false
}
