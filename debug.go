package hologram

import "time"

// debugStats holds per-frame timing and population metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	updateTime time.Duration
	drawTime   time.Duration
	fieldCount int
	meltCount  int
	drawCalls  int
}

// safeCall recovers panics in fn, adding a stack dump in debug mode.
func (s *Scene) safeCall(name string, fn func()) bool {
	return safeCall(name, s.debug, fn)
}

// debugLog prints timing and population stats.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	logf("update: %v | draw: %v | total: %v",
		stats.updateTime, stats.drawTime, stats.updateTime+stats.drawTime)
	logf("field: %d | melting: %d/%d | draw calls: %d",
		stats.fieldCount, stats.meltCount, s.emitter.Len(), stats.drawCalls)
}
