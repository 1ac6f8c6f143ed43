// Package cfmetrics provides an explicit, caller-owned alternative to the
// process-wide timing globals of the original reference implementation
// (Codec/timing.h). The engine never reads or writes package-level
// mutable state; a *Counters is threaded through calls that want timing
// and is safely nil when the caller does not care.
package cfmetrics

import "time"

// Counters accumulates per-level wall-clock timings for one transform
// run. The zero value is usable; a nil *Counters is also safe to call
// methods on (all methods are no-ops in that case).
type Counters struct {
	spans   map[string]time.Duration
	started map[string]time.Time
}

// Begin records the start of the named span (typically a pyramid level,
// e.g. "forward-level-2"). Calling Begin again before End overwrites the
// previous start time.
func (c *Counters) Begin(name string) {
	if c == nil {
		return
	}
	if c.started == nil {
		c.started = make(map[string]time.Time)
	}
	c.started[name] = time.Now()
}

// End closes the named span and accumulates its elapsed time.
func (c *Counters) End(name string) {
	if c == nil {
		return
	}
	start, ok := c.started[name]
	if !ok {
		return
	}
	if c.spans == nil {
		c.spans = make(map[string]time.Duration)
	}
	c.spans[name] += time.Since(start)
	delete(c.started, name)
}

// Elapsed returns the accumulated duration for a span, or 0 if never
// recorded.
func (c *Counters) Elapsed(name string) time.Duration {
	if c == nil {
		return 0
	}
	return c.spans[name]
}

// Reset clears all accumulated spans.
func (c *Counters) Reset() {
	if c == nil {
		return
	}
	c.spans = nil
	c.started = nil
}
