package stats

import "sync/atomic"
import "unsafe"

/// Stats gates whether Counter_t increments actually count. It is a
/// build-time constant, set on here so the scheduler's Metrics_t
/// counters count, matching the teacher's build-time enable/disable
/// convention for instrumentation.
const Stats = true

/// Counter_t is a statistical counter.
type Counter_t int64

/// Inc increments the counter.
func (c *Counter_t) Inc() {
	if Stats {
		n := (*int64)(unsafe.Pointer(c))
		atomic.AddInt64(n, 1)
	}
}

/// Get returns the counter's current value.
func (c *Counter_t) Get() int64 {
	n := (*int64)(unsafe.Pointer(c))
	return atomic.LoadInt64(n)
}
