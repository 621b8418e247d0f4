package accnt

import "sync"
import "sync/atomic"

import "util"

/**
 * Stats_t accumulates per-task tick accounting, the fields get_stats
 * reports. The embedded mutex lets Fetch take a consistent snapshot
 * the way Accnt_t.To_rusage does for user/system time.
 */
type Stats_t struct {
	/// Ticks spent running.
	UserTicks int64
	/// Ticks spent in the scheduler/kernel on this task's behalf.
	SystemTicks int64
	/// Ticks spent ready but not running.
	ReadyTicks int64
	/// Ticks spent blocked (semaphore wait or pause).
	BlockedTicks int64
	/// Ticks elapsed since the task was created.
	ElapsedTotalTicks int64
	/// Number of RUN<->READY transitions the scheduler has charged.
	TotalTransitions int64
	/// Ticks remaining in the task's current quantum.
	RemainingTicks int64

	sync.Mutex
}

/// AddUser charges delta ticks of running time.
func (a *Stats_t) AddUser(delta int64) {
	atomic.AddInt64(&a.UserTicks, delta)
	atomic.AddInt64(&a.ElapsedTotalTicks, delta)
}

/// AddSystem charges delta ticks of scheduler bookkeeping time.
func (a *Stats_t) AddSystem(delta int64) {
	atomic.AddInt64(&a.SystemTicks, delta)
	atomic.AddInt64(&a.ElapsedTotalTicks, delta)
}

/// AddReady charges delta ticks of ready-but-not-running time.
func (a *Stats_t) AddReady(delta int64) {
	atomic.AddInt64(&a.ReadyTicks, delta)
	atomic.AddInt64(&a.ElapsedTotalTicks, delta)
}

/// AddBlocked charges delta ticks of blocked time.
func (a *Stats_t) AddBlocked(delta int64) {
	atomic.AddInt64(&a.BlockedTicks, delta)
	atomic.AddInt64(&a.ElapsedTotalTicks, delta)
}

/// Transition records a RUN<->READY switch charged by the scheduler.
func (a *Stats_t) Transition() {
	atomic.AddInt64(&a.TotalTransitions, 1)
}

/// SetRemaining updates the ticks left in the task's current quantum.
func (a *Stats_t) SetRemaining(n int64) {
	atomic.StoreInt64(&a.RemainingTicks, n)
}

/// Fetch returns a consistent snapshot of the accounting fields.
func (a *Stats_t) Fetch() Stats_t {
	a.Lock()
	defer a.Unlock()
	return Stats_t{
		UserTicks:         atomic.LoadInt64(&a.UserTicks),
		SystemTicks:       atomic.LoadInt64(&a.SystemTicks),
		ReadyTicks:        atomic.LoadInt64(&a.ReadyTicks),
		BlockedTicks:      atomic.LoadInt64(&a.BlockedTicks),
		ElapsedTotalTicks: atomic.LoadInt64(&a.ElapsedTotalTicks),
		TotalTransitions:  atomic.LoadInt64(&a.TotalTransitions),
		RemainingTicks:    atomic.LoadInt64(&a.RemainingTicks),
	}
}

/// Encode serializes a snapshot into the wire layout get_stats returns,
/// seven 8-byte little-endian-in-host-order fields, the same
/// util.Writen encoding Accnt_t.To_rusage uses for timevals.
func (s Stats_t) Encode() []uint8 {
	fields := 7
	ret := make([]uint8, fields*8)
	off := 0
	for _, v := range []int64{
		s.UserTicks, s.SystemTicks, s.ReadyTicks, s.BlockedTicks,
		s.ElapsedTotalTicks, s.TotalTransitions, s.RemainingTicks,
	} {
		util.Writen(ret, 8, off, int(v))
		off += 8
	}
	return ret
}
