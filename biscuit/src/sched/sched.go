package sched

import "defs"
import "stats"
import "task"

/// Metrics_t counts scheduler events the way the teacher's Stats-gated
/// Counter_t fields count subsystem hits, repurposed here for
/// preemptions and context switches instead of per-driver IRQ counts.
type Metrics_t struct {
	Preemptions     stats.Counter_t
	ContextSwitches stats.Counter_t
	TicksServed     stats.Counter_t
}

/// Scheduler_t is the preemptive, priority-ordered round-robin
/// scheduler. It has no lock of its own: every exported kernel entry
/// point takes the kernel-wide mutex for its whole body (spec.md §5),
/// so Scheduler_t's methods assume the caller already holds it.
type Scheduler_t struct {
	Tbl     *task.Table_t
	Idle    int
	Metrics Metrics_t
}

/// NewScheduler returns a scheduler over tbl, with idle as the index of
/// the always-runnable idle task.
func NewScheduler(tbl *task.Table_t, idle int) *Scheduler_t {
	return &Scheduler_t{Tbl: tbl, Idle: idle}
}

/// needsReschedule reports whether the running task's quantum has been
/// exhausted, a direct port of needs_sched_rr.
func (s *Scheduler_t) needsReschedule(cur int) bool {
	tc := s.Tbl.Get(cur)
	return tc.RemainingQuantum <= 0
}

/// requeue moves the running task back onto the ready queue at its
/// priority band and resets its quantum, a direct port of
/// update_sched_data_rr.
func (s *Scheduler_t) requeue(cur int) {
	tc := s.Tbl.Get(cur)
	tc.RemainingQuantum = defs.DEFAULT_QUANTUM
	if cur != s.Idle {
		s.Tbl.ReadyInsertOrdered(cur)
	}
	tc.Stats.Transition()
}

/// pickNext pops the highest-priority ready task, or the idle task if
/// none is ready, a direct port of sched_next_rr.
func (s *Scheduler_t) pickNext() int {
	idx, ok := s.Tbl.ReadyPopHead()
	if !ok {
		idx = s.Idle
	}
	tc := s.Tbl.Get(idx)
	tc.RemainingQuantum = defs.DEFAULT_QUANTUM
	s.Tbl.SetCurrent(idx)
	s.Metrics.ContextSwitches.Inc()
	tc.Stats.Transition()
	return idx
}

/// switchOut takes the current task off RUN for Block (a task that
/// blocked or exited), requeuing it only when requeue is set.
func (s *Scheduler_t) switchOut(cur int, requeue bool) {
	if requeue {
		s.requeue(cur)
	}
}

/// Tick runs the scheduler's once-per-clock-tick work: charge the
/// running task a tick, then follow spec.md §4.3 step 4's clause order —
/// quantum expiry with a non-empty ready queue preempts; failing that, a
/// strictly higher-priority ready head preempts immediately; failing
/// that, an expired quantum with an empty ready queue just reloads and
/// keeps the same task running. It returns the index of the task that
/// should run next (unchanged from the prior tick if no switch
/// occurred).
func (s *Scheduler_t) Tick() int {
	s.Metrics.TicksServed.Inc()
	cur, ok := s.Tbl.Current()
	if !ok {
		return s.pickNext()
	}
	tc := s.Tbl.Get(cur)
	tc.Stats.AddUser(1)
	tc.RemainingQuantum--

	if s.needsReschedule(cur) {
		if !s.Tbl.ReadyEmpty() {
			s.requeue(cur)
			return s.pickNext()
		}
		tc.RemainingQuantum = defs.DEFAULT_QUANTUM
		return cur
	}

	if head, ok := s.Tbl.ReadyPeekHead(); ok && s.Tbl.Get(head).Priority > tc.Priority {
		s.Metrics.Preemptions.Inc()
		s.requeue(cur)
		return s.pickNext()
	}
	return cur
}

/// Preempt is called whenever a task transitions to READY outside of
/// Tick (clone, sem_post, SetPriority); a pause expiry is handled by
/// Tick's own higher-priority check instead. If the newly ready task has
/// strictly higher priority than the running task, it preempts
/// immediately, matching spec.md's "immediate preemption on
/// higher-priority arrival" invariant.
func (s *Scheduler_t) Preempt() int {
	cur, ok := s.Tbl.Current()
	if !ok {
		return s.pickNext()
	}
	head, ok := s.Tbl.ReadyPeekHead()
	if !ok {
		return cur
	}
	if s.Tbl.Get(head).Priority <= s.Tbl.Get(cur).Priority {
		return cur
	}
	s.Metrics.Preemptions.Inc()
	s.requeue(cur)
	return s.pickNext()
}

/// Yield voluntarily gives up the remainder of the running task's
/// quantum.
func (s *Scheduler_t) Yield() int {
	cur, ok := s.Tbl.Current()
	if !ok {
		return s.pickNext()
	}
	s.requeue(cur)
	return s.pickNext()
}

/// Block removes the running task from RUN state without requeuing it
/// (the caller — pause or sem_wait — has already placed it on the
/// appropriate blocked queue) and picks the next task to run.
func (s *Scheduler_t) Block(cur int) int {
	s.switchOut(cur, false)
	return s.pickNext()
}
