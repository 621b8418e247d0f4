// Package semaphore implements counting semaphores and pause(), the two
// blocking primitives sched.Scheduler hands off to: both move a task
// off RUN and onto a blocked queue, and both resume it by reinserting
// it into the ready queue for the scheduler to pick up again.
package semaphore

import "defs"
import "sched"
import "task"

/// Semaphore_t is one counting semaphore: a value plus a FIFO queue of
/// task-table indices waiting on it.
type Semaphore_t struct {
	Value   int
	waiters []int
}

/// SemArray_t is the fixed per-process array of semaphore slots,
/// pre-allocated the way the teacher pre-sizes per-process tables.
/// NextID names one past the highest live semaphore; the sem_destroy
/// Open Question is resolved by only ever permitting destruction of
/// slot NextID-1.
type SemArray_t struct {
	slots  [defs.MAX_SEMAPHORES]Semaphore_t
	NextID int
}

/// Init creates a new semaphore with the given initial value and
/// returns its id. It returns ENOMEM once MAX_SEMAPHORES have been
/// created.
func (sa *SemArray_t) Init(value int) (int, defs.Err_t) {
	if sa.NextID >= defs.MAX_SEMAPHORES {
		return 0, -defs.ENOMEM
	}
	id := sa.NextID
	sa.slots[id] = Semaphore_t{Value: value}
	sa.NextID++
	return id, 0
}

/// Destroy removes a semaphore. Per the resolved next_sem_id Open
/// Question, only the highest-numbered live semaphore may be
/// destroyed; destroying any other id is rejected with EAGAIN rather
/// than silently corrupting NextID the way the original sem_destroy
/// bug does. A semaphore with waiters still queued cannot be destroyed.
func (sa *SemArray_t) Destroy(id int) defs.Err_t {
	if id < 0 || id >= sa.NextID {
		return -defs.EAGAIN
	}
	if id != sa.NextID-1 {
		return -defs.EAGAIN
	}
	if len(sa.slots[id].waiters) != 0 {
		return -defs.EINVAL
	}
	sa.slots[id] = Semaphore_t{}
	sa.NextID--
	return 0
}

/// Wait decrements the semaphore if possible, otherwise blocks the
/// calling task (cur) and hands scheduling to s, returning the index of
/// the task that should run next.
func (sa *SemArray_t) Wait(id, cur int, tbl *task.Table_t, s *sched.Scheduler_t) (int, defs.Err_t) {
	if id < 0 || id >= sa.NextID {
		return cur, -defs.EINVAL
	}
	sem := &sa.slots[id]
	if sem.Value > 0 {
		sem.Value--
		return cur, 0
	}
	sem.waiters = append(sem.waiters, cur)
	tc := tbl.Get(cur)
	tc.State = task.BLOCKED
	tc.SemID = id
	tc.PauseTicksRemaining = -1
	return s.Block(cur), 0
}

/// Post increments the semaphore, or if a task is waiting, wakes the
/// oldest waiter instead, then gives the scheduler a chance to preempt
/// immediately for a higher-priority waiter.
func (sa *SemArray_t) Post(id int, tbl *task.Table_t, s *sched.Scheduler_t) defs.Err_t {
	if id < 0 || id >= sa.NextID {
		return -defs.EINVAL
	}
	sem := &sa.slots[id]
	if len(sem.waiters) == 0 {
		sem.Value++
		return 0
	}
	woken := sem.waiters[0]
	sem.waiters = sem.waiters[1:]
	tc := tbl.Get(woken)
	tc.SemID = -1
	tbl.ReadyInsertOrdered(woken)
	s.Preempt()
	return 0
}

/// Pause blocks cur for the number of ticks defs.MsToTicks(ms) computes,
/// returning the task that should run next. pause(0) is a no-op that
/// keeps cur running.
func Pause(ms, cur int, tbl *task.Table_t, s *sched.Scheduler_t) int {
	ticks := defs.MsToTicks(ms)
	if ticks <= 0 {
		return cur
	}
	tbl.BlockOnPause(cur, ticks)
	return s.Block(cur)
}
