package task

import "defs"

const nilIdx = -1

/// list_t is an intrusive, index-based queue head threaded through each
/// Tcb_t's next/prev fields, the same free-list technique the teacher
/// uses for physical frames (mem.Physmem_t's nexti), applied here to
/// task-table slots instead.
type list_t struct {
	head, tail int
}

/// Table_t is the fixed task table: exactly defs.NR_TASKS slots, each on
/// exactly one of the free, ready, or blocked queues (semaphore-blocked
/// tasks live on a queue owned by the semaphore package, referencing the same
/// slots by index).
type Table_t struct {
	tasks   [defs.NR_TASKS]Tcb_t
	free    list_t
	ready   list_t
	blocked list_t
	current int
}

/// NewTable returns a table with every slot on the free queue.
func NewTable() *Table_t {
	t := &Table_t{current: nilIdx}
	t.free = list_t{head: nilIdx, tail: nilIdx}
	t.ready = list_t{head: nilIdx, tail: nilIdx}
	t.blocked = list_t{head: nilIdx, tail: nilIdx}
	for i := range t.tasks {
		t.tasks[i].State = FREE
		t.tasks[i].Pid = -1
		t.tasks[i].Tid = -1
		t.tasks[i].next = nilIdx
		t.tasks[i].prev = nilIdx
		t.pushTail(&t.free, i)
	}
	return t
}

func (t *Table_t) pushTail(l *list_t, idx int) {
	t.tasks[idx].next = nilIdx
	t.tasks[idx].prev = l.tail
	if l.tail != nilIdx {
		t.tasks[l.tail].next = idx
	} else {
		l.head = idx
	}
	l.tail = idx
}

func (t *Table_t) remove(l *list_t, idx int) {
	n := &t.tasks[idx]
	if n.prev != nilIdx {
		t.tasks[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nilIdx {
		t.tasks[n.next].prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.next, n.prev = nilIdx, nilIdx
}

func (t *Table_t) popHead(l *list_t) (int, bool) {
	idx := l.head
	if idx == nilIdx {
		return nilIdx, false
	}
	t.remove(l, idx)
	return idx, true
}

/// AllocSlot removes a slot from the free queue and returns its index.
/// It returns ENOMEM if the table is full.
func (t *Table_t) AllocSlot() (int, defs.Err_t) {
	idx, ok := t.popHead(&t.free)
	if !ok {
		return nilIdx, -defs.ENOMEM
	}
	t.tasks[idx] = Tcb_t{State: FREE, Pid: -1, Tid: -1, next: nilIdx, prev: nilIdx, SemID: nilIdx, ScreenVA: nilIdx}
	return idx, 0
}

/// FreeSlot returns idx to the free queue. idx must not currently be on
/// the ready or blocked queue.
func (t *Table_t) FreeSlot(idx int) {
	t.tasks[idx].State = FREE
	t.pushTail(&t.free, idx)
}

/// Get returns a pointer to the Tcb_t at idx.
func (t *Table_t) Get(idx int) *Tcb_t {
	return &t.tasks[idx]
}

/// Current returns the index of the running task, or false if none is
/// running (only true momentarily during boot before the idle task is
/// created).
func (t *Table_t) Current() (int, bool) {
	if t.current == nilIdx {
		return nilIdx, false
	}
	return t.current, true
}

/// SetCurrent marks idx as RUN and the table's current task.
func (t *Table_t) SetCurrent(idx int) {
	t.tasks[idx].State = RUN
	t.current = idx
}

/// ReadyInsertOrdered inserts idx into the ready queue ordered by
/// descending priority, FIFO among equal priorities — a direct port of
/// the original sched.c's insert_ready_ordered.
func (t *Table_t) ReadyInsertOrdered(idx int) {
	t.tasks[idx].State = READY
	pr := t.tasks[idx].Priority
	cur := t.ready.head
	for cur != nilIdx && t.tasks[cur].Priority >= pr {
		cur = t.tasks[cur].next
	}
	if cur == nilIdx {
		t.pushTail(&t.ready, idx)
		return
	}
	t.tasks[idx].prev = t.tasks[cur].prev
	t.tasks[idx].next = cur
	if t.tasks[cur].prev != nilIdx {
		t.tasks[t.tasks[cur].prev].next = idx
	} else {
		t.ready.head = idx
	}
	t.tasks[cur].prev = idx
}

/// ReadyPopHead removes and returns the highest-priority ready task.
func (t *Table_t) ReadyPopHead() (int, bool) {
	return t.popHead(&t.ready)
}

/// ReadyPeekHead returns the highest-priority ready task without
/// removing it.
func (t *Table_t) ReadyPeekHead() (int, bool) {
	if t.ready.head == nilIdx {
		return nilIdx, false
	}
	return t.ready.head, true
}

/// ReadyEmpty reports whether the ready queue has no tasks.
func (t *Table_t) ReadyEmpty() bool {
	return t.ready.head == nilIdx
}

/// BlockOnPause moves idx onto the pause-blocked queue.
func (t *Table_t) BlockOnPause(idx int, ticks int) {
	t.tasks[idx].State = BLOCKED
	t.tasks[idx].PauseTicksRemaining = ticks
	t.tasks[idx].SemID = nilIdx
	t.pushTail(&t.blocked, idx)
}

/// UpdatePauseTimers decrements every pause-blocked task's remaining
/// ticks by one and moves expired tasks onto the ready queue, a direct
/// port of update_blocked_time.
func (t *Table_t) UpdatePauseTimers() {
	cur := t.blocked.head
	for cur != nilIdx {
		next := t.tasks[cur].next
		t.tasks[cur].PauseTicksRemaining--
		if t.tasks[cur].PauseTicksRemaining <= 0 {
			t.remove(&t.blocked, cur)
			t.ReadyInsertOrdered(cur)
		}
		cur = next
	}
}

/// ForEachLive calls f for every non-free task slot.
func (t *Table_t) ForEachLive(f func(idx int, tc *Tcb_t)) {
	for i := range t.tasks {
		if t.tasks[i].State != FREE {
			f(i, &t.tasks[i])
		}
	}
}

/// RemoveFromBlocked detaches idx from the pause-blocked queue, used
/// when a blocked task is torn down by exit() before its timer expires.
func (t *Table_t) RemoveFromBlocked(idx int) {
	t.remove(&t.blocked, idx)
}

/// Terminate detaches idx from whichever queue its current State says
/// it belongs to (READY or BLOCKED; RUN means the caller has already
/// switched away and queued nothing) and returns the slot to the free
/// queue. Used by exit() and pthread_exit() to tear a task down
/// regardless of what it was doing when it was terminated.
///
/// A BLOCKED task is only unlinked from t.blocked when it is blocked on
/// pause(): a semaphore-blocked task is never threaded onto this list
/// at all (it lives solely in its semaphore's own waiter slice), and
/// PauseTicksRemaining == -1 is the sem-blocked marker semaphore.Wait
/// sets; removing it from t.blocked here would corrupt that list's
/// links for whichever tasks are genuinely on it.
func (t *Table_t) Terminate(idx int) {
	switch t.tasks[idx].State {
	case READY:
		t.remove(&t.ready, idx)
	case BLOCKED:
		if t.tasks[idx].PauseTicksRemaining != -1 {
			t.remove(&t.blocked, idx)
		}
	}
	t.tasks[idx] = Tcb_t{State: FREE, Pid: -1, Tid: -1, next: nilIdx, prev: nilIdx, SemID: nilIdx, ScreenVA: nilIdx}
	t.pushTail(&t.free, idx)
}
