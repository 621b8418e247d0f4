package task

import "defs"
import "accnt"
import "vm"

/// State_t is a task's scheduling state. A task is on exactly one queue
/// at a time, and its State always agrees with that queue's identity.
type State_t int

const (
	FREE State_t = iota
	RUN
	READY
	BLOCKED
)

/// Tcb_t is one task control block. Tasks are never referenced by
/// pointer across packages; callers hold the table index, the same
/// intrusive-index discipline spec.md §9 mandates and the teacher
/// already uses for its physical frame free list.
type Tcb_t struct {
	Pid      defs.Pid_t
	Tid      defs.Tid_t
	Parent   defs.Pid_t
	State    State_t
	Priority int

	/// As is the address space. Every thread of a process shares the
	/// same *vm.Vm_t; the master thread owns it and frees it last.
	As *vm.Vm_t

	/// MasterTid names the thread that owns the process's As and whose
	/// exit tears the whole process down. IsMaster is true for exactly
	/// one live Tcb_t per Pid.
	MasterTid defs.Tid_t
	IsMaster  bool

	/// ReturnTrampoline resolves the thread-return Open Question:
	/// a thread created via clone(THREAD, ...) is created with this set,
	/// documenting that its syscall-epilogue return is contractually
	/// defined to invoke pthread_exit semantics rather than returning
	/// to invalid user code.
	ReturnTrampoline bool

	/// StackVA is, for a thread, the first logical page of its private
	/// user stack in the free region (StackPages pages long); for a
	/// process, the first page of its data/stack region, with StackPages 0.
	StackVA     int
	StackPages  int
	/// ScreenVA is the logical page mapping the shared screen buffer,
	/// or -1 if this task never called StartScreen.
	ScreenVA int

	RemainingQuantum int

	/// PauseTicksRemaining counts down while BLOCKED on pause(); -1 when
	/// BLOCKED for a semaphore wait instead.
	PauseTicksRemaining int
	/// SemID names which of this task's semaphores it is blocked on,
	/// or -1.
	SemID int

	Stats accnt.Stats_t

	next, prev int
}
