// Package lifecycle implements task creation and teardown: clone (both
// process and thread forms), exit, and pthread_exit, grounded on
// sys_clone/sys_exit/sys_pthread_exit from the ZeOS sources this module
// was distilled from.
package lifecycle

import "defs"
import "limits"
import "mem"
import "sched"
import "task"
import "vm"

/// Kind_t selects clone()'s process-vs-thread semantics.
type Kind_t int

const (
	PROCESS Kind_t = iota
	THREAD
)

/// DefaultStackPages is the number of free-region pages a freshly
/// cloned task's user stack occupies absent an explicit request.
const DefaultStackPages = 1

/// CreateIdle installs the permanently-runnable idle task (pid 0,
/// defs.DEFAULT_PRIORITY) used whenever the ready queue is empty.
func CreateIdle(tbl *task.Table_t, phys *mem.Physmem_t) (int, defs.Err_t) {
	if err := vm.InitShared(phys); err != 0 {
		return 0, err
	}
	idx, err := tbl.AllocSlot()
	if err != 0 {
		return 0, err
	}
	as, err := vm.New(phys)
	if err != 0 {
		tbl.FreeSlot(idx)
		return 0, err
	}
	tc := tbl.Get(idx)
	tc.Pid, tc.Tid = 0, 0
	tc.Parent = -1
	tc.Priority = defs.DEFAULT_PRIORITY
	tc.As = as
	tc.MasterTid, tc.IsMaster = 0, true
	return idx, 0
}

func allocStack(as *vm.Vm_t, phys *mem.Physmem_t, npages int) (int, defs.Err_t) {
	va, ok := as.SearchFreeRegion(npages)
	if !ok {
		return 0, -defs.ENOMEM
	}
	for i := 0; i < npages; i++ {
		f, err := phys.Alloc()
		if err != 0 {
			for j := 0; j < i; j++ {
				if fr, ok := as.Unmap(va + j); ok {
					phys.Free(fr)
				}
			}
			return 0, err
		}
		as.Map(va+i, f, true, false)
	}
	return va, 0
}

func freeStack(as *vm.Vm_t, phys *mem.Physmem_t, va, npages int) {
	if npages == 0 {
		return
	}
	for i := 0; i < npages; i++ {
		if f, ok := as.Unmap(va + i); ok {
			phys.Free(f)
		}
	}
}

/// Clone creates a new task from parent. With kind == PROCESS the child
/// gets a freshly cloned address space (the private data/stack region
/// copied page-for-page, per vm.Vm_t.CloneInto) and a new pid. With kind
/// == THREAD the child shares the parent's address space and pid, and
/// gets only its own user stack — the process-vs-thread distinction
/// sys_clone makes in the original sources.
func Clone(parent int, kind Kind_t, stackPages int, tbl *task.Table_t, phys *mem.Physmem_t, lim *limits.Syslimit_t, s *sched.Scheduler_t) (int, defs.Err_t) {
	if !lim.Procs.Take() {
		return 0, -defs.EAGAIN
	}
	child, err := tbl.AllocSlot()
	if err != 0 {
		lim.Procs.Give()
		return 0, err
	}
	ptc := tbl.Get(parent)
	ctc := tbl.Get(child)

	var as *vm.Vm_t
	switch kind {
	case PROCESS:
		as, err = vm.New(phys)
		if err != 0 {
			tbl.FreeSlot(child)
			lim.Procs.Give()
			return 0, err
		}
		if err = ptc.As.CloneInto(as, phys); err != 0 {
			as.Uvmfree(phys)
			tbl.FreeSlot(child)
			lim.Procs.Give()
			return 0, err
		}
		if ptc.ScreenVA != -1 {
			// setup_screen_page Open Question: the child inherits the
			// parent's physical screen frame at the parent's logical
			// address, never a copy.
			if f, ok := ptc.As.FrameOf(ptc.ScreenVA); ok {
				as.Map(ptc.ScreenVA, f, true, true)
			}
		}
		ctc.Pid = defs.Pid_t(child)
		ctc.Parent = ptc.Pid
		ctc.MasterTid = defs.Tid_t(child)
		ctc.IsMaster = true
	case THREAD:
		as = ptc.As
		ctc.Pid = ptc.Pid
		ctc.Parent = ptc.Parent
		ctc.MasterTid = ptc.MasterTid
		ctc.IsMaster = false
		// the thread-return Open Question: a thread's syscall-epilogue
		// return is contractually defined to invoke pthread_exit.
		ctc.ReturnTrampoline = true
	}
	ctc.Tid = defs.Tid_t(child)
	ctc.Priority = ptc.Priority
	ctc.As = as
	ctc.ScreenVA = ptc.ScreenVA
	ctc.SemID = -1

	// spec.md §4.4: a process's user stack is inherited from its own
	// private data/stack region (already populated by CloneInto above),
	// never a separate free-region allocation — only a thread, which
	// shares its master's address space and therefore has no private
	// data region of its own, needs a fresh stack carved out of the
	// free region above it.
	if kind == THREAD {
		if stackPages <= 0 {
			stackPages = DefaultStackPages
		}
		va, serr := allocStack(as, phys, stackPages)
		if serr != 0 {
			tbl.FreeSlot(child)
			lim.Procs.Give()
			return 0, serr
		}
		ctc.StackVA = va
		ctc.StackPages = stackPages
	} else {
		ctc.StackVA = defs.NUM_PAG_KERNEL + defs.NUM_PAG_CODE
		ctc.StackPages = 0
	}

	tbl.ReadyInsertOrdered(child)
	s.Preempt()
	return child, 0
}
