package lifecycle

import "defs"
import "limits"
import "mem"
import "sched"
import "semaphore"
import "task"

// releaseScreen clears the exiting task's screen bookkeeping without
// freeing the underlying frame: the screen page is shared across an
// entire fork lineage with no reference count (the original never
// tracked one either), so only a clean shutdown of the whole machine
// reclaims it, not any single process's exit.
func releaseScreen(tc *task.Tcb_t, phys *mem.Physmem_t) {
	tc.ScreenVA = -1
}

/// Exit tears down the calling task's entire process: every thread
/// sharing its pid is terminated, the address space's private frames
/// are freed, and the task's screen page bookkeeping is cleared (the
/// shared screen frame itself is not freed). It returns the index of
/// the task the scheduler picks to run next.
func Exit(idx int, tbl *task.Table_t, phys *mem.Physmem_t, lim *limits.Syslimit_t, s *sched.Scheduler_t) int {
	tc := tbl.Get(idx)
	pid := tc.Pid
	as := tc.As

	var siblings []int
	tbl.ForEachLive(func(i int, t *task.Tcb_t) {
		if i != idx && t.Pid == pid {
			siblings = append(siblings, i)
		}
	})
	for _, i := range siblings {
		st := tbl.Get(i)
		freeStack(as, phys, st.StackVA, st.StackPages)
		tbl.Terminate(i)
		lim.Procs.Give()
	}

	freeStack(as, phys, tc.StackVA, tc.StackPages)
	as.Uvmfree(phys)
	releaseScreen(tc, phys)

	tbl.Terminate(idx)
	lim.Procs.Give()
	return s.Block(idx)
}

/// PthreadExit tears down only the calling thread. If it was the
/// process's master thread, the first remaining sibling that is not
/// BLOCKED is promoted to master — inheriting the semaphore array and the
/// master_thread_index every sibling (including the newly promoted
/// thread itself) points through, per spec.md §4.4's "rewire all
/// siblings' master_thread_index" requirement. If no siblings remain,
/// this behaves like a full process exit. It returns the index of the
/// task the scheduler picks to run next.
func PthreadExit(idx int, tbl *task.Table_t, phys *mem.Physmem_t, lim *limits.Syslimit_t, s *sched.Scheduler_t, sems *[defs.NR_TASKS]semaphore.SemArray_t) int {
	tc := tbl.Get(idx)
	freeStack(tc.As, phys, tc.StackVA, tc.StackPages)

	if tc.IsMaster {
		// spec.md §4.4: promote the first non-BLOCKED sibling thread, not
		// merely the first live one — a blocked sibling cannot usefully
		// hold the address-space teardown responsibility the master role
		// carries.
		promoted := -1
		tbl.ForEachLive(func(i int, t *task.Tcb_t) {
			if promoted == -1 && i != idx && t.Pid == tc.Pid && t.State != task.BLOCKED {
				promoted = i
			}
		})
		if promoted != -1 {
			pt := tbl.Get(promoted)
			pt.IsMaster = true
			pt.MasterTid = pt.Tid
			tbl.ForEachLive(func(i int, t *task.Tcb_t) {
				if t.Pid == tc.Pid {
					t.MasterTid = pt.Tid
				}
			})
			sems[promoted] = sems[idx]
			sems[idx] = semaphore.SemArray_t{}
		} else {
			tc.As.Uvmfree(phys)
			releaseScreen(tc, phys)
			sems[idx] = semaphore.SemArray_t{}
		}
	}

	tbl.Terminate(idx)
	lim.Procs.Give()
	return s.Block(idx)
}
