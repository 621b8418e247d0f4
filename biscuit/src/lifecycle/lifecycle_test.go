package lifecycle

import "testing"

import "defs"
import "limits"
import "mem"
import "sched"
import "semaphore"
import "task"

func boot(t *testing.T) (*task.Table_t, *mem.Physmem_t, *limits.Syslimit_t, *sched.Scheduler_t, int) {
	t.Helper()
	tbl := task.NewTable()
	phys := mem.Phys_init()
	lim := limits.MkSysLimit()
	idle, err := CreateIdle(tbl, phys)
	if err != 0 {
		t.Fatalf("CreateIdle: %v", err)
	}
	s := sched.NewScheduler(tbl, idle)
	tbl.SetCurrent(idle)
	tbl.Get(idle).RemainingQuantum = defs.DEFAULT_QUANTUM
	return tbl, phys, lim, s, idle
}

func TestProcessCloneIsolatesMemory(t *testing.T) {
	tbl, phys, lim, s, idle := boot(t)
	child, err := Clone(idle, PROCESS, 0, tbl, phys, lim, s)
	if err != 0 {
		t.Fatalf("Clone: %v", err)
	}
	if tbl.Get(child).As == tbl.Get(idle).As {
		t.Fatalf("expected a process clone to get its own address space")
	}
	if tbl.Get(child).Pid == tbl.Get(idle).Pid {
		t.Fatalf("expected child to receive a fresh pid")
	}
}

func TestThreadCloneSharesAddressSpace(t *testing.T) {
	tbl, phys, lim, s, idle := boot(t)
	proc, err := Clone(idle, PROCESS, 0, tbl, phys, lim, s)
	if err != 0 {
		t.Fatalf("process clone: %v", err)
	}
	th, err := Clone(proc, THREAD, 0, tbl, phys, lim, s)
	if err != 0 {
		t.Fatalf("thread clone: %v", err)
	}
	if tbl.Get(th).As != tbl.Get(proc).As {
		t.Fatalf("expected thread to share parent's address space")
	}
	if tbl.Get(th).Pid != tbl.Get(proc).Pid {
		t.Fatalf("expected thread to share parent's pid")
	}
	if !tbl.Get(th).ReturnTrampoline {
		t.Fatalf("expected thread clone to set the return trampoline flag")
	}
}

func TestPthreadExitPromotesMasterWhenSiblingsRemain(t *testing.T) {
	tbl, phys, lim, s, idle := boot(t)
	proc, _ := Clone(idle, PROCESS, 0, tbl, phys, lim, s)
	th, _ := Clone(proc, THREAD, 0, tbl, phys, lim, s)

	var sems [defs.NR_TASKS]semaphore.SemArray_t
	sems[proc].Init(1)
	PthreadExit(proc, tbl, phys, lim, s, &sems)

	if !tbl.Get(th).IsMaster {
		t.Fatalf("expected surviving thread promoted to master")
	}
	if tbl.Get(th).MasterTid != tbl.Get(th).Tid {
		t.Fatalf("expected promoted thread's own MasterTid to point at itself")
	}
	if sems[th].NextID != 1 {
		t.Fatalf("expected the semaphore array transferred to the promoted slot")
	}
	if sems[proc].NextID != 0 {
		t.Fatalf("expected the old master's slot reset after promotion")
	}
}

func TestExitTearsDownWholeProcess(t *testing.T) {
	tbl, phys, lim, s, idle := boot(t)
	before := phys.Avail()
	proc, _ := Clone(idle, PROCESS, 0, tbl, phys, lim, s)
	Clone(proc, THREAD, 0, tbl, phys, lim, s)

	Exit(proc, tbl, phys, lim, s)

	if phys.Avail() != before {
		t.Fatalf("expected all frames reclaimed after exit, before=%d after=%d", before, phys.Avail())
	}
}
