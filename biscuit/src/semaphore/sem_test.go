package semaphore

import "testing"

import "defs"
import "sched"
import "task"

func setup(t *testing.T) (*task.Table_t, *sched.Scheduler_t, int) {
	t.Helper()
	tbl := task.NewTable()
	idle, _ := tbl.AllocSlot()
	tbl.Get(idle).Priority = defs.DEFAULT_PRIORITY
	s := sched.NewScheduler(tbl, idle)
	tbl.SetCurrent(idle)
	return tbl, s, idle
}

func TestWaitBlocksWhenZeroPostWakes(t *testing.T) {
	tbl, s, idle := setup(t)
	var sa SemArray_t
	id, err := sa.Init(0)
	if err != 0 {
		t.Fatalf("Init: %v", err)
	}
	waiter, _ := tbl.AllocSlot()
	tbl.Get(waiter).Priority = defs.DEFAULT_PRIORITY
	tbl.SetCurrent(waiter)

	next, err := sa.Wait(id, waiter, tbl, s)
	if err != 0 {
		t.Fatalf("Wait: %v", err)
	}
	if next != idle {
		t.Fatalf("expected idle to run while waiter blocks, got %d", next)
	}
	if tbl.Get(waiter).State != task.BLOCKED {
		t.Fatalf("expected waiter blocked")
	}

	if err := sa.Post(id, tbl, s); err != 0 {
		t.Fatalf("Post: %v", err)
	}
	if tbl.Get(waiter).State != task.RUN && tbl.Get(waiter).State != task.READY {
		t.Fatalf("expected waiter woken onto ready/run, got state %v", tbl.Get(waiter).State)
	}
}

func TestWaitDecrementsWhenPositive(t *testing.T) {
	tbl, s, _ := setup(t)
	var sa SemArray_t
	id, _ := sa.Init(1)
	cur, _ := tbl.Current()
	next, err := sa.Wait(id, cur, tbl, s)
	if err != 0 || next != cur {
		t.Fatalf("expected non-blocking acquire, got next=%d err=%v", next, err)
	}
	if sa.slots[id].Value != 0 {
		t.Fatalf("expected value decremented to 0")
	}
}

func TestDestroyOnlyTopmost(t *testing.T) {
	var sa SemArray_t
	a, _ := sa.Init(0)
	b, _ := sa.Init(0)
	if err := sa.Destroy(a); err != -defs.EAGAIN {
		t.Fatalf("expected EAGAIN destroying non-topmost semaphore, got %v", err)
	}
	if err := sa.Destroy(b); err != 0 {
		t.Fatalf("expected topmost destroy to succeed: %v", err)
	}
	if err := sa.Destroy(a); err != 0 {
		t.Fatalf("expected %d now topmost and destroyable: %v", a, err)
	}
}

func TestPauseComputesTicksFromMilliseconds(t *testing.T) {
	tbl, s, idle := setup(t)
	task1, _ := tbl.AllocSlot()
	tbl.Get(task1).Priority = defs.DEFAULT_PRIORITY
	tbl.SetCurrent(task1)

	next := Pause(1000, task1, tbl, s)
	if next != idle {
		t.Fatalf("expected idle to run while %d sleeps", task1)
	}
	if tbl.Get(task1).PauseTicksRemaining != 18 {
		t.Fatalf("expected pause(1000ms) to block for 18 ticks, got %d", tbl.Get(task1).PauseTicksRemaining)
	}
}
