package sched

import "testing"

import "defs"
import "task"

func setup(t *testing.T) (*task.Table_t, *Scheduler_t, int) {
	t.Helper()
	tbl := task.NewTable()
	idle, _ := tbl.AllocSlot()
	tbl.Get(idle).Priority = defs.DEFAULT_PRIORITY
	s := NewScheduler(tbl, idle)
	tbl.SetCurrent(idle)
	tbl.Get(idle).RemainingQuantum = defs.DEFAULT_QUANTUM
	return tbl, s, idle
}

func TestPreemptionOnHigherPriorityArrival(t *testing.T) {
	tbl, s, idle := setup(t)
	hi, _ := tbl.AllocSlot()
	tbl.Get(hi).Priority = defs.DEFAULT_PRIORITY + 10
	tbl.ReadyInsertOrdered(hi)

	next := s.Preempt()
	if next != hi {
		t.Fatalf("expected higher priority task %d to preempt idle %d, got %d", hi, idle, next)
	}
	cur, _ := tbl.Current()
	if cur != hi {
		t.Fatalf("expected scheduler to install %d as current", hi)
	}
}

func TestNoPreemptionOnLowerPriorityArrival(t *testing.T) {
	tbl, s, idle := setup(t)
	lo, _ := tbl.AllocSlot()
	tbl.Get(lo).Priority = 5
	tbl.ReadyInsertOrdered(lo)

	next := s.Preempt()
	if next != idle {
		t.Fatalf("expected idle to keep running against a lower priority arrival")
	}
}

func TestQuantumExpiryRotatesSamePriorityTasks(t *testing.T) {
	tbl := task.NewTable()
	a, _ := tbl.AllocSlot()
	b, _ := tbl.AllocSlot()
	tbl.Get(a).Priority = 20
	tbl.Get(b).Priority = 20
	s := NewScheduler(tbl, -1)
	tbl.ReadyInsertOrdered(b)
	tbl.SetCurrent(a)
	tbl.Get(a).RemainingQuantum = 1

	next := s.Tick()
	if next != b {
		t.Fatalf("expected round robin to hand off to %d, got %d", b, next)
	}
	// a should now be back on the ready queue
	head, ok := tbl.ReadyPeekHead()
	if !ok || head != a {
		t.Fatalf("expected %d requeued onto the ready queue", a)
	}
}

func TestTickPreemptsOnHigherPriorityArrivalMidQuantum(t *testing.T) {
	tbl := task.NewTable()
	a, _ := tbl.AllocSlot()
	hi, _ := tbl.AllocSlot()
	tbl.Get(a).Priority = 20
	tbl.Get(hi).Priority = 25
	s := NewScheduler(tbl, -1)
	tbl.SetCurrent(a)
	tbl.Get(a).RemainingQuantum = defs.DEFAULT_QUANTUM
	tbl.ReadyInsertOrdered(hi)

	next := s.Tick()
	if next != hi {
		t.Fatalf("expected higher priority arrival to preempt mid-quantum, got %d want %d", next, hi)
	}
	head, ok := tbl.ReadyPeekHead()
	if !ok || head != a {
		t.Fatalf("expected %d requeued onto the ready queue", a)
	}
}

func TestTickWithoutExpiryKeepsRunning(t *testing.T) {
	tbl := task.NewTable()
	a, _ := tbl.AllocSlot()
	tbl.Get(a).Priority = 20
	s := NewScheduler(tbl, -1)
	tbl.SetCurrent(a)
	tbl.Get(a).RemainingQuantum = defs.DEFAULT_QUANTUM

	next := s.Tick()
	if next != a {
		t.Fatalf("expected task to keep running mid-quantum, got %d", next)
	}
	if tbl.Get(a).RemainingQuantum != defs.DEFAULT_QUANTUM-1 {
		t.Fatalf("expected one tick charged")
	}
}
