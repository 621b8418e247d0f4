package kernel

import "testing"

import "defs"
import "task"

func TestBootInstallsIdleAsCurrent(t *testing.T) {
	k := Boot()
	cur, ok := k.Tbl.Current()
	if !ok || cur != k.idle {
		t.Fatalf("expected idle task running right after boot")
	}
}

func TestGetpidReturnsRunningTasksPid(t *testing.T) {
	k := Boot()
	pid := k.Syscall(SYS_GETPID, Args_t{})
	if defs.Pid_t(pid) != k.Tbl.Get(k.idle).Pid {
		t.Fatalf("expected idle's own pid, got %d", pid)
	}
}

func findByPid(k *Kernel_t, pid defs.Pid_t) int {
	found := -1
	k.Tbl.ForEachLive(func(i int, tc *task.Tcb_t) {
		if tc.Pid == pid {
			found = i
		}
	})
	return found
}

func TestForkAssignsFreshMonotonicPid(t *testing.T) {
	k := Boot()
	a := k.Syscall(SYS_FORK, Args_t{})
	if a <= 0 {
		t.Fatalf("fork failed: %d", a)
	}
	// Run as the child so the second fork comes from a distinct
	// process, then confirm it receives a larger, never-used pid.
	k.Tbl.SetCurrent(findByPid(k, defs.Pid_t(a)))
	b := k.Syscall(SYS_FORK, Args_t{})
	if b <= 0 || b <= a {
		t.Fatalf("expected second fork to receive a larger fresh pid, got %d and %d", a, b)
	}
}
