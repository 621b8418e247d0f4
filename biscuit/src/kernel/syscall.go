package kernel

import "defs"
import "klog"
import "lifecycle"
import "semaphore"
import "task"
import "util"

/// Num_t selects which syscall Syscall dispatches to, the same integer
/// selector scheme spec.md §6 names (first free slot for missing
/// indices; an unrecognized number is handled by Syscall's default
/// case, never reaching this type).
type Num_t int

const (
	SYS_GETPID Num_t = iota
	SYS_FORK
	SYS_WAIT_KEY
	SYS_PAUSE
	SYS_WRITE
	SYS_GETTIME
	SYS_GET_STATS
	SYS_EXIT
	SYS_YIELD
	SYS_START_SCREEN
	SYS_CLONE
	SYS_SET_PRIORITY
	SYS_PTHREAD_EXIT
	SYS_SEM_INIT
	SYS_SEM_WAIT
	SYS_SEM_POST
	SYS_SEM_DESTROY
)

/// Args_t bundles every syscall's arguments. SPEC_FULL's encode/decode
/// boundary (§6) means Syscall receives already-validated Go values —
/// the out-of-scope trampoline is responsible for turning raw user
/// pointers into these fields; only Write/GetKeyboardState/GetStats
/// still show a byte-slice boundary, for the wire-format payloads those
/// three syscalls move across the user/kernel line.
type Args_t struct {
	Ms         int
	Fd         int
	Buf        []uint8
	N          int
	Pid        defs.Pid_t
	Kind       lifecycle.Kind_t
	StackSize  int
	Priority   int
	Value      int
	SemID      int
}

const consoleFd = 1

/// Syscall dispatches one syscall entry, taking the kernel lock for its
/// whole body per spec.md §5. It returns the syscall's single signed
/// integer result; a negative value is one of the defs.Err_t constants
/// negated, exactly as spec.md §7 specifies.
func (k *Kernel_t) Syscall(num Num_t, a Args_t) int {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch num {
	case SYS_GETPID:
		_, tc := k.current()
		return int(tc.Pid)
	case SYS_FORK:
		return k.sysFork()
	case SYS_WAIT_KEY:
		return k.sysGetKeyboardState(a.Buf)
	case SYS_PAUSE:
		return k.sysPause(a.Ms)
	case SYS_WRITE:
		return k.sysWrite(a.Fd, a.Buf, a.N)
	case SYS_GETTIME:
		return int(k.zeosTicks)
	case SYS_GET_STATS:
		return k.sysGetStats(a.Pid, a.Buf)
	case SYS_EXIT:
		k.sysExit()
		return 0
	case SYS_YIELD:
		k.Sched.Yield()
		return 0
	case SYS_START_SCREEN:
		return k.sysStartScreen()
	case SYS_CLONE:
		return k.sysClone(a.Kind, a.StackSize)
	case SYS_SET_PRIORITY:
		return k.sysSetPriority(a.Priority)
	case SYS_PTHREAD_EXIT:
		k.sysPthreadExit()
		return 0
	case SYS_SEM_INIT:
		return k.sysSemInit(a.Value)
	case SYS_SEM_WAIT:
		return k.sysSemWait(a.SemID)
	case SYS_SEM_POST:
		return k.sysSemPost(a.SemID)
	case SYS_SEM_DESTROY:
		return k.sysSemDestroy(a.SemID)
	default:
		return int(-defs.ENOSYS)
	}
}

func (k *Kernel_t) sysFork() int {
	cur, _ := k.current()
	child, err := lifecycle.Clone(cur, lifecycle.PROCESS, 0, k.Tbl, k.Phys, k.Lim, k.Sched)
	if err != 0 {
		klog.Warnf("fork from %d failed: %s\n", cur, err.String())
		return int(err)
	}
	// lifecycle.Clone assigns a placeholder pid equal to the child's
	// table slot; Syscall is the layer that owns the real monotonically
	// increasing pid namespace spec.md §3 requires, since table slots
	// get reused across process lifetimes and pids must not.
	ctc := k.Tbl.Get(child)
	ctc.Pid = k.nextPid
	k.nextPid++
	return int(ctc.Pid)
}

func (k *Kernel_t) sysClone(kind lifecycle.Kind_t, stackSize int) int {
	cur, _ := k.current()
	pages := 0
	if kind == lifecycle.THREAD {
		// stack_size is required and bounded only for the thread form;
		// the process form ignores it entirely (spec.md §4.4 table).
		if stackSize <= 0 || stackSize > defs.MAX_STACK_SIZE {
			return int(-defs.EINVAL)
		}
		pages = util.Roundup(stackSize, defs.PAGE_SIZE) / defs.PAGE_SIZE
	}
	child, err := lifecycle.Clone(cur, kind, pages, k.Tbl, k.Phys, k.Lim, k.Sched)
	if err != 0 {
		klog.Warnf("clone from %d failed: %s\n", cur, err.String())
		return int(err)
	}
	ctc := k.Tbl.Get(child)
	switch kind {
	case lifecycle.PROCESS:
		ctc.Pid = k.nextPid
		k.nextPid++
		return int(ctc.Pid)
	default: // THREAD
		return int(ctc.Tid)
	}
}

func (k *Kernel_t) sysExit() {
	// exit() tears down the whole process regardless of which thread
	// called it, so the semaphore array to reset is the caller's
	// process master slot, not necessarily the caller's own slot.
	cur, tc := k.current()
	master := masterOf(tc)
	lifecycle.Exit(cur, k.Tbl, k.Phys, k.Lim, k.Sched)
	k.resetSemArrayFor(master)
}

func (k *Kernel_t) sysPthreadExit() {
	cur, _ := k.current()
	// lifecycle.PthreadExit owns all semaphore-array bookkeeping for this
	// path itself (moving the array to a promoted master, or resetting it
	// on a full process exit) since only it knows, after the fact,
	// whether a promotion happened.
	lifecycle.PthreadExit(cur, k.Tbl, k.Phys, k.Lim, k.Sched, &k.SemArrays)
}

/// resetSemArrayFor clears a departed process's semaphore array back to
/// the sentinel state, per spec.md §4.4 exit() step 3. Any thread that
/// was blocked on one of these semaphores belongs to this same process
/// (semaphores are never shared across processes) and has already been
/// torn down by lifecycle.Exit/PthreadExit's sibling sweep, so there are
/// no stray waiters to reconcile.
func (k *Kernel_t) resetSemArrayFor(masterIdx int) {
	k.SemArrays[masterIdx] = semaphore.SemArray_t{}
}

func (k *Kernel_t) sysStartScreen() int {
	cur, _ := k.current()
	va, err := lifecycle.StartScreen(cur, k.Tbl, k.Phys)
	if err != 0 {
		return int(err)
	}
	return va
}

func (k *Kernel_t) sysSetPriority(p int) int {
	if p < 0 || p > defs.MAX_PRIORITY {
		return int(-defs.EINVAL)
	}
	_, tc := k.current()
	tc.Priority = p
	if !k.Tbl.ReadyEmpty() {
		k.Sched.Preempt()
	}
	return 0
}

func (k *Kernel_t) sysPause(ms int) int {
	if ms < 0 {
		return int(-defs.EINVAL)
	}
	cur, _ := k.current()
	semaphore.Pause(ms, cur, k.Tbl, k.Sched)
	return 0
}

func (k *Kernel_t) sysSemInit(value int) int {
	_, tc := k.current()
	id, err := k.semArray(tc).Init(value)
	if err != 0 {
		return int(err)
	}
	return id
}

func (k *Kernel_t) sysSemWait(id int) int {
	cur, tc := k.current()
	_, err := k.semArray(tc).Wait(id, cur, k.Tbl, k.Sched)
	return int(err)
}

func (k *Kernel_t) sysSemPost(id int) int {
	_, tc := k.current()
	return int(k.semArray(tc).Post(id, k.Tbl, k.Sched))
}

func (k *Kernel_t) sysSemDestroy(id int) int {
	_, tc := k.current()
	return int(k.semArray(tc).Destroy(id))
}

func (k *Kernel_t) sysWrite(fd int, buf []uint8, n int) int {
	if fd != consoleFd {
		return int(-defs.EBADF)
	}
	if n < 0 || n > len(buf) {
		return int(-defs.EINVAL)
	}
	written, err := k.Con.WriteConsole(buf[:n])
	if err != 0 {
		return int(err)
	}
	return written
}

func (k *Kernel_t) sysGetKeyboardState(buf []uint8) int {
	if len(buf) < 128 {
		return int(-defs.EFAULT)
	}
	snap := k.Con.ReadKeyboardState()
	copy(buf, snap[:])
	return 0
}

func (k *Kernel_t) sysGetStats(pid defs.Pid_t, buf []uint8) int {
	if len(buf) < 7*8 {
		return int(-defs.EFAULT)
	}
	var found *task.Tcb_t
	k.Tbl.ForEachLive(func(_ int, t *task.Tcb_t) {
		if found == nil && t.Pid == pid {
			found = t
		}
	})
	if found == nil {
		return int(-defs.ESRCH)
	}
	snap := found.Stats.Fetch()
	encoded := snap.Encode()
	copy(buf, encoded)
	return 0
}
