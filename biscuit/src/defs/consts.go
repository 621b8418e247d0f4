package defs

/// NR_TASKS is the size of the fixed task table.
const NR_TASKS = 10

/// DEFAULT_QUANTUM is the number of clock ticks a task runs before the
/// scheduler reconsiders it, absent preemption by a higher-priority task.
const DEFAULT_QUANTUM = 10

/// DEFAULT_PRIORITY is the priority newly created tasks start at.
const DEFAULT_PRIORITY = 20

/// MAX_PRIORITY is the highest (most urgent) priority value a task may hold.
const MAX_PRIORITY = 100

/// MAX_SEMAPHORES is the number of semaphore slots pre-allocated per process.
const MAX_SEMAPHORES = 20

/// MAX_STACK_SIZE bounds a user stack region in bytes.
const MAX_STACK_SIZE = 65536

/// PAGE_SIZE is the size in bytes of a simulated physical frame.
const PAGE_SIZE = 4096

/// TOTAL_PAGES is the number of simulated physical frames backing the
/// machine; the frame allocator is a closed bitmap of exactly this size.
const TOTAL_PAGES = 1024

/// NUM_PAG_KERNEL is the number of pages in the shared kernel region
/// mapped identically into every address space.
const NUM_PAG_KERNEL = 256

/// NUM_PAG_CODE is the number of pages in the shared, read-only code
/// region mapped identically into every address space.
const NUM_PAG_CODE = 8

/// NUM_PAG_DATA is the number of pages in a task's private data/stack
/// region.
const NUM_PAG_DATA = 20

/// L_USER_START is the first logical page number of the per-task free
/// region, where per-thread user stacks and the shared screen page live.
const L_USER_START = NUM_PAG_KERNEL + NUM_PAG_CODE + NUM_PAG_DATA

/// TICKS_PER_MS_NUM and TICKS_PER_MS_DEN express the tick rate as the
/// exact rational 18/1000 rather than the float 0.018 the original
/// pause() computation used, which truncates identically for the values
/// spec scenarios exercise but never drifts from integer arithmetic.
const (
	TICKS_PER_MS_NUM = 18
	TICKS_PER_MS_DEN = 1000
)

/// MsToTicks converts a millisecond duration to whole clock ticks using
/// the same truncating integer division the original pause() exhibited.
func MsToTicks(ms int) int {
	return ms * TICKS_PER_MS_NUM / TICKS_PER_MS_DEN
}
