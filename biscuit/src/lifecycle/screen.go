package lifecycle

import "defs"
import "mem"
import "task"

/// StartScreen maps a screen frame into idx's address space if it
/// doesn't already have one, and returns its logical page. Calling it
/// again on a task that already owns a screen page is a no-op that
/// returns the existing mapping, the StartScreen idempotence spec.md
/// requires.
func StartScreen(idx int, tbl *task.Table_t, phys *mem.Physmem_t) (int, defs.Err_t) {
	tc := tbl.Get(idx)
	if tc.ScreenVA != -1 {
		return tc.ScreenVA, 0
	}
	va, ok := tc.As.SearchFreeRegion(1)
	if !ok {
		return 0, -defs.ENOMEM
	}
	f, err := phys.Alloc()
	if err != 0 {
		return 0, err
	}
	// Shared so that a later process clone inherits the same physical
	// frame at the same logical address rather than copying it — the
	// setup_screen_page Open Question's resolution.
	tc.As.Map(va, f, true, true)
	tc.ScreenVA = va
	return va, 0
}
