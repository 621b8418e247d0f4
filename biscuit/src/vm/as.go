package vm

import "sync"

import "defs"
import "mem"

/// FreeRegionPages is the number of logical pages reserved above the
/// private data/stack region for per-thread user stacks and the shared
/// screen page.
const FreeRegionPages = 8

/// TotalLogicalPages is the size of the logical page-directory arena: the
/// shared kernel region, the shared code region, the private data/stack
/// region, and the free region, in that order, matching the layout the
/// boot constants in defs describe.
const TotalLogicalPages = defs.L_USER_START + FreeRegionPages

/// Entry_t is one page-table entry. Shared entries reference a frame
/// owned by another address space (the kernel region, the code region,
/// or an inherited screen page) and are left alone by Uvmfree.
type Entry_t struct {
	Frame   mem.Pa_t
	Present bool
	Writable bool
	Shared   bool
}

/// Vm_t represents a single task's address space: the logical
/// page-directory arena plus the lock guarding it. The mutex and the
/// explicit lock-assertion helpers below mirror the teacher's
/// Lock_pmap/Unlock_pmap/Lockassert_pmap discipline.
type Vm_t struct {
	sync.Mutex
	dir       [TotalLogicalPages]Entry_t
	pgfltaken bool
}

/// Lock_pmap acquires the address space mutex and marks that page-table
/// manipulation is in progress.
func (as *Vm_t) Lock_pmap() {
	as.Lock()
	as.pgfltaken = true
}

/// Unlock_pmap releases the address space mutex.
func (as *Vm_t) Unlock_pmap() {
	as.pgfltaken = false
	as.Unlock()
}

/// Lockassert_pmap panics if the address space mutex is not held.
func (as *Vm_t) Lockassert_pmap() {
	if !as.pgfltaken {
		panic("pgfl lock must be held")
	}
}

var (
	sharedOnce   sync.Once
	kernelFrames [defs.NUM_PAG_KERNEL]mem.Pa_t
	codeFrames   [defs.NUM_PAG_CODE]mem.Pa_t
)

/// InitShared allocates the kernel and code regions' backing frames once.
/// Every address space maps these same frames, never its own copy.
func InitShared(phys *mem.Physmem_t) defs.Err_t {
	var rerr defs.Err_t
	sharedOnce.Do(func() {
		for i := range kernelFrames {
			f, err := phys.Alloc()
			if err != 0 {
				rerr = err
				return
			}
			kernelFrames[i] = f
		}
		for i := range codeFrames {
			f, err := phys.Alloc()
			if err != 0 {
				rerr = err
				return
			}
			codeFrames[i] = f
		}
	})
	return rerr
}

/// New allocates a fresh address space: the shared kernel and code
/// regions mapped in, plus a freshly allocated private data/stack
/// region. The free region starts out entirely unmapped.
func New(phys *mem.Physmem_t) (*Vm_t, defs.Err_t) {
	as := &Vm_t{}
	for i := 0; i < defs.NUM_PAG_KERNEL; i++ {
		as.dir[i] = Entry_t{Frame: kernelFrames[i], Present: true, Writable: true, Shared: true}
	}
	for i := 0; i < defs.NUM_PAG_CODE; i++ {
		as.dir[defs.NUM_PAG_KERNEL+i] = Entry_t{Frame: codeFrames[i], Present: true, Writable: false, Shared: true}
	}
	base := defs.NUM_PAG_KERNEL + defs.NUM_PAG_CODE
	for i := 0; i < defs.NUM_PAG_DATA; i++ {
		f, err := phys.Alloc()
		if err != 0 {
			as.uvmfreeRange(phys, base, i)
			return nil, err
		}
		as.dir[base+i] = Entry_t{Frame: f, Present: true, Writable: true}
	}
	return as, 0
}

/// Map installs a page-table entry directly, used for the free region
/// (per-thread stacks, the shared screen page).
func (as *Vm_t) Map(va int, frame mem.Pa_t, writable, shared bool) {
	as.dir[va] = Entry_t{Frame: frame, Present: true, Writable: writable, Shared: shared}
}

/// Unmap clears a page-table entry and returns the frame that was
/// mapped there, if any.
func (as *Vm_t) Unmap(va int) (mem.Pa_t, bool) {
	e := as.dir[va]
	as.dir[va] = Entry_t{}
	return e.Frame, e.Present
}

/// FrameOf returns the frame mapped at va, if present.
func (as *Vm_t) FrameOf(va int) (mem.Pa_t, bool) {
	e := as.dir[va]
	return e.Frame, e.Present
}

/// SearchFreeRegion finds n contiguous unmapped logical pages in the
/// free region, returning the first page number. It returns ok=false if
/// no such run exists.
func (as *Vm_t) SearchFreeRegion(n int) (int, bool) {
	run := 0
	for va := defs.L_USER_START; va < TotalLogicalPages; va++ {
		if as.dir[va].Present {
			run = 0
			continue
		}
		run++
		if run == n {
			return va - n + 1, true
		}
	}
	return 0, false
}

func (as *Vm_t) uvmfreeRange(phys *mem.Physmem_t, base, count int) {
	for i := 0; i < count; i++ {
		e := as.dir[base+i]
		if e.Present && !e.Shared {
			phys.Free(e.Frame)
		}
		as.dir[base+i] = Entry_t{}
	}
}

/// Uvmfree releases every privately-owned frame in the address space:
/// the data/stack region and any occupied slots in the free region.
/// Shared entries (kernel, code, an inherited screen page) are left
/// untouched since another address space still references them.
func (as *Vm_t) Uvmfree(phys *mem.Physmem_t) {
	for va := defs.NUM_PAG_KERNEL + defs.NUM_PAG_CODE; va < TotalLogicalPages; va++ {
		e := as.dir[va]
		if e.Present && !e.Shared {
			phys.Free(e.Frame)
		}
		as.dir[va] = Entry_t{}
	}
}

/// CloneInto eagerly duplicates the private data/stack region of as into
/// dst, frame by frame. This stands in for a real kernel's scratch
/// logical-address mapping: since frames here are directly addressable
/// Go arrays (mem.Physmem_t.Dmap), copying is a direct byte copy between
/// the two Dmap'd frames rather than a temporary-mapping dance, but it
/// preserves the same parent-to-child, page-at-a-time semantics the
/// original clone() scratch-copy loop implements. A private frame dst
/// already holds in the data region (as New leaves it) is freed before
/// its replacement is allocated. The free region
/// (per-thread stacks, the screen page) is the caller's responsibility:
/// a cloned process starts with none of the parent's thread stacks, and
/// the screen page is inherited by direct reference, never copied.
func (as *Vm_t) CloneInto(dst *Vm_t, phys *mem.Physmem_t) defs.Err_t {
	base := defs.NUM_PAG_KERNEL + defs.NUM_PAG_CODE
	for i := 0; i < defs.NUM_PAG_DATA; i++ {
		src := as.dir[base+i]
		if !src.Present {
			continue
		}
		if old := dst.dir[base+i]; old.Present && !old.Shared {
			phys.Free(old.Frame)
			dst.dir[base+i] = Entry_t{}
		}
		nf, err := phys.Alloc()
		if err != 0 {
			dst.uvmfreeRange(phys, base, i)
			return err
		}
		copy(phys.Dmap(nf)[:], phys.Dmap(src.Frame)[:])
		dst.dir[base+i] = Entry_t{Frame: nf, Present: true, Writable: true}
	}
	return 0
}
