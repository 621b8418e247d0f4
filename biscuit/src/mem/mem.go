package mem

import "sync"

import "defs"

/// Pa_t represents a physical frame number in the closed frame table
/// (not a byte address).
type Pa_t uint32

/// Frame_t is the simulated backing storage for one physical frame.
type Frame_t [defs.PAGE_SIZE]uint8

/// Physmem_t is the closed physical frame allocator. It holds exactly
/// defs.TOTAL_PAGES frames and never grows; frame discovery against real
/// hardware (e820, DMA regions) is out of scope for a single simulated
/// machine.
type Physmem_t struct {
	sync.Mutex
	used   [defs.TOTAL_PAGES]bool
	frames [defs.TOTAL_PAGES]Frame_t
	free   int
}

/// Phys_init returns a fresh allocator with every frame free.
func Phys_init() *Physmem_t {
	p := &Physmem_t{}
	p.free = defs.TOTAL_PAGES
	return p
}

/// Alloc reserves the lowest-indexed free frame and returns it zeroed.
/// It returns EAGAIN if no frame is free, matching spec.md §4.1's
/// alloc_frame() contract (distinct from ENOMEM, which names task-table
/// exhaustion instead).
func (phys *Physmem_t) Alloc() (Pa_t, defs.Err_t) {
	phys.Lock()
	defer phys.Unlock()
	for i := range phys.used {
		if !phys.used[i] {
			phys.used[i] = true
			phys.free--
			phys.frames[i] = Frame_t{}
			return Pa_t(i), 0
		}
	}
	return 0, -defs.EAGAIN
}

/// Free releases a previously allocated frame. It panics on a double
/// free, the same invariant violation the teacher treats as fatal.
func (phys *Physmem_t) Free(p Pa_t) {
	phys.Lock()
	defer phys.Unlock()
	if int(p) >= defs.TOTAL_PAGES {
		panic("bad frame")
	}
	if !phys.used[p] {
		panic("double free")
	}
	phys.used[p] = false
	phys.free++
}

/// Dmap returns the backing storage for a frame, analogous to the
/// teacher's direct map from a physical address to its *Pg_t.
func (phys *Physmem_t) Dmap(p Pa_t) *Frame_t {
	if int(p) >= defs.TOTAL_PAGES {
		panic("bad frame")
	}
	return &phys.frames[p]
}

/// Avail reports the number of free frames remaining.
func (phys *Physmem_t) Avail() int {
	phys.Lock()
	defer phys.Unlock()
	return phys.free
}
