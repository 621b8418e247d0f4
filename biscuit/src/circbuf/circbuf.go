package circbuf

import "defs"
import "mem"

/// Circbuf_t is a circular byte buffer backed by a single simulated
/// physical frame, used by the console package to chunk write() calls.
/// It is not safe for concurrent use; callers serialize access the same
/// way the kernel lock serializes the write syscall.
type Circbuf_t struct {
	phys  *mem.Physmem_t
	p_pg  mem.Pa_t
	buf   []uint8
	bufsz int
	head  int
	tail  int
}

/// Bufsz returns the configured buffer size.
func (cb *Circbuf_t) Bufsz() int {
	return cb.bufsz
}

/// Cb_init records the buffer's configuration; the backing frame itself
/// is allocated lazily by Cb_ensure.
func (cb *Circbuf_t) Cb_init(sz int, phys *mem.Physmem_t) defs.Err_t {
	if sz <= 0 || sz > defs.PAGE_SIZE {
		panic("bad circbuf size")
	}
	cb.phys = phys
	cb.bufsz = sz
	cb.head, cb.tail = 0, 0
	return 0
}

/// Cb_ensure guarantees the backing frame is allocated.
func (cb *Circbuf_t) Cb_ensure() defs.Err_t {
	if cb.buf != nil {
		return 0
	}
	if cb.bufsz == 0 {
		panic("not initted")
	}
	f, err := cb.phys.Alloc()
	if err != 0 {
		return err
	}
	cb.p_pg = f
	cb.buf = cb.phys.Dmap(f)[:cb.bufsz]
	return 0
}

/// Cb_release drops the backing frame.
func (cb *Circbuf_t) Cb_release() {
	if cb.buf == nil {
		return
	}
	cb.phys.Free(cb.p_pg)
	cb.buf = nil
	cb.head, cb.tail = 0, 0
}

/// Full returns true when the buffer cannot accept more data.
func (cb *Circbuf_t) Full() bool {
	return cb.head-cb.tail == cb.bufsz
}

/// Empty reports whether the buffer contains any data.
func (cb *Circbuf_t) Empty() bool {
	return cb.head == cb.tail
}

/// Left returns the remaining capacity in bytes.
func (cb *Circbuf_t) Left() int {
	return cb.bufsz - (cb.head - cb.tail)
}

/// Used returns the current number of bytes in the buffer.
func (cb *Circbuf_t) Used() int {
	return cb.head - cb.tail
}

/// Copyin appends src into the circular buffer, wrapping as needed, and
/// returns the number of bytes actually written (fewer than len(src)
/// when the buffer fills up).
func (cb *Circbuf_t) Copyin(src []uint8) (int, defs.Err_t) {
	if err := cb.Cb_ensure(); err != 0 {
		return 0, err
	}
	n := 0
	for n < len(src) && !cb.Full() {
		hi := cb.head % cb.bufsz
		cb.buf[hi] = src[n]
		cb.head++
		n++
	}
	return n, 0
}

/// Copyout drains up to len(dst) bytes from the buffer into dst and
/// returns the number of bytes copied.
func (cb *Circbuf_t) Copyout(dst []uint8) (int, defs.Err_t) {
	if err := cb.Cb_ensure(); err != 0 {
		return 0, err
	}
	n := 0
	for n < len(dst) && !cb.Empty() {
		ti := cb.tail % cb.bufsz
		dst[n] = cb.buf[ti]
		cb.tail++
		n++
	}
	return n, 0
}
