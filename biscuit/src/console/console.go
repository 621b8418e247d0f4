// Package console implements the 80x25 screen buffer and 128-entry
// keyboard bitmap spec.md names as the boundary of the out-of-scope
// console/keyboard driver. These are concrete, testable in-memory
// structures the kernel core owns outright, grounded on
// original_source's dumpScreen/keyboard_routine/clock_routine.
package console

import "defs"
import "circbuf"
import "mem"

const (
	Width  = 80
	Height = 25
	Cells  = Width * Height
)

/// Cell_t packs one screen cell as the original's Word* screen does: low
/// byte the character, high byte the color attribute.
type Cell_t uint16

/// Console_t is the kernel's single console sink: the visible screen
/// buffer, the keyboard press bitmap, and the 512-byte write() staging
/// buffer.
type Console_t struct {
	Buffer   [Cells]Cell_t
	Keyboard [128]uint8
	cursor   int
	out      circbuf.Circbuf_t
}

/// New returns a blank console with its write-staging buffer backed by
/// a frame from phys.
func New(phys *mem.Physmem_t) *Console_t {
	c := &Console_t{}
	c.out.Cb_init(512, phys)
	return c
}

/// KeyEvent records a keyboard scancode, a direct port of
/// keyboard_routine: bit 0x80 set means release, clear means press.
func (c *Console_t) KeyEvent(scan uint8) {
	if scan&0x80 == 0 {
		c.Keyboard[scan] = 1
	} else {
		c.Keyboard[scan&0x7f] = 0
	}
}

/// ReadKeyboardState snapshots the keyboard buffer and clears it,
/// resolving the GetKeyboardState Open Question: the only direction
/// the original syscall ever copies is kernel-to-user.
func (c *Console_t) ReadKeyboardState() [128]uint8 {
	snap := c.Keyboard
	c.Keyboard = [128]uint8{}
	return snap
}

func (c *Console_t) appendByte(b uint8) {
	c.Buffer[c.cursor] = Cell_t(b)
	c.cursor = (c.cursor + 1) % Cells
}

/// WriteConsole chunks data through the 512-byte staging buffer and
/// appends it to the visible screen buffer; past the last cell it wraps
/// back to the first cell and overwrites it (there is no scrolling). It
/// returns the number of bytes written,
/// which can be less than len(data) only on an allocation failure.
func (c *Console_t) WriteConsole(data []uint8) (int, defs.Err_t) {
	total := 0
	for len(data) > 0 {
		n, err := c.out.Copyin(data)
		if err != 0 {
			return total, err
		}
		if n == 0 {
			drained := make([]uint8, c.out.Used())
			c.out.Copyout(drained)
			for _, b := range drained {
				c.appendByte(b)
			}
			continue
		}
		data = data[n:]
		total += n
	}
	drained := make([]uint8, c.out.Used())
	c.out.Copyout(drained)
	for _, b := range drained {
		c.appendByte(b)
	}
	return total, 0
}

/// CopyScreen copies a task's private screen frame into the visible
/// buffer, a direct port of dumpScreen, called once per tick by the
/// kernel's clock handler for whichever task is running.
func (c *Console_t) CopyScreen(frame *mem.Frame_t) {
	for i := 0; i < Cells; i++ {
		lo := frame[i*2]
		hi := frame[i*2+1]
		c.Buffer[i] = Cell_t(uint16(lo) | uint16(hi)<<8)
	}
}
