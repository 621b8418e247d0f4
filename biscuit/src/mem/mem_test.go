package mem

import "testing"

import "defs"

func TestAllocFreeRoundTrip(t *testing.T) {
	p := Phys_init()
	if p.Avail() != defs.TOTAL_PAGES {
		t.Fatalf("expected %d free frames, got %d", defs.TOTAL_PAGES, p.Avail())
	}
	f, err := p.Alloc()
	if err != 0 {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Avail() != defs.TOTAL_PAGES-1 {
		t.Fatalf("expected one frame consumed")
	}
	p.Free(f)
	if p.Avail() != defs.TOTAL_PAGES {
		t.Fatalf("expected frame returned to the pool")
	}
}

func TestAllocExhaustion(t *testing.T) {
	p := Phys_init()
	for i := 0; i < defs.TOTAL_PAGES; i++ {
		if _, err := p.Alloc(); err != 0 {
			t.Fatalf("unexpected exhaustion at frame %d", i)
		}
	}
	if _, err := p.Alloc(); err != -defs.EAGAIN {
		t.Fatalf("expected EAGAIN, got %v", err)
	}
}

func TestDoubleFreePanics(t *testing.T) {
	p := Phys_init()
	f, _ := p.Alloc()
	p.Free(f)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on double free")
		}
	}()
	p.Free(f)
}
