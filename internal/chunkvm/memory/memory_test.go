package memory

import "testing"

func TestStoreLoadRoundTrip(t *testing.T) {
	m := New()
	addr := m.dataStart
	if err := m.Store(addr, 42); err != nil {
		t.Fatal(err)
	}
	got, err := m.Load(addr)
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("Load = %d, want 42", got)
	}
}

func TestCodeSegmentReadOnly(t *testing.T) {
	m := New()
	if err := m.LoadCode([]int64{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Load(m.codeStart); err != nil {
		t.Fatalf("expected code segment to be readable: %v", err)
	}
	if err := m.Store(m.codeStart, 9); err == nil {
		t.Fatal("expected write to code segment to fail")
	}
}

func TestOutOfRangeAddress(t *testing.T) {
	m := New()
	if _, err := m.Load(999999999); err == nil {
		t.Fatal("expected out-of-range load to fail")
	}
}

func TestMMIOInEmptyQueueReturnsZero(t *testing.T) {
	m := New()
	v, err := m.Load(m.mmioIn)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Fatalf("empty MMIO-in queue should yield 0, got %d", v)
	}
}

func TestMMIOInDequeuesInOrder(t *testing.T) {
	m := New()
	m.SetInputQueue([]int64{1, 2, 3})
	for _, want := range []int64{1, 2, 3, 0} {
		got, err := m.Load(m.mmioIn)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("Load(mmioIn) = %d, want %d", got, want)
		}
	}
}

func TestMMIOOutAppendsToLog(t *testing.T) {
	m := New()
	if err := m.Store(m.mmioOut, 42); err != nil {
		t.Fatal(err)
	}
	log := m.OutputLog()
	if len(log) != 1 || log[0] != 42 {
		t.Fatalf("output log = %v, want [42]", log)
	}
	if _, err := m.Load(m.mmioOut); err == nil {
		t.Fatal("expected MMIO-out to be write-only")
	}
}

func TestHeapAllocateAndFree(t *testing.T) {
	m := New()
	addr, err := m.Allocate(64, nil)
	if err != nil {
		t.Fatal(err)
	}
	if addr < m.heapStart || addr >= m.heapStart+m.heapSize {
		t.Fatalf("allocation %d outside heap range", addr)
	}
	if err := m.Free(addr); err != nil {
		t.Fatal(err)
	}
}

func TestHeapGCReclaimsUnreachable(t *testing.T) {
	m := New()
	addr, err := m.Allocate(64, nil)
	if err != nil {
		t.Fatal(err)
	}
	m.Collect(nil) // no roots reference addr
	if _, err := m.Allocate(m.heapSize, nil); err != nil {
		t.Fatalf("expected GC to reclaim the unreachable allocation at %d: %v", addr, err)
	}
}

func TestHeapGCPreservesReachable(t *testing.T) {
	m := New()
	addr, err := m.Allocate(64, nil)
	if err != nil {
		t.Fatal(err)
	}
	m.Collect([]int64{addr})
	// Free fails for an address with no live allocation, so it only
	// succeeds if the collector kept this one.
	if err := m.Free(addr); err != nil {
		t.Fatalf("expected reachable allocation to survive GC: %v", err)
	}
}
