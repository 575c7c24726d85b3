package memory

import "sort"

// Allocate finds the smallest run of contiguous free pages able to
// hold size bytes, marks them allocated, zeroes the range, and returns
// its start address. On failure it runs the collector (via roots) and
// retries once before giving up.
func (m *Memory) Allocate(size int64, roots []int64) (int64, error) {
	if addr, ok := m.tryAllocate(size); ok {
		return addr, nil
	}
	m.Collect(roots)
	if addr, ok := m.tryAllocate(size); ok {
		return addr, nil
	}
	return 0, &AccessError{Message: "out of memory"}
}

func (m *Memory) tryAllocate(size int64) (int64, bool) {
	pagesNeeded := (size + PageSize - 1) / PageSize
	if pagesNeeded <= 0 {
		pagesNeeded = 1
	}

	free := make([]int64, 0, m.freePages.Cardinality())
	for _, p := range m.freePages.ToSlice() {
		free = append(free, p.(int64))
	}
	sort.Slice(free, func(i, j int) bool { return free[i] < free[j] })

	run := findContiguousRun(free, pagesNeeded)
	if run == nil {
		return 0, false
	}

	for _, p := range run {
		m.freePages.Remove(p)
	}
	start := m.heapStart + run[0]*PageSize
	for i := int64(0); i < pagesNeeded*PageSize; i++ {
		m.cells[start+i] = 0
	}
	m.allocations = append(m.allocations, &allocation{start: start, pages: pagesNeeded, size: size})
	return start, true
}

func findContiguousRun(sortedFreePages []int64, need int64) []int64 {
	if int64(len(sortedFreePages)) < need {
		return nil
	}
	var run []int64
	for i, p := range sortedFreePages {
		if i > 0 && p == sortedFreePages[i-1]+1 {
			run = append(run, p)
		} else {
			run = []int64{p}
		}
		if int64(len(run)) == need {
			return run
		}
	}
	return nil
}

// Free returns the allocation starting at addr to the free-page set and
// clears its bytes.
func (m *Memory) Free(addr int64) error {
	for i, a := range m.allocations {
		if a.start == addr {
			m.releaseAllocation(a)
			m.allocations = append(m.allocations[:i], m.allocations[i+1:]...)
			return nil
		}
	}
	return &AccessError{Addr: addr, Message: "free of an address with no live allocation"}
}

func (m *Memory) releaseAllocation(a *allocation) {
	startPage := (a.start - m.heapStart) / PageSize
	for i := int64(0); i < a.pages; i++ {
		m.freePages.Add(startPage + i)
	}
	for i := int64(0); i < a.pages*PageSize; i++ {
		delete(m.cells, a.start+i)
	}
}

// allocationFor returns the allocation owning addr, if any.
func (m *Memory) allocationFor(addr int64) *allocation {
	for _, a := range m.allocations {
		if addr >= a.start && addr < a.start+a.pages*PageSize {
			return a
		}
	}
	return nil
}

// Collect runs a mark-sweep pass: roots are integer values that may
// point into the heap (stack, call stack, and every stored segment
// cell); any allocation not reachable from a root is freed.
func (m *Memory) Collect(roots []int64) {
	for _, a := range m.allocations {
		a.marked = false
	}

	mark := func(v int64) {
		if a := m.allocationFor(v); a != nil {
			a.marked = true
		}
	}
	for _, r := range roots {
		mark(r)
	}
	for _, v := range m.cells {
		mark(v)
	}

	var survivors []*allocation
	for _, a := range m.allocations {
		if a.marked {
			survivors = append(survivors, a)
		} else {
			m.releaseAllocation(a)
		}
	}
	m.allocations = survivors
}
