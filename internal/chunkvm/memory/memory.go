package memory

import (
	"fmt"

	mapset "github.com/deckarep/golang-set"
)

// AccessError reports a permission violation or an out-of-range
// address, surfaced by the interpreter as MemoryAccess (spec §7).
type AccessError struct {
	Addr    int64
	Message string
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("memory access at %d: %s", e.Addr, e.Message)
}

// Memory is the VM's segmented address space.
type Memory struct {
	codeStart, codeSize   int64
	dataStart, dataSize   int64
	heapStart, heapSize   int64
	stackStart, stackSize int64
	mmioIn, mmioOut       int64

	cells map[int64]int64
	perms map[Segment]Permissions

	freePages   mapset.Set
	allocations []*allocation

	inQueue []int64
	outLog  []int64
}

type allocation struct {
	start  int64
	pages  int64
	size   int64
	marked bool
}

// New constructs a Memory with the default segment layout.
func New() *Memory {
	m := &Memory{
		codeStart:  -DefaultCodeSize,
		codeSize:   DefaultCodeSize,
		dataStart:  0,
		dataSize:   DefaultDataSize,
		cells:      make(map[int64]int64),
		perms:      defaultPermissions,
		freePages:  mapset.NewSet(),
	}
	m.heapStart = m.dataStart + m.dataSize
	m.heapSize = DefaultHeapSize
	m.stackStart = m.heapStart + m.heapSize
	m.stackSize = DefaultStackSize
	m.mmioIn = m.stackStart + m.stackSize
	m.mmioOut = m.mmioIn + 1

	pages := m.heapSize / PageSize
	for i := int64(0); i < pages; i++ {
		m.freePages.Add(i)
	}
	return m
}

// HeapStart and HeapSize expose the heap's address range for GC roots.
func (m *Memory) HeapStart() int64 { return m.heapStart }
func (m *Memory) HeapSize() int64  { return m.heapSize }

// MMIOIn and MMIOOut expose the fixed single-cell MMIO addresses.
func (m *Memory) MMIOIn() int64  { return m.mmioIn }
func (m *Memory) MMIOOut() int64 { return m.mmioOut }

// segmentFor classifies addr into one of the five segments.
func (m *Memory) segmentFor(addr int64) Segment {
	switch {
	case addr >= m.codeStart && addr < m.codeStart+m.codeSize:
		return SegCode
	case addr >= m.dataStart && addr < m.dataStart+m.dataSize:
		return SegData
	case addr >= m.heapStart && addr < m.heapStart+m.heapSize:
		return SegHeap
	case addr >= m.stackStart && addr < m.stackStart+m.stackSize:
		return SegStack
	case addr == m.mmioIn:
		return SegMMIOIn
	case addr == m.mmioOut:
		return SegMMIOOut
	default:
		return segUnknown
	}
}

// Load reads addr, applying the owning segment's permissions.
func (m *Memory) Load(addr int64) (int64, error) {
	seg := m.segmentFor(addr)
	if seg == segUnknown {
		return 0, &AccessError{Addr: addr, Message: "address out of range"}
	}
	if !m.perms[seg].Read {
		return 0, &AccessError{Addr: addr, Message: fmt.Sprintf("segment %s is not readable", seg)}
	}
	if seg == SegMMIOIn {
		if len(m.inQueue) == 0 {
			return 0, nil
		}
		v := m.inQueue[0]
		m.inQueue = m.inQueue[1:]
		return v, nil
	}
	return m.cells[addr], nil
}

// Store writes value to addr, applying the owning segment's permissions.
func (m *Memory) Store(addr, value int64) error {
	seg := m.segmentFor(addr)
	if seg == segUnknown {
		return &AccessError{Addr: addr, Message: "address out of range"}
	}
	if !m.perms[seg].Write {
		return &AccessError{Addr: addr, Message: fmt.Sprintf("segment %s is not writable", seg)}
	}
	if seg == SegMMIOOut {
		m.outLog = append(m.outLog, value)
		return nil
	}
	m.cells[addr] = value
	return nil
}

// LoadCode preloads the code segment. It is the only writer of CODE,
// bypassing the normal write-permission check since CODE is R/X only.
func (m *Memory) LoadCode(words []int64) error {
	if int64(len(words)) > m.codeSize {
		return &AccessError{Addr: m.codeStart, Message: "program exceeds code segment size"}
	}
	for i, w := range words {
		m.cells[m.codeStart+int64(i)] = w
	}
	return nil
}

// OutputLog returns the accumulated MMIO-out log.
func (m *Memory) OutputLog() []int64 { return append([]int64(nil), m.outLog...) }

// SetInputQueue seeds MMIO-in's input queue.
func (m *Memory) SetInputQueue(values []int64) { m.inQueue = append([]int64(nil), values...) }

// Cells returns a snapshot of every stored data/heap/stack cell,
// for GC roots and checkpoint serialization.
func (m *Memory) Cells() map[int64]int64 {
	out := make(map[int64]int64, len(m.cells))
	for k, v := range m.cells {
		out[k] = v
	}
	return out
}
