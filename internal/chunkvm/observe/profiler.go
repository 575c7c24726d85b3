package observe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Profiler records per-instruction timing, memory access, IO, and
// network-latency counters, grounded on the reference VMProfiler.
type Profiler struct {
	mu sync.Mutex

	startTime          time.Time
	instructionCount   int64
	totalTime          time.Duration
	opcodeCounts       map[string]int64
	ipCounts           map[int]int64
	instructionTimes   map[int]time.Duration
	memoryAccess       map[string]int64 // "read" / "write" -> count
	cacheHits          int64
	cacheMisses        int64
	ioCount            int64
	networkLatencyTotal time.Duration
	networkCalls       int64
}

// NewProfiler returns a reset Profiler.
func NewProfiler() *Profiler {
	p := &Profiler{}
	p.Reset()
	return p
}

// Reset clears every counter, as at the start of a run.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startTime = time.Now()
	p.instructionCount = 0
	p.totalTime = 0
	p.opcodeCounts = make(map[string]int64)
	p.ipCounts = make(map[int]int64)
	p.instructionTimes = make(map[int]time.Duration)
	p.memoryAccess = map[string]int64{"read": 0, "write": 0}
	p.cacheHits = 0
	p.cacheMisses = 0
	p.ioCount = 0
	p.networkLatencyTotal = 0
	p.networkCalls = 0
}

// RecordInstruction logs one executed instruction's opcode and timing.
func (p *Profiler) RecordInstruction(ip int, opcode string, duration time.Duration, cacheHit bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.instructionCount++
	p.totalTime += duration
	p.ipCounts[ip]++
	p.instructionTimes[ip] += duration
	if opcode != "" {
		p.opcodeCounts[opcode]++
	}
	if cacheHit {
		p.cacheHits++
	} else {
		p.cacheMisses++
	}
}

// RecordMemoryAccess logs a read or write at addr.
func (p *Profiler) RecordMemoryAccess(addr int64, mode string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.memoryAccess[mode]++
}

// RecordIO logs one IO-producing step.
func (p *Profiler) RecordIO() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ioCount++
}

// RecordNetworkLatency logs one simulated network round trip.
func (p *Profiler) RecordNetworkLatency(duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.networkLatencyTotal += duration
	p.networkCalls++
}

// Metrics is a point-in-time snapshot of the profiler's counters.
type Metrics struct {
	InstructionCount int64            `json:"instruction_count"`
	TotalTime        time.Duration    `json:"total_time_ns"`
	OpcodeCounts     map[string]int64 `json:"opcode_counts"`
	MemoryAccess     map[string]int64 `json:"memory_access"`
	CacheHits        int64            `json:"cache_hits"`
	CacheMisses      int64            `json:"cache_misses"`
	IOCount          int64            `json:"io_count"`
	NetworkCalls     int64            `json:"network_calls"`
}

func (p *Profiler) metricsLocked() Metrics {
	return Metrics{
		InstructionCount: p.instructionCount,
		TotalTime:        p.totalTime,
		OpcodeCounts:     cloneCounts(p.opcodeCounts),
		MemoryAccess:     cloneCounts(p.memoryAccess),
		CacheHits:        p.cacheHits,
		CacheMisses:      p.cacheMisses,
		IOCount:          p.ioCount,
		NetworkCalls:     p.networkCalls,
	}
}

// Metrics returns the current counters.
func (p *Profiler) Metrics() Metrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.metricsLocked()
}

// ExportReport renders the counters as JSON.
func (p *Profiler) ExportReport() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return json.Marshal(p.metricsLocked())
}

// ExportFlamegraph renders per-IP timings in folded-stack format.
func (p *Profiler) ExportFlamegraph() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var buf bytes.Buffer
	for ip, d := range p.instructionTimes {
		fmt.Fprintf(&buf, "ip_%d %d\n", ip, d.Nanoseconds())
	}
	return buf.String()
}

// Report renders a human-readable table of opcode hit counts.
func (p *Profiler) Report() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Opcode", "Count"})
	for op, count := range p.opcodeCounts {
		table.Append([]string{op, fmt.Sprintf("%d", count)})
	}
	table.Render()
	return buf.String()
}

func cloneCounts[K comparable](m map[K]int64) map[K]int64 {
	out := make(map[K]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
