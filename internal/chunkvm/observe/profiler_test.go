package observe

import (
	"testing"
	"time"
)

func TestProfilerRecordsInstructionCounts(t *testing.T) {
	p := NewProfiler()
	p.RecordInstruction(0, "PUSH", time.Microsecond, false)
	p.RecordInstruction(1, "ADD", time.Microsecond, true)
	m := p.Metrics()
	if m.InstructionCount != 2 {
		t.Fatalf("InstructionCount = %d, want 2", m.InstructionCount)
	}
	if m.CacheHits != 1 || m.CacheMisses != 1 {
		t.Fatalf("CacheHits/Misses = %d/%d, want 1/1", m.CacheHits, m.CacheMisses)
	}
	if m.OpcodeCounts["PUSH"] != 1 {
		t.Fatalf("OpcodeCounts[PUSH] = %d, want 1", m.OpcodeCounts["PUSH"])
	}
}

func TestProfilerExportReportIsValidJSON(t *testing.T) {
	p := NewProfiler()
	p.RecordInstruction(0, "NOP", time.Nanosecond, true)
	if _, err := p.ExportReport(); err != nil {
		t.Fatalf("ExportReport: %v", err)
	}
}

func TestProfilerReportRendersTable(t *testing.T) {
	p := NewProfiler()
	p.RecordInstruction(0, "PUSH", time.Microsecond, false)
	out := p.Report()
	if out == "" {
		t.Fatal("expected non-empty table output")
	}
}
