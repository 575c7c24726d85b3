package jit

import (
	"testing"
	"time"
)

func TestLookupMissThenCompileThenHit(t *testing.T) {
	c := NewCompiler(0)
	if _, ok := c.Lookup("k"); ok {
		t.Fatal("expected a miss on an empty cache")
	}
	ran := false
	c.Compile("k", func() (string, error) { ran = true; return "out", nil })
	block, ok := c.Lookup("k")
	if !ok {
		t.Fatal("expected a hit after Compile")
	}
	out, err := block()
	if err != nil {
		t.Fatal(err)
	}
	if out != "out" {
		t.Fatalf("block output = %q, want %q", out, "out")
	}
	if !ran {
		t.Fatal("expected the compiled block to run")
	}
	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Size != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewCompiler(time.Millisecond)
	c.Compile("k", func() (string, error) { return "", nil })
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Lookup("k"); ok {
		t.Fatal("expected entry to have expired")
	}
}

func TestPruneRemovesExpiredOnly(t *testing.T) {
	c := NewCompiler(time.Millisecond)
	c.Compile("stale", func() (string, error) { return "", nil })
	time.Sleep(5 * time.Millisecond)
	c.Compile("fresh", func() (string, error) { return "", nil })
	removed := c.Prune()
	if removed != 1 {
		t.Fatalf("Prune removed %d, want 1", removed)
	}
	if _, ok := c.Lookup("fresh"); !ok {
		t.Fatal("fresh entry should survive Prune")
	}
}
