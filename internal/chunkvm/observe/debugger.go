package observe

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// CallFrame records one outstanding CALL: the site it was issued from
// and the address execution resumes at on RET.
type CallFrame struct {
	CallSite int
	ReturnIP int
}

// CallStackTracker mirrors the interpreter's own call stack for
// backtrace reporting, independent of the VM's raw int64 CallStack
// (which only needs the return address to execute RET).
type CallStackTracker struct {
	frames []CallFrame
}

func NewCallStackTracker() *CallStackTracker { return &CallStackTracker{} }

func (t *CallStackTracker) Push(callSite, returnIP int) {
	t.frames = append(t.frames, CallFrame{CallSite: callSite, ReturnIP: returnIP})
}

func (t *CallStackTracker) Pop() (CallFrame, bool) {
	if len(t.frames) == 0 {
		return CallFrame{}, false
	}
	f := t.frames[len(t.frames)-1]
	t.frames = t.frames[:len(t.frames)-1]
	return f, true
}

func (t *CallStackTracker) Clear() { t.frames = nil }

// Backtrace renders the outstanding call frames, innermost first.
func (t *CallStackTracker) Backtrace() string {
	if len(t.frames) == 0 {
		return "<empty call stack>"
	}
	var b strings.Builder
	for i := len(t.frames) - 1; i >= 0; i-- {
		f := t.frames[i]
		fmt.Fprintf(&b, "#%d call@%d -> return@%d\n", len(t.frames)-1-i, f.CallSite, f.ReturnIP)
	}
	return b.String()
}

// watchMode names which access a watchpoint fires on.
type watchMode string

const (
	WatchRead  watchMode = "read"
	WatchWrite watchMode = "write"
)

// Debugger holds breakpoints, watchpoints, and a call-stack tracker,
// and emits tagged yield strings the way the reference execute()
// generator does ("BREAK:ip", "WATCH:addr:mode", "TRACE:ip").
type Debugger struct {
	breakpoints  map[int]bool
	watchpoints  map[int64]watchMode
	tracing      bool
	CallStack    *CallStackTracker
}

func NewDebugger() *Debugger {
	return &Debugger{
		breakpoints: make(map[int]bool),
		watchpoints: make(map[int64]watchMode),
		CallStack:   NewCallStackTracker(),
	}
}

func (d *Debugger) SetBreakpoint(ip int)    { d.breakpoints[ip] = true }
func (d *Debugger) ClearBreakpoint(ip int)  { delete(d.breakpoints, ip) }
func (d *Debugger) HasBreakpoint(ip int) bool { return d.breakpoints[ip] }

func (d *Debugger) SetWatchpoint(addr int64, mode watchMode) { d.watchpoints[addr] = mode }
func (d *Debugger) ClearWatchpoint(addr int64)               { delete(d.watchpoints, addr) }

func (d *Debugger) SetTracing(on bool) { d.tracing = on }
func (d *Debugger) Tracing() bool      { return d.tracing }

// OnStep returns the tagged yield strings that fire for this step:
// breakpoint, then trace. Watchpoint tags are not produced here;
// OnMemoryAccess reports those.
func (d *Debugger) OnStep(ip int) []string {
	var out []string
	if d.HasBreakpoint(ip) {
		out = append(out, fmt.Sprintf("BREAK:%d", ip))
	}
	if d.tracing {
		out = append(out, fmt.Sprintf("TRACE:%d", ip))
	}
	return out
}

// OnMemoryAccess returns a "WATCH:addr:mode" tag if addr has a
// matching watchpoint set.
func (d *Debugger) OnMemoryAccess(addr int64, mode watchMode) (string, bool) {
	want, ok := d.watchpoints[addr]
	if !ok || want != mode {
		return "", false
	}
	return fmt.Sprintf("WATCH:%d:%s", addr, mode), true
}

// PrintBacktrace writes a colorized backtrace to stdout, for CLI use.
func (d *Debugger) PrintBacktrace() {
	color.New(color.FgYellow).Println(d.CallStack.Backtrace())
}
