package port

import (
	"sync"
	"sync/atomic"
	"time"
)

// Hosted is the production Port implementation for running the kernel as an
// ordinary Go program or test: the critical section is a real mutex, and
// ContextSwitch is a pluggable hook a host can use to gate goroutines
// representing task bodies (OnContextSwitch). It is not
// a bare-metal port — see the package doc — but it fulfills the same
// contract a bare-metal port would.
//
// The critical section is intentionally non-reentrant: the kernel's own
// call graph is structured (per the source's pre-pend/pend split and the
// five-step primitive pattern) so that no code path calls CriticalEnter
// while it already holds the token from an earlier, still-open call on the
// same goroutine — helpers that run "inside" an already-held section take no
// lock of their own. A true embedded port's disable/enable is nestable by
// nature (it is just a counter over a single global flag); this Hosted port
// models that nesting at the token level (the low bit of the returned token
// records whether interrupts were already disabled) without needing a
// reentrant mutex, because that nesting never actually occurs in practice.
type Hosted struct {
	mu                sync.Mutex
	interruptsEnabled atomic.Bool
	gen               atomic.Uint64

	// OnContextSwitch, if set, is invoked synchronously from ContextSwitch.
	// A host can use it to signal per-task wakeup channels.
	OnContextSwitch func(from, to TaskHandle)

	start time.Time
}

// NewHosted returns a Hosted port with interrupts initially disabled,
// matching kernel state immediately after Init (Start calls
// InterruptsEnable).
func NewHosted() *Hosted {
	return &Hosted{start: time.Now()}
}

func (h *Hosted) InterruptsEnable()  { h.interruptsEnabled.Store(true) }
func (h *Hosted) InterruptsDisable() { h.interruptsEnabled.Store(false) }

func (h *Hosted) CriticalEnter() uint64 {
	h.mu.Lock()
	wasEnabled := h.interruptsEnabled.Swap(false)
	g := h.gen.Add(1)
	var bit uint64
	if wasEnabled {
		bit = 1
	}
	return g<<1 | bit
}

func (h *Hosted) CriticalExit(token uint64) {
	h.interruptsEnabled.Store(token&1 == 1)
	h.mu.Unlock()
}

func (h *Hosted) ContextSwitch(from, to TaskHandle) {
	if h.OnContextSwitch != nil {
		h.OnContextSwitch(from, to)
	}
}

func (h *Hosted) SystemRunTime() time.Duration {
	return time.Since(h.start)
}
