// Package portfake provides a deterministic fake-interrupt harness for
// testing the two-layer critical-section discipline described in §5 and §9
// of the design: a "hosted test harness [that] can fulfill [the critical
// section abstraction] by serializing a fake-interrupt thread against the
// kernel."
package portfake

import (
	"sync"
	"time"

	"github.com/djboni/librertos/internal/port"
)

// Hook names a documented interleaving seam a test wants to pause at. The
// kernel core does not call Fake.At itself: it calls its own unexported
// afterPrePendHook/beforeCommitHook function fields, and a same-package test
// may set those to call Fake.At(name). At is a no-op when no test has armed
// the hook.
type Hook string

const (
	// HookAfterPrePend fires after EventPrePendTask returns and before
	// EventPendTask runs — the seam scenario 6 (§8) exercises to prove a
	// racing unblock between pre-pend and pend is not missed.
	HookAfterPrePend Hook = "after-prepend"

	// HookBeforeCommit fires inside Queue Write or Read, between bumping
	// the reservation counter and committing the pointer/counter update —
	// the "concurrent-access hook" of §5. Fifo Write and Read have no such
	// seam.
	HookBeforeCommit Hook = "before-commit"
)

// Fake is a Port that wraps a real port.Port (typically a Hosted) and adds
// a blocking rendezvous at named hooks: a test goroutine calls Arm(hook) to
// request a pause, then Release(hook) once it has finished whatever
// concurrent "interrupt" action it wanted to interleave.
type Fake struct {
	port.Port

	mu    sync.Mutex
	armed map[Hook]chan struct{}
}

// New wraps the given Port (use port.NewHosted() in tests unless a test
// needs to fake the critical section itself too).
func New(base port.Port) *Fake {
	return &Fake{Port: base, armed: make(map[Hook]chan struct{})}
}

// Arm requests that the next call to At(hook) block until Release(hook) is
// called from another goroutine.
func (f *Fake) Arm(hook Hook) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.armed[hook] = make(chan struct{})
}

// Release unblocks a goroutine currently parked in At(hook). No-op if hook
// was never armed or has already fired.
func (f *Fake) Release(hook Hook) {
	f.mu.Lock()
	ch, ok := f.armed[hook]
	if ok {
		delete(f.armed, hook)
	}
	f.mu.Unlock()
	if ok {
		close(ch)
	}
}

// At is called by the kernel core at a documented seam. If the hook is
// armed, it blocks the calling goroutine until Release(hook) (or a fixed
// 5-second timeout) — this is how a test inserts a concurrent unblock/write exactly
// between two steps of an operation under test.
func (f *Fake) At(hook Hook) {
	f.mu.Lock()
	ch, ok := f.armed[hook]
	f.mu.Unlock()
	if !ok {
		return
	}
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
	}
}
