// Package port defines the boundary between the kernel and whatever drives
// its notion of "interrupt context": enabling/disabling interrupts, the
// interrupt-level critical section, the context switch itself, and a
// monotonic time source for statistics. On real firmware these would be
// machine instructions; Hosted (in this package) fulfills the same contract
// with goroutine-safe primitives so the kernel can run as an ordinary Go
// library and be driven by a deterministic fake-interrupt harness in tests
// (see the portfake subpackage).
package port

import "time"

// Port is the set of primitives the kernel consumes from its environment.
// Every method must be safe to call concurrently with itself and with every
// other method, since on real hardware an ISR can preempt almost any of
// them.
type Port interface {
	// InterruptsEnable and InterruptsDisable model global interrupt gating.
	// The kernel calls InterruptsEnable exactly once, from Start.
	InterruptsEnable()
	InterruptsDisable()

	// CriticalEnter disables interrupts (if not already disabled) and
	// returns an opaque token recording whether this call was the outermost
	// one; CriticalExit must be passed that same token and, when it was the
	// outermost entry, re-enables interrupts. Nestable.
	CriticalEnter() (token uint64)
	CriticalExit(token uint64)

	// ContextSwitch notifies the port that the kernel has chosen to run "to"
	// in place of "from" (either may be nil). The hosted port uses this to
	// resume the target task's goroutine; a bare-metal port would save/
	// restore machine registers and stacks here instead.
	ContextSwitch(from, to TaskHandle)

	// SystemRunTime returns a monotonic clock reading, consumed only by the
	// optional statistics collaborator.
	SystemRunTime() time.Duration
}

// TaskHandle is the minimal view of a task the port layer needs: enough
// identity for logging/ContextSwitch bookkeeping, without port importing the
// root package (which imports port).
type TaskHandle interface {
	// Priority returns the task's fixed priority.
	Priority() int
}
