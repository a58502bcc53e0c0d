// Package librertos is a fixed-priority preemptive scheduler kernel: a
// priority-ordered ready table, a tick-driven delay engine with
// overflow-aware dual delay lists, an event/pend-unblock protocol shared by
// every blocking primitive, and counting semaphore, recursive mutex,
// fixed-item queue, byte fifo, and optional software timer primitives built
// on top of it.
//
// # Architecture
//
// A *Kernel holds all scheduler state: the ready table, the current task,
// the scheduler lock nesting counter, the tick counters, and the delay/
// pending-ready lists. Every blocking primitive (Semaphore, Mutex, Queue,
// Fifo) embeds an Event and follows the same five-step pattern: try the
// operation under the interrupt-level critical section; on success, wake
// one opposite-side waiter; on failure with a nonzero wait, pre-pend into
// the event list, release the critical section, register a delay-list
// entry (EventPendTask), and park the calling goroutine until woken.
//
// Tasks are not goroutines managed by the kernel; a host starts one
// goroutine per task and that goroutine calls into the kernel's blocking
// entry points directly, parking on Task.Wait when a pend blocks. The
// kernel's own data structures (lists, events, ready table) are plain Go
// values manipulated under the port's critical section, so they can be
// exercised directly from tests without any goroutines at all except where
// a test specifically wants to simulate a concurrent interrupt (see
// internal/port/portfake).
//
// # Ports
//
// The Port interface (internal/port) is the seam between the kernel and
// its environment: interrupt enable/disable, the critical section, and the
// context switch notification. Hosted is the default, goroutine-safe
// implementation; a bare-metal embedder would supply their own.
//
// # Errors
//
// Non-blocking operations that would block return ErrWouldBlock; a pend
// that times out returns ErrTimedOut; a Give/Write against a full resource
// returns ErrCapacityExceeded. TaskCreate returns InvalidPriorityError or
// DuplicatePriorityError for a bad or already-occupied priority. A negative
// scheduler lock is routed through Config.Invariant instead of panicking
// unconditionally, so a hosted test can observe it; the StateGuards
// list-length check reports the same way but is not called by any kernel
// entry point.
package librertos
