package librertos

// TaskState is the lifecycle state of a Task as seen by the scheduler.
type TaskState int32

const (
	// TaskReady means the task occupies its ready slot and is eligible for
	// selection as current.
	TaskReady TaskState = iota
	// TaskRunning means the task is the scheduler's current task.
	TaskRunning
	// TaskBlocked means the task is parked on a primitive's event list,
	// optionally also in a delay list if it has a finite timeout.
	TaskBlocked
	// TaskSuspended means the task was pended with an infinite timeout (or
	// force-suspended) and will not wake on a tick deadline.
	TaskSuspended
	// TaskDelayed means the task is only in a delay list (TaskDelay), not
	// waiting on any event.
	TaskDelayed
)

func (s TaskState) String() string {
	switch s {
	case TaskReady:
		return "Ready"
	case TaskRunning:
		return "Running"
	case TaskBlocked:
		return "Blocked"
	case TaskSuspended:
		return "Suspended"
	case TaskDelayed:
		return "Delayed"
	default:
		return "Unknown"
	}
}

// Task is the kernel's view of a schedulable unit of work: a fixed
// priority, a current state, and the two list nodes every task owns for its
// entire lifetime (never allocated or freed by the kernel). The optional Fn
// is metadata only — the core scheduler never calls it; running a task's
// body is a host/port concern (see internal/port and cmd/librertoscli),
// consistent with the "thread-stack management is a Non-goal" decision.
type Task struct {
	priority int
	state    TaskState

	delayNode ListNode
	eventNode ListNode

	// wake is signaled exactly once per unblock (Give/Write/Unlock resolving
	// a wait, a tick deadline firing, or TaskResume), buffered so a signal
	// delivered before the blocked goroutine starts receiving is not lost.
	wake chan struct{}

	// waitKey is the byte threshold a Fifo waiter is pending on; zero for
	// primitives that don't use it (semaphore, mutex, queue).
	waitKey int64

	// Fn is optional demo/host metadata: the function a host may choose to
	// run when this task is current. Unused by the kernel core itself.
	Fn func(*Task)

	// Name is optional metadata for logging.
	Name string
}

// Priority returns the task's fixed priority (also satisfies
// internal/port.TaskHandle).
func (t *Task) Priority() int { return t.priority }

// State returns the task's current scheduler state.
func (t *Task) State() TaskState { return t.state }

func newTask(priority int, name string, fn func(*Task)) *Task {
	t := &Task{
		priority: priority,
		state:    TaskReady,
		wake:     make(chan struct{}, 1),
		Fn:       fn,
		Name:     name,
	}
	NodeInit(&t.delayNode, t)
	NodeInit(&t.eventNode, t)
	return t
}

// signalWake delivers (or coalesces with) a pending wake for t. Safe to call
// from any goroutine; never blocks.
func (t *Task) signalWake() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// Wait parks the calling goroutine until t is woken (via signalWake). This
// is how a task's own goroutine implements "the pend blocks until resumed";
// the kernel's own state manipulation (list membership, ready table) has
// already happened by the time a caller reaches Wait.
func (t *Task) Wait() {
	<-t.wake
}
