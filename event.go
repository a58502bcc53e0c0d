package librertos

// Event is the rendezvous point every synchronization primitive embeds.
// ReadList holds tasks waiting to consume (semaphore take, mutex lock, queue/
// fifo read); WriteList holds tasks waiting to produce, and is only
// initialized (EventRWInit) by bidirectional primitives (queue, fifo).
//
// Both lists are ordered by task priority, descending, via a negated
// priority key (see priorityKey below), so Front() is always the highest-priority
// waiter — ties broken FIFO by ListHead.Insert.
type Event struct {
	ReadList  ListHead
	WriteList ListHead
}

// EventRInit initializes an Event's read list only, for unidirectional
// primitives (semaphore, mutex).
func (e *Event) EventRInit() {
	e.ReadList.HeadInit()
}

// EventRWInit initializes both lists, for bidirectional primitives (queue,
// fifo).
func (e *Event) EventRWInit() {
	e.ReadList.HeadInit()
	e.WriteList.HeadInit()
}

// priorityKey maps a task priority to an Insert key that sorts the
// highest-priority task to the front of the list (Insert is non-decreasing
// key order), since Task.priority itself increases with priority.
func priorityKey(t *Task) int64 {
	return -int64(t.priority)
}

// EventPrePendTask is the fast, unprotected-by-scheduler-lock phase of
// blocking: it splices task's event node into list, ordered so the
// highest-priority waiter is always at the front. Must be called with the
// caller already holding the interrupt-level critical section, and before
// the blocking decision (EventPendTask) is finalized — this is what lets a
// concurrent Give/Write/Unblock that races in before the task actually
// blocks still find it in list (see the wake-no-miss property in §8).
func EventPrePendTask(list *ListHead, task *Task) {
	list.Insert(&task.eventNode, priorityKey(task))
}

// EventPendTask completes a block begun by EventPrePendTask (list may also
// be nil, with no preceding pre-pend at all — see the ticks==0 branch
// below). ticks == TicksInfinite suspends with no timeout; ticks == 0 with
// a prior pre-pend is a no-op block (the node is removed again, matching
// the source's "re-evaluate immediately" behavior for a racing wakeup that
// resolved before Pend ran).
func (k *Kernel) EventPendTask(list *ListHead, task *Task, ticks int64) {
	k.SchedulerLock()
	defer k.SchedulerUnlock()

	switch {
	case ticks == TicksInfinite:
		task.state = TaskSuspended
	case ticks > 0:
		task.state = TaskBlocked
		token := k.port.CriticalEnter()
		k.taskDelayLocked(task, uint32(ticks))
		k.port.CriticalExit(token)
	default:
		// ticks == 0: a pre-pend happened (list != nil) but the caller
		// wants no wait at all; undo the pre-pend. If the node was already
		// moved to pending-ready by a racing EventUnblockTasks, Remove is a
		// tolerated no-op (see list.go) and pendingReady already has it.
		if list != nil {
			token := k.port.CriticalEnter()
			Remove(&task.eventNode)
			k.port.CriticalExit(token)
		}
	}
}

// EventUnblockTasks wakes the single highest-priority waiter in list, if
// any: it removes that task's event node from list, clears its delay-list
// membership (if it had a finite timeout pending), appends it to
// pendingReady, and raises higherPriorityReady if the woken task outranks
// the current one. Safe to call from interrupt context; callers must hold
// the interrupt-level critical section (it does not acquire one itself,
// matching the pattern that this and EventPrePendTask are always invoked
// from inside a primitive's own CS region per §4.F's five-step sequence —
// see Give/Write for the structure).
func (k *Kernel) EventUnblockTasks(list *ListHead) {
	n := list.Front()
	if n == nil {
		return
	}
	task := n.Owner.(*Task)
	Remove(n)
	k.appendPendingReadyLocked(task)
}

// appendPendingReadyLocked removes task's delay node from wherever it is
// (its delay list, if any) and reuses that same node (tasks own exactly two
// nodes; the event node was just freed by the caller, if this task had one)
// to splice task into pendingReady, then updates the preemption hint and
// wakes task's goroutine. Callers must hold the interrupt-level critical
// section.
func (k *Kernel) appendPendingReadyLocked(task *Task) {
	Remove(&task.delayNode)
	task.state = TaskReady
	k.pendingReady.Append(&task.delayNode)
	if k.current != nil && task.priority > k.current.priority {
		k.higherPriorityReady = true
	}
	task.signalWake()
}
