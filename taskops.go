package librertos

// TaskCreate registers a new task at priority, storing it into the ready
// table. fn is optional host metadata (see Task.Fn); name is used in log
// entries. Returns InvalidPriorityError or DuplicatePriorityError if
// priority is out of range or already occupied — both detected here rather
// than asserted, a deliberate Go-native resolution of the source's "assert
// in debug, undefined in release" Open Question (see DESIGN.md).
func (k *Kernel) TaskCreate(priority int, name string, fn func(*Task)) (*Task, error) {
	if priority < 0 || priority >= k.maxPriority {
		return nil, &InvalidPriorityError{Priority: priority, Max: k.maxPriority}
	}
	if k.softwareTimers && priority == k.maxPriority-1 {
		return nil, &DuplicatePriorityError{Priority: priority}
	}

	token := k.port.CriticalEnter()
	defer k.port.CriticalExit(token)

	if k.ready[priority] != nil {
		return nil, &DuplicatePriorityError{Priority: priority}
	}

	t := newTask(priority, name, fn)
	k.ready[priority] = t
	k.log(LevelInfo, "task", "task created", nil)
	return t, nil
}

// TaskDelay blocks the calling task for ticks ticks. There is no event list
// involved (TaskDelay has no wait condition beyond time), so the only list
// membership gained is the delay node; ticks == 0 is a cooperative yield
// (see the Open Question resolution in SPEC_FULL.md §9) rather than a
// no-op, letting equal/higher-priority ready tasks run via the normal
// scheduler-unlock drain.
func (k *Kernel) TaskDelay(task *Task, ticks uint32) {
	k.SchedulerLock()
	if ticks > 0 {
		task.state = TaskDelayed
		token := k.port.CriticalEnter()
		k.taskDelayLocked(task, ticks)
		k.port.CriticalExit(token)
	}
	k.SchedulerUnlock()

	if ticks > 0 {
		task.Wait()
	}
}

// TaskResume force-unblocks task by moving it directly to pendingReady,
// regardless of what it was waiting on (an event, a delay, or suspended
// indefinitely). Safe to call from interrupt context.
func (k *Kernel) TaskResume(task *Task) {
	token := k.port.CriticalEnter()
	Remove(&task.eventNode)
	k.appendPendingReadyLocked(task)
	k.port.CriticalExit(token)
}

// checkListLengthInvariant, when StateGuards is enabled, recomputes a list's
// length by walking it and compares against the cached counter, reporting
// any mismatch via Config.Invariant. No kernel entry point calls it.
func (k *Kernel) checkListLengthInvariant(name string, l *ListHead) {
	if !k.stateGuards {
		return
	}
	n := 0
	for cur := l.Front(); cur != nil; {
		n++
		if cur.next == &l.root {
			break
		}
		cur = cur.next
	}
	if n != l.length {
		k.invariant(newViolation("list %q length mismatch: cached=%d actual=%d", name, l.length, n))
	}
}
