package librertos

// blockingOp implements the five-step take/give pattern common to every
// primitive in §4.F: try the operation under the interrupt-level critical
// section; if it succeeds, optionally wake one opposite-side waiter; if it
// would block and ticks == 0, fail immediately; otherwise pre-pend, pend,
// wait for exactly one wake, and make one final attempt before reporting a
// timeout.
//
// tryCommit must be side-effect-free on failure: it should return false
// without mutating anything, and true after fully applying the operation's
// effect, entirely while holding the critical section token it is called
// under (blockingOp passes none explicitly — tryCommit is expected to close
// over whatever state it needs and assume the critical section is held for
// its duration).
func (k *Kernel) blockingOp(selfList, oppositeList *ListHead, task *Task, ticks int64, waitKey int64, tryCommit func() bool) error {
	token := k.port.CriticalEnter()
	if tryCommit() {
		k.port.CriticalExit(token)
		k.signalOppositeIfPresent(oppositeList)
		return nil
	}
	if ticks == 0 {
		k.port.CriticalExit(token)
		return ErrWouldBlock
	}

	task.waitKey = waitKey
	EventPrePendTask(selfList, task)
	k.port.CriticalExit(token)

	if k.afterPrePendHook != nil {
		k.afterPrePendHook()
	}
	k.EventPendTask(selfList, task, ticks)
	task.Wait()

	token = k.port.CriticalEnter()
	if tryCommit() {
		k.port.CriticalExit(token)
		k.signalOppositeIfPresent(oppositeList)
		return nil
	}
	k.port.CriticalExit(token)
	return ErrTimedOut
}

func (k *Kernel) signalOppositeIfPresent(list *ListHead) {
	if list == nil {
		return
	}
	token := k.port.CriticalEnter()
	k.EventUnblockTasks(list)
	k.port.CriticalExit(token)
}

// nonBlockingOp implements the non-pending half of a primitive (plain
// Take/Give with no wait), used by operations that never block (e.g. Give
// on a semaphore, Write on a queue): try the mutation, and if it applied,
// wake one opposite-side waiter.
func (k *Kernel) nonBlockingOp(oppositeList *ListHead, tryCommit func() bool) bool {
	token := k.port.CriticalEnter()
	ok := tryCommit()
	k.port.CriticalExit(token)
	if ok {
		k.signalOppositeIfPresent(oppositeList)
	}
	return ok
}
