package librertos

import "math"

// TicksInfinite is the sentinel timeout meaning "suspend with no deadline",
// matching the source's ticks == UINT32_MAX convention.
const TicksInfinite int64 = math.MaxUint32

// taskDelayLocked inserts task's delay node into whichever of the two
// overflow-aware delay lists covers wake = tick + ticks, per §4.D. Callers
// must hold the interrupt-level critical section (it mutates the same list
// heads Tick advances); EventPendTask and TaskDelay both acquire it around
// this call.
func (k *Kernel) taskDelayLocked(task *Task, ticks uint32) {
	wake := k.tick + ticks
	if wake < k.tick {
		// arithmetic wrapped past the uint32 boundary
		k.blockedOverflowed.Insert(&task.delayNode, int64(wake))
	} else {
		k.blockedNotOverflowed.Insert(&task.delayNode, int64(wake))
	}
}

// Tick ages the delay lists by one tick. It is the kernel's sole time
// source; call it from a timer ISR, a tick goroutine, or a test driver.
// Safe to call concurrently with any other kernel entry point.
func (k *Kernel) Tick() {
	token := k.port.CriticalEnter()
	locked := k.schedulerLock > 0
	if locked {
		k.delayedTicks++
	} else {
		k.advanceTickLocked()
	}
	k.port.CriticalExit(token)

	k.log(LevelDebug, "tick", "tick advanced", nil)

	// Draining pending-ready and invoking the scheduler is deferred to
	// SchedulerUnlock while the lock is held; when it isn't, do it now.
	if !locked {
		k.SchedulerLock()
		k.SchedulerUnlock()
	}
}

// advanceTickLocked increments tick, flips the overflow lists if it wrapped,
// and drains every delay-list entry whose deadline has arrived into
// pendingReady. Callers must hold the interrupt-level critical section.
func (k *Kernel) advanceTickLocked() {
	k.tick++
	if k.tick == 0 {
		k.blockedNotOverflowed, k.blockedOverflowed = k.blockedOverflowed, k.blockedNotOverflowed
	}

	for {
		n := k.blockedNotOverflowed.Front()
		if n == nil || n.Key() > int64(k.tick) {
			break
		}
		task := n.Owner.(*Task)
		Remove(n)
		Remove(&task.eventNode)
		k.appendPendingReadyLocked(task)
	}
}

// applyDelayedTicksLocked replays ticks accumulated while the scheduler was
// locked; called from SchedulerUnlock at the 0-transition. Callers must hold
// the interrupt-level critical section.
func (k *Kernel) applyDelayedTicksLocked() {
	for k.delayedTicks > 0 {
		k.delayedTicks--
		k.advanceTickLocked()
	}
}
