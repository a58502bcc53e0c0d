package librertos

// Timer is a software timer: a callback scheduled to run once after a
// delay, or periodically every period ticks, driven entirely by Tick — no
// dedicated hardware timer is involved. Gated behind WithSoftwareTimers.
type Timer struct {
	node    ListNode
	period  uint32 // 0 = one-shot
	nextRun uint32
	fn      func(*Timer)
}

// TimerInit initializes t with its callback. t must be started with
// TimerStart or TimerStartPeriodic before it will ever fire.
func (t *Timer) TimerInit(fn func(*Timer)) {
	NodeInit(&t.node, t)
	t.fn = fn
	t.period = 0
	t.nextRun = 0
}

// TimerStart schedules t to fire once, ticks ticks from now. Restarts t if
// already scheduled.
func (k *Kernel) TimerStart(t *Timer, ticks uint32) error {
	return k.timerSchedule(t, ticks, 0)
}

// TimerStartPeriodic schedules t to fire every period ticks, starting
// period ticks from now. Restarts t if already scheduled.
func (k *Kernel) TimerStartPeriodic(t *Timer, period uint32) error {
	if period == 0 {
		return newViolation("timer period must be nonzero")
	}
	return k.timerSchedule(t, period, period)
}

func (k *Kernel) timerSchedule(t *Timer, ticks, period uint32) error {
	if !k.softwareTimers {
		return newViolation("software timers not enabled (see WithSoftwareTimers)")
	}
	k.timerRelinkLocked(t, ticks, period)
	k.TaskResume(k.timerTask)
	return nil
}

// timerRelinkLocked splices t into timerUnorderedList with a fresh
// deadline, under its own critical section. Used both by external
// TimerStart/TimerStartPeriodic callers (who must also prod the timer task
// awake) and by the timer task's own reschedule-after-fire step (who must
// not: it is already running, and waking itself would leave a stale signal
// buffered on its own wake channel, short-circuiting its next real sleep).
func (k *Kernel) timerRelinkLocked(t *Timer, ticks, period uint32) {
	token := k.port.CriticalEnter()
	Remove(&t.node)
	t.nextRun = k.tick + ticks
	t.period = period
	k.timerUnorderedList.Append(&t.node)
	k.port.CriticalExit(token)
}

// TimerStop cancels t; a no-op if it was not scheduled.
func (k *Kernel) TimerStop(t *Timer) {
	token := k.port.CriticalEnter()
	Remove(&t.node)
	k.port.CriticalExit(token)
}

// timerTaskLoop is the body run on the dedicated timer task's goroutine
// (launched from Start when SoftwareTimers is enabled): repeatedly fire
// whatever is due, then sleep until the next deadline, or indefinitely if
// nothing is scheduled, until TimerStart/TimerStartPeriodic wakes it early
// via TaskResume.
func (k *Kernel) timerTaskLoop() {
	task := k.timerTask
	for {
		due, wait, hasWait := k.collectDueTimersLocked()

		for _, t := range due {
			t.fn(t)
			if t.period > 0 {
				k.timerRelinkLocked(t, t.period, t.period)
			}
		}

		if len(due) > 0 {
			// Firing may have rescheduled something sooner than our prior
			// estimate; re-evaluate before sleeping.
			continue
		}

		if !hasWait {
			token := k.port.CriticalEnter()
			task.state = TaskSuspended
			k.port.CriticalExit(token)
			task.Wait()
			continue
		}
		k.TaskDelay(task, wait)
	}
}

// collectDueTimersLocked merges timerUnorderedList into timerList (ordered
// by next-run tick), pops every timer due at or before the current tick,
// and reports how long until the next deadline if any timer remains.
func (k *Kernel) collectDueTimersLocked() (due []*Timer, wait uint32, hasWait bool) {
	token := k.port.CriticalEnter()

	for {
		n := k.timerUnorderedList.Front()
		if n == nil {
			break
		}
		t := n.Owner.(*Timer)
		Remove(n)
		k.timerList.Insert(&t.node, int64(t.nextRun))
	}

	now := k.tick
	for {
		n := k.timerList.Front()
		if n == nil || n.Key() > int64(now) {
			break
		}
		t := n.Owner.(*Timer)
		Remove(n)
		due = append(due, t)
	}
	k.taskTimerLastRun = now

	if n := k.timerList.Front(); n != nil {
		deadline := uint32(n.Key())
		if deadline <= now {
			wait = 0
		} else {
			wait = deadline - now
		}
		hasWait = true
	}

	k.port.CriticalExit(token)
	return due, wait, hasWait
}
