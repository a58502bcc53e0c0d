package librertos

// Mutex is a recursive mutual-exclusion lock: Lock succeeds immediately if
// unowned or already owned by the calling task (incrementing a recursion
// count); Unlock decrements it and releases ownership at zero. Per the
// source (and preserved here as a documented Open Question resolution, see
// DESIGN.md), Unlock does not check that the caller is the owner — any
// task, or an interrupt-context caller, may release it.
type Mutex struct {
	event Event
	count int
	owner *Task
}

// MutexInit initializes an unowned mutex.
func (m *Mutex) MutexInit() {
	m.event.EventRInit()
	m.count = 0
	m.owner = nil
}

// Lock acquires m for task, recursing if task already owns it. Never
// blocks; returns ErrWouldBlock if owned by a different task.
func (k *Kernel) MutexLock(m *Mutex, task *Task) error {
	ok := k.nonBlockingOp(nil, func() bool {
		return mutexTryLock(m, task)
	})
	if !ok {
		return ErrWouldBlock
	}
	return nil
}

// LockPend acquires m for task, blocking up to ticks ticks if it is owned
// by a different task.
func (k *Kernel) MutexLockPend(m *Mutex, task *Task, ticks int64) error {
	return k.blockingOp(&m.event.ReadList, nil, task, ticks, 0, func() bool {
		return mutexTryLock(m, task)
	})
}

func mutexTryLock(m *Mutex, task *Task) bool {
	if m.owner == nil {
		m.owner = task
		m.count = 1
		return true
	}
	if m.owner == task {
		m.count++
		return true
	}
	return false
}

// Unlock decrements the recursion count; at zero it clears ownership and
// wakes one pending locker. Permitted from any task, by design (see Mutex
// doc comment).
func (k *Kernel) MutexUnlock(m *Mutex) {
	token := k.port.CriticalEnter()
	if m.count == 0 {
		k.port.CriticalExit(token)
		return
	}
	m.count--
	released := m.count == 0
	if released {
		m.owner = nil
	}
	k.port.CriticalExit(token)
	if released {
		k.signalOppositeIfPresent(&m.event.ReadList)
	}
}

// Owner returns the current owner, or nil if unowned. Hint-only outside a
// critical section.
func (m *Mutex) Owner() *Task { return m.owner }

// Count returns the current recursion depth.
func (m *Mutex) Count() int { return m.count }
