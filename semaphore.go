package librertos

// Semaphore is a counting (or, with Max==1, binary) semaphore: Take
// decrements count if it is positive, Give increments it if below Max. Both
// are bounded by Max so a semaphore can never count above its configured
// maximum.
type Semaphore struct {
	event Event
	count int
	max   int
}

// SemaphoreInit initializes s with an initial count and a maximum count.
// Panics if count is negative, count exceeds max, or max is not positive —
// these are caller programming errors, not runtime conditions (mirroring
// the source, which has no recovery path for a misconfigured primitive).
func (s *Semaphore) SemaphoreInit(count, max int) {
	if max <= 0 || count < 0 || count > max {
		panic("librertos: invalid semaphore init count/max")
	}
	s.event.EventRInit()
	s.count = count
	s.max = max
}

// Take decrements the semaphore if count > 0, returning ErrWouldBlock
// otherwise. Never blocks.
func (k *Kernel) SemaphoreTake(s *Semaphore) error {
	ok := k.nonBlockingOp(nil, func() bool {
		if s.count <= 0 {
			return false
		}
		s.count--
		return true
	})
	if !ok {
		return ErrWouldBlock
	}
	return nil
}

// TakePend decrements the semaphore, blocking the calling task for up to
// ticks ticks (TicksInfinite to wait forever) until count > 0.
func (k *Kernel) SemaphoreTakePend(s *Semaphore, task *Task, ticks int64) error {
	return k.blockingOp(&s.event.ReadList, nil, task, ticks, 0, func() bool {
		if s.count <= 0 {
			return false
		}
		s.count--
		return true
	})
}

// Give increments the semaphore if it is below Max, waking one pending
// taker; returns ErrCapacityExceeded if already at Max.
func (k *Kernel) SemaphoreGive(s *Semaphore) error {
	ok := k.nonBlockingOp(&s.event.ReadList, func() bool {
		if s.count >= s.max {
			return false
		}
		s.count++
		return true
	})
	if !ok {
		return ErrCapacityExceeded
	}
	return nil
}

// Count returns the current count. As a hint only when read without
// external synchronization (see the shared-resource policy in §5).
func (s *Semaphore) Count() int { return s.count }

// Max returns the configured maximum count.
func (s *Semaphore) Max() int { return s.max }
