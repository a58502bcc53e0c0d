package librertos

// Queue is a fixed-capacity ring buffer of same-sized items. Items are
// copied in and out of a caller-provided backing buffer; the kernel never
// allocates it. WLock/RLock are reservation counters bumped before a
// Write/Read commits its byte copy and dropped after, standing in for the
// "concurrent-access hook" seam described in §5 (a no-op in production; a
// same-package test can set Kernel's beforeCommitHook to run code there).
type Queue struct {
	event Event
	buff  []byte

	itemSize int
	length   int // capacity, in items
	used     int
	free     int
	head     int // byte offset of the next item to read
	tail     int // byte offset of the next item to write

	wLock, rLock int
}

// QueueInit initializes q over buff, which must be exactly length*itemSize
// bytes; panics otherwise (a caller programming error, not a runtime
// condition).
func (q *Queue) QueueInit(buff []byte, length, itemSize int) {
	if len(buff) != length*itemSize {
		panic("librertos: queue buffer size must equal length*itemSize")
	}
	q.event.EventRWInit()
	q.buff = buff
	q.itemSize = itemSize
	q.length = length
	q.used = 0
	q.free = length
	q.head = 0
	q.tail = 0
}

func (q *Queue) bufLen() int { return q.length * q.itemSize }

// Write copies one item (len(item) must equal the configured item size) into
// the queue, returning ErrCapacityExceeded if full. Never blocks.
func (k *Kernel) QueueWrite(q *Queue, item []byte) error {
	ok := k.nonBlockingOp(&q.event.ReadList, func() bool {
		return k.queueTryWrite(q, item)
	})
	if !ok {
		return ErrCapacityExceeded
	}
	return nil
}

// WritePend copies one item into the queue, blocking up to ticks ticks
// until there is room.
func (k *Kernel) QueueWritePend(q *Queue, item []byte, task *Task, ticks int64) error {
	return k.blockingOp(&q.event.WriteList, &q.event.ReadList, task, ticks, 0, func() bool {
		return k.queueTryWrite(q, item)
	})
}

func (k *Kernel) queueTryWrite(q *Queue, item []byte) bool {
	if len(item) != q.itemSize {
		panic("librertos: queue write item size mismatch")
	}
	if q.free <= 0 {
		return false
	}
	q.wLock++
	pos := q.tail
	if k.beforeCommitHook != nil {
		k.beforeCommitHook()
	}
	copy(q.buff[pos:pos+q.itemSize], item)
	q.tail = (q.tail + q.itemSize) % q.bufLen()
	q.wLock--
	q.used++
	q.free--
	return true
}

// Read copies and removes the oldest item into dst (which must be exactly
// the configured item size), returning ErrWouldBlock if empty. Never
// blocks.
func (k *Kernel) QueueRead(q *Queue, dst []byte) error {
	ok := k.nonBlockingOp(&q.event.WriteList, func() bool {
		return k.queueTryRead(q, dst)
	})
	if !ok {
		return ErrWouldBlock
	}
	return nil
}

// ReadPend copies and removes the oldest item into dst, blocking up to
// ticks ticks until one is available.
func (k *Kernel) QueueReadPend(q *Queue, dst []byte, task *Task, ticks int64) error {
	return k.blockingOp(&q.event.ReadList, &q.event.WriteList, task, ticks, 0, func() bool {
		return k.queueTryRead(q, dst)
	})
}

func (k *Kernel) queueTryRead(q *Queue, dst []byte) bool {
	if len(dst) != q.itemSize {
		panic("librertos: queue read destination size mismatch")
	}
	if q.used <= 0 {
		return false
	}
	q.rLock++
	pos := q.head
	if k.beforeCommitHook != nil {
		k.beforeCommitHook()
	}
	copy(dst, q.buff[pos:pos+q.itemSize])
	q.head = (q.head + q.itemSize) % q.bufLen()
	q.rLock--
	q.used--
	q.free++
	return true
}

// Used returns the number of occupied item slots (hint outside a critical
// section).
func (q *Queue) Used() int { return q.used }

// Free returns the number of empty item slots.
func (q *Queue) Free() int { return q.free }

// Length returns the queue's total item capacity.
func (q *Queue) Length() int { return q.length }

// HeadOffset returns the current read byte offset into the backing buffer,
// for tests asserting wrap-around positions.
func (q *Queue) HeadOffset() int { return q.head }

// TailOffset returns the current write byte offset into the backing buffer.
func (q *Queue) TailOffset() int { return q.tail }
