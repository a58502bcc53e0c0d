package librertos

// Fifo is a byte-granular circular buffer: writers and readers move raw
// bytes rather than fixed-size items, and a pending reader/writer can ask
// to be woken only once at least N bytes are available/free, rather than
// on every single byte that moves. That per-waiter threshold is carried in
// Task.waitKey (set by FifoReadPend/FifoWritePend before pending); unlike
// EventUnblockTasks, which always wakes its list's front waiter
// unconditionally, Fifo's wake check (fifoWakeThreshold) must also compare
// that waiter's threshold against what's newly available before waking it
// — still at most the one, highest-priority waiter per call.
type Fifo struct {
	event Event
	buff  []byte

	length int // capacity, in bytes
	used   int
	free   int
	head   int
	tail   int

	wLock, rLock int
}

// FifoInit initializes f over buff, whose length becomes the fifo's byte
// capacity.
func (f *Fifo) FifoInit(buff []byte) {
	f.event.EventRWInit()
	f.buff = buff
	f.length = len(buff)
	f.used = 0
	f.free = len(buff)
	f.head = 0
	f.tail = 0
}

// Write copies as many bytes of data as fit (up to free space), returning
// the number written and ErrCapacityExceeded if none fit. Never blocks,
// and never partially blocks: it writes what it can right now.
func (k *Kernel) FifoWrite(f *Fifo, data []byte) (int, error) {
	var n int
	ok := k.nonBlockingOp(nil, func() bool {
		n = fifoTryWrite(f, data)
		return n > 0
	})
	if ok {
		k.fifoWakeThreshold(&f.event.ReadList, f.used)
	}
	if n == 0 && len(data) > 0 {
		return 0, ErrCapacityExceeded
	}
	return n, nil
}

// WritePend writes len(data) bytes, blocking the calling task up to ticks
// ticks until that many bytes of free space become available. Unlike
// Write, WritePend is all-or-nothing: it only commits once the full
// request fits.
func (k *Kernel) FifoWritePend(f *Fifo, data []byte, task *Task, ticks int64) error {
	need := int64(len(data))
	err := k.blockingOp(&f.event.WriteList, nil, task, ticks, need, func() bool {
		if f.free < len(data) {
			return false
		}
		fifoTryWrite(f, data)
		return true
	})
	if err == nil {
		k.fifoWakeThreshold(&f.event.ReadList, f.used)
	}
	return err
}

func fifoTryWrite(f *Fifo, data []byte) int {
	n := len(data)
	if n > f.free {
		n = f.free
	}
	if n == 0 {
		return 0
	}
	f.wLock++
	for i := 0; i < n; i++ {
		f.buff[f.tail] = data[i]
		f.tail = (f.tail + 1) % f.length
	}
	f.wLock--
	f.used += n
	f.free -= n
	return n
}

// Read copies up to len(dst) bytes out of the fifo, returning the number
// read. Never blocks; returns (0, ErrWouldBlock) if the fifo is empty.
func (k *Kernel) FifoRead(f *Fifo, dst []byte) (int, error) {
	var n int
	ok := k.nonBlockingOp(nil, func() bool {
		n = fifoTryRead(f, dst)
		return n > 0
	})
	if ok {
		k.fifoWakeThreshold(&f.event.WriteList, f.free)
	}
	if n == 0 && len(dst) > 0 {
		return 0, ErrWouldBlock
	}
	return n, nil
}

// ReadPend reads exactly len(dst) bytes, blocking the calling task up to
// ticks ticks until that many bytes are available.
func (k *Kernel) FifoReadPend(f *Fifo, dst []byte, task *Task, ticks int64) error {
	need := int64(len(dst))
	err := k.blockingOp(&f.event.ReadList, nil, task, ticks, need, func() bool {
		if f.used < len(dst) {
			return false
		}
		fifoTryRead(f, dst)
		return true
	})
	if err == nil {
		k.fifoWakeThreshold(&f.event.WriteList, f.free)
	}
	return err
}

func fifoTryRead(f *Fifo, dst []byte) int {
	n := len(dst)
	if n > f.used {
		n = f.used
	}
	if n == 0 {
		return 0
	}
	f.rLock++
	for i := 0; i < n; i++ {
		dst[i] = f.buff[f.head]
		f.head = (f.head + 1) % f.length
	}
	f.rLock--
	f.used -= n
	f.free += n
	return n
}

// fifoWakeThreshold wakes at most the single highest-priority waiter in
// list (its Front, same as EventUnblockTasks), and only if that waiter's
// requested byte count is now satisfied by available. A satisfied waiter
// further back is never woken ahead of an unsatisfied higher-priority one:
// strict priority-first service takes precedence over which waiter happens
// to be servable right now. Subsequent units that become available wake
// subsequent waiters on later calls, one per call, exactly as every other
// primitive's Give/Write does.
func (k *Kernel) fifoWakeThreshold(list *ListHead, available int) {
	token := k.port.CriticalEnter()
	n := list.Front()
	if n != nil {
		task := n.Owner.(*Task)
		if int64(available) >= task.waitKey {
			Remove(n)
			k.appendPendingReadyLocked(task)
		}
	}
	k.port.CriticalExit(token)
}

// Used returns the number of occupied bytes.
func (f *Fifo) Used() int { return f.used }

// Free returns the number of free bytes.
func (f *Fifo) Free() int { return f.free }

// Length returns the fifo's total byte capacity.
func (f *Fifo) Length() int { return f.length }
