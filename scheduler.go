package librertos

import (
	"context"
	"time"

	"github.com/djboni/librertos/internal/port"
)

// Kernel is the scheduler state handle: the Go realization of the source's
// process-wide OS_State singleton, made an explicit value so a process can
// run more than one (e.g. in tests) and so ownership is unambiguous.
type Kernel struct {
	maxPriority  int
	preemption   bool
	preemptLimit int

	ready   []*Task
	current *Task

	schedulerLock       int32
	higherPriorityReady bool

	tick         uint32
	delayedTicks uint32

	blockedList1, blockedList2           ListHead
	blockedNotOverflowed, blockedOverflowed *ListHead
	pendingReady                          ListHead

	softwareTimers     bool
	timerList          ListHead
	timerUnorderedList ListHead
	taskTimerLastRun   uint32
	timerTask          *Task

	stats       Stats
	statsEnabled bool

	stateGuards bool
	invariant   func(error)

	logger Logger
	port   port.Port

	started bool

	// afterPrePendHook and beforeCommitHook are test-only seams (see §5/§9
	// and internal/port/portfake); nil in production.
	afterPrePendHook  func()
	beforeCommitHook  func()
}

// New constructs a Kernel and runs Init. MaxPriority defaults to 8 if unset.
func New(opts ...Option) (*Kernel, error) {
	cfg := resolveConfig(opts)
	return NewWithConfig(cfg)
}

// NewWithConfig constructs a Kernel from an explicit Config.
func NewWithConfig(cfg Config) (*Kernel, error) {
	if cfg.MaxPriority <= 0 || cfg.MaxPriority > 255 {
		return nil, newViolation("MaxPriority %d out of range [1,255]", cfg.MaxPriority)
	}
	k := &Kernel{
		maxPriority:  cfg.MaxPriority,
		preemption:   cfg.Preemption,
		preemptLimit: cfg.PreemptLimit,
		softwareTimers: cfg.SoftwareTimers,
		statsEnabled: cfg.Statistics,
		stateGuards:  cfg.StateGuards,
		logger:       cfg.Logger,
		port:         cfg.Port,
		invariant:    cfg.Invariant,
	}
	if k.logger == nil {
		k.logger = noopLogger{}
	}
	if k.port == nil {
		k.port = port.NewHosted()
	}
	if k.invariant == nil {
		k.invariant = func(err error) { panic(err) }
	}
	k.init()
	return k, nil
}

// init zeros all counters, self-links all list heads, sets schedulerLock to
// 1, nulls every ready slot, and points blockedNotOverflowed/Overflowed at
// the two (empty) delay lists — matching the source's LibrertosInit.
func (k *Kernel) init() {
	k.ready = make([]*Task, k.maxPriority)
	k.current = nil
	k.schedulerLock = 1
	k.higherPriorityReady = false
	k.tick = 0
	k.delayedTicks = 0

	k.blockedList1.HeadInit()
	k.blockedList2.HeadInit()
	k.blockedNotOverflowed = &k.blockedList1
	k.blockedOverflowed = &k.blockedList2
	k.pendingReady.HeadInit()

	if k.softwareTimers {
		k.timerList.HeadInit()
		k.timerUnorderedList.HeadInit()
		k.taskTimerLastRun = 0
		k.timerTask = newTask(k.maxPriority-1, "librertos-timer", nil)
		k.ready[k.maxPriority-1] = k.timerTask
	}
}

// Start enables interrupts via the port and drops the scheduler lock to 0,
// which immediately drains pendingReady (normally empty at this point) and
// may invoke the scheduler.
func (k *Kernel) Start() {
	k.port.InterruptsEnable()
	k.started = true
	if k.softwareTimers {
		go k.timerTaskLoop()
	}
	k.log(LevelInfo, "scheduler", "kernel started", nil)
	k.SchedulerUnlock()
}

// SchedulerLock increments the nesting counter, deferring context-switch
// decisions and pending-ready draining until the matching SchedulerUnlock
// brings it back to zero.
func (k *Kernel) SchedulerLock() {
	token := k.port.CriticalEnter()
	k.schedulerLock++
	k.port.CriticalExit(token)
}

// SchedulerUnlock decrements the nesting counter; at zero it replays any
// ticks accumulated while locked, drains pendingReady into the ready table,
// and invokes the scheduler if preemption is warranted.
func (k *Kernel) SchedulerUnlock() {
	token := k.port.CriticalEnter()
	k.schedulerLock--
	if k.schedulerLock < 0 {
		k.port.CriticalExit(token)
		k.invariant(newViolation("scheduler lock went negative"))
		return
	}
	if k.schedulerLock > 0 {
		k.port.CriticalExit(token)
		return
	}

	k.applyDelayedTicksLocked()
	k.drainPendingReadyLocked()

	next := k.highestReadyLocked()
	shouldSchedule := next != nil && next != k.current &&
		(k.current == nil || k.mayPreempt(next.priority))
	k.higherPriorityReady = false
	k.port.CriticalExit(token)

	if shouldSchedule {
		k.Schedule()
	}
}

// drainPendingReadyLocked moves every task parked in pendingReady into its
// ready slot. Callers must hold the interrupt-level critical section.
func (k *Kernel) drainPendingReadyLocked() {
	for {
		n := k.pendingReady.Front()
		if n == nil {
			break
		}
		task := n.Owner.(*Task)
		Remove(n)
		k.ready[task.priority] = task
		task.state = TaskReady
	}
}

// Schedule picks the highest-priority ready task and, if it differs from
// current, performs the context switch via the port.
func (k *Kernel) Schedule() {
	token := k.port.CriticalEnter()
	next := k.highestReadyLocked()
	prev := k.current
	if next == prev {
		k.port.CriticalExit(token)
		return
	}
	if prev != nil && prev.state == TaskRunning {
		prev.state = TaskReady
	}
	if next != nil {
		next.state = TaskRunning
	}
	k.current = next
	if k.statsEnabled {
		k.stats.ContextSwitches++
	}
	k.port.CriticalExit(token)

	var prevHandle, nextHandle port.TaskHandle
	if prev != nil {
		prevHandle = prev
	}
	if next != nil {
		nextHandle = next
	}
	k.port.ContextSwitch(prevHandle, nextHandle)
	k.log(LevelDebug, "scheduler", "context switch", nil)
}

func (k *Kernel) highestReadyLocked() *Task {
	for p := k.maxPriority - 1; p >= 0; p-- {
		if k.ready[p] != nil {
			// Limit preemption decisions elsewhere; selection always picks
			// the highest occupied slot regardless of preemption policy.
			return k.ready[p]
		}
	}
	return nil
}

// mayPreempt reports whether a newly-ready task at priority p should
// preempt the currently running task, per the preemption policy in §4.E.
func (k *Kernel) mayPreempt(p int) bool {
	if !k.preemption {
		return false
	}
	if k.preemptLimit == 0 {
		return true
	}
	return p > k.preemptLimit
}

// CurrentTask returns the scheduler's current task, or nil before Start or
// when called from a context the scheduler has no opinion about (e.g. a
// simulated interrupt).
func (k *Kernel) CurrentTask() *Task {
	return k.current
}

// TickCount returns the current tick counter. Safe to read without the critical
// section as a hint (see the shared-resource policy in §5); for an
// authoritative snapshot alongside other state, read it from inside a
// critical section.
func (k *Kernel) TickCount() uint32 {
	return k.tick
}

// Run drives the kernel until ctx is canceled: it calls Start once, then
// repeatedly waits for interval and calls Tick, draining scheduling work as
// it goes. This is the hosted stand-in for the bare-metal main loop.
func (k *Kernel) Run(ctx context.Context, interval time.Duration) error {
	k.Start()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			k.log(LevelInfo, "scheduler", "kernel run loop stopped", nil)
			return ctx.Err()
		case <-ticker.C:
			k.Tick()
		}
	}
}
