package librertos

import "github.com/djboni/librertos/internal/port"

// Config configures a Kernel at construction time, standing in for the
// source's compile-time LIBRERTOS_* macros (see §6 of the design doc).
type Config struct {
	// MaxPriority is the number of priority slots, 1..255. Priority indices
	// run [0, MaxPriority).
	MaxPriority int

	// Preemption enables preemptive scheduling; when false, a
	// SchedulerUnlock never preempts a current task (cooperative scheduling
	// driven only by explicit yields/blocks). With no current task, a
	// SchedulerUnlock still switches to the highest-priority ready task.
	Preemption bool

	// PreemptLimit, when nonzero, makes priorities at or below it
	// cooperative: only a newly-ready task with priority strictly greater
	// than PreemptLimit preempts the current task. Zero means every
	// higher-priority ready task preempts.
	PreemptLimit int

	// SoftwareTimers enables the optional timer subsystem (§4.G).
	SoftwareTimers bool

	// Statistics enables the thin task-switch/idle-time counters collaborator.
	Statistics bool

	// StateGuards enables the list-length check (checkListLengthInvariant),
	// which reports a mismatch via Invariant. No kernel code path calls that
	// check, and there are no canary words on list heads or tasks, so this
	// flag has no effect on its own.
	StateGuards bool

	// Logger receives structured log entries; defaults to a no-op sink.
	Logger Logger

	// Invariant is called instead of panicking when a debug-assertion-class
	// condition is violated: a negative scheduler lock, or a list length
	// mismatch found by the StateGuards check. A nil current task is not
	// checked. Defaults to
	// panicking, matching "undefined in release" from the source but making
	// the failure observable and catchable in hosted tests.
	Invariant func(error)

	// Port supplies the interrupt/critical-section/context-switch
	// primitives; defaults to a fresh internal/port.Hosted.
	Port port.Port
}

// Option configures a Kernel via New, layered on top of Config for callers
// who prefer functional options over building a Config literal directly.
type Option func(*Config)

// WithMaxPriority sets Config.MaxPriority.
func WithMaxPriority(n int) Option { return func(c *Config) { c.MaxPriority = n } }

// WithPreemption sets Config.Preemption.
func WithPreemption(enabled bool) Option { return func(c *Config) { c.Preemption = enabled } }

// WithPreemptLimit sets Config.PreemptLimit.
func WithPreemptLimit(limit int) Option { return func(c *Config) { c.PreemptLimit = limit } }

// WithSoftwareTimers enables the optional software timer subsystem.
func WithSoftwareTimers(enabled bool) Option { return func(c *Config) { c.SoftwareTimers = enabled } }

// WithStatistics enables the statistics collaborator.
func WithStatistics(enabled bool) Option { return func(c *Config) { c.Statistics = enabled } }

// WithStateGuards enables canary checks.
func WithStateGuards(enabled bool) Option { return func(c *Config) { c.StateGuards = enabled } }

// WithLogger installs a structured logging sink.
func WithLogger(logger Logger) Option { return func(c *Config) { c.Logger = logger } }

// WithInvariant installs a custom invariant-violation handler.
func WithInvariant(fn func(error)) Option { return func(c *Config) { c.Invariant = fn } }

// WithPort installs a custom Port implementation (primarily for tests).
func WithPort(p port.Port) Option { return func(c *Config) { c.Port = p } }

func defaultConfig() Config {
	return Config{
		MaxPriority: 8,
		Preemption:  true,
	}
}

func resolveConfig(opts []Option) Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}
