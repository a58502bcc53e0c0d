package librertos

import "time"

// Stats holds the thin, deliberately-out-of-core statistics collaborator
// described in §6: counters updated only from the documented seams
// (Schedule's context switch, and an idle accounting hook a host may call
// when it has nothing else to run), never consulted by scheduling logic
// itself.
type Stats struct {
	ContextSwitches uint64
	IdleTime        time.Duration
}

// Stats returns a snapshot of the statistics counters. The zero value is
// returned (and never updated) when Config.Statistics is false.
func (k *Kernel) Stats() Stats {
	return k.stats
}

// RecordIdle adds d to the idle-time counter; a host's main loop calls this
// when it finds no ready task to run. No-op when statistics are disabled.
func (k *Kernel) RecordIdle(d time.Duration) {
	if !k.statsEnabled {
		return
	}
	k.stats.IdleTime += d
}
