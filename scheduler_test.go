package librertos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefaultsMaxPriorityToEight(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	require.Equal(t, 8, k.maxPriority)
	require.Len(t, k.ready, 8)
}

func TestNewWithConfigRejectsOutOfRangeMaxPriority(t *testing.T) {
	_, err := NewWithConfig(Config{MaxPriority: 0})
	require.Error(t, err)
	_, err = NewWithConfig(Config{MaxPriority: 256})
	require.Error(t, err)
}

func TestInitStartsWithSchedulerLockedAtOne(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	require.Equal(t, int32(1), k.schedulerLock)
}

func TestStartDropsSchedulerLockToZero(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	k.Start()
	require.Equal(t, int32(0), k.schedulerLock)
	require.True(t, k.started)
}

func TestScheduleSelectsHighestPriorityReadyTask(t *testing.T) {
	k, err := New(WithMaxPriority(4))
	require.NoError(t, err)
	k.Start()

	low, err := k.TaskCreate(1, "low", nil)
	require.NoError(t, err)
	high, err := k.TaskCreate(3, "high", nil)
	require.NoError(t, err)
	_ = low

	k.Schedule()
	require.Same(t, high, k.CurrentTask())
}

func TestSchedulerUnlockPreemptsOnHigherPriorityReady(t *testing.T) {
	k, err := New(WithMaxPriority(4), WithPreemption(true))
	require.NoError(t, err)
	k.Start()

	low, err := k.TaskCreate(1, "low", nil)
	require.NoError(t, err)
	k.Schedule()
	require.Same(t, low, k.CurrentTask())

	high, err := k.TaskCreate(3, "high", nil)
	require.NoError(t, err)

	k.SchedulerLock()
	k.appendPendingReadyLocked(high)
	k.SchedulerUnlock()

	require.Same(t, high, k.CurrentTask())
}

func TestMayPreemptRespectsPreemptLimit(t *testing.T) {
	k, err := New(WithPreemption(true), WithPreemptLimit(2))
	require.NoError(t, err)
	require.False(t, k.mayPreempt(1))
	require.False(t, k.mayPreempt(2))
	require.True(t, k.mayPreempt(3))
}

func TestMayPreemptFalseWhenPreemptionDisabled(t *testing.T) {
	k, err := New(WithPreemption(false))
	require.NoError(t, err)
	require.False(t, k.mayPreempt(7))
}

func TestPreemptionLimitBlocksLowPriorityWakeup(t *testing.T) {
	k, err := New(WithMaxPriority(4), WithPreemption(true), WithPreemptLimit(2))
	require.NoError(t, err)
	k.Start()

	running, err := k.TaskCreate(1, "running", nil)
	require.NoError(t, err)
	k.Schedule()
	require.Same(t, running, k.CurrentTask())

	atLimit, err := k.TaskCreate(2, "at-limit", nil)
	require.NoError(t, err)

	k.SchedulerLock()
	k.appendPendingReadyLocked(atLimit)
	k.SchedulerUnlock()
	require.Same(t, running, k.CurrentTask(), "priority at PreemptLimit must not preempt")

	aboveLimit, err := k.TaskCreate(3, "above-limit", nil)
	require.NoError(t, err)

	k.SchedulerLock()
	k.appendPendingReadyLocked(aboveLimit)
	k.SchedulerUnlock()
	require.Same(t, aboveLimit, k.CurrentTask(), "priority above PreemptLimit must preempt")
}
