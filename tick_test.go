package librertos

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTaskDelayLockedPicksNonOverflowedList(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	k.tick = 10
	task := newTask(1, "t", nil)
	k.taskDelayLocked(task, 5)
	require.Same(t, k.blockedNotOverflowed, task.delayNode.List())
	require.Equal(t, int64(15), task.delayNode.Key())
}

func TestTaskDelayLockedPicksOverflowedListOnWrap(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	k.tick = math.MaxUint32 - 2
	task := newTask(1, "t", nil)
	k.taskDelayLocked(task, 5) // wraps past zero
	require.Same(t, k.blockedOverflowed, task.delayNode.List())
}

func TestTickAdvancesAndWakesExpiredTask(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	k.Start()

	task, err := k.TaskCreate(1, "t", nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		k.TaskDelay(task, 3)
		close(done)
	}()

	require.Eventually(t, func() bool {
		k.Tick()
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)

	require.GreaterOrEqual(t, k.TickCount(), uint32(3))
}

func TestTickWhileSchedulerLockedAccumulatesDelayedTicks(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	k.Start()
	k.SchedulerLock()

	k.Tick()
	k.Tick()
	require.Equal(t, uint32(0), k.tick)
	require.Equal(t, uint32(2), k.delayedTicks)

	k.SchedulerUnlock()
	require.Equal(t, uint32(2), k.tick)
	require.Equal(t, uint32(0), k.delayedTicks)
}

