package librertos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventPrePendTaskOrdersByPriorityDescending(t *testing.T) {
	var list ListHead
	list.HeadInit()

	low := newTask(1, "low", nil)
	high := newTask(5, "high", nil)
	mid := newTask(3, "mid", nil)

	EventPrePendTask(&list, low)
	EventPrePendTask(&list, high)
	EventPrePendTask(&list, mid)

	require.Equal(t, high, list.Front().Owner.(*Task))
	require.Equal(t, 3, list.Len())
}

func TestEventUnblockTasksWakesHighestPriorityWaiter(t *testing.T) {
	k, err := New(WithMaxPriority(8))
	require.NoError(t, err)

	var list ListHead
	list.HeadInit()

	a := newTask(1, "a", nil)
	b := newTask(4, "b", nil)
	EventPrePendTask(&list, a)
	EventPrePendTask(&list, b)

	k.EventUnblockTasks(&list)

	require.Equal(t, TaskReady, b.State())
	require.Equal(t, 1, list.Len())
	require.Equal(t, a, list.Front().Owner.(*Task))

	select {
	case <-b.wake:
	default:
		t.Fatal("expected b to be signaled")
	}
}

func TestEventUnblockTasksOnEmptyListIsNoOp(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	var list ListHead
	list.HeadInit()
	require.NotPanics(t, func() { k.EventUnblockTasks(&list) })
}

func TestEventPendTaskZeroTicksUndoesPrePend(t *testing.T) {
	k, err := New()
	require.NoError(t, err)

	var list ListHead
	list.HeadInit()
	task := newTask(1, "t", nil)
	EventPrePendTask(&list, task)
	require.Equal(t, 1, list.Len())

	k.EventPendTask(&list, task, 0)
	require.Equal(t, 0, list.Len())
}

func TestEventPendTaskInfiniteSuspends(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	task := newTask(1, "t", nil)
	k.EventPendTask(nil, task, TicksInfinite)
	require.Equal(t, TaskSuspended, task.State())
}

func TestEventPendTaskFiniteTicksDelays(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	task := newTask(1, "t", nil)
	k.EventPendTask(nil, task, 5)
	require.Equal(t, TaskBlocked, task.State())
	require.True(t, task.delayNode.InList())
}
