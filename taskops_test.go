package librertos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskCreateRejectsOutOfRangePriority(t *testing.T) {
	k, err := New(WithMaxPriority(4))
	require.NoError(t, err)

	_, err = k.TaskCreate(-1, "bad", nil)
	require.ErrorAs(t, err, new(*InvalidPriorityError))

	_, err = k.TaskCreate(4, "bad", nil)
	require.ErrorAs(t, err, new(*InvalidPriorityError))
}

func TestTaskCreateRejectsDuplicatePriority(t *testing.T) {
	k, err := New(WithMaxPriority(4))
	require.NoError(t, err)

	_, err = k.TaskCreate(1, "first", nil)
	require.NoError(t, err)

	_, err = k.TaskCreate(1, "second", nil)
	require.ErrorAs(t, err, new(*DuplicatePriorityError))
}

func TestTaskDelayParksUntilTickElapses(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	k.Start()

	task, err := k.TaskCreate(1, "t", nil)
	require.NoError(t, err)

	woke := make(chan struct{})
	go func() {
		k.TaskDelay(task, 2)
		close(woke)
	}()

	select {
	case <-woke:
		t.Fatal("task woke before any ticks elapsed")
	default:
	}

	k.Tick()
	select {
	case <-woke:
		t.Fatal("task woke before its full delay elapsed")
	default:
	}

	k.Tick()
	<-woke
}

func TestTaskDelayZeroTicksDoesNotBlock(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	k.Start()

	task, err := k.TaskCreate(1, "t", nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		k.TaskDelay(task, 0)
		close(done)
	}()
	<-done
}

func TestTaskResumeWakesSuspendedTask(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	k.Start()

	task, err := k.TaskCreate(1, "t", nil)
	require.NoError(t, err)

	var sem Semaphore
	sem.SemaphoreInit(0, 1)

	done := make(chan error, 1)
	go func() {
		done <- k.SemaphoreTakePend(&sem, task, TicksInfinite)
	}()

	require.Eventually(t, func() bool {
		return task.eventNode.InList()
	}, timeLimit, tickInterval)

	k.TaskResume(task)
	err = <-done
	require.ErrorIs(t, err, ErrTimedOut)
}
