package librertos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMutexLockUnlockBasic(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	var m Mutex
	m.MutexInit()

	task := newTask(1, "t", nil)
	require.NoError(t, k.MutexLock(&m, task))
	require.Same(t, task, m.Owner())
	require.Equal(t, 1, m.Count())

	k.MutexUnlock(&m)
	require.Nil(t, m.Owner())
	require.Equal(t, 0, m.Count())
}

func TestMutexLockIsRecursiveForOwner(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	var m Mutex
	m.MutexInit()
	task := newTask(1, "t", nil)

	require.NoError(t, k.MutexLock(&m, task))
	require.NoError(t, k.MutexLock(&m, task))
	require.Equal(t, 2, m.Count())

	k.MutexUnlock(&m)
	require.Equal(t, 1, m.Count())
	require.Same(t, task, m.Owner(), "still held after one of two recursive unlocks")

	k.MutexUnlock(&m)
	require.Equal(t, 0, m.Count())
	require.Nil(t, m.Owner())
}

func TestMutexLockFailsForDifferentOwner(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	var m Mutex
	m.MutexInit()
	a := newTask(1, "a", nil)
	b := newTask(2, "b", nil)

	require.NoError(t, k.MutexLock(&m, a))
	require.ErrorIs(t, k.MutexLock(&m, b), ErrWouldBlock)
}

func TestMutexUnlockOnUnownedIsNoOp(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	var m Mutex
	m.MutexInit()
	require.NotPanics(t, func() { k.MutexUnlock(&m) })
}

func TestMutexUnlockDoesNotWakeUntilFinalRelease(t *testing.T) {
	// A recursive Unlock that doesn't reach count==0 must not signal a
	// pending locker.
	k, err := New()
	require.NoError(t, err)
	k.Start()

	var m Mutex
	m.MutexInit()
	owner := newTask(1, "owner", nil)
	require.NoError(t, k.MutexLock(&m, owner))
	require.NoError(t, k.MutexLock(&m, owner)) // count == 2

	waiter, err := k.TaskCreate(2, "waiter", nil)
	require.NoError(t, err)

	result := make(chan error, 1)
	go func() {
		result <- k.MutexLockPend(&m, waiter, TicksInfinite)
	}()

	require.Eventually(t, func() bool {
		return m.event.ReadList.Len() == 1
	}, timeLimit, tickInterval)

	k.MutexUnlock(&m) // count 2 -> 1, still owned

	select {
	case <-result:
		t.Fatal("waiter must not be woken while the mutex is still held")
	default:
	}

	k.MutexUnlock(&m) // count 1 -> 0, released
	require.NoError(t, <-result)
	require.Same(t, waiter, m.Owner())
}
