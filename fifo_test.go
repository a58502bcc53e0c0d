package librertos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFifoWriteReadRoundTrip(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	var f Fifo
	f.FifoInit(make([]byte, 8))

	n, err := k.FifoWrite(&f, []byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, 3, f.Used())

	dst := make([]byte, 3)
	n, err = k.FifoRead(&f, dst)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte{1, 2, 3}, dst)
}

func TestFifoWritePartialWhenNotEnoughRoom(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	var f Fifo
	f.FifoInit(make([]byte, 4))

	n, err := k.FifoWrite(&f, []byte{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, 0, f.Free())
}

func TestFifoReadReturnsWouldBlockWhenEmpty(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	var f Fifo
	f.FifoInit(make([]byte, 4))
	_, err = k.FifoRead(&f, make([]byte, 1))
	require.ErrorIs(t, err, ErrWouldBlock)
}

// Scenario 9 (§8): a read-waiter requesting 10 bytes is not woken by a
// 4-byte write, but is woken once a subsequent write brings used to 10.
func TestFifoReadPendByteThreshold(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	k.Start()

	task, err := k.TaskCreate(1, "t", nil)
	require.NoError(t, err)

	var f Fifo
	f.FifoInit(make([]byte, 32))

	result := make(chan error, 1)
	dst := make([]byte, 10)
	go func() {
		result <- k.FifoReadPend(&f, dst, task, TicksInfinite)
	}()

	require.Eventually(t, func() bool {
		return f.event.ReadList.Len() == 1
	}, timeLimit, tickInterval)

	_, err = k.FifoWrite(&f, make([]byte, 4))
	require.NoError(t, err)

	select {
	case <-result:
		t.Fatal("waiter must not be woken by a write below its threshold")
	default:
	}

	_, err = k.FifoWrite(&f, make([]byte, 6))
	require.NoError(t, err)

	require.NoError(t, <-result)
}

func TestFifoWritePendBlocksUntilEnoughFreeSpace(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	k.Start()

	task, err := k.TaskCreate(1, "t", nil)
	require.NoError(t, err)

	var f Fifo
	f.FifoInit(make([]byte, 4))
	_, err = k.FifoWrite(&f, make([]byte, 4))
	require.NoError(t, err)

	result := make(chan error, 1)
	go func() {
		result <- k.FifoWritePend(&f, []byte{9, 9}, task, TicksInfinite)
	}()

	require.Eventually(t, func() bool {
		return f.event.WriteList.Len() == 1
	}, timeLimit, tickInterval)

	dst := make([]byte, 2)
	_, err = k.FifoRead(&f, dst)
	require.NoError(t, err)

	require.NoError(t, <-result)
}
