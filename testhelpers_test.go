package librertos

import "time"

// timeLimit and tickInterval bound the require.Eventually polls used
// throughout the test suite to synchronize with goroutines parked on
// Task.Wait.
const (
	timeLimit    = time.Second
	tickInterval = time.Millisecond
)
