package pthread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSleepBlocksForApproximatelyDuration(t *testing.T) {
	start := time.Now()
	err := Sleep(30)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestSleepIsCancellationPoint(t *testing.T) {
	ready := make(chan struct{})
	finished := make(chan any, 1)
	th, err := Create(func(any) any {
		close(ready)
		err := Sleep(60_000)
		// a cancelled Sleep never returns to its caller; reaching here
		// means cancellation delivery failed.
		t.Errorf("Sleep returned normally with err=%v", err)
		return "unreachable"
	}, nil)
	require.NoError(t, err)

	<-ready
	require.NoError(t, Cancel(th))

	go func() {
		v, _ := Join(th)
		finished <- v
	}()
	assert.Equal(t, Canceled, <-finished)
}

func TestSleepOutsideCreatedThreadStillWaits(t *testing.T) {
	start := time.Now()
	require.NoError(t, Sleep(20))
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}
