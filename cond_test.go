package pthread

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondBroadcastWakesAllWaiters(t *testing.T) {
	m, err := NewMutex()
	require.NoError(t, err)
	c := NewCond()

	ready := 0
	woken := make(chan int, 2)
	var wg sync.WaitGroup

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			require.NoError(t, m.Lock())
			ready++
			for ready < 2 {
				require.NoError(t, c.Wait(m))
			}
			require.NoError(t, m.Unlock())
			woken <- id
		}(i)
	}

	for {
		_ = m.Lock()
		r := ready
		_ = m.Unlock()
		if r == 2 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	require.NoError(t, c.Broadcast())
	wg.Wait()
	close(woken)
	count := 0
	for range woken {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestCondWaitTimeout(t *testing.T) {
	m, err := NewMutex()
	require.NoError(t, err)
	c := NewCond()

	require.NoError(t, m.Lock())
	err = c.WaitTimeout(m, 20)
	assert.ErrorIs(t, err, ErrTimeout)
	require.NoError(t, m.Unlock())
}

func TestCondWaitCancellation(t *testing.T) {
	m, err := NewMutex()
	require.NoError(t, err)
	c := NewCond()

	started := make(chan struct{})

	th, err := Create(func(any) any {
		require.NoError(t, m.Lock())
		// Wait relocks m before propagating cancellation; the runtime
		// does not auto-release user mutexes, so the thread itself must
		// arrange m's release via a cleanup handler pushed before the
		// wait, same as an ordinary cancellation point.
		CleanupPush(func(any) { _ = m.Unlock() }, nil)
		close(started)
		_ = c.Wait(m)
		// unreachable on cancellation
		CleanupPop(false)
		_ = m.Unlock()
		return "not-cancelled"
	}, nil)
	require.NoError(t, err)

	<-started
	// give the goroutine a moment to actually reach the semaphore wait
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, Cancel(th))

	result, err := Join(th)
	require.NoError(t, err)
	assert.Equal(t, Canceled, result)

	// the mutex must be relocked (and release-able) even though the
	// waiter was cancelled mid-wait
	require.NoError(t, m.Lock())
	require.NoError(t, m.Unlock())
}
