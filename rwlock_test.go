package pthread

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRWMutexAllowsConcurrentReaders(t *testing.T) {
	rw, err := NewRWMutex()
	require.NoError(t, err)

	var concurrent atomic.Int32
	var maxConcurrent atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, rw.RLock())
			n := concurrent.Add(1)
			for {
				m := maxConcurrent.Load()
				if n <= m || maxConcurrent.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			concurrent.Add(-1)
			require.NoError(t, rw.RUnlock())
		}()
	}
	wg.Wait()
	assert.Greater(t, int(maxConcurrent.Load()), 1)
}

func TestRWMutexWriterIsExclusive(t *testing.T) {
	rw, err := NewRWMutex()
	require.NoError(t, err)

	require.NoError(t, rw.Lock())
	assert.ErrorIs(t, rw.TryRLock(), ErrBusy)
	assert.ErrorIs(t, rw.TryLock(), ErrBusy)
	require.NoError(t, rw.Unlock())
}

func TestRWMutexWriterPreference(t *testing.T) {
	rw, err := NewRWMutex()
	require.NoError(t, err)

	require.NoError(t, rw.RLock())

	var order []string
	var mu sync.Mutex
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}

	writerBlocked := make(chan struct{})
	go func() {
		close(writerBlocked)
		require.NoError(t, rw.Lock())
		record("writer")
		require.NoError(t, rw.Unlock())
	}()
	<-writerBlocked
	time.Sleep(20 * time.Millisecond) // let the writer register as waiting

	readerArrived := make(chan struct{})
	go func() {
		close(readerArrived)
		require.NoError(t, rw.RLock())
		record("late-reader")
		require.NoError(t, rw.RUnlock())
	}()
	<-readerArrived
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, rw.RUnlock())

	deadline := time.After(time.Second)
	for {
		mu.Lock()
		n := len(order)
		mu.Unlock()
		if n == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("writer/late-reader never both completed")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	assert.Equal(t, []string{"writer", "late-reader"}, order)
}
