package pthread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCancelStateReturnsPrevious(t *testing.T) {
	done := make(chan struct{})
	th, err := Create(func(any) any {
		prev, err := SetCancelState(CancelDisable)
		assert.NoError(t, err)
		assert.Equal(t, CancelEnable, prev)

		prev, err = SetCancelState(CancelEnable)
		assert.NoError(t, err)
		assert.Equal(t, CancelDisable, prev)
		close(done)
		return nil
	}, nil)
	require.NoError(t, err)
	<-done
	_, err = Join(th)
	require.NoError(t, err)
}

func TestSetCancelStateRejectsInvalidValue(t *testing.T) {
	_, err := SetCancelState(CancelState(99))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSetCancelTypeRejectsInvalidValue(t *testing.T) {
	_, err := SetCancelType(CancelType(99))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestTestCancelTerminatesThreadOnPendingRequest(t *testing.T) {
	ready := make(chan struct{})
	th, err := Create(func(any) any {
		close(ready)
		for {
			TestCancel()
		}
	}, nil)
	require.NoError(t, err)

	<-ready
	require.NoError(t, Cancel(th))

	result, err := Join(th)
	require.NoError(t, err)
	assert.Equal(t, Canceled, result)
}

func TestCancelPendingIgnoredWhileDisabled(t *testing.T) {
	ready := make(chan struct{})
	proceed := make(chan struct{})
	finished := make(chan any, 1)
	th, err := Create(func(any) any {
		_, _ = SetCancelState(CancelDisable)
		close(ready)
		<-proceed
		// cancellation was requested while disabled: TestCancel must be a
		// no-op until cancellation is re-enabled.
		TestCancel()
		_, _ = SetCancelState(CancelEnable)
		TestCancel()
		return "unreachable"
	}, nil)
	require.NoError(t, err)

	<-ready
	require.NoError(t, Cancel(th))
	close(proceed)

	go func() {
		v, _ := Join(th)
		finished <- v
	}()
	assert.Equal(t, Canceled, <-finished)
}

func TestCancelOnNonLiveThreadIsErrSearch(t *testing.T) {
	th, err := Create(func(any) any { return nil }, nil)
	require.NoError(t, err)
	_, err = Join(th)
	require.NoError(t, err)

	assert.ErrorIs(t, Cancel(th), ErrSearch)
}

func TestCancelNilIsInvalid(t *testing.T) {
	assert.ErrorIs(t, Cancel(nil), ErrInvalid)
}

func TestCancelDuringJoinUnwindsTheJoinerNotTheTarget(t *testing.T) {
	release := make(chan struct{})
	targetRan := make(chan struct{})
	target, err := Create(func(any) any {
		<-release
		close(targetRan)
		return "target done"
	}, nil)
	require.NoError(t, err)

	joinerReady := make(chan struct{})
	joiner, err := Create(func(any) any {
		close(joinerReady)
		_, _ = Join(target)
		return "unreachable"
	}, nil)
	require.NoError(t, err)

	<-joinerReady
	require.NoError(t, Cancel(joiner))

	result, err := Join(joiner)
	require.NoError(t, err)
	assert.Equal(t, Canceled, result, "the joiner must unwind, not the target it was blocked on")

	// The target is unaffected by the joiner's cancellation: it is still
	// blocked on release and runs to completion once released. The
	// cancelled Join already claimed the target's join, so the test does
	// not join it again.
	close(release)
	<-targetRan
}
