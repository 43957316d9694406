package pthread

import (
	"github.com/jiuzhuaxiong/pthreads-go/internal/cancelwait"
	"github.com/jiuzhuaxiong/pthreads-go/internal/host"
)

// Sleep blocks the calling thread for durationMS milliseconds. Sleep is
// a cancellation point.
func Sleep(durationMS int) error {
	t := current()
	cancelEvt := activeCancelEvent(t)

	// There is no host waitable that fires after durationMS on its own;
	// a never-signaled target plus a bounded timeout gives Wait's
	// ordinary timeout path the meaning "the sleep elapsed".
	target := host.NewManualResetEvent(false)

	if cancelwait.Wait(target, cancelEvt, durationMS) == cancelwait.Cancelled {
		deliverCancellation(t)
	}
	return nil
}
