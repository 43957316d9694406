package pthread

import "runtime"

// yieldToScheduler gives other goroutines a chance to run. Spinlock
// makes its own uniprocessor/multiprocessor distinction and only calls
// this when running with a single P; a contended Mutex blocks on an
// event instead of spinning, so it has no need for this.
func yieldToScheduler() {
	runtime.Gosched()
}
