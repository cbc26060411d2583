package gc

import "sync"

var (
	defaultOnce sync.Once
	defaultHeap *Heap
)

// Default returns the process-wide heap, creating it with default
// options on first use. It exists for hosts that embed the runtime
// without managing their own heap; its teardown is process exit. The
// single-goroutine confinement rule applies to the default heap exactly
// as to any other.
func Default() *Heap {
	defaultOnce.Do(func() {
		defaultHeap = New()
	})
	return defaultHeap
}
