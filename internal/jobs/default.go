package jobs

import "sync/atomic"

var defaultBus atomic.Pointer[Bus]

// SetDefault registers the process-wide bus. Only the composition root should
// call it; everything else receives a bus or Enqueuer explicitly.
func SetDefault(b *Bus) {
	defaultBus.Store(b)
}

// Default returns the registered bus, or nil when none is configured.
func Default() *Bus {
	return defaultBus.Load()
}
