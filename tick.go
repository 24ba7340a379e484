package edfrtos

import (
	"context"
	"time"
)

// TickOnce performs exactly one ISR-equivalent tick: increments the tick
// counter and reassesses, or does nothing if interrupts are currently
// disabled. Exposed for deterministic tests that step ticks one at a time,
// rather than relying on RunTickLoop's background goroutine.
func (k *Kernel) TickOnce() {
	k.tickISR()
}

// tickISR is the tick handler both TickOnce and RunTickLoop invoke. It
// returns immediately if the interrupt-enable shadow flag is false — the
// kernel is inside a critical section — without incrementing the tick
// counter: a tick arriving while interrupts are masked is simply lost, not
// queued.
func (k *Kernel) tickISR() {
	if !k.interruptsEnabled.Load() {
		return
	}

	k.mu.Lock()
	if !k.interruptsEnabled.Load() {
		k.mu.Unlock()
		return
	}
	k.interruptsEnabled.Store(false)

	k.ticks++
	k.logDebug(categoryTick).Uint64("ticks", k.ticks).Log("tick")
	k.reassess()

	k.interruptsEnabled.Store(true)
	k.mu.Unlock()
}

// RunTickLoop is the host-simulation target's periodic tick source: a
// background goroutine sleeping period between calls to the tick handler,
// analogous to a timer-interrupt thread that sleeps and then checks whether
// interrupts are masked before firing. It exits when ctx is cancelled.
//
// Run starts one of these on the kernel's own configured tick period
// automatically; RunTickLoop is exported separately so a caller driving the
// host simulation can run the tick source on its own goroutine, at its own
// period, independently of Run — for instance to vary the tick rate at
// runtime, or to drive ticks from something other than a plain ticker.
func (k *Kernel) RunTickLoop(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			k.tickISR()
		}
	}
}
