// Package alloc provides a deterministic fault-injection gate for the
// kernel's allocation sites, standing in for a firmware's OS_malloc/OS_calloc
// hooks (there is no raw-allocation primitive to intercept in Go, so this
// models the fault-injection surface directly).
package alloc

import "sync"

// Allocator gates allocation attempts, optionally injecting a deterministic
// failure every Nth call. A zero-value Allocator never fails (period 0).
type Allocator struct {
	mu     sync.Mutex
	period uint64
	count  uint64
}

// New returns an Allocator that fails every period-th call to Try, or never
// fails if period is 0.
func New(period uint64) *Allocator {
	return &Allocator{period: period}
}

// Unbounded returns an Allocator that never fails.
func Unbounded() *Allocator {
	return New(0)
}

// Try reports whether the caller may proceed with an allocation. When the
// configured period is reached, Try resets its internal counter and returns
// false, mimicking OS_malloc/OS_calloc's "return NULL every Nth call, reset
// cnt to 0" behavior exactly.
func (a *Allocator) Try() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.period == 0 {
		return true
	}

	a.count++
	if a.count == a.period {
		a.count = 0
		return false
	}
	return true
}

// SetPeriod changes the failure period, resetting the call counter.
func (a *Allocator) SetPeriod(period uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.period = period
	a.count = 0
}

// Period returns the currently configured period.
func (a *Allocator) Period() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.period
}
