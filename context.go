package edfrtos

// Context switching. Go has no stackful coroutine primitive to reuse for
// "save context; branch past; resume re-enters with the branch condition
// already false" — the one genuine re-architecture point versus a
// register-level RTOS. The substitution used here: one goroutine and one
// wake channel per task. Exactly two operations replace the firmware's
// isr_off/save_context/reassess/load_context/isr_on sequence:
//
//   - reassess: pure bookkeeping, called with k.mu held. Computes the new
//     ready-list head and, if it differs from whichever task last held the
//     CPU, wakes its goroutine. This is the single place a resume channel is
//     ever sent to, so a task is woken at most once per transition.
//   - suspend: called by a task's own goroutine immediately after reassess,
//     with k.mu still held. Parks the caller on its own resume channel
//     unless it is itself the task reassess just selected, then returns with
//     interrupts re-enabled and k.mu released — the analogue of
//     load_context's "resume and re-enable interrupts" atomically.
//
// Between these two calls, a task that lost the CPU to a tick-triggered
// preemption keeps executing ordinary Go code it was already running; Go
// offers no mechanism to forcibly suspend an arbitrary running goroutine the
// way a hardware ISR suspends the current instruction stream. The scheduling
// *decision* (who is current, deadline ordering, wakeups) is exact; the
// physical handoff of the CPU completes at the preempted task's own next
// suspension point (wait, set_deadline, a blocking mailbox call, or
// terminate), which is the same cooperative granularity the idle task's
// polling loop already assumes.

// isrOff acquires the kernel's critical-section lock and flips the
// interrupt-enable shadow flag to false, mirroring isr_off on the simulation
// target. Must be paired with a later reassess+suspend (which itself
// re-enables interrupts and releases the lock) or, for operations that never
// block the caller, with isrOn.
func (k *Kernel) isrOff() {
	k.mu.Lock()
	k.interruptsEnabled.Store(false)
}

// isrOn releases the lock and re-enables interrupts, for call paths that
// never suspend the caller (e.g. a non-blocking mailbox operation).
func (k *Kernel) isrOn() {
	k.interruptsEnabled.Store(true)
	k.mu.Unlock()
}

// reassess must be called with k.mu held. It implements the three-step
// algorithm: drain the expired prefix of the timer list into
// ready, drain the expired prefix of the waiting list into ready, then set
// the scheduler's current pick to the ready-list head. If that pick differs
// from whichever task last held the CPU, its goroutine is woken here and
// nowhere else.
func (k *Kernel) reassess() {
	for {
		e := k.timer.Peek()
		if e == nil || e.Key() > k.ticks {
			break
		}
		k.timer.RemoveFirst()
		t := e.Value()
		t.state = TaskReady
		k.ready.Insert(t.entry, t.deadline)
	}

	for {
		e := k.waiting.Peek()
		if e == nil || e.Key() > k.ticks {
			break
		}
		k.waiting.RemoveFirst()
		t := e.Value()
		t.state = TaskReady
		k.ready.Insert(t.entry, t.deadline)
	}

	head := k.ready.Peek()
	if head == nil {
		// Unreachable post-New: the idle task is permanently ready.
		return
	}
	next := head.Value()
	next.state = TaskRunning
	k.current = next

	if next != k.running {
		if k.running != nil && k.running.state == TaskRunning {
			k.running.state = TaskReady
		}
		k.running = next
		next.resume <- struct{}{}
	}
}

// suspend must be called by self's own goroutine, immediately after
// reassess, with k.mu still held. It parks self until a later reassess picks
// it again, unless reassess just picked self, in which case it returns
// immediately. Either way it returns with interrupts re-enabled and k.mu
// released. The return value reports whether the caller actually parked —
// callers that loop when they don't (e.g. the idle task) should yield the
// processor instead of spinning unconditionally.
func (k *Kernel) suspend(self *Task) bool {
	stillRunning := k.running == self
	k.interruptsEnabled.Store(true)
	k.mu.Unlock()
	if stillRunning {
		return false
	}
	<-self.resume
	return true
}
