package edfrtos

import "fmt"

// Wait suspends the calling task for n_ticks ticks. It fails immediately,
// without suspending, if n_ticks is zero. Otherwise the caller moves from
// the ready list to the timer list, keyed on current_tick+n_ticks, and is
// resumed once a later reassess drains it back to ready. The returned
// Status reflects whether the task's deadline had already passed by the
// time it was rescheduled.
func (self *Task) Wait(nTicks uint64) (Status, error) {
	if nTicks == 0 {
		return 0, fmt.Errorf("edfrtos: wait: zero delay: %w", ErrFail)
	}

	k := self.k
	k.isrOff()
	k.ready.Remove(self.entry)
	self.state = TaskTimerSleep
	self.wakeTick = k.ticks + nTicks
	k.timer.Insert(self.entry, self.wakeTick)
	k.logDebug(categoryScheduler).
		Uint64("task_id", self.id).
		Uint64("wake_tick", self.wakeTick).
		Log("task sleeping")
	k.reassess()
	k.suspend(self)

	k.mu.Lock()
	reached := k.ticks >= self.deadline
	k.mu.Unlock()

	if reached {
		return StatusDeadlineReached, nil
	}
	return StatusSuccess, nil
}

// SetDeadline reassigns the calling task's deadline, detaching and
// reinserting its entry to preserve ready-list sort order, then reassesses —
// a task lowering its deadline may cause a different task to become the
// ready-list head, in which case the caller suspends until rescheduled.
func (self *Task) SetDeadline(newDeadline uint64) {
	k := self.k
	k.isrOff()
	k.ready.Remove(self.entry)
	self.deadline = newDeadline
	k.ready.Insert(self.entry, newDeadline)
	k.logDebug(categoryScheduler).
		Uint64("task_id", self.id).
		Uint64("deadline", newDeadline).
		Log("deadline changed")
	k.reassess()
	k.suspend(self)
}
