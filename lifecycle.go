package edfrtos

import (
	"context"
	"fmt"
	"runtime"
)

// CreateTask admits a new task before the kernel starts running. It fails if
// body is nil, deadline is zero, or the kernel has already left init mode —
// a running task that wants to spawn another task calls (*Task).CreateTask
// instead, since that path additionally needs to save and reschedule the
// caller's own context, which only makes sense with a task identity to
// suspend.
func (k *Kernel) CreateTask(body func(self *Task), deadline uint64) (*Task, error) {
	if body == nil {
		return nil, fmt.Errorf("edfrtos: create_task: nil body: %w", ErrFail)
	}
	if deadline == 0 {
		return nil, fmt.Errorf("edfrtos: create_task: zero deadline: %w", ErrFail)
	}

	k.isrOff()
	if k.mode != ModeInit {
		k.isrOn()
		return nil, fmt.Errorf("edfrtos: create_task: kernel already running, use (*Task).CreateTask: %w", ErrFail)
	}
	t, err := k.admitTaskLocked(body, deadline)
	k.isrOn()
	return t, err
}

// CreateTask, called by a running task, admits a new task and then runs
// reassessment and a context switch: the new task may or may not immediately
// preempt the caller, depending on deadline order.
func (self *Task) CreateTask(body func(self *Task), deadline uint64) (*Task, error) {
	if body == nil {
		return nil, fmt.Errorf("edfrtos: create_task: nil body: %w", ErrFail)
	}
	if deadline == 0 {
		return nil, fmt.Errorf("edfrtos: create_task: zero deadline: %w", ErrFail)
	}

	k := self.k
	k.isrOff()
	t, err := k.admitTaskLocked(body, deadline)
	if err != nil {
		k.isrOn()
		return nil, err
	}
	k.reassess()
	k.suspend(self)
	return t, nil
}

// admitTaskLocked allocates and admits a new task to the ready list. Must be
// called with k.mu held; does not reassess or switch.
func (k *Kernel) admitTaskLocked(body func(self *Task), deadline uint64) (*Task, error) {
	if !k.allocator.Try() {
		return nil, fmt.Errorf("edfrtos: create_task: allocation failed: %w", ErrFail)
	}

	t := newTask(k, k.allocTaskID(), body, deadline, k.stackHint)
	t.state = TaskReady
	k.ready.Insert(t.entry, deadline)
	t.start()

	k.logInfo(categoryLifecycle).
		Uint64("task_id", t.id).
		Uint64("deadline", deadline).
		Log("task created")

	return t, nil
}

// Terminate removes the calling task from the ready list, reassesses, and
// ends the calling goroutine. It never returns.
func (self *Task) Terminate() {
	k := self.k

	k.isrOff()
	k.ready.Remove(self.entry)
	self.state = TaskTerminated
	k.logInfo(categoryLifecycle).Uint64("task_id", self.id).Log("task terminated")
	k.reassess()
	k.isrOn()

	runtime.Goexit()
}

// Run admits the kernel from init into running mode, starts the background
// tick service, switches into the ready-list head, and then blocks until ctx
// is cancelled — the Go rendering of run()'s "no return on success" contract,
// since task bodies already execute on their own goroutines rather than
// requiring Run's own goroutine to become one of them.
func (k *Kernel) Run(ctx context.Context) error {
	k.isrOff()
	if k.mode != ModeInit {
		k.isrOn()
		return fmt.Errorf("edfrtos: run: %w", ErrAlreadyRunning)
	}
	k.mode = ModeRunning
	go k.RunTickLoop(ctx, k.tickPeriod)
	k.logInfo(categoryLifecycle).Log("kernel running")
	k.reassess()
	k.isrOn()

	<-ctx.Done()
	return ctx.Err()
}
