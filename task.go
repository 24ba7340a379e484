package edfrtos

import (
	"github.com/AlbinHjalmas/ULW-rtos/internal/tasklist"
)

// Task is a task descriptor: the Go analogue of a task control block plus
// the saved register context it owns. There is no saved stack pointer or
// program counter to store explicitly — the goroutine running body is the
// task's context, parked on resume whenever it is not the scheduler's
// current pick.
type Task struct {
	id       uint64
	k        *Kernel
	body     func(self *Task)
	deadline uint64
	wakeTick uint64
	state    TaskState
	entry    *tasklist.Entry[*Task]
	resume   chan struct{}
	msg      *mailboxMessage // pending mailbox message, nil when none.
	status   Status          // not assigned by any operation; stays StatusSuccess.

	// stackHint is documentary only; see WithStackHint.
	stackHint int
}

// ID returns a stable debug identifier for the task, assigned in creation
// order starting from 1 (0 is never a valid task id).
func (t *Task) ID() uint64 { return t.id }

// Deadline returns the task's current deadline (absolute tick value).
func (t *Task) Deadline() uint64 {
	t.k.mu.Lock()
	defer t.k.mu.Unlock()
	return t.deadline
}

// State reports the task's current scheduling state.
func (t *Task) State() TaskState {
	t.k.mu.Lock()
	defer t.k.mu.Unlock()
	return t.state
}

func newTask(k *Kernel, id uint64, body func(self *Task), deadline uint64, stackHint int) *Task {
	t := &Task{
		id:        id,
		k:         k,
		body:      body,
		deadline:  deadline,
		state:     TaskCreated,
		resume:    make(chan struct{}, 1),
		stackHint: stackHint,
	}
	t.entry = tasklist.NewEntry(t)
	return t
}

// start spawns the task's goroutine. The goroutine parks immediately,
// waiting to be selected by the scheduler for the first time, exactly as
// every subsequent transition back into this task is mediated by resume.
func (t *Task) start() {
	go func() {
		<-t.resume
		t.body(t)
		// A body that returns instead of calling Terminate is cleaned up
		// automatically, rather than left as an unreachable zombie goroutine.
		t.Terminate()
	}()
}
