package edfrtos

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"

	"github.com/AlbinHjalmas/ULW-rtos/internal/alloc"
	"github.com/AlbinHjalmas/ULW-rtos/internal/tasklist"
)

// idleDeadline is the maximum possible deadline, reserved for the idle task
// so it is always the last candidate EDF ever selects.
const idleDeadline = math.MaxUint64

// Kernel is the process-wide kernel state: the three task lists, the
// current-task pointer, the tick counter, the operating mode, and the
// interrupt-enable shadow flag. A single instance is created by New, which
// plays the role of init_kernel.
type Kernel struct {
	mu                sync.Mutex
	interruptsEnabled atomic.Bool

	ready   *tasklist.List[*Task]
	waiting *tasklist.List[*Task]
	timer   *tasklist.List[*Task]

	current *Task // the scheduler's current pick (reassess's output)
	running *Task // the task whose goroutine actually holds the CPU

	ticks      uint64
	mode       OperatingMode
	nextTaskID uint64
	idle       *Task

	allocator  *alloc.Allocator
	tickPeriod time.Duration
	logger     *logiface.Logger[*islog.Event]
	stackHint  int
}

// Stats is a snapshot of kernel configuration and state, for diagnostics.
type Stats struct {
	Mode       OperatingMode
	Ticks      uint64
	TaskCount  int
	StackHint  int
	TickPeriod time.Duration
}

// New constructs a Kernel in ModeInit, the Go analogue of init_kernel. It
// admits the idle task to the ready list immediately, preserving the "ready
// list is never empty" invariant from the moment New returns successfully.
func New(opts ...Option) (*Kernel, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("edfrtos: new: %w", err)
	}

	if !cfg.allocator.Try() {
		return nil, fmt.Errorf("edfrtos: new: list allocation: %w", ErrFail)
	}

	k := &Kernel{
		ready:      tasklist.New[*Task](),
		waiting:    tasklist.New[*Task](),
		timer:      tasklist.New[*Task](),
		mode:       ModeInit,
		allocator:  cfg.allocator,
		tickPeriod: cfg.tickPeriod,
		logger:     cfg.logger,
		stackHint:  cfg.stackHint,
	}
	k.interruptsEnabled.Store(true)

	idle := newTask(k, k.allocTaskID(), idleBody, idleDeadline, cfg.stackHint)
	idle.state = TaskReady
	k.idle = idle
	k.ready.Insert(idle.entry, idle.deadline)
	idle.start()

	k.logInfo(categoryLifecycle).Str("mode", k.mode.String()).Log("kernel initialized")

	return k, nil
}

// idleBody loops forever, immediately re-entering the scheduler on every
// iteration. While the idle task is the scheduler's pick, suspend returns
// without parking and the loop yields the processor with runtime.Gosched
// before the next iteration; it parks on its resume channel only once
// reassess has selected another task.
func idleBody(self *Task) {
	k := self.k
	for {
		k.mu.Lock()
		k.interruptsEnabled.Store(false)
		k.reassess()
		if !k.suspend(self) {
			runtime.Gosched()
		}
	}
}

func (k *Kernel) allocTaskID() uint64 {
	k.nextTaskID++
	return k.nextTaskID
}

// Stats returns a snapshot of the kernel's configuration and coarse state.
func (k *Kernel) Stats() Stats {
	k.mu.Lock()
	defer k.mu.Unlock()
	return Stats{
		Mode:       k.mode,
		Ticks:      k.ticks,
		TaskCount:  k.ready.Len() + k.waiting.Len() + k.timer.Len(),
		StackHint:  k.stackHint,
		TickPeriod: k.tickPeriod,
	}
}

// Ticks returns the current tick counter.
func (k *Kernel) Ticks() uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.ticks
}

// SetTicks overwrites the tick counter directly, for deterministic test
// setup. It does not itself trigger reassessment.
func (k *Kernel) SetTicks(v uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.ticks = v
}
