package edfrtos

import (
	"time"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"

	"github.com/AlbinHjalmas/ULW-rtos/internal/alloc"
)

const defaultTickPeriod = 20 * time.Millisecond

// kernelOptions holds the resolved configuration for a new Kernel.
type kernelOptions struct {
	allocator  *alloc.Allocator
	tickPeriod time.Duration
	logger     *logiface.Logger[*islog.Event]
	stackHint  int
}

// Option configures a Kernel at construction time.
type Option interface {
	applyKernel(*kernelOptions) error
}

type optionFunc func(*kernelOptions) error

func (f optionFunc) applyKernel(opts *kernelOptions) error { return f(opts) }

// WithAllocator sets the instrumented allocator gating the kernel's own
// allocation sites (the kernel lists in New, task creation, mailbox
// creation). Message records queued by the mailbox send and receive
// operations are not gated by it. Defaults to an allocator that never fails.
func WithAllocator(a *alloc.Allocator) Option {
	return optionFunc(func(opts *kernelOptions) error {
		opts.allocator = a
		return nil
	})
}

// WithTickPeriod sets the nominal period RunTickLoop sleeps between tick
// invocations. Defaults to 20ms, a typical MCU tick period.
func WithTickPeriod(d time.Duration) Option {
	return optionFunc(func(opts *kernelOptions) error {
		opts.tickPeriod = d
		return nil
	})
}

// WithLogger attaches a structured logger. The zero value logs nothing.
func WithLogger(l *logiface.Logger[*islog.Event]) Option {
	return optionFunc(func(opts *kernelOptions) error {
		opts.logger = l
		return nil
	})
}

// WithStackHint records a documentary per-task stack size, reported via
// Kernel.Stats. Go goroutines are growable and self-managed; this never
// allocates or bounds anything, it exists only to carry forward the
// per-target STACK_SIZE constant's informational role.
func WithStackHint(bytes int) Option {
	return optionFunc(func(opts *kernelOptions) error {
		opts.stackHint = bytes
		return nil
	})
}

// resolveOptions applies opts over the zero-value defaults.
func resolveOptions(opts []Option) (*kernelOptions, error) {
	cfg := &kernelOptions{
		allocator:  alloc.Unbounded(),
		tickPeriod: defaultTickPeriod,
		logger:     logiface.New[*islog.Event](),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyKernel(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
