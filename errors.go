package edfrtos

import "errors"

// Sentinel errors for the kernel's error kinds. Call sites
// wrap these with additional context via fmt.Errorf("edfrtos: ...: %w", Err),
// so errors.Is still matches against the sentinel.
var (
	// ErrFail reports a precondition violation (nil body, zero delay, wrong
	// operating mode) or an allocation failure.
	ErrFail = errors.New("edfrtos: fail")

	// ErrDeadlineReached reports that a blocking operation could not complete
	// before the calling task's deadline arrived.
	ErrDeadlineReached = errors.New("edfrtos: deadline reached")

	// ErrNotEmpty reports that a mailbox cannot be removed because it still
	// holds queued messages or blocked parties.
	ErrNotEmpty = errors.New("edfrtos: mailbox not empty")

	// ErrUninitialized reports an operation attempted before init_kernel's
	// equivalent (New) has run, or while the kernel has not yet reached the
	// operating mode the call requires.
	ErrUninitialized = errors.New("edfrtos: kernel uninitialized")

	// ErrAlreadyRunning reports a Run call on a kernel that has already left
	// the init operating mode.
	ErrAlreadyRunning = errors.New("edfrtos: kernel already running")
)
