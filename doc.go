// Package edfrtos implements the core of a small preemptive real-time
// kernel: earliest-deadline-first scheduling across three intrusive
// doubly-linked lists, a tick-driven wait/timeout service, and a bounded
// mailbox rendezvous protocol for inter-task message passing.
//
// This package targets a host-OS simulation: there is no architecture to
// save register context for, so a Task's "context" is simply its goroutine's
// own suspended call stack, parked on a per-task channel until the scheduler
// selects it again. See reassess and suspend in context.go for the two
// primitives that stand in for the original's interrupt-driven context
// switch.
package edfrtos
