package edfrtos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWait_ZeroTicksFailsWithoutSuspending(t *testing.T) {
	k, err := New()
	require.NoError(t, err)

	done := make(chan Status)
	_, err = k.CreateTask(func(self *Task) {
		status, err := self.Wait(0)
		require.ErrorIs(t, err, ErrFail)
		done <- status
		self.Terminate()
	}, 10)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go k.Run(ctx)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never reported")
	}
}

// TestScheduler_EDFPreemptsOnWaitExpiry has task A with deadline 100 and
// task B with deadline 50. After Run, B is selected first; once B calls
// Wait(10), A becomes the scheduler's pick; once 10 ticks elapse, B preempts
// A again because 50 < 100.
//
// Per the design notes on context switching, only the scheduler's current
// pick is asserted here, not physical goroutine preemption — Go has no
// mechanism to forcibly suspend a running goroutine the way a tick ISR
// suspends a hardware instruction stream.
func TestScheduler_EDFPreemptsOnWaitExpiry(t *testing.T) {
	k, err := New(WithTickPeriod(time.Hour))
	require.NoError(t, err)

	bReachedWait := make(chan struct{})
	bMayWait := make(chan struct{})
	bWoke := make(chan Status) // unbuffered: B stays the pick until the test receives
	aMayFinish := make(chan struct{})
	aStarted := make(chan struct{})

	taskA, err := k.CreateTask(func(self *Task) {
		close(aStarted)
		<-aMayFinish
		self.Terminate()
	}, 100)
	require.NoError(t, err)

	taskB, err := k.CreateTask(func(self *Task) {
		close(bReachedWait)
		<-bMayWait
		status, _ := self.Wait(10)
		bWoke <- status
		self.Terminate()
	}, 50)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go k.Run(ctx)

	// B has the earliest deadline, so it is selected first.
	require.Eventually(t, func() bool {
		k.mu.Lock()
		defer k.mu.Unlock()
		return k.current == taskB
	}, time.Second, time.Millisecond)

	<-bReachedWait
	close(bMayWait)
	// Once B calls Wait, A becomes the scheduler's pick.
	require.Eventually(t, func() bool {
		k.mu.Lock()
		defer k.mu.Unlock()
		return k.current == taskA
	}, time.Second, time.Millisecond)
	<-aStarted

	for i := 0; i < 10; i++ {
		k.TickOnce()
	}

	// Because 50 < 100, B preempts A on the tick its Wait expires.
	require.Eventually(t, func() bool {
		k.mu.Lock()
		defer k.mu.Unlock()
		return k.current == taskB
	}, time.Second, time.Millisecond)

	select {
	case status := <-bWoke:
		require.Equal(t, StatusSuccess, status)
	case <-time.After(time.Second):
		t.Fatal("B never resumed from Wait")
	}

	close(aMayFinish)
}

// TestSetDeadline_ReordersReadyList has A start as the scheduler's pick
// (earliest deadline), raise its own deadline above B's, and checks that B
// becomes the new pick: changing a task's own deadline can move a different
// task to the head of the ready list.
func TestSetDeadline_ReordersReadyList(t *testing.T) {
	k, err := New(WithTickPeriod(time.Hour))
	require.NoError(t, err)

	aStarted := make(chan struct{})
	bStarted := make(chan struct{})

	_, err = k.CreateTask(func(self *Task) {
		close(aStarted)
		self.SetDeadline(200)
		self.Terminate()
	}, 50)
	require.NoError(t, err)

	taskB, err := k.CreateTask(func(self *Task) {
		bStarted <- struct{}{} // B stays the pick until the test receives
		self.Terminate()
	}, 100)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go k.Run(ctx)

	// A has the earliest deadline, so it runs first.
	select {
	case <-aStarted:
	case <-time.After(time.Second):
		t.Fatal("A never started")
	}

	// Once A raises its own deadline past B's, B becomes the new pick.
	require.Eventually(t, func() bool {
		k.mu.Lock()
		defer k.mu.Unlock()
		return k.current == taskB && k.ready.Peek().Value() == taskB
	}, time.Second, time.Millisecond)

	select {
	case <-bStarted:
	case <-time.After(time.Second):
		t.Fatal("B never ran after A's SetDeadline")
	}
}
