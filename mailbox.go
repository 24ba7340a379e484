package edfrtos

import (
	"context"
	"fmt"
)

// mailboxMessage is a queue node: either a blocking party's aliased caller
// buffer (owner non-nil) or a mailbox-owned copy for an async message
// (owner nil). prev/next link it into its Mailbox's sentinel-headed queue.
type mailboxMessage struct {
	data   []byte
	status Status
	owner  *Task
	prev   *mailboxMessage
	next   *mailboxMessage
}

// Mailbox is a bounded FIFO queue of messages, supporting both blocking
// rendezvous (SendWait/ReceiveWait) and non-blocking transfer
// (SendNoWait/ReceiveNoWait). nBlocked's sign encodes what kind of blocked
// party is queued: positive for waiting senders, negative for waiting
// receivers, zero when empty of blocked parties.
type Mailbox struct {
	k *Kernel

	maxMessages int
	dataSize    int

	head *mailboxMessage // sentinel
	tail *mailboxMessage // sentinel

	nMessages int
	nBlocked  int
	removed   bool
}

// CreateMailbox allocates a mailbox with the given capacity and per-message
// payload size. It fails if either argument is non-positive or the
// configured allocator rejects the allocation.
func (k *Kernel) CreateMailbox(maxMessages, dataSize int) (*Mailbox, error) {
	if maxMessages <= 0 || dataSize <= 0 {
		return nil, fmt.Errorf("edfrtos: create_mailbox: non-positive argument: %w", ErrFail)
	}

	k.mu.Lock()
	ok := k.allocator.Try()
	k.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("edfrtos: create_mailbox: allocation failed: %w", ErrFail)
	}

	head := &mailboxMessage{}
	tail := &mailboxMessage{}
	head.next = tail
	tail.prev = head

	k.logInfo(categoryMailbox).
		Int("max_messages", maxMessages).
		Int("data_size", dataSize).
		Log("mailbox created")

	return &Mailbox{k: k, maxMessages: maxMessages, dataSize: dataSize, head: head, tail: tail}, nil
}

// Remove destroys the mailbox if it holds no queued messages or blocked
// parties, returning ErrNotEmpty otherwise.
func (m *Mailbox) Remove() error {
	k := m.k
	k.mu.Lock()
	defer k.mu.Unlock()
	if m.nMessages != 0 || m.nBlocked != 0 {
		return fmt.Errorf("edfrtos: remove_mailbox: %w", ErrNotEmpty)
	}
	m.removed = true
	return nil
}

// NoMessages returns |n_messages| + |n_blocked|.
func (m *Mailbox) NoMessages() int {
	k := m.k
	k.mu.Lock()
	defer k.mu.Unlock()
	return abs(m.nMessages) + abs(m.nBlocked)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (m *Mailbox) firstMessage() *mailboxMessage {
	if m.head.next == m.tail {
		return nil
	}
	return m.head.next
}

func (m *Mailbox) enqueue(msg *mailboxMessage) {
	msg.prev = m.tail.prev
	msg.next = m.tail
	m.tail.prev.next = msg
	m.tail.prev = msg
}

func (m *Mailbox) unlink(msg *mailboxMessage) {
	msg.prev.next = msg.next
	msg.next.prev = msg.prev
	msg.prev = nil
	msg.next = nil
}

func (m *Mailbox) copyPayload(dst, src []byte) {
	n := min(m.dataSize, len(dst), len(src))
	copy(dst[:n], src[:n])
}

// SendWait synchronously sends to mbox, blocking the caller if no receiver
// is yet waiting. Fails if mbox or data is nil, or if mbox already holds
// queued non-blocking messages (mixing blocking senders with an async
// backlog is never valid). ctx is checked up front only — see SPEC_FULL.md
// for why the suspension itself cannot honor mid-wait cancellation.
func (self *Task) SendWait(ctx context.Context, mbox *Mailbox, data []byte) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if mbox == nil || data == nil {
		return fmt.Errorf("edfrtos: send_wait: nil argument: %w", ErrFail)
	}

	k := self.k
	k.isrOff()

	if mbox.nMessages != 0 {
		k.isrOn()
		return fmt.Errorf("edfrtos: send_wait: mailbox has queued non-blocking messages: %w", ErrFail)
	}

	if mbox.nBlocked < 0 {
		recvMsg := mbox.firstMessage()
		mbox.copyPayload(recvMsg.data, data)
		mbox.unlink(recvMsg)
		receiver := recvMsg.owner
		receiver.msg = nil
		k.waiting.Remove(receiver.entry)
		receiver.state = TaskReady
		k.ready.Insert(receiver.entry, receiver.deadline)
		mbox.nBlocked++

		k.logInfo(categoryMailbox).Uint64("task_id", self.id).Log("send_wait matched waiting receiver")
		k.reassess()
		k.isrOn()
		return nil
	}

	msg := &mailboxMessage{data: data, owner: self}
	mbox.enqueue(msg)
	mbox.nBlocked++
	self.msg = msg
	k.ready.Remove(self.entry)
	self.state = TaskMailboxWait
	k.waiting.Insert(self.entry, self.deadline)

	k.logDebug(categoryMailbox).Uint64("task_id", self.id).Log("send_wait blocking")
	k.reassess()
	k.suspend(self)

	return self.mailboxOutcome(mbox, "send_wait")
}

// ReceiveWait is the symmetric counterpart of SendWait.
func (self *Task) ReceiveWait(ctx context.Context, mbox *Mailbox, data []byte) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if mbox == nil || data == nil {
		return fmt.Errorf("edfrtos: receive_wait: nil argument: %w", ErrFail)
	}

	k := self.k
	k.isrOff()

	if msg := mbox.firstMessage(); msg != nil {
		mbox.copyPayload(data, msg.data)
		mbox.unlink(msg)
		if msg.owner != nil {
			sender := msg.owner
			sender.msg = nil
			k.waiting.Remove(sender.entry)
			sender.state = TaskReady
			k.ready.Insert(sender.entry, sender.deadline)
			mbox.nBlocked--
		} else {
			mbox.nMessages--
		}

		k.logInfo(categoryMailbox).Uint64("task_id", self.id).Log("receive_wait matched queued message")
		k.reassess()
		k.isrOn()
		return nil
	}

	msg := &mailboxMessage{data: data, owner: self}
	mbox.enqueue(msg)
	mbox.nBlocked--
	self.msg = msg
	k.ready.Remove(self.entry)
	self.state = TaskMailboxWait
	k.waiting.Insert(self.entry, self.deadline)

	k.logDebug(categoryMailbox).Uint64("task_id", self.id).Log("receive_wait blocking")
	k.reassess()
	k.suspend(self)

	return self.mailboxOutcome(mbox, "receive_wait")
}

// mailboxOutcome is evaluated immediately after a blocked sender/receiver is
// resumed. self.msg is cleared by whichever counterpart completed the
// rendezvous; if it is still set, the only other path back to ready is the
// waiting-list deadline expiry, so the caller must withdraw its own message.
func (self *Task) mailboxOutcome(mbox *Mailbox, op string) error {
	k := self.k
	k.mu.Lock()
	defer k.mu.Unlock()

	if self.msg == nil {
		return nil
	}

	mbox.unlink(self.msg)
	self.msg = nil
	if op == "send_wait" {
		mbox.nBlocked--
	} else {
		mbox.nBlocked++
	}

	k.logInfo(categoryMailbox).Uint64("task_id", self.id).Str("op", op).Log("withdrew on deadline")
	return fmt.Errorf("edfrtos: %s: %w", op, ErrDeadlineReached)
}

// SendNoWait asynchronously sends to mbox without blocking. If a receiver is
// already blocked, the transfer completes immediately as in SendWait's
// rendezvous path. Otherwise the message is queued, evicting the oldest
// queued message first if the mailbox is at capacity.
func (m *Mailbox) SendNoWait(data []byte) error {
	if data == nil {
		return fmt.Errorf("edfrtos: send_no_wait: nil data: %w", ErrFail)
	}

	k := m.k
	k.isrOff()
	defer k.isrOn()

	if m.nBlocked < 0 {
		recvMsg := m.firstMessage()
		m.copyPayload(recvMsg.data, data)
		m.unlink(recvMsg)
		receiver := recvMsg.owner
		receiver.msg = nil
		k.waiting.Remove(receiver.entry)
		receiver.state = TaskReady
		k.ready.Insert(receiver.entry, receiver.deadline)
		m.nBlocked++
		k.reassess()
		return nil
	}

	if m.nMessages >= m.maxMessages {
		if oldest := m.firstMessage(); oldest != nil {
			m.unlink(oldest)
			m.nMessages--
		}
	}

	buf := make([]byte, m.dataSize)
	m.copyPayload(buf, data)
	m.enqueue(&mailboxMessage{data: buf})
	m.nMessages++
	k.reassess()
	return nil
}

// ReceiveNoWait asynchronously receives from mbox without blocking. It fails
// if the mailbox holds no queued message.
func (m *Mailbox) ReceiveNoWait(data []byte) error {
	if data == nil {
		return fmt.Errorf("edfrtos: receive_no_wait: nil data: %w", ErrFail)
	}

	k := m.k
	k.isrOff()
	defer k.isrOn()

	msg := m.firstMessage()
	if msg == nil {
		return fmt.Errorf("edfrtos: receive_no_wait: mailbox empty: %w", ErrFail)
	}

	m.copyPayload(data, msg.data)
	m.unlink(msg)
	if msg.owner != nil {
		sender := msg.owner
		sender.msg = nil
		k.waiting.Remove(sender.entry)
		sender.state = TaskReady
		k.ready.Insert(sender.entry, sender.deadline)
		m.nBlocked--
	} else {
		m.nMessages--
	}
	k.reassess()
	return nil
}
