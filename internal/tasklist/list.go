// Package tasklist implements the kernel's ordered, intrusive doubly-linked
// list: a single generic container reused for the ready, waiting, and timer
// lists, each keyed by a different uint64 sort key (deadline or wake tick).
//
// Modeled on a firmware OSList_t (OSList.c), which is likewise reused
// verbatim for all three lists via OSList_timerInsert/OSList_deadlineInsert
// keyed on different struct fields. The Go rendition collapses those two
// near-identical traversal functions into a single Insert, keyed by whatever
// uint64 the caller supplies, the way a generic container should.
package tasklist

// Entry is a single node belonging to at most one List at a time. Callers own
// Entry allocation and are expected to reuse the same Entry across moves
// between different Lists (remove from one, Insert into another), rather
// than allocating a fresh Entry per list membership.
type Entry[T any] struct {
	key  uint64
	val  T
	prev *Entry[T]
	next *Entry[T]
	list *List[T] // non-nil while linked into list; used only for assertions.
}

// NewEntry allocates a new, unlinked Entry wrapping val.
func NewEntry[T any](val T) *Entry[T] {
	return &Entry[T]{val: val}
}

// Key returns the entry's current sort key (meaningful only while linked).
func (e *Entry[T]) Key() uint64 { return e.key }

// Value returns the payload the entry carries.
func (e *Entry[T]) Value() T { return e.val }

// Linked reports whether the entry currently belongs to a list.
func (e *Entry[T]) Linked() bool { return e.list != nil }

// Next returns the entry's successor, or nil if e is the tail or unlinked.
func (e *Entry[T]) Next() *Entry[T] { return e.next }

// Prev returns the entry's predecessor, or nil if e is the head or unlinked.
func (e *Entry[T]) Prev() *Entry[T] { return e.prev }

// List is an ascending-sorted, doubly-linked list of *Entry[T]. The zero
// value is not ready for use; construct with New.
type List[T any] struct {
	head *Entry[T]
	tail *Entry[T]
	size int
}

// New returns a new, empty List.
func New[T any]() *List[T] {
	return &List[T]{}
}

// Len returns the number of entries currently linked into the list.
func (l *List[T]) Len() int { return l.size }

// Peek returns the head entry without removing it, or nil if the list is
// empty.
func (l *List[T]) Peek() *Entry[T] {
	return l.head
}

// Insert inserts e into the list in ascending order of key, placing e after
// any existing entries with an equal key (FIFO among ties). e must not
// already belong to a list. Panics if e is nil or already linked, matching
// the strict preconditions the kernel itself enforces before ever calling
// Insert (the nil/zero-delay checks live at the kernel call site; by the
// time an Entry reaches here, it is always valid).
func (l *List[T]) Insert(e *Entry[T], key uint64) {
	if e == nil {
		panic("tasklist: insert: nil entry")
	}
	if e.list != nil {
		panic("tasklist: insert: entry already linked")
	}

	e.key = key
	e.list = l

	switch {
	case l.size == 0:
		l.head = e
		l.tail = e

	case key < l.head.key:
		e.next = l.head
		l.head.prev = e
		l.head = e

	case key >= l.tail.key:
		e.prev = l.tail
		l.tail.next = e
		l.tail = e

	default:
		// Linear scan from head, stopping at the first successor whose key
		// strictly exceeds the new key — ties land after existing equals.
		cur := l.head
		for cur.next != nil && cur.next.key <= key {
			cur = cur.next
		}
		e.prev = cur
		e.next = cur.next
		cur.next.prev = e
		cur.next = e
	}

	l.size++
}

// RemoveFirst detaches and returns the head entry, or nil if the list is
// empty.
func (l *List[T]) RemoveFirst() *Entry[T] {
	if l.head == nil {
		return nil
	}
	e := l.head
	l.remove(e)
	return e
}

// Remove detaches e from the list if it is currently linked into it,
// reporting whether it was found. Safe to call with an entry from a
// different list or an unlinked entry (returns false).
func (l *List[T]) Remove(e *Entry[T]) bool {
	if e == nil || e.list != l {
		return false
	}
	l.remove(e)
	return true
}

// remove unlinks e, which must currently belong to l, and clears its links.
func (l *List[T]) remove(e *Entry[T]) {
	switch {
	case e.prev == nil && e.next == nil:
		l.head = nil
		l.tail = nil
	case e.prev == nil:
		l.head = e.next
		l.head.prev = nil
	case e.next == nil:
		l.tail = e.prev
		l.tail.next = nil
	default:
		e.prev.next = e.next
		e.next.prev = e.prev
	}

	e.prev = nil
	e.next = nil
	e.list = nil
	l.size--
}
