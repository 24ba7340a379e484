package tasklist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestList_EmptyListBehavior(t *testing.T) {
	l := New[int]()
	require.Equal(t, 0, l.Len())
	require.Nil(t, l.Peek())
	require.Nil(t, l.RemoveFirst())
	require.False(t, l.Remove(NewEntry(0)))
}

func walkKeys[T any](l *List[T]) []uint64 {
	var keys []uint64
	for cur := l.Peek(); cur != nil; {
		keys = append(keys, cur.Key())
		next := cur.next
		cur = next
	}
	return keys
}

// TestList_InsertUnordered reproduces the kernel's seed scenario: inserting
// entries with delays [1,10,5,11,6,2,9,4,7,8,3] must yield an ascending walk
// of 1..11 and a final size of 11, whether the key represents a deadline or
// a wake tick — the list does not care which.
func TestList_InsertUnordered(t *testing.T) {
	delays := []uint64{1, 10, 5, 11, 6, 2, 9, 4, 7, 8, 3}

	l := New[int]()
	for i, d := range delays {
		l.Insert(NewEntry(i), d)
	}

	require.Equal(t, 11, l.Len())
	require.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, walkKeys(l))
}

func TestList_InsertUnordered_AsDeadlines(t *testing.T) {
	deadlines := []uint64{1, 10, 5, 11, 6, 2, 9, 4, 7, 8, 3}

	l := New[string]()
	for i, d := range deadlines {
		l.Insert(NewEntry("task"), d)
		_ = i
	}

	require.Equal(t, 11, l.Len())
	require.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, walkKeys(l))
}

func TestList_FIFOAmongEqualKeys(t *testing.T) {
	l := New[string]()
	a := NewEntry("a")
	b := NewEntry("b")
	c := NewEntry("c")

	l.Insert(a, 5)
	l.Insert(b, 5)
	l.Insert(c, 5)

	require.Equal(t, 3, l.Len())
	require.Same(t, a, l.Peek())
	require.Equal(t, "a", l.Peek().Value())

	first := l.RemoveFirst()
	require.Same(t, a, first)
	second := l.RemoveFirst()
	require.Same(t, b, second)
	third := l.RemoveFirst()
	require.Same(t, c, third)
	require.Equal(t, 0, l.Len())
}

func TestList_RemoveFirst_DrainsInOrder(t *testing.T) {
	l := New[int]()
	for _, d := range []uint64{4, 1, 3, 2} {
		l.Insert(NewEntry(int(d)), d)
	}

	var drained []int
	for l.Len() > 0 {
		e := l.RemoveFirst()
		drained = append(drained, e.Value())
	}
	require.Equal(t, []int{1, 2, 3, 4}, drained)
}

func TestList_RemoveArbitraryEntry(t *testing.T) {
	l := New[string]()
	a := NewEntry("a")
	b := NewEntry("b")
	c := NewEntry("c")
	l.Insert(a, 1)
	l.Insert(b, 2)
	l.Insert(c, 3)

	require.True(t, l.Remove(b))
	require.Equal(t, 2, l.Len())
	require.Equal(t, []uint64{1, 3}, walkKeys(l))

	// removing again is a no-op, reporting false.
	require.False(t, l.Remove(b))
	require.Equal(t, 2, l.Len())
}

func TestList_RemoveHeadAndTail(t *testing.T) {
	l := New[int]()
	a := NewEntry(1)
	b := NewEntry(2)
	c := NewEntry(3)
	l.Insert(a, 1)
	l.Insert(b, 2)
	l.Insert(c, 3)

	require.True(t, l.Remove(a))
	require.Same(t, b, l.Peek())

	require.True(t, l.Remove(c))
	require.Equal(t, 1, l.Len())
	require.Same(t, b, l.Peek())

	require.True(t, l.Remove(b))
	require.Equal(t, 0, l.Len())
	require.Nil(t, l.Peek())
}

func TestList_SizeConsistency(t *testing.T) {
	l := New[int]()
	entries := make([]*Entry[int], 0, 20)
	for i := 0; i < 20; i++ {
		e := NewEntry(i)
		l.Insert(e, uint64(20-i))
		entries = append(entries, e)
	}
	require.Equal(t, 20, l.Len())

	for i, e := range entries {
		require.True(t, l.Remove(e))
		require.Equal(t, 20-i-1, l.Len())
	}
}

func TestList_MoveEntryBetweenLists(t *testing.T) {
	ready := New[string]()
	waiting := New[string]()

	e := NewEntry("task")
	waiting.Insert(e, 100)
	require.True(t, e.Linked())

	require.True(t, waiting.Remove(e))
	require.False(t, e.Linked())

	ready.Insert(e, 0)
	require.True(t, e.Linked())
	require.Equal(t, 1, ready.Len())
	require.Equal(t, 0, waiting.Len())
}

func TestList_InsertPanicsOnAlreadyLinked(t *testing.T) {
	l := New[int]()
	e := NewEntry(1)
	l.Insert(e, 1)
	require.Panics(t, func() {
		l.Insert(e, 2)
	})
}

func TestList_InsertPanicsOnNil(t *testing.T) {
	l := New[int]()
	require.Panics(t, func() {
		l.Insert(nil, 1)
	})
}
