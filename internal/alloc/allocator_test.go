package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocator_Unbounded(t *testing.T) {
	a := Unbounded()
	for i := 0; i < 1000; i++ {
		require.True(t, a.Try())
	}
}

func TestAllocator_PeriodFailsEveryNth(t *testing.T) {
	a := New(3)
	var results []bool
	for i := 0; i < 9; i++ {
		results = append(results, a.Try())
	}
	require.Equal(t, []bool{true, true, false, true, true, false, true, true, false}, results)
}

func TestAllocator_PeriodOneFailsFirstCall(t *testing.T) {
	a := New(1)
	require.False(t, a.Try())
	require.False(t, a.Try())
	require.False(t, a.Try())
}

func TestAllocator_SetPeriodResetsCounter(t *testing.T) {
	a := New(2)
	require.True(t, a.Try())
	a.SetPeriod(5)
	for i := 0; i < 4; i++ {
		require.True(t, a.Try())
	}
	require.False(t, a.Try())
}
