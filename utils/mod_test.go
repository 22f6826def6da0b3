package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindIndex(t *testing.T) {
	colors := []string{"yellow", "red", "green", "red"}
	require.Equal(t, 1, FindIndex(colors, "red"), "first occurrence wins")
	require.Equal(t, 2, FindIndex(colors, "green"))
	require.Equal(t, -1, FindIndex(colors, "blue"))
	require.Equal(t, -1, FindIndex([]int(nil), 3))
}

func TestCountIf(t *testing.T) {
	even := func(n int) bool { return n%2 == 0 }
	require.Equal(t, 2, CountIf([]int{1, 2, 3, 4}, even))
	require.Zero(t, CountIf(nil, even))
}
