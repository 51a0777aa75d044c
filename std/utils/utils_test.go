package utils_test

import (
	"testing"

	"github.com/arclib/arclib/std/utils"
	tu "github.com/arclib/arclib/std/utils/testutils"
	"github.com/stretchr/testify/require"
)

func TestIdPtr(t *testing.T) {
	tu.SetT(t)

	p := utils.IdPtr(uint64(42))
	require.Equal(t, uint64(42), *p)
}

func TestIf(t *testing.T) {
	tu.SetT(t)

	require.Equal(t, "yes", utils.If(true, "yes", "no"))
	require.Equal(t, "no", utils.If(false, "yes", "no"))
}

func TestHeaderEqual(t *testing.T) {
	tu.SetT(t)

	a := []int{1, 2, 3}
	b := a
	require.True(t, utils.HeaderEqual(a, b))

	c := []int{1, 2, 3}
	require.False(t, utils.HeaderEqual(a, c))

	require.True(t, utils.HeaderEqual([]int{}, []int{}))
}
