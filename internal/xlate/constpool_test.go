package xlate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstantPoolDedup(t *testing.T) {
	p := NewConstantPool(4)

	idx1, ok := p.Intern(7)
	require.True(t, ok)
	require.Equal(t, 0, idx1)

	idx2, ok := p.Intern(7)
	require.True(t, ok)
	require.Equal(t, idx1, idx2)
	require.Equal(t, 1, p.Len())

	idx3, ok := p.Intern(8)
	require.True(t, ok)
	require.Equal(t, 1, idx3)
	require.Equal(t, 2, p.Len())
}

func TestConstantPoolOverflow(t *testing.T) {
	p := NewConstantPool(2)
	_, ok := p.Intern(1)
	require.True(t, ok)
	_, ok = p.Intern(2)
	require.True(t, ok)
	_, ok = p.Intern(3)
	require.False(t, ok)
	require.Equal(t, 2, p.Len())
}

func TestConstantPoolValuesOrder(t *testing.T) {
	p := NewConstantPool(4)
	p.Intern(5)
	p.Intern(6)
	p.Intern(5)
	require.Equal(t, []uint64{5, 6}, p.Values())
}
