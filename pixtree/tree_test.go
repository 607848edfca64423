package pixtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertAndFind(t *testing.T) {
	tr := New(12 * 4 * 4)
	tr.Insert(5, 0)
	tr.Insert(5, 1)
	tr.Insert(9, 2)

	got, ok := tr.Find(5)
	assert.True(t, ok)
	assert.Equal(t, []int{0, 1}, got)

	got, ok = tr.Find(9)
	assert.True(t, ok)
	assert.Equal(t, []int{2}, got)

	assert.Equal(t, 2, tr.Len())
}

func TestFindAbsent(t *testing.T) {
	tr := New(12 * 4 * 4)
	tr.Insert(3, 0)
	_, ok := tr.Find(100)
	assert.False(t, ok)
}

func TestInsertOrderPreserved(t *testing.T) {
	tr := New(12 * 4 * 4)
	for i := 0; i < 10; i++ {
		tr.Insert(7, i)
	}
	got, ok := tr.Find(7)
	assert.True(t, ok)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}
