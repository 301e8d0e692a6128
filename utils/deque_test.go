package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeque_PushFrontKeepsOrder(t *testing.T) {
	d := NewDeque[string]("c", "d")
	d.PushFront("a", "b")
	assert.Equal(t, []string{"a", "b", "c", "d"}, d.Values())

	d.PushBack("e")
	assert.Equal(t, 5, d.Len())

	for _, want := range []string{"a", "b", "c", "d", "e"} {
		got, ok := d.PopFront()
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := d.PopFront()
	assert.False(t, ok)
	assert.Equal(t, 0, d.Len())
}

func TestDeque_PushFrontOneByOneReverses(t *testing.T) {
	d := NewDeque[int]()
	for i := 0; i < 4; i++ {
		d.PushFront(i)
	}
	assert.Equal(t, []int{3, 2, 1, 0}, d.Values())
}

func TestDeque_Clear(t *testing.T) {
	d := NewDeque[int](1, 2, 3)
	d.Clear()
	assert.Equal(t, 0, d.Len())
	assert.Empty(t, d.Values())
	d.PushBack(7)
	v, ok := d.PopFront()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}
