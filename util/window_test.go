package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovingWindow(t *testing.T) {
	mw := NewMovingWindow(3)

	mean, dev := mw.Update(2)
	assert.Equal(t, 2.0, mean)
	assert.Equal(t, 0.0, dev)

	mw.Update(4)
	mean, dev = mw.Update(6)
	assert.InDelta(t, 4.0, mean, 1e-12)
	assert.InDelta(t, 2.0, dev, 1e-12)
	assert.Equal(t, 3, mw.Len())
	assert.Equal(t, 3, mw.Cap())

	// 2 falls out
	mean, _ = mw.Update(8)
	assert.InDelta(t, 6.0, mean, 1e-12)
	assert.Equal(t, 3, mw.Len())
}

func TestMovingWindowDrop(t *testing.T) {
	mw := NewMovingWindow(4)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		mw.Update(v)
	}

	// window holds 2 3 4 5, dropping the two oldest leaves 4 5
	mean, _ := mw.Drop(2)
	assert.InDelta(t, 4.5, mean, 1e-12)
	assert.Equal(t, 2, mw.Len())

	mean, dev := mw.Drop(10)
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 0.0, dev)
	assert.Equal(t, 0, mw.Len())
}
