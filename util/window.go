package util

import "math"

// MovingWindow keeps running statistics over the last Cap() values.
//
// values is used as a ring. head is the slot the next value is written to,
// so once the window is full head also points at the oldest value.
type MovingWindow struct {
	values []float64
	head   int
	length int

	sum   float64
	sumSq float64
}

// NewMovingWindow returns a new moving window.
func NewMovingWindow(size int) *MovingWindow {
	if size < 1 {
		size = 1
	}

	return &MovingWindow{
		values: make([]float64, size),
	}
}

// Update adds value to the window, pushing out the oldest value if full.
func (mw *MovingWindow) Update(value float64) (float64, float64) {
	if mw.length == len(mw.values) {
		old := mw.values[mw.head]
		mw.sum -= old
		mw.sumSq -= old * old
	} else {
		mw.length++
	}

	mw.values[mw.head] = value
	mw.head = (mw.head + 1) % len(mw.values)

	mw.sum += value
	mw.sumSq += value * value

	return mw.Stats()
}

// Drop removes up to count of the oldest values from the window.
func (mw *MovingWindow) Drop(count int) (float64, float64) {
	for ; count > 0 && mw.length > 0; count-- {
		tail := (mw.head - mw.length + len(mw.values)) % len(mw.values)
		old := mw.values[tail]

		mw.sum -= old
		mw.sumSq -= old * old
		mw.length--
	}

	// clear so we dont carry a rounding error into the next run
	if mw.length == 0 {
		mw.sum = 0
		mw.sumSq = 0
	}

	return mw.Stats()
}

// Len returns how many items in the window
func (mw *MovingWindow) Len() int {
	return mw.length
}

// Cap returns max size of window
func (mw *MovingWindow) Cap() int {
	return len(mw.values)
}

// Mean is the moving window average
func (mw *MovingWindow) Mean() float64 {
	if mw.length == 0 {
		return 0
	}
	return mw.sum / float64(mw.length)
}

// StdDev is the sample standard deviation of the window
func (mw *MovingWindow) StdDev() float64 {
	if mw.length < 2 {
		return 0
	}

	n := float64(mw.length)
	variance := (mw.sumSq - (mw.sum*mw.sum)/n) / (n - 1)

	return math.Sqrt(math.Abs(variance))
}

// Stats returns the mean and standard deviation of this window
func (mw *MovingWindow) Stats() (float64, float64) {
	return mw.Mean(), mw.StdDev()
}
