package main

import (
	"fmt"
	"io"
	"time"

	"github.com/noriah/hum/processor"
	"github.com/noriah/hum/util"
)

// StatsWindow is how many frames the running mean covers, one second at the
// default frame rate.
const StatsWindow = processor.DefaultFrameRate

// Writer prints one loudness per frame.
type Writer struct {
	out     io.Writer
	value   float64
	elapsed time.Duration
	window  *util.MovingWindow
	stats   bool
}

var _ processor.Output = &Writer{}

func NewWriter(out io.Writer, stats bool) *Writer {
	return &Writer{
		out:    out,
		window: util.NewMovingWindow(StatsWindow),
		stats:  stats,
	}
}

func (w *Writer) SetIntensity(v float64) {
	w.value = v
}

// Tick prints the last value, and with stats on, the frame time and the
// running mean and deviation.
func (w *Writer) Tick(dt time.Duration) {
	w.elapsed += dt

	if !w.stats {
		fmt.Fprintf(w.out, "%6.3f\n", w.value)
		return
	}

	mean, sd := w.window.Update(w.value)
	fmt.Fprintf(w.out, "%9.3f %6.3f %6.3f %6.3f\n", w.elapsed.Seconds(), w.value, mean, sd)
}
