package processor

import (
	"context"
	"time"
)

// DefaultFrameRate is the refresh rate used when no display sets one.
const DefaultFrameRate = 60

// Ticker is a Scheduler for outputs without a vsync of their own.
type Ticker struct {
	ticker *time.Ticker
}

func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = DefaultFrameRate
	}

	return &Ticker{
		ticker: time.NewTicker(time.Second / time.Duration(fps)),
	}
}

func (t *Ticker) Wait(ctx context.Context) (time.Time, error) {
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case now := <-t.ticker.C:
		return now, nil
	}
}

func (t *Ticker) Stop() {
	t.ticker.Stop()
}
