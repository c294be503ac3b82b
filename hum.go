// Package hum plays a voice demo and turns it into a pulsing sphere.
package hum

import (
	"context"
	"sync"

	"github.com/noriah/hum/dsp"
	"github.com/noriah/hum/playback"
	"github.com/noriah/hum/processor"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Run plays cfg.Clip and drives cfg.Output with its loudness until ctx is
// done or the output goes away. It blocks, and runs the frame loop on the
// calling goroutine.
func Run(cfg *Config, ctx context.Context) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	player := playback.New(playback.Config{
		Clip:    cfg.Clip,
		Sink:    cfg.Sink,
		Latency: cfg.Latency,
	})
	defer player.Stop()

	analyzer, err := dsp.NewAnalyzer(cfg.Analyzer, player)
	if err != nil {
		return err
	}

	if cfg.SetupFunc != nil {
		if err := cfg.SetupFunc(player); err != nil {
			return errors.Wrap(err, "failed to set up")
		}
	}

	if cfg.CleanupFunc != nil {
		defer func() {
			if err := cfg.CleanupFunc(); err != nil {
				log.Error("cleanup failed", zap.Error(err))
			}
		}()
	}

	if cfg.StartFunc != nil {
		if ctx, err = cfg.StartFunc(ctx); err != nil {
			return errors.Wrap(err, "failed to start")
		}
	}

	driver := processor.New(processor.Config{
		Source:   player,
		Analyzer: analyzer,
		Output:   cfg.Output,
		Logger:   log,
	})

	ctx = driver.Start(ctx)

	var wg sync.WaitGroup
	defer func() {
		driver.Stop()
		wg.Wait()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		watchEvents(ctx, player, analyzer, log)
	}()

	if cfg.Autoplay {
		// a failed start only leaves the sphere resting at the floor
		if err := player.Play(); err != nil {
			log.Error("failed to start playback", zap.Error(err))
		}
	}

	sched := cfg.Scheduler
	if sched == nil {
		ticker := processor.NewTicker(cfg.FrameRate)
		defer ticker.Stop()
		sched = ticker
	}

	if err := driver.Run(ctx, sched); err != nil {
		return err
	}

	return nil
}

// watchEvents logs transport changes and clears the analysis history when a
// run ends, so the next run starts from silence.
func watchEvents(ctx context.Context, p *playback.Player, an *dsp.Analyzer, log *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-p.Events():
			log.Debug("playback", zap.Stringer("event", ev.Kind), zap.Duration("position", p.Position()))

			if ev.Kind == playback.EventEnded {
				an.Reset()
			}
		}
	}
}
