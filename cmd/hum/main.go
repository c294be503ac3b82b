package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/noriah/hum"
	"github.com/noriah/hum/asset"
	"github.com/noriah/hum/contact"
	"github.com/noriah/hum/graphic"
	"github.com/noriah/hum/graphic/glwindow"
	"github.com/noriah/hum/playback"
	"github.com/noriah/hum/web"

	_ "github.com/noriah/hum/asset/all"

	"github.com/gin-gonic/gin"
	"github.com/integrii/flaggy"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppName is the app name
const AppName = "hum"

// AppDesc is the app description
const AppDesc = "a sphere that breathes with the music, and the page around it"

// AppSite is the app website
const AppSite = "https://github.com/noriah/hum"

var version = "unknown"

func init() {
	// glfw and gl calls must come from the main thread
	runtime.LockOSThread()
}

func main() {
	log.SetFlags(0)

	cfg := newZeroConfig()

	playCmd := flaggy.NewSubcommand("play")
	playCmd.Description = "play the demo clip and draw its loudness"
	playCmd.String(&cfg.asset, "a", "asset", "audio file to play")
	playCmd.String(&cfg.output, "o", "output", "where to draw (term, gl, raw)")
	playCmd.Int(&cfg.frameRate, "f", "fps", "frame rate for term and raw")
	playCmd.Int(&cfg.fftSize, "n", "fft", "fft size, a power of two")
	playCmd.Float64(&cfg.smoothing, "s", "smoothing", "smoothing time constant [0, 1]")
	playCmd.String(&cfg.windowName, "wf", "window", "window function (blackman, hann, hamming, bartlett, none)")
	playCmd.Int(&cfg.width, "wd", "width", "gl window width")
	playCmd.Int(&cfg.height, "ht", "height", "gl window height")
	playCmd.Bool(&cfg.noBloom, "nb", "no-bloom", "skip the gl bloom pass")
	playCmd.Bool(&cfg.noAutoplay, "np", "no-autoplay", "wait for space before playing")
	playCmd.Bool(&cfg.stats, "st", "stats", "print time, mean and deviation with raw output")

	serveCmd := flaggy.NewSubcommand("serve")
	serveCmd.Description = "serve the landing page and the contact form"
	serveCmd.String(&cfg.listen, "l", "listen", "address to listen on")
	serveCmd.String(&cfg.asset, "a", "asset", "audio file served at "+web.DemoPath)
	serveCmd.String(&cfg.mailConfig, "c", "config", "yaml file with mail settings")

	listFormatsCmd := flaggy.NewSubcommand("list-formats")
	listFormatsCmd.ShortName = "lf"
	listFormatsCmd.Description = "list all supported audio formats"

	parser := flaggy.NewParser(AppName)
	parser.Description = AppDesc
	parser.AdditionalHelpPrepend = AppSite
	parser.Version = version

	parser.Bool(&cfg.verbose, "v", "verbose", "log debug messages")
	parser.String(&cfg.logFile, "lo", "log", "write logs to this file")

	parser.AttachSubcommand(playCmd, 1)
	parser.AttachSubcommand(serveCmd, 1)
	parser.AttachSubcommand(listFormatsCmd, 1)

	chk(parser.Parse(), "failed to parse arguments")

	// Root Context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	switch {
	case playCmd.Used:
		chk(cfg.validatePlay(), "invalid config")
		chk(play(ctx, &cfg), "failed to run hum")

	case serveCmd.Used:
		chk(cfg.validateServe(), "invalid config")
		chk(serve(ctx, &cfg), "failed to serve")

	case listFormatsCmd.Used:
		for _, d := range asset.Decoders {
			fmt.Printf("- %s (%s)\n", d.Name, strings.Join(d.Exts, ", "))
		}

	default:
		parser.ShowHelp()
	}
}

func play(ctx context.Context, cfg *config) error {
	// logs would draw over the terminal output
	quiet := cfg.output == OutputTerm && cfg.logFile == ""

	logger, err := newLogger(cfg, quiet)
	if err != nil {
		return err
	}
	defer logger.Sync()

	clip, err := asset.Load(cfg.asset)
	if err != nil {
		return err
	}

	logger.Info("clip loaded",
		zap.String("asset", cfg.asset),
		zap.Int("sample_rate", clip.SampleRate),
		zap.Duration("duration", clip.Duration()))

	// set once the player exists, before any key can be pressed
	var player *playback.Player

	toggle := func() error {
		if player == nil {
			return nil
		}
		return player.Toggle()
	}

	humCfg := hum.NewZeroConfig()
	humCfg.Clip = clip
	humCfg.Analyzer = cfg.analyzerConfig()
	humCfg.FrameRate = cfg.frameRate
	humCfg.Autoplay = !cfg.noAutoplay
	humCfg.Logger = logger
	humCfg.SetupFunc = func(p *playback.Player) error {
		player = p
		return nil
	}

	switch cfg.output {
	case OutputTerm:
		display := graphic.NewDisplay(graphic.DisplayConfig{
			Toggle: toggle,
			Logger: logger,
		})

		humCfg.SetupFunc = func(p *playback.Player) error {
			player = p
			return display.Init()
		}
		humCfg.StartFunc = func(ctx context.Context) (context.Context, error) {
			return display.Start(ctx), nil
		}
		humCfg.CleanupFunc = func() error {
			display.Stop()
			return display.Close()
		}
		humCfg.Output = display

	case OutputGL:
		win, err := glwindow.New(glwindow.Config{
			Width:  cfg.width,
			Height: cfg.height,
			Bloom:  !cfg.noBloom,
			Toggle: toggle,
			Logger: logger,
		})
		if err != nil {
			return err
		}

		humCfg.CleanupFunc = win.Close
		humCfg.Output = win
		humCfg.Scheduler = win

	case OutputRaw:
		humCfg.Output = NewWriter(os.Stdout, cfg.stats)
	}

	return hum.Run(&humCfg, ctx)
}

func serve(ctx context.Context, cfg *config) error {
	logger, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	mailCfg, err := contact.ConfigFromEnv()
	if err != nil {
		return err
	}

	if cfg.mailConfig != "" {
		if err := mailCfg.LoadFile(cfg.mailConfig); err != nil {
			return err
		}
	}

	if !cfg.verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	router := web.NewRouter(web.Config{
		Contact: contact.NewHandler(contact.HandlerConfig{
			Mail:   mailCfg,
			Logger: logger,
		}),
		Asset:  cfg.asset,
		Logger: logger,
	})

	return web.Serve(ctx, cfg.listen, router, logger)
}

// newLogger builds the production logger, or a no-op one when quiet and no
// log file is given.
func newLogger(cfg *config, quiet bool) (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}

	zc := zap.NewProductionConfig()

	if cfg.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	if cfg.logFile != "" {
		zc.OutputPaths = []string{cfg.logFile}
		zc.ErrorOutputPaths = []string{cfg.logFile}
	}

	return zc.Build()
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+": ", err)
	}
}
