// Package web serves the landing page, the thank you page, the demo clip
// and the contact endpoint.
package web

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/noriah/hum/contact"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultAddr = ":3000"

	// DemoPath serves the demo clip.
	DemoPath = "/demo"
	// ThanksPath is where the landing page sends the visitor after a post.
	ThanksPath = "/danke-schoen"

	shutdownTimeout = 5 * time.Second
)

//go:embed static
var staticFS embed.FS

type Config struct {
	Contact *contact.Handler // submit endpoint, not mounted if nil
	Asset   string           // demo clip file, not served if empty
	Logger  *zap.Logger      // request log
}

// NewRouter builds the site.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(requestLogger(cfg.Logger), recovery(cfg.Logger))

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		// the embedded tree is fixed at build time
		panic(err)
	}

	r.StaticFS("/static", http.FS(static))
	r.GET("/", page("index.html"))
	r.GET(ThanksPath, page("danke-schoen.html"))

	if cfg.Asset != "" {
		r.GET(DemoPath, func(c *gin.Context) {
			c.File(cfg.Asset)
		})
	}

	if cfg.Contact != nil {
		cfg.Contact.Register(r)
	}

	return r
}

func page(name string) gin.HandlerFunc {
	data, err := staticFS.ReadFile("static/" + name)
	if err != nil {
		panic(err)
	}

	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	}
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server failed")

	case <-ctx.Done():
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutCtx); err != nil {
		return errors.Wrap(err, "failed to shut down server")
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server failed")
	}

	return nil
}
