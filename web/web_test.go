package web

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/noriah/hum/contact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPages(t *testing.T) {
	r := NewRouter(Config{})

	rec := get(r, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Kontaktiere Uns")
	assert.Contains(t, rec.Body.String(), "Absenden")

	rec = get(r, ThanksPath)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Danke schön!")
	assert.Contains(t, rec.Body.String(), "Ihre Nachricht wurde erfolgreich übermittelt.")

	rec = get(r, "/static/style.css")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusNotFound, get(r, DemoPath).Code)
}

func TestDemoAsset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3"), 0o600))

	r := NewRouter(Config{Asset: path})

	rec := get(r, DemoPath)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ID3", rec.Body.String())
}

func TestSubmitMounted(t *testing.T) {
	r := NewRouter(Config{
		Contact: contact.NewHandler(contact.HandlerConfig{}),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, contact.SubmitPath,
		strings.NewReader(`{"name":"Anna","number":"0123456789"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestRecovery(t *testing.T) {
	r := NewRouter(Config{})
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	assert.Equal(t, http.StatusInternalServerError, get(r, "/boom").Code)
}

func TestServeShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, addr, NewRouter(Config{}), zap.NewNop())
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + ThanksPath)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
