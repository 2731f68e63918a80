package httputil

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert"
	"github.com/andybalholm/brotli"
)

func TestJoinURL(t *testing.T) {
	tests := []string{
		"foo", "bar", "foo/bar",
		"foo", "/bar", "foo/bar",
		"foo/", "bar", "foo/bar",
		"foo/", "/bar", "foo/bar",
	}
	n := len(tests)
	for i := 0; i < n; i += 3 {
		got := JoinURL(tests[i], tests[i+1])
		exp := tests[i+2]
		assert.Equal(t, exp, got)
	}
}

func TestCapturingResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := NewCapturingResponseWriter(rec)
	cw.WriteHeader(http.StatusTeapot)
	cw.Write([]byte("hello"))
	assert.Equal(t, http.StatusTeapot, cw.StatusCode)
	assert.Equal(t, int64(5), cw.Size)
}

func setupStaticDir(t *testing.T) string {
	dir := t.TempDir()
	html := bytes.Repeat([]byte("<p>Dear Santa</p>\n"), 50)
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), html, 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "letters.csv"), []byte("secret"), 0644))
	return dir
}

func TestTryServeFile(t *testing.T) {
	dir := setupStaticDir(t)
	opts := &FileServeOpts{
		Dir:     dir,
		Exclude: []string{filepath.Join(dir, "letters.csv")},
	}

	serve := func(uri string) (*httptest.ResponseRecorder, bool) {
		r := httptest.NewRequest("GET", uri, nil)
		w := httptest.NewRecorder()
		ok := TryServeFile(w, r, opts)
		return w, ok
	}

	w, ok := serve("/")
	assert.True(t, ok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dear Santa")

	_, ok = serve("/letters.csv")
	assert.False(t, ok)
	_, ok = serve("/../letters.csv")
	assert.False(t, ok)
	_, ok = serve("/nope.html")
	assert.False(t, ok)
}

func TestTryServeFileBrotli(t *testing.T) {
	dir := setupStaticDir(t)
	opts := &FileServeOpts{Dir: dir, ServeCompressed: true}
	r := httptest.NewRequest("GET", "/index.html", nil)
	r.Header.Set("Accept-Encoding", "gzip, br")
	w := httptest.NewRecorder()
	assert.True(t, TryServeFile(w, r, opts))
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	d, err := io.ReadAll(brotli.NewReader(w.Body))
	assert.NoError(t, err)
	orig, _ := os.ReadFile(filepath.Join(dir, "index.html"))
	assert.Equal(t, orig, d)
	_, err = os.Stat(filepath.Join(dir, "index.html.br"))
	assert.NoError(t, err)
}

func TestRunServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	srv := NewServer("", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeJSON(w, map[string]string{"status": "ok"})
	}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunServer(ctx, srv, ln, time.Second)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	assert.NoError(t, err)
	d, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, `{"status":"ok"}`, string(d))
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))

	cancel()
	assert.NoError(t, <-done)
}
