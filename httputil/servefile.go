package httputil

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kjk/letterbox/u"
)

var (
	serveFileMu sync.Mutex
)

type FileServeOpts struct {
	Dir string
	// if true and client accepts br, serve <file>.br (creating it if needed)
	ServeCompressed bool
	// absolute paths of files that must never be served
	Exclude []string
}

func (opts *FileServeOpts) isExcluded(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return true
	}
	for _, ex := range opts.Exclude {
		if strings.EqualFold(abs, ex) {
			return true
		}
		// don't serve compressed variants either
		if strings.HasPrefix(strings.ToLower(abs), strings.ToLower(ex)+".") {
			return true
		}
	}
	return false
}

// FileForURL returns the file in opts.Dir for a given url path, "" if there's none
func FileForURL(uriPath string, opts *FileServeOpts) string {
	uriPath = path.Clean("/" + uriPath)
	if uriPath == "/" {
		uriPath = "/index.html"
	}
	name := filepath.FromSlash(strings.TrimPrefix(uriPath, "/"))
	p := filepath.Join(opts.Dir, name)
	if !u.FileExists(p) {
		return ""
	}
	if opts.isExcluded(p) {
		return ""
	}
	return p
}

// TryServeFile serves a file from opts.Dir matching r.URL.Path.
// Returns false if there's no such file.
func TryServeFile(w http.ResponseWriter, r *http.Request, opts *FileServeOpts) bool {
	path := FileForURL(r.URL.Path, opts)
	if path == "" {
		return false
	}
	if opts.ServeCompressed && canServeCompressed(path) {
		if serveFileMaybeBr(w, r, path) {
			return true
		}
	}
	w.Header().Set("Content-Type", u.MimeTypeFromFileName(path))
	http.ServeFile(w, r, path)
	return true
}

func canServeCompressed(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".html", ".txt", ".css", ".js", ".xml", ".svg", ".json":
		return true
	}
	return false
}

func serveFileMaybeBr(w http.ResponseWriter, r *http.Request, path string) bool {
	enc := r.Header.Get("Accept-Encoding")
	if !strings.Contains(enc, "br") {
		return false
	}
	pathBr := path + ".br"
	stOrig, err := os.Stat(path)
	if err != nil {
		return false
	}
	stBr, err := os.Stat(pathBr)
	// re-compress if original changed
	if err != nil || stBr.ModTime().Before(stOrig.ModTime()) {
		serveFileMu.Lock()
		err = compressBr(path, pathBr)
		serveFileMu.Unlock()
		if err != nil {
			return false
		}
	}
	f, err := os.Open(pathBr)
	if err != nil {
		return false
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return false
	}
	w.Header().Set("Content-Type", u.MimeTypeFromFileName(path))
	// prevent caching non-compressed version
	w.Header().Add("Vary", "Accept-Encoding")
	w.Header().Set("Content-Encoding", "br")
	http.ServeContent(w, r, path, st.ModTime(), f)
	return true
}

func compressBr(path string, pathBr string) error {
	d, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	d, err = u.BrCompressDataBest(d)
	if err != nil {
		return err
	}
	tmpPath := pathBr + ".tmp"
	if err = os.WriteFile(tmpPath, d, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	err = os.Rename(tmpPath, pathBr)
	if err != nil {
		os.Remove(tmpPath)
	}
	return err
}
