// Package inbox is the HTTP front of the letters store.
//
//	POST /save-letter   save a letter, reply with a canned answer
//	GET  /admin         html table of all letters
//	GET  /api/letters   all letters as json
//
// Other GET requests are served from StaticDir.
package inbox

import (
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/kjk/letterbox/httputil"
	"github.com/kjk/letterbox/letterstore"
	"github.com/kjk/letterbox/log"
	"github.com/kjk/letterbox/reply"
)

// max size of POST /save-letter body
const maxLetterBodySize = 1 << 20

var (
	//go:embed admin.html
	adminHTML string

	adminTmpl = template.Must(template.New("admin").Funcs(template.FuncMap{
		"nl2br": nl2br,
	}).Parse(adminHTML))
)

// escapes s and shows newlines as <br>
func nl2br(s string) template.HTML {
	s = template.HTMLEscapeString(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(s, "\n", "<br>"))
}

type Server struct {
	Store *letterstore.Store
	// reply.Default() if nil
	Reply reply.Chooser
	// if empty, no static files are served
	StaticDir       string
	ServeCompressed bool

	chooser reply.Chooser
}

// Letter is the body of POST /save-letter
type Letter struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Email   string `json:"email"`
	Letter  string `json:"letter"`
}

func (l *Letter) isComplete() bool {
	for _, s := range []string{l.Name, l.Country, l.Email, l.Letter} {
		if strings.TrimSpace(s) == "" {
			return false
		}
	}
	return true
}

// SaveResponse is the body of a response to POST /save-letter
type SaveResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Reply   string `json:"reply,omitempty"`
}

func serveError(w http.ResponseWriter, msg string, code int) {
	httputil.ServeJSONStatus(w, &SaveResponse{Status: "error", Message: msg}, code)
}

func readLetter(r *http.Request) (*Letter, error) {
	var l Letter
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data" {
		l.Name = r.FormValue("name")
		l.Country = r.FormValue("country")
		l.Email = r.FormValue("email")
		l.Letter = r.FormValue("letter")
		return &l, nil
	}
	err := json.NewDecoder(r.Body).Decode(&l)
	return &l, err
}

// POST /save-letter
func (s *Server) handleSaveLetter(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLetterBodySize)
	l, err := readLetter(r)
	if err != nil {
		log.Logf("handleSaveLetter: invalid body: %s\n", err)
		serveError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !l.isComplete() {
		log.Logf("handleSaveLetter: missing fields\n")
		serveError(w, "Missing fields", http.StatusBadRequest)
		return
	}

	rec, err := s.Store.AppendLetter(l.Name, l.Country, l.Email, l.Letter)
	if err != nil {
		log.Errorf("handleSaveLetter: s.Store.AppendLetter() failed with '%s'", err)
		serveError(w, "Could not save letter", http.StatusInternalServerError)
		return
	}
	log.Logf("letter from '%s' saved to '%s'\n", rec.Name, s.Store.Path())
	log.EventFromRequest(r, "letter-saved", "name", rec.Name, "country", rec.Country, "date", rec.Date, "size", len(rec.Letter))

	res := &SaveResponse{
		Status: "ok",
		Reply:  s.chooser(rec.Letter, rec.Name, rec.Country),
	}
	httputil.ServeJSON(w, res)
}

// returns number of damaged records, -1 if letters couldn't be read at all
func (s *Server) readLetters() ([]letterstore.Record, int) {
	records, err := s.Store.ReadAll()
	log.Verbosef("read %d letters from '%s'\n", len(records), s.Store.Path())
	if err == nil {
		return records, 0
	}
	var decodeErr *letterstore.DecodeError
	if !errors.As(err, &decodeErr) {
		log.Errorf("s.Store.ReadAll() failed with '%s'", err)
		return nil, -1
	}
	for _, problem := range decodeErr.Problems {
		log.Errorf("'%s': %s", decodeErr.Path, problem)
	}
	return records, len(decodeErr.Problems)
}

// GET /admin
func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	records, nProblems := s.readLetters()
	if nProblems < 0 {
		http.Error(w, "Could not read letters", http.StatusInternalServerError)
		return
	}
	v := struct {
		Letters  []letterstore.Record
		Problems int
	}{
		Letters:  records,
		Problems: nProblems,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := adminTmpl.Execute(w, v)
	log.IfErrf(err, "adminTmpl.Execute() failed with '%s'", err)
}

// GET /api/letters
func (s *Server) handleAPILetters(w http.ResponseWriter, r *http.Request) {
	records, nProblems := s.readLetters()
	if nProblems < 0 {
		serveError(w, "Could not read letters", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []letterstore.Record{}
	}
	httputil.ServeJSON(w, records)
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.StaticDir != "" {
		opts := &httputil.FileServeOpts{
			Dir:             s.StaticDir,
			ServeCompressed: s.ServeCompressed,
			Exclude:         []string{s.Store.Path()},
		}
		if httputil.TryServeFile(w, r, opts) {
			return
		}
	}
	http.NotFound(w, r)
}

// allows the letter form to be hosted elsewhere
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", "GET,HEAD,PUT,PATCH,POST,DELETE")
			if reqHdrs := r.Header.Get("Access-Control-Request-Headers"); reqHdrs != "" {
				h.Set("Access-Control-Allow-Headers", reqHdrs)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Logf("-> %s %s\n", r.Method, r.URL)
		start := time.Now()
		cw := httputil.NewCapturingResponseWriter(w)
		next.ServeHTTP(cw, r)
		err := log.HTTPRequest(r, cw.StatusCode, cw.Size, time.Since(start))
		log.IfErrf(err)
	})
}

// Handler returns http.Handler for all routes
func (s *Server) Handler() http.Handler {
	s.chooser = s.Reply
	if s.chooser == nil {
		s.chooser = reply.Default()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /save-letter", s.handleSaveLetter)
	mux.HandleFunc("/save-letter", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})
	mux.HandleFunc("GET /admin", s.handleAdmin)
	mux.HandleFunc("GET /api/letters", s.handleAPILetters)
	mux.HandleFunc("/", s.handleStatic)
	return withLogging(withCORS(mux))
}
