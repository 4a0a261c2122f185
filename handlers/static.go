package handlers

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"
)

// NewStaticRouter serves a built site from outDir. A request for /docs/intro
// is answered by docs/intro, docs/intro.html or docs/intro/index.html,
// whichever exists first. Pages generated without the baseURL prefix are
// found by retrying with baseURL removed from the request path.
func NewStaticRouter(fs afero.Fs, outDir, baseURL string) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = NotFoundHandler(fs, outDir)

	site := &staticSite{
		fs:       fs,
		outDir:   outDir,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		notFound: router.NotFoundHandler,
	}
	router.PathPrefix("/").
		Methods(http.MethodGet, http.MethodHead).
		Handler(site)

	return router
}

type staticSite struct {
	fs       afero.Fs
	outDir   string
	baseURL  string
	notFound http.Handler
}

func (s *staticSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, candidate := range s.candidates(r.URL.Path) {
		name := filepath.Join(s.outDir, filepath.FromSlash(candidate))
		info, err := s.fs.Stat(name)
		if err != nil || info.IsDir() {
			continue
		}

		f, err := s.fs.Open(name)
		if err != nil {
			continue
		}
		defer f.Close()

		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
		return
	}

	s.notFound.ServeHTTP(w, r)
}

func (s *staticSite) candidates(urlPath string) []string {
	out := fileCandidates(urlPath)
	if s.baseURL == "" {
		return out
	}
	if rest, ok := strings.CutPrefix(urlPath, s.baseURL); ok && (rest == "" || strings.HasPrefix(rest, "/")) {
		out = append(out, fileCandidates("/"+strings.TrimPrefix(rest, "/"))...)
	}
	return out
}

func fileCandidates(urlPath string) []string {
	cleaned := path.Clean("/" + urlPath)
	if cleaned == "/" || strings.HasSuffix(urlPath, "/") {
		return []string{path.Join(cleaned, "index.html")}
	}
	return []string{cleaned, cleaned + ".html", path.Join(cleaned, "index.html")}
}
