package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/spf13/afero"
)

// NotFoundHandler answers with outDir/404.html when the build produced one.
func NotFoundHandler(fs afero.Fs, outDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		notFoundPage, err := afero.ReadFile(fs, filepath.Join(outDir, "404.html"))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		if r.Method != http.MethodHead {
			_, _ = w.Write(notFoundPage)
		}
	})
}
