package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/imjustablacknerd/docusaurus/logfields"
	"github.com/imjustablacknerd/docusaurus/ssg"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
)

// NewSSRHandler renders every GET request on demand with renderer. The
// request path is matched against params.RoutesLocation, so it includes the
// site baseUrl.
func NewSSRHandler(renderer ssg.Renderer, params *ssg.Params, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &ssrHandler{
		renderer: renderer,
		params:   params,
		logger:   logger,
	}

	router := httprouter.New()
	router.GET("/*pathname", h.render)
	return router
}

type ssrHandler struct {
	renderer ssg.Renderer
	params   *ssg.Params
	logger   *slog.Logger
}

func (h *ssrHandler) render(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	start := time.Now()
	requestPath := ps.ByName("pathname")

	route, ok := h.resolve(requestPath)
	if !ok {
		http.NotFound(w, r)
		return
	}

	html, err := h.renderer(r.Context(), route, h.params)
	if err != nil {
		if errors.Is(err, ErrRouteNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("Render failed",
			logfields.URL(requestPath),
			logfields.Pathname(route),
			logfields.Error(err))
		http.Error(w, "Error rendering page: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(html)); err != nil {
		h.logger.Warn("Writing response failed", logfields.URL(requestPath), logfields.Error(err))
		return
	}
	h.logger.Debug("Rendered",
		logfields.URL(requestPath),
		logfields.Pathname(route),
		logfields.Since(start))
}

// resolve maps a request path to the route it serves, tolerating a missing
// or extra trailing slash.
func (h *ssrHandler) resolve(requestPath string) (string, bool) {
	key := requestPath
	if base := strings.TrimSuffix(h.params.BaseURL, "/"); base != "" {
		rest, ok := strings.CutPrefix(requestPath, base)
		if !ok {
			return "", false
		}
		key = "/" + strings.TrimPrefix(rest, "/")
	}

	for _, k := range []string{key, strings.TrimSuffix(key, "/"), key + "/"} {
		if route, ok := h.params.RoutesLocation[k]; ok {
			return route, true
		}
	}
	return "", false
}
