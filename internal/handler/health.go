package handler

import (
	"net/http"
	"strings"

	"github.com/inkpost/inkpost/internal/repository"
)

type HealthHandler struct {
	repo repository.PostRepository
}

func NewHealthHandler(repo repository.PostRepository) *HealthHandler {
	return &HealthHandler{repo: repo}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.repo.Count()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"posts":  count,
	})
}

// Fallback terminates requests no route claimed. A path that is served
// under a different method gets a 405 with an Allow header; everything
// else gets a 404. Both are JSON like the rest of the API.
func (h *HealthHandler) Fallback(mux *http.ServeMux) http.HandlerFunc {
	probeMethods := []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		// The pattern that routed us here is the catch-all; any probe
		// resolving to a different pattern means the path is real.
		_, fallbackPattern := mux.Handler(r)

		var allow []string
		for _, method := range probeMethods {
			if method == r.Method {
				continue
			}
			probe := r.Clone(r.Context())
			probe.Method = method
			_, pattern := mux.Handler(probe)
			if pattern != "" && pattern != fallbackPattern {
				allow = append(allow, method)
			}
		}

		if len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		writeError(w, http.StatusNotFound, "not found")
	}
}
