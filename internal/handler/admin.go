package handler

import (
	"errors"
	"net/http"

	"github.com/inkpost/inkpost/internal/service"
)

type AdminHandler struct {
	ingestService *service.IngestService
}

func NewAdminHandler(ingestService *service.IngestService) *AdminHandler {
	return &AdminHandler{
		ingestService: ingestService,
	}
}

// Reindex rebuilds the post index from the content directory. Validation
// problems come back as 422 with one entry per violation.
func (h *AdminHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	n, err := h.ingestService.Reindex()

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		problems := make([]string, len(verr.Violations))
		for i, v := range verr.Violations {
			problems[i] = v.String()
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":    "content validation failed",
			"problems": problems,
		})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reindex failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"indexed": n,
	})
}
