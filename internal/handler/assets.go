package handler

import (
	"errors"
	"net/http"

	"github.com/inkpost/inkpost/internal/service"
)

type AssetHandler struct {
	assetService *service.AssetService
}

func NewAssetHandler(assetService *service.AssetService) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
	}
}

// Serve redirects to a presigned URL for the asset. 404 when storage is not
// configured; a repo with no images runs without S3.
func (h *AssetHandler) Serve(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")

	url, err := h.assetService.URL(path)
	if errors.Is(err, service.ErrNoStorage) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset path")
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}
