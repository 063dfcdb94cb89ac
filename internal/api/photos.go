package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/blooddonors/internal/app"
	"github.com/erazemk/blooddonors/internal/imaging"
)

// PhotosHandler accepts donor photo uploads.
type PhotosHandler struct {
	App *app.Services
}

// Upload handles POST /api/admin/photos (multipart field "photo").
func (h *PhotosHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required (max 5 MB)")
		return
	}
	defer file.Close()

	url, err := h.App.Photos.Upload(r.Context(), file)
	switch {
	case errors.Is(err, imaging.ErrUnsupported), errors.Is(err, imaging.ErrTooLarge):
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		storeError(w, "failed to upload photo", err)
		return
	}

	h.App.Metrics.PhotosUploaded.Inc()
	slog.Info("photo uploaded", "user", actor(r.Context()), "url", url)
	jsonResponse(w, http.StatusCreated, map[string]string{"url": url})
}
