package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/blooddonors/internal/app"
	"github.com/erazemk/blooddonors/internal/export"
)

// ExportHandler serves the donor spreadsheet.
type ExportHandler struct {
	App *app.Services
}

// Donors handles GET /api/admin/donors/export.
func (h *ExportHandler) Donors(w http.ResponseWriter, r *http.Request) {
	WriteDonorWorkbook(w, r, h.App)
}

// WriteDonorWorkbook streams every donor as an .xlsx attachment.
func WriteDonorWorkbook(w http.ResponseWriter, r *http.Request, a *app.Services) {
	donors, err := a.Donors.ListDonors(r.Context())
	if err != nil {
		storeError(w, "failed to list donors", err)
		return
	}

	today := a.Today()
	var buf bytes.Buffer
	if err := export.Donors(&buf, donors, a.Policy, today); err != nil {
		slog.Error("failed to build export", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to build export")
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="donors-%s.xlsx"`, today.Format("2006-01-02")))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write export", "error", err)
	}
	slog.Info("donors exported", "user", actor(r.Context()), "count", len(donors))
}
