package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/netinventory/internal/core"
	"github.com/JonMunkholm/netinventory/internal/logging"
)

// handleExport downloads every record of an optional region as xlsx
// (format=excel, the default) or CSV (format=csv).
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	region, err := parseRegionParam(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	format := core.ParseExportFormat(r.URL.Query().Get("format"))

	file, err := s.inv.Export(r.Context(), region, format)
	if err != nil {
		respondFailure(w, r, err, http.StatusInternalServerError, "Export failed")
		return
	}

	logging.FromContext(r.Context()).Info("export served",
		"format", format,
		"rows", file.Rows,
		"bytes", len(file.Body),
	)

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Body)
}
