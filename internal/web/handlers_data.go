package web

import (
	"net/http"

	"github.com/JonMunkholm/netinventory/internal/core"
)

// handleListData serves one filtered page of records.
//
// Query parameters: page (default 1), limit (default QUERY_DEFAULT_PAGE_SIZE,
// capped at QUERY_MAX_PAGE_SIZE), region (exact), search (substring).
func (s *Server) handleListData(w http.ResponseWriter, r *http.Request) {
	region, err := parseRegionParam(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	page := core.PageRequest{
		Page:  parseIntParam(r, "page", core.DefaultPage),
		Limit: parseIntParam(r, "limit", s.defaultPageSize()),
	}
	if maxSize := s.cfg.Query.MaxPageSize; maxSize > 0 && page.Limit > maxSize {
		page.Limit = maxSize
	}

	filter := core.RecordFilter{Region: region, Search: r.URL.Query().Get("search")}
	result, err := s.inv.ListRecords(r.Context(), filter, page)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) defaultPageSize() int {
	if n := s.cfg.Query.DefaultPageSize; n > 0 {
		return n
	}
	return core.DefaultLimit
}

// handleListSessions lists import sessions newest first with record counts.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	region, err := parseRegionParam(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	filter := core.SessionFilter{Region: region, Limit: parseIntParam(r, "limit", 0)}
	sessions, err := s.inv.ListSessions(r.Context(), filter)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if sessions == nil {
		sessions = []core.ImportSession{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}
