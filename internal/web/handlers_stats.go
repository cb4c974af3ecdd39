package web

import "net/http"

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.inv.Statistics(r.Context())
	if err != nil {
		respondFailure(w, r, err, http.StatusInternalServerError, "Failed to fetch statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCapacityStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.inv.CapacityStatistics(r.Context())
	if err != nil {
		respondFailure(w, r, err, http.StatusInternalServerError, "Failed to fetch capacity statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
