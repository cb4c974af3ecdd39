package web

import (
	"net/http"
	"time"
)

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports database reachability, import slot usage and, when a
// dependency monitor runs, its last results.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status, message := s.ready.CheckReady(r.Context())

	body := map[string]any{
		"status":  status,
		"message": message,
		"uploads": s.inv.UploadLimiterStatus(),
	}
	if s.deps != nil {
		body["dependencies"] = s.deps.Health()
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, body)
}

// handleDBTest is the unauthenticated connectivity probe.
func (s *Server) handleDBTest(w http.ResponseWriter, r *http.Request) {
	probe, err := s.inv.ProbeDatabase(r.Context())
	if err != nil {
		respondFailure(w, r, err, http.StatusInternalServerError, "Database connection failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Database connection successful",
		"timestamp":   time.Now().UTC(),
		"currentTime": probe.CurrentTime,
		"tableStats":  probe.TableStats,
		"regions":     probe.Regions,
	})
}
