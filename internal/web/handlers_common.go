package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/netinventory/internal/core"
)

// parseIntParam parses a positive integer query parameter. Missing,
// non-numeric and non-positive values yield defaultVal.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parseRegionParam returns nil for an absent region and an error for one
// outside the fixed set.
func parseRegionParam(r *http.Request) (*core.Region, error) {
	raw := r.URL.Query().Get("region")
	if raw == "" {
		return nil, nil
	}
	region, err := core.ParseRegion(raw)
	if err != nil {
		return nil, err
	}
	return &region, nil
}
