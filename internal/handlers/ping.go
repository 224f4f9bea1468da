// internal/handlers/ping.go
package handlers

import (
	"encoding/json"
	"net/http"
)

// HealthHandler answers the root path so load balancers can probe the
// service. Any other path under "/" is a 404.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "match-engine",
	})
}
