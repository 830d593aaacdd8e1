package endpoints

import (
	"net/http"

	"github.com/ammar-oker/RedisInsight/pkg/server"
	"github.com/ammar-oker/RedisInsight/pkg/server/store"
)

// HealthResponse represents the response from /healthcheck
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RegisterStatusEndpoints registers the health endpoint
func RegisterStatusEndpoints(s *server.Server) {
	// GET /healthcheck - Service and registry database health
	s.Router.HandleFunc("/healthcheck", handleHealthcheck(s.Health)).Methods("GET")
}

func handleHealthcheck(health store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := health.CheckConnectivity(); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "error",
				Error:  "registry database connectivity check failed",
			})
			return
		}

		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
