package endpoints

import (
	"net/http"

	"github.com/ammar-oker/RedisInsight/pkg/instance"
	"github.com/ammar-oker/RedisInsight/pkg/server"
)

// RegisterSentinelEndpoints registers the sentinel discovery endpoints
func RegisterSentinelEndpoints(s *server.Server) {
	router := s.Router
	instances := s.Instances

	sentinelRouter := router.PathPrefix("/redis-sentinel").Subrouter()

	// POST /redis-sentinel/get-databases - List master groups on a sentinel
	sentinelRouter.HandleFunc("/get-databases", handleDiscoverSentinelMasters(instances)).Methods("POST")

	// POST /redis-sentinel/databases - Register records for chosen masters
	sentinelRouter.HandleFunc("/databases", handleCreateSentinelDatabases(instances)).Methods("POST")
}

func validateSentinelConnection(conn *instance.SentinelConnection) string {
	if conn.Host == "" {
		return "host is required"
	}
	if conn.Port < 1 || conn.Port > 65535 {
		return "port is out of range"
	}
	return ""
}

func handleDiscoverSentinelMasters(instances *instance.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var conn instance.SentinelConnection
		if !decodeJSONBody(w, r, &conn) {
			return
		}
		if msg := validateSentinelConnection(&conn); msg != "" {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": msg})
			return
		}

		masters, err := instances.DiscoverSentinelMasters(r.Context(), conn)
		if err != nil {
			respondWithMappedError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, masters)
	}
}

// CreateSentinelDatabasesRequest pairs a sentinel connection with the
// master groups to register.
type CreateSentinelDatabasesRequest struct {
	instance.SentinelConnection
	Masters []instance.SentinelMasterChoice `json:"masters"`
}

func handleCreateSentinelDatabases(instances *instance.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSentinelDatabasesRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if msg := validateSentinelConnection(&req.SentinelConnection); msg != "" {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": msg})
			return
		}
		if len(req.Masters) == 0 {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": "masters is required"})
			return
		}

		results, err := instances.CreateSentinelDatabases(r.Context(), req.SentinelConnection, req.Masters)
		if err != nil {
			respondWithMappedError(w, err)
			return
		}

		respondWithJSON(w, http.StatusCreated, results)
	}
}
