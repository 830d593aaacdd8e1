package endpoints

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/ammar-oker/RedisInsight/pkg/audit"
	"github.com/ammar-oker/RedisInsight/pkg/config"
	"github.com/ammar-oker/RedisInsight/pkg/instance"
	"github.com/ammar-oker/RedisInsight/pkg/server/store"
	"github.com/ammar-oker/RedisInsight/pkg/streams"
)

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithMappedError translates service-layer error classes to HTTP
// statuses. Server-side Redis errors keep their verbatim message.
func respondWithMappedError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, store.ErrDatabaseNotFound),
		errors.Is(err, store.ErrCertificateNotFound),
		errors.Is(err, instance.ErrKeyNotFound),
		errors.Is(err, instance.ErrGroupNotFound):
		code = http.StatusNotFound
	case errors.Is(err, instance.ErrWrongKeyType),
		errors.Is(err, instance.ErrNotCluster),
		errors.Is(err, instance.ErrGroupExists),
		errors.Is(err, streams.ErrKeyExists):
		code = http.StatusBadRequest
	case errors.Is(err, instance.ErrPermissionDenied):
		code = http.StatusForbidden
	case errors.Is(err, instance.ErrConnectionFailed):
		code = http.StatusServiceUnavailable
	}

	respondWithError(w, code, map[string]string{"message": err.Error()})
}

// respondWithOperationError is respondWithMappedError plus an audit record
// for commands the Redis ACL rejected.
func respondWithOperationError(w http.ResponseWriter, r *http.Request, databaseID, operation string, err error) {
	if errors.Is(err, instance.ErrPermissionDenied) {
		audit.Log(audit.CommandDeniedEvent{
			DatabaseID:   databaseID,
			Operation:    operation,
			ClientIP:     clientIP(r),
			ErrorMessage: err.Error(),
		})
	}
	respondWithMappedError(w, err)
}

// clientIP reports the requester's address, honouring X-Forwarded-For only
// when the direct peer is a configured trusted proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if config.Get().IsTrustedProxy(host) {
			return forwarded
		}
	}
	return host
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer func() { _ = r.Body.Close() }()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, map[string]string{"message": "Invalid JSON body"})
		return false
	}
	return true
}
