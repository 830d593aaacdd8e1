package endpoints

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ammar-oker/RedisInsight/pkg/audit"
	"github.com/ammar-oker/RedisInsight/pkg/config"
	"github.com/ammar-oker/RedisInsight/pkg/instance"
	"github.com/ammar-oker/RedisInsight/pkg/model"
	"github.com/ammar-oker/RedisInsight/pkg/server"
	"github.com/ammar-oker/RedisInsight/pkg/server/store"
)

// CertificateRef attaches a certificate to a database record, either by the
// id of a stored certificate or inline by name and PEM content.
type CertificateRef struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Certificate string `json:"certificate,omitempty"`
	Key         string `json:"key,omitempty"`
}

// SentinelMasterRequest names the monitored master group and its credentials.
type SentinelMasterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// DatabaseRequest is the create/test payload for a connection record.
type DatabaseRequest struct {
	Name             string                 `json:"name"`
	Host             string                 `json:"host"`
	Port             int                    `json:"port"`
	Db               int                    `json:"db,omitempty"`
	Username         string                 `json:"username,omitempty"`
	Password         string                 `json:"password,omitempty"`
	ConnectionType   string                 `json:"connectionType,omitempty"`
	SentinelMaster   *SentinelMasterRequest `json:"sentinelMaster,omitempty"`
	TLS              bool                   `json:"tls,omitempty"`
	VerifyServerCert bool                   `json:"verifyServerCert,omitempty"`
	CaCert           *CertificateRef        `json:"caCert,omitempty"`
	ClientCert       *CertificateRef        `json:"clientCert,omitempty"`
}

// SentinelMasterResponse mirrors SentinelMasterRequest without the password.
type SentinelMasterResponse struct {
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
}

// DatabaseResponse is the read projection of a connection record. Passwords
// never appear; only their presence does.
type DatabaseResponse struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	Host             string                  `json:"host"`
	Port             int                     `json:"port"`
	Db               int                     `json:"db"`
	Username         string                  `json:"username,omitempty"`
	Password         bool                    `json:"password"`
	ConnectionType   string                  `json:"connectionType"`
	SentinelMaster   *SentinelMasterResponse `json:"sentinelMaster,omitempty"`
	TLS              bool                    `json:"tls"`
	VerifyServerCert bool                    `json:"verifyServerCert"`
	CaCertID         *string                 `json:"caCertId,omitempty"`
	ClientCertID     *string                 `json:"clientCertId,omitempty"`
	LastConnection   *time.Time              `json:"lastConnection,omitempty"`
	CreatedAt        time.Time               `json:"createdAt"`
}

// RegisterDatabasesEndpoints registers the connection registry endpoints
func RegisterDatabasesEndpoints(s *server.Server) {
	router := s.Router
	databases := s.Databases
	certificates := s.Certificates

	databasesRouter := router.PathPrefix("/databases").Subrouter()

	// POST /databases/test - Try a connection without saving
	databasesRouter.HandleFunc("/test", handleTestConnection(s.Instances, certificates)).Methods("POST")

	// POST /databases - Register a database connection
	databasesRouter.HandleFunc("", handleCreateDatabase(databases, certificates)).Methods("POST")

	// GET /databases?name=... - Enumerate connection records
	databasesRouter.HandleFunc("", handleListDatabases(databases)).Methods("GET")

	// DELETE /databases - Remove listed records
	databasesRouter.HandleFunc("", handleDeleteDatabases(databases, s.Pool)).Methods("DELETE")

	// GET /databases/{id} - Fetch one record
	databasesRouter.HandleFunc("/{id}", handleGetDatabase(databases)).Methods("GET")

	// GET /databases/{id}/connect - Ping the instance behind a record
	databasesRouter.HandleFunc("/{id}/connect", handleConnectDatabase(s.Instances, databases)).Methods("GET")

	// GET /databases/{id}/overview - INFO-derived server summary
	databasesRouter.HandleFunc("/{id}/overview", handleDatabaseOverview(s.Instances)).Methods("GET")

	// GET /databases/{id}/cluster-details - Cluster health and topology
	databasesRouter.HandleFunc("/{id}/cluster-details", handleClusterDetails(s.Instances)).Methods("GET")
}

func handleCreateDatabase(databases store.DatabasesStore, certificates store.CertificatesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DatabaseRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if msg := validateDatabaseRequest(&req); msg != "" {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": msg})
			return
		}

		record, err := databaseFromRequest(&req, certificates)
		if err != nil {
			respondWithMappedError(w, err)
			return
		}

		created, err := databases.CreateDatabase(record)
		if err != nil {
			respondWithMappedError(w, err)
			return
		}

		audit.Log(audit.DatabaseAddedEvent{
			DatabaseID:     created.ID,
			DatabaseName:   created.Name,
			Host:           created.Host,
			Port:           created.Port,
			ConnectionType: created.ConnectionType,
			ClientIP:       clientIP(r),
		})

		respondWithJSON(w, http.StatusCreated, toDatabaseResponse(created))
	}
}

func handleListDatabases(databases store.DatabasesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		limit := config.Get().DatabaseListLimitMax

		records, err := databases.ListDatabases(name, limit)
		if err != nil {
			respondWithMappedError(w, err)
			return
		}

		responses := make([]DatabaseResponse, 0, len(records))
		for i := range records {
			responses = append(responses, *toDatabaseResponse(&records[i]))
		}
		respondWithJSON(w, http.StatusOK, responses)
	}
}

func handleGetDatabase(databases store.DatabasesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		record, err := databases.GetDatabase(vars["id"])
		if err != nil {
			respondWithMappedError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, toDatabaseResponse(record))
	}
}

// DeleteDatabasesRequest lists the record ids to remove
type DeleteDatabasesRequest struct {
	IDs []string `json:"ids"`
}

func handleDeleteDatabases(databases store.DatabasesStore, pool *instance.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeleteDatabasesRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if len(req.IDs) == 0 {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": "ids is required"})
			return
		}

		affected, err := databases.DeleteDatabases(req.IDs)
		if err != nil {
			respondWithMappedError(w, err)
			return
		}

		if affected == 0 {
			respondWithError(w, http.StatusNotFound, map[string]string{"message": "no databases matched the given ids"})
			return
		}

		pool.Invalidate(req.IDs...)

		audit.Log(audit.DatabaseDeletedEvent{
			DatabaseIDs: req.IDs,
			Affected:    affected,
			ClientIP:    clientIP(r),
		})

		respondWithJSON(w, http.StatusOK, map[string]int64{"affected": affected})
	}
}

func handleConnectDatabase(instances *instance.Service, databases store.DatabasesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		id := vars["id"]

		record, err := databases.GetDatabase(id)
		if err != nil {
			respondWithMappedError(w, err)
			return
		}

		if err := instances.Connect(r.Context(), id); err != nil {
			audit.Log(audit.ConnectionEvent{
				DatabaseID:   id,
				Host:         record.Host,
				Port:         record.Port,
				ClientIP:     clientIP(r),
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithOperationError(w, r, id, "connect", err)
			return
		}

		audit.Log(audit.ConnectionEvent{
			DatabaseID: id,
			Host:       record.Host,
			Port:       record.Port,
			ClientIP:   clientIP(r),
			Success:    true,
		})

		// Re-read so the response carries the fresh connection timestamp.
		record, err = databases.GetDatabase(id)
		if err != nil {
			respondWithMappedError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, toDatabaseResponse(record))
	}
}

func handleTestConnection(instances *instance.Service, certificates store.CertificatesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DatabaseRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if msg := validateDatabaseRequest(&req); msg != "" {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": msg})
			return
		}

		// Only stored certificates can back a test connection; inline
		// content is persisted on create, not here.
		record := toUnsavedDatabase(&req)

		err := instances.TestConnection(r.Context(), record)

		event := audit.ConnectionEvent{
			Host:     req.Host,
			Port:     req.Port,
			ClientIP: clientIP(r),
			Test:     true,
			Success:  err == nil,
		}
		if err != nil {
			event.ErrorMessage = err.Error()
		}
		audit.Log(event)

		if err != nil {
			respondWithMappedError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleDatabaseOverview(instances *instance.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		id := vars["id"]

		overview, err := instances.Overview(r.Context(), id)
		if err != nil {
			respondWithOperationError(w, r, id, "overview", err)
			return
		}

		respondWithJSON(w, http.StatusOK, overview)
	}
}

func handleClusterDetails(instances *instance.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		id := vars["id"]

		details, err := instances.ClusterDetails(r.Context(), id)
		if err != nil {
			respondWithOperationError(w, r, id, "cluster-details", err)
			return
		}

		respondWithJSON(w, http.StatusOK, details)
	}
}

func validateDatabaseRequest(req *DatabaseRequest) string {
	if req.Name == "" {
		return "name is required"
	}
	if req.Host == "" {
		return "host is required"
	}
	if req.Port < 1 || req.Port > 65535 {
		return fmt.Sprintf("port %d is out of range", req.Port)
	}

	switch req.ConnectionType {
	case "", model.ConnectionTypeStandalone, model.ConnectionTypeCluster:
	case model.ConnectionTypeSentinel:
		if req.SentinelMaster == nil || req.SentinelMaster.Name == "" {
			return "sentinelMaster.name is required for SENTINEL connections"
		}
	default:
		return fmt.Sprintf("unknown connection type %q", req.ConnectionType)
	}
	return ""
}

// databaseFromRequest builds the record to persist, creating any inline
// certificates along the way.
func databaseFromRequest(req *DatabaseRequest, certificates store.CertificatesStore) (*store.Database, error) {
	record := toUnsavedDatabase(req)

	if ref := req.CaCert; ref != nil && ref.ID == "" {
		caCert, err := certificates.CreateCaCertificate(ref.Name, []byte(ref.Certificate))
		if err != nil {
			return nil, err
		}
		record.CaCertID = &caCert.ID
	}

	if ref := req.ClientCert; ref != nil && ref.ID == "" {
		clientCert, err := certificates.CreateClientCertificate(ref.Name, []byte(ref.Certificate), []byte(ref.Key))
		if err != nil {
			return nil, err
		}
		record.ClientCertID = &clientCert.ID
	}

	return record, nil
}

// toUnsavedDatabase maps the request onto a record without touching the
// certificate registry; only by-id references are carried over.
func toUnsavedDatabase(req *DatabaseRequest) *store.Database {
	connectionType := req.ConnectionType
	if connectionType == "" {
		connectionType = model.ConnectionTypeStandalone
	}

	record := &store.Database{
		Name:             req.Name,
		Host:             req.Host,
		Port:             req.Port,
		DbIndex:          req.Db,
		Username:         req.Username,
		Password:         req.Password,
		ConnectionType:   connectionType,
		TLS:              req.TLS,
		VerifyServerCert: req.VerifyServerCert,
	}

	if req.SentinelMaster != nil {
		record.SentinelMasterName = req.SentinelMaster.Name
		record.SentinelMasterUsername = req.SentinelMaster.Username
		record.SentinelMasterPassword = req.SentinelMaster.Password
	}

	if req.CaCert != nil && req.CaCert.ID != "" {
		id := req.CaCert.ID
		record.CaCertID = &id
	}
	if req.ClientCert != nil && req.ClientCert.ID != "" {
		id := req.ClientCert.ID
		record.ClientCertID = &id
	}

	return record
}

func toDatabaseResponse(record *store.Database) *DatabaseResponse {
	response := &DatabaseResponse{
		ID:               record.ID,
		Name:             record.Name,
		Host:             record.Host,
		Port:             record.Port,
		Db:               record.DbIndex,
		Username:         record.Username,
		Password:         record.Password != "",
		ConnectionType:   record.ConnectionType,
		TLS:              record.TLS,
		VerifyServerCert: record.VerifyServerCert,
		CaCertID:         record.CaCertID,
		ClientCertID:     record.ClientCertID,
		LastConnection:   record.LastConnection,
		CreatedAt:        record.CreatedAt,
	}

	if record.SentinelMasterName != "" {
		response.SentinelMaster = &SentinelMasterResponse{
			Name:     record.SentinelMasterName,
			Username: record.SentinelMasterUsername,
		}
	}

	return response
}
