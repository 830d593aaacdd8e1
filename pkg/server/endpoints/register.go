package endpoints

import (
	"github.com/ammar-oker/RedisInsight/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterDatabasesEndpoints(srv)
	RegisterCertificatesEndpoints(srv)
	RegisterStreamsEndpoints(srv)
	RegisterSentinelEndpoints(srv)
	RegisterStatusEndpoints(srv)
}
