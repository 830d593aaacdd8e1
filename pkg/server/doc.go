// Package server provides the HTTP server for the RedisInsight API.
//
// This package implements the core HTTP server that handles all RedisInsight
// REST API requests. It uses gorilla/mux for routing and gorilla/handlers for
// request logging.
//
// # Server Setup
//
//	s := server.NewServer(cipher, db, databases, certificates, health, pool, instances, streamsService, host, port)
//	endpoints.RegisterAll(s)
//	log.Fatal(s.Start())
//
// # Components
//
// The Server struct holds:
//
//   - Cipher: Symmetric cipher for credential encryption
//   - Router: HTTP request router
//   - DB: Registry database connection
//   - Databases, Certificates, Health: Registry stores
//   - Pool: Per-record Redis client pool
//   - Instances: Server introspection operations
//   - Streams: Stream browsing operations
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterAll(s)
//
// This registers all RedisInsight API endpoints including:
//
//   - /databases - Connection registry CRUD and connection tests
//   - /databases/{id}/connect - Connect through a record
//   - /databases/{id}/overview - INFO-derived server summary
//   - /databases/{id}/cluster-details - Cluster health and topology
//   - /redis-sentinel/get-databases - Sentinel master discovery
//   - /certificates/ca, /certificates/client - Certificate registry
//   - /instance/{id}/streams - Stream browsing and consumer groups
//   - /healthcheck - Service and registry health
package server
