// Package main provides the RedisInsight server CLI.
//
// RedisInsight is a browser-oriented Redis administration service. It keeps a
// registry of Redis database connections in PostgreSQL and proxies inspection
// operations (server overview, cluster topology, sentinel discovery, stream
// browsing) to the registered instances over a REST API.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/store: Registry store interfaces and GORM implementations
//   - pkg/instance: Redis client construction, connection pool, INFO and
//     topology parsing
//   - pkg/streams: Redis Streams browsing and consumer group management
//   - pkg/model: Database models with field-level encryption hooks
//   - pkg/crypto: AES-GCM cipher for stored credentials
//   - pkg/db: Registry database connection utilities
//   - pkg/audit: RFC 5424 audit logging
//   - pkg/config: Configuration management
//
// # Quick Start
//
// The server is run via the insightctl CLI:
//
//	# Generate a data key for credential encryption
//	insightctl data-key generate > data_key
//	export REDISINSIGHT_DATA_KEY=$(cat data_key)
//
//	# Run database migrations
//	insightctl db migrate
//
//	# Start the server
//	insightctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string for the registry
//   - REDISINSIGHT_DATA_KEY: Base64-encoded 256-bit key for credential encryption
//   - REDISINSIGHT_CONFIG_PATH: Directory holding redisinsight.yml
//   - REDISINSIGHT_AUDIT_ENABLED: Enable audit logging
//   - AUDIT_DATABASE_URL: Optional separate PostgreSQL database for audit records
//   - PORT: Server port (default: 8000)
package main
