// Package instance provides access to the Redis servers behind registered
// connection records: client construction, connection pooling, error
// classification and server introspection (overview, cluster topology,
// sentinel discovery).
package instance
