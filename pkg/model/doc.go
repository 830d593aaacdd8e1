// Package model defines the database models for the RedisInsight server.
//
// This package contains GORM models that map to the connection-registry
// schema. Sensitive fields (database passwords, client certificate keys)
// are encrypted at rest with the server data key; encryption and decryption
// happen in GORM hooks, keyed on the owning record id as AAD.
//
// # Core Models
//
//   - Database: a configured connection to a Redis-compatible server
//   - CaCertificate: CA certificate used for TLS server verification
//   - ClientCertificate: client certificate pair for mutual TLS
//
// # Database Schema
//
// The registry uses PostgreSQL with the following tables:
//
//   - databases: connection records
//   - ca_certificates: CA certificates
//   - client_certificates: client certificate pairs
package model
