package store

import (
	"errors"
	"time"
)

// ErrDatabaseNotFound is returned when a connection record doesn't exist
var ErrDatabaseNotFound = errors.New("database not found")

// Database is a connection record projection with decrypted credentials.
type Database struct {
	ID             string
	Name           string
	Host           string
	Port           int
	DbIndex        int
	Username       string
	Password       string
	ConnectionType string

	SentinelMasterName     string
	SentinelMasterUsername string
	SentinelMasterPassword string

	TLS              bool
	VerifyServerCert bool
	CaCertID         *string
	ClientCertID     *string

	LastConnection *time.Time
	CreatedAt      time.Time
}

// DatabasesStore abstracts connection-record storage operations
type DatabasesStore interface {
	// ListDatabases enumerates connection records. An empty name matches
	// all records; limit <= 0 means no limit.
	ListDatabases(name string, limit int) ([]Database, error)

	// GetDatabase retrieves a connection record by id.
	// Returns ErrDatabaseNotFound if the record doesn't exist.
	GetDatabase(id string) (*Database, error)

	// CreateDatabase persists a new connection record and returns it with
	// the server-assigned id filled in.
	CreateDatabase(d *Database) (*Database, error)

	// DeleteDatabases removes the listed records and reports how many
	// were actually deleted.
	DeleteDatabases(ids []string) (int64, error)

	// UpdateLastConnection stamps the record's last successful connection.
	UpdateLastConnection(id string, at time.Time) error
}
