package model

import (
	"fmt"
	"time"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"
)

// Connection types for Database records
const (
	ConnectionTypeStandalone = "STANDALONE"
	ConnectionTypeCluster    = "CLUSTER"
	ConnectionTypeSentinel   = "SENTINEL"
)

// Database is a configured connection to a Redis-compatible server.
type Database struct {
	ID             string `gorm:"primaryKey"`
	Name           string
	Host           string
	Port           int
	DbIndex        int `gorm:"column:db_index"`
	Username       string
	Password       []byte `gorm:"type:bytea"`
	ConnectionType string

	// Sentinel-only fields: the monitored master group and the
	// credentials used against the master, not the sentinel itself.
	SentinelMasterName     string
	SentinelMasterUsername string
	SentinelMasterPassword []byte `gorm:"type:bytea"`

	TLS              bool `gorm:"column:tls"`
	VerifyServerCert bool
	CaCertID         *string `gorm:"column:ca_cert_id"`
	ClientCertID     *string `gorm:"column:client_cert_id"`

	LastConnection *time.Time
	CreatedAt      time.Time
}

func (d Database) TableName() string {
	return "databases"
}

func (d *Database) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = cuid.New()
	}

	encrypt := getCipherForDb(tx).Encrypt

	var err error
	if len(d.Password) > 0 {
		d.Password, err = encrypt([]byte(d.ID), d.Password)
		if err != nil {
			return fmt.Errorf("password encryption failed for database id=%q", d.ID)
		}
	}
	if len(d.SentinelMasterPassword) > 0 {
		d.SentinelMasterPassword, err = encrypt([]byte(d.ID), d.SentinelMasterPassword)
		if err != nil {
			return fmt.Errorf("password encryption failed for database id=%q", d.ID)
		}
	}
	return nil
}

func (d *Database) AfterFind(tx *gorm.DB) (err error) {
	decrypt := getCipherForDb(tx).Decrypt

	if len(d.Password) > 0 {
		d.Password, err = decrypt([]byte(d.ID), d.Password)
		if err != nil {
			return fmt.Errorf("password decryption failed for database id=%q", d.ID)
		}
	}
	if len(d.SentinelMasterPassword) > 0 {
		d.SentinelMasterPassword, err = decrypt([]byte(d.ID), d.SentinelMasterPassword)
		if err != nil {
			return fmt.Errorf("password decryption failed for database id=%q", d.ID)
		}
	}
	return nil
}
