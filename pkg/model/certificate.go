package model

import (
	"fmt"
	"time"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"
)

// CaCertificate is a CA certificate used to verify a Redis server's TLS
// certificate. The PEM body is not secret and is stored in the clear.
type CaCertificate struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Certificate []byte `gorm:"type:bytea"`
	CreatedAt   time.Time
}

func (c CaCertificate) TableName() string {
	return "ca_certificates"
}

func (c *CaCertificate) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = cuid.New()
	}
	return nil
}

// ClientCertificate is a client certificate pair for mutual TLS. The private
// key is encrypted at rest.
type ClientCertificate struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Certificate []byte `gorm:"type:bytea"`
	Key         []byte `gorm:"type:bytea"`
	CreatedAt   time.Time
}

func (c ClientCertificate) TableName() string {
	return "client_certificates"
}

func (c *ClientCertificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = cuid.New()
	}

	if len(c.Key) > 0 {
		var err error
		c.Key, err = getCipherForDb(tx).Encrypt([]byte(c.ID), c.Key)
		if err != nil {
			return fmt.Errorf("key encryption failed for client certificate id=%q", c.ID)
		}
	}
	return nil
}

func (c *ClientCertificate) AfterFind(tx *gorm.DB) (err error) {
	if len(c.Key) > 0 {
		c.Key, err = getCipherForDb(tx).Decrypt([]byte(c.ID), c.Key)
		if err != nil {
			return fmt.Errorf("key decryption failed for client certificate id=%q", c.ID)
		}
	}
	return nil
}
