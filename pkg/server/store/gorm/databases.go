package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/ammar-oker/RedisInsight/pkg/model"
	"github.com/ammar-oker/RedisInsight/pkg/server/store"
)

// Ensure DatabasesStore implements store.DatabasesStore
var _ store.DatabasesStore = (*DatabasesStore)(nil)

// DatabasesStore implements store.DatabasesStore using GORM
type DatabasesStore struct {
	db *gorm.DB
}

// NewDatabasesStore creates a new DatabasesStore
func NewDatabasesStore(db *gorm.DB) *DatabasesStore {
	return &DatabasesStore{db: db}
}

// ListDatabases enumerates connection records, newest first.
func (s *DatabasesStore) ListDatabases(name string, limit int) ([]store.Database, error) {
	query := s.db.Order("created_at desc")
	if name != "" {
		query = query.Where("name = ?", name)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []model.Database
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	databases := make([]store.Database, 0, len(records))
	for i := range records {
		databases = append(databases, *toStoreDatabase(&records[i]))
	}
	return databases, nil
}

// GetDatabase retrieves a connection record by id.
func (s *DatabasesStore) GetDatabase(id string) (*store.Database, error) {
	var record model.Database
	tx := s.db.Where(&model.Database{ID: id}).First(&record)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrDatabaseNotFound
		}
		return nil, tx.Error
	}

	return toStoreDatabase(&record), nil
}

// CreateDatabase persists a new connection record. The id is assigned by
// the model hook; credentials are encrypted on the way in.
func (s *DatabasesStore) CreateDatabase(d *store.Database) (*store.Database, error) {
	record := &model.Database{
		ID:                     d.ID,
		Name:                   d.Name,
		Host:                   d.Host,
		Port:                   d.Port,
		DbIndex:                d.DbIndex,
		Username:               d.Username,
		Password:               []byte(d.Password),
		ConnectionType:         d.ConnectionType,
		SentinelMasterName:     d.SentinelMasterName,
		SentinelMasterUsername: d.SentinelMasterUsername,
		SentinelMasterPassword: []byte(d.SentinelMasterPassword),
		TLS:                    d.TLS,
		VerifyServerCert:       d.VerifyServerCert,
		CaCertID:               d.CaCertID,
		ClientCertID:           d.ClientCertID,
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, err
	}

	created := *d
	created.ID = record.ID
	created.CreatedAt = record.CreatedAt
	return &created, nil
}

// DeleteDatabases removes the listed records.
func (s *DatabasesStore) DeleteDatabases(ids []string) (int64, error) {
	tx := s.db.Where("id IN ?", ids).Delete(&model.Database{})
	return tx.RowsAffected, tx.Error
}

// UpdateLastConnection stamps the record's last successful connection.
func (s *DatabasesStore) UpdateLastConnection(id string, at time.Time) error {
	return s.db.Model(&model.Database{}).Where("id = ?", id).Update("last_connection", at).Error
}

func toStoreDatabase(record *model.Database) *store.Database {
	return &store.Database{
		ID:                     record.ID,
		Name:                   record.Name,
		Host:                   record.Host,
		Port:                   record.Port,
		DbIndex:                record.DbIndex,
		Username:               record.Username,
		Password:               string(record.Password),
		ConnectionType:         record.ConnectionType,
		SentinelMasterName:     record.SentinelMasterName,
		SentinelMasterUsername: record.SentinelMasterUsername,
		SentinelMasterPassword: string(record.SentinelMasterPassword),
		TLS:                    record.TLS,
		VerifyServerCert:       record.VerifyServerCert,
		CaCertID:               record.CaCertID,
		ClientCertID:           record.ClientCertID,
		LastConnection:         record.LastConnection,
		CreatedAt:              record.CreatedAt,
	}
}
