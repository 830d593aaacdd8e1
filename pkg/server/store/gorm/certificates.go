package gorm

import (
	"gorm.io/gorm"

	"github.com/ammar-oker/RedisInsight/pkg/model"
	"github.com/ammar-oker/RedisInsight/pkg/server/store"
)

// Ensure CertificatesStore implements store.CertificatesStore
var _ store.CertificatesStore = (*CertificatesStore)(nil)

// CertificatesStore implements store.CertificatesStore using GORM
type CertificatesStore struct {
	db *gorm.DB
}

// NewCertificatesStore creates a new CertificatesStore
func NewCertificatesStore(db *gorm.DB) *CertificatesStore {
	return &CertificatesStore{db: db}
}

func (s *CertificatesStore) ListCaCertificates() ([]store.CertificateInfo, error) {
	var records []model.CaCertificate
	if err := s.db.Order("created_at desc").Find(&records).Error; err != nil {
		return nil, err
	}

	infos := make([]store.CertificateInfo, 0, len(records))
	for _, record := range records {
		infos = append(infos, store.CertificateInfo{ID: record.ID, Name: record.Name})
	}
	return infos, nil
}

func (s *CertificatesStore) GetCaCertificate(id string) (*store.CaCertificate, error) {
	var record model.CaCertificate
	tx := s.db.Where(&model.CaCertificate{ID: id}).First(&record)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrCertificateNotFound
		}
		return nil, tx.Error
	}

	return &store.CaCertificate{
		ID:          record.ID,
		Name:        record.Name,
		Certificate: record.Certificate,
	}, nil
}

func (s *CertificatesStore) CreateCaCertificate(name string, certificate []byte) (*store.CaCertificate, error) {
	record := &model.CaCertificate{Name: name, Certificate: certificate}
	if err := s.db.Create(record).Error; err != nil {
		return nil, err
	}

	return &store.CaCertificate{
		ID:          record.ID,
		Name:        record.Name,
		Certificate: record.Certificate,
	}, nil
}

func (s *CertificatesStore) DeleteCaCertificate(id string) error {
	tx := s.db.Where("id = ?", id).Delete(&model.CaCertificate{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrCertificateNotFound
	}
	return nil
}

func (s *CertificatesStore) ListClientCertificates() ([]store.CertificateInfo, error) {
	var records []model.ClientCertificate
	if err := s.db.Order("created_at desc").Find(&records).Error; err != nil {
		return nil, err
	}

	infos := make([]store.CertificateInfo, 0, len(records))
	for _, record := range records {
		infos = append(infos, store.CertificateInfo{ID: record.ID, Name: record.Name})
	}
	return infos, nil
}

func (s *CertificatesStore) GetClientCertificate(id string) (*store.ClientCertificate, error) {
	var record model.ClientCertificate
	tx := s.db.Where(&model.ClientCertificate{ID: id}).First(&record)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrCertificateNotFound
		}
		return nil, tx.Error
	}

	return &store.ClientCertificate{
		ID:          record.ID,
		Name:        record.Name,
		Certificate: record.Certificate,
		Key:         record.Key,
	}, nil
}

func (s *CertificatesStore) CreateClientCertificate(name string, certificate, key []byte) (*store.ClientCertificate, error) {
	record := &model.ClientCertificate{Name: name, Certificate: certificate, Key: key}
	if err := s.db.Create(record).Error; err != nil {
		return nil, err
	}

	// The model hook encrypted the key in place; hand back the plaintext
	// the caller supplied.
	return &store.ClientCertificate{
		ID:          record.ID,
		Name:        record.Name,
		Certificate: record.Certificate,
		Key:         key,
	}, nil
}

func (s *CertificatesStore) DeleteClientCertificate(id string) error {
	tx := s.db.Where("id = ?", id).Delete(&model.ClientCertificate{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrCertificateNotFound
	}
	return nil
}
