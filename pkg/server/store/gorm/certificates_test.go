package gorm

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammar-oker/RedisInsight/pkg/server/store"
)

func TestGetCaCertificate(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewCertificatesStore(gormDB)

	pem := []byte("-----BEGIN CERTIFICATE-----\nMIIB\n-----END CERTIFICATE-----\n")
	rows := sqlmock.NewRows([]string{"id", "name", "certificate"}).
		AddRow("ca1", "internal-ca", pem)

	mock.ExpectQuery(`SELECT \* FROM "ca_certificates" WHERE "ca_certificates"\."id" = \$1`).
		WithArgs("ca1").
		WillReturnRows(rows)

	cert, err := s.GetCaCertificate("ca1")
	require.NoError(t, err)
	assert.Equal(t, "internal-ca", cert.Name)
	assert.Equal(t, pem, cert.Certificate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCaCertificateNotFound(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewCertificatesStore(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "ca_certificates"`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "certificate"}))

	cert, err := s.GetCaCertificate("nope")
	assert.Nil(t, cert)
	assert.ErrorIs(t, err, store.ErrCertificateNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListClientCertificates(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewCertificatesStore(gormDB)

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow("cc2", "client-b").
		AddRow("cc1", "client-a")

	mock.ExpectQuery(`SELECT \* FROM "client_certificates" ORDER BY created_at desc`).
		WillReturnRows(rows)

	infos, err := s.ListClientCertificates()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "client-b", infos[0].Name)
	assert.Equal(t, "cc1", infos[1].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCaCertificateNotFound(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewCertificatesStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "ca_certificates"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.DeleteCaCertificate("nope")
	assert.ErrorIs(t, err, store.ErrCertificateNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteClientCertificate(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewCertificatesStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "client_certificates"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.DeleteClientCertificate("cc1")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
