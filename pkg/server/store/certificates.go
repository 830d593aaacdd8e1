package store

import "errors"

// ErrCertificateNotFound is returned when a certificate record doesn't exist
var ErrCertificateNotFound = errors.New("certificate not found")

// CertificateInfo is the listing projection of a certificate record. PEM
// bodies are only exposed through the Get operations.
type CertificateInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CaCertificate is a CA certificate record with its PEM body.
type CaCertificate struct {
	ID          string
	Name        string
	Certificate []byte
}

// ClientCertificate is a client certificate pair with its decrypted key.
type ClientCertificate struct {
	ID          string
	Name        string
	Certificate []byte
	Key         []byte
}

// CertificatesStore abstracts certificate storage operations
type CertificatesStore interface {
	ListCaCertificates() ([]CertificateInfo, error)
	GetCaCertificate(id string) (*CaCertificate, error)
	CreateCaCertificate(name string, certificate []byte) (*CaCertificate, error)
	// DeleteCaCertificate returns ErrCertificateNotFound when no record matched.
	DeleteCaCertificate(id string) error

	ListClientCertificates() ([]CertificateInfo, error)
	GetClientCertificate(id string) (*ClientCertificate, error)
	CreateClientCertificate(name string, certificate, key []byte) (*ClientCertificate, error)
	DeleteClientCertificate(id string) error
}
