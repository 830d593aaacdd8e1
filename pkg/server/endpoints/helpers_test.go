package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ammar-oker/RedisInsight/pkg/instance"
	"github.com/ammar-oker/RedisInsight/pkg/model"
	"github.com/ammar-oker/RedisInsight/pkg/server"
	"github.com/ammar-oker/RedisInsight/pkg/server/store"
	"github.com/ammar-oker/RedisInsight/pkg/streams"
)

// fakeDatabasesStore is an in-memory DatabasesStore for handler tests.
type fakeDatabasesStore struct {
	records map[string]*store.Database
	nextID  int
}

var _ store.DatabasesStore = (*fakeDatabasesStore)(nil)

func newFakeDatabasesStore() *fakeDatabasesStore {
	return &fakeDatabasesStore{records: make(map[string]*store.Database)}
}

func (f *fakeDatabasesStore) ListDatabases(name string, limit int) ([]store.Database, error) {
	var out []store.Database
	for _, record := range f.records {
		if name != "" && !strings.Contains(record.Name, name) {
			continue
		}
		out = append(out, *record)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeDatabasesStore) GetDatabase(id string) (*store.Database, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, store.ErrDatabaseNotFound
	}
	copied := *record
	return &copied, nil
}

func (f *fakeDatabasesStore) CreateDatabase(d *store.Database) (*store.Database, error) {
	f.nextID++
	created := *d
	if created.ID == "" {
		created.ID = fmt.Sprintf("db%d", f.nextID)
	}
	created.CreatedAt = time.Now()
	stored := created
	f.records[created.ID] = &stored
	return &created, nil
}

func (f *fakeDatabasesStore) DeleteDatabases(ids []string) (int64, error) {
	var affected int64
	for _, id := range ids {
		if _, ok := f.records[id]; ok {
			delete(f.records, id)
			affected++
		}
	}
	return affected, nil
}

func (f *fakeDatabasesStore) UpdateLastConnection(id string, at time.Time) error {
	record, ok := f.records[id]
	if !ok {
		return store.ErrDatabaseNotFound
	}
	record.LastConnection = &at
	return nil
}

// fakeCertificatesStore is an in-memory CertificatesStore.
type fakeCertificatesStore struct {
	caCerts     map[string]*store.CaCertificate
	clientCerts map[string]*store.ClientCertificate
	nextID      int
}

var _ store.CertificatesStore = (*fakeCertificatesStore)(nil)

func newFakeCertificatesStore() *fakeCertificatesStore {
	return &fakeCertificatesStore{
		caCerts:     make(map[string]*store.CaCertificate),
		clientCerts: make(map[string]*store.ClientCertificate),
	}
}

func (f *fakeCertificatesStore) ListCaCertificates() ([]store.CertificateInfo, error) {
	infos := []store.CertificateInfo{}
	for _, cert := range f.caCerts {
		infos = append(infos, store.CertificateInfo{ID: cert.ID, Name: cert.Name})
	}
	return infos, nil
}

func (f *fakeCertificatesStore) GetCaCertificate(id string) (*store.CaCertificate, error) {
	cert, ok := f.caCerts[id]
	if !ok {
		return nil, store.ErrCertificateNotFound
	}
	return cert, nil
}

func (f *fakeCertificatesStore) CreateCaCertificate(name string, certificate []byte) (*store.CaCertificate, error) {
	f.nextID++
	cert := &store.CaCertificate{ID: fmt.Sprintf("ca%d", f.nextID), Name: name, Certificate: certificate}
	f.caCerts[cert.ID] = cert
	return cert, nil
}

func (f *fakeCertificatesStore) DeleteCaCertificate(id string) error {
	if _, ok := f.caCerts[id]; !ok {
		return store.ErrCertificateNotFound
	}
	delete(f.caCerts, id)
	return nil
}

func (f *fakeCertificatesStore) ListClientCertificates() ([]store.CertificateInfo, error) {
	infos := []store.CertificateInfo{}
	for _, cert := range f.clientCerts {
		infos = append(infos, store.CertificateInfo{ID: cert.ID, Name: cert.Name})
	}
	return infos, nil
}

func (f *fakeCertificatesStore) GetClientCertificate(id string) (*store.ClientCertificate, error) {
	cert, ok := f.clientCerts[id]
	if !ok {
		return nil, store.ErrCertificateNotFound
	}
	return cert, nil
}

func (f *fakeCertificatesStore) CreateClientCertificate(name string, certificate, key []byte) (*store.ClientCertificate, error) {
	f.nextID++
	cert := &store.ClientCertificate{ID: fmt.Sprintf("cc%d", f.nextID), Name: name, Certificate: certificate, Key: key}
	f.clientCerts[cert.ID] = cert
	return cert, nil
}

func (f *fakeCertificatesStore) DeleteClientCertificate(id string) error {
	if _, ok := f.clientCerts[id]; !ok {
		return store.ErrCertificateNotFound
	}
	delete(f.clientCerts, id)
	return nil
}

// fakeHealthStore reports whatever error it is primed with.
type fakeHealthStore struct {
	err error
}

var _ store.HealthStore = (*fakeHealthStore)(nil)

func (f *fakeHealthStore) CheckConnectivity() error {
	return f.err
}

type testServer struct {
	URL          string
	Databases    *fakeDatabasesStore
	Certificates *fakeCertificatesStore
	Health       *fakeHealthStore
}

// newTestServer wires the full routing table over in-memory stores and a
// real connection pool, served by httptest.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	databases := newFakeDatabasesStore()
	certificates := newFakeCertificatesStore()
	health := &fakeHealthStore{}

	pool := instance.NewPool(databases, certificates, time.Second)
	t.Cleanup(pool.Close)

	instances := instance.NewService(databases, certificates, pool, time.Second)
	streamsService := streams.NewService(pool, 500)

	s := server.NewServer(nil, nil, databases, certificates, health, pool, instances, streamsService, "127.0.0.1", "0")
	RegisterAll(s)

	ts := httptest.NewServer(s.Router)
	t.Cleanup(ts.Close)

	return &testServer{
		URL:          ts.URL,
		Databases:    databases,
		Certificates: certificates,
		Health:       health,
	}
}

// seedDatabase registers a standalone record pointing at addr (host:port).
func seedDatabase(t *testing.T, databases *fakeDatabasesStore, name, addr string) *store.Database {
	t.Helper()

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	record, err := databases.CreateDatabase(&store.Database{
		Name:           name,
		Host:           host,
		Port:           port,
		ConnectionType: model.ConnectionTypeStandalone,
	})
	require.NoError(t, err)
	return record
}

func splitAddr(t *testing.T, addr string) (string, int) {
	t.Helper()

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

// doJSON performs a request with a JSON body and decodes the JSON response
// into out when it is non-nil.
func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}
