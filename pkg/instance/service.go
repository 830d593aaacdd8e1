package instance

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammar-oker/RedisInsight/pkg/model"
	"github.com/ammar-oker/RedisInsight/pkg/server/store"
)

// SentinelConnection carries the settings needed to reach a sentinel for
// master discovery, before any connection record exists.
type SentinelConnection struct {
	Host             string  `json:"host"`
	Port             int     `json:"port"`
	Username         string  `json:"username,omitempty"`
	Password         string  `json:"password,omitempty"`
	TLS              bool    `json:"tls,omitempty"`
	VerifyServerCert bool    `json:"verifyServerCert,omitempty"`
	CaCertID         *string `json:"caCertId,omitempty"`
	ClientCertID     *string `json:"clientCertId,omitempty"`
}

// SentinelMasterChoice selects one discovered master group for registration.
type SentinelMasterChoice struct {
	Name     string `json:"name"`
	Alias    string `json:"alias,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	DbIndex  int    `json:"db,omitempty"`
}

// SentinelDatabaseResult reports the outcome of registering one master group.
type SentinelDatabaseResult struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Registration outcomes for sentinel master groups.
const (
	ResultStatusSuccess = "success"
	ResultStatusFail    = "fail"
)

// Service exposes the server-introspection operations performed against
// registered Redis instances.
type Service struct {
	databases    store.DatabasesStore
	certificates store.CertificatesStore
	resolver     ClientResolver
	dialTimeout  time.Duration

	// Previous CPU samples per record, used to derive a usage percentage
	// between consecutive overview calls.
	mu         sync.Mutex
	cpuSamples map[string]cpuSample
}

type cpuSample struct {
	seconds float64
	at      time.Time
}

// NewService creates a new Service
func NewService(databases store.DatabasesStore, certificates store.CertificatesStore, resolver ClientResolver, dialTimeout time.Duration) *Service {
	return &Service{
		databases:    databases,
		certificates: certificates,
		resolver:     resolver,
		dialTimeout:  dialTimeout,
		cpuSamples:   make(map[string]cpuSample),
	}
}

// Connect pings the instance behind a record and stamps the record's last
// connection time on success.
func (s *Service) Connect(ctx context.Context, databaseID string) error {
	client, err := s.resolver.Client(ctx, databaseID)
	if err != nil {
		return err
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return TranslateError(err)
	}

	return s.databases.UpdateLastConnection(databaseID, time.Now())
}

// TestConnection pings the instance described by an unsaved record. Nothing
// is persisted and the client is torn down afterwards.
func (s *Service) TestConnection(ctx context.Context, d *store.Database) error {
	client, err := NewRedisClient(d, s.certificates, s.dialTimeout)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		return TranslateError(err)
	}
	return nil
}

// Overview fetches and condenses the INFO output of an instance.
func (s *Service) Overview(ctx context.Context, databaseID string) (*Overview, error) {
	client, err := s.resolver.Client(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	raw, err := client.Info(ctx).Result()
	if err != nil {
		return nil, TranslateError(err)
	}

	overview := parseOverview(raw)
	overview.CPUUsagePercentage = s.cpuUsage(databaseID, raw)
	return overview, nil
}

// cpuUsage derives a CPU percentage from the delta between the current and
// previous INFO samples. The first call for a record yields nil.
func (s *Service) cpuUsage(databaseID, raw string) *float64 {
	seconds, ok := cpuSeconds(raw)
	if !ok {
		return nil
	}
	now := time.Now()

	s.mu.Lock()
	previous, sampled := s.cpuSamples[databaseID]
	s.cpuSamples[databaseID] = cpuSample{seconds: seconds, at: now}
	s.mu.Unlock()

	if !sampled {
		return nil
	}

	elapsed := now.Sub(previous.at).Seconds()
	if elapsed <= 0 {
		return nil
	}

	usage := (seconds - previous.seconds) / elapsed * 100
	if usage < 0 {
		usage = 0
	}
	return &usage
}

// ClusterDetails reports cluster health and topology for a record. Only
// CLUSTER-type records qualify.
func (s *Service) ClusterDetails(ctx context.Context, databaseID string) (*ClusterDetails, error) {
	database, err := s.databases.GetDatabase(databaseID)
	if err != nil {
		return nil, err
	}
	if database.ConnectionType != model.ConnectionTypeCluster {
		return nil, fmt.Errorf("%w: %s", ErrNotCluster, databaseID)
	}

	client, err := s.resolver.Client(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	info, err := client.ClusterInfo(ctx).Result()
	if err != nil {
		return nil, TranslateError(err)
	}

	nodes, err := client.ClusterNodes(ctx).Result()
	if err != nil {
		return nil, TranslateError(err)
	}

	details := parseClusterInfo(info)
	details.Nodes = parseClusterNodes(nodes)
	return details, nil
}

// DiscoverSentinelMasters connects to a sentinel and lists the master
// groups it monitors.
func (s *Service) DiscoverSentinelMasters(ctx context.Context, conn SentinelConnection) ([]SentinelMaster, error) {
	client, err := s.sentinelClient(conn)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	reply, err := client.Masters(ctx).Result()
	if err != nil {
		return nil, TranslateError(err)
	}

	return parseSentinelMasters(reply), nil
}

// CreateSentinelDatabases registers a connection record for each selected
// master group. Failures are reported per group so one bad choice doesn't
// abort the rest.
func (s *Service) CreateSentinelDatabases(ctx context.Context, conn SentinelConnection, choices []SentinelMasterChoice) ([]SentinelDatabaseResult, error) {
	discovered, err := s.DiscoverSentinelMasters(ctx, conn)
	if err != nil {
		return nil, err
	}

	monitored := make(map[string]bool, len(discovered))
	for _, master := range discovered {
		monitored[master.Name] = true
	}

	results := make([]SentinelDatabaseResult, 0, len(choices))
	for _, choice := range choices {
		name := choice.Alias
		if name == "" {
			name = choice.Name
		}
		result := SentinelDatabaseResult{Name: name, Status: ResultStatusSuccess}

		if !monitored[choice.Name] {
			result.Status = ResultStatusFail
			result.Message = "master group is not monitored by this sentinel"
			results = append(results, result)
			continue
		}

		created, err := s.databases.CreateDatabase(&store.Database{
			Name:                   name,
			Host:                   conn.Host,
			Port:                   conn.Port,
			DbIndex:                choice.DbIndex,
			Username:               conn.Username,
			Password:               conn.Password,
			ConnectionType:         model.ConnectionTypeSentinel,
			SentinelMasterName:     choice.Name,
			SentinelMasterUsername: choice.Username,
			SentinelMasterPassword: choice.Password,
			TLS:                    conn.TLS,
			VerifyServerCert:       conn.VerifyServerCert,
			CaCertID:               conn.CaCertID,
			ClientCertID:           conn.ClientCertID,
		})
		if err != nil {
			result.Status = ResultStatusFail
			result.Message = err.Error()
			results = append(results, result)
			continue
		}

		result.ID = created.ID
		results = append(results, result)
	}

	return results, nil
}

func (s *Service) sentinelClient(conn SentinelConnection) (*redis.SentinelClient, error) {
	tlsConfig, err := newTLSConfig(&store.Database{
		Host:             conn.Host,
		TLS:              conn.TLS,
		VerifyServerCert: conn.VerifyServerCert,
		CaCertID:         conn.CaCertID,
		ClientCertID:     conn.ClientCertID,
	}, s.certificates)
	if err != nil {
		return nil, err
	}

	return redis.NewSentinelClient(&redis.Options{
		Addr:        net.JoinHostPort(conn.Host, strconv.Itoa(conn.Port)),
		Username:    conn.Username,
		Password:    conn.Password,
		DialTimeout: s.dialTimeout,
		TLSConfig:   tlsConfig,
	}), nil
}
