package instance

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammar-oker/RedisInsight/pkg/model"
	"github.com/ammar-oker/RedisInsight/pkg/server/store"
)

// NewRedisClient builds a go-redis client for a connection record. The
// connection type on the record selects between a standalone client, a
// cluster client and a sentinel-backed failover client.
func NewRedisClient(d *store.Database, certificates store.CertificatesStore, dialTimeout time.Duration) (redis.UniversalClient, error) {
	tlsConfig, err := newTLSConfig(d, certificates)
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))

	switch d.ConnectionType {
	case model.ConnectionTypeStandalone, "":
		return redis.NewClient(&redis.Options{
			Addr:        addr,
			Username:    d.Username,
			Password:    d.Password,
			DB:          d.DbIndex,
			DialTimeout: dialTimeout,
			TLSConfig:   tlsConfig,
		}), nil
	case model.ConnectionTypeCluster:
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:       []string{addr},
			Username:    d.Username,
			Password:    d.Password,
			DialTimeout: dialTimeout,
			TLSConfig:   tlsConfig,
		}), nil
	case model.ConnectionTypeSentinel:
		// The record's own credentials authenticate to the sentinel; the
		// master credentials authenticate to the monitored master.
		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       d.SentinelMasterName,
			SentinelAddrs:    []string{addr},
			SentinelUsername: d.Username,
			SentinelPassword: d.Password,
			Username:         d.SentinelMasterUsername,
			Password:         d.SentinelMasterPassword,
			DB:               d.DbIndex,
			DialTimeout:      dialTimeout,
			TLSConfig:        tlsConfig,
		}), nil
	default:
		return nil, fmt.Errorf("unknown connection type %q", d.ConnectionType)
	}
}

// newTLSConfig assembles the TLS settings for a record, resolving any
// referenced CA and client certificates from the registry.
func newTLSConfig(d *store.Database, certificates store.CertificatesStore) (*tls.Config, error) {
	if !d.TLS {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		ServerName:         d.Host,
		InsecureSkipVerify: !d.VerifyServerCert,
	}

	if d.CaCertID != nil {
		caCert, err := certificates.GetCaCertificate(*d.CaCertID)
		if err != nil {
			return nil, fmt.Errorf("resolving ca certificate: %w", err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert.Certificate) {
			return nil, fmt.Errorf("ca certificate %q contains no valid PEM certificates", caCert.Name)
		}
		tlsConfig.RootCAs = pool
	}

	if d.ClientCertID != nil {
		clientCert, err := certificates.GetClientCertificate(*d.ClientCertID)
		if err != nil {
			return nil, fmt.Errorf("resolving client certificate: %w", err)
		}

		pair, err := tls.X509KeyPair(clientCert.Certificate, clientCert.Key)
		if err != nil {
			return nil, fmt.Errorf("loading client certificate %q: %w", clientCert.Name, err)
		}
		tlsConfig.Certificates = []tls.Certificate{pair}
	}

	return tlsConfig, nil
}
