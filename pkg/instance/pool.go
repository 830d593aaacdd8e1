package instance

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammar-oker/RedisInsight/pkg/server/store"
)

// ClientResolver resolves a connection record id to a live Redis client.
type ClientResolver interface {
	Client(ctx context.Context, databaseID string) (redis.UniversalClient, error)
}

// Ensure Pool implements ClientResolver
var _ ClientResolver = (*Pool)(nil)

// Pool caches one Redis client per connection record. Clients are built
// lazily on first use and reused until the record is removed.
type Pool struct {
	databases    store.DatabasesStore
	certificates store.CertificatesStore
	dialTimeout  time.Duration

	mu      sync.Mutex
	clients map[string]redis.UniversalClient
}

// NewPool creates a new Pool
func NewPool(databases store.DatabasesStore, certificates store.CertificatesStore, dialTimeout time.Duration) *Pool {
	return &Pool{
		databases:    databases,
		certificates: certificates,
		dialTimeout:  dialTimeout,
		clients:      make(map[string]redis.UniversalClient),
	}
}

// Client returns the cached client for a record, building one if needed.
// A missing record surfaces as store.ErrDatabaseNotFound.
func (p *Pool) Client(ctx context.Context, databaseID string) (redis.UniversalClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[databaseID]; ok {
		return client, nil
	}

	database, err := p.databases.GetDatabase(databaseID)
	if err != nil {
		return nil, err
	}

	client, err := NewRedisClient(database, p.certificates, p.dialTimeout)
	if err != nil {
		return nil, err
	}

	p.clients[databaseID] = client
	return client, nil
}

// Invalidate closes and forgets the clients for the given record ids.
// Called when records are deleted or their settings change.
func (p *Pool) Invalidate(ids ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, id := range ids {
		if client, ok := p.clients[id]; ok {
			_ = client.Close()
			delete(p.clients, id)
		}
	}
}

// Close shuts down every cached client.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, client := range p.clients {
		_ = client.Close()
		delete(p.clients, id)
	}
}
