package instance

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammar-oker/RedisInsight/pkg/model"
	"github.com/ammar-oker/RedisInsight/pkg/server/store"
)

type fakeResolver struct {
	client redis.UniversalClient
}

func (r *fakeResolver) Client(context.Context, string) (redis.UniversalClient, error) {
	return r.client, nil
}

// fakeDatabases records last-connection updates; the other store methods
// are not exercised by these tests.
type fakeDatabases struct {
	store.DatabasesStore
	lastConnectionID string
}

func (f *fakeDatabases) UpdateLastConnection(id string, _ time.Time) error {
	f.lastConnectionID = id
	return nil
}

func miniredisDatabase(t *testing.T, s *miniredis.Miniredis) *store.Database {
	t.Helper()
	port, err := strconv.Atoi(s.Port())
	require.NoError(t, err)
	return &store.Database{
		Host:           s.Host(),
		Port:           port,
		ConnectionType: model.ConnectionTypeStandalone,
	}
}

func TestConnectUpdatesLastConnection(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	databases := &fakeDatabases{}
	service := NewService(databases, nil, &fakeResolver{client: client}, time.Second)

	err := service.Connect(context.Background(), "db1")
	require.NoError(t, err)
	assert.Equal(t, "db1", databases.lastConnectionID)
}

func TestConnectTranslatesConnectionFailure(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	client := redis.NewClient(&redis.Options{Addr: addr, DialTimeout: time.Second})
	defer client.Close()

	databases := &fakeDatabases{}
	service := NewService(databases, nil, &fakeResolver{client: client}, time.Second)

	err := service.Connect(context.Background(), "db1")
	assert.ErrorIs(t, err, ErrConnectionFailed)
	assert.Empty(t, databases.lastConnectionID)
}

func TestTestConnection(t *testing.T) {
	s := miniredis.RunT(t)
	service := NewService(nil, nil, nil, time.Second)

	err := service.TestConnection(context.Background(), miniredisDatabase(t, s))
	assert.NoError(t, err)
}

func TestTestConnectionFailure(t *testing.T) {
	s := miniredis.RunT(t)
	database := miniredisDatabase(t, s)
	s.Close()

	service := NewService(nil, nil, nil, time.Second)

	err := service.TestConnection(context.Background(), database)
	assert.ErrorIs(t, err, ErrConnectionFailed)
}

func TestNewRedisClientRejectsUnknownConnectionType(t *testing.T) {
	_, err := NewRedisClient(&store.Database{ConnectionType: "TWINE"}, nil, time.Second)
	assert.Error(t, err)
}
