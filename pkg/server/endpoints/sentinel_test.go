package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ammar-oker/RedisInsight/pkg/instance"
)

func TestDiscoverSentinelMastersValidation(t *testing.T) {
	ts := newTestServer(t)

	connections := []instance.SentinelConnection{
		{Port: 26379},
		{Host: "sentinel.example.com"},
		{Host: "sentinel.example.com", Port: 70000},
	}

	for _, conn := range connections {
		status := doJSON(t, http.MethodPost, ts.URL+"/redis-sentinel/get-databases", conn, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	}
}

func TestDiscoverSentinelMastersUnreachable(t *testing.T) {
	ts := newTestServer(t)

	// Nothing listens here; discovery reports the connection failure.
	status := doJSON(t, http.MethodPost, ts.URL+"/redis-sentinel/get-databases", instance.SentinelConnection{
		Host: "127.0.0.1",
		Port: 1,
	}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestCreateSentinelDatabasesRequiresMasters(t *testing.T) {
	ts := newTestServer(t)

	status := doJSON(t, http.MethodPost, ts.URL+"/redis-sentinel/databases", CreateSentinelDatabasesRequest{
		SentinelConnection: instance.SentinelConnection{Host: "sentinel.example.com", Port: 26379},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
