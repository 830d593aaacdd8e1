package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInfo = "# Server\r\n" +
	"redis_version:7.2.4\r\n" +
	"redis_mode:standalone\r\n" +
	"uptime_in_seconds:86400\r\n" +
	"\r\n" +
	"# Clients\r\n" +
	"connected_clients:4\r\n" +
	"\r\n" +
	"# Memory\r\n" +
	"used_memory:1048576\r\n" +
	"used_memory_human:1.00M\r\n" +
	"\r\n" +
	"# Stats\r\n" +
	"instantaneous_ops_per_sec:42\r\n" +
	"instantaneous_input_kbps:1.25\r\n" +
	"instantaneous_output_kbps:3.50\r\n" +
	"\r\n" +
	"# CPU\r\n" +
	"used_cpu_sys:10.5\r\n" +
	"used_cpu_user:4.5\r\n" +
	"\r\n" +
	"# Replication\r\n" +
	"role:master\r\n" +
	"\r\n" +
	"# Keyspace\r\n" +
	"db0:keys=100,expires=5,avg_ttl=0\r\n" +
	"db2:keys=25,expires=0,avg_ttl=0\r\n"

func TestParseOverview(t *testing.T) {
	overview := parseOverview(sampleInfo)

	assert.Equal(t, "7.2.4", overview.Version)
	assert.Equal(t, "master", overview.Role)

	require.NotNil(t, overview.UptimeInSeconds)
	assert.Equal(t, int64(86400), *overview.UptimeInSeconds)

	require.NotNil(t, overview.TotalKeys)
	assert.Equal(t, int64(125), *overview.TotalKeys)

	require.NotNil(t, overview.UsedMemory)
	assert.Equal(t, int64(1048576), *overview.UsedMemory)

	require.NotNil(t, overview.ConnectedClients)
	assert.Equal(t, int64(4), *overview.ConnectedClients)

	require.NotNil(t, overview.OpsPerSecond)
	assert.Equal(t, int64(42), *overview.OpsPerSecond)

	require.NotNil(t, overview.NetworkInKbps)
	assert.Equal(t, 1.25, *overview.NetworkInKbps)

	require.NotNil(t, overview.NetworkOutKbps)
	assert.Equal(t, 3.50, *overview.NetworkOutKbps)
}

func TestParseOverviewEmptyKeyspace(t *testing.T) {
	overview := parseOverview("# Server\r\nredis_version:7.0.0\r\n\r\n# Keyspace\r\n")

	require.NotNil(t, overview.TotalKeys)
	assert.Equal(t, int64(0), *overview.TotalKeys)
}

func TestParseOverviewMissingSections(t *testing.T) {
	overview := parseOverview("# Server\r\nredis_version:6.2.0\r\n")

	assert.Equal(t, "6.2.0", overview.Version)
	assert.Nil(t, overview.UsedMemory)
	assert.Nil(t, overview.ConnectedClients)
	assert.Nil(t, overview.OpsPerSecond)
}

func TestCPUSeconds(t *testing.T) {
	seconds, ok := cpuSeconds(sampleInfo)
	require.True(t, ok)
	assert.Equal(t, 15.0, seconds)

	_, ok = cpuSeconds("# Server\r\nredis_version:7.0.0\r\n")
	assert.False(t, ok)
}
