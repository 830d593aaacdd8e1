package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sentinelMasterFields(name, ip, port, flags, numSlaves string) []interface{} {
	return []interface{}{
		"name", name,
		"ip", ip,
		"port", port,
		"runid", "4c24b395c47ae6a3d75ae55a3d1806b1f8f8b6a7",
		"flags", flags,
		"num-slaves", numSlaves,
		"quorum", "2",
	}
}

func TestParseSentinelMasters(t *testing.T) {
	reply := []interface{}{
		sentinelMasterFields("mymaster", "10.0.0.5", "6379", "master", "2"),
		sentinelMasterFields("sessions", "10.0.0.8", "6380", "master,s_down", "1"),
	}

	masters := parseSentinelMasters(reply)
	require.Len(t, masters, 2)

	assert.Equal(t, "mymaster", masters[0].Name)
	assert.Equal(t, "10.0.0.5", masters[0].Host)
	assert.Equal(t, 6379, masters[0].Port)
	assert.Equal(t, MasterStatusActive, masters[0].Status)
	assert.Equal(t, 2, masters[0].NumberOfReplicas)

	assert.Equal(t, MasterStatusDown, masters[1].Status)
	assert.Equal(t, 1, masters[1].NumberOfReplicas)
}

func TestParseSentinelMastersSkipsMalformedEntries(t *testing.T) {
	reply := []interface{}{
		"not-an-array",
		sentinelMasterFields("mymaster", "10.0.0.5", "6379", "master", "0"),
	}

	masters := parseSentinelMasters(reply)
	require.Len(t, masters, 1)
	assert.Equal(t, "mymaster", masters[0].Name)
}
