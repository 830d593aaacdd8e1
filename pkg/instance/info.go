package instance

import (
	"strconv"
	"strings"
)

// Overview is a condensed view of a server's INFO output, shaped for the
// database overview endpoint.
type Overview struct {
	Version            string   `json:"version"`
	Role               string   `json:"role"`
	UptimeInSeconds    *int64   `json:"uptimeInSeconds"`
	TotalKeys          *int64   `json:"totalKeys"`
	UsedMemory         *int64   `json:"usedMemory"`
	ConnectedClients   *int64   `json:"connectedClients"`
	OpsPerSecond       *int64   `json:"opsPerSecond"`
	NetworkInKbps      *float64 `json:"networkInKbps"`
	NetworkOutKbps     *float64 `json:"networkOutKbps"`
	CPUUsagePercentage *float64 `json:"cpuUsagePercentage"`
}

// parseInfo splits a raw INFO reply into per-section key/value maps.
// Section headers are the "# Server" style comment lines.
func parseInfo(raw string) map[string]map[string]string {
	sections := make(map[string]map[string]string)
	current := ""

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			current = strings.ToLower(strings.TrimSpace(line[1:]))
			sections[current] = make(map[string]string)
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if _, exists := sections[current]; !exists {
			sections[current] = make(map[string]string)
		}
		sections[current][key] = value
	}

	return sections
}

// parseOverview assembles an Overview from a raw INFO reply. Fields the
// server did not report stay nil rather than defaulting to zero.
func parseOverview(raw string) *Overview {
	sections := parseInfo(raw)
	overview := &Overview{
		Version: sections["server"]["redis_version"],
		Role:    sections["replication"]["role"],
	}

	overview.UptimeInSeconds = infoInt(sections, "server", "uptime_in_seconds")
	overview.UsedMemory = infoInt(sections, "memory", "used_memory")
	overview.ConnectedClients = infoInt(sections, "clients", "connected_clients")
	overview.OpsPerSecond = infoInt(sections, "stats", "instantaneous_ops_per_sec")
	overview.NetworkInKbps = infoFloat(sections, "stats", "instantaneous_input_kbps")
	overview.NetworkOutKbps = infoFloat(sections, "stats", "instantaneous_output_kbps")
	overview.TotalKeys = keyspaceTotal(sections["keyspace"])

	return overview
}

func infoInt(sections map[string]map[string]string, section, key string) *int64 {
	value, ok := sections[section][key]
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func infoFloat(sections map[string]map[string]string, section, key string) *float64 {
	value, ok := sections[section][key]
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

// keyspaceTotal sums key counts across the "db0:keys=N,expires=..." lines
// of the Keyspace section. A server with no keyspace reports nothing, which
// maps to a total of zero.
func keyspaceTotal(keyspace map[string]string) *int64 {
	var total int64
	for db, stats := range keyspace {
		if !strings.HasPrefix(db, "db") {
			continue
		}
		for _, field := range strings.Split(stats, ",") {
			name, value, ok := strings.Cut(field, "=")
			if !ok || name != "keys" {
				continue
			}
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				continue
			}
			total += n
		}
	}
	return &total
}

// cpuSeconds extracts the cumulative CPU time consumed by the server from
// an INFO reply. Used to derive a usage percentage between two samples.
func cpuSeconds(raw string) (float64, bool) {
	sections := parseInfo(raw)
	sys := infoFloat(sections, "cpu", "used_cpu_sys")
	user := infoFloat(sections, "cpu", "used_cpu_user")
	if sys == nil || user == nil {
		return 0, false
	}
	return *sys + *user, true
}
