package instance

import (
	"strconv"
	"strings"
)

// SentinelMaster is one monitored master group reported by a sentinel.
type SentinelMaster struct {
	Name             string `json:"name"`
	Host             string `json:"host"`
	Port             int    `json:"port"`
	Status           string `json:"status"`
	NumberOfReplicas int    `json:"numberOfReplicas"`
}

// Master group statuses derived from sentinel flags.
const (
	MasterStatusActive = "active"
	MasterStatusDown   = "down"
)

// parseSentinelMasters converts the reply of SENTINEL MASTERS, a list of
// flat field/value arrays, into master group descriptions.
func parseSentinelMasters(reply []interface{}) []SentinelMaster {
	masters := make([]SentinelMaster, 0, len(reply))

	for _, entry := range reply {
		fields, ok := entry.([]interface{})
		if !ok {
			continue
		}

		attrs := make(map[string]string, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			key, keyOk := fields[i].(string)
			value, valueOk := fields[i+1].(string)
			if keyOk && valueOk {
				attrs[key] = value
			}
		}

		master := SentinelMaster{
			Name:   attrs["name"],
			Host:   attrs["ip"],
			Status: MasterStatusActive,
		}
		master.Port, _ = strconv.Atoi(attrs["port"])
		master.NumberOfReplicas, _ = strconv.Atoi(attrs["num-slaves"])

		for _, flag := range strings.Split(attrs["flags"], ",") {
			if flag == "s_down" || flag == "o_down" {
				master.Status = MasterStatusDown
			}
		}

		masters = append(masters, master)
	}

	return masters
}
