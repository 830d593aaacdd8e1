package instance

import (
	"net"
	"strconv"
	"strings"
)

// ClusterDetails summarises CLUSTER INFO plus the node table from
// CLUSTER NODES.
type ClusterDetails struct {
	State         string        `json:"state"`
	SlotsAssigned int64         `json:"slotsAssigned"`
	SlotsOk       int64         `json:"slotsOk"`
	KnownNodes    int64         `json:"knownNodes"`
	Size          int64         `json:"size"`
	Nodes         []ClusterNode `json:"nodes"`
}

// ClusterNode is one line of CLUSTER NODES output.
type ClusterNode struct {
	ID        string   `json:"id"`
	Host      string   `json:"host"`
	Port      int      `json:"port"`
	Role      string   `json:"role"`
	Health    string   `json:"health"`
	PrimaryID string   `json:"primaryId,omitempty"`
	Slots     []string `json:"slots,omitempty"`
}

// Node roles and health states as reported in cluster details.
const (
	RolePrimary = "primary"
	RoleReplica = "replica"

	HealthOnline  = "online"
	HealthOffline = "offline"
	HealthLoading = "loading"
)

// parseClusterInfo reads the "cluster_state:ok" style lines of a
// CLUSTER INFO reply.
func parseClusterInfo(raw string) *ClusterDetails {
	details := &ClusterDetails{}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		switch key {
		case "cluster_state":
			details.State = value
		case "cluster_slots_assigned":
			details.SlotsAssigned, _ = strconv.ParseInt(value, 10, 64)
		case "cluster_slots_ok":
			details.SlotsOk, _ = strconv.ParseInt(value, 10, 64)
		case "cluster_known_nodes":
			details.KnownNodes, _ = strconv.ParseInt(value, 10, 64)
		case "cluster_size":
			details.Size, _ = strconv.ParseInt(value, 10, 64)
		}
	}

	return details
}

// parseClusterNodes reads the node table from a CLUSTER NODES reply.
// Each line is:
//
//	<id> <ip:port@cport> <flags> <primary> <ping> <pong> <epoch> <state> <slots...>
func parseClusterNodes(raw string) []ClusterNode {
	var nodes []ClusterNode

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 8 {
			continue
		}

		node := ClusterNode{ID: fields[0]}

		// The address field carries the cluster bus port after "@".
		addr, _, _ := strings.Cut(fields[1], "@")
		if host, port, err := net.SplitHostPort(addr); err == nil {
			node.Host = host
			node.Port, _ = strconv.Atoi(port)
		}

		flags := strings.Split(fields[2], ",")
		node.Role = RoleReplica
		for _, flag := range flags {
			if flag == "master" {
				node.Role = RolePrimary
			}
		}

		node.Health = HealthOnline
		switch {
		case hasFlag(flags, "fail"), hasFlag(flags, "fail?"):
			node.Health = HealthOffline
		case fields[7] != "connected":
			node.Health = HealthLoading
		}

		if fields[3] != "-" {
			node.PrimaryID = fields[3]
		}

		if len(fields) > 8 {
			node.Slots = fields[8:]
		}

		nodes = append(nodes, node)
	}

	return nodes
}

func hasFlag(flags []string, name string) bool {
	for _, flag := range flags {
		if flag == name {
			return true
		}
	}
	return false
}
