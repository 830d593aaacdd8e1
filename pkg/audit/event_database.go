package audit

import "fmt"

// DatabaseAddedEvent records the registration of a connection record.
type DatabaseAddedEvent struct {
	DatabaseID     string
	DatabaseName   string
	Host           string
	Port           int
	ConnectionType string
	ClientIP       string
}

func (e DatabaseAddedEvent) MessageID() string {
	return "database-added"
}

func (e DatabaseAddedEvent) Message() string {
	return fmt.Sprintf("database %s (%s:%d) added as %s", e.DatabaseName, e.Host, e.Port, e.DatabaseID)
}

func (e DatabaseAddedEvent) Severity() Severity {
	return SeverityInfo
}

func (e DatabaseAddedEvent) Facility() int {
	return FacilityAuth
}

func (e DatabaseAddedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"database": e.DatabaseID,
			"name":     e.DatabaseName,
			"address":  fmt.Sprintf("%s:%d", e.Host, e.Port),
			"type":     e.ConnectionType,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "add",
		},
	}
}

// DatabaseDeletedEvent records the removal of connection records.
type DatabaseDeletedEvent struct {
	DatabaseIDs []string
	Affected    int64
	ClientIP    string
}

func (e DatabaseDeletedEvent) MessageID() string {
	return "database-deleted"
}

func (e DatabaseDeletedEvent) Message() string {
	return fmt.Sprintf("%d of %d requested databases deleted", e.Affected, len(e.DatabaseIDs))
}

func (e DatabaseDeletedEvent) Severity() Severity {
	return SeverityNotice
}

func (e DatabaseDeletedEvent) Facility() int {
	return FacilityAuth
}

func (e DatabaseDeletedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"requested": fmt.Sprintf("%d", len(e.DatabaseIDs)),
			"affected":  fmt.Sprintf("%d", e.Affected),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "delete",
		},
	}
}
