package audit

import "fmt"

// ConnectionEvent records a connection attempt to a Redis instance, either
// for a saved record or an ad-hoc connectivity test.
type ConnectionEvent struct {
	DatabaseID   string
	Host         string
	Port         int
	ClientIP     string
	Test         bool
	Success      bool
	ErrorMessage string
}

func (e ConnectionEvent) MessageID() string {
	if e.Test {
		return "connection-test"
	}
	return "connect"
}

func (e ConnectionEvent) Message() string {
	target := e.DatabaseID
	if target == "" {
		target = fmt.Sprintf("%s:%d", e.Host, e.Port)
	}
	if e.Success {
		return fmt.Sprintf("connected to %s", target)
	}
	msg := fmt.Sprintf("failed to connect to %s", target)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ConnectionEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ConnectionEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ConnectionEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDSubject: {
			"address": fmt.Sprintf("%s:%d", e.Host, e.Port),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.MessageID(),
		},
	}
	if e.DatabaseID != "" {
		sd[SDIDSubject]["database"] = e.DatabaseID
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}
