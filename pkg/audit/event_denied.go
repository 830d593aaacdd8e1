package audit

import "fmt"

// CommandDeniedEvent records a Redis command rejected by the server's ACL
// rules for the credentials on a connection record.
type CommandDeniedEvent struct {
	DatabaseID   string
	Operation    string
	ClientIP     string
	ErrorMessage string
}

func (e CommandDeniedEvent) MessageID() string {
	return "command-denied"
}

func (e CommandDeniedEvent) Message() string {
	msg := fmt.Sprintf("%s denied on database %s", e.Operation, e.DatabaseID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e CommandDeniedEvent) Severity() Severity {
	return SeverityWarning
}

func (e CommandDeniedEvent) Facility() int {
	return FacilityAuthPriv
}

func (e CommandDeniedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"database": e.DatabaseID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    "denied",
		},
	}
}
