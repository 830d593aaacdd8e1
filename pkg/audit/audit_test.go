package audit

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	event := ConnectionEvent{
		DatabaseID: "ck9xyz",
		Host:       "redis.internal",
		Port:       6379,
		ClientIP:   "192.168.1.1",
		Success:    true,
	}

	logger.Log(event)

	output := buf.String()

	// Check RFC5424 format components
	if !strings.Contains(output, "redisinsight") {
		t.Error("Expected app name 'redisinsight' in output")
	}
	if !strings.Contains(output, "connect") {
		t.Error("Expected message ID 'connect' in output")
	}
	if !strings.Contains(output, "ck9xyz") {
		t.Error("Expected database id in output")
	}
	if !strings.Contains(output, "192.168.1.1") {
		t.Error("Expected client IP in output")
	}
	if !strings.HasPrefix(output, "<") {
		t.Error("Expected PRI prefix in output")
	}
}

func TestConnectionEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     ConnectionEvent
		wantMsg   string
		wantSev   Severity
		wantFac   int
		wantMsgID string
	}{
		{
			name: "successful connect",
			event: ConnectionEvent{
				DatabaseID: "ck9xyz",
				Host:       "redis.internal",
				Port:       6379,
				ClientIP:   "10.0.0.1",
				Success:    true,
			},
			wantMsg:   "connected to ck9xyz",
			wantSev:   SeverityInfo,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "connect",
		},
		{
			name: "failed test connection",
			event: ConnectionEvent{
				Host:         "redis.internal",
				Port:         6379,
				ClientIP:     "10.0.0.1",
				Test:         true,
				Success:      false,
				ErrorMessage: "connection refused",
			},
			wantMsg:   "failed to connect to redis.internal:6379: connection refused",
			wantSev:   SeverityWarning,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "connection-test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != tt.wantFac {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), tt.wantFac)
			}
			if tt.event.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %v, want %v", tt.event.MessageID(), tt.wantMsgID)
			}
		})
	}
}

func TestDatabaseEvents(t *testing.T) {
	added := DatabaseAddedEvent{
		DatabaseID:     "ck9xyz",
		DatabaseName:   "prod-cache",
		Host:           "redis.internal",
		Port:           6379,
		ConnectionType: "STANDALONE",
		ClientIP:       "10.0.0.1",
	}
	if !strings.Contains(added.Message(), "prod-cache") {
		t.Errorf("Message() = %q, want database name", added.Message())
	}
	if added.StructuredData()[SDIDAction]["operation"] != "add" {
		t.Error("expected add operation in structured data")
	}

	deleted := DatabaseDeletedEvent{
		DatabaseIDs: []string{"a", "b", "c"},
		Affected:    2,
		ClientIP:    "10.0.0.1",
	}
	if deleted.Message() != "2 of 3 requested databases deleted" {
		t.Errorf("Message() = %q", deleted.Message())
	}
	if deleted.Severity() != SeverityNotice {
		t.Errorf("Severity() = %v, want notice", deleted.Severity())
	}
}

func TestCommandDeniedEvent(t *testing.T) {
	event := CommandDeniedEvent{
		DatabaseID:   "ck9xyz",
		Operation:    "stream-get-entries",
		ClientIP:     "10.0.0.1",
		ErrorMessage: "NOPERM this user has no permissions",
	}

	if event.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want warning", event.Severity())
	}
	if !strings.Contains(event.Message(), "denied on database ck9xyz") {
		t.Errorf("Message() = %q", event.Message())
	}
	if event.StructuredData()[SDIDAction]["result"] != "denied" {
		t.Error("expected denied result in structured data")
	}
}

func TestStructuredDataEscaping(t *testing.T) {
	escaped := escapeSDValue(`va"lu\e]`)
	want := `"va\"lu\\e\]"`
	if escaped != want {
		t.Errorf("escapeSDValue() = %q, want %q", escaped, want)
	}
}
