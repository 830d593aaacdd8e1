// Package audit emits an audit trail of registry and connection activity
// as RFC5424 syslog lines, optionally mirrored to a database table.
package audit
