package store

// HealthStore abstracts registry connectivity checks
type HealthStore interface {
	// CheckConnectivity verifies the registry database is reachable.
	CheckConnectivity() error
}
