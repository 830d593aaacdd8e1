// Package store provides storage abstractions for the RedisInsight server.
//
// This package defines interfaces for registry database operations, allowing
// the server endpoints to be decoupled from the specific database
// implementation. This enables easier testing with mocks and potential
// support for different storage backends.
//
// # Available Stores
//
//   - DatabasesStore: connection record operations (create, list, delete)
//   - CertificatesStore: CA and client certificate operations
//   - HealthStore: registry connectivity checks
//
// # Usage
//
//	databases := gorm.NewDatabasesStore(db)
//	record, err := databases.GetDatabase("ckv9ne1y4000001l5fmnhbbgh")
//	if err != nil {
//	    if errors.Is(err, store.ErrDatabaseNotFound) {
//	        // Handle not found
//	    }
//	}
package store
