package audit

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	mock.ExpectExec("INSERT INTO messages").
		WithArgs(
			FacilityAuthPriv,
			int(SeverityInfo),
			sqlmock.AnyArg(), // timestamp
			sqlmock.AnyArg(), // hostname
			"redisinsight",
			sqlmock.AnyArg(), // procid
			"connect",
			sqlmock.AnyArg(), // sdata json
			sqlmock.AnyArg(), // message
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := ConnectionEvent{
		DatabaseID: "ck9xyz",
		Host:       "redis.internal",
		Port:       6379,
		ClientIP:   "10.0.0.1",
		Success:    true,
	}

	if err := store.Save(event); err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveNilDB(t *testing.T) {
	store := &Store{}

	event := CommandDeniedEvent{DatabaseID: "ck9xyz", Operation: "connect"}
	if err := store.Save(event); err != nil {
		t.Errorf("Save() with nil db should be a no-op, got %v", err)
	}
}

func TestNewStoreWithoutURL(t *testing.T) {
	t.Setenv("AUDIT_DATABASE_URL", "")

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store != nil {
		t.Error("expected nil store when AUDIT_DATABASE_URL is unset")
	}
}
