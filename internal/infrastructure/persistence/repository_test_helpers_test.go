package persistence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/database"
)

// newMockConnection returns a mysql-flavoured connection so '?' placeholders
// reach sqlmock unchanged.
func newMockConnection(t *testing.T) (*database.Connection, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return database.NewFromDB(db, "mysql"), mock
}
