package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore opens a fresh in-memory database per test. TranslateError is
// on so uniqueness violations surface as gorm.ErrDuplicatedKey, same as
// production.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s := New(db)
	require.NoError(t, s.Migrate())
	return s
}

// seedUser registers a tenant and returns its id.
func seedUser(t *testing.T, s *Store, businessName string) string {
	t.Helper()
	user, err := s.CreateUser(NewUser{
		BusinessName: businessName,
		PIN:          "123456",
		BusinessType: "retail",
	})
	require.NoError(t, err)
	return user.ID
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
