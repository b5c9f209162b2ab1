// Package store implements the business record store: users, menu items,
// customers, transactions, quotations and commercial documents, plus the
// numbering, aggregate-maintenance and category bookkeeping that sits on top.
package store

import (
	"go-pos-backoffice/internal/models"

	"gorm.io/gorm"
)

// Store owns all persistence for the six entity kinds. The gorm handle is
// injected at construction; there is no package-level connection.
type Store struct {
	db *gorm.DB

	// legacyKeys keeps owner lookups compatible with records whose owner_id
	// was written before keys were canonicalised. Transitional: disable once
	// MigrateLegacyOwnerKeys has run everywhere.
	legacyKeys bool
}

// Option configures a Store.
type Option func(*Store)

// WithLegacyOwnerKeys toggles the dual-encoding owner queries. Defaults to on.
func WithLegacyOwnerKeys(enabled bool) Option {
	return func(s *Store) { s.legacyKeys = enabled }
}

// New wraps an open gorm connection. The connection must have been opened with
// TranslateError enabled so uniqueness violations surface as
// gorm.ErrDuplicatedKey.
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, legacyKeys: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate creates or updates the schema for every entity the store owns.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Category{},
		&models.Customer{},
		&models.Transaction{},
		&models.Quotation{},
		&models.Document{},
	)
}
