package store

import (
	"go-pos-backoffice/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NormalizeID maps any recognised key encoding onto the canonical lowercase
// hyphenated form. Older records carried owner ids in whatever shape the
// client sent (hyphenless hex, uppercase, braced), so every caller-supplied id
// goes through here first. An unrecognised string is treated as a literal key
// and passed through untouched; normalization never fails.
func NormalizeID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}

// ownerScope scopes a query to one owner. While the legacy-keys shim is on it
// matches both the canonical and the raw encoding, because one owner's records
// were never backfilled to a single form.
func (s *Store) ownerScope(ownerID string) func(*gorm.DB) *gorm.DB {
	canonical := NormalizeID(ownerID)
	return func(tx *gorm.DB) *gorm.DB {
		if !s.legacyKeys || canonical == ownerID {
			return tx.Where("owner_id = ?", canonical)
		}
		return tx.Where("owner_id IN ?", []string{canonical, ownerID})
	}
}

// activeOnly matches active records. A missing flag counts as active: rows
// written before the flag existed have it NULL.
func activeOnly(tx *gorm.DB) *gorm.DB {
	return tx.Where("is_active = ? OR is_active IS NULL", true)
}

// MigrateLegacyOwnerKeys rewrites every stored owner_id to its canonical
// encoding, one table at a time. Run once during rollout, then construct the
// store with WithLegacyOwnerKeys(false). Returns the number of rows rewritten.
func (s *Store) MigrateLegacyOwnerKeys() (int64, error) {
	tables := []any{
		&models.MenuItem{},
		&models.Category{},
		&models.Customer{},
		&models.Transaction{},
		&models.Quotation{},
		&models.Document{},
	}

	var rewritten int64
	for _, model := range tables {
		var ids []string
		if err := s.db.Model(model).Distinct("owner_id").Pluck("owner_id", &ids).Error; err != nil {
			return rewritten, wrap("migrate owner keys", "store", err)
		}
		for _, id := range ids {
			canonical := NormalizeID(id)
			if canonical == id {
				continue
			}
			res := s.db.Model(model).Where("owner_id = ?", id).Update("owner_id", canonical)
			if res.Error != nil {
				return rewritten, wrap("migrate owner keys", "store", res.Error)
			}
			rewritten += res.RowsAffected
		}
	}
	return rewritten, nil
}
