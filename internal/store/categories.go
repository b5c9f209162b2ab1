package store

import (
	"errors"
	"sort"
	"strings"

	"go-pos-backoffice/internal/models"

	"gorm.io/gorm"
)

// OtherCategory is the reserved bucket items fall back to when their category
// is deleted.
const OtherCategory = "other"

// normalizeCategory applies the canonical category spelling: trimmed,
// lowercase, spaces collapsed to underscores.
func normalizeCategory(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// ListCategories returns the owner's categories in sorted order: the union of
// the registry and the distinct values already on menu items. (Older data has
// categories that were never registered explicitly.)
func (s *Store) ListCategories(ownerID string) ([]string, error) {
	seen := make(map[string]bool)

	var fromItems []string
	err := s.ownerScope(ownerID)(s.db.Model(&models.MenuItem{})).
		Distinct("category").Pluck("category", &fromItems).Error
	if err != nil {
		return nil, wrap("list", "category", err)
	}
	for _, c := range fromItems {
		if c != "" {
			seen[c] = true
		}
	}

	var registered []string
	err = s.ownerScope(ownerID)(s.db.Model(&models.Category{})).
		Pluck("name", &registered).Error
	if err != nil {
		return nil, wrap("list", "category", err)
	}
	for _, c := range registered {
		seen[c] = true
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// AddCategory registers a category for the owner. Adding one that already
// exists is a no-op, not an error.
func (s *Store) AddCategory(ownerID, name string) error {
	name = normalizeCategory(name)
	if name == "" {
		return validationf("category name is required")
	}
	cat := models.Category{OwnerID: NormalizeID(ownerID), Name: name}
	if err := s.db.Create(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return wrap("add", "category", err)
	}
	return nil
}

// RenameCategory moves every menu item from old to new and updates the
// registry. Returns how many items were moved.
func (s *Store) RenameCategory(ownerID, oldName, newName string) (int64, error) {
	oldNorm := normalizeCategory(oldName)
	newName = normalizeCategory(newName)
	if oldNorm == "" || newName == "" {
		return 0, validationf("both old and new category names are required")
	}

	// Items created before the registry may carry the caller's original
	// spelling, so match both forms.
	res := s.ownerScope(ownerID)(s.db.Model(&models.MenuItem{})).
		Where("category IN (?, ?)", oldName, oldNorm).
		Update("category", newName)
	if res.Error != nil {
		return 0, wrap("rename", "category", res.Error)
	}

	if err := s.AddCategory(ownerID, newName); err != nil {
		return res.RowsAffected, err
	}
	err := s.ownerScope(ownerID)(s.db).
		Where("name = ?", oldNorm).
		Delete(&models.Category{}).Error
	if err != nil {
		return res.RowsAffected, wrap("rename", "category", err)
	}
	return res.RowsAffected, nil
}

// DeleteCategory reassigns the category's items to the reserved "other"
// bucket and drops the registry entry.
func (s *Store) DeleteCategory(ownerID, name string) error {
	norm := normalizeCategory(name)
	if norm == "" {
		return validationf("category name is required")
	}
	res := s.ownerScope(ownerID)(s.db.Model(&models.MenuItem{})).
		Where("category IN (?, ?)", name, norm).
		Update("category", OtherCategory)
	if res.Error != nil {
		return wrap("delete", "category", res.Error)
	}
	err := s.ownerScope(ownerID)(s.db).
		Where("name = ?", norm).
		Delete(&models.Category{}).Error
	if err != nil {
		return wrap("delete", "category", err)
	}
	return nil
}
