package store

import (
	"errors"
	"sort"
	"strings"
	"time"

	"go-pos-backoffice/internal/models"

	"gorm.io/gorm"
)

// NewMenuItem carries the fields for creating a menu item.
type NewMenuItem struct {
	OwnerID       string
	Name          string
	Price         string
	Category      string
	Description   *string
	StockQuantity *int // nil = unlimited
	Inactive      bool
	// AllowDuplicates skips the create-or-get name check.
	AllowDuplicates bool
}

// CreateMenuItem adds a sellable item. Unless AllowDuplicates is set, a
// case-insensitive exact-name match scoped to the owner short-circuits to the
// existing record's id: create-or-get, not an error.
func (s *Store) CreateMenuItem(p NewMenuItem) (string, error) {
	if p.OwnerID == "" || p.Name == "" || p.Price == "" || p.Category == "" {
		return "", validationf("owner_id, name, price and category are required")
	}
	price, err := normalizeMoney("price", p.Price)
	if err != nil {
		return "", err
	}

	if !p.AllowDuplicates {
		var existing models.MenuItem
		err := s.ownerScope(p.OwnerID)(s.db).
			Where("LOWER(name) = LOWER(?)", p.Name).
			First(&existing).Error
		if err == nil {
			return existing.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", wrap("create", "menu item", err)
		}
	}

	active := !p.Inactive
	item := models.MenuItem{
		OwnerID:       NormalizeID(p.OwnerID),
		Name:          p.Name,
		Price:         price,
		Category:      p.Category,
		Description:   p.Description,
		StockQuantity: p.StockQuantity,
		IsActive:      &active,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return "", wrap("create", "menu item", err)
	}
	return item.ID, nil
}

// GetMenuItem fetches one item by id.
func (s *Store) GetMenuItem(id string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.Where("id = ?", NormalizeID(id)).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "menu item", ID: id}
	}
	if err != nil {
		return nil, wrap("get", "menu item", err)
	}
	return &item, nil
}

// ListMenuItems returns every menu item for an owner, regardless of active
// flag.
func (s *Store) ListMenuItems(ownerID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := s.ownerScope(ownerID)(s.db).Order("name").Find(&items).Error; err != nil {
		return nil, wrap("list", "menu item", err)
	}
	return items, nil
}

// MenuItemUpdate carries partial field-level updates. Nil leaves a field
// unchanged.
type MenuItemUpdate struct {
	Name          *string
	Price         *string
	Category      *string
	Description   *string
	StockQuantity *int
	IsActive      *bool
}

// UpdateMenuItem applies a partial update and bumps updated_at.
func (s *Store) UpdateMenuItem(id string, u MenuItemUpdate) error {
	updates := map[string]any{"updated_at": time.Now()}
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Price != nil {
		price, err := normalizeMoney("price", *u.Price)
		if err != nil {
			return err
		}
		updates["price"] = price
	}
	if u.Category != nil {
		updates["category"] = *u.Category
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.StockQuantity != nil {
		updates["stock_quantity"] = *u.StockQuantity
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}

	res := s.db.Model(&models.MenuItem{}).Where("id = ?", NormalizeID(id)).Updates(updates)
	if res.Error != nil {
		return wrap("update", "menu item", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: "menu item", ID: id}
	}
	return nil
}

// DeleteMenuItem removes an item permanently.
func (s *Store) DeleteMenuItem(id string) error {
	res := s.db.Where("id = ?", NormalizeID(id)).Delete(&models.MenuItem{})
	if res.Error != nil {
		return wrap("delete", "menu item", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: "menu item", ID: id}
	}
	return nil
}

// RemoveDuplicateMenuItems deletes items sharing a case-insensitive name with
// an older sibling, keeping the oldest of each group. Maintenance operation
// for data that predates the create-or-get check. Returns how many were
// removed.
func (s *Store) RemoveDuplicateMenuItems(ownerID string) (int, error) {
	items, err := s.ListMenuItems(ownerID)
	if err != nil {
		return 0, err
	}

	byName := make(map[string][]models.MenuItem)
	for _, item := range items {
		key := strings.ToLower(item.Name)
		byName[key] = append(byName[key], item)
	}

	removed := 0
	for _, group := range byName {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			return group[i].CreatedAt.Before(group[j].CreatedAt)
		})
		for _, dup := range group[1:] {
			res := s.db.Where("id = ?", dup.ID).Delete(&models.MenuItem{})
			if res.Error != nil {
				return removed, wrap("remove duplicates", "menu item", res.Error)
			}
			removed += int(res.RowsAffected)
		}
	}
	return removed, nil
}
