package store

import "go-pos-backoffice/internal/models"

// Older clients still call menu items "offerings". These aliases are a thin
// compatibility layer over the menu-item methods; no logic lives here.

// CreateOffering is a deprecated alias.
//
// Deprecated: use CreateMenuItem.
func (s *Store) CreateOffering(p NewMenuItem) (string, error) {
	return s.CreateMenuItem(p)
}

// ListOfferings is a deprecated alias.
//
// Deprecated: use ListMenuItems.
func (s *Store) ListOfferings(ownerID string) ([]models.MenuItem, error) {
	return s.ListMenuItems(ownerID)
}

// UpdateOffering is a deprecated alias.
//
// Deprecated: use UpdateMenuItem.
func (s *Store) UpdateOffering(id string, u MenuItemUpdate) error {
	return s.UpdateMenuItem(id, u)
}

// DeleteOffering is a deprecated alias.
//
// Deprecated: use DeleteMenuItem.
func (s *Store) DeleteOffering(id string) error {
	return s.DeleteMenuItem(id)
}
