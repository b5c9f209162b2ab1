package store

import (
	"errors"
	"strings"
	"time"

	"go-pos-backoffice/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Business types a tenant can sign up as.
var businessTypes = map[string]bool{
	"street_vendor": true,
	"tutor":         true,
	"yoga_teacher":  true,
	"consultant":    true,
	"retail":        true,
	"service":       true,
}

const (
	minBusinessNameLength = 2
	minPINLength          = 4
)

// NewUser carries the signup fields.
type NewUser struct {
	BusinessName    string
	PIN             string
	BusinessType    string
	BaseCurrency    string // defaults to MYR
	BusinessAddress *string
	TaxID           *string
}

// CreateUser registers a business tenant. The PIN is bcrypt-hashed before it
// touches storage; the raw PIN is never persisted or logged. Duplicate
// business names are rejected by the unique index, not a pre-check, so the
// race window is closed at the storage layer.
func (s *Store) CreateUser(p NewUser) (*models.User, error) {
	name := strings.TrimSpace(p.BusinessName)
	if len(name) < minBusinessNameLength {
		return nil, validationf("business name must be at least %d characters", minBusinessNameLength)
	}
	if len(p.PIN) < minPINLength {
		return nil, validationf("PIN must be at least %d characters", minPINLength)
	}
	if !businessTypes[p.BusinessType] {
		return nil, validationf("invalid business type: %q", p.BusinessType)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.PIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, wrap("create", "user", err)
	}

	currency := p.BaseCurrency
	if currency == "" {
		currency = "MYR"
	}

	user := models.User{
		BusinessName:    name,
		PinHash:         string(hash),
		BusinessType:    p.BusinessType,
		BaseCurrency:    currency,
		BusinessAddress: p.BusinessAddress,
		TaxID:           p.TaxID,
		PreferredTheme:  "Default",
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicatef("business name %q is already registered", name)
		}
		return nil, wrap("create", "user", err)
	}
	return &user, nil
}

// ValidatePIN checks login credentials and returns the canonical user id.
func (s *Store) ValidatePIN(businessName, pin string) (string, error) {
	var user models.User
	err := s.db.Where("business_name = ?", businessName).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", &NotFoundError{Kind: "user", ID: businessName}
	}
	if err != nil {
		return "", wrap("validate pin", "user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(pin)) != nil {
		return "", validationf("invalid PIN provided")
	}
	return user.ID, nil
}

// GetUser fetches a single tenant by id.
func (s *Store) GetUser(id string) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ?", NormalizeID(id)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "user", ID: id}
	}
	if err != nil {
		return nil, wrap("get", "user", err)
	}
	return &user, nil
}

// ListUsers returns every registered tenant.
func (s *Store) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, wrap("list", "user", err)
	}
	return users, nil
}

// DeleteUser removes a tenant and cascades to the owner's transactions and
// menu items. Explicit admin operation, not part of normal flow.
func (s *Store) DeleteUser(id string) error {
	canonical := NormalizeID(id)

	if err := s.ownerScope(id)(s.db).Delete(&models.Transaction{}).Error; err != nil {
		return wrap("delete", "user", err)
	}
	if err := s.ownerScope(id)(s.db).Delete(&models.MenuItem{}).Error; err != nil {
		return wrap("delete", "user", err)
	}

	res := s.db.Where("id = ?", canonical).Delete(&models.User{})
	if res.Error != nil {
		return wrap("delete", "user", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: "user", ID: id}
	}
	return nil
}

// BusinessInfoUpdate carries the optional business-settings fields. Nil means
// leave unchanged; a pointer to "" clears the field.
type BusinessInfoUpdate struct {
	BusinessName    *string
	BusinessAddress *string
	TaxID           *string
	BaseCurrency    *string
}

// UpdateBusinessInfo applies a partial update to the tenant's business
// settings.
func (s *Store) UpdateBusinessInfo(id string, u BusinessInfoUpdate) error {
	updates := map[string]any{"updated_at": time.Now()}
	if u.BusinessName != nil && *u.BusinessName != "" {
		updates["business_name"] = *u.BusinessName
	}
	if u.BusinessAddress != nil {
		updates["business_address"] = *u.BusinessAddress
	}
	if u.TaxID != nil {
		updates["tax_id"] = *u.TaxID
	}
	if u.BaseCurrency != nil && *u.BaseCurrency != "" {
		updates["base_currency"] = *u.BaseCurrency
	}

	res := s.db.Model(&models.User{}).Where("id = ?", NormalizeID(id)).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return duplicatef("business name is already registered")
		}
		return wrap("update", "user", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: "user", ID: id}
	}
	return nil
}

// UpdatePIN replaces the tenant's PIN, re-hashing it.
func (s *Store) UpdatePIN(id, newPIN string) error {
	if len(newPIN) < minPINLength {
		return validationf("PIN must be at least %d characters", minPINLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPIN), bcrypt.DefaultCost)
	if err != nil {
		return wrap("update pin", "user", err)
	}
	res := s.db.Model(&models.User{}).Where("id = ?", NormalizeID(id)).
		Updates(map[string]any{"pin_hash": string(hash), "updated_at": time.Now()})
	if res.Error != nil {
		return wrap("update pin", "user", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: "user", ID: id}
	}
	return nil
}

// UpdateTheme stores the tenant's preferred UI theme.
func (s *Store) UpdateTheme(id, theme string) error {
	res := s.db.Model(&models.User{}).Where("id = ?", NormalizeID(id)).
		Updates(map[string]any{"preferred_theme": theme, "updated_at": time.Now()})
	if res.Error != nil {
		return wrap("update theme", "user", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: "user", ID: id}
	}
	return nil
}

// GetTheme returns the tenant's preferred theme, defaulting to "Default".
func (s *Store) GetTheme(id string) (string, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return "", err
	}
	if user.PreferredTheme == "" {
		return "Default", nil
	}
	return user.PreferredTheme, nil
}

// UpdateRecoveryContact stores the tenant's account-recovery email and/or
// phone.
func (s *Store) UpdateRecoveryContact(id string, email, phone *string) error {
	updates := map[string]any{"updated_at": time.Now()}
	if email != nil {
		updates["recovery_email"] = *email
	}
	if phone != nil {
		updates["recovery_phone"] = *phone
	}
	res := s.db.Model(&models.User{}).Where("id = ?", NormalizeID(id)).Updates(updates)
	if res.Error != nil {
		return wrap("update recovery contact", "user", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: "user", ID: id}
	}
	return nil
}

// FindBusinessByRecoveryContact looks a tenant up by recovery email or phone,
// returning enough to remind the caller which business they own.
func (s *Store) FindBusinessByRecoveryContact(email, phone string) (*models.User, error) {
	if email == "" && phone == "" {
		return nil, validationf("either recovery email or phone is required")
	}
	q := s.db.Model(&models.User{})
	if email != "" {
		q = q.Where("recovery_email = ?", email)
	} else {
		q = q.Where("recovery_phone = ?", phone)
	}
	var user models.User
	err := q.First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "user", ID: email + phone}
	}
	if err != nil {
		return nil, wrap("find by recovery contact", "user", err)
	}
	return &user, nil
}

// VerifyRecoveryAndResetPIN resets a PIN when the given recovery contact
// matches the business's stored recovery email or phone.
func (s *Store) VerifyRecoveryAndResetPIN(businessName, recoveryContact, newPIN string) error {
	if len(newPIN) < minPINLength {
		return validationf("PIN must be at least %d characters", minPINLength)
	}
	var user models.User
	err := s.db.Where("business_name = ?", businessName).
		Where("recovery_email = ? OR recovery_phone = ?", recoveryContact, recoveryContact).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Kind: "user", ID: businessName}
	}
	if err != nil {
		return wrap("reset pin", "user", err)
	}
	return s.UpdatePIN(user.ID, newPIN)
}
