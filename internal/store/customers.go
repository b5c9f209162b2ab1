package store

import (
	"errors"
	"strings"
	"time"

	"go-pos-backoffice/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NewCustomer carries the fields for creating a customer record.
type NewCustomer struct {
	OwnerID      string
	Name         string
	Phone        *string
	Email        *string
	Address      *string
	Birthday     *string
	Notes        *string
	CustomerType string // Business or Individual; defaults to Individual
}

// CreateCustomer adds a CRM record. At least one of phone or email is
// required. The per-owner CUST-NNN code is allocated with the same
// count-then-probe scheme as document numbers.
func (s *Store) CreateCustomer(p NewCustomer) (*models.Customer, error) {
	hasPhone := p.Phone != nil && strings.TrimSpace(*p.Phone) != ""
	hasEmail := p.Email != nil && strings.TrimSpace(*p.Email) != ""
	if !hasPhone && !hasEmail {
		return nil, validationf("either phone or email must be provided")
	}
	if p.OwnerID == "" || strings.TrimSpace(p.Name) == "" {
		return nil, validationf("owner_id and name are required")
	}

	customerType := p.CustomerType
	if customerType == "" {
		customerType = "Individual"
	}

	active := true
	customer := models.Customer{
		OwnerID:        NormalizeID(p.OwnerID),
		Name:           strings.TrimSpace(p.Name),
		Phone:          p.Phone,
		Email:          p.Email,
		Address:        p.Address,
		Birthday:       p.Birthday,
		Notes:          p.Notes,
		CustomerType:   customerType,
		TotalSpent:     decimal.Zero,
		SMSMarketing:   true,
		EmailMarketing: true,
		IsActive:       &active,
	}

	// A concurrent writer can win the same CUST number between probe and
	// insert; the unique index catches it and we re-allocate.
	for attempt := 0; attempt < 3; attempt++ {
		number, err := s.nextCustomerID(p.OwnerID)
		if err != nil {
			return nil, err
		}
		customer.CustomerID = number
		err = s.db.Create(&customer).Error
		if err == nil {
			return &customer, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, wrap("create", "customer", err)
		}
		customer.ID = ""
	}
	return nil, wrap("create", "customer", gorm.ErrDuplicatedKey)
}

// GetCustomer fetches one customer by id.
func (s *Store) GetCustomer(id string) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.Where("id = ?", NormalizeID(id)).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "customer", ID: id}
	}
	if err != nil {
		return nil, wrap("get", "customer", err)
	}
	return &customer, nil
}

// GetCustomerByContact finds an active customer by phone and/or email.
func (s *Store) GetCustomerByContact(ownerID string, phone, email string) (*models.Customer, error) {
	if phone == "" && email == "" {
		return nil, validationf("either phone or email must be provided for customer search")
	}

	q := activeOnly(s.ownerScope(ownerID)(s.db))
	switch {
	case phone != "" && email != "":
		q = q.Where("phone = ? OR email = ?", phone, email)
	case phone != "":
		q = q.Where("phone = ?", phone)
	default:
		q = q.Where("email = ?", email)
	}

	var customer models.Customer
	err := q.First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "customer", ID: phone + email}
	}
	if err != nil {
		return nil, wrap("find by contact", "customer", err)
	}
	return &customer, nil
}

// CustomerUpdate carries partial field-level updates.
type CustomerUpdate struct {
	Name           *string
	Phone          *string
	Email          *string
	Address        *string
	Notes          *string
	SMSMarketing   *bool
	EmailMarketing *bool
}

// UpdateCustomer applies a partial update.
func (s *Store) UpdateCustomer(id string, u CustomerUpdate) error {
	updates := map[string]any{"updated_at": time.Now()}
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Phone != nil {
		updates["phone"] = *u.Phone
	}
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.Address != nil {
		updates["address"] = *u.Address
	}
	if u.Notes != nil {
		updates["notes"] = *u.Notes
	}
	if u.SMSMarketing != nil {
		updates["sms_marketing"] = *u.SMSMarketing
	}
	if u.EmailMarketing != nil {
		updates["email_marketing"] = *u.EmailMarketing
	}

	res := s.db.Model(&models.Customer{}).Where("id = ?", NormalizeID(id)).Updates(updates)
	if res.Error != nil {
		return wrap("update", "customer", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: "customer", ID: id}
	}
	return nil
}

// DeactivateCustomer soft-deletes for search purposes. Customer records are
// never hard-deleted; their history keeps referencing them.
func (s *Store) DeactivateCustomer(id string) error {
	res := s.db.Model(&models.Customer{}).Where("id = ?", NormalizeID(id)).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now()})
	if res.Error != nil {
		return wrap("deactivate", "customer", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: "customer", ID: id}
	}
	return nil
}

// CustomerSummary is a spending profile derived from the stored aggregates.
type CustomerSummary struct {
	CustomerID         string     `json:"customer_id"`
	Name               string     `json:"name"`
	TotalVisits        int        `json:"total_visits"`
	TotalSpent         string     `json:"total_spent"`
	AverageTransaction string     `json:"average_transaction"`
	LastVisit          *time.Time `json:"last_visit,omitempty"`
}

// GetCustomerSummary reports a customer's visit and spending profile.
func (s *Store) GetCustomerSummary(id string) (*CustomerSummary, error) {
	customer, err := s.GetCustomer(id)
	if err != nil {
		return nil, err
	}
	average := decimal.Zero
	if customer.TotalVisits > 0 {
		average = customer.TotalSpent.Div(decimal.NewFromInt(int64(customer.TotalVisits))).Round(2)
	}
	return &CustomerSummary{
		CustomerID:         customer.CustomerID,
		Name:               customer.Name,
		TotalVisits:        customer.TotalVisits,
		TotalSpent:         moneyString(customer.TotalSpent),
		AverageTransaction: moneyString(average),
		LastVisit:          customer.LastVisit,
	}, nil
}

// RecordCustomerVisit folds one sale into the customer's derived aggregates.
// The increment happens in a single UPDATE so concurrent sales against the
// same customer cannot lose counts.
func (s *Store) RecordCustomerVisit(customerID, amount string, visitedAt time.Time) error {
	amt, err := parseMoney("transaction amount", amount)
	if err != nil {
		return err
	}
	res := s.db.Model(&models.Customer{}).Where("id = ?", NormalizeID(customerID)).
		Updates(map[string]any{
			"total_visits": gorm.Expr("total_visits + 1"),
			"total_spent":  gorm.Expr("total_spent + ?", amt),
			"last_visit":   visitedAt,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return wrap("record visit", "customer", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: "customer", ID: customerID}
	}
	return nil
}

// Customer names that never become CRM records.
var skippedCustomerNames = map[string]bool{
	"walk-in":   true,
	"anonymous": true,
	"none":      true,
}

type customerStats struct {
	visits     int
	spent      decimal.Decimal
	firstVisit time.Time
	lastVisit  time.Time
}

// SyncCustomersFromTransactions reconciles the customer collection against
// raw sales history: it groups the owner's transactions by customer name,
// recomputes visit counts, spend totals and first/last visit dates, creates
// any customer not yet present (with placeholder contact details) and
// overwrites the derived stats on the rest. Setting rather than incrementing
// makes the whole pass idempotent. Returns how many customers were created.
func (s *Store) SyncCustomersFromTransactions(ownerID string) (int, error) {
	var transactions []models.Transaction
	if err := s.ownerScope(ownerID)(s.db).Find(&transactions).Error; err != nil {
		return 0, wrap("sync customers", "transaction", err)
	}

	stats := make(map[string]*customerStats)
	for _, t := range transactions {
		if t.CustomerName == nil {
			continue
		}
		name := strings.TrimSpace(*t.CustomerName)
		if name == "" || skippedCustomerNames[strings.ToLower(name)] {
			continue
		}

		amount, err := decimal.NewFromString(t.TotalAmount)
		if err != nil {
			amount = decimal.Zero
		}

		st, ok := stats[name]
		if !ok {
			st = &customerStats{firstVisit: t.CreatedAt, lastVisit: t.CreatedAt}
			stats[name] = st
		}
		st.visits++
		st.spent = st.spent.Add(amount)
		if t.CreatedAt.Before(st.firstVisit) {
			st.firstVisit = t.CreatedAt
		}
		if t.CreatedAt.After(st.lastVisit) {
			st.lastVisit = t.CreatedAt
		}
	}

	var existing []models.Customer
	if err := s.ownerScope(ownerID)(s.db).Find(&existing).Error; err != nil {
		return 0, wrap("sync customers", "customer", err)
	}
	existingByName := make(map[string]string, len(existing))
	for _, c := range existing {
		existingByName[c.Name] = c.ID
	}

	created := 0
	for name, st := range stats {
		if id, ok := existingByName[name]; ok {
			lastVisit := st.lastVisit
			err := s.db.Model(&models.Customer{}).Where("id = ?", id).
				Updates(map[string]any{
					"total_visits": st.visits,
					"total_spent":  st.spent.Round(2),
					"last_visit":   lastVisit,
					"updated_at":   time.Now(),
				}).Error
			if err != nil {
				return created, wrap("sync customers", "customer", err)
			}
			continue
		}

		number, err := s.nextCustomerID(ownerID)
		if err != nil {
			return created, err
		}
		email := placeholderEmail(name)
		notes := "Auto-created from sales history"
		active := true
		lastVisit := st.lastVisit
		customer := models.Customer{
			OwnerID:      NormalizeID(ownerID),
			CustomerID:   number,
			Name:         name,
			Email:        &email,
			CustomerType: "Individual",
			Notes:        &notes,
			TotalVisits:  st.visits,
			TotalSpent:   st.spent.Round(2),
			LastVisit:    &lastVisit,
			IsActive:     &active,
			CreatedAt:    st.firstVisit,
		}
		if err := s.db.Create(&customer).Error; err != nil {
			return created, wrap("sync customers", "customer", err)
		}
		created++
	}
	return created, nil
}

// placeholderEmail derives a deterministic stand-in contact for customers
// synced from history without any real contact details.
func placeholderEmail(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", ".")
	slug = strings.ReplaceAll(slug, "'", "")
	slug = strings.ReplaceAll(slug, "-", "")
	return slug + "@example.com"
}

// CustomersForMarketing returns active customers opted in for the given
// channel: "sms", "email" or "both".
func (s *Store) CustomersForMarketing(ownerID, marketingType string) ([]models.Customer, error) {
	q := activeOnly(s.ownerScope(ownerID)(s.db))
	switch marketingType {
	case "sms":
		q = q.Where("sms_marketing = ? AND phone IS NOT NULL", true)
	case "email":
		q = q.Where("email_marketing = ? AND email IS NOT NULL", true)
	default:
		q = q.Where("(sms_marketing = ? AND phone IS NOT NULL) OR (email_marketing = ? AND email IS NOT NULL)", true, true)
	}

	var customers []models.Customer
	if err := q.Find(&customers).Error; err != nil {
		return nil, wrap("list for marketing", "customer", err)
	}
	return customers, nil
}
