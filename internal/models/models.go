package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User - The business tenant. Every other record is owned by one of these.
type User struct {
	ID              string  `gorm:"primaryKey;size:36" json:"id"`
	BusinessName    string  `gorm:"uniqueIndex;size:120" json:"business_name"`
	PinHash         string  `json:"-"` // Never return this in JSON
	BusinessType    string  `gorm:"size:40" json:"business_type"` // street_vendor, tutor, retail, ...
	BaseCurrency    string  `gorm:"size:8" json:"base_currency"`
	BusinessAddress *string `json:"business_address,omitempty"`
	TaxID           *string `json:"tax_id,omitempty"`
	RecoveryEmail   *string `json:"recovery_email,omitempty"`
	RecoveryPhone   *string `json:"recovery_phone,omitempty"`
	PreferredTheme  string  `gorm:"size:40" json:"preferred_theme"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// MenuItem - A sellable product or service
type MenuItem struct {
	ID            string  `gorm:"primaryKey;size:36" json:"id"`
	OwnerID       string  `gorm:"index;size:64" json:"owner_id"`
	Name          string  `gorm:"size:160" json:"name"`
	Price         string  `gorm:"size:20" json:"price"` // monetary string, e.g. "8.50"
	Category      string  `gorm:"size:80" json:"category"`
	Description   *string `json:"description,omitempty"`
	StockQuantity *int    `json:"stock_quantity,omitempty"` // nil = unlimited
	// Pointer so legacy rows without the flag stay distinguishable from false.
	IsActive *bool `json:"is_active,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Customer - A CRM record, owned by one business
type Customer struct {
	ID           string  `gorm:"primaryKey;size:36" json:"id"`
	OwnerID      string  `gorm:"index;size:64;uniqueIndex:idx_owner_customer_no" json:"owner_id"`
	CustomerID   string  `gorm:"size:20;uniqueIndex:idx_owner_customer_no" json:"customer_id"` // CUST-001, CUST-002, ...
	Name         string  `gorm:"size:160" json:"name"`
	Phone        *string `gorm:"index" json:"phone,omitempty"`
	Email        *string `gorm:"index" json:"email,omitempty"`
	Address      *string `json:"address,omitempty"`
	CustomerType string  `gorm:"size:20" json:"customer_type"` // Business or Individual
	Birthday     *string `json:"birthday,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	// Derived aggregates, maintained by the store on every linked sale.
	TotalVisits int             `json:"total_visits"`
	TotalSpent  decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_spent"`
	LastVisit   *time.Time      `json:"last_visit,omitempty"`

	SMSMarketing   bool  `json:"sms_marketing"`
	EmailMarketing bool  `json:"email_marketing"`
	IsActive       *bool `json:"is_active,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// LineItem - One row of a sale, quotation or document. Always a snapshot:
// names and prices are copied at write time, never resolved live from MenuItem.
type LineItem struct {
	OfferingID string `json:"offering_id,omitempty"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	TotalPrice string `json:"total_price"`
}

// Transaction - A recorded sale. Append-only: never updated or deleted in
// normal flow.
type Transaction struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	OwnerID        string     `gorm:"index;size:64" json:"owner_id"`
	Items          []LineItem `gorm:"serializer:json" json:"items"`
	TotalAmount    string     `gorm:"size:20" json:"total_amount"`
	Currency       string     `gorm:"size:8" json:"currency"`
	CustomerID     *string    `gorm:"size:36" json:"customer_id,omitempty"`
	CustomerName   *string    `gorm:"size:160" json:"customer_name,omitempty"`
	PaymentMethod  string     `gorm:"size:20" json:"payment_method"`
	Notes          *string    `json:"notes,omitempty"`
	DeliveryCharge string     `gorm:"size:20" json:"delivery_charge"`
	SaleDate       string     `gorm:"size:10;index" json:"sale_date"` // YYYY-MM-DD, for daily reports

	CreatedAt time.Time `json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Category - A first-class per-owner category registry entry. The categories a
// business can assign are the union of this table and the distinct values
// already present on its menu items.
type Category struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	OwnerID string `gorm:"size:64;uniqueIndex:idx_owner_category" json:"owner_id"`
	Name    string `gorm:"size:80;uniqueIndex:idx_owner_category" json:"name"`

	CreatedAt time.Time `json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
