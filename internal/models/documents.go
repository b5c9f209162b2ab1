package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quotation statuses. Transitions are one-directional; Rejected, Expired and
// Converted are terminal.
const (
	QuotationDraft     = "Draft"
	QuotationSent      = "Sent"
	QuotationAccepted  = "Accepted"
	QuotationRejected  = "Rejected"
	QuotationExpired   = "Expired"
	QuotationConverted = "Converted"
)

// Document types (the closed discriminator of the tagged-variant Document).
const (
	DocQuotation     = "quotation"
	DocInvoice       = "invoice"
	DocReceipt       = "receipt"
	DocDeliveryOrder = "delivery_order"
)

// Invoice payment sub-states. Independent of the document status machine.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentPartial = "partial"
	PaymentOverdue = "overdue"
)

// Delivery order statuses.
const (
	DeliveryPending   = "pending"
	DeliveryInTransit = "in_transit"
	DeliveryDelivered = "delivered"
	DeliveryCancelled = "cancelled"
)

// Quotation - A priced offer to a customer, numbered per owner per year.
type Quotation struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	OwnerID         string     `gorm:"index;size:64;uniqueIndex:idx_owner_quotation_no" json:"owner_id"`
	QuotationNumber string     `gorm:"size:20;uniqueIndex:idx_owner_quotation_no" json:"quotation_number"` // QT-2025-001
	CustomerID      string     `gorm:"size:36" json:"customer_id"`
	CustomerName    string     `gorm:"size:160" json:"customer_name"`
	LineItems       []LineItem `gorm:"serializer:json" json:"line_items"`
	Subtotal        string     `gorm:"size:20" json:"subtotal"`
	TaxAmount       string     `gorm:"size:20" json:"tax_amount"`
	DeliveryCharge  string     `gorm:"size:20" json:"delivery_charge"`
	TotalAmount     string     `gorm:"size:20" json:"total_amount"`
	ValidityDays    int        `json:"validity_days"`
	ValidUntil      string     `gorm:"size:10" json:"valid_until"` // YYYY-MM-DD
	PaymentTerms    *string    `json:"payment_terms,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	Status          string     `gorm:"size:20" json:"status"`

	ConvertedToSale bool       `json:"converted_to_sale"`
	TransactionID   *string    `gorm:"size:36" json:"transaction_id,omitempty"`
	ConvertedAt     *time.Time `json:"converted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// Document - A commercial document: quotation, invoice, receipt or delivery
// order. One table, a fixed-shape header plus the field set selected by
// DocumentType. The type-specific fields are nullable columns, not a free-form
// bag: each variant writes only its own set.
type Document struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	OwnerID        string     `gorm:"index;size:64;uniqueIndex:idx_owner_document_no" json:"owner_id"`
	DocumentType   string     `gorm:"size:20;index" json:"document_type"`
	DocumentNumber string     `gorm:"size:20;uniqueIndex:idx_owner_document_no" json:"document_number"` // INV-2025-001
	CustomerID     *string    `gorm:"size:36" json:"customer_id,omitempty"`
	CustomerName   string     `gorm:"size:160" json:"customer_name"`
	LineItems      []LineItem `gorm:"serializer:json" json:"line_items"`
	Subtotal       string     `gorm:"size:20" json:"subtotal"`
	TaxAmount      string     `gorm:"size:20" json:"tax_amount"`
	TotalAmount    string     `gorm:"size:20" json:"total_amount"`
	Notes          *string    `json:"notes,omitempty"`

	// quotation variant
	ValidityDays    *int    `json:"validity_days,omitempty"`
	ValidUntil      *string `gorm:"size:10" json:"valid_until,omitempty"`
	Status          *string `gorm:"size:20" json:"status,omitempty"` // quotation + delivery docs
	TermsConditions *string `json:"terms_conditions,omitempty"`

	// invoice variant
	DueDate       *string `gorm:"size:10" json:"due_date,omitempty"`
	PaymentStatus *string `gorm:"size:20" json:"payment_status,omitempty"`
	PaymentMethod *string `gorm:"size:20" json:"payment_method,omitempty"` // invoice + receipt
	QuotationID   *string `gorm:"size:36" json:"quotation_id,omitempty"`
	AmountPaid    *string `gorm:"size:20" json:"amount_paid,omitempty"`
	BalanceDue    *string `gorm:"size:20" json:"balance_due,omitempty"`

	// receipt variant
	TransactionID *string `gorm:"size:36" json:"transaction_id,omitempty"` // invoice + receipt
	ReceiptType   *string `gorm:"size:20" json:"receipt_type,omitempty"`   // sale, refund, payment

	// delivery_order variant
	DeliveryAddress *string    `json:"delivery_address,omitempty"`
	DeliveryDate    *string    `gorm:"size:10" json:"delivery_date,omitempty"`
	DeliveryStatus  *string    `gorm:"size:20" json:"delivery_status,omitempty"`
	TrackingNumber  *string    `gorm:"size:60" json:"tracking_number,omitempty"`
	DriverName      *string    `gorm:"size:160" json:"driver_name,omitempty"`
	DriverContact   *string    `gorm:"size:60" json:"driver_contact,omitempty"`
	InvoiceID       *string    `gorm:"size:36" json:"invoice_id,omitempty"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
