package store

import (
	"encoding/json"
	"errors"
	"time"

	"go-pos-backoffice/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Variant payloads for CreateDocument. Exactly one, matching the kind, must
// be set; the rest must be nil.

// QuotationFields is the quotation variant payload.
type QuotationFields struct {
	ValidityDays    int // defaults to 30
	TermsConditions *string
}

// InvoiceFields is the invoice variant payload.
type InvoiceFields struct {
	DueDate       *string
	PaymentMethod *string
	QuotationID   *string
	AmountPaid    string // defaults to 0.00
}

// ReceiptFields is the receipt variant payload.
type ReceiptFields struct {
	TransactionID *string
	PaymentMethod *string
	ReceiptType   string // sale, refund or payment; defaults to sale
}

// DeliveryFields is the delivery-order variant payload.
type DeliveryFields struct {
	DeliveryAddress string
	DeliveryDate    *string
	TrackingNumber  *string
	DriverName      *string
	DriverContact   *string
	InvoiceID       *string
}

// NewDocument carries the common header plus exactly one variant payload.
type NewDocument struct {
	OwnerID      string
	Kind         DocumentKind
	CustomerID   *string
	CustomerName string
	LineItems    []models.LineItem
	Subtotal     string
	TaxAmount    string
	TotalAmount  string
	Notes        *string

	Quotation *QuotationFields
	Invoice   *InvoiceFields
	Receipt   *ReceiptFields
	Delivery  *DeliveryFields
}

func (p NewDocument) variantCount() int {
	n := 0
	if p.Quotation != nil {
		n++
	}
	if p.Invoice != nil {
		n++
	}
	if p.Receipt != nil {
		n++
	}
	if p.Delivery != nil {
		n++
	}
	return n
}

// CreateDocument numbers and stores a commercial document. The variant
// payload must match the kind: a receipt with invoice fields is rejected, not
// silently stripped.
func (s *Store) CreateDocument(p NewDocument) (*models.Document, error) {
	if p.OwnerID == "" || p.CustomerName == "" {
		return nil, validationf("owner_id and customer_name are required")
	}
	if !p.Kind.valid() {
		return nil, validationf("unknown document type %q", p.Kind)
	}
	if p.variantCount() != 1 {
		return nil, validationf("document must carry exactly one variant payload")
	}

	subtotal, err := normalizeMoney("subtotal", orZero(p.Subtotal))
	if err != nil {
		return nil, err
	}
	taxAmount, err := normalizeMoney("tax_amount", orZero(p.TaxAmount))
	if err != nil {
		return nil, err
	}
	totalAmount, err := normalizeMoney("total_amount", p.TotalAmount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc := models.Document{
		OwnerID:      NormalizeID(p.OwnerID),
		DocumentType: string(p.Kind),
		CustomerID:   p.CustomerID,
		CustomerName: p.CustomerName,
		LineItems:    p.LineItems,
		Subtotal:     subtotal,
		TaxAmount:    taxAmount,
		TotalAmount:  totalAmount,
		Notes:        p.Notes,
	}

	switch p.Kind {
	case KindQuotation:
		if p.Quotation == nil {
			return nil, validationf("quotation document requires quotation fields")
		}
		days := p.Quotation.ValidityDays
		if days <= 0 {
			days = 30
		}
		validUntil := now.AddDate(0, 0, days).Format("2006-01-02")
		status := models.QuotationDraft
		doc.ValidityDays = &days
		doc.ValidUntil = &validUntil
		doc.Status = &status
		doc.TermsConditions = p.Quotation.TermsConditions

	case KindInvoice:
		if p.Invoice == nil {
			return nil, validationf("invoice document requires invoice fields")
		}
		paid, err := parseMoney("amount_paid", orZero(p.Invoice.AmountPaid))
		if err != nil {
			return nil, err
		}
		total, _ := decimal.NewFromString(totalAmount)
		amountPaid := moneyString(paid)
		balanceDue := moneyString(total.Sub(paid))
		paymentStatus := models.PaymentPending
		doc.DueDate = p.Invoice.DueDate
		doc.PaymentStatus = &paymentStatus
		doc.PaymentMethod = p.Invoice.PaymentMethod
		doc.QuotationID = p.Invoice.QuotationID
		doc.AmountPaid = &amountPaid
		doc.BalanceDue = &balanceDue

	case KindReceipt:
		if p.Receipt == nil {
			return nil, validationf("receipt document requires receipt fields")
		}
		receiptType := p.Receipt.ReceiptType
		if receiptType == "" {
			receiptType = "sale"
		}
		doc.TransactionID = p.Receipt.TransactionID
		doc.PaymentMethod = p.Receipt.PaymentMethod
		doc.ReceiptType = &receiptType

	case KindDeliveryOrder:
		if p.Delivery == nil {
			return nil, validationf("delivery order requires delivery fields")
		}
		if p.Delivery.DeliveryAddress == "" {
			return nil, validationf("delivery_address is required")
		}
		deliveryStatus := models.DeliveryPending
		doc.DeliveryAddress = &p.Delivery.DeliveryAddress
		doc.DeliveryDate = p.Delivery.DeliveryDate
		doc.DeliveryStatus = &deliveryStatus
		doc.TrackingNumber = p.Delivery.TrackingNumber
		doc.DriverName = p.Delivery.DriverName
		doc.DriverContact = p.Delivery.DriverContact
		doc.InvoiceID = p.Delivery.InvoiceID
	}

	for attempt := 0; attempt < 3; attempt++ {
		number, err := s.NextDocumentNumber(p.OwnerID, p.Kind, now.Year())
		if err != nil {
			return nil, err
		}
		doc.DocumentNumber = number
		err = s.db.Create(&doc).Error
		if err == nil {
			return &doc, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, wrap("create", "document", err)
		}
		doc.ID = ""
	}
	return nil, wrap("create", "document", gorm.ErrDuplicatedKey)
}

// GetDocument fetches one document by id.
func (s *Store) GetDocument(id string) (*models.Document, error) {
	var doc models.Document
	err := s.db.Where("id = ?", NormalizeID(id)).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "document", ID: id}
	}
	if err != nil {
		return nil, wrap("get", "document", err)
	}
	return &doc, nil
}

// GetDocumentByNumber fetches by the human-readable reference code.
func (s *Store) GetDocumentByNumber(ownerID, number string) (*models.Document, error) {
	var doc models.Document
	err := s.ownerScope(ownerID)(s.db).
		Where("document_number = ?", number).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "document", ID: number}
	}
	if err != nil {
		return nil, wrap("get by number", "document", err)
	}
	return &doc, nil
}

// ListDocuments returns the owner's documents, newest first, optionally
// filtered by kind. limit <= 0 means the default of 100.
func (s *Store) ListDocuments(ownerID string, kind DocumentKind, limit int) ([]models.Document, error) {
	if limit <= 0 {
		limit = 100
	}
	q := s.ownerScope(ownerID)(s.db)
	if kind != "" {
		if !kind.valid() {
			return nil, validationf("unknown document type %q", kind)
		}
		q = q.Where("document_type = ?", string(kind))
	}
	var documents []models.Document
	err := q.Order("created_at DESC").Limit(limit).Find(&documents).Error
	if err != nil {
		return nil, wrap("list", "document", err)
	}
	return documents, nil
}

// DocumentUpdate carries partial content updates. Status moves through
// UpdateDocumentStatus, payments through RecordInvoicePayment.
type DocumentUpdate struct {
	CustomerName    *string
	LineItems       []models.LineItem
	Subtotal        *string
	TaxAmount       *string
	TotalAmount     *string
	Notes           *string
	DueDate         *string
	TermsConditions *string
	DeliveryAddress *string
	DeliveryDate    *string
	TrackingNumber  *string
	DriverName      *string
	DriverContact   *string
}

// UpdateDocument applies a partial content update.
func (s *Store) UpdateDocument(id string, u DocumentUpdate) error {
	updates := map[string]any{"updated_at": time.Now()}
	if u.CustomerName != nil {
		updates["customer_name"] = *u.CustomerName
	}
	if u.LineItems != nil {
		raw, err := json.Marshal(u.LineItems)
		if err != nil {
			return wrap("update", "document", err)
		}
		updates["line_items"] = string(raw)
	}
	for field, val := range map[string]*string{
		"subtotal":     u.Subtotal,
		"tax_amount":   u.TaxAmount,
		"total_amount": u.TotalAmount,
	} {
		if val == nil {
			continue
		}
		amount, err := normalizeMoney(field, *val)
		if err != nil {
			return err
		}
		updates[field] = amount
	}
	for field, val := range map[string]*string{
		"notes":            u.Notes,
		"due_date":         u.DueDate,
		"terms_conditions": u.TermsConditions,
		"delivery_address": u.DeliveryAddress,
		"delivery_date":    u.DeliveryDate,
		"tracking_number":  u.TrackingNumber,
		"driver_name":      u.DriverName,
		"driver_contact":   u.DriverContact,
	} {
		if val != nil {
			updates[field] = *val
		}
	}

	res := s.db.Model(&models.Document{}).Where("id = ?", NormalizeID(id)).Updates(updates)
	if res.Error != nil {
		return wrap("update", "document", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: "document", ID: id}
	}
	return nil
}

// invoicePaymentTransitions: pending fans out; partial can still settle or
// lapse; paid is terminal.
var invoicePaymentTransitions = map[string][]string{
	models.PaymentPending: {models.PaymentPaid, models.PaymentPartial, models.PaymentOverdue},
	models.PaymentPartial: {models.PaymentPaid, models.PaymentOverdue},
	models.PaymentOverdue: {models.PaymentPaid, models.PaymentPartial},
}

// deliveryTransitions: pending can be cancelled or dispatched; delivered and
// cancelled are terminal.
var deliveryTransitions = map[string][]string{
	models.DeliveryPending:   {models.DeliveryInTransit, models.DeliveryCancelled},
	models.DeliveryInTransit: {models.DeliveryDelivered, models.DeliveryCancelled},
}

func transitionAllowed(table map[string][]string, from, to string) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateDocumentStatus advances a document along the status machine for its
// kind. Quotation documents use the quotation machine; invoices move the
// payment sub-state; delivery orders the delivery state. Receipts carry no
// status at all.
func (s *Store) UpdateDocumentStatus(id, status string) error {
	doc, err := s.GetDocument(id)
	if err != nil {
		return err
	}

	updates := map[string]any{"updated_at": time.Now()}
	switch DocumentKind(doc.DocumentType) {
	case KindQuotation:
		from := ""
		if doc.Status != nil {
			from = *doc.Status
		}
		if !quotationTransitionAllowed(from, status) {
			return validationf("quotation document cannot move from %s to %s", from, status)
		}
		updates["status"] = status

	case KindInvoice:
		from := models.PaymentPending
		if doc.PaymentStatus != nil {
			from = *doc.PaymentStatus
		}
		if !transitionAllowed(invoicePaymentTransitions, from, status) {
			return validationf("invoice cannot move from %s to %s", from, status)
		}
		updates["payment_status"] = status
		if status == models.PaymentPaid {
			updates["amount_paid"] = doc.TotalAmount
			updates["balance_due"] = "0.00"
		}

	case KindDeliveryOrder:
		from := models.DeliveryPending
		if doc.DeliveryStatus != nil {
			from = *doc.DeliveryStatus
		}
		if !transitionAllowed(deliveryTransitions, from, status) {
			return validationf("delivery order cannot move from %s to %s", from, status)
		}
		updates["delivery_status"] = status
		if status == models.DeliveryDelivered {
			updates["delivered_at"] = time.Now()
		}

	default:
		return validationf("%s documents do not carry a status", doc.DocumentType)
	}

	err = s.db.Model(&models.Document{}).Where("id = ?", doc.ID).Updates(updates).Error
	if err != nil {
		return wrap("update status", "document", err)
	}
	return nil
}

// RecordInvoicePayment applies a payment against an invoice and recomputes
// the balance and payment status.
func (s *Store) RecordInvoicePayment(id, amount string) error {
	doc, err := s.GetDocument(id)
	if err != nil {
		return err
	}
	if doc.DocumentType != models.DocInvoice {
		return validationf("payments can only be recorded against invoices")
	}
	payment, err := parseMoney("payment amount", amount)
	if err != nil {
		return err
	}

	paid := decimal.Zero
	if doc.AmountPaid != nil {
		paid, _ = decimal.NewFromString(*doc.AmountPaid)
	}
	total, _ := decimal.NewFromString(doc.TotalAmount)

	paid = paid.Add(payment)
	balance := total.Sub(paid)
	status := models.PaymentPartial
	if balance.LessThanOrEqual(decimal.Zero) {
		balance = decimal.Zero
		status = models.PaymentPaid
	}

	err = s.db.Model(&models.Document{}).Where("id = ?", doc.ID).
		Updates(map[string]any{
			"amount_paid":    moneyString(paid),
			"balance_due":    moneyString(balance),
			"payment_status": status,
			"updated_at":     time.Now(),
		}).Error
	if err != nil {
		return wrap("record payment", "document", err)
	}
	return nil
}

// DeleteDocument removes a document. Paid invoices stay; they are part of the
// audit chain.
func (s *Store) DeleteDocument(id string) error {
	doc, err := s.GetDocument(id)
	if err != nil {
		return err
	}
	if doc.DocumentType == models.DocInvoice && doc.PaymentStatus != nil && *doc.PaymentStatus == models.PaymentPaid {
		return validationf("invoice %s has been paid and cannot be deleted", doc.DocumentNumber)
	}
	if err := s.db.Where("id = ?", doc.ID).Delete(&models.Document{}).Error; err != nil {
		return wrap("delete", "document", err)
	}
	return nil
}
