package store

import (
	"encoding/json"
	"errors"
	"time"

	"go-pos-backoffice/internal/models"

	"gorm.io/gorm"
)

// quotationTransitions encodes the one-directional status machine:
// Draft -> Sent -> {Accepted, Rejected, Expired}; Accepted -> Converted.
// Rejected, Expired and Converted are terminal; in particular a quotation is
// never re-opened from Expired.
var quotationTransitions = map[string][]string{
	models.QuotationDraft:    {models.QuotationSent},
	models.QuotationSent:     {models.QuotationAccepted, models.QuotationRejected, models.QuotationExpired},
	models.QuotationAccepted: {models.QuotationConverted},
}

func quotationTransitionAllowed(from, to string) bool {
	for _, next := range quotationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NewQuotation carries the fields for creating a quotation.
type NewQuotation struct {
	OwnerID        string
	CustomerID     string
	CustomerName   string
	LineItems      []models.LineItem
	Subtotal       string
	TaxAmount      string
	DeliveryCharge string
	TotalAmount    string
	ValidityDays   int // defaults to 30
	PaymentTerms   *string
	Notes          *string
}

// CreateQuotation numbers and stores a new quotation in Draft. The number is
// re-allocated and the insert retried if a concurrent writer wins the same
// number between probe and insert.
func (s *Store) CreateQuotation(p NewQuotation) (*models.Quotation, error) {
	if p.OwnerID == "" || p.CustomerName == "" {
		return nil, validationf("owner_id and customer_name are required")
	}
	if len(p.LineItems) == 0 {
		return nil, validationf("quotation must have at least one line item")
	}
	subtotal, err := normalizeMoney("subtotal", p.Subtotal)
	if err != nil {
		return nil, err
	}
	taxAmount, err := normalizeMoney("tax_amount", orZero(p.TaxAmount))
	if err != nil {
		return nil, err
	}
	deliveryCharge, err := normalizeMoney("delivery_charge", orZero(p.DeliveryCharge))
	if err != nil {
		return nil, err
	}
	totalAmount, err := normalizeMoney("total_amount", p.TotalAmount)
	if err != nil {
		return nil, err
	}

	validityDays := p.ValidityDays
	if validityDays <= 0 {
		validityDays = 30
	}
	now := time.Now()

	quotation := models.Quotation{
		OwnerID:        NormalizeID(p.OwnerID),
		CustomerID:     p.CustomerID,
		CustomerName:   p.CustomerName,
		LineItems:      p.LineItems,
		Subtotal:       subtotal,
		TaxAmount:      taxAmount,
		DeliveryCharge: deliveryCharge,
		TotalAmount:    totalAmount,
		ValidityDays:   validityDays,
		ValidUntil:     now.AddDate(0, 0, validityDays).Format("2006-01-02"),
		PaymentTerms:   p.PaymentTerms,
		Notes:          p.Notes,
		Status:         models.QuotationDraft,
	}

	for attempt := 0; attempt < 3; attempt++ {
		number, err := s.NextQuotationNumber(p.OwnerID, now.Year())
		if err != nil {
			return nil, err
		}
		quotation.QuotationNumber = number
		err = s.db.Create(&quotation).Error
		if err == nil {
			return &quotation, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, wrap("create", "quotation", err)
		}
		quotation.ID = ""
	}
	return nil, wrap("create", "quotation", gorm.ErrDuplicatedKey)
}

func orZero(amount string) string {
	if amount == "" {
		return "0.00"
	}
	return amount
}

// GetQuotation fetches one quotation by id.
func (s *Store) GetQuotation(id string) (*models.Quotation, error) {
	var q models.Quotation
	err := s.db.Where("id = ?", NormalizeID(id)).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "quotation", ID: id}
	}
	if err != nil {
		return nil, wrap("get", "quotation", err)
	}
	return &q, nil
}

// GetQuotationByNumber fetches by the human-readable reference code.
func (s *Store) GetQuotationByNumber(ownerID, number string) (*models.Quotation, error) {
	var q models.Quotation
	err := s.ownerScope(ownerID)(s.db).
		Where("quotation_number = ?", number).
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "quotation", ID: number}
	}
	if err != nil {
		return nil, wrap("get by number", "quotation", err)
	}
	return &q, nil
}

// ListQuotations returns the owner's quotations, newest first, optionally
// filtered by status. limit <= 0 means the default of 100.
func (s *Store) ListQuotations(ownerID, status string, limit int) ([]models.Quotation, error) {
	if limit <= 0 {
		limit = 100
	}
	q := s.ownerScope(ownerID)(s.db)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var quotations []models.Quotation
	err := q.Order("created_at DESC").Limit(limit).Find(&quotations).Error
	if err != nil {
		return nil, wrap("list", "quotation", err)
	}
	return quotations, nil
}

// QuotationUpdate carries partial content updates (not status; use
// UpdateQuotationStatus for that).
type QuotationUpdate struct {
	LineItems      []models.LineItem
	Subtotal       *string
	TaxAmount      *string
	TotalAmount    *string
	PaymentTerms   *string
	Notes          *string
	ValidityDays   *int
	ValidUntil     *string
	DeliveryCharge *string
}

// UpdateQuotation applies a partial content update.
func (s *Store) UpdateQuotation(id string, u QuotationUpdate) error {
	updates := map[string]any{"updated_at": time.Now()}
	if u.LineItems != nil {
		// Map-form Updates bypasses the json serializer, so encode by hand.
		raw, err := json.Marshal(u.LineItems)
		if err != nil {
			return wrap("update", "quotation", err)
		}
		updates["line_items"] = string(raw)
	}
	for field, val := range map[string]*string{
		"subtotal":        u.Subtotal,
		"tax_amount":      u.TaxAmount,
		"total_amount":    u.TotalAmount,
		"delivery_charge": u.DeliveryCharge,
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
	if u.PaymentTerms != nil {
		updates["payment_terms"] = *u.PaymentTerms
	}
	if u.Notes != nil {
		updates["notes"] = *u.Notes
	}
	if u.ValidityDays != nil {
		updates["validity_days"] = *u.ValidityDays
	}
	if u.ValidUntil != nil {
		updates["valid_until"] = *u.ValidUntil
	}

	res := s.db.Model(&models.Quotation{}).Where("id = ?", NormalizeID(id)).Updates(updates)
	if res.Error != nil {
		return wrap("update", "quotation", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: "quotation", ID: id}
	}
	return nil
}

// UpdateQuotationStatus moves a quotation along the status machine. Illegal
// transitions are rejected with a ValidationError.
func (s *Store) UpdateQuotationStatus(id, status string) error {
	q, err := s.GetQuotation(id)
	if err != nil {
		return err
	}
	if !quotationTransitionAllowed(q.Status, status) {
		return validationf("quotation cannot move from %s to %s", q.Status, status)
	}
	err = s.db.Model(&models.Quotation{}).Where("id = ?", q.ID).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
	if err != nil {
		return wrap("update status", "quotation", err)
	}
	return nil
}

// MarkQuotationConverted closes an Accepted quotation as Converted and binds
// the sale that fulfilled it.
func (s *Store) MarkQuotationConverted(id, transactionID string) error {
	q, err := s.GetQuotation(id)
	if err != nil {
		return err
	}
	if !quotationTransitionAllowed(q.Status, models.QuotationConverted) {
		return validationf("quotation cannot move from %s to %s", q.Status, models.QuotationConverted)
	}
	now := time.Now()
	err = s.db.Model(&models.Quotation{}).Where("id = ?", q.ID).
		Updates(map[string]any{
			"status":            models.QuotationConverted,
			"converted_to_sale": true,
			"transaction_id":    transactionID,
			"converted_at":      now,
			"updated_at":        now,
		}).Error
	if err != nil {
		return wrap("convert", "quotation", err)
	}
	return nil
}

// DeleteQuotation removes an unconverted quotation. Converted quotations are
// part of the audit chain and stay.
func (s *Store) DeleteQuotation(id string) error {
	q, err := s.GetQuotation(id)
	if err != nil {
		return err
	}
	if q.ConvertedToSale {
		return validationf("quotation %s has been converted and cannot be deleted", q.QuotationNumber)
	}
	if err := s.db.Where("id = ?", q.ID).Delete(&models.Quotation{}).Error; err != nil {
		return wrap("delete", "quotation", err)
	}
	return nil
}
