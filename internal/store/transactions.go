package store

import (
	"errors"
	"log"
	"time"

	"go-pos-backoffice/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// totalTolerance is how far the caller-supplied total may drift from the sum
// of line totals before we log a mismatch. Rounding noise, not fraud
// detection.
var totalTolerance = decimal.NewFromFloat(0.01)

// NewTransaction carries the fields for recording a sale.
type NewTransaction struct {
	OwnerID        string
	Items          []models.LineItem
	TotalAmount    string
	Currency       string // defaults to MYR
	CustomerID     *string
	CustomerName   *string
	PaymentMethod  string // defaults to cash
	Notes          *string
	DeliveryCharge string
}

// CreateTransaction records a sale. Items are stored as an immutable snapshot:
// names and prices are copied at sale time, so later menu edits never alter
// historical receipts. If a customer is linked, the customer's aggregates are
// updated in the same logical operation; a failure there is logged and
// tolerated, the sale record must persist regardless.
func (s *Store) CreateTransaction(p NewTransaction) (*models.Transaction, error) {
	if p.OwnerID == "" {
		return nil, validationf("owner_id is required")
	}
	if len(p.Items) == 0 {
		return nil, validationf("transaction must have at least one item")
	}
	total, err := parseMoney("total_amount", p.TotalAmount)
	if err != nil {
		return nil, err
	}
	if total.IsZero() {
		return nil, validationf("total_amount must be greater than zero")
	}

	lineSum := decimal.Zero
	for _, item := range p.Items {
		lineTotal, err := decimal.NewFromString(item.TotalPrice)
		if err != nil {
			return nil, validationf("item %q has invalid total_price %q", item.Name, item.TotalPrice)
		}
		lineSum = lineSum.Add(lineTotal)
	}
	if lineSum.Sub(total).Abs().GreaterThan(totalTolerance) {
		log.Printf("transaction total mismatch for owner %s: lines sum to %s, caller sent %s",
			p.OwnerID, lineSum.StringFixed(2), total.StringFixed(2))
	}

	currency := p.Currency
	if currency == "" {
		currency = "MYR"
	}
	paymentMethod := p.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}
	deliveryCharge := p.DeliveryCharge
	if deliveryCharge == "" {
		deliveryCharge = "0.00"
	}

	now := time.Now()
	txn := models.Transaction{
		OwnerID:        NormalizeID(p.OwnerID),
		Items:          p.Items,
		TotalAmount:    moneyString(total),
		Currency:       currency,
		CustomerID:     p.CustomerID,
		CustomerName:   p.CustomerName,
		PaymentMethod:  paymentMethod,
		Notes:          p.Notes,
		DeliveryCharge: deliveryCharge,
		SaleDate:       now.Format("2006-01-02"),
	}
	if err := s.db.Create(&txn).Error; err != nil {
		return nil, wrap("create", "transaction", err)
	}

	if p.CustomerID != nil && *p.CustomerID != "" {
		if err := s.RecordCustomerVisit(*p.CustomerID, txn.TotalAmount, now); err != nil {
			// Best effort: the sale is already durable. Surface, don't fail.
			log.Printf("customer stat update failed for transaction %s: %v", txn.ID, err)
		}
	}
	return &txn, nil
}

// GetTransaction fetches one sale by id.
func (s *Store) GetTransaction(id string) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.Where("id = ?", NormalizeID(id)).First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "transaction", ID: id}
	}
	if err != nil {
		return nil, wrap("get", "transaction", err)
	}
	return &txn, nil
}

// ListTransactions returns the owner's most recent sales, newest first.
// limit <= 0 means the default of 50.
func (s *Store) ListTransactions(ownerID string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	var transactions []models.Transaction
	err := s.ownerScope(ownerID)(s.db).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, wrap("list", "transaction", err)
	}
	return transactions, nil
}
