package store

import (
	"fmt"
	"time"

	"go-pos-backoffice/internal/models"

	"gorm.io/gorm"
)

// DocumentKind selects the numbering prefix for a commercial document.
type DocumentKind string

const (
	KindQuotation     DocumentKind = models.DocQuotation
	KindInvoice       DocumentKind = models.DocInvoice
	KindReceipt       DocumentKind = models.DocReceipt
	KindDeliveryOrder DocumentKind = models.DocDeliveryOrder
)

// Prefix returns the human-readable reference prefix for the kind.
func (k DocumentKind) Prefix() string {
	switch k {
	case KindQuotation:
		return "QT"
	case KindInvoice:
		return "INV"
	case KindReceipt:
		return "OR" // official receipt
	case KindDeliveryOrder:
		return "DO"
	default:
		return "DOC"
	}
}

func (k DocumentKind) valid() bool {
	switch k {
	case KindQuotation, KindInvoice, KindReceipt, KindDeliveryOrder:
		return true
	}
	return false
}

// maxSequenceProbes bounds the collision loop. The probe is authoritative
// against the store, so the loop converges long before this under any sane
// write rate; hitting the bound means something is wrong and we fail loudly
// rather than hand out a reused number.
const maxSequenceProbes = 1000

// nextNumbered implements the shared count-then-probe allocation. base must
// return a fresh query already scoped to (owner, kind); column is the field
// holding issued numbers; format renders a candidate from a sequence value.
// Counting gives a cheap starting point; the probe loop then walks forward
// past any number a concurrent writer grabbed in between. Issued numbers are
// never reclaimed after deletion, so the probe checks all history, not just
// the counted window.
func nextNumbered(base func() *gorm.DB, countScope func(*gorm.DB) *gorm.DB, column string, format func(n int64) string) (string, error) {
	var count int64
	if err := countScope(base()).Count(&count).Error; err != nil {
		return "", err
	}

	n := count + 1
	for i := 0; i < maxSequenceProbes; i++ {
		candidate := format(n)
		var taken int64
		if err := base().Where(column+" = ?", candidate).Count(&taken).Error; err != nil {
			return "", err
		}
		if taken == 0 {
			return candidate, nil
		}
		n++
	}
	return "", fmt.Errorf("sequence space exhausted after %d probes", maxSequenceProbes)
}

func yearRange(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(1, 0, 0)
}

// NextDocumentNumber allocates the next reference code for (owner, kind,
// year), e.g. "INV-2025-007". The count is scoped to the year; the collision
// probe is not, so a number issued and later deleted is never handed out
// again.
func (s *Store) NextDocumentNumber(ownerID string, kind DocumentKind, year int) (string, error) {
	if !kind.valid() {
		return "", validationf("unknown document type %q", kind)
	}
	start, end := yearRange(year)
	base := func() *gorm.DB {
		return s.ownerScope(ownerID)(s.db.Model(&models.Document{})).
			Where("document_type = ?", string(kind))
	}
	number, err := nextNumbered(base,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("created_at >= ? AND created_at < ?", start, end)
		},
		"document_number",
		func(n int64) string { return fmt.Sprintf("%s-%d-%03d", kind.Prefix(), year, n) },
	)
	if err != nil {
		return "", wrap("generate number", "document", err)
	}
	return number, nil
}

// NextQuotationNumber allocates the next "QT-<year>-NNN" for an owner.
// Quotations live in their own collection with their own numbering space.
func (s *Store) NextQuotationNumber(ownerID string, year int) (string, error) {
	start, end := yearRange(year)
	base := func() *gorm.DB {
		return s.ownerScope(ownerID)(s.db.Model(&models.Quotation{}))
	}
	number, err := nextNumbered(base,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("created_at >= ? AND created_at < ?", start, end)
		},
		"quotation_number",
		func(n int64) string { return fmt.Sprintf("QT-%d-%03d", year, n) },
	)
	if err != nil {
		return "", wrap("generate number", "quotation", err)
	}
	return number, nil
}

// nextCustomerID allocates the next per-owner "CUST-NNN" code with the same
// count-then-probe scheme.
func (s *Store) nextCustomerID(ownerID string) (string, error) {
	base := func() *gorm.DB {
		return s.ownerScope(ownerID)(s.db.Model(&models.Customer{}))
	}
	number, err := nextNumbered(base,
		func(tx *gorm.DB) *gorm.DB { return tx },
		"customer_id",
		func(n int64) string { return fmt.Sprintf("CUST-%03d", n) },
	)
	if err != nil {
		return "", wrap("generate customer id", "customer", err)
	}
	return number, nil
}
