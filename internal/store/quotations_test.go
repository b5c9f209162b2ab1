package store

import (
	"fmt"
	"testing"
	"time"

	"go-pos-backoffice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quotationFixture(owner string) NewQuotation {
	return NewQuotation{
		OwnerID:      owner,
		CustomerName: "Aisha",
		LineItems:    []models.LineItem{{Name: "Catering", Quantity: 1, UnitPrice: "500.00", TotalPrice: "500.00"}},
		Subtotal:     "500.00",
		TotalAmount:  "500.00",
	}
}

func TestCreateQuotationNumbering(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")
	year := time.Now().Year()

	for i := 1; i <= 3; i++ {
		q, err := s.CreateQuotation(quotationFixture(owner))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("QT-%d-%03d", year, i), q.QuotationNumber)
		assert.Equal(t, models.QuotationDraft, q.Status)
		assert.Equal(t, 30, q.ValidityDays)
	}

	// Deleting one never frees its number.
	quotations, err := s.ListQuotations(owner, "", 0)
	require.NoError(t, err)
	require.NoError(t, s.DeleteQuotation(quotations[0].ID))

	q, err := s.CreateQuotation(quotationFixture(owner))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("QT-%d-%03d", year, 4), q.QuotationNumber, "deleted number is not reissued")
}

func TestQuotationStatusMachine(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")
	q, err := s.CreateQuotation(quotationFixture(owner))
	require.NoError(t, err)

	// Draft cannot jump straight to Accepted.
	assert.True(t, IsValidation(s.UpdateQuotationStatus(q.ID, models.QuotationAccepted)))

	require.NoError(t, s.UpdateQuotationStatus(q.ID, models.QuotationSent))
	require.NoError(t, s.UpdateQuotationStatus(q.ID, models.QuotationRejected))

	// Rejected is terminal.
	assert.True(t, IsValidation(s.UpdateQuotationStatus(q.ID, models.QuotationSent)))
	assert.True(t, IsValidation(s.UpdateQuotationStatus(q.ID, models.QuotationAccepted)))
}

func TestQuotationExpiredIsTerminal(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")
	q, err := s.CreateQuotation(quotationFixture(owner))
	require.NoError(t, err)

	require.NoError(t, s.UpdateQuotationStatus(q.ID, models.QuotationSent))
	require.NoError(t, s.UpdateQuotationStatus(q.ID, models.QuotationExpired))
	assert.True(t, IsValidation(s.UpdateQuotationStatus(q.ID, models.QuotationSent)), "no reopening")
}

func TestQuotationConversion(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")
	q, err := s.CreateQuotation(quotationFixture(owner))
	require.NoError(t, err)

	// Conversion requires Accepted.
	assert.True(t, IsValidation(s.MarkQuotationConverted(q.ID, "txn-1")))

	require.NoError(t, s.UpdateQuotationStatus(q.ID, models.QuotationSent))
	require.NoError(t, s.UpdateQuotationStatus(q.ID, models.QuotationAccepted))
	require.NoError(t, s.MarkQuotationConverted(q.ID, "txn-1"))

	got, err := s.GetQuotation(q.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuotationConverted, got.Status)
	assert.True(t, got.ConvertedToSale)
	require.NotNil(t, got.TransactionID)
	assert.Equal(t, "txn-1", *got.TransactionID)
	assert.NotNil(t, got.ConvertedAt)

	// Converted quotations are part of the audit chain.
	assert.True(t, IsValidation(s.DeleteQuotation(q.ID)))
}

func TestGetQuotationByNumber(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")
	q, err := s.CreateQuotation(quotationFixture(owner))
	require.NoError(t, err)

	got, err := s.GetQuotationByNumber(owner, q.QuotationNumber)
	require.NoError(t, err)
	assert.Equal(t, q.ID, got.ID)

	_, err = s.GetQuotationByNumber(owner, "QT-1999-001")
	assert.True(t, IsNotFound(err))
}

func TestListQuotationsStatusFilter(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")

	q1, err := s.CreateQuotation(quotationFixture(owner))
	require.NoError(t, err)
	_, err = s.CreateQuotation(quotationFixture(owner))
	require.NoError(t, err)
	require.NoError(t, s.UpdateQuotationStatus(q1.ID, models.QuotationSent))

	sent, err := s.ListQuotations(owner, models.QuotationSent, 0)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, q1.ID, sent[0].ID)

	all, err := s.ListQuotations(owner, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
