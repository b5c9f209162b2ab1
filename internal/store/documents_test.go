package store

import (
	"fmt"
	"testing"
	"time"

	"go-pos-backoffice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceFixture(owner string) NewDocument {
	return NewDocument{
		OwnerID:      owner,
		Kind:         KindInvoice,
		CustomerName: "Aisha",
		TotalAmount:  "100.00",
		Invoice:      &InvoiceFields{},
	}
}

func TestCreateDocumentVariantChecks(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")

	_, err := s.CreateDocument(NewDocument{OwnerID: owner, Kind: "memo", CustomerName: "Aisha", TotalAmount: "1.00"})
	assert.True(t, IsValidation(err), "unknown kind")

	_, err = s.CreateDocument(NewDocument{OwnerID: owner, Kind: KindInvoice, CustomerName: "Aisha", TotalAmount: "1.00"})
	assert.True(t, IsValidation(err), "no variant payload")

	_, err = s.CreateDocument(NewDocument{
		OwnerID: owner, Kind: KindInvoice, CustomerName: "Aisha", TotalAmount: "1.00",
		Invoice: &InvoiceFields{}, Receipt: &ReceiptFields{},
	})
	assert.True(t, IsValidation(err), "two variant payloads")

	_, err = s.CreateDocument(NewDocument{
		OwnerID: owner, Kind: KindReceipt, CustomerName: "Aisha", TotalAmount: "1.00",
		Invoice: &InvoiceFields{},
	})
	assert.True(t, IsValidation(err), "payload must match kind")
}

func TestDocumentNumberingPerKind(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")
	year := time.Now().Year()

	inv, err := s.CreateDocument(invoiceFixture(owner))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV-%d-001", year), inv.DocumentNumber)

	rcpt, err := s.CreateDocument(NewDocument{
		OwnerID: owner, Kind: KindReceipt, CustomerName: "Aisha", TotalAmount: "1.00",
		Receipt: &ReceiptFields{},
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("OR-%d-001", year), rcpt.DocumentNumber, "each kind has its own sequence")

	inv2, err := s.CreateDocument(invoiceFixture(owner))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV-%d-002", year), inv2.DocumentNumber)
}

func TestCreateInvoiceDefaults(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")

	doc, err := s.CreateDocument(invoiceFixture(owner))
	require.NoError(t, err)

	require.NotNil(t, doc.PaymentStatus)
	assert.Equal(t, models.PaymentPending, *doc.PaymentStatus)
	require.NotNil(t, doc.AmountPaid)
	assert.Equal(t, "0.00", *doc.AmountPaid)
	require.NotNil(t, doc.BalanceDue)
	assert.Equal(t, "100.00", *doc.BalanceDue)
}

func TestCreateQuotationDocumentDefaults(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")

	doc, err := s.CreateDocument(NewDocument{
		OwnerID: owner, Kind: KindQuotation, CustomerName: "Aisha", TotalAmount: "50.00",
		Quotation: &QuotationFields{},
	})
	require.NoError(t, err)

	require.NotNil(t, doc.ValidityDays)
	assert.Equal(t, 30, *doc.ValidityDays)
	require.NotNil(t, doc.ValidUntil)
	assert.Equal(t, time.Now().AddDate(0, 0, 30).Format("2006-01-02"), *doc.ValidUntil)
	require.NotNil(t, doc.Status)
	assert.Equal(t, models.QuotationDraft, *doc.Status)
}

func TestInvoicePaymentMachine(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")
	doc, err := s.CreateDocument(invoiceFixture(owner))
	require.NoError(t, err)

	require.NoError(t, s.UpdateDocumentStatus(doc.ID, models.PaymentPartial))
	require.NoError(t, s.UpdateDocumentStatus(doc.ID, models.PaymentPaid))

	got, err := s.GetDocument(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", *got.AmountPaid, "marking paid settles the balance")
	assert.Equal(t, "0.00", *got.BalanceDue)

	// Paid is terminal.
	assert.True(t, IsValidation(s.UpdateDocumentStatus(doc.ID, models.PaymentPending)))
	assert.True(t, IsValidation(s.UpdateDocumentStatus(doc.ID, models.PaymentOverdue)))
}

func TestRecordInvoicePayment(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")
	doc, err := s.CreateDocument(invoiceFixture(owner))
	require.NoError(t, err)

	require.NoError(t, s.RecordInvoicePayment(doc.ID, "40.00"))
	got, err := s.GetDocument(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "40.00", *got.AmountPaid)
	assert.Equal(t, "60.00", *got.BalanceDue)
	assert.Equal(t, models.PaymentPartial, *got.PaymentStatus)

	require.NoError(t, s.RecordInvoicePayment(doc.ID, "60.00"))
	got, err = s.GetDocument(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", *got.AmountPaid)
	assert.Equal(t, "0.00", *got.BalanceDue)
	assert.Equal(t, models.PaymentPaid, *got.PaymentStatus)

	// Paid invoices cannot be deleted.
	assert.True(t, IsValidation(s.DeleteDocument(doc.ID)))
}

func TestDeliveryStatusMachine(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")

	doc, err := s.CreateDocument(NewDocument{
		OwnerID: owner, Kind: KindDeliveryOrder, CustomerName: "Aisha", TotalAmount: "20.00",
		Delivery: &DeliveryFields{DeliveryAddress: "12 Jalan Besar"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryPending, *doc.DeliveryStatus)

	// Pending cannot jump straight to delivered.
	assert.True(t, IsValidation(s.UpdateDocumentStatus(doc.ID, models.DeliveryDelivered)))

	require.NoError(t, s.UpdateDocumentStatus(doc.ID, models.DeliveryInTransit))
	require.NoError(t, s.UpdateDocumentStatus(doc.ID, models.DeliveryDelivered))

	got, err := s.GetDocument(doc.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.DeliveredAt)
	assert.True(t, IsValidation(s.UpdateDocumentStatus(doc.ID, models.DeliveryCancelled)), "delivered is terminal")
}

func TestReceiptHasNoStatus(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")

	doc, err := s.CreateDocument(NewDocument{
		OwnerID: owner, Kind: KindReceipt, CustomerName: "Aisha", TotalAmount: "5.00",
		Receipt: &ReceiptFields{},
	})
	require.NoError(t, err)
	assert.Equal(t, "sale", *doc.ReceiptType)
	assert.True(t, IsValidation(s.UpdateDocumentStatus(doc.ID, "anything")))
}

func TestListDocumentsKindFilter(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")

	_, err := s.CreateDocument(invoiceFixture(owner))
	require.NoError(t, err)
	_, err = s.CreateDocument(NewDocument{
		OwnerID: owner, Kind: KindReceipt, CustomerName: "Aisha", TotalAmount: "5.00",
		Receipt: &ReceiptFields{},
	})
	require.NoError(t, err)

	invoices, err := s.ListDocuments(owner, KindInvoice, 0)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, models.DocInvoice, invoices[0].DocumentType)

	all, err := s.ListDocuments(owner, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.ListDocuments(owner, "memo", 0)
	assert.True(t, IsValidation(err))
}

func TestUpdateDocumentPartial(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")
	doc, err := s.CreateDocument(invoiceFixture(owner))
	require.NoError(t, err)

	require.NoError(t, s.UpdateDocument(doc.ID, DocumentUpdate{
		Notes:   strPtr("net 30"),
		DueDate: strPtr("2026-09-30"),
	}))

	got, err := s.GetDocument(doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "net 30", *got.Notes)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2026-09-30", *got.DueDate)
	assert.Equal(t, "Aisha", got.CustomerName, "untouched fields survive")

	assert.True(t, IsValidation(s.UpdateDocument(doc.ID, DocumentUpdate{TotalAmount: strPtr("-5")})))
	assert.True(t, IsNotFound(s.UpdateDocument("missing", DocumentUpdate{Notes: strPtr("x")})))
}

func TestGetDocumentByNumber(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "Corner Shop")
	doc, err := s.CreateDocument(invoiceFixture(owner))
	require.NoError(t, err)

	got, err := s.GetDocumentByNumber(owner, doc.DocumentNumber)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)

	_, err = s.GetDocumentByNumber(owner, "INV-1999-001")
	assert.True(t, IsNotFound(err))
}
