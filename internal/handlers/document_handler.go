package handlers

import (
	"net/http"
	"strconv"

	"go-pos-backoffice/internal/middleware"
	"go-pos-backoffice/internal/models"
	"go-pos-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

type DocumentRequest struct {
	DocumentType string            `json:"document_type" binding:"required"`
	CustomerID   *string           `json:"customer_id"`
	CustomerName string            `json:"customer_name" binding:"required"`
	LineItems    []models.LineItem `json:"line_items"`
	Subtotal     string            `json:"subtotal"`
	TaxAmount    string            `json:"tax_amount"`
	TotalAmount  string            `json:"total_amount" binding:"required"`
	Notes        *string           `json:"notes"`

	Quotation *store.QuotationFields `json:"quotation"`
	Invoice   *store.InvoiceFields   `json:"invoice"`
	Receipt   *store.ReceiptFields   `json:"receipt"`
	Delivery  *store.DeliveryFields  `json:"delivery"`
}

// CreateDocument issues a numbered commercial document.
func (h *Handler) CreateDocument(c *gin.Context) {
	var input DocumentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	doc, err := h.Store.CreateDocument(store.NewDocument{
		OwnerID:      middleware.OwnerID(c),
		Kind:         store.DocumentKind(input.DocumentType),
		CustomerID:   input.CustomerID,
		CustomerName: input.CustomerName,
		LineItems:    input.LineItems,
		Subtotal:     input.Subtotal,
		TaxAmount:    input.TaxAmount,
		TotalAmount:  input.TotalAmount,
		Notes:        input.Notes,
		Quotation:    input.Quotation,
		Invoice:      input.Invoice,
		Receipt:      input.Receipt,
		Delivery:     input.Delivery,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// GetDocument fetches one document.
func (h *Handler) GetDocument(c *gin.Context) {
	doc, err := h.Store.GetDocument(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, doc.OwnerID) {
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GetDocumentByNumber fetches by reference code, e.g. INV-2025-007.
func (h *Handler) GetDocumentByNumber(c *gin.Context) {
	doc, err := h.Store.GetDocumentByNumber(middleware.OwnerID(c), c.Param("number"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ListDocuments returns documents, optionally filtered by ?type=.
func (h *Handler) ListDocuments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	documents, err := h.Store.ListDocuments(middleware.OwnerID(c), store.DocumentKind(c.Query("type")), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, documents)
}

type DocumentUpdateRequest struct {
	CustomerName    *string           `json:"customer_name"`
	LineItems       []models.LineItem `json:"line_items"`
	Subtotal        *string           `json:"subtotal"`
	TaxAmount       *string           `json:"tax_amount"`
	TotalAmount     *string           `json:"total_amount"`
	Notes           *string           `json:"notes"`
	DueDate         *string           `json:"due_date"`
	TermsConditions *string           `json:"terms_conditions"`
	DeliveryAddress *string           `json:"delivery_address"`
	DeliveryDate    *string           `json:"delivery_date"`
	TrackingNumber  *string           `json:"tracking_number"`
	DriverName      *string           `json:"driver_name"`
	DriverContact   *string           `json:"driver_contact"`
}

// UpdateDocument applies a partial content update.
func (h *Handler) UpdateDocument(c *gin.Context) {
	var input DocumentUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	doc, err := h.Store.GetDocument(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, doc.OwnerID) {
		return
	}

	err = h.Store.UpdateDocument(doc.ID, store.DocumentUpdate{
		CustomerName:    input.CustomerName,
		LineItems:       input.LineItems,
		Subtotal:        input.Subtotal,
		TaxAmount:       input.TaxAmount,
		TotalAmount:     input.TotalAmount,
		Notes:           input.Notes,
		DueDate:         input.DueDate,
		TermsConditions: input.TermsConditions,
		DeliveryAddress: input.DeliveryAddress,
		DeliveryDate:    input.DeliveryDate,
		TrackingNumber:  input.TrackingNumber,
		DriverName:      input.DriverName,
		DriverContact:   input.DriverContact,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document updated"})
}

type DocumentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateDocumentStatus advances a document's status machine.
func (h *Handler) UpdateDocumentStatus(c *gin.Context) {
	var input DocumentStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	doc, err := h.Store.GetDocument(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, doc.OwnerID) {
		return
	}
	if err := h.Store.UpdateDocumentStatus(doc.ID, input.Status); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

type PaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// RecordPayment applies a payment against an invoice.
func (h *Handler) RecordPayment(c *gin.Context) {
	var input PaymentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	doc, err := h.Store.GetDocument(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, doc.OwnerID) {
		return
	}
	if err := h.Store.RecordInvoicePayment(doc.ID, input.Amount); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment recorded"})
}

// DeleteDocument removes a document; paid invoices are refused.
func (h *Handler) DeleteDocument(c *gin.Context) {
	doc, err := h.Store.GetDocument(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, doc.OwnerID) {
		return
	}
	if err := h.Store.DeleteDocument(doc.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}
