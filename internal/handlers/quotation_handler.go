package handlers

import (
	"net/http"
	"strconv"

	"go-pos-backoffice/internal/middleware"
	"go-pos-backoffice/internal/models"
	"go-pos-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

type QuotationRequest struct {
	CustomerID     string            `json:"customer_id"`
	CustomerName   string            `json:"customer_name" binding:"required"`
	LineItems      []models.LineItem `json:"line_items" binding:"required"`
	Subtotal       string            `json:"subtotal" binding:"required"`
	TaxAmount      string            `json:"tax_amount"`
	DeliveryCharge string            `json:"delivery_charge"`
	TotalAmount    string            `json:"total_amount" binding:"required"`
	ValidityDays   int               `json:"validity_days"`
	PaymentTerms   *string           `json:"payment_terms"`
	Notes          *string           `json:"notes"`
}

// CreateQuotation opens a new quotation in Draft.
func (h *Handler) CreateQuotation(c *gin.Context) {
	var input QuotationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	quotation, err := h.Store.CreateQuotation(store.NewQuotation{
		OwnerID:        middleware.OwnerID(c),
		CustomerID:     input.CustomerID,
		CustomerName:   input.CustomerName,
		LineItems:      input.LineItems,
		Subtotal:       input.Subtotal,
		TaxAmount:      input.TaxAmount,
		DeliveryCharge: input.DeliveryCharge,
		TotalAmount:    input.TotalAmount,
		ValidityDays:   input.ValidityDays,
		PaymentTerms:   input.PaymentTerms,
		Notes:          input.Notes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, quotation)
}

// GetQuotation fetches one quotation.
func (h *Handler) GetQuotation(c *gin.Context) {
	quotation, err := h.Store.GetQuotation(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, quotation.OwnerID) {
		return
	}
	c.JSON(http.StatusOK, quotation)
}

// GetQuotationByNumber fetches by reference code, e.g. QT-2025-001.
func (h *Handler) GetQuotationByNumber(c *gin.Context) {
	quotation, err := h.Store.GetQuotationByNumber(middleware.OwnerID(c), c.Param("number"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, quotation)
}

// ListQuotations returns quotations, optionally filtered by ?status=.
func (h *Handler) ListQuotations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	quotations, err := h.Store.ListQuotations(middleware.OwnerID(c), c.Query("status"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, quotations)
}

type QuotationUpdateRequest struct {
	LineItems      []models.LineItem `json:"line_items"`
	Subtotal       *string           `json:"subtotal"`
	TaxAmount      *string           `json:"tax_amount"`
	TotalAmount    *string           `json:"total_amount"`
	PaymentTerms   *string           `json:"payment_terms"`
	Notes          *string           `json:"notes"`
	ValidityDays   *int              `json:"validity_days"`
	ValidUntil     *string           `json:"valid_until"`
	DeliveryCharge *string           `json:"delivery_charge"`
}

// UpdateQuotation applies a partial content update.
func (h *Handler) UpdateQuotation(c *gin.Context) {
	var input QuotationUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	quotation, err := h.Store.GetQuotation(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, quotation.OwnerID) {
		return
	}

	err = h.Store.UpdateQuotation(quotation.ID, store.QuotationUpdate{
		LineItems:      input.LineItems,
		Subtotal:       input.Subtotal,
		TaxAmount:      input.TaxAmount,
		TotalAmount:    input.TotalAmount,
		PaymentTerms:   input.PaymentTerms,
		Notes:          input.Notes,
		ValidityDays:   input.ValidityDays,
		ValidUntil:     input.ValidUntil,
		DeliveryCharge: input.DeliveryCharge,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quotation updated"})
}

type QuotationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateQuotationStatus advances a quotation along its status machine.
func (h *Handler) UpdateQuotationStatus(c *gin.Context) {
	var input QuotationStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	quotation, err := h.Store.GetQuotation(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, quotation.OwnerID) {
		return
	}
	if err := h.Store.UpdateQuotationStatus(quotation.ID, input.Status); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// ConvertQuotation turns an accepted quotation into a sale and marks it
// converted.
func (h *Handler) ConvertQuotation(c *gin.Context) {
	quotation, err := h.Store.GetQuotation(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, quotation.OwnerID) {
		return
	}
	// Checked again inside MarkQuotationConverted; the early check keeps a
	// rejected conversion from leaving an orphan sale behind.
	if quotation.Status != models.QuotationAccepted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only accepted quotations can be converted"})
		return
	}

	var customerID *string
	if quotation.CustomerID != "" {
		customerID = &quotation.CustomerID
	}
	txn, err := h.Store.CreateTransaction(store.NewTransaction{
		OwnerID:        middleware.OwnerID(c),
		Items:          quotation.LineItems,
		TotalAmount:    quotation.TotalAmount,
		CustomerID:     customerID,
		CustomerName:   &quotation.CustomerName,
		DeliveryCharge: quotation.DeliveryCharge,
	})
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.Store.MarkQuotationConverted(quotation.ID, txn.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction_id": txn.ID})
}

// DeleteQuotation removes an unconverted quotation.
func (h *Handler) DeleteQuotation(c *gin.Context) {
	quotation, err := h.Store.GetQuotation(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, quotation.OwnerID) {
		return
	}
	if err := h.Store.DeleteQuotation(quotation.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quotation deleted"})
}
