package handlers

import (
	"net/http"
	"strconv"

	"go-pos-backoffice/internal/middleware"
	"go-pos-backoffice/internal/models"
	"go-pos-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

type TransactionRequest struct {
	Items          []models.LineItem `json:"items" binding:"required"`
	TotalAmount    string            `json:"total_amount" binding:"required"`
	Currency       string            `json:"currency"`
	CustomerID     *string           `json:"customer_id"`
	CustomerName   *string           `json:"customer_name"`
	PaymentMethod  string            `json:"payment_method"`
	Notes          *string           `json:"notes"`
	DeliveryCharge string            `json:"delivery_charge"`
}

// CreateTransaction records a sale.
func (h *Handler) CreateTransaction(c *gin.Context) {
	var input TransactionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	txn, err := h.Store.CreateTransaction(store.NewTransaction{
		OwnerID:        middleware.OwnerID(c),
		Items:          input.Items,
		TotalAmount:    input.TotalAmount,
		Currency:       input.Currency,
		CustomerID:     input.CustomerID,
		CustomerName:   input.CustomerName,
		PaymentMethod:  input.PaymentMethod,
		Notes:          input.Notes,
		DeliveryCharge: input.DeliveryCharge,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// GetTransaction fetches one sale.
func (h *Handler) GetTransaction(c *gin.Context) {
	txn, err := h.Store.GetTransaction(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, txn.OwnerID) {
		return
	}
	c.JSON(http.StatusOK, txn)
}

// ListTransactions returns recent sales; ?limit= caps the page.
func (h *Handler) ListTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	transactions, err := h.Store.ListTransactions(middleware.OwnerID(c), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// DailySummary totals one day's sales; ?date= defaults to today.
func (h *Handler) DailySummary(c *gin.Context) {
	summary, err := h.Store.DailySalesSummary(middleware.OwnerID(c), c.Query("date"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// SalesSummary aggregates the owner's whole sales history.
func (h *Handler) SalesSummary(c *gin.Context) {
	summary, err := h.Store.TransactionSummary(middleware.OwnerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
