package handlers

import (
	"net/http"

	"go-pos-backoffice/internal/middleware"
	"go-pos-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

type CustomerRequest struct {
	Name         string  `json:"name" binding:"required"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
	Birthday     *string `json:"birthday"`
	Notes        *string `json:"notes"`
	CustomerType string  `json:"customer_type"`
}

// CreateCustomer adds a CRM record.
func (h *Handler) CreateCustomer(c *gin.Context) {
	var input CustomerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	customer, err := h.Store.CreateCustomer(store.NewCustomer{
		OwnerID:      middleware.OwnerID(c),
		Name:         input.Name,
		Phone:        input.Phone,
		Email:        input.Email,
		Address:      input.Address,
		Birthday:     input.Birthday,
		Notes:        input.Notes,
		CustomerType: input.CustomerType,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// GetCustomer fetches one customer.
func (h *Handler) GetCustomer(c *gin.Context) {
	customer, err := h.Store.GetCustomer(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, customer.OwnerID) {
		return
	}
	c.JSON(http.StatusOK, customer)
}

// CustomerSummary reports visits, spend and average transaction.
func (h *Handler) CustomerSummary(c *gin.Context) {
	customer, err := h.Store.GetCustomer(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, customer.OwnerID) {
		return
	}
	summary, err := h.Store.GetCustomerSummary(customer.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// SearchCustomers matches name, phone or email against ?q=.
func (h *Handler) SearchCustomers(c *gin.Context) {
	customers, err := h.Store.SearchCustomers(middleware.OwnerID(c), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// FindCustomerByContact looks up an active customer by ?phone= and/or
// ?email=.
func (h *Handler) FindCustomerByContact(c *gin.Context) {
	customer, err := h.Store.GetCustomerByContact(middleware.OwnerID(c), c.Query("phone"), c.Query("email"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

type CustomerUpdateRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Address        *string `json:"address"`
	Notes          *string `json:"notes"`
	SMSMarketing   *bool   `json:"sms_marketing"`
	EmailMarketing *bool   `json:"email_marketing"`
}

// UpdateCustomer applies a partial update.
func (h *Handler) UpdateCustomer(c *gin.Context) {
	var input CustomerUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	customer, err := h.Store.GetCustomer(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, customer.OwnerID) {
		return
	}

	err = h.Store.UpdateCustomer(customer.ID, store.CustomerUpdate{
		Name:           input.Name,
		Phone:          input.Phone,
		Email:          input.Email,
		Address:        input.Address,
		Notes:          input.Notes,
		SMSMarketing:   input.SMSMarketing,
		EmailMarketing: input.EmailMarketing,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated"})
}

// DeactivateCustomer soft-deletes a customer.
func (h *Handler) DeactivateCustomer(c *gin.Context) {
	customer, err := h.Store.GetCustomer(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, customer.OwnerID) {
		return
	}
	if err := h.Store.DeactivateCustomer(customer.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deactivated"})
}

// MarketingAudience lists customers opted in for ?type= (sms, email, both).
func (h *Handler) MarketingAudience(c *gin.Context) {
	customers, err := h.Store.CustomersForMarketing(middleware.OwnerID(c), c.DefaultQuery("type", "both"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// SyncCustomers rebuilds customer records and aggregates from sales history.
func (h *Handler) SyncCustomers(c *gin.Context) {
	created, err := h.Store.SyncCustomersFromTransactions(middleware.OwnerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers_created": created})
}
