package handlers

import (
	"net/http"

	"go-pos-backoffice/internal/auth"
	"go-pos-backoffice/internal/middleware"
	"go-pos-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	BusinessName string `json:"business_name" binding:"required"`
	PIN          string `json:"pin" binding:"required"`
}

// Login exchanges business name + PIN for a JWT.
func (h *Handler) Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	userID, err := h.Store.ValidatePIN(input.BusinessName, input.PIN)
	if err != nil {
		// Wrong name and wrong PIN look the same to the caller.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(userID, input.BusinessName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"user_id":       userID,
		"business_name": input.BusinessName,
	})
}

type RegisterRequest struct {
	BusinessName    string  `json:"business_name" binding:"required"`
	PIN             string  `json:"pin" binding:"required"`
	BusinessType    string  `json:"business_type" binding:"required"`
	BaseCurrency    string  `json:"base_currency"`
	BusinessAddress *string `json:"business_address"`
	TaxID           *string `json:"tax_id"`
}

// Register creates a business account. Only routed when ALLOW_REGISTRATION
// is set.
func (h *Handler) Register(c *gin.Context) {
	var input RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.Store.CreateUser(store.NewUser{
		BusinessName:    input.BusinessName,
		PIN:             input.PIN,
		BusinessType:    input.BusinessType,
		BaseCurrency:    input.BaseCurrency,
		BusinessAddress: input.BusinessAddress,
		TaxID:           input.TaxID,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id":       user.ID,
		"business_name": user.BusinessName,
	})
}

type RecoveryLookupRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// FindBusiness reminds a locked-out owner which business their recovery
// contact belongs to.
func (h *Handler) FindBusiness(c *gin.Context) {
	var input RecoveryLookupRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.Store.FindBusinessByRecoveryContact(input.Email, input.Phone)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"business_name": user.BusinessName})
}

type ResetPINRequest struct {
	BusinessName    string `json:"business_name" binding:"required"`
	RecoveryContact string `json:"recovery_contact" binding:"required"`
	NewPIN          string `json:"new_pin" binding:"required"`
}

// ResetPIN resets a PIN after verifying the recovery contact.
func (h *Handler) ResetPIN(c *gin.Context) {
	var input ResetPINRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := h.Store.VerifyRecoveryAndResetPIN(input.BusinessName, input.RecoveryContact, input.NewPIN); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "PIN reset successfully"})
}

type ChangePINRequest struct {
	CurrentPIN string `json:"current_pin" binding:"required"`
	NewPIN     string `json:"new_pin" binding:"required"`
}

// ChangePIN lets an authenticated owner rotate their PIN.
func (h *Handler) ChangePIN(c *gin.Context) {
	var input ChangePINRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ownerID := middleware.OwnerID(c)
	user, err := h.Store.GetUser(ownerID)
	if err != nil {
		fail(c, err)
		return
	}
	if _, err := h.Store.ValidatePIN(user.BusinessName, input.CurrentPIN); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current PIN is incorrect"})
		return
	}
	if err := h.Store.UpdatePIN(ownerID, input.NewPIN); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "PIN updated successfully"})
}
