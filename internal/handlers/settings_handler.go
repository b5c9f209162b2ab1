package handlers

import (
	"net/http"

	"go-pos-backoffice/internal/middleware"
	"go-pos-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

// GetProfile returns the authenticated owner's account.
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.Store.GetUser(middleware.OwnerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type BusinessInfoRequest struct {
	BusinessName    *string `json:"business_name"`
	BusinessAddress *string `json:"business_address"`
	TaxID           *string `json:"tax_id"`
	BaseCurrency    *string `json:"base_currency"`
}

// UpdateBusinessInfo applies a partial update to business settings.
func (h *Handler) UpdateBusinessInfo(c *gin.Context) {
	var input BusinessInfoRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	err := h.Store.UpdateBusinessInfo(middleware.OwnerID(c), store.BusinessInfoUpdate{
		BusinessName:    input.BusinessName,
		BusinessAddress: input.BusinessAddress,
		TaxID:           input.TaxID,
		BaseCurrency:    input.BaseCurrency,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Business info updated"})
}

type ThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// UpdateTheme stores the preferred UI theme.
func (h *Handler) UpdateTheme(c *gin.Context) {
	var input ThemeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.Store.UpdateTheme(middleware.OwnerID(c), input.Theme); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Theme updated"})
}

// GetTheme returns the preferred UI theme.
func (h *Handler) GetTheme(c *gin.Context) {
	theme, err := h.Store.GetTheme(middleware.OwnerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

type RecoveryContactRequest struct {
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// UpdateRecoveryContact stores account-recovery contact details.
func (h *Handler) UpdateRecoveryContact(c *gin.Context) {
	var input RecoveryContactRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.Store.UpdateRecoveryContact(middleware.OwnerID(c), input.Email, input.Phone); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recovery contact updated"})
}

// MigrateLegacyKeys rewrites historical owner keys to the canonical encoding.
// One-shot maintenance endpoint, safe to re-run.
func (h *Handler) MigrateLegacyKeys(c *gin.Context) {
	rewritten, err := h.Store.MigrateLegacyOwnerKeys()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows_rewritten": rewritten})
}

// DeleteAccount removes the owner's account and their sales and menu data.
func (h *Handler) DeleteAccount(c *gin.Context) {
	if err := h.Store.DeleteUser(middleware.OwnerID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
