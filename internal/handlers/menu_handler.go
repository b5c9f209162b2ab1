package handlers

import (
	"net/http"

	"go-pos-backoffice/internal/middleware"
	"go-pos-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

type MenuItemRequest struct {
	Name            string  `json:"name" binding:"required"`
	Price           string  `json:"price" binding:"required"`
	Category        string  `json:"category" binding:"required"`
	Description     *string `json:"description"`
	StockQuantity   *int    `json:"stock_quantity"`
	AllowDuplicates bool    `json:"allow_duplicates"`
}

// CreateMenuItem adds a sellable item. A duplicate name returns the existing
// item's id rather than an error.
func (h *Handler) CreateMenuItem(c *gin.Context) {
	var input MenuItemRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	id, err := h.Store.CreateMenuItem(store.NewMenuItem{
		OwnerID:         middleware.OwnerID(c),
		Name:            input.Name,
		Price:           input.Price,
		Category:        input.Category,
		Description:     input.Description,
		StockQuantity:   input.StockQuantity,
		AllowDuplicates: input.AllowDuplicates,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListMenuItems returns the owner's full menu.
func (h *Handler) ListMenuItems(c *gin.Context) {
	items, err := h.Store.ListMenuItems(middleware.OwnerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetMenuItem fetches one item.
func (h *Handler) GetMenuItem(c *gin.Context) {
	item, err := h.Store.GetMenuItem(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, item.OwnerID) {
		return
	}
	c.JSON(http.StatusOK, item)
}

type MenuItemUpdateRequest struct {
	Name          *string `json:"name"`
	Price         *string `json:"price"`
	Category      *string `json:"category"`
	Description   *string `json:"description"`
	StockQuantity *int    `json:"stock_quantity"`
	IsActive      *bool   `json:"is_active"`
}

// UpdateMenuItem applies a partial update.
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	var input MenuItemUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	item, err := h.Store.GetMenuItem(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, item.OwnerID) {
		return
	}

	err = h.Store.UpdateMenuItem(item.ID, store.MenuItemUpdate{
		Name:          input.Name,
		Price:         input.Price,
		Category:      input.Category,
		Description:   input.Description,
		StockQuantity: input.StockQuantity,
		IsActive:      input.IsActive,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated"})
}

// DeleteMenuItem removes an item.
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	item, err := h.Store.GetMenuItem(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, item.OwnerID) {
		return
	}
	if err := h.Store.DeleteMenuItem(item.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

// RemoveDuplicateMenuItems is a maintenance endpoint: collapse items sharing
// a name, keeping the oldest.
func (h *Handler) RemoveDuplicateMenuItems(c *gin.Context) {
	removed, err := h.Store.RemoveDuplicateMenuItems(middleware.OwnerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// ListCategories returns the owner's category names.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.Store.ListCategories(middleware.OwnerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddCategory registers a category.
func (h *Handler) AddCategory(c *gin.Context) {
	var input CategoryRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.Store.AddCategory(middleware.OwnerID(c), input.Name); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category added"})
}

type RenameCategoryRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

// RenameCategory moves the category's items to the new name.
func (h *Handler) RenameCategory(c *gin.Context) {
	var input RenameCategoryRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	moved, err := h.Store.RenameCategory(middleware.OwnerID(c), c.Param("name"), input.NewName)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items_moved": moved})
}

// DeleteCategory drops a category, moving its items to "other".
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.Store.DeleteCategory(middleware.OwnerID(c), c.Param("name")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
