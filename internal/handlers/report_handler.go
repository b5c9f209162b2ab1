package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go-pos-backoffice/internal/export"
	"go-pos-backoffice/internal/middleware"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportSalesExcel streams the owner's sales as an .xlsx file.
func (h *Handler) ExportSalesExcel(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	user, err := h.Store.GetUser(ownerID)
	if err != nil {
		fail(c, err)
		return
	}
	exported, err := h.Store.ExportAllData(ownerID)
	if err != nil {
		fail(c, err)
		return
	}

	data, err := export.SalesWorkbook(exported.Transactions, user.BusinessName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}

	filename := fmt.Sprintf("sales_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ExportCustomersExcel streams the owner's customers as an .xlsx file.
func (h *Handler) ExportCustomersExcel(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	user, err := h.Store.GetUser(ownerID)
	if err != nil {
		fail(c, err)
		return
	}
	exported, err := h.Store.ExportAllData(ownerID)
	if err != nil {
		fail(c, err)
		return
	}

	data, err := export.CustomersWorkbook(exported.Customers, user.BusinessName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}

	filename := fmt.Sprintf("customers_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// TransactionReceipt renders one sale as a plain-text receipt.
func (h *Handler) TransactionReceipt(c *gin.Context) {
	user, err := h.Store.GetUser(middleware.OwnerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	txn, err := h.Store.GetTransaction(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ownedBy(c, txn.OwnerID) {
		return
	}
	c.String(http.StatusOK, export.ReceiptText(txn, user.BusinessName))
}

// ExportAllData returns a full JSON snapshot of the owner's records.
func (h *Handler) ExportAllData(c *gin.Context) {
	exported, err := h.Store.ExportAllData(middleware.OwnerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, exported)
}
