package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"go-pos-backoffice/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSalesWorkbook(t *testing.T) {
	name := "Aisha"
	transactions := []models.Transaction{
		{
			ID:             "txn-1",
			SaleDate:       "2026-08-28",
			CustomerName:   &name,
			Items:          []models.LineItem{{Name: "Tea", Quantity: 2, UnitPrice: "3.00", TotalPrice: "6.00"}},
			TotalAmount:    "6.00",
			PaymentMethod:  "cash",
			DeliveryCharge: "0.00",
		},
		{
			ID:             "txn-2",
			SaleDate:       "2026-08-28",
			Items:          []models.LineItem{{Name: "Kopi", Quantity: 1, UnitPrice: "2.50", TotalPrice: "2.50"}},
			TotalAmount:    "2.50",
			PaymentMethod:  "card",
			DeliveryCharge: "0.00",
		},
	}

	data, err := SalesWorkbook(transactions, "Corner Shop")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Sales", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Sales Report - Corner Shop", title)

	customer, err := f.GetCellValue("Sales", "C4")
	require.NoError(t, err)
	assert.Equal(t, "Aisha", customer)

	walkIn, err := f.GetCellValue("Sales", "C5")
	require.NoError(t, err)
	assert.Equal(t, "Walk-in", walkIn, "missing customer name renders as Walk-in")

	total, err := f.GetCellValue("Sales", "G4")
	require.NoError(t, err)
	assert.Equal(t, "6", total)
}

func TestCustomersWorkbook(t *testing.T) {
	email := "aisha@example.com"
	lastVisit := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	customers := []models.Customer{
		{
			CustomerID:  "CUST-001",
			Name:        "Aisha",
			Email:       &email,
			TotalVisits: 3,
			TotalSpent:  decimal.RequireFromString("45.00"),
			LastVisit:   &lastVisit,
		},
	}

	data, err := CustomersWorkbook(customers, "Corner Shop")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	code, err := f.GetCellValue("Customers", "A4")
	require.NoError(t, err)
	assert.Equal(t, "CUST-001", code)

	visit, err := f.GetCellValue("Customers", "G4")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-01", visit)
}

func TestReceiptText(t *testing.T) {
	name := "Aisha"
	notes := "No sugar"
	txn := &models.Transaction{
		ID:           "txn-1",
		CustomerName: &name,
		Items: []models.LineItem{
			{Name: "Tea", Quantity: 2, UnitPrice: "3.00", TotalPrice: "6.00"},
		},
		TotalAmount:    "6.00",
		Currency:       "MYR",
		PaymentMethod:  "cash",
		Notes:          &notes,
		DeliveryCharge: "0.00",
		CreatedAt:      time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC),
	}

	receipt := ReceiptText(txn, "Corner Shop")

	assert.Contains(t, receipt, "CORNER SHOP")
	assert.Contains(t, receipt, "Transaction ID: txn-1")
	assert.Contains(t, receipt, "Customer: Aisha")
	assert.Contains(t, receipt, "2x Tea")
	assert.Contains(t, receipt, "@ MYR 3.00 = MYR 6.00")
	assert.Contains(t, receipt, "TOTAL:           MYR 6.00")
	assert.Contains(t, receipt, "Notes: No sugar")
	assert.NotContains(t, receipt, "Delivery:", "zero delivery charge is omitted")

	txn.CustomerName = nil
	receipt = ReceiptText(txn, "Corner Shop")
	assert.Contains(t, receipt, "Customer: Walk-in")
	assert.True(t, strings.HasPrefix(receipt, strings.Repeat("=", 50)))
}
