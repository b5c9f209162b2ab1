package export

import (
	"bytes"
	"fmt"

	"go-pos-backoffice/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const headerFill = "366092"

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}

func titleStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
}

// SalesWorkbook renders the owner's transactions as an .xlsx download.
func SalesWorkbook(transactions []models.Transaction, businessName string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sales"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Sales Report - %s", businessName))
	f.MergeCell(sheet, "A1", "G1")
	if style, err := titleStyle(f); err == nil {
		f.SetCellStyle(sheet, "A1", "A1", style)
	}

	headers := []string{"Transaction ID", "Date", "Customer", "Items", "Payment Method", "Delivery", "Total"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(sheet, cell, header)
	}
	if style, err := headerStyle(f); err == nil {
		f.SetCellStyle(sheet, "A3", "G3", style)
	}

	for i, txn := range transactions {
		row := i + 4
		customer := "Walk-in"
		if txn.CustomerName != nil && *txn.CustomerName != "" {
			customer = *txn.CustomerName
		}
		total, _ := decimal.NewFromString(txn.TotalAmount)
		totalF, _ := total.Float64()

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), txn.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), txn.SaleDate)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), customer)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), len(txn.Items))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), txn.PaymentMethod)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), txn.DeliveryCharge)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), totalF)
	}

	f.SetColWidth(sheet, "A", "A", 38)
	f.SetColWidth(sheet, "B", "C", 18)
	f.SetColWidth(sheet, "D", "G", 14)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CustomersWorkbook renders the owner's customer list as an .xlsx download.
func CustomersWorkbook(customers []models.Customer, businessName string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Customers"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Customers - %s", businessName))
	f.MergeCell(sheet, "A1", "G1")
	if style, err := titleStyle(f); err == nil {
		f.SetCellStyle(sheet, "A1", "A1", style)
	}

	headers := []string{"Customer ID", "Name", "Email", "Phone", "Visits", "Total Spent", "Last Visit"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(sheet, cell, header)
	}
	if style, err := headerStyle(f); err == nil {
		f.SetCellStyle(sheet, "A3", "G3", style)
	}

	for i, customer := range customers {
		row := i + 4
		email, phone, lastVisit := "", "", ""
		if customer.Email != nil {
			email = *customer.Email
		}
		if customer.Phone != nil {
			phone = *customer.Phone
		}
		if customer.LastVisit != nil {
			lastVisit = customer.LastVisit.Format("2006-01-02")
		}
		spent, _ := customer.TotalSpent.Float64()

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), customer.CustomerID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), customer.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), email)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), phone)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), customer.TotalVisits)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), spent)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), lastVisit)
	}

	f.SetColWidth(sheet, "A", "B", 20)
	f.SetColWidth(sheet, "C", "D", 24)
	f.SetColWidth(sheet, "E", "G", 14)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
