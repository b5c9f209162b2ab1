package export

import (
	"fmt"
	"strings"

	"go-pos-backoffice/internal/models"
)

const receiptWidth = 50

func rule(ch string) string {
	return strings.Repeat(ch, receiptWidth)
}

// ReceiptText renders a transaction as a plain-text receipt suitable for
// thermal printers or copy-paste into a chat.
func ReceiptText(txn *models.Transaction, businessName string) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	customer := "Walk-in"
	if txn.CustomerName != nil && *txn.CustomerName != "" {
		customer = *txn.CustomerName
	}

	line(rule("="))
	line("        %s", strings.ToUpper(businessName))
	line(rule("="))
	line("Transaction ID: %s", txn.ID)
	line("Date & Time: %s", txn.CreatedAt.Format("2006-01-02 15:04"))
	line("Customer: %s", customer)
	line(rule("-"))

	line("ITEMS:")
	for _, item := range txn.Items {
		line("%dx %s", item.Quantity, item.Name)
		line("    @ %s %s = %s %s", txn.Currency, item.UnitPrice, txn.Currency, item.TotalPrice)
	}

	line(rule("-"))
	if txn.DeliveryCharge != "" && txn.DeliveryCharge != "0.00" {
		line("Delivery:       +%s %s", txn.Currency, txn.DeliveryCharge)
	}
	line(rule("="))
	line("TOTAL:           %s %s", txn.Currency, txn.TotalAmount)
	line(rule("="))
	line("Payment Method: %s", txn.PaymentMethod)

	if txn.Notes != nil && *txn.Notes != "" {
		line(rule("-"))
		line("Notes: %s", *txn.Notes)
	}

	line(rule("-"))
	line("Thank you for your business!")
	line("Please keep this receipt for your records.")
	line(rule("="))
	return b.String()
}
