package notify

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mebelpos/mebelpos/internal/catalog"
	"github.com/mebelpos/mebelpos/internal/debts"
	"github.com/mebelpos/mebelpos/internal/pos/pricing"
	"github.com/mebelpos/mebelpos/internal/receipts"
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders an amount with thousands grouping, e.g. "1,250,000".
func FormatMoney(amount pricing.Money) string {
	return printer.Sprintf("%d", amount)
}

// FormatReceipt renders a sold-receipt message.
func FormatReceipt(r *receipts.Receipt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Receipt %s\n", r.Number)
	for _, item := range r.Items {
		fmt.Fprintf(&b, "%s x%d = %s\n", item.Name, item.Quantity, FormatMoney(item.Total()))
	}
	fmt.Fprintf(&b, "Total: %s\nPaid: %s (%s)", FormatMoney(r.Total), FormatMoney(r.PaidAmount), r.PaymentMethod)
	if r.RemainingAmount > 0 {
		fmt.Fprintf(&b, "\nDebt: %s", FormatMoney(r.RemainingAmount))
	}
	return b.String()
}

// FormatDebtReminder renders the daily open-debt digest.
func FormatDebtReminder(open []debts.Debt) string {
	if len(open) == 0 {
		return "No open debts."
	}
	var total pricing.Money
	var b strings.Builder
	fmt.Fprintf(&b, "Open debts: %d\n", len(open))
	for _, d := range open {
		total += d.Amount
		fmt.Fprintf(&b, "customer %d: %s (%s)\n", d.CustomerID, FormatMoney(d.Amount), d.CreatedAt.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "Outstanding total: %s", FormatMoney(total))
	return b.String()
}

// FormatLowStock renders the low-stock alert.
func FormatLowStock(products []catalog.Product, threshold int) string {
	if len(products) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Stock at or below %d:\n", threshold)
	for _, p := range products {
		fmt.Fprintf(&b, "%s (%s): %d %s left\n", p.Name, p.Code, p.StockQuantity, p.Unit)
	}
	return strings.TrimRight(b.String(), "\n")
}
