package invoice

import (
	"fmt"
	"strings"
)

// DefaultCurrency applies to records that do not declare one.
const DefaultCurrency = "EUR"

// Invoice is a single expense invoice as stored in the book.
type Invoice struct {
	ID         string `yaml:"id"`
	Number     string `yaml:"number"`
	Supplier   string `yaml:"supplier"`
	TotalCents int64  `yaml:"total_cents"`
	Currency   string `yaml:"currency,omitempty"`
	IssuedOn   string `yaml:"issued_on,omitempty"`
	Status     Status `yaml:"status,omitempty"`
	Archived   bool   `yaml:"archived,omitempty"`
}

// FormatTotal renders the total with two decimals and the currency code.
func (inv Invoice) FormatTotal() string {
	currency := strings.TrimSpace(inv.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	cents := inv.TotalCents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, currency)
}

// DisplayNumber returns the invoice number, or a placeholder for records that
// have not been numbered yet.
func (inv Invoice) DisplayNumber() string {
	if n := strings.TrimSpace(inv.Number); n != "" {
		return n
	}
	return "(new)"
}

func (inv *Invoice) normalize() {
	inv.ID = strings.TrimSpace(inv.ID)
	inv.Number = strings.TrimSpace(inv.Number)
	inv.Supplier = strings.TrimSpace(inv.Supplier)
	inv.Currency = strings.ToUpper(strings.TrimSpace(inv.Currency))
	inv.IssuedOn = strings.TrimSpace(inv.IssuedOn)
}

func (inv Invoice) searchText() string {
	return inv.Number + " " + inv.Supplier
}
