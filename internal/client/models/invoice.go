package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PaymentStatus is the settlement state of an invoice.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

var PaymentStatuses = []PaymentStatus{PaymentUnpaid, PaymentPaid, PaymentOverdue}

var paymentLabels = map[PaymentStatus]string{
	PaymentUnpaid:  "Unpaid",
	PaymentPaid:    "Paid",
	PaymentOverdue: "Overdue",
}

func (p PaymentStatus) Valid() bool {
	_, ok := paymentLabels[p]
	return ok
}

func (p PaymentStatus) Label() string {
	if l, ok := paymentLabels[p]; ok {
		return l
	}
	return string(p)
}

// InvoiceListItem is a row of the invoices table. Amounts are decimal
// strings as sent by the API.
type InvoiceListItem struct {
	ID                   int64         `json:"id"`
	InvoiceNumber        string        `json:"invoice_number"`
	TrackingCode         string        `json:"tracking_code"`
	SenderName           string        `json:"sender_name"`
	ReceiverName         string        `json:"receiver_name"`
	TotalAmount          string        `json:"total_amount"`
	PaymentStatus        PaymentStatus `json:"payment_status"`
	PaymentStatusDisplay string        `json:"payment_status_display"`
	IssuedDate           string        `json:"issued_date"`
	DueDate              string        `json:"due_date"`
	CreatedAt            string        `json:"created_at"`
}

type Invoice struct {
	ID                   int64         `json:"id"`
	InvoiceNumber        string        `json:"invoice_number"`
	Shipment             Shipment      `json:"shipment"`
	ShippingFee          string        `json:"shipping_fee"`
	TaxRate              string        `json:"tax_rate"`
	TaxAmount            string        `json:"tax_amount"`
	Discount             string        `json:"discount"`
	TotalAmount          string        `json:"total_amount"`
	Notes                string        `json:"notes"`
	PaymentStatus        PaymentStatus `json:"payment_status"`
	PaymentStatusDisplay string        `json:"payment_status_display"`
	IssuedDate           string        `json:"issued_date"`
	DueDate              string        `json:"due_date"`
	CreatedAt            string        `json:"created_at"`
	UpdatedAt            string        `json:"updated_at"`
}

type InvoiceCreateData struct {
	Shipment      int64         `json:"shipment"`
	ShippingFee   string        `json:"shipping_fee"`
	TaxRate       string        `json:"tax_rate"`
	Discount      string        `json:"discount"`
	Notes         string        `json:"notes"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	IssuedDate    string        `json:"issued_date"`
	DueDate       string        `json:"due_date"`
}

// InvoiceQuery filters the invoices list. Zero fields are omitted.
type InvoiceQuery struct {
	Search        string
	PaymentStatus PaymentStatus
	Ordering      string
	Page          int
}

// Totals is the computed money breakdown of an invoice.
type Totals struct {
	Fee      float64
	TaxRate  float64
	Tax      float64
	Discount float64
	Total    float64
}

// InvoiceTotals computes tax = fee*rate/100 and total = fee+tax-discount,
// rounded to cents.
func InvoiceTotals(fee, taxRate, discount float64) Totals {
	tax := roundCents(fee * taxRate / 100)
	return Totals{
		Fee:      fee,
		TaxRate:  taxRate,
		Tax:      tax,
		Discount: discount,
		Total:    roundCents(fee + tax - discount),
	}
}

// ParseAmount reads a decimal string; an empty string counts as zero.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

// TotalsFromStrings parses the three decimal inputs and computes totals.
func TotalsFromStrings(fee, taxRate, discount string) (Totals, error) {
	f, err := ParseAmount(fee)
	if err != nil {
		return Totals{}, err
	}
	r, err := ParseAmount(taxRate)
	if err != nil {
		return Totals{}, err
	}
	d, err := ParseAmount(discount)
	if err != nil {
		return Totals{}, err
	}
	return InvoiceTotals(f, r, d), nil
}

// FormatAmount renders v with two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
