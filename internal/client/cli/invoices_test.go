package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/parceltrack/console/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInvoiceQuery(t *testing.T) {
	q, err := parseInvoiceQuery([]string{"-status", "overdue", "-page", "2", "Anna"})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceQuery{Search: "Anna", PaymentStatus: models.PaymentOverdue, Page: 2}, q)

	_, err = parseInvoiceQuery([]string{"-status", "refunded"})
	require.EqualError(t, err, `unknown payment status "refunded"`)
}

func TestListInvoices(t *testing.T) {
	e := newTestApp(t, Admin()).signIn()
	e.api.invoicePage = models.Page[models.InvoiceListItem]{
		Count: 1,
		Results: []models.InvoiceListItem{
			{ID: 5, InvoiceNumber: "INV-2026-0005", TrackingCode: "PT-AAA111", SenderName: "Anna", TotalAmount: "121.00", PaymentStatus: models.PaymentPaid},
		},
	}

	require.NoError(t, e.app.Exec(context.Background(), "invoices", nil))

	assert.Equal(t, "/invoices", e.app.CurrentRoute())
	out := e.out.String()
	assert.Contains(t, out, "INV-2026-0005")
	assert.Contains(t, out, "121.00")
	assert.Contains(t, out, "Paid")
	assert.Contains(t, out, "1 result(s), page 1 of 1")
}

func TestShowInvoice_RendersDocument(t *testing.T) {
	e := newTestApp(t, Admin()).signIn()
	e.api.invoice = models.Invoice{InvoiceNumber: "INV-2026-0005"}

	require.NoError(t, e.app.Exec(context.Background(), "invoice", []string{"5"}))

	assert.Equal(t, "/invoices/5", e.app.CurrentRoute())
	require.Len(t, e.inv.rendered, 1)
	assert.Equal(t, int64(5), e.inv.rendered[0].ID)
	assert.Contains(t, e.out.String(), "INVOICE INV-2026-0005")

	e.inv.renderErr = errors.New(`invalid amount "abc"`)
	require.Error(t, e.app.Exec(context.Background(), "invoice", []string{"5"}))
}

func TestNewInvoice_WithDefaults(t *testing.T) {
	e := newTestApp(t, Admin(),
		"31",  // shipment id
		"100", // fee
		"21",  // tax rate
		"",    // discount keeps 0
		"",    // payment status keeps unpaid
		"",    // issued date keeps today
		"",    // due date keeps today+30
		"net 30",
	).signIn()

	require.NoError(t, e.app.Exec(context.Background(), "newinvoice", nil))

	require.Len(t, e.api.createdInvoice, 1)
	assert.Equal(t, models.InvoiceCreateData{
		Shipment:      31,
		ShippingFee:   "100",
		TaxRate:       "21",
		Discount:      "0",
		Notes:         "net 30",
		PaymentStatus: models.PaymentUnpaid,
		IssuedDate:    "2026-03-01",
		DueDate:       "2026-03-31",
	}, e.api.createdInvoice[0])
	out := e.out.String()
	assert.Regexp(t, `Tax \(21\.00%\)\s+21\.00`, out)
	assert.Regexp(t, `Total\s+121\.00`, out)
	assert.Contains(t, out, "Invoice INV-2026-0012 issued")
	assert.Equal(t, "/invoices/12", e.app.CurrentRoute())
	assert.Empty(t, e.api.shipmentQueries)
}

func TestNewInvoice_ResolvesShipmentBySearch(t *testing.T) {
	e := newTestApp(t, Admin(), "PT-AAA111", "10", "", "", "paid", "", "", "", "").signIn()
	e.api.shipmentPage = models.Page[models.ShipmentListItem]{
		Count:   1,
		Results: []models.ShipmentListItem{{ID: 8, TrackingCode: "PT-AAA111", SenderName: "Anna", ReceiverName: "Bruno"}},
	}

	require.NoError(t, e.app.Exec(context.Background(), "newinvoice", nil))

	assert.Equal(t, []models.ShipmentQuery{{Search: "PT-AAA111"}}, e.api.shipmentQueries)
	require.Len(t, e.api.createdInvoice, 1)
	assert.Equal(t, int64(8), e.api.createdInvoice[0].Shipment)
	assert.Equal(t, models.PaymentPaid, e.api.createdInvoice[0].PaymentStatus)
}

func TestNewInvoice_ShipmentSearchMustBeUnique(t *testing.T) {
	e := newTestApp(t, Admin(), "Anna").signIn()
	e.api.shipmentPage = models.Page[models.ShipmentListItem]{
		Count:   2,
		Results: []models.ShipmentListItem{{ID: 8, TrackingCode: "PT-1"}, {ID: 9, TrackingCode: "PT-2"}},
	}

	err := e.app.Exec(context.Background(), "newinvoice", nil)
	require.EqualError(t, err, `"Anna" matches 2 shipments, use an id`)

	e2 := newTestApp(t, Admin(), "nobody").signIn()
	err = e2.app.Exec(context.Background(), "newinvoice", nil)
	require.EqualError(t, err, `no shipment matches "nobody"`)
}

func TestNewInvoice_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		wantErr string
	}{
		{"bad fee", []string{"31", "ten", "", "", ""}, `invalid amount "ten": strconv.ParseFloat: parsing "ten": invalid syntax`},
		{"bad status", []string{"31", "10", "", "", "refunded"}, `unknown payment status "refunded"`},
		{"bad date", []string{"31", "10", "", "", "", "01/03/2026"}, `invalid date "01/03/2026"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestApp(t, Admin(), tt.lines...).signIn()
			err := e.app.Exec(context.Background(), "newinvoice", nil)
			require.EqualError(t, err, tt.wantErr)
			assert.Empty(t, e.api.createdInvoice)
		})
	}
}

func TestSetPaymentStatus(t *testing.T) {
	e := newTestApp(t, Admin()).signIn()

	require.NoError(t, e.app.Exec(context.Background(), "pay", []string{"5", "paid"}))
	assert.Equal(t, []models.PaymentStatus{models.PaymentPaid}, e.api.payments)
	assert.Equal(t, "/invoices/5", e.app.CurrentRoute())
	assert.Contains(t, e.out.String(), "Invoice INV-2026-0001 is now Paid")

	require.EqualError(t, e.app.Exec(context.Background(), "pay", []string{"5"}), "usage: pay <id> <unpaid|paid|overdue>")
	require.Error(t, e.app.Exec(context.Background(), "pay", []string{"x", "paid"}))
}

func TestExportInvoice(t *testing.T) {
	e := newTestApp(t, Admin()).signIn()

	require.NoError(t, e.app.Exec(context.Background(), "export", []string{"5"}))
	assert.Equal(t, []int64{5}, e.inv.exported)
	assert.Contains(t, e.out.String(), "Exported to exports/invoice-INV-1.txt")

	e.inv.exportErr = errors.New("export invoice INV-1: access denied")
	require.EqualError(t, e.app.Exec(context.Background(), "export", []string{"5"}), "export invoice INV-1: access denied")
}
