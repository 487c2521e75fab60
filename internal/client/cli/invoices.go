package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/parceltrack/console/internal/client/models"
)

const (
	dateLayout     = "2006-01-02"
	defaultDueDays = 30
)

func invoiceRoute(id int64) string {
	return fmt.Sprintf("/invoices/%d", id)
}

func parseInvoiceQuery(args []string) (models.InvoiceQuery, error) {
	status, ordering, search, page, err := listFlags("invoices", args)
	if err != nil {
		return models.InvoiceQuery{}, err
	}
	q := models.InvoiceQuery{Search: search, Ordering: ordering, Page: page}
	if status != "" {
		p := models.PaymentStatus(status)
		if !p.Valid() {
			return q, fmt.Errorf("unknown payment status %q", status)
		}
		q.PaymentStatus = p
	}
	return q, nil
}

func (a *App) listInvoices(ctx context.Context, args []string) error {
	q, err := parseInvoiceQuery(args)
	if err != nil {
		return err
	}
	a.Navigate("/invoices")

	page, err := a.api.ListInvoices(ctx, q)
	if err != nil {
		return err
	}
	renderInvoiceList(a.out, page, q.Page)
	return nil
}

func (a *App) showInvoice(ctx context.Context, args []string) error {
	id, err := parseID(args, "invoice <id>")
	if err != nil {
		return err
	}
	a.Navigate(invoiceRoute(id))

	inv, err := a.api.GetInvoice(ctx, id)
	if err != nil {
		return err
	}
	doc, err := a.invoices.Render(inv)
	if err != nil {
		return err
	}
	_, err = a.out.Write(doc)
	return err
}

// resolveShipment accepts a shipment id or a search text. A search must
// match exactly one shipment.
func (a *App) resolveShipment(ctx context.Context, ref string) (int64, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil && id > 0 {
		return id, nil
	}
	page, err := a.api.ListShipments(ctx, models.ShipmentQuery{Search: ref})
	if err != nil {
		return 0, err
	}
	switch len(page.Results) {
	case 0:
		return 0, fmt.Errorf("no shipment matches %q", ref)
	case 1:
		s := page.Results[0]
		fmt.Fprintf(a.out, "Shipment %s: %s -> %s\n", s.TrackingCode, s.SenderName, s.ReceiverName)
		return s.ID, nil
	default:
		renderShipmentList(a.out, page, 1)
		return 0, fmt.Errorf("%q matches %d shipments, use an id", ref, page.Count)
	}
}

func (a *App) newInvoice(ctx context.Context, _ []string) error {
	a.Navigate("/invoices/new")

	ref, err := a.askRequired("Shipment (id, tracking code or name)", "")
	if err != nil {
		return err
	}
	shipmentID, err := a.resolveShipment(ctx, ref)
	if err != nil {
		return err
	}

	now := a.clock()
	data := models.InvoiceCreateData{
		Shipment:      shipmentID,
		TaxRate:       "0",
		Discount:      "0",
		PaymentStatus: models.PaymentUnpaid,
		IssuedDate:    now.Format(dateLayout),
		DueDate:       now.AddDate(0, 0, defaultDueDays).Format(dateLayout),
	}

	if data.ShippingFee, err = a.askRequired("Shipping fee", ""); err != nil {
		return err
	}
	if data.TaxRate, err = a.ask("Tax rate (%)", data.TaxRate); err != nil {
		return err
	}
	if data.Discount, err = a.ask("Discount", data.Discount); err != nil {
		return err
	}

	totals, err := models.TotalsFromStrings(data.ShippingFee, data.TaxRate, data.Discount)
	if err != nil {
		return err
	}
	renderTotals(a.out, totals)

	status, err := a.ask("Payment status (unpaid, paid, overdue)", string(data.PaymentStatus))
	if err != nil {
		return err
	}
	data.PaymentStatus = models.PaymentStatus(status)
	if !data.PaymentStatus.Valid() {
		return fmt.Errorf("unknown payment status %q", status)
	}

	if data.IssuedDate, err = a.askDate("Issued date", data.IssuedDate); err != nil {
		return err
	}
	if data.DueDate, err = a.askDate("Due date", data.DueDate); err != nil {
		return err
	}
	if data.Notes, err = a.ask("Notes", ""); err != nil {
		return err
	}

	inv, err := a.api.CreateInvoice(ctx, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Invoice %s issued, total %s\n", inv.InvoiceNumber, inv.TotalAmount)
	a.Navigate(invoiceRoute(inv.ID))
	return nil
}

func (a *App) askDate(prompt, def string) (string, error) {
	v, err := a.ask(prompt+" (YYYY-MM-DD)", def)
	if err != nil {
		return "", err
	}
	if _, err := time.Parse(dateLayout, v); err != nil {
		return "", fmt.Errorf("invalid date %q", v)
	}
	return v, nil
}

func (a *App) setPaymentStatus(ctx context.Context, args []string) error {
	const usage = "pay <id> <unpaid|paid|overdue>"
	if len(args) != 2 {
		return usageError(usage)
	}
	id, err := parseID(args[:1], usage)
	if err != nil {
		return err
	}
	a.Navigate(invoiceRoute(id))

	inv, err := a.api.UpdateInvoicePaymentStatus(ctx, id, models.PaymentStatus(args[1]))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Invoice %s is now %s\n", inv.InvoiceNumber, inv.PaymentStatus.Label())
	return nil
}

func (a *App) exportInvoice(ctx context.Context, args []string) error {
	id, err := parseID(args, "export <id>")
	if err != nil {
		return err
	}

	loc, err := a.invoices.Export(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported to %s\n", loc)
	return nil
}
