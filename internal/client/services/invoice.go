package services

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"text/tabwriter"
	"time"

	"github.com/parceltrack/console/internal/client/client"
	"github.com/parceltrack/console/internal/client/export"
	"github.com/parceltrack/console/internal/client/models"
)

// InvoiceService turns invoices into standalone documents.
type InvoiceService interface {
	// Render produces the plain-text document of inv.
	Render(inv models.Invoice) ([]byte, error)
	// Export fetches invoice id, renders it and stores it in the sink,
	// returning the document's location.
	Export(ctx context.Context, id int64) (string, error)
}

type invoiceService struct {
	client client.Client
	sink   export.Sink
	now    func() time.Time
}

func NewInvoiceService(c client.Client, sink export.Sink) InvoiceService {
	return &invoiceService{client: c, sink: sink, now: time.Now}
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DocumentName is the file name an invoice is exported under.
func DocumentName(inv models.Invoice) string {
	number := unsafeNameChars.ReplaceAllString(inv.InvoiceNumber, "_")
	if number == "" {
		number = fmt.Sprintf("%d", inv.ID)
	}
	return "invoice-" + number + ".txt"
}

func (s *invoiceService) Export(ctx context.Context, id int64) (string, error) {
	inv, err := s.client.GetInvoice(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get invoice %d: %w", id, err)
	}

	doc, err := s.Render(inv)
	if err != nil {
		return "", err
	}

	loc, err := s.sink.Put(ctx, DocumentName(inv), doc)
	if err != nil {
		return "", fmt.Errorf("export invoice %s: %w", inv.InvoiceNumber, err)
	}
	return loc, nil
}

func (s *invoiceService) Render(inv models.Invoice) ([]byte, error) {
	totals, err := models.TotalsFromStrings(inv.ShippingFee, inv.TaxRate, inv.Discount)
	if err != nil {
		return nil, fmt.Errorf("invoice %s: %w", inv.InvoiceNumber, err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "INVOICE %s\n", inv.InvoiceNumber)
	fmt.Fprintf(&buf, "Generated %s\n\n", s.now().UTC().Format(time.RFC3339))

	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	sh := inv.Shipment
	rows := [][2]string{
		{"Status", inv.PaymentStatus.Label()},
		{"Issued", inv.IssuedDate},
		{"Due", inv.DueDate},
		{"Tracking code", sh.TrackingCode},
		{"Route", sh.Origin + " -> " + sh.Destination},
		{"Weight (kg)", sh.Weight},
		{"Sender", party(sh.SenderName, sh.SenderEmail, sh.SenderPhone)},
		{"Receiver", party(sh.ReceiverName, sh.ReceiverEmail, sh.ReceiverPhone)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s:\t%s\n", r[0], r[1])
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Shipping fee\t%s\n", models.FormatAmount(totals.Fee))
	fmt.Fprintf(w, "Tax (%s%%)\t%s\n", models.FormatAmount(totals.TaxRate), models.FormatAmount(totals.Tax))
	if totals.Discount > 0 {
		fmt.Fprintf(w, "Discount\t-%s\n", models.FormatAmount(totals.Discount))
	}
	fmt.Fprintf(w, "Total\t%s\n", models.FormatAmount(totals.Total))
	if err := w.Flush(); err != nil {
		return nil, err
	}

	if inv.Notes != "" {
		fmt.Fprintf(&buf, "\nNotes:\n%s\n", inv.Notes)
	}
	return buf.Bytes(), nil
}

func party(name, email, phone string) string {
	out := name
	for _, v := range []string{email, phone} {
		if v != "" {
			out += ", " + v
		}
	}
	return out
}
