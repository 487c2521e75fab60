package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/parceltrack/console/internal/client/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// statusLabel prefers the server's display text.
func statusLabel(s models.Status, display string) string {
	if display != "" {
		return display
	}
	return s.Label()
}

// progressBar draws the happy path with the reached steps filled in, e.g.
// "[##---] Picked Up". Statuses off the happy path are shown on their own.
func progressBar(s models.Status, display string) string {
	step, total := models.Progress(s)
	if step < 0 {
		return fmt.Sprintf("[%s] %s", strings.Repeat("x", total), statusLabel(s, display))
	}
	return fmt.Sprintf("[%s%s] %s", strings.Repeat("#", step+1), strings.Repeat("-", total-step-1), statusLabel(s, display))
}

func pageFooter(w io.Writer, count, page int) {
	if page < 1 {
		page = 1
	}
	pages := models.Page[struct{}]{Count: count}.TotalPages()
	if pages < 1 {
		pages = 1
	}
	fmt.Fprintf(w, "%d result(s), page %d of %d\n", count, page, pages)
}

func renderShipmentList(w io.Writer, p models.Page[models.ShipmentListItem], page int) {
	if len(p.Results) == 0 {
		fmt.Fprintln(w, "No shipments found")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTRACKING\tSENDER\tRECEIVER\tROUTE\tSTATUS\tCREATED")
	for _, s := range p.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s -> %s\t%s\t%s\n",
			s.ID, s.TrackingCode, s.SenderName, s.ReceiverName,
			s.Origin, s.Destination, statusLabel(s.CurrentStatus, s.StatusDisplay), s.CreatedAt)
	}
	_ = tw.Flush()
	pageFooter(w, p.Count, page)
}

func renderTimeline(w io.Writer, updates []models.StatusUpdate) {
	if len(updates) == 0 {
		fmt.Fprintln(w, "No status updates yet")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "WHEN\tSTATUS\tLOCATION\tNOTES")
	for _, u := range updates {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.CreatedAt, statusLabel(u.Status, u.StatusDisplay), orDash(u.Location), orDash(u.Notes))
	}
	_ = tw.Flush()
}

func renderShipment(w io.Writer, s models.Shipment) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Shipment\t%s (id %d)\n", s.TrackingCode, s.ID)
	fmt.Fprintf(tw, "Status\t%s\n", progressBar(s.CurrentStatus, s.StatusDisplay))
	fmt.Fprintf(tw, "Sender\t%s\n", contact(s.SenderName, s.SenderEmail, s.SenderPhone))
	fmt.Fprintf(tw, "Receiver\t%s\n", contact(s.ReceiverName, s.ReceiverEmail, s.ReceiverPhone))
	fmt.Fprintf(tw, "Route\t%s -> %s\n", s.Origin, s.Destination)
	fmt.Fprintf(tw, "Weight\t%s kg\n", orDash(s.Weight))
	fmt.Fprintf(tw, "Description\t%s\n", orDash(s.Description))
	fmt.Fprintf(tw, "Created\t%s\n", s.CreatedAt)
	fmt.Fprintf(tw, "Updated\t%s\n", s.UpdatedAt)
	_ = tw.Flush()
	fmt.Fprintln(w)
	renderTimeline(w, s.StatusUpdates)
}

func renderTracking(w io.Writer, r models.TrackingResult) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Tracking code\t%s\n", r.TrackingCode)
	fmt.Fprintf(tw, "Status\t%s\n", progressBar(r.CurrentStatus, r.StatusDisplay))
	fmt.Fprintf(tw, "From\t%s (%s)\n", r.Origin, r.SenderName)
	fmt.Fprintf(tw, "To\t%s (%s)\n", r.Destination, r.ReceiverName)
	fmt.Fprintf(tw, "Weight\t%s kg\n", orDash(r.Weight))
	fmt.Fprintf(tw, "Last update\t%s\n", r.UpdatedAt)
	_ = tw.Flush()
	fmt.Fprintln(w)
	renderTimeline(w, r.StatusUpdates)
}

func contact(name, email, phone string) string {
	parts := []string{name}
	if email != "" {
		parts = append(parts, "<"+email+">")
	}
	if phone != "" {
		parts = append(parts, phone)
	}
	return strings.Join(parts, " ")
}

func renderStats(w io.Writer, s models.ShipmentStats) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Total\t%d\n", s.Total)
	fmt.Fprintf(tw, "Today\t%d\n", s.TodayCount)
	fmt.Fprintf(tw, "This week\t%d\n", s.ThisWeekCount)
	fmt.Fprintln(tw, "\t")
	fmt.Fprintf(tw, "%s\t%d\n", models.StatusPending.Label(), s.Pending)
	fmt.Fprintf(tw, "%s\t%d\n", models.StatusPickedUp.Label(), s.PickedUp)
	fmt.Fprintf(tw, "%s\t%d\n", models.StatusInTransit.Label(), s.InTransit)
	fmt.Fprintf(tw, "%s\t%d\n", models.StatusOutForDelivery.Label(), s.OutForDelivery)
	fmt.Fprintf(tw, "%s\t%d\n", models.StatusDelivered.Label(), s.Delivered)
	fmt.Fprintf(tw, "%s\t%d\n", models.StatusFailed.Label(), s.Failed)
	fmt.Fprintf(tw, "%s\t%d\n", models.StatusReturned.Label(), s.Returned)
	_ = tw.Flush()
}

func renderAnalytics(w io.Writer, days int, d models.AnalyticsData) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Window\tlast %d days\n", days)
	fmt.Fprintf(tw, "Success rate\t%.1f%%\n", d.SuccessRate)
	fmt.Fprintf(tw, "Avg delivery\t%.1f h\n", d.AvgDeliveryHours)
	fmt.Fprintf(tw, "This month\t%d\n", d.ThisMonthCount)
	fmt.Fprintf(tw, "Last month\t%d\n", d.LastMonthCount)
	_ = tw.Flush()

	if len(d.DailyCounts) > 0 {
		fmt.Fprintln(w, "\nDaily shipments")
		tw = newTable(w)
		for _, c := range d.DailyCounts {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Date, c.Count, strings.Repeat("*", c.Count))
		}
		_ = tw.Flush()
	}

	if len(d.StatusDistribution) > 0 {
		fmt.Fprintln(w, "\nBy status")
		tw = newTable(w)
		for _, s := range d.StatusDistribution {
			fmt.Fprintf(tw, "%s\t%d\n", s.Status.Label(), s.Count)
		}
		_ = tw.Flush()
	}

	if len(d.TopRoutes) > 0 {
		fmt.Fprintln(w, "\nTop routes")
		tw = newTable(w)
		for _, r := range d.TopRoutes {
			fmt.Fprintf(tw, "%s -> %s\t%d\n", r.Origin, r.Destination, r.Count)
		}
		_ = tw.Flush()
	}

	if len(d.RecentActivity) > 0 {
		fmt.Fprintln(w, "\nRecent activity")
		tw = newTable(w)
		for _, r := range d.RecentActivity {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.CreatedAt, r.TrackingCode, statusLabel(r.Status, r.StatusDisplay), orDash(r.Location))
		}
		_ = tw.Flush()
	}
}

func renderInvoiceList(w io.Writer, p models.Page[models.InvoiceListItem], page int) {
	if len(p.Results) == 0 {
		fmt.Fprintln(w, "No invoices found")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNUMBER\tTRACKING\tSENDER\tTOTAL\tPAYMENT\tDUE")
	for _, inv := range p.Results {
		payment := inv.PaymentStatusDisplay
		if payment == "" {
			payment = inv.PaymentStatus.Label()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.ID, inv.InvoiceNumber, inv.TrackingCode, inv.SenderName, inv.TotalAmount, payment, orDash(inv.DueDate))
	}
	_ = tw.Flush()
	pageFooter(w, p.Count, page)
}

func renderTotals(w io.Writer, t models.Totals) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Shipping fee\t%s\n", models.FormatAmount(t.Fee))
	fmt.Fprintf(tw, "Tax (%s%%)\t%s\n", models.FormatAmount(t.TaxRate), models.FormatAmount(t.Tax))
	fmt.Fprintf(tw, "Discount\t-%s\n", models.FormatAmount(t.Discount))
	fmt.Fprintf(tw, "Total\t%s\n", models.FormatAmount(t.Total))
	_ = tw.Flush()
}
