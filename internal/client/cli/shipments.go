package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/parceltrack/console/internal/client/models"
)

const defaultAnalyticsDays = 30

func shipmentRoute(id int64) string {
	return fmt.Sprintf("/shipments/%d", id)
}

// listFlags parses the shared list options: -status, -page and -order.
// Remaining words form the search text.
func listFlags(name string, args []string) (status, ordering, search string, page int, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&status, "status", "", "filter by status")
	fs.StringVar(&ordering, "order", "", "order by field, '-' for descending")
	fs.IntVar(&page, "page", 0, "page number")
	if err = fs.Parse(args); err != nil {
		return
	}
	if page < 0 {
		err = fmt.Errorf("invalid page %d", page)
		return
	}
	search = strings.Join(fs.Args(), " ")
	return
}

func parseShipmentQuery(args []string) (models.ShipmentQuery, error) {
	status, ordering, search, page, err := listFlags("shipments", args)
	if err != nil {
		return models.ShipmentQuery{}, err
	}
	q := models.ShipmentQuery{Search: search, Ordering: ordering, Page: page}
	if status != "" {
		s := models.Status(status)
		if !s.Valid() {
			return q, fmt.Errorf("unknown status %q", status)
		}
		q.Status = s
	}
	return q, nil
}

func (a *App) listShipments(ctx context.Context, args []string) error {
	q, err := parseShipmentQuery(args)
	if err != nil {
		return err
	}
	a.Navigate("/shipments")

	page, err := a.api.ListShipments(ctx, q)
	if err != nil {
		return err
	}
	renderShipmentList(a.out, page, q.Page)
	return nil
}

func (a *App) showShipment(ctx context.Context, args []string) error {
	id, err := parseID(args, "shipment <id>")
	if err != nil {
		return err
	}
	a.Navigate(shipmentRoute(id))

	s, err := a.api.GetShipment(ctx, id)
	if err != nil {
		return err
	}
	renderShipment(a.out, s)
	return nil
}

// readShipmentForm prompts for the shipment fields. Values in def are
// offered as defaults.
func (a *App) readShipmentForm(def models.ShipmentCreateData) (models.ShipmentCreateData, error) {
	d := def
	fields := []struct {
		prompt   string
		dst      *string
		required bool
	}{
		{"Sender name", &d.SenderName, true},
		{"Sender email", &d.SenderEmail, false},
		{"Sender phone", &d.SenderPhone, false},
		{"Receiver name", &d.ReceiverName, true},
		{"Receiver email", &d.ReceiverEmail, false},
		{"Receiver phone", &d.ReceiverPhone, false},
		{"Origin", &d.Origin, true},
		{"Destination", &d.Destination, true},
		{"Weight (kg)", &d.Weight, true},
	}
	for _, f := range fields {
		var err error
		if f.required {
			*f.dst, err = a.askRequired(f.prompt, *f.dst)
		} else {
			*f.dst, err = a.ask(f.prompt, *f.dst)
		}
		if err != nil {
			return d, err
		}
	}
	if _, err := strconv.ParseFloat(d.Weight, 64); err != nil {
		return d, fmt.Errorf("invalid weight %q", d.Weight)
	}

	desc, err := getMultiline(a.reader, "Description", a.out)
	if err != nil {
		return d, err
	}
	if desc != "" {
		d.Description = desc
	}
	return d, nil
}

func (a *App) newShipment(ctx context.Context, _ []string) error {
	a.Navigate("/shipments/new")

	data, err := a.readShipmentForm(models.ShipmentCreateData{})
	if err != nil {
		return err
	}
	s, err := a.api.CreateShipment(ctx, data)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Shipment created. Tracking code: %s\n", s.TrackingCode)
	a.Navigate(shipmentRoute(s.ID))
	return nil
}

// addStatus appends a status update. The current status is not offered.
func (a *App) addStatus(ctx context.Context, args []string) error {
	id, err := parseID(args, "status <id>")
	if err != nil {
		return err
	}
	a.Navigate(shipmentRoute(id))

	s, err := a.api.GetShipment(ctx, id)
	if err != nil {
		return err
	}

	options := make([]models.Status, 0, len(models.Statuses))
	for _, st := range models.Statuses {
		if st != s.CurrentStatus {
			options = append(options, st)
		}
	}
	fmt.Fprintf(a.out, "Current status: %s\n", statusLabel(s.CurrentStatus, s.StatusDisplay))
	for i, st := range options {
		fmt.Fprintf(a.out, "  %d) %s (%s)\n", i+1, st.Label(), st)
	}

	choice, err := a.askRequired("New status (number or name)", "")
	if err != nil {
		return err
	}
	status, err := pickStatus(choice, options)
	if err != nil {
		return err
	}

	var data models.StatusUpdateData
	data.Status = status
	if data.Location, err = a.ask("Location", ""); err != nil {
		return err
	}
	if data.Notes, err = a.ask("Notes", ""); err != nil {
		return err
	}

	updated, err := a.api.AddStatusUpdate(ctx, id, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is now %s\n", updated.TrackingCode, progressBar(updated.CurrentStatus, updated.StatusDisplay))
	return nil
}

func pickStatus(choice string, options []models.Status) (models.Status, error) {
	if n, err := strconv.Atoi(choice); err == nil {
		if n < 1 || n > len(options) {
			return "", fmt.Errorf("no status number %d", n)
		}
		return options[n-1], nil
	}
	for _, st := range options {
		if string(st) == choice || strings.EqualFold(st.Label(), choice) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", choice)
}

func (a *App) stats(ctx context.Context, _ []string) error {
	a.Navigate(a.flavour.HomeRoute)

	s, err := a.api.ShipmentStats(ctx)
	if err != nil {
		return err
	}
	renderStats(a.out, s)
	return nil
}

func (a *App) analytics(ctx context.Context, args []string) error {
	days := defaultAnalyticsDays
	switch len(args) {
	case 0:
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid number of days %q", args[0])
		}
		days = n
	default:
		return usageError("analytics [days]")
	}
	a.Navigate("/analytics")

	d, err := a.api.Analytics(ctx, days)
	if err != nil {
		return err
	}
	renderAnalytics(a.out, days, d)
	return nil
}
