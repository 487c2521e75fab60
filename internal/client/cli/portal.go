package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/parceltrack/console/internal/client/models"
)

const minTrackingCodeLen = 3

// track looks a parcel up by tracking code. It works without a session.
func (a *App) track(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("track <code>")
	}
	code := strings.ToUpper(strings.TrimSpace(args[0]))
	if len(code) < minTrackingCodeLen {
		return fmt.Errorf("tracking code must be at least %d characters", minTrackingCodeLen)
	}
	a.Navigate("/track/" + code)

	r, err := a.api.Track(ctx, code)
	if err != nil {
		return err
	}
	renderTracking(a.out, r)
	return nil
}

// send registers a parcel for the signed-in customer. The sender fields
// default to the customer's own name and email.
func (a *App) send(ctx context.Context, _ []string) error {
	a.Navigate(sendRoute)

	var def models.ShipmentCreateData
	if u := a.currentUser(); u != nil {
		def.SenderName = strings.TrimSpace(u.FirstName + " " + u.LastName)
		def.SenderEmail = u.Email
	}

	data, err := a.readShipmentForm(def)
	if err != nil {
		return err
	}
	s, err := a.api.SendParcel(ctx, data)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Parcel sent successfully!")
	fmt.Fprintf(a.out, "Tracking code: %s\n", s.TrackingCode)
	fmt.Fprintf(a.out, "Use 'track %s' to follow it.\n", s.TrackingCode)
	return nil
}

func (a *App) myShipments(ctx context.Context, _ []string) error {
	a.Navigate("/my-shipments")

	page, err := a.api.MyShipments(ctx)
	if err != nil {
		return err
	}
	if len(page.Results) == 0 {
		fmt.Fprintln(a.out, "You have not sent any parcels yet. Use 'send' to ship one.")
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "TRACKING\tTO\tROUTE\tPROGRESS\tCREATED")
	for _, s := range page.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s -> %s\t%s\t%s\n",
			s.TrackingCode, s.ReceiverName, s.Origin, s.Destination,
			progressBar(s.CurrentStatus, s.StatusDisplay), s.CreatedAt)
	}
	_ = tw.Flush()
	return nil
}
