package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parceltrack/console/internal/client/models"
	"github.com/parceltrack/console/internal/common"
	"github.com/prometheus/common/expfmt"
)

const (
	registerRoute = "/register"
	sendRoute     = "/send"
)

// login prompts for credentials on the login route and, on success, moves
// to the flavour's home route.
//
// The password byte slice is wiped before returning.
func (a *App) login(ctx context.Context, _ []string) error {
	a.Navigate(a.flavour.LoginRoute)

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		a.log.Info(ctx, "login unsuccessful", "error", err)
		return err
	}
	if u == nil {
		return fmt.Errorf("%w: the server issued an unusable access token", common.ErrInvalidToken)
	}

	a.setUser(u)
	a.log.Info(ctx, "login successful", "user_id", u.ID)
	fmt.Fprintf(a.out, "Signed in as %s\n", u.DisplayName())
	a.Navigate(a.flavour.HomeRoute)
	return nil
}

// register creates a portal account. The new session starts right away and
// the user lands on the send form.
func (a *App) register(ctx context.Context, _ []string) error {
	a.Navigate(registerRoute)

	var data models.RegisterData
	var err error
	if data.Email, err = a.askRequired("Email", ""); err != nil {
		return err
	}
	if data.FirstName, err = a.ask("First name", ""); err != nil {
		return err
	}
	if data.LastName, err = a.ask("Last name", ""); err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	fmt.Fprint(a.out, "Confirm password. ")
	confirm, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	data.Password, data.PasswordConfirm = string(password), string(confirm)

	u, err := a.auth.Register(ctx, data)
	if err != nil {
		return err
	}

	a.setUser(u)
	fmt.Fprintf(a.out, "Welcome, %s!\n", u.DisplayName())
	a.Navigate(sendRoute)
	return nil
}

// logout drops the credential pair. The session manager moves the user to
// the landing route.
func (a *App) logout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.setUser(nil)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) whoami(ctx context.Context, _ []string) error {
	u, err := a.auth.CurrentUser(ctx)
	if err != nil {
		return err
	}
	a.setUser(u)
	if u == nil {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> (id %d)\n", u.DisplayName(), u.Email, u.ID)
	return nil
}

// sessionState reports the current route and what is known locally about the
// access token. Nothing here touches the network.
func (a *App) sessionState(ctx context.Context, _ []string) error {
	fmt.Fprintf(a.out, "route:   %s\n", a.CurrentRoute())
	fmt.Fprintf(a.out, "valid:   %t\n", a.session.IsSessionValid(ctx))

	exp, err := a.session.SessionExpiry(ctx)
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "expires: %s\n", exp.Local().Format(time.RFC3339))
	case errors.Is(err, common.ErrInvalidToken):
		fmt.Fprintln(a.out, "expires: unknown (token not decodable)")
	default:
		fmt.Fprintln(a.out, "expires: -")
	}
	return nil
}

// metrics prints the session counters in the Prometheus text format.
func (a *App) metrics(ctx context.Context, _ []string) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	if len(families) == 0 {
		fmt.Fprintln(a.out, "No requests yet")
		return nil
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(a.out, mf); err != nil {
			return err
		}
	}
	return nil
}
