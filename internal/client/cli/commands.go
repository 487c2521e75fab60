package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
)

var errUnknownCommand = errors.New("unknown command")

// visibility controls when help lists a command.
type visibility int

const (
	visAlways visibility = iota
	visSignedIn
	visSignedOut
)

// command is one REPL verb. Guarded commands refuse to run, and send the
// user to the login route, when the session is not valid.
type command struct {
	name    string
	aliases []string
	usage   string
	help    string
	guarded bool
	show    visibility
	run     func(a *App, ctx context.Context, args []string) error
}

func commonCommands() []command {
	return []command{
		{name: "login", usage: "login", help: "sign in", show: visSignedOut, run: (*App).login},
		{name: "logout", usage: "logout", help: "sign out", show: visSignedIn, run: (*App).logout},
		{name: "whoami", usage: "whoami", help: "show the signed-in user", run: (*App).whoami},
		{name: "session", usage: "session", help: "show route and token state", run: (*App).sessionState},
		{name: "metrics", usage: "metrics", help: "show session counters", run: (*App).metrics},
	}
}

func adminCommands() []command {
	return []command{
		{name: "shipments", aliases: []string{"ls"}, usage: "shipments [-status s] [-page n] [-order f] [search]", help: "list shipments", guarded: true, run: (*App).listShipments},
		{name: "shipment", usage: "shipment <id>", help: "show a shipment and its timeline", guarded: true, run: (*App).showShipment},
		{name: "newshipment", usage: "newshipment", help: "register a shipment", guarded: true, run: (*App).newShipment},
		{name: "status", usage: "status <id>", help: "add a status update", guarded: true, run: (*App).addStatus},
		{name: "stats", usage: "stats", help: "dashboard counters", guarded: true, run: (*App).stats},
		{name: "analytics", usage: "analytics [days]", help: "trends for the last days (default 30)", guarded: true, run: (*App).analytics},
		{name: "invoices", usage: "invoices [-status s] [-page n] [-order f] [search]", help: "list invoices", guarded: true, run: (*App).listInvoices},
		{name: "invoice", usage: "invoice <id>", help: "show an invoice", guarded: true, run: (*App).showInvoice},
		{name: "newinvoice", usage: "newinvoice", help: "issue an invoice", guarded: true, run: (*App).newInvoice},
		{name: "pay", usage: "pay <id> <unpaid|paid|overdue>", help: "set the payment status", guarded: true, run: (*App).setPaymentStatus},
		{name: "export", usage: "export <id>", help: "export an invoice document", guarded: true, run: (*App).exportInvoice},
	}
}

func portalCommands() []command {
	return []command{
		{name: "register", usage: "register", help: "create an account", show: visSignedOut, run: (*App).register},
		{name: "track", usage: "track <code>", help: "track a parcel", run: (*App).track},
		{name: "send", usage: "send", help: "send a parcel", guarded: true, run: (*App).send},
		{name: "myshipments", aliases: []string{"mine"}, usage: "myshipments", help: "list your parcels", guarded: true, run: (*App).myShipments},
	}
}

// Exec runs the command called name with args.
func (a *App) Exec(ctx context.Context, name string, args []string) error {
	c, ok := a.flavour.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownCommand, name)
	}
	if c.guarded {
		if err := a.auth.Guard(ctx); err != nil {
			return err
		}
	}
	return c.run(a, ctx, args)
}

func (a *App) helpText() string {
	loggedIn := a.isLoggedIn()

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Available commands:")
	for _, c := range a.flavour.commands {
		show := c.show
		if c.guarded {
			show = visSignedIn
		}
		if (show == visSignedIn && !loggedIn) || (show == visSignedOut && loggedIn) {
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s\n", c.usage, c.help)
	}
	fmt.Fprintln(tw, "  help\tshow this list")
	fmt.Fprintln(tw, "  exit | quit\tleave the console")
	_ = tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func usageError(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}

// parseID reads the single positive id argument of a command.
func parseID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, usageError(usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}
