// Package cli provides the interactive parceltrack consoles.
//
// Two flavours share one App: the admin console (staff: shipments, status
// updates, invoices, analytics) and the customer portal (register, send a
// parcel, track, my shipments). The App wires configuration, the local token
// database, the session manager and the API services, then runs a REPL.
//
// The App is also the session's Navigator: it owns the current route, which
// the prompt shows. Commands move between routes the way the web front-ends
// move between pages, and the session manager sends the user back to the
// login route when a session cannot be recovered.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See Flavour, App.Exec and runREPL for details.
package cli
