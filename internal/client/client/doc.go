// Package client contains the typed API client of the parceltrack consoles.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     shipments, status updates, stats and analytics, invoices, public
//     tracking and parcel submission.
//  2. An HTTP implementation (see HTTPClient) that sends every request
//     through a session.Manager, so credentials are attached and an expired
//     access token is refreshed transparently.
//  3. Local persistence bootstrap (InitDatabase) for the SQLite file that
//     keeps the credential pair between runs.
//
// # Error Handling
//
// Transport failures are reported as ErrUnavailable. Rejections from the API
// are *rest.Error values that keep the server payload; match broad classes
// with errors.Is against common.ErrorUnauthorized, common.ErrorNotFound and
// common.ErrorValidation. A session that could not be recovered yields an
// error matching session.ErrRefreshFailed.
//
// All operations accept context.Context and honor cancellation.
package client
