// Package session owns the client's credential pair. The Manager is an
// http.RoundTripper: every request it carries gets the stored access token
// attached, and a request rejected with 401 is recovered at most once by
// exchanging the refresh token for a new access token. When recovery is
// impossible the user is sent to the login route through a Navigator.
//
// Login, Register and Logout write and clear the pair; IsSessionValid is an
// advisory, network-free check of the access token's expiry.
//
// MemoryStore and Router are complete in-memory implementations of Store and
// Navigator; Snapshot and History expose their state to tests.
package session
