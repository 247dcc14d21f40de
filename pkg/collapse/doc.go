// Package collapse holds which nodes of the hierarchy are collapsed.
//
// A [Set] is the per-view collapse state. It starts empty, changes only
// through [Set.Toggle], and is never persisted. Clients that keep their own
// state pass it along with each request (see [Parse]); the HTTP server can
// instead hold it in a [Store], keyed by a random session id and dropped
// after a period of inactivity.
package collapse
