// Package httputil provides shared HTTP response/request utilities for
// the submission API handlers.
//
// Handlers use these helpers instead of writing raw http.ResponseWriter
// calls, so every endpoint emits the same JSON formatting and the same
// {"detail": ...} error envelope.
package httputil
