// Package httpserver builds the service's HTTP server.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server with conservative timeouts. Disclosure reads are small
// and fast; anything holding a connection longer than these limits is a stuck
// client, not a legitimate request.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
