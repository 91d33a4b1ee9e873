package httpapi

import (
	"fmt"
	"net/http"
	"time"
)

// NewHTTPServer creates the REST server. WriteTimeout stays unset because downloads stream
// for as long as the transfer runs.
func NewHTTPServer(address string, port int, handler http.Handler) *http.Server {
	if port == 0 {
		port = 8081
	}
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", address, port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
