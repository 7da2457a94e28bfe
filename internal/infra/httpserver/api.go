package httpserver

import "net/http"

// Controller mounts extra routes next to /healthz and /metrics.
type Controller interface {
	AddRoutes(*http.ServeMux)
}

type ControllerFunc func(*http.ServeMux)

func (f ControllerFunc) AddRoutes(mux *http.ServeMux) {
	f(mux)
}
