package router

import "net/http"

// Router registers method-qualified endpoints ("POST /api/auth/login")
// and dispatches requests to them.
type Router interface {
	http.Handler
	Handle(endpoint string, handler http.Handler)
	HandleFunc(endpoint string, handler func(http.ResponseWriter, *http.Request))
}
