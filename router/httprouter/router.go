package httprouter

import (
	"net/http"
	"strings"

	jshttprouter "github.com/julienschmidt/httprouter"

	"github.com/gatehouse/gatehouse/router"
)

// Router implements router.Router on julienschmidt's httprouter.
type Router struct {
	rt *jshttprouter.Router
}

func New() router.Router {
	return &Router{rt: jshttprouter.New()}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.rt.ServeHTTP(w, req)
}

func (r *Router) Handle(endpoint string, handler http.Handler) {
	method, path := splitEndpoint(endpoint)
	r.rt.Handler(method, path, handler)
}

func (r *Router) HandleFunc(endpoint string, handler func(http.ResponseWriter, *http.Request)) {
	r.Handle(endpoint, http.HandlerFunc(handler))
}

// splitEndpoint separates "POST /path" into method and path. A bare
// path registers as GET.
func splitEndpoint(endpoint string) (string, string) {
	method, path, found := strings.Cut(endpoint, " ")
	if !found || !strings.HasPrefix(path, "/") {
		return http.MethodGet, endpoint
	}
	return method, path
}
