package servemux

import (
	"net/http"

	"github.com/gatehouse/gatehouse/router"
)

// ServeMuxRouter implements router.Router using net/http ServeMux.
// Method-qualified endpoints ("POST /path") are native patterns since
// Go 1.22.
type ServeMuxRouter struct {
	*http.ServeMux
}

func New() router.Router {
	return &ServeMuxRouter{ServeMux: http.NewServeMux()}
}

func (s *ServeMuxRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.ServeMux.ServeHTTP(w, r)
}

func (s *ServeMuxRouter) Handle(endpoint string, handler http.Handler) {
	s.ServeMux.Handle(endpoint, handler)
}

func (s *ServeMuxRouter) HandleFunc(endpoint string, handler func(http.ResponseWriter, *http.Request)) {
	s.ServeMux.HandleFunc(endpoint, handler)
}
