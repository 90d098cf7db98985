package core

import (
	"io/fs"
	"net/http"
	"path"
)

// StaticHandler serves the embedded frontend. HTML entry points get
// revalidation headers; fingerprinted assets are cached as immutable.
func StaticHandler(assets fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(assets))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ext := path.Ext(r.URL.Path)
		if ext == "" || ext == ".html" {
			setHeaders(w, headersStaticHtml)
		} else {
			setHeaders(w, headersStatic)
		}
		fileServer.ServeHTTP(w, r)
	})
}
