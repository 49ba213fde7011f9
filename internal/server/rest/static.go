package rest

import (
	"net/http"

	"github.com/taskflow-app/taskflow/internal/filex"
)

const indexFile = "index.html"

// spa serves the front-end bundle from the static directory. Paths that do
// not name a file get index.html so client-side routes resolve.
func (s *Server) spa() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.staticDir == "" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
			s.apiNotFound(w, r)
			return
		}

		if file, ok := filex.RegularFile(s.staticDir, r.URL.Path); ok {
			http.ServeFile(w, r, file)
			return
		}

		if file, ok := filex.RegularFile(s.staticDir, indexFile); ok {
			http.ServeFile(w, r, file)
			return
		}
		s.logger.Debug(r.Context(), "no static file", "path", r.URL.Path)
		s.apiNotFound(w, r)
	})
}
