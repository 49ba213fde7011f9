package rest

import (
	"net/http"

	"github.com/gorilla/mux"
)

// route describes one API endpoint. Paths are relative to /api.
type route struct {
	Name    string
	Method  string
	Path    string
	Auth    bool
	Handler http.HandlerFunc
}

func (s *Server) apiRoutes() []route {
	return []route{
		{Name: "Register", Method: http.MethodPost, Path: "/auth/register", Handler: s.register},
		{Name: "Login", Method: http.MethodPost, Path: "/auth/login", Handler: s.login},
		{Name: "ChangePassword", Method: http.MethodPut, Path: "/auth/change-password", Auth: true, Handler: s.changePassword},
		{Name: "Me", Method: http.MethodGet, Path: "/users/me", Auth: true, Handler: s.me},

		{Name: "CreateTask", Method: http.MethodPost, Path: "/tasks", Auth: true, Handler: s.createTask},
		{Name: "ListTasks", Method: http.MethodGet, Path: "/tasks", Auth: true, Handler: s.listTasks},
		{Name: "GetTask", Method: http.MethodGet, Path: "/tasks/{id}", Auth: true, Handler: s.getTask},
		{Name: "UpdateTask", Method: http.MethodPut, Path: "/tasks/{id}", Auth: true, Handler: s.updateTask},
		{Name: "DeleteTask", Method: http.MethodDelete, Path: "/tasks/{id}", Auth: true, Handler: s.deleteTask},
		{Name: "DelayTask", Method: http.MethodPatch, Path: "/tasks/{id}/delay", Auth: true, Handler: s.delayTask},
	}
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	for _, rt := range s.apiRoutes() {
		var h http.Handler = rt.Handler
		if rt.Auth {
			h = s.authenticate(h)
		}
		api.Handle(rt.Path, h).Methods(rt.Method, http.MethodOptions).Name(rt.Name)
	}
	api.Use(mux.CORSMethodMiddleware(api), preflight)
	api.NotFoundHandler = http.HandlerFunc(s.apiNotFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowed)

	r.HandleFunc("/healthz/liveness", s.liveness).Methods(http.MethodGet).Name("Liveness")
	r.HandleFunc("/healthz/readiness", s.readiness).Methods(http.MethodGet).Name("Readiness")
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet).Name("Metrics")

	r.PathPrefix("/").Handler(s.spa()).Name("Static")

	return r
}

// routeTemplate returns the matched route's path template, used as a
// bounded metrics label.
func (s *Server) routeTemplate(req *http.Request) string {
	var match mux.RouteMatch
	if !s.router.Match(req, &match) || match.Route == nil {
		return "unmatched"
	}
	tpl, err := match.Route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return tpl
}
