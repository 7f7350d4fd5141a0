package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every route to h.
func NewRouter(h *Handler) *mux.Router {
	root := mux.NewRouter()
	root.Use(h.recoverer, h.observe)

	root.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	a := root.PathPrefix("/api/auth").Subrouter()
	a.HandleFunc("/signup", h.rateLimit(h.Signup)).Methods(http.MethodPost)
	a.HandleFunc("/login", h.rateLimit(h.Login)).Methods(http.MethodPost)
	a.HandleFunc("/me", h.Me).Methods(http.MethodGet)
	a.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)

	v := root.PathPrefix("/api/vault").Subrouter()
	v.Use(h.requireAuth)
	v.HandleFunc("/add", h.AddRecord).Methods(http.MethodPost)
	v.HandleFunc("/list", h.ListRecords).Methods(http.MethodGet, http.MethodPost)
	v.HandleFunc("/update", h.UpdateRecord).Methods(http.MethodPut)
	v.HandleFunc("/delete", h.DeleteRecord).Methods(http.MethodDelete)

	b := root.PathPrefix("/api/backups").Subrouter()
	b.Use(h.requireAuth)
	b.HandleFunc("", h.CreateBackup).Methods(http.MethodPost)
	b.HandleFunc("/{key:.+}", h.GetBackup).Methods(http.MethodGet)

	root.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
	root.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return root
}
