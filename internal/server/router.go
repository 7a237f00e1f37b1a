package server

import (
	"net/http"
	"time"

	"github.com/rpattn/leadsathi/internal/middleware"
	"github.com/rpattn/leadsathi/internal/response"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// NewRouter mounts submission (POST) and analytics queries (GET) on the same
// path so the form and the dashboard share one URL.
func NewRouter(submit, query http.Handler, allowedOrigins []string, logger logrus.FieldLogger) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.Logging(logger))

	router.Handle("/", submit).Methods(http.MethodPost)
	router.Handle("/", query).Methods(http.MethodGet)
	router.HandleFunc("/health", health).Methods(http.MethodGet)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return corsHandler.Handler(router)
}

func health(w http.ResponseWriter, r *http.Request) {
	response.Write(w, http.StatusOK, response.New(time.Now(), true, "ok", map[string]string{
		"status": "healthy",
	}))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	response.Write(w, http.StatusMethodNotAllowed, response.New(time.Now(), false, "method not allowed", nil))
}
