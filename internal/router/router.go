package router

import (
	"net/http"

	gorilla "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mateonavarro/rag-qa-api/internal/config"
	"github.com/mateonavarro/rag-qa-api/internal/handlers"
	"github.com/mateonavarro/rag-qa-api/internal/middleware"
	"github.com/mateonavarro/rag-qa-api/internal/utils"
)

// NewRouter declares the route table and wraps it with CORS, panic recovery
// and request logging. CORS origins, methods and headers come from config;
// nothing is wildcarded implicitly.
func NewRouter(h *handlers.DocumentHandler, cfg *config.Config, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	r.HandleFunc("/", h.HealthCheck).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/upload", h.UploadDocument).Methods(http.MethodPost)
	api.HandleFunc("/chat", h.Chat).Methods(http.MethodPost)
	api.HandleFunc("/documents", h.ListDocuments).Methods(http.MethodGet)
	api.HandleFunc("/chunks", h.ListChunks).Methods(http.MethodGet)

	cors := gorilla.CORS(
		gorilla.AllowedOrigins(cfg.AllowedOrigins),
		gorilla.AllowedMethods(cfg.AllowedMethods),
		gorilla.AllowedHeaders(cfg.AllowedHeaders),
		gorilla.AllowCredentials(),
	)

	return cors(r)
}
