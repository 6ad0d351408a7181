package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/mateonavarro/rag-qa-api/internal/models"
	"github.com/mateonavarro/rag-qa-api/internal/services"
	"github.com/mateonavarro/rag-qa-api/internal/utils"
)

const (
	defaultChunkPage  = 1
	defaultChunkLimit = 10
)

type DocumentHandler struct {
	service     services.DocumentService
	logger      *utils.Logger
	maxFileSize int64
}

func NewDocumentHandler(service services.DocumentService, logger *utils.Logger, maxFileSize int64) *DocumentHandler {
	return &DocumentHandler{
		service:     service,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": "RAG-based Financial Statement Q&A System is running",
	})
}

func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxFileSize {
		h.respondError(w, utils.NewBadRequestError("File too large"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		h.respondError(w, utils.NewBadRequestError("Invalid form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(w, utils.NewInternalError("Failed to read file"))
		return
	}
	if len(data) == 0 {
		h.respondError(w, utils.NewBadRequestError("Uploaded file is empty"))
		return
	}

	resp, err := h.service.UploadDocument(r.Context(), header.Filename, data)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *DocumentHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, utils.NewBadRequestError("Invalid request body"))
		return
	}

	resp, err := h.service.Chat(r.Context(), &req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListDocuments(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *DocumentHandler) ListChunks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	documentID := query.Get("document_id")
	if documentID == "" {
		h.respondError(w, utils.NewBadRequestError("document_id is required"))
		return
	}

	page, err := queryInt(query.Get("page"), defaultChunkPage)
	if err != nil {
		h.respondError(w, utils.NewBadRequestError("page must be an integer"))
		return
	}
	limit, err := queryInt(query.Get("limit"), defaultChunkLimit)
	if err != nil {
		h.respondError(w, utils.NewBadRequestError("limit must be an integer"))
		return
	}

	resp, err := h.service.ListChunks(r.Context(), documentID, page, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// queryInt parses an optional integer query parameter. Values are not
// range-checked; out-of-range pagination is the vector store's concern.
func queryInt(raw string, defaultValue int) (int, error) {
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}

func (h *DocumentHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *DocumentHandler) respondError(w http.ResponseWriter, err error) {
	var status int
	var message string

	switch e := err.(type) {
	case *utils.AppError:
		status = e.StatusCode
		message = e.Message
	default:
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	h.logger.Error("Request error", "status", status, "detail", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": message})
}
