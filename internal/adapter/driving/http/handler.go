package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/phonebook/internal/application"
	"github.com/ericfisherdev/phonebook/internal/domain/model"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Handler is the HTTP driving adapter that serves the phone book API.
type Handler struct {
	auth      *application.AuthService
	phonebook *application.PhoneBookService
	health    *application.HealthService
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	auth *application.AuthService,
	phonebook *application.PhoneBookService,
	health *application.HealthService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:      auth,
		phonebook: phonebook,
		health:    health,
		logger:    logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with request id, logging, and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /PhoneBook/list", h.ListRecords)
	mux.HandleFunc("POST /PhoneBook/add", h.AddRecord)
	mux.HandleFunc("PUT /PhoneBook/deleteByName", h.DeleteByName)
	mux.HandleFunc("PUT /PhoneBook/deleteByPhone", h.DeleteByPhone)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// Home serves a plain-text banner.
func (h *Handler) Home(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Welcome to the PhoneBook API. POST /login for a token, then use the /PhoneBook endpoints.\n"))
}

// Health reports 200 when storage is reachable and 503 otherwise.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	report := h.health.Check(r.Context())

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
		h.logger.Warn("health check failed", "error", report.Err)
	}

	writeJSON(w, status, HealthResponse{
		Status: report.Status,
		Time:   report.CheckedAt.Format(time.RFC3339),
	})
}

// Login exchanges a username and password for a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	issued, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrUnauthorized) {
			writeAuthError(w, http.StatusUnauthorized, "Bad username or password")
			return
		}
		h.logger.Error("login failed", "username", req.Username, "error", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, toLoginResponse(issued))
}

// ListRecords returns every phone book record.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.phonebook.List(r.Context(), bearerToken(r))
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}

	resp := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toRecordResponse(rec))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddRecord validates and stores a new record.
func (h *Handler) AddRecord(w http.ResponseWriter, r *http.Request) {
	// A body that fails to decode leaves both fields empty, which the service
	// rejects as an invalid format after the token has been checked.
	var req AddRecordRequest
	if err := decodeBody(w, r, &req); err != nil {
		req = AddRecordRequest{}
	}

	err := h.phonebook.Add(r.Context(), bearerToken(r), model.Record{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}

	writeMessage(w, http.StatusOK, "Person added successfully")
}

// DeleteByName removes the record named by the full_name query parameter.
func (h *Handler) DeleteByName(w http.ResponseWriter, r *http.Request) {
	fullName := r.URL.Query().Get("full_name")

	if err := h.phonebook.DeleteByName(r.Context(), bearerToken(r), fullName); err != nil {
		h.writeServiceError(w, r, err, "Person not found in the database")
		return
	}

	writeMessage(w, http.StatusOK, "Person deleted successfully")
}

// DeleteByPhone removes the record with the phone_number query parameter.
func (h *Handler) DeleteByPhone(w http.ResponseWriter, r *http.Request) {
	phoneNumber := r.URL.Query().Get("phone_number")

	if err := h.phonebook.DeleteByPhone(r.Context(), bearerToken(r), phoneNumber); err != nil {
		h.writeServiceError(w, r, err, "Number not found in the database")
		return
	}

	writeMessage(w, http.StatusOK, "Person deleted successfully")
}

// writeServiceError translates a PhoneBookService error into a response.
// notFoundMsg is used for 404 responses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	status := statusFor(err)
	switch status {
	case http.StatusUnauthorized:
		writeAuthError(w, status, "Missing, invalid, or expired token")
	case http.StatusForbidden:
		writeAuthError(w, status, "Forbidden: Insufficient rights")
	case http.StatusBadRequest:
		if errors.Is(err, application.ErrConflict) {
			writeMessage(w, status, "Person already exists in the database")
			return
		}
		writeMessage(w, status, "Invalid name or phone number format")
	case http.StatusNotFound:
		writeMessage(w, status, notFoundMsg)
	default:
		h.logger.Error("phone book operation failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		writeInternalError(w)
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. It returns "" when the header is missing or uses another scheme.
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// decodeBody decodes a size-limited JSON body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
