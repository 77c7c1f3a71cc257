package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ericfisherdev/phonebook/internal/application"
	"github.com/ericfisherdev/phonebook/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal Server Error","message":"failed to encode response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeAuthError writes a 401 or 403 body using the "msg" key clients of the
// login endpoint already expect.
func writeAuthError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, authErrorResponse{Msg: msg})
}

// writeMessage writes a {"message": ...} body.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeInternalError writes the generic 500 body. Storage details stay in the
// logs and the audit trail.
func writeInternalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, internalErrorResponse{
		Error:   "Internal Server Error",
		Message: "an unexpected error occurred",
	})
}

// statusFor maps an application error to its HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, application.ErrInvalidFormat), errors.Is(err, application.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// authErrorResponse is the body of 401 and 403 responses.
type authErrorResponse struct {
	Msg string `json:"msg"`
}

// messageResponse is the body of phone book mutation responses.
type messageResponse struct {
	Message string `json:"message"`
}

// internalErrorResponse is the body of 500 responses.
type internalErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// LoginRequest is the JSON body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

// AddRecordRequest is the JSON body of POST /PhoneBook/add.
type AddRecordRequest struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

// RecordResponse is the JSON representation of a phone book record.
type RecordResponse struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

// HealthResponse is the JSON body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toRecordResponse(r model.Record) RecordResponse {
	return RecordResponse{
		FullName:    r.FullName,
		PhoneNumber: r.PhoneNumber,
	}
}

func toLoginResponse(t model.IssuedToken) LoginResponse {
	return LoginResponse{
		AccessToken: t.Value,
		ExpiresAt:   t.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
