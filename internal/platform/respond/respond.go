// Package respond escribe los sobres JSON que comparten todos los handlers:
//
//	{status:"success", payload}            lecturas
//	{status:"success", message}            mutaciones
//	{status:"success", message, payload, count}   generadores mock
//	{status:"error", error, details?}      fallos
package respond

import (
	"encoding/json"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type SuccessResponse struct {
	Status  string `json:"status" example:"success"`
	Payload any    `json:"payload"`
}

type SuccessMessage struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message"`
}

type GeneratedResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message"`
	Payload any    `json:"payload"`
	Count   *int   `json:"count,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Payload(w http.ResponseWriter, status int, payload any) {
	JSON(w, status, SuccessResponse{Status: StatusSuccess, Payload: payload})
}

func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, SuccessMessage{Status: StatusSuccess, Message: msg})
}

// Generated incluye count solo si count >= 0.
func Generated(w http.ResponseWriter, status int, msg string, payload any, count int) {
	body := GeneratedResponse{Status: StatusSuccess, Message: msg, Payload: payload}
	if count >= 0 {
		body.Count = &count
	}
	JSON(w, status, body)
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorResponse{Status: StatusError, Error: msg})
}

func ErrorDetails(w http.ResponseWriter, status int, msg string, err error) {
	body := ErrorResponse{Status: StatusError, Error: msg}
	if err != nil {
		body.Details = err.Error()
	}
	JSON(w, status, body)
}
