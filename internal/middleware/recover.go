package middleware

import (
	"net/http"
	"runtime/debug"

	"adoptme/internal/platform/logger"
	"adoptme/internal/platform/respond"
)

// Recover convierte un panic en un 500 JSON y lo loguea con el stack. Si el
// handler ya había escrito el header solo se loguea.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				// http.ErrAbortHandler corta la conexión a propósito
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				log.Error("panic recovered", map[string]any{
					"request_id":     GetRequestID(r.Context()),
					"panic":          rvr,
					"stack":          string(debug.Stack()),
					"header_written": sw.wroteHeader,
				})
				if sw.wroteHeader {
					return
				}
				respond.Error(sw, http.StatusInternalServerError, "Internal server error")
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
