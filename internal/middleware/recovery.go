package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"bookmarkd/internal/httputil"
)

// Recovery turns a panicking handler into a 500 and logs the stack with the request id
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"error", err,
						"request_id", httputil.GetRequestID(r),
						"user_id", httputil.GetUserID(r),
						"path", r.URL.Path,
						"method", r.Method,
						"stack", string(debug.Stack()),
					)

					httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
