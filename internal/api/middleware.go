package api

import (
	"net/http"

	"github.com/nu7hatch/gouuid"
	"go.uber.org/zap"
)

// requestId tags every request so API logs can be matched to the error
// references handed back to callers.
func requestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := uuid.NewV4()
		if err == nil {
			w.Header().Set("X-Request-Id", u.String())
			zap.L().With(
				zap.String("requestId", u.String()),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			).Debug("Api: Request")
		}

		next.ServeHTTP(w, r)
	})
}
