package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ccs-paris/CCS-SchedulingService/internal/api/handlers"
)

// AdminTokenHeader заголовок с токеном персонала
const AdminTokenHeader = "X-Admin-Token"

// Auth проверяет токен персонала в заголовке запроса.
// Сравнение токенов постоянное по времени.
func Auth(adminToken string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(AdminTokenHeader)
			if token == "" {
				handlers.RespondError(w, http.StatusUnauthorized, "authentification requise")
				return
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
				handlers.RespondForbidden(w, "accès refusé")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
