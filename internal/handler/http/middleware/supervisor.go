package middleware

import (
	"net/http"

	"github.com/buildcrew/sitework-backend-go/internal/domain/worker"
	"github.com/buildcrew/sitework-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// SupervisorOnly guards supervisor routes on the role claim. Runs after
// AuthRequired so the token is already verified.
func SupervisorOnly(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != string(worker.RoleSupervisor) {
			response.HandleError(w, worker.ErrSupervisorAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hfn)
}
