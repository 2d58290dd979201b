package http

import (
	"net/http"

	"github.com/buildcrew/sitework-backend-go/internal/domain/worker"
	"github.com/go-chi/jwtauth/v5"
)

func claimWorkerID(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	id, _ := claims["worker_id"].(string)
	return id
}

func isSupervisor(r *http.Request) bool {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return false
	}
	role, _ := claims["role"].(string)
	return role == string(worker.RoleSupervisor)
}
