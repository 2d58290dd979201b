package auth

import "context"

// AuthService issues tokens for site workers. Identity management itself
// (worker CRUD, PIN resets) is an external collaborator.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error)
}
