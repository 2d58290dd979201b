package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildcrew/sitework-backend-go/internal/domain/auth"
	"github.com/buildcrew/sitework-backend-go/internal/domain/worker"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	workers    worker.WorkerRepository
	jwtService jwt.Service
}

func NewAuthService(workerRepo worker.WorkerRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		workers:    workerRepo,
		jwtService: jwtService,
	}
}

// Login implements auth.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	w, err := s.workers.GetByCode(ctx, req.WorkerCode)
	if err != nil {
		if errors.Is(err, worker.ErrWorkerNotFound) {
			// Same error as a wrong PIN so badge codes cannot be probed.
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to load worker: %w", err)
	}

	if !w.Active {
		return auth.LoginResponse{}, worker.ErrWorkerInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(w.PINHash), []byte(req.PIN)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	accessToken, accessExpiresAt, err := s.jwtService.GenerateAccessToken(w.ID, w.ProjectID, w.Role)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(w.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return auth.LoginResponse{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
		WorkerID:         w.ID,
		FullName:         w.FullName,
		Role:             string(w.Role),
		ProjectID:        w.ProjectID,
	}, nil
}

// Refresh implements auth.AuthService.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.RefreshResponse, error) {
	workerID, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return auth.RefreshResponse{}, auth.ErrInvalidToken
	}

	w, err := s.workers.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, worker.ErrWorkerNotFound) {
			return auth.RefreshResponse{}, auth.ErrInvalidToken
		}
		return auth.RefreshResponse{}, fmt.Errorf("failed to load worker: %w", err)
	}

	if !w.Active {
		return auth.RefreshResponse{}, worker.ErrWorkerInactive
	}

	accessToken, accessExpiresAt, err := s.jwtService.GenerateAccessToken(w.ID, w.ProjectID, w.Role)
	if err != nil {
		return auth.RefreshResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.RefreshResponse{
		AccessToken:     accessToken,
		AccessExpiresAt: accessExpiresAt,
	}, nil
}
