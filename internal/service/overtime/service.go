package overtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buildcrew/sitework-backend-go/internal/domain/notification"
	"github.com/buildcrew/sitework-backend-go/internal/domain/overtime"
	"github.com/go-chi/jwtauth/v5"
)

type OvertimeServiceImpl struct {
	requests     overtime.RequestRepository
	notification notification.Service

	now func() time.Time
}

func NewOvertimeService(requestRepo overtime.RequestRepository, notificationService notification.Service) overtime.OvertimeService {
	return &OvertimeServiceImpl{
		requests:     requestRepo,
		notification: notificationService,
		now:          time.Now,
	}
}

func claimsFromContext(ctx context.Context) (workerID, projectID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	workerID, ok := claims["worker_id"].(string)
	if !ok || workerID == "" {
		return "", "", fmt.Errorf("worker_id claim is missing or invalid")
	}

	projectID, ok = claims["project_id"].(string)
	if !ok || projectID == "" {
		return "", "", fmt.Errorf("project_id claim is missing or invalid")
	}

	return workerID, projectID, nil
}

func workDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Request implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Request(ctx context.Context, req overtime.RequestOvertimeRequest) (overtime.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.RequestResponse{}, err
	}

	workerID, projectID, err := claimsFromContext(ctx)
	if err != nil {
		return overtime.RequestResponse{}, err
	}

	request := overtime.Request{
		WorkerID:  workerID,
		ProjectID: projectID,
		Date:      workDay(s.now()),
		Reason:    req.Reason,
		Status:    overtime.StatusPending,
	}

	created, inserted, err := s.requests.CreatePending(ctx, request)
	if err != nil {
		return overtime.RequestResponse{}, fmt.Errorf("failed to create overtime request: %w", err)
	}
	if !inserted {
		return overtime.RequestResponse{}, overtime.ErrDuplicatePendingRequest
	}

	s.notification.Enqueue(notification.CreateNotificationRequest{
		RecipientID: workerID,
		Type:        notification.TypeOvertimeRequested,
		Title:       "Overtime requested",
		Message:     "Your overtime request is waiting for a supervisor decision",
	})

	return overtime.MapRequestToResponse(created), nil
}

// Decide implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Decide(ctx context.Context, req overtime.DecideRequest) (overtime.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.RequestResponse{}, err
	}

	approverID, _, err := claimsFromContext(ctx)
	if err != nil {
		return overtime.RequestResponse{}, err
	}

	status := overtime.StatusApproved
	if req.Decision == "reject" {
		status = overtime.StatusRejected
	}

	request, err := s.requests.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, overtime.ErrRequestNotFound) {
			return overtime.RequestResponse{}, overtime.ErrRequestNotFound
		}
		return overtime.RequestResponse{}, fmt.Errorf("failed to load overtime request: %w", err)
	}

	now := s.now()
	ok, err := s.requests.Decide(ctx, req.ID, status, approverID, now)
	if err != nil {
		return overtime.RequestResponse{}, fmt.Errorf("failed to decide overtime request: %w", err)
	}
	if !ok {
		return overtime.RequestResponse{}, overtime.ErrNotPending
	}

	request.Status = status
	request.DecidedBy = &approverID
	request.DecidedAt = &now

	s.notification.Enqueue(notification.CreateNotificationRequest{
		RecipientID: request.WorkerID,
		Type:        notification.TypeOvertimeDecided,
		Title:       "Overtime " + string(status),
		Message:     fmt.Sprintf("Your overtime request for %s was %s", request.Date.Format("2006-01-02"), status),
	})

	return overtime.MapRequestToResponse(request), nil
}

// Status implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Status(ctx context.Context) (overtime.RequestResponse, error) {
	workerID, projectID, err := claimsFromContext(ctx)
	if err != nil {
		return overtime.RequestResponse{}, err
	}

	today := workDay(s.now())
	status, err := s.requests.GetStatus(ctx, workerID, projectID, today)
	if err != nil {
		return overtime.RequestResponse{}, fmt.Errorf("failed to get overtime status: %w", err)
	}

	return overtime.RequestResponse{
		WorkerID:  workerID,
		ProjectID: projectID,
		Date:      today.Format("2006-01-02"),
		Status:    string(status),
	}, nil
}

// CheckStatus implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) CheckStatus(ctx context.Context, workerID, projectID string, date time.Time) (overtime.Status, error) {
	return s.requests.GetStatus(ctx, workerID, projectID, workDay(date))
}
