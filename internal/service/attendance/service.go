package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/buildcrew/sitework-backend-go/internal/domain/attendance"
	"github.com/buildcrew/sitework-backend-go/internal/domain/notification"
	"github.com/buildcrew/sitework-backend-go/internal/domain/overtime"
	"github.com/buildcrew/sitework-backend-go/internal/domain/project"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/geo"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/timewindow"
	"github.com/go-chi/jwtauth/v5"
)

// OvertimeStatusChecker is the projection of the overtime module the state
// machine consults at clock-out.
type OvertimeStatusChecker interface {
	CheckStatus(ctx context.Context, workerID, projectID string, date time.Time) (overtime.Status, error)
}

type AttendanceServiceImpl struct {
	sessions     attendance.SessionRepository
	projects     project.ProjectRepository
	overtimes    OvertimeStatusChecker
	notification notification.Service

	now func() time.Time
}

func NewAttendanceService(
	sessionRepo attendance.SessionRepository,
	projectRepo project.ProjectRepository,
	overtimeChecker OvertimeStatusChecker,
	notificationService notification.Service,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		sessions:     sessionRepo,
		projects:     projectRepo,
		overtimes:    overtimeChecker,
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

// workDay truncates a timestamp to its calendar date.
func workDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// checkFence loads the project fence and tests the reported position.
func (s *AttendanceServiceImpl) checkFence(ctx context.Context, projectID string, req attendance.LocationRequest) (geo.FenceCheck, error) {
	proj, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return geo.FenceCheck{}, project.ErrProjectNotFound
		}
		return geo.FenceCheck{}, fmt.Errorf("failed to load project geofence: %w", err)
	}

	return geo.CheckFence(req.Latitude, req.Longitude, geo.Fence{
		Latitude:        proj.Geofence.Latitude,
		Longitude:       proj.Geofence.Longitude,
		RadiusMeters:    proj.Geofence.RadiusMeters,
		AllowedVariance: proj.Geofence.AllowedVariance,
	})
}

func (s *AttendanceServiceImpl) recordViolation(ctx context.Context, workerID, projectID, action string, req attendance.LocationRequest, check geo.FenceCheck) {
	violation := attendance.GeofenceViolation{
		WorkerID:       workerID,
		ProjectID:      projectID,
		Action:         action,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		DistanceMeters: check.DistanceMeters,
		OccurredAt:     s.now(),
	}
	if err := s.sessions.RecordViolation(ctx, violation); err != nil {
		slog.Error("failed to record geofence violation", "worker_id", workerID, "action", action, "error", err)
	}

	s.notification.Enqueue(notification.CreateNotificationRequest{
		RecipientID: workerID,
		Type:        notification.TypeGeofenceViolation,
		Title:       "Geofence violation",
		Message:     fmt.Sprintf("%s attempted %.0fm outside the site boundary", action, check.DistanceMeters),
	})
}

// ValidateLocation implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ValidateLocation(ctx context.Context, req attendance.LocationRequest) (attendance.ValidateLocationResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ValidateLocationResponse{}, err
	}

	_, projectID, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.ValidateLocationResponse{}, err
	}

	check, err := s.checkFence(ctx, projectID, req)
	if err != nil {
		return attendance.ValidateLocationResponse{}, err
	}

	return attendance.ValidateLocationResponse{
		InsideGeofence: check.InsideGeofence,
		DistanceMeters: check.DistanceMeters,
	}, nil
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.LocationRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	workerID, projectID, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	now := s.now()

	check, err := s.checkFence(ctx, projectID, req)
	if err != nil {
		return attendance.SessionResponse{}, err
	}
	if !check.InsideGeofence {
		// Violation is recorded but no session is created.
		s.recordViolation(ctx, workerID, projectID, "clock_in", req, check)
		return attendance.SessionResponse{}, attendance.ErrOutsideGeofence
	}

	window := timewindow.Check(timewindow.ActionLogin, now)
	if !window.CanProceed {
		return attendance.SessionResponse{}, fmt.Errorf("%w: %s", attendance.ErrOutsideLoginWindow, window.Message)
	}

	minutesLate := 0
	if window.IsGracePeriod {
		minutesLate = timewindow.MinutesLate(now)
	}

	inside := true
	session := attendance.Session{
		WorkerID:           workerID,
		ProjectID:          projectID,
		Date:               workDay(now),
		State:              attendance.StateClockedIn,
		ClockInAt:          &now,
		IsLate:             window.IsGracePeriod,
		MinutesLate:        minutesLate,
		LastLatitude:       &req.Latitude,
		LastLongitude:      &req.Longitude,
		LastInsideGeofence: &inside,
	}

	created, inserted, err := s.sessions.Create(ctx, session)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to create attendance session: %w", err)
	}
	if !inserted {
		// A session already exists for this worker+project+date: a second
		// clock-in is an invalid transition, never a silent overwrite.
		return attendance.SessionResponse{}, attendance.ErrInvalidStateTransition
	}

	if created.IsLate {
		s.notification.Enqueue(notification.CreateNotificationRequest{
			RecipientID: workerID,
			Type:        notification.TypeLateArrival,
			Title:       "Late arrival",
			Message:     fmt.Sprintf("Clocked in %d minutes late", created.MinutesLate),
		})
	}

	return attendance.MapSessionToResponse(created), nil
}

// LunchStart implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) LunchStart(ctx context.Context, req attendance.LocationRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	workerID, projectID, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	now := s.now()

	check, err := s.checkFence(ctx, projectID, req)
	if err != nil {
		return attendance.SessionResponse{}, err
	}
	if !check.InsideGeofence {
		s.recordViolation(ctx, workerID, projectID, "lunch_start", req, check)
		return attendance.SessionResponse{}, attendance.ErrOutsideGeofence
	}

	window := timewindow.Check(timewindow.ActionLunchStart, now)
	if !window.CanProceed {
		return attendance.SessionResponse{}, fmt.Errorf("%w: %s", attendance.ErrOutsideTimeWindow, window.Message)
	}

	session, err := s.sessions.Get(ctx, workerID, projectID, workDay(now))
	if err != nil {
		if errors.Is(err, attendance.ErrSessionNotFound) {
			return attendance.SessionResponse{}, attendance.ErrInvalidStateTransition
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to load session: %w", err)
	}

	ok, err := s.sessions.TransitionLunchStart(ctx, session.ID, now, req.Latitude, req.Longitude, check.InsideGeofence)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to start lunch: %w", err)
	}
	if !ok {
		return attendance.SessionResponse{}, attendance.ErrInvalidStateTransition
	}

	updated, err := s.sessions.Get(ctx, workerID, projectID, workDay(now))
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to load updated session: %w", err)
	}

	return attendance.MapSessionToResponse(updated), nil
}

// LunchEnd implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) LunchEnd(ctx context.Context, req attendance.LocationRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	workerID, projectID, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	now := s.now()

	session, err := s.sessions.Get(ctx, workerID, projectID, workDay(now))
	if err != nil {
		if errors.Is(err, attendance.ErrSessionNotFound) {
			return attendance.SessionResponse{}, attendance.ErrInvalidStateTransition
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to load session: %w", err)
	}

	ok, err := s.sessions.TransitionLunchEnd(ctx, session.ID, now)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to end lunch: %w", err)
	}
	if !ok {
		return attendance.SessionResponse{}, attendance.ErrInvalidStateTransition
	}

	updated, err := s.sessions.Get(ctx, workerID, projectID, workDay(now))
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to load updated session: %w", err)
	}

	return attendance.MapSessionToResponse(updated), nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.LocationRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	workerID, projectID, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	now := s.now()

	// Attendance must always be closeable: an outside position is recorded
	// as a violation but never blocks clock-out.
	check, err := s.checkFence(ctx, projectID, req)
	if err != nil {
		return attendance.SessionResponse{}, err
	}
	if !check.InsideGeofence {
		s.recordViolation(ctx, workerID, projectID, "clock_out", req, check)
	}

	otStatus, err := s.overtimes.CheckStatus(ctx, workerID, projectID, workDay(now))
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to check overtime status: %w", err)
	}
	otApproved := otStatus == overtime.StatusApproved

	window := timewindow.Check(timewindow.ActionLogout, now)
	if !window.CanProceed {
		if !window.RequiresOvertimeApproval {
			return attendance.SessionResponse{}, fmt.Errorf("%w: %s", attendance.ErrOutsideTimeWindow, window.Message)
		}
		if !otApproved {
			return attendance.SessionResponse{}, fmt.Errorf("%w: %s", attendance.ErrOutsideTimeWindow, window.Message)
		}
	}

	session, err := s.sessions.Get(ctx, workerID, projectID, workDay(now))
	if err != nil {
		if errors.Is(err, attendance.ErrSessionNotFound) {
			return attendance.SessionResponse{}, attendance.ErrInvalidStateTransition
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to load session: %w", err)
	}

	if session.State != attendance.StateClockedIn || session.ClockInAt == nil {
		return attendance.SessionResponse{}, attendance.ErrInvalidStateTransition
	}

	regular, ot, unapprovedMinutes := computeHours(*session.ClockInAt, session.LunchStartAt, session.LunchEndAt, now, otApproved)

	session.State = attendance.StateClockedOut
	session.ClockOutAt = &now
	session.RegularHours = regular
	session.OTHours = ot
	session.UnapprovedOvertimeMinutes = unapprovedMinutes
	session.UnapprovedOvertime = unapprovedMinutes > 0
	session.LastLatitude = &req.Latitude
	session.LastLongitude = &req.Longitude
	session.LastInsideGeofence = &check.InsideGeofence

	ok, err := s.sessions.TransitionClockOut(ctx, session)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to clock out: %w", err)
	}
	if !ok {
		return attendance.SessionResponse{}, attendance.ErrInvalidStateTransition
	}

	if session.UnapprovedOvertime {
		slog.Warn("unapproved overtime recorded",
			"worker_id", workerID, "project_id", projectID, "minutes", unapprovedMinutes)
	}

	return attendance.MapSessionToResponse(session), nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.SessionResponse, error) {
	workerID, projectID, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	session, err := s.sessions.Get(ctx, workerID, projectID, workDay(s.now()))
	if err != nil {
		if errors.Is(err, attendance.ErrSessionNotFound) {
			return attendance.SessionResponse{}, attendance.ErrSessionNotFound
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to load session: %w", err)
	}

	return attendance.MapSessionToResponse(session), nil
}

// IsClockedIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) IsClockedIn(ctx context.Context, workerID, projectID string, date time.Time) (bool, error) {
	session, err := s.sessions.Get(ctx, workerID, projectID, workDay(date))
	if err != nil {
		if errors.Is(err, attendance.ErrSessionNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load session: %w", err)
	}

	return session.State == attendance.StateClockedIn, nil
}
