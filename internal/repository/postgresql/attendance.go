package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buildcrew/sitework-backend-go/internal/domain/attendance"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `
	id, worker_id, project_id, date, state,
	clock_in_at, lunch_start_at, lunch_end_at, clock_out_at,
	is_late, minutes_late,
	regular_hours, ot_hours, unapproved_overtime_minutes, unapproved_overtime,
	last_latitude, last_longitude, last_inside_geofence,
	created_at, updated_at`

func scanSession(row pgx.Row) (attendance.Session, error) {
	var s attendance.Session
	err := row.Scan(
		&s.ID, &s.WorkerID, &s.ProjectID, &s.Date, &s.State,
		&s.ClockInAt, &s.LunchStartAt, &s.LunchEndAt, &s.ClockOutAt,
		&s.IsLate, &s.MinutesLate,
		&s.RegularHours, &s.OTHours, &s.UnapprovedOvertimeMinutes, &s.UnapprovedOvertime,
		&s.LastLatitude, &s.LastLongitude, &s.LastInsideGeofence,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements attendance.SessionRepository. The unique key on
// (worker_id, project_id, date) plus ON CONFLICT DO NOTHING makes a second
// concurrent clock-in lose cleanly instead of double-inserting.
func (r *sessionRepository) Create(ctx context.Context, session attendance.Session) (attendance.Session, bool, error) {
	q := GetQuerier(ctx, r.db)

	session.ID = uuid.New().String()

	query := `
		INSERT INTO attendance_sessions (
			id, worker_id, project_id, date, state,
			clock_in_at, is_late, minutes_late,
			last_latitude, last_longitude, last_inside_geofence
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (worker_id, project_id, date) DO NOTHING
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		session.ID,
		session.WorkerID,
		session.ProjectID,
		session.Date,
		session.State,
		session.ClockInAt,
		session.IsLate,
		session.MinutesLate,
		session.LastLatitude,
		session.LastLongitude,
		session.LastInsideGeofence,
	).Scan(&session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict: a session already exists for this key.
			return attendance.Session{}, false, nil
		}
		return attendance.Session{}, false, fmt.Errorf("failed to create attendance session: %w", err)
	}

	return session, true, nil
}

// Get implements attendance.SessionRepository.
func (r *sessionRepository) Get(ctx context.Context, workerID, projectID string, date time.Time) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE worker_id = $1 AND project_id = $2 AND date = $3
	`

	s, err := scanSession(q.QueryRow(ctx, query, workerID, projectID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get attendance session: %w", err)
	}

	return s, nil
}

// TransitionLunchStart implements attendance.SessionRepository. The WHERE
// clause on state is the compare-and-swap: a row is updated only when the
// session is still CLOCKED_IN.
func (r *sessionRepository) TransitionLunchStart(ctx context.Context, sessionID string, at time.Time, lat, lon float64, inside bool) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET state = $1, lunch_start_at = $2,
		    last_latitude = $3, last_longitude = $4, last_inside_geofence = $5,
		    updated_at = NOW()
		WHERE id = $6 AND state = $7
	`

	tag, err := q.Exec(ctx, query,
		attendance.StateOnLunch, at, lat, lon, inside,
		sessionID, attendance.StateClockedIn,
	)
	if err != nil {
		return false, fmt.Errorf("failed to transition to lunch: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// TransitionLunchEnd implements attendance.SessionRepository.
func (r *sessionRepository) TransitionLunchEnd(ctx context.Context, sessionID string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET state = $1, lunch_end_at = $2, updated_at = NOW()
		WHERE id = $3 AND state = $4
	`

	tag, err := q.Exec(ctx, query,
		attendance.StateClockedIn, at,
		sessionID, attendance.StateOnLunch,
	)
	if err != nil {
		return false, fmt.Errorf("failed to end lunch: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// TransitionClockOut implements attendance.SessionRepository. Guarded on
// CLOCKED_IN so the terminal state is written exactly once.
func (r *sessionRepository) TransitionClockOut(ctx context.Context, session attendance.Session) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET state = $1, clock_out_at = $2,
		    regular_hours = $3, ot_hours = $4,
		    unapproved_overtime_minutes = $5, unapproved_overtime = $6,
		    last_latitude = $7, last_longitude = $8, last_inside_geofence = $9,
		    updated_at = NOW()
		WHERE id = $10 AND state = $11
	`

	tag, err := q.Exec(ctx, query,
		attendance.StateClockedOut, session.ClockOutAt,
		session.RegularHours, session.OTHours,
		session.UnapprovedOvertimeMinutes, session.UnapprovedOvertime,
		session.LastLatitude, session.LastLongitude, session.LastInsideGeofence,
		session.ID, attendance.StateClockedIn,
	)
	if err != nil {
		return false, fmt.Errorf("failed to clock out: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// RecordViolation implements attendance.SessionRepository.
func (r *sessionRepository) RecordViolation(ctx context.Context, violation attendance.GeofenceViolation) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO geofence_violations (
			id, worker_id, project_id, action, latitude, longitude, distance_meters, occurred_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := q.Exec(ctx, query,
		uuid.New().String(),
		violation.WorkerID,
		violation.ProjectID,
		violation.Action,
		violation.Latitude,
		violation.Longitude,
		violation.DistanceMeters,
		violation.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record geofence violation: %w", err)
	}

	return nil
}
