package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/buildcrew/sitework-backend-go/internal/domain/notification"
	"github.com/buildcrew/sitework-backend-go/internal/domain/task"
	"github.com/go-chi/jwtauth/v5"
)

type TaskServiceImpl struct {
	assignments  task.AssignmentRepository
	attendance   task.AttendanceChecker
	notification notification.Service

	now func() time.Time
}

func NewTaskService(
	assignmentRepo task.AssignmentRepository,
	attendanceChecker task.AttendanceChecker,
	notificationService notification.Service,
) task.TaskService {
	return &TaskServiceImpl{
		assignments:  assignmentRepo,
		attendance:   attendanceChecker,
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

// CreateAssignment implements task.TaskService.
func (s *TaskServiceImpl) CreateAssignment(ctx context.Context, req task.CreateAssignmentRequest) (task.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return task.AssignmentResponse{}, err
	}

	_, projectID, err := claimsFromContext(ctx)
	if err != nil {
		return task.AssignmentResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	assignment := task.Assignment{
		WorkerID:     req.WorkerID,
		ProjectID:    projectID,
		Date:         date,
		Name:         req.Name,
		Sequence:     req.Sequence,
		Status:       task.StatusQueued,
		Dependencies: req.Dependencies,
		DailyTarget: task.DailyTarget{
			Quantity: req.TargetQuantity,
			Unit:     req.TargetUnit,
		},
	}

	created, err := s.assignments.Create(ctx, assignment)
	if err != nil {
		return task.AssignmentResponse{}, fmt.Errorf("failed to create assignment: %w", err)
	}

	return task.MapAssignmentToResponse(created), nil
}

// Start implements task.TaskService.
func (s *TaskServiceImpl) Start(ctx context.Context, assignmentID string) (task.AssignmentResponse, error) {
	workerID, projectID, err := claimsFromContext(ctx)
	if err != nil {
		return task.AssignmentResponse{}, err
	}

	now := s.now()
	today := workDay(now)

	clockedIn, err := s.attendance.IsClockedIn(ctx, workerID, projectID, today)
	if err != nil {
		return task.AssignmentResponse{}, fmt.Errorf("failed to check attendance: %w", err)
	}
	if !clockedIn {
		return task.AssignmentResponse{}, task.ErrNoActiveAttendanceSession
	}

	assignments, err := s.assignments.ListByWorkerAndDate(ctx, workerID, today)
	if err != nil {
		return task.AssignmentResponse{}, fmt.Errorf("failed to list assignments: %w", err)
	}

	byID := make(map[string]task.Assignment, len(assignments))
	for _, a := range assignments {
		byID[a.ID] = a
	}

	target, ok := byID[assignmentID]
	if !ok {
		return task.AssignmentResponse{}, task.ErrAssignmentNotFound
	}

	if target.Status != task.StatusQueued && target.Status != task.StatusPaused {
		return task.AssignmentResponse{}, task.ErrInvalidStatusTransition
	}

	if unmet := unmetDependencies(target, byID); len(unmet) > 0 {
		s.notification.Enqueue(notification.CreateNotificationRequest{
			RecipientID: workerID,
			Type:        notification.TypeTaskRejected,
			Title:       "Task blocked",
			Message:     (&task.DependencyNotMetError{Unmet: unmet}).Error(),
		})
		return task.AssignmentResponse{}, &task.DependencyNotMetError{Unmet: unmet}
	}

	// No silent switching: the worker must pause the active task explicitly,
	// then retry.
	for _, a := range assignments {
		if a.Status == task.StatusInProgress && a.ID != assignmentID {
			return task.AssignmentResponse{}, &task.ActiveTaskConflictError{TaskID: a.ID, TaskName: a.Name}
		}
	}

	started, err := s.assignments.Start(ctx, assignmentID, now)
	if err != nil {
		return task.AssignmentResponse{}, fmt.Errorf("failed to start task: %w", err)
	}
	if !started {
		// Lost a race: another request moved first. Preconditions were
		// re-checked by the store; report the conflict for a single retry.
		return task.AssignmentResponse{}, task.ErrInvalidStatusTransition
	}

	updated, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return task.AssignmentResponse{}, fmt.Errorf("failed to load updated assignment: %w", err)
	}

	return task.MapAssignmentToResponse(updated), nil
}

// unmetDependencies returns the names of dependencies that are not completed.
func unmetDependencies(target task.Assignment, byID map[string]task.Assignment) []string {
	var unmet []string
	for _, depID := range target.Dependencies {
		dep, ok := byID[depID]
		if !ok {
			unmet = append(unmet, depID)
			continue
		}
		if dep.Status != task.StatusCompleted {
			unmet = append(unmet, dep.Name)
		}
	}
	return unmet
}

// Pause implements task.TaskService.
func (s *TaskServiceImpl) Pause(ctx context.Context, assignmentID string) (task.AssignmentResponse, error) {
	workerID, _, err := claimsFromContext(ctx)
	if err != nil {
		return task.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, task.ErrAssignmentNotFound) {
			return task.AssignmentResponse{}, task.ErrAssignmentNotFound
		}
		return task.AssignmentResponse{}, fmt.Errorf("failed to load assignment: %w", err)
	}
	if assignment.WorkerID != workerID {
		return task.AssignmentResponse{}, task.ErrAssignmentNotFound
	}

	ok, err := s.assignments.Pause(ctx, assignmentID)
	if err != nil {
		return task.AssignmentResponse{}, fmt.Errorf("failed to pause task: %w", err)
	}
	if !ok {
		return task.AssignmentResponse{}, task.ErrNotInProgress
	}

	assignment.Status = task.StatusPaused
	return task.MapAssignmentToResponse(assignment), nil
}

// Complete implements task.TaskService.
func (s *TaskServiceImpl) Complete(ctx context.Context, req task.CompleteTaskRequest) (task.AssignmentResponse, error) {
	workerID, _, err := claimsFromContext(ctx)
	if err != nil {
		return task.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, task.ErrAssignmentNotFound) {
			return task.AssignmentResponse{}, task.ErrAssignmentNotFound
		}
		return task.AssignmentResponse{}, fmt.Errorf("failed to load assignment: %w", err)
	}
	if assignment.WorkerID != workerID {
		return task.AssignmentResponse{}, task.ErrAssignmentNotFound
	}

	if assignment.ActualOutput < assignment.DailyTarget.Quantity && !req.ForceComplete {
		return task.AssignmentResponse{}, fmt.Errorf("%w: %.1f of %.1f %s",
			task.ErrIncompleteOutput, assignment.ActualOutput, assignment.DailyTarget.Quantity, assignment.DailyTarget.Unit)
	}

	now := s.now()
	ok, err := s.assignments.Complete(ctx, req.AssignmentID, now)
	if err != nil {
		return task.AssignmentResponse{}, fmt.Errorf("failed to complete task: %w", err)
	}
	if !ok {
		return task.AssignmentResponse{}, task.ErrNotInProgress
	}

	if req.ForceComplete && assignment.ActualOutput < assignment.DailyTarget.Quantity {
		slog.Warn("task force-completed under target",
			"assignment_id", assignment.ID, "worker_id", workerID,
			"output", assignment.ActualOutput, "target", assignment.DailyTarget.Quantity)
		s.notification.Enqueue(notification.CreateNotificationRequest{
			RecipientID: workerID,
			Type:        notification.TypeTaskForced,
			Title:       "Task force-completed",
			Message:     fmt.Sprintf("%q completed at %.1f of %.1f %s", assignment.Name, assignment.ActualOutput, assignment.DailyTarget.Quantity, assignment.DailyTarget.Unit),
		})
	}

	assignment.Status = task.StatusCompleted
	assignment.CompletedAt = &now
	return task.MapAssignmentToResponse(assignment), nil
}

// RecordProgress implements task.TaskService.
func (s *TaskServiceImpl) RecordProgress(ctx context.Context, req task.RecordProgressRequest) (task.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return task.AssignmentResponse{}, err
	}

	workerID, _, err := claimsFromContext(ctx)
	if err != nil {
		return task.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, task.ErrAssignmentNotFound) {
			return task.AssignmentResponse{}, task.ErrAssignmentNotFound
		}
		return task.AssignmentResponse{}, fmt.Errorf("failed to load assignment: %w", err)
	}
	if assignment.WorkerID != workerID {
		return task.AssignmentResponse{}, task.ErrAssignmentNotFound
	}

	updated, ok, err := s.assignments.AddProgress(ctx, req.AssignmentID, req.Delta)
	if err != nil {
		return task.AssignmentResponse{}, fmt.Errorf("failed to record progress: %w", err)
	}
	if !ok {
		if assignment.Status != task.StatusInProgress {
			return task.AssignmentResponse{}, task.ErrNotInProgress
		}
		return task.AssignmentResponse{}, task.ErrInvalidDelta
	}

	return task.MapAssignmentToResponse(updated), nil
}

// ListToday implements task.TaskService.
func (s *TaskServiceImpl) ListToday(ctx context.Context) (task.TodayResponse, error) {
	workerID, _, err := claimsFromContext(ctx)
	if err != nil {
		return task.TodayResponse{}, err
	}

	assignments, err := s.assignments.ListByWorkerAndDate(ctx, workerID, workDay(s.now()))
	if err != nil {
		return task.TodayResponse{}, fmt.Errorf("failed to list assignments: %w", err)
	}

	responses := make([]task.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, task.MapAssignmentToResponse(a))
	}

	return task.TodayResponse{
		Assignments:     responses,
		SuggestedNextID: suggestNext(assignments),
	}, nil
}

// suggestNext picks the queued assignment with the lowest sequence whose
// dependencies are all completed. Advisory only: nothing is auto-started.
func suggestNext(assignments []task.Assignment) *string {
	byID := make(map[string]task.Assignment, len(assignments))
	for _, a := range assignments {
		byID[a.ID] = a
	}

	candidates := make([]task.Assignment, 0)
	for _, a := range assignments {
		if a.Status != task.StatusQueued && a.Status != task.StatusPaused {
			continue
		}
		if len(unmetDependencies(a, byID)) > 0 {
			continue
		}
		candidates = append(candidates, a)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Sequence < candidates[j].Sequence
	})

	id := candidates[0].ID
	return &id
}

// DailySummary implements task.TaskService.
func (s *TaskServiceImpl) DailySummary(ctx context.Context) (task.DailySummaryResponse, error) {
	workerID, _, err := claimsFromContext(ctx)
	if err != nil {
		return task.DailySummaryResponse{}, err
	}

	today := workDay(s.now())
	assignments, err := s.assignments.ListByWorkerAndDate(ctx, workerID, today)
	if err != nil {
		return task.DailySummaryResponse{}, fmt.Errorf("failed to list assignments: %w", err)
	}

	return task.DailySummaryResponse{
		Date:  today.Format("2006-01-02"),
		Units: summarizeByUnit(assignments),
	}, nil
}

// summarizeByUnit groups a worker's assignments by target unit and sums
// output against target. Pure read projection.
func summarizeByUnit(assignments []task.Assignment) []task.UnitProgress {
	totals := make(map[string]*task.UnitProgress)
	order := make([]string, 0)

	for _, a := range assignments {
		unit := a.DailyTarget.Unit
		agg, ok := totals[unit]
		if !ok {
			agg = &task.UnitProgress{Unit: unit}
			totals[unit] = agg
			order = append(order, unit)
		}
		agg.TotalOutput += a.ActualOutput
		agg.TotalTarget += a.DailyTarget.Quantity
	}

	units := make([]task.UnitProgress, 0, len(order))
	for _, unit := range order {
		agg := totals[unit]
		if agg.TotalTarget > 0 {
			agg.ProgressPercent = int(math.Min(100, math.Round(agg.TotalOutput/agg.TotalTarget*100)))
		}
		units = append(units, *agg)
	}
	return units
}
