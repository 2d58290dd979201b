package task

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/buildcrew/sitework-backend-go/internal/domain/notification"
	"github.com/buildcrew/sitework-backend-go/internal/domain/task"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWorkerID  = "worker-1"
	testProjectID = "project-1"
)

func authedContext(t *testing.T, workerID, projectID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"worker_id":  workerID,
		"project_id": projectID,
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// fakeAssignmentRepo mirrors the store's conditional-update guards so the
// service sees the same semantics as against PostgreSQL.
type fakeAssignmentRepo struct {
	assignments map[string]*task.Assignment
	nextID      int
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[string]*task.Assignment)}
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, assignment task.Assignment) (task.Assignment, error) {
	r.nextID++
	assignment.ID = fmt.Sprintf("task-%d", r.nextID)
	assignment.CreatedAt = time.Now()
	r.assignments[assignment.ID] = &assignment
	return assignment, nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id string) (task.Assignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return task.Assignment{}, task.ErrAssignmentNotFound
	}
	return *a, nil
}

func (r *fakeAssignmentRepo) ListByWorkerAndDate(ctx context.Context, workerID string, date time.Time) ([]task.Assignment, error) {
	var out []task.Assignment
	for _, a := range r.assignments {
		if a.WorkerID == workerID && a.Date.Equal(date) {
			out = append(out, *a)
		}
	}
	// sequence order, matching the store
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Sequence < out[i].Sequence {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) Start(ctx context.Context, id string, at time.Time) (bool, error) {
	a, ok := r.assignments[id]
	if !ok {
		return false, nil
	}
	if a.Status != task.StatusQueued && a.Status != task.StatusPaused {
		return false, nil
	}
	for _, other := range r.assignments {
		if other.WorkerID == a.WorkerID && other.Date.Equal(a.Date) &&
			other.Status == task.StatusInProgress && other.ID != id {
			return false, nil
		}
	}
	a.Status = task.StatusInProgress
	if a.StartedAt == nil {
		a.StartedAt = &at
	}
	return true, nil
}

func (r *fakeAssignmentRepo) Pause(ctx context.Context, id string) (bool, error) {
	a, ok := r.assignments[id]
	if !ok || a.Status != task.StatusInProgress {
		return false, nil
	}
	a.Status = task.StatusPaused
	return true, nil
}

func (r *fakeAssignmentRepo) Complete(ctx context.Context, id string, at time.Time) (bool, error) {
	a, ok := r.assignments[id]
	if !ok || a.Status != task.StatusInProgress {
		return false, nil
	}
	a.Status = task.StatusCompleted
	a.CompletedAt = &at
	return true, nil
}

func (r *fakeAssignmentRepo) AddProgress(ctx context.Context, id string, delta float64) (task.Assignment, bool, error) {
	a, ok := r.assignments[id]
	if !ok || a.Status != task.StatusInProgress {
		return task.Assignment{}, false, nil
	}
	if a.ActualOutput+delta < 0 {
		return task.Assignment{}, false, nil
	}
	a.ActualOutput += delta
	if a.DailyTarget.Quantity > 0 {
		a.ProgressPercent = int(math.Min(100, math.Round(a.ActualOutput/a.DailyTarget.Quantity*100)))
	}
	return *a, true, nil
}

type fakeAttendanceChecker struct {
	clockedIn bool
}

func (c *fakeAttendanceChecker) IsClockedIn(ctx context.Context, workerID, projectID string, date time.Time) (bool, error) {
	return c.clockedIn, nil
}

type fakeNotifier struct {
	enqueued []notification.CreateNotificationRequest
}

func (n *fakeNotifier) Enqueue(req notification.CreateNotificationRequest) {
	n.enqueued = append(n.enqueued, req)
}

func (n *fakeNotifier) Stop() {}

type testEnv struct {
	svc        *TaskServiceImpl
	repo       *fakeAssignmentRepo
	attendance *fakeAttendanceChecker
	notifier   *fakeNotifier
	clock      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:       newFakeAssignmentRepo(),
		attendance: &fakeAttendanceChecker{clockedIn: true},
		notifier:   &fakeNotifier{},
		clock:      time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local),
	}
	svc := NewTaskService(env.repo, env.attendance, env.notifier).(*TaskServiceImpl)
	svc.now = func() time.Time { return env.clock }
	env.svc = svc
	return env
}

// seed creates a queued assignment for the test worker's current day.
func (e *testEnv) seed(t *testing.T, name string, sequence int, target float64, unit string, deps ...string) task.Assignment {
	t.Helper()
	created, err := e.repo.Create(context.Background(), task.Assignment{
		WorkerID:     testWorkerID,
		ProjectID:    testProjectID,
		Date:         workDay(e.clock),
		Name:         name,
		Sequence:     sequence,
		Status:       task.StatusQueued,
		Dependencies: deps,
		DailyTarget:  task.DailyTarget{Quantity: target, Unit: unit},
	})
	require.NoError(t, err)
	return created
}

func TestStart_RequiresActiveAttendance(t *testing.T) {
	env := newTestEnv(t)
	env.attendance.clockedIn = false
	ctx := authedContext(t, testWorkerID, testProjectID)

	a := env.seed(t, "Lay foundation bricks", 1, 150, "bricks")

	_, err := env.svc.Start(ctx, a.ID)
	assert.ErrorIs(t, err, task.ErrNoActiveAttendanceSession)
}

func TestStart_DependencyNotMet(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	foundation := env.seed(t, "Lay foundation bricks", 1, 150, "bricks")
	walls := env.seed(t, "Build wall first course", 2, 80, "bricks", foundation.ID)

	_, err := env.svc.Start(ctx, walls.ID)

	var depErr *task.DependencyNotMetError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, []string{"Lay foundation bricks"}, depErr.Unmet)

	// The rejection is pushed to the worker's stream.
	require.Len(t, env.notifier.enqueued, 1)
	assert.Equal(t, notification.TypeTaskRejected, env.notifier.enqueued[0].Type)
}

func TestStart_AfterDependencyCompleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	foundation := env.seed(t, "Lay foundation bricks", 1, 150, "bricks")
	walls := env.seed(t, "Build wall first course", 2, 80, "bricks", foundation.ID)

	_, err := env.svc.Start(ctx, foundation.ID)
	require.NoError(t, err)
	_, err = env.svc.RecordProgress(ctx, task.RecordProgressRequest{AssignmentID: foundation.ID, Delta: 150})
	require.NoError(t, err)
	_, err = env.svc.Complete(ctx, task.CompleteTaskRequest{AssignmentID: foundation.ID})
	require.NoError(t, err)

	resp, err := env.svc.Start(ctx, walls.ID)
	require.NoError(t, err)
	assert.Equal(t, string(task.StatusInProgress), resp.Status)
}

func TestStart_ActiveTaskConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	first := env.seed(t, "Mix mortar", 1, 20, "batches")
	second := env.seed(t, "Plaster wall", 2, 40, "m2")

	_, err := env.svc.Start(ctx, first.ID)
	require.NoError(t, err)

	_, err = env.svc.Start(ctx, second.ID)
	var conflict *task.ActiveTaskConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.TaskID)
	assert.Equal(t, "Mix mortar", conflict.TaskName)

	// Explicit pause, then the switch is allowed.
	_, err = env.svc.Pause(ctx, first.ID)
	require.NoError(t, err)

	resp, err := env.svc.Start(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, string(task.StatusInProgress), resp.Status)
}

func TestStart_ResumeKeepsOriginalStart(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	a := env.seed(t, "Mix mortar", 1, 20, "batches")

	resp, err := env.svc.Start(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.StartedAt)
	originalStart := *resp.StartedAt

	_, err = env.svc.Pause(ctx, a.ID)
	require.NoError(t, err)

	env.clock = env.clock.Add(2 * time.Hour)
	resp, err = env.svc.Start(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.StartedAt)
	assert.Equal(t, originalStart, *resp.StartedAt)
}

func TestStart_CompletedTaskRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	a := env.seed(t, "Mix mortar", 1, 20, "batches")
	_, err := env.svc.Start(ctx, a.ID)
	require.NoError(t, err)
	_, err = env.svc.RecordProgress(ctx, task.RecordProgressRequest{AssignmentID: a.ID, Delta: 20})
	require.NoError(t, err)
	_, err = env.svc.Complete(ctx, task.CompleteTaskRequest{AssignmentID: a.ID})
	require.NoError(t, err)

	_, err = env.svc.Start(ctx, a.ID)
	assert.ErrorIs(t, err, task.ErrInvalidStatusTransition)
}

func TestStart_UnknownAssignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	_, err := env.svc.Start(ctx, "missing")
	assert.ErrorIs(t, err, task.ErrAssignmentNotFound)
}

func TestPause_OnlyInProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	a := env.seed(t, "Mix mortar", 1, 20, "batches")

	_, err := env.svc.Pause(ctx, a.ID)
	assert.ErrorIs(t, err, task.ErrNotInProgress)
}

func TestPause_OtherWorkersTaskHidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, "worker-2", testProjectID)

	a := env.seed(t, "Mix mortar", 1, 20, "batches")

	_, err := env.svc.Pause(ctx, a.ID)
	assert.ErrorIs(t, err, task.ErrAssignmentNotFound)
}

func TestRecordProgress_CapsAtHundredPercent(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	a := env.seed(t, "Lay foundation bricks", 1, 150, "bricks")
	_, err := env.svc.Start(ctx, a.ID)
	require.NoError(t, err)

	resp, err := env.svc.RecordProgress(ctx, task.RecordProgressRequest{AssignmentID: a.ID, Delta: 120})
	require.NoError(t, err)
	assert.Equal(t, 120.0, resp.ActualOutput)
	assert.Equal(t, 80, resp.ProgressPercent)

	// Output keeps accumulating past the target; the percentage caps.
	resp, err = env.svc.RecordProgress(ctx, task.RecordProgressRequest{AssignmentID: a.ID, Delta: 40})
	require.NoError(t, err)
	assert.Equal(t, 160.0, resp.ActualOutput)
	assert.Equal(t, 100, resp.ProgressPercent)
}

func TestRecordProgress_NegativeCorrection(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	a := env.seed(t, "Lay foundation bricks", 1, 150, "bricks")
	_, err := env.svc.Start(ctx, a.ID)
	require.NoError(t, err)
	_, err = env.svc.RecordProgress(ctx, task.RecordProgressRequest{AssignmentID: a.ID, Delta: 50})
	require.NoError(t, err)

	resp, err := env.svc.RecordProgress(ctx, task.RecordProgressRequest{AssignmentID: a.ID, Delta: -20})
	require.NoError(t, err)
	assert.Equal(t, 30.0, resp.ActualOutput)
	assert.Equal(t, 20, resp.ProgressPercent)

	// A correction past zero is rejected and the output is unchanged.
	_, err = env.svc.RecordProgress(ctx, task.RecordProgressRequest{AssignmentID: a.ID, Delta: -40})
	assert.ErrorIs(t, err, task.ErrInvalidDelta)

	resp, err = env.svc.RecordProgress(ctx, task.RecordProgressRequest{AssignmentID: a.ID, Delta: 10})
	require.NoError(t, err)
	assert.Equal(t, 40.0, resp.ActualOutput)
}

func TestRecordProgress_RequiresInProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	a := env.seed(t, "Lay foundation bricks", 1, 150, "bricks")

	_, err := env.svc.RecordProgress(ctx, task.RecordProgressRequest{AssignmentID: a.ID, Delta: 10})
	assert.ErrorIs(t, err, task.ErrNotInProgress)
}

func TestComplete_UnderTargetRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	a := env.seed(t, "Lay foundation bricks", 1, 150, "bricks")
	_, err := env.svc.Start(ctx, a.ID)
	require.NoError(t, err)
	_, err = env.svc.RecordProgress(ctx, task.RecordProgressRequest{AssignmentID: a.ID, Delta: 120})
	require.NoError(t, err)

	_, err = env.svc.Complete(ctx, task.CompleteTaskRequest{AssignmentID: a.ID})
	assert.ErrorIs(t, err, task.ErrIncompleteOutput)
	assert.Contains(t, err.Error(), "120.0 of 150.0 bricks")
}

func TestComplete_ForceUnderTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	a := env.seed(t, "Lay foundation bricks", 1, 150, "bricks")
	_, err := env.svc.Start(ctx, a.ID)
	require.NoError(t, err)
	_, err = env.svc.RecordProgress(ctx, task.RecordProgressRequest{AssignmentID: a.ID, Delta: 120})
	require.NoError(t, err)

	resp, err := env.svc.Complete(ctx, task.CompleteTaskRequest{AssignmentID: a.ID, ForceComplete: true})
	require.NoError(t, err)
	assert.Equal(t, string(task.StatusCompleted), resp.Status)
	require.NotNil(t, resp.CompletedAt)

	require.Len(t, env.notifier.enqueued, 1)
	assert.Equal(t, notification.TypeTaskForced, env.notifier.enqueued[0].Type)
}

func TestComplete_AtTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	a := env.seed(t, "Lay foundation bricks", 1, 150, "bricks")
	_, err := env.svc.Start(ctx, a.ID)
	require.NoError(t, err)
	_, err = env.svc.RecordProgress(ctx, task.RecordProgressRequest{AssignmentID: a.ID, Delta: 150})
	require.NoError(t, err)

	resp, err := env.svc.Complete(ctx, task.CompleteTaskRequest{AssignmentID: a.ID})
	require.NoError(t, err)
	assert.Equal(t, string(task.StatusCompleted), resp.Status)
	assert.Empty(t, env.notifier.enqueued)
}

func TestListToday_SuggestsNextBySequence(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	foundation := env.seed(t, "Lay foundation bricks", 1, 150, "bricks")
	walls := env.seed(t, "Build wall first course", 2, 80, "bricks", foundation.ID)
	cleanup := env.seed(t, "Clean work area", 3, 1, "site")

	resp, err := env.svc.ListToday(ctx)
	require.NoError(t, err)
	assert.Len(t, resp.Assignments, 3)

	// Walls are blocked by the foundation, so the foundation is suggested.
	require.NotNil(t, resp.SuggestedNextID)
	assert.Equal(t, foundation.ID, *resp.SuggestedNextID)

	// Complete the foundation: walls (seq 2) beat cleanup (seq 3).
	_, err = env.svc.Start(ctx, foundation.ID)
	require.NoError(t, err)
	_, err = env.svc.RecordProgress(ctx, task.RecordProgressRequest{AssignmentID: foundation.ID, Delta: 150})
	require.NoError(t, err)
	_, err = env.svc.Complete(ctx, task.CompleteTaskRequest{AssignmentID: foundation.ID})
	require.NoError(t, err)

	resp, err = env.svc.ListToday(ctx)
	require.NoError(t, err)
	require.NotNil(t, resp.SuggestedNextID)
	assert.Equal(t, walls.ID, *resp.SuggestedNextID)
	_ = cleanup
}

func TestListToday_NoCandidates(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	resp, err := env.svc.ListToday(ctx)
	require.NoError(t, err)
	assert.Empty(t, resp.Assignments)
	assert.Nil(t, resp.SuggestedNextID)
}

func TestDailySummary_GroupsByUnit(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	bricks := env.seed(t, "Lay foundation bricks", 1, 150, "bricks")
	moreBricks := env.seed(t, "Build wall first course", 2, 50, "bricks")
	plaster := env.seed(t, "Plaster wall", 3, 40, "m2")

	_, err := env.svc.Start(ctx, bricks.ID)
	require.NoError(t, err)
	_, err = env.svc.RecordProgress(ctx, task.RecordProgressRequest{AssignmentID: bricks.ID, Delta: 100})
	require.NoError(t, err)
	_ = moreBricks
	_ = plaster

	resp, err := env.svc.DailySummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", resp.Date)
	require.Len(t, resp.Units, 2)

	byUnit := make(map[string]task.UnitProgress)
	for _, u := range resp.Units {
		byUnit[u.Unit] = u
	}

	assert.Equal(t, 100.0, byUnit["bricks"].TotalOutput)
	assert.Equal(t, 200.0, byUnit["bricks"].TotalTarget)
	assert.Equal(t, 50, byUnit["bricks"].ProgressPercent)

	assert.Equal(t, 0.0, byUnit["m2"].TotalOutput)
	assert.Equal(t, 40.0, byUnit["m2"].TotalTarget)
	assert.Equal(t, 0, byUnit["m2"].ProgressPercent)
}

func TestCreateAssignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, "supervisor-1", testProjectID)

	resp, err := env.svc.CreateAssignment(ctx, task.CreateAssignmentRequest{
		WorkerID:       testWorkerID,
		Date:           "2026-03-02",
		Name:           "Lay foundation bricks",
		Sequence:       1,
		TargetQuantity: 150,
		TargetUnit:     "bricks",
	})
	require.NoError(t, err)

	assert.Equal(t, testWorkerID, resp.WorkerID)
	assert.Equal(t, testProjectID, resp.ProjectID)
	assert.Equal(t, string(task.StatusQueued), resp.Status)
	assert.Equal(t, 150.0, resp.TargetQuantity)
}

func TestCreateAssignment_Invalid(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, "supervisor-1", testProjectID)

	_, err := env.svc.CreateAssignment(ctx, task.CreateAssignmentRequest{
		WorkerID:       "",
		Date:           "bad-date",
		Name:           "",
		TargetQuantity: 0,
	})
	assert.Error(t, err)
}
