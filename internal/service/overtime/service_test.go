package overtime

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/buildcrew/sitework-backend-go/internal/domain/notification"
	"github.com/buildcrew/sitework-backend-go/internal/domain/overtime"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWorkerID     = "worker-1"
	testSupervisorID = "supervisor-1"
	testProjectID    = "project-1"
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

type fakeRequestRepo struct {
	requests map[string]*overtime.Request
	nextID   int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*overtime.Request)}
}

func (r *fakeRequestRepo) CreatePending(ctx context.Context, request overtime.Request) (overtime.Request, bool, error) {
	for _, existing := range r.requests {
		if existing.WorkerID == request.WorkerID &&
			existing.ProjectID == request.ProjectID &&
			existing.Date.Equal(request.Date) &&
			existing.Status == overtime.StatusPending {
			return overtime.Request{}, false, nil
		}
	}
	r.nextID++
	request.ID = fmt.Sprintf("ot-%d", r.nextID)
	request.Status = overtime.StatusPending
	r.requests[request.ID] = &request
	return request, true, nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id string) (overtime.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return overtime.Request{}, overtime.ErrRequestNotFound
	}
	return *req, nil
}

func (r *fakeRequestRepo) Decide(ctx context.Context, id string, status overtime.Status, decidedBy string, at time.Time) (bool, error) {
	req, ok := r.requests[id]
	if !ok || req.Status != overtime.StatusPending {
		return false, nil
	}
	req.Status = status
	req.DecidedBy = &decidedBy
	req.DecidedAt = &at
	return true, nil
}

func (r *fakeRequestRepo) GetStatus(ctx context.Context, workerID, projectID string, date time.Time) (overtime.Status, error) {
	var latest *overtime.Request
	for _, req := range r.requests {
		if req.WorkerID == workerID && req.ProjectID == projectID && req.Date.Equal(date) {
			if latest == nil || req.ID > latest.ID {
				latest = req
			}
		}
	}
	if latest == nil {
		return overtime.StatusNone, nil
	}
	return latest.Status, nil
}

type fakeNotifier struct {
	enqueued []notification.CreateNotificationRequest
}

func (n *fakeNotifier) Enqueue(req notification.CreateNotificationRequest) {
	n.enqueued = append(n.enqueued, req)
}

func (n *fakeNotifier) Stop() {}

type testEnv struct {
	svc      *OvertimeServiceImpl
	repo     *fakeRequestRepo
	notifier *fakeNotifier
	clock    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:     newFakeRequestRepo(),
		notifier: &fakeNotifier{},
		clock:    time.Date(2026, 3, 2, 16, 30, 0, 0, time.Local),
	}
	svc := NewOvertimeService(env.repo, env.notifier).(*OvertimeServiceImpl)
	svc.now = func() time.Time { return env.clock }
	env.svc = svc
	return env
}

func TestRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	resp, err := env.svc.Request(ctx, overtime.RequestOvertimeRequest{Reason: "pour must finish before the rain"})
	require.NoError(t, err)

	assert.Equal(t, string(overtime.StatusPending), resp.Status)
	assert.Equal(t, testWorkerID, resp.WorkerID)
	assert.Equal(t, "2026-03-02", resp.Date)

	require.Len(t, env.notifier.enqueued, 1)
	assert.Equal(t, notification.TypeOvertimeRequested, env.notifier.enqueued[0].Type)
}

func TestRequest_DuplicatePending(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	_, err := env.svc.Request(ctx, overtime.RequestOvertimeRequest{Reason: "pour must finish before the rain"})
	require.NoError(t, err)

	_, err = env.svc.Request(ctx, overtime.RequestOvertimeRequest{Reason: "second ask"})
	assert.ErrorIs(t, err, overtime.ErrDuplicatePendingRequest)
}

func TestRequest_AllowedAgainAfterRejection(t *testing.T) {
	env := newTestEnv(t)
	workerCtx := authedContext(t, testWorkerID, testProjectID)
	supervisorCtx := authedContext(t, testSupervisorID, testProjectID)

	first, err := env.svc.Request(workerCtx, overtime.RequestOvertimeRequest{Reason: "pour must finish before the rain"})
	require.NoError(t, err)

	_, err = env.svc.Decide(supervisorCtx, overtime.DecideRequest{ID: first.ID, Decision: "reject"})
	require.NoError(t, err)

	// The pending slot reopened.
	_, err = env.svc.Request(workerCtx, overtime.RequestOvertimeRequest{Reason: "revised plan"})
	require.NoError(t, err)
}

func TestRequest_EmptyReason(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	_, err := env.svc.Request(ctx, overtime.RequestOvertimeRequest{})
	assert.Error(t, err)
}

func TestDecide_Approve(t *testing.T) {
	env := newTestEnv(t)
	workerCtx := authedContext(t, testWorkerID, testProjectID)
	supervisorCtx := authedContext(t, testSupervisorID, testProjectID)

	created, err := env.svc.Request(workerCtx, overtime.RequestOvertimeRequest{Reason: "pour must finish before the rain"})
	require.NoError(t, err)

	resp, err := env.svc.Decide(supervisorCtx, overtime.DecideRequest{ID: created.ID, Decision: "approve"})
	require.NoError(t, err)

	assert.Equal(t, string(overtime.StatusApproved), resp.Status)
	require.NotNil(t, resp.DecidedBy)
	assert.Equal(t, testSupervisorID, *resp.DecidedBy)

	status, err := env.svc.CheckStatus(context.Background(), testWorkerID, testProjectID, env.clock)
	require.NoError(t, err)
	assert.Equal(t, overtime.StatusApproved, status)

	// Requester is told about the decision.
	decided := env.notifier.enqueued[len(env.notifier.enqueued)-1]
	assert.Equal(t, notification.TypeOvertimeDecided, decided.Type)
	assert.Equal(t, testWorkerID, decided.RecipientID)
}

func TestDecide_Twice(t *testing.T) {
	env := newTestEnv(t)
	workerCtx := authedContext(t, testWorkerID, testProjectID)
	supervisorCtx := authedContext(t, testSupervisorID, testProjectID)

	created, err := env.svc.Request(workerCtx, overtime.RequestOvertimeRequest{Reason: "pour must finish before the rain"})
	require.NoError(t, err)

	_, err = env.svc.Decide(supervisorCtx, overtime.DecideRequest{ID: created.ID, Decision: "approve"})
	require.NoError(t, err)

	_, err = env.svc.Decide(supervisorCtx, overtime.DecideRequest{ID: created.ID, Decision: "reject"})
	assert.ErrorIs(t, err, overtime.ErrNotPending)
}

func TestDecide_UnknownRequest(t *testing.T) {
	env := newTestEnv(t)
	supervisorCtx := authedContext(t, testSupervisorID, testProjectID)

	_, err := env.svc.Decide(supervisorCtx, overtime.DecideRequest{ID: "missing", Decision: "approve"})
	assert.ErrorIs(t, err, overtime.ErrRequestNotFound)
}

func TestDecide_InvalidDecision(t *testing.T) {
	env := newTestEnv(t)
	supervisorCtx := authedContext(t, testSupervisorID, testProjectID)

	_, err := env.svc.Decide(supervisorCtx, overtime.DecideRequest{ID: "ot-1", Decision: "maybe"})
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, testWorkerID, testProjectID)

	resp, err := env.svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(overtime.StatusNone), resp.Status)

	_, err = env.svc.Request(ctx, overtime.RequestOvertimeRequest{Reason: "pour must finish before the rain"})
	require.NoError(t, err)

	resp, err = env.svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(overtime.StatusPending), resp.Status)
}
