package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"task-auction-api/internal/common"
	"task-auction-api/internal/entity"
	"task-auction-api/internal/repo"
	"task-auction-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the postgres repositories. It
// honors the same contracts, most importantly the conditional-update
// one: AssignTask and UpdateTaskStatusById mutate a task only when its
// status still matches, under a single mutex, and report ErrConflict
// otherwise.
type memStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
	tasks map[uuid.UUID]entity.Task
	bids  map[uuid.UUID]entity.Bid

	// failAssign injects a storage failure for AssignTask on a task id.
	failAssign map[uuid.UUID]error
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[uuid.UUID]entity.User),
		tasks:      make(map[uuid.UUID]entity.Task),
		bids:       make(map[uuid.UUID]entity.Bid),
		failAssign: make(map[uuid.UUID]error),
	}
}

func (m *memStore) Ping() error { return nil }

func (m *memStore) DoesUserExistById(ctx context.Context, id string) (bool, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[uuidForm]

	return ok, nil
}

func (m *memStore) GetUserRoleById(ctx context.Context, id string) (string, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[uuidForm]
	if !ok {
		return "", repo_errors.ErrNotFound
	}

	return user.Role, nil
}

func (m *memStore) CreateTask(ctx context.Context, input *entity.CreateTaskInput) (uuid.UUID, error) {
	creatorId, err := uuid.Parse(input.CreatorId)
	if err != nil {
		return uuid.Nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New()
	m.tasks[id] = entity.Task{
		Id:              id,
		CreatorId:       creatorId,
		Title:           input.Title,
		Description:     input.Description,
		FilePath:        input.FilePath,
		AcceptedDate:    input.AcceptedDate,
		EndDate:         input.EndDate,
		BiddingDeadline: input.BiddingDeadline,
		MinBid:          input.MinBid,
		Status:          input.Status,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	return id, nil
}

func (m *memStore) GetTaskById(ctx context.Context, id string) (*entity.Task, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &task, nil
}

func (m *memStore) EditTaskById(ctx context.Context, id string, upd *entity.EditTaskInput) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[uuidForm]
	if !ok {
		return repo_errors.ErrNotFound
	}

	if upd.Title != "" {
		task.Title = upd.Title
	}
	if upd.Description != "" {
		task.Description = upd.Description
	}
	if upd.FilePath != "" {
		task.FilePath = upd.FilePath
	}
	if upd.EndDate != nil {
		task.EndDate = *upd.EndDate
	}
	if upd.BiddingDeadline != nil {
		task.BiddingDeadline = *upd.BiddingDeadline
	}
	if upd.MinBid != nil {
		task.MinBid = *upd.MinBid
	}
	m.tasks[uuidForm] = task

	return nil
}

func (m *memStore) GetTasksByCreatorId(ctx context.Context, creatorId string, pg *entity.PaginationInput) ([]entity.Task, error) {
	uuidForm, err := uuid.Parse(creatorId)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make([]entity.Task, 0)
	for _, task := range m.tasks {
		if task.CreatorId == uuidForm {
			tasks = append(tasks, task)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].CreatedAt > tasks[j].CreatedAt })

	return paginateTasks(tasks, pg), nil
}

func (m *memStore) GetOpenTasks(ctx context.Context, now time.Time, pg *entity.PaginationInput) ([]entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make([]entity.Task, 0)
	for _, task := range m.tasks {
		if task.Status == common.Open && !task.BiddingDeadline.Before(now) {
			tasks = append(tasks, task)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].CreatedAt > tasks[j].CreatedAt })

	return paginateTasks(tasks, pg), nil
}

func (m *memStore) GetExpiredOpenTasks(ctx context.Context, now time.Time) ([]entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make([]entity.Task, 0)
	for _, task := range m.tasks {
		if task.Status == common.Open && !task.BiddingDeadline.After(now) {
			tasks = append(tasks, task)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].BiddingDeadline.Before(tasks[j].BiddingDeadline)
	})

	return tasks, nil
}

func (m *memStore) AssignTask(ctx context.Context, id string, bidId uuid.UUID, at time.Time) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failAssign[uuidForm]; ok {
		return err
	}

	task, ok := m.tasks[uuidForm]
	if !ok || task.Status != common.Open {
		return repo_errors.ErrConflict
	}

	assignedAt := at
	task.Status = common.Assigned
	task.AssignedBidId = &bidId
	task.AssignedAcceptedAt = &assignedAt
	m.tasks[uuidForm] = task

	return nil
}

func (m *memStore) UpdateTaskStatusById(ctx context.Context, id string, fromStatus string, toStatus string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[uuidForm]
	if !ok || task.Status != fromStatus {
		return repo_errors.ErrConflict
	}

	task.Status = toStatus
	m.tasks[uuidForm] = task

	return nil
}

func (m *memStore) CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error) {
	taskId, err := uuid.Parse(input.TaskId)
	if err != nil {
		return uuid.Nil, err
	}
	bidderId, err := uuid.Parse(input.BidderId)
	if err != nil {
		return uuid.Nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New()
	m.bids[id] = entity.Bid{
		Id:        id,
		TaskId:    taskId,
		BidderId:  bidderId,
		Amount:    input.Amount,
		CreatedAt: input.CreatedAt,
	}

	return id, nil
}

func (m *memStore) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	bid, ok := m.bids[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &bid, nil
}

func (m *memStore) taskBidsSorted(taskId uuid.UUID) []entity.Bid {
	bids := make([]entity.Bid, 0)
	for _, bid := range m.bids {
		if bid.TaskId == taskId {
			bids = append(bids, bid)
		}
	}
	sort.SliceStable(bids, func(i, j int) bool {
		if bids[i].Amount != bids[j].Amount {
			return bids[i].Amount < bids[j].Amount
		}
		return bids[i].CreatedAt.Before(bids[j].CreatedAt)
	})

	return bids
}

func (m *memStore) GetTaskBids(ctx context.Context, taskId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(taskId)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return paginateBids(m.taskBidsSorted(uuidForm), pg), nil
}

func (m *memStore) GetLowestBid(ctx context.Context, taskId string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(taskId)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bids := m.taskBidsSorted(uuidForm)
	if len(bids) == 0 {
		return nil, repo_errors.ErrNotFound
	}

	return &bids[0], nil
}

func (m *memStore) GetUserBids(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(bidderId)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bids := make([]entity.Bid, 0)
	for _, bid := range m.bids {
		if bid.BidderId == uuidForm {
			bids = append(bids, bid)
		}
	}
	sort.SliceStable(bids, func(i, j int) bool { return bids[i].CreatedAt.After(bids[j].CreatedAt) })

	return paginateBids(bids, pg), nil
}

func (m *memStore) CountTaskBids(ctx context.Context, taskId string) (int, error) {
	uuidForm, err := uuid.Parse(taskId)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, bid := range m.bids {
		if bid.TaskId == uuidForm {
			count++
		}
	}

	return count, nil
}

func paginateTasks(tasks []entity.Task, pg *entity.PaginationInput) []entity.Task {
	if pg.Offset >= len(tasks) {
		return []entity.Task{}
	}
	tasks = tasks[pg.Offset:]
	if pg.Limit < len(tasks) {
		tasks = tasks[:pg.Limit]
	}

	return tasks
}

func paginateBids(bids []entity.Bid, pg *entity.PaginationInput) []entity.Bid {
	if pg.Offset >= len(bids) {
		return []entity.Bid{}
	}
	bids = bids[pg.Offset:]
	if pg.Limit < len(bids) {
		bids = bids[:pg.Limit]
	}

	return bids
}

type testEnv struct {
	store *memStore
	svcs  *Services
	now   time.Time
	ctx   context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	repos := &repo.Repositories{Diagnostics: store, User: store, Task: store, Bid: store}
	svcs := NewServices(repos)

	env := &testEnv{
		store: store,
		svcs:  svcs,
		now:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		ctx:   context.Background(),
	}
	svcs.Task.(*TaskService).now = env.clock
	svcs.Bid.(*BidService).now = env.clock

	return env
}

func (e *testEnv) clock() time.Time { return e.now }

func (e *testEnv) addUser(t *testing.T, role string) string {
	t.Helper()

	id := uuid.New()
	e.store.mu.Lock()
	e.store.users[id] = entity.User{Id: id, Name: "u-" + id.String()[:8], Role: role}
	e.store.mu.Unlock()

	return id.String()
}

func (e *testEnv) addTask(t *testing.T, creatorId string, minBid float64, deadline time.Time) string {
	t.Helper()

	task, err := e.svcs.Task.CreateTask(e.ctx, &entity.CreateTaskInput{
		CreatorId:       creatorId,
		Title:           "paint the fence",
		Description:     "two coats, white",
		EndDate:         deadline.Add(48 * time.Hour),
		BiddingDeadline: deadline,
		MinBid:          minBid,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	return task.Id
}

func (e *testEnv) submitBid(t *testing.T, taskId, bidderId string, amount float64) string {
	t.Helper()

	bid, err := e.svcs.Bid.SubmitBid(e.ctx, &entity.CreateBidInput{
		TaskId:   taskId,
		BidderId: bidderId,
		Amount:   amount,
	})
	if err != nil {
		t.Fatalf("submit bid: %v", err)
	}

	return bid.Id
}

func (e *testEnv) taskStatus(t *testing.T, taskId string) (string, *uuid.UUID) {
	t.Helper()

	task, err := e.store.GetTaskById(e.ctx, taskId)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}

	return task.Status, task.AssignedBidId
}

// Every task must satisfy: assigned (or completed, which only follows
// assigned) exactly when a winning bid is recorded.
func assertAssignmentInvariant(t *testing.T, store *memStore) {
	t.Helper()

	store.mu.Lock()
	defer store.mu.Unlock()
	for id, task := range store.tasks {
		hasWinner := task.AssignedBidId != nil
		shouldHave := task.Status == common.Assigned || task.Status == common.Completed
		if hasWinner != shouldHave {
			t.Errorf("task %s: status %q with assignedBidId=%v breaks the assignment invariant", id, task.Status, task.AssignedBidId)
		}
	}
}
