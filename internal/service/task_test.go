package service

import (
	"errors"
	"testing"
	"time"

	"task-auction-api/internal/common"
	"task-auction-api/internal/entity"
)

func TestCreateTaskRequiresCreatorRole(t *testing.T) {
	env := newTestEnv(t)
	bidder := env.addUser(t, common.BidderRole)

	_, err := env.svcs.Task.CreateTask(env.ctx, &entity.CreateTaskInput{
		CreatorId:       bidder,
		Title:           "t",
		Description:     "d",
		EndDate:         env.now.Add(48 * time.Hour),
		BiddingDeadline: env.now.Add(time.Hour),
	})
	if !errors.Is(err, ErrNotACreator) {
		t.Fatalf("bidder posting a task: got %v, want ErrNotACreator", err)
	}

	creator := env.addUser(t, common.CreatorRole)
	task, err := env.svcs.Task.CreateTask(env.ctx, &entity.CreateTaskInput{
		CreatorId:       creator,
		Title:           "t",
		Description:     "d",
		EndDate:         env.now.Add(48 * time.Hour),
		BiddingDeadline: env.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Status != common.Open || task.AssignedBidId != "" {
		t.Fatalf("new task: status=%s assignedBidId=%q, want open and empty", task.Status, task.AssignedBidId)
	}

	assertAssignmentInvariant(t, env.store)
}

func TestCancelThenBidRejected(t *testing.T) {
	env := newTestEnv(t)
	creator := env.addUser(t, common.CreatorRole)
	bidder := env.addUser(t, common.BidderRole)
	taskId := env.addTask(t, creator, 0, env.now.Add(time.Hour))

	task, err := env.svcs.Task.CancelTask(env.ctx, taskId, creator)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if task.Status != common.Canceled {
		t.Fatalf("status after cancel: got %s, want canceled", task.Status)
	}

	_, err = env.svcs.Bid.SubmitBid(env.ctx, &entity.CreateBidInput{TaskId: taskId, BidderId: bidder, Amount: 10})
	if !errors.Is(err, ErrTaskNotOpen) {
		t.Fatalf("bid on canceled task: got %v, want ErrTaskNotOpen", err)
	}

	// canceled is terminal
	_, err = env.svcs.Task.CancelTask(env.ctx, taskId, creator)
	if !errors.Is(err, ErrTaskNotOpen) {
		t.Fatalf("second cancel: got %v, want ErrTaskNotOpen", err)
	}
}

func TestCompleteTaskLifecycle(t *testing.T) {
	env := newTestEnv(t)
	creator := env.addUser(t, common.CreatorRole)
	bidder := env.addUser(t, common.BidderRole)
	taskId := env.addTask(t, creator, 0, env.now.Add(time.Hour))
	bidId := env.submitBid(t, taskId, bidder, 25)

	_, err := env.svcs.Task.CompleteTask(env.ctx, taskId, creator)
	if !errors.Is(err, ErrTaskNotAssigned) {
		t.Fatalf("complete before assignment: got %v, want ErrTaskNotAssigned", err)
	}

	if _, err := env.svcs.Bid.AcceptBid(env.ctx, taskId, bidId, creator); err != nil {
		t.Fatalf("accept: %v", err)
	}

	_, err = env.svcs.Task.CancelTask(env.ctx, taskId, creator)
	if !errors.Is(err, ErrTaskNotOpen) {
		t.Fatalf("cancel after assignment: got %v, want ErrTaskNotOpen", err)
	}

	task, err := env.svcs.Task.CompleteTask(env.ctx, taskId, creator)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if task.Status != common.Completed {
		t.Fatalf("status after complete: got %s, want completed", task.Status)
	}

	assertAssignmentInvariant(t, env.store)
}

// Raising minBid after bids exist doesn't invalidate them: the check
// runs at submission time only.
func TestMinBidEditDoesNotInvalidateExistingBids(t *testing.T) {
	env := newTestEnv(t)
	creator := env.addUser(t, common.CreatorRole)
	bidder := env.addUser(t, common.BidderRole)
	deadline := env.now.Add(time.Hour)
	taskId := env.addTask(t, creator, 50, deadline)
	bidId := env.submitBid(t, taskId, bidder, 60)

	raised := 100.0
	if _, err := env.svcs.Task.EditTaskById(env.ctx, taskId, creator, &entity.EditTaskInput{MinBid: &raised}); err != nil {
		t.Fatalf("edit minBid: %v", err)
	}

	env.now = deadline.Add(time.Minute)
	assignment, err := env.svcs.Bid.AcceptLowestBid(env.ctx, taskId)
	if err != nil {
		t.Fatalf("accept lowest after minBid raise: %v", err)
	}
	if assignment.Winner.Id != bidId {
		t.Fatalf("winner: got %s, want the pre-raise bid %s", assignment.Winner.Id, bidId)
	}
}

func TestEditTaskChecks(t *testing.T) {
	env := newTestEnv(t)
	creator := env.addUser(t, common.CreatorRole)
	other := env.addUser(t, common.CreatorRole)
	taskId := env.addTask(t, creator, 0, env.now.Add(time.Hour))

	_, err := env.svcs.Task.EditTaskById(env.ctx, taskId, creator, &entity.EditTaskInput{})
	if !errors.Is(err, ErrNoNewChanges) {
		t.Fatalf("empty edit: got %v, want ErrNoNewChanges", err)
	}

	_, err = env.svcs.Task.EditTaskById(env.ctx, taskId, other, &entity.EditTaskInput{Title: "new"})
	if !errors.Is(err, ErrNotTaskOwner) {
		t.Fatalf("edit by non-owner: got %v, want ErrNotTaskOwner", err)
	}

	task, err := env.svcs.Task.EditTaskById(env.ctx, taskId, creator, &entity.EditTaskInput{Title: "new"})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if task.Title != "new" || task.Description == "" {
		t.Fatalf("edit result title=%q description=%q, want updated title with description intact", task.Title, task.Description)
	}
}

func TestGetOpenTasksHidesExpired(t *testing.T) {
	env := newTestEnv(t)
	creator := env.addUser(t, common.CreatorRole)
	liveId := env.addTask(t, creator, 0, env.now.Add(time.Hour))
	env.addTask(t, creator, 0, env.now.Add(-time.Hour))

	tasks, err := env.svcs.Task.GetOpenTasks(env.ctx, entity.NewPaginationInput(50, 0))
	if err != nil {
		t.Fatalf("open tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Id != liveId {
		t.Fatalf("open tasks: got %d, want only the unexpired one", len(tasks))
	}
}

func TestGetUserTasksIncludesBidCount(t *testing.T) {
	env := newTestEnv(t)
	creator := env.addUser(t, common.CreatorRole)
	bidder := env.addUser(t, common.BidderRole)
	taskId := env.addTask(t, creator, 0, env.now.Add(time.Hour))
	env.submitBid(t, taskId, bidder, 10)
	env.submitBid(t, taskId, bidder, 20)

	tasks, err := env.svcs.Task.GetUserTasks(env.ctx, creator, entity.NewPaginationInput(50, 0))
	if err != nil {
		t.Fatalf("user tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].BidCount != 2 {
		t.Fatalf("user tasks: got %d task(s), bidCount=%d; want 1 task with 2 bids", len(tasks), tasks[0].BidCount)
	}
}
