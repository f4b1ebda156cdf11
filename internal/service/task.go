package service

import (
	"context"
	"errors"
	"time"

	"task-auction-api/internal/common"
	"task-auction-api/internal/entity"
	"task-auction-api/internal/repo"
	"task-auction-api/internal/repo/repo_errors"
)

type TaskService struct {
	taskRepo repo.Task
	bidRepo  repo.Bid
	userRepo repo.User
	now      func() time.Time
}

func NewTaskService(repos *repo.Repositories) *TaskService {
	return &TaskService{
		taskRepo: repos.Task,
		bidRepo:  repos.Bid,
		userRepo: repos.User,
		now:      time.Now,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, input *entity.CreateTaskInput) (*entity.TaskOutputModel, error) {
	role, err := s.userRepo.GetUserRoleById(ctx, input.CreatorId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}
	if role != common.CreatorRole {
		return nil, ErrNotACreator
	}

	input.Status = common.Open
	id, err := s.taskRepo.CreateTask(ctx, input)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetTaskById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapTask(task), nil
}

func (s *TaskService) GetTaskById(ctx context.Context, taskId string) (*entity.TaskOutputModel, error) {
	task, err := s.taskRepo.GetTaskById(ctx, taskId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		return nil, err
	}

	return mapTask(task), nil
}

// Edits apply in place while the task is open. A raised minBid doesn't
// retroactively invalidate bids that were valid when submitted.
func (s *TaskService) EditTaskById(ctx context.Context, taskId string, callerId string, upd *entity.EditTaskInput) (*entity.TaskOutputModel, error) {
	if upd.Title == "" && upd.Description == "" && upd.FilePath == "" &&
		upd.EndDate == nil && upd.BiddingDeadline == nil && upd.MinBid == nil {
		return nil, ErrNoNewChanges
	}

	task, err := s.taskRepo.GetTaskById(ctx, taskId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		return nil, err
	}

	if task.CreatorId.String() != callerId {
		return nil, ErrNotTaskOwner
	}

	if task.Status != common.Open {
		return nil, ErrTaskNotOpen
	}

	if err := s.taskRepo.EditTaskById(ctx, taskId, upd); err != nil {
		return nil, err
	}

	task, err = s.taskRepo.GetTaskById(ctx, taskId)
	if err != nil {
		return nil, err
	}

	return mapTask(task), nil
}

func (s *TaskService) GetUserTasks(ctx context.Context, creatorId string, pg *entity.PaginationInput) ([]entity.TaskWithBidCountOutputModel, error) {
	exists, err := s.userRepo.DoesUserExistById(ctx, creatorId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	tasks, err := s.taskRepo.GetTasksByCreatorId(ctx, creatorId, pg)
	if err != nil {
		return nil, err
	}

	out := make([]entity.TaskWithBidCountOutputModel, 0)
	for _, task := range tasks {
		count, err := s.bidRepo.CountTaskBids(ctx, task.Id.String())
		if err != nil {
			return nil, err
		}
		out = append(out, entity.TaskWithBidCountOutputModel{
			TaskOutputModel: *mapTask(&task),
			BidCount:        count,
		})
	}

	return out, nil
}

// Tasks whose bidding deadline already passed are hidden from bidders
// even while the sweep hasn't picked them up yet.
func (s *TaskService) GetOpenTasks(ctx context.Context, pg *entity.PaginationInput) ([]entity.TaskOutputModel, error) {
	tasks, err := s.taskRepo.GetOpenTasks(ctx, s.now(), pg)
	if err != nil {
		return nil, err
	}

	return mapTasks(tasks), nil
}

func (s *TaskService) CancelTask(ctx context.Context, taskId string, callerId string) (*entity.TaskOutputModel, error) {
	task, err := s.taskRepo.GetTaskById(ctx, taskId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		return nil, err
	}

	if task.CreatorId.String() != callerId {
		return nil, ErrNotTaskOwner
	}

	if err := s.taskRepo.UpdateTaskStatusById(ctx, taskId, common.Open, common.Canceled); err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrTaskNotOpen
		}

		return nil, err
	}

	task, err = s.taskRepo.GetTaskById(ctx, taskId)
	if err != nil {
		return nil, err
	}

	return mapTask(task), nil
}

func (s *TaskService) CompleteTask(ctx context.Context, taskId string, callerId string) (*entity.TaskOutputModel, error) {
	task, err := s.taskRepo.GetTaskById(ctx, taskId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		return nil, err
	}

	if task.CreatorId.String() != callerId {
		return nil, ErrNotTaskOwner
	}

	if err := s.taskRepo.UpdateTaskStatusById(ctx, taskId, common.Assigned, common.Completed); err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrTaskNotAssigned
		}

		return nil, err
	}

	task, err = s.taskRepo.GetTaskById(ctx, taskId)
	if err != nil {
		return nil, err
	}

	return mapTask(task), nil
}
