package service

import (
	"context"
	"time"

	"task-auction-api/internal/entity"
	"task-auction-api/internal/repo"
)

type Diagnostics interface {
	Ping() error
}

type Task interface {
	CreateTask(ctx context.Context, input *entity.CreateTaskInput) (*entity.TaskOutputModel, error)
	GetTaskById(ctx context.Context, taskId string) (*entity.TaskOutputModel, error)
	EditTaskById(ctx context.Context, taskId string, callerId string, upd *entity.EditTaskInput) (*entity.TaskOutputModel, error)

	GetUserTasks(ctx context.Context, creatorId string, pg *entity.PaginationInput) ([]entity.TaskWithBidCountOutputModel, error)
	GetOpenTasks(ctx context.Context, pg *entity.PaginationInput) ([]entity.TaskOutputModel, error)

	CancelTask(ctx context.Context, taskId string, callerId string) (*entity.TaskOutputModel, error)
	CompleteTask(ctx context.Context, taskId string, callerId string) (*entity.TaskOutputModel, error)
}

type Bid interface {
	SubmitBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error)

	GetTaskBids(ctx context.Context, taskId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)
	GetLowestBid(ctx context.Context, taskId string) (*entity.BidOutputModel, error)
	GetUserBids(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)

	AcceptBid(ctx context.Context, taskId string, bidId string, callerId string) (*entity.AssignmentOutputModel, error)
	AcceptLowestBid(ctx context.Context, taskId string) (*entity.AssignmentOutputModel, error)
}

// Sweep closes expired open tasks by assigning their lowest bid.
type Sweep interface {
	RunClosureSweep(ctx context.Context, now time.Time) (int, error)
}

type Services struct {
	Diagnostics Diagnostics
	Task        Task
	Bid         Bid
	Sweep       Sweep
}

func NewServices(repos *repo.Repositories) *Services {
	return &Services{
		Task:        NewTaskService(repos),
		Bid:         NewBidService(repos),
		Sweep:       NewSweepService(repos),
		Diagnostics: NewDiagnosticsService(repos),
	}
}
