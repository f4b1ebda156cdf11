package repo

import (
	"context"
	"time"

	"task-auction-api/internal/entity"
	"task-auction-api/internal/repo/pgdb"
	"task-auction-api/pkg/postgres"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping() error
}

type User interface {
	DoesUserExistById(ctx context.Context, id string) (bool, error)
	GetUserRoleById(ctx context.Context, id string) (string, error)
}

type Task interface {
	CreateTask(ctx context.Context, input *entity.CreateTaskInput) (uuid.UUID, error)
	GetTaskById(ctx context.Context, id string) (*entity.Task, error)
	EditTaskById(ctx context.Context, id string, upd *entity.EditTaskInput) error
	GetTasksByCreatorId(ctx context.Context, creatorId string, pg *entity.PaginationInput) ([]entity.Task, error)
	GetOpenTasks(ctx context.Context, now time.Time, pg *entity.PaginationInput) ([]entity.Task, error)
	GetExpiredOpenTasks(ctx context.Context, now time.Time) ([]entity.Task, error)

	// AssignTask performs the single atomic open->assigned transition:
	// the row is updated only if its status is still "open". Returns
	// repo_errors.ErrConflict when another caller already won.
	AssignTask(ctx context.Context, id string, bidId uuid.UUID, at time.Time) error

	// UpdateTaskStatusById conditionally moves a task from one status to
	// another, with the same ErrConflict contract as AssignTask.
	UpdateTaskStatusById(ctx context.Context, id string, fromStatus, toStatus string) error
}

type Bid interface {
	CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error)
	GetBidById(ctx context.Context, id string) (*entity.Bid, error)
	GetTaskBids(ctx context.Context, taskId string, pg *entity.PaginationInput) ([]entity.Bid, error)
	GetLowestBid(ctx context.Context, taskId string) (*entity.Bid, error)
	GetUserBids(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.Bid, error)
	CountTaskBids(ctx context.Context, taskId string) (int, error)
}

type Repositories struct {
	Diagnostics
	User
	Task
	Bid
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		User:        pgdb.NewUserRepo(p),
		Task:        pgdb.NewTaskRepo(p),
		Bid:         pgdb.NewBidRepo(p),
	}
}
