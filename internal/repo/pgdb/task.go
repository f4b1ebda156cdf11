package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"task-auction-api/internal/common"
	"task-auction-api/internal/entity"
	"task-auction-api/internal/repo/repo_errors"
	"task-auction-api/pkg/postgres"

	"github.com/google/uuid"
)

type TaskRepo struct {
	*postgres.Postgres
}

func NewTaskRepo(pgdb *postgres.Postgres) *TaskRepo {
	return &TaskRepo{pgdb}
}

const taskColumns = "task.id, task.creator_id, task.title, task.description, " +
	"coalesce(task.file_path, ''), task.accepted_date, task.end_date, task.bidding_deadline, " +
	"task.min_bid, task.status, task.assigned_bid_id, task.assigned_accepted_at, task.created_at"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*entity.Task, error) {
	var task entity.Task
	var acceptedDate, assignedAcceptedAt sql.NullTime
	var assignedBidId uuid.NullUUID
	var createdAt time.Time

	err := row.Scan(&task.Id, &task.CreatorId, &task.Title, &task.Description,
		&task.FilePath, &acceptedDate, &task.EndDate, &task.BiddingDeadline,
		&task.MinBid, &task.Status, &assignedBidId, &assignedAcceptedAt, &createdAt)
	if err != nil {
		return &task, err
	}

	if acceptedDate.Valid {
		task.AcceptedDate = &acceptedDate.Time
	}
	if assignedAcceptedAt.Valid {
		task.AssignedAcceptedAt = &assignedAcceptedAt.Time
	}
	if assignedBidId.Valid {
		task.AssignedBidId = &assignedBidId.UUID
	}
	task.CreatedAt = createdAt.Format(time.RFC3339)

	return &task, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}

	return s
}

func (r *TaskRepo) CreateTask(ctx context.Context, input *entity.CreateTaskInput) (uuid.UUID, error) {
	createTaskSql, args, _ := r.SqlBuilder.
		Insert("task").
		Columns("creator_id", "title", "description", "file_path", "accepted_date",
			"end_date", "bidding_deadline", "min_bid", "status").
		Values(input.CreatorId, input.Title, input.Description, nullableString(input.FilePath),
			input.AcceptedDate, input.EndDate, input.BiddingDeadline, input.MinBid, input.Status).
		Suffix("RETURNING id").
		ToSql()

	var taskId uuid.UUID
	err := r.Database.QueryRow(createTaskSql, args...).Scan(&taskId)
	if err != nil {
		return uuid.Nil, err
	}

	return taskId, nil
}

func (r *TaskRepo) GetTaskById(ctx context.Context, id string) (*entity.Task, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	getTaskSql, args, _ := r.SqlBuilder.
		Select(taskColumns).
		From("task").
		Where("task.id = ?", uuidForm).
		ToSql()

	task, err := scanTask(r.Database.QueryRow(getTaskSql, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return task, repo_errors.ErrNotFound
		}

		return task, err
	}

	return task, nil
}

func (r *TaskRepo) EditTaskById(ctx context.Context, id string, upd *entity.EditTaskInput) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	q := r.SqlBuilder.Update("task").Where("id = ?", uuidForm)
	if upd.Title != "" {
		q = q.Set("title", upd.Title)
	}
	if upd.Description != "" {
		q = q.Set("description", upd.Description)
	}
	if upd.FilePath != "" {
		q = q.Set("file_path", upd.FilePath)
	}
	if upd.EndDate != nil {
		q = q.Set("end_date", *upd.EndDate)
	}
	if upd.BiddingDeadline != nil {
		q = q.Set("bidding_deadline", *upd.BiddingDeadline)
	}
	if upd.MinBid != nil {
		q = q.Set("min_bid", *upd.MinBid)
	}

	editTaskSql, args, err := q.ToSql()
	if err != nil {
		return err
	}

	res, err := r.Database.Exec(editTaskSql, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *TaskRepo) GetTasksByCreatorId(ctx context.Context, creatorId string, pg *entity.PaginationInput) ([]entity.Task, error) {
	uuidForm, err := uuid.Parse(creatorId)
	if err != nil {
		return nil, err
	}

	getTasksSql, args, _ := r.SqlBuilder.
		Select(taskColumns).
		From("task").
		Where("creator_id = ?", uuidForm).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryTasks(getTasksSql, args)
}

func (r *TaskRepo) GetOpenTasks(ctx context.Context, now time.Time, pg *entity.PaginationInput) ([]entity.Task, error) {
	getOpenTasksSql, args, _ := r.SqlBuilder.
		Select(taskColumns).
		From("task").
		Where("status = ?", common.Open).
		Where("bidding_deadline >= ?", now).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryTasks(getOpenTasksSql, args)
}

func (r *TaskRepo) GetExpiredOpenTasks(ctx context.Context, now time.Time) ([]entity.Task, error) {
	getExpiredSql, args, _ := r.SqlBuilder.
		Select(taskColumns).
		From("task").
		Where("status = ?", common.Open).
		Where("bidding_deadline <= ?", now).
		OrderBy("bidding_deadline ASC").
		ToSql()

	return r.queryTasks(getExpiredSql, args)
}

func (r *TaskRepo) queryTasks(sqlReq string, args []interface{}) ([]entity.Task, error) {
	rows, err := r.Database.Query(sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]entity.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return tasks, err
		}
		tasks = append(tasks, *task)
	}
	if err = rows.Err(); err != nil {
		return tasks, err
	}

	return tasks, nil
}

func (r *TaskRepo) AssignTask(ctx context.Context, id string, bidId uuid.UUID, at time.Time) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	assignSql, args, _ := r.SqlBuilder.
		Update("task").
		Set("status", common.Assigned).
		Set("assigned_bid_id", bidId).
		Set("assigned_accepted_at", at).
		Where("id = ?", uuidForm).
		Where("status = ?", common.Open).
		ToSql()

	res, err := r.Database.Exec(assignSql, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrConflict
	}

	return nil
}

func (r *TaskRepo) UpdateTaskStatusById(ctx context.Context, id string, fromStatus string, toStatus string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	updateStatusSql, args, _ := r.SqlBuilder.
		Update("task").
		Set("status", toStatus).
		Where("id = ?", uuidForm).
		Where("status = ?", fromStatus).
		ToSql()

	res, err := r.Database.Exec(updateStatusSql, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrConflict
	}

	return nil
}
