package pgdb

import (
	"context"
	"database/sql"
	"errors"

	"task-auction-api/internal/entity"
	"task-auction-api/internal/repo/repo_errors"
	"task-auction-api/pkg/postgres"

	"github.com/google/uuid"
)

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

const bidColumns = "bid.id, bid.task_id, bid.bidder_id, bid.amount, bid.created_at"

func scanBid(row rowScanner) (*entity.Bid, error) {
	var bid entity.Bid
	err := row.Scan(&bid.Id, &bid.TaskId, &bid.BidderId, &bid.Amount, &bid.CreatedAt)

	return &bid, err
}

func (r *BidRepo) CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error) {
	createBidSql, args, _ := r.SqlBuilder.
		Insert("bid").
		Columns("task_id", "bidder_id", "amount", "created_at").
		Values(input.TaskId, input.BidderId, input.Amount, input.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	var bidId uuid.UUID
	err := r.Database.QueryRow(createBidSql, args...).Scan(&bidId)
	if err != nil {
		return uuid.Nil, err
	}

	return bidId, nil
}

func (r *BidRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	getBidSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("bid.id = ?", uuidForm).
		ToSql()

	bid, err := scanBid(r.Database.QueryRow(getBidSql, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return bid, repo_errors.ErrNotFound
		}

		return bid, err
	}

	return bid, nil
}

// Ascending by amount; equal amounts order by insertion instant, so the
// first row is always the current winner candidate.
func (r *BidRepo) GetTaskBids(ctx context.Context, taskId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(taskId)
	if err != nil {
		return nil, err
	}

	getTaskBidsSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("task_id = ?", uuidForm).
		OrderBy("amount ASC", "created_at ASC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryBids(getTaskBidsSql, args)
}

func (r *BidRepo) GetLowestBid(ctx context.Context, taskId string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(taskId)
	if err != nil {
		return nil, err
	}

	getLowestSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("task_id = ?", uuidForm).
		OrderBy("amount ASC", "created_at ASC").
		Limit(1).
		ToSql()

	bid, err := scanBid(r.Database.QueryRow(getLowestSql, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return bid, repo_errors.ErrNotFound
		}

		return bid, err
	}

	return bid, nil
}

func (r *BidRepo) GetUserBids(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(bidderId)
	if err != nil {
		return nil, err
	}

	getUserBidsSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("bidder_id = ?", uuidForm).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryBids(getUserBidsSql, args)
}

func (r *BidRepo) CountTaskBids(ctx context.Context, taskId string) (int, error) {
	uuidForm, err := uuid.Parse(taskId)
	if err != nil {
		return 0, err
	}

	countSql, args, _ := r.SqlBuilder.
		Select("count(*)").
		From("bid").
		Where("task_id = ?", uuidForm).
		ToSql()

	var count int
	if err := r.Database.QueryRow(countSql, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *BidRepo) queryBids(sqlReq string, args []interface{}) ([]entity.Bid, error) {
	rows, err := r.Database.Query(sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return bids, err
		}
		bids = append(bids, *bid)
	}
	if err = rows.Err(); err != nil {
		return bids, err
	}

	return bids, nil
}
