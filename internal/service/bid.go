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

type BidService struct {
	bidRepo  repo.Bid
	taskRepo repo.Task
	userRepo repo.User
	now      func() time.Time
}

func NewBidService(repos *repo.Repositories) *BidService {
	return &BidService{
		bidRepo:  repos.Bid,
		taskRepo: repos.Task,
		userRepo: repos.User,
		now:      time.Now,
	}
}

// SubmitBid appends a bid to the task's ledger. Preconditions run in a
// fixed order and the first failure wins; the task itself is never
// mutated here.
func (s *BidService) SubmitBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error) {
	task, err := s.taskRepo.GetTaskById(ctx, input.TaskId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		return nil, err
	}

	if task.Status != common.Open {
		return nil, ErrTaskNotOpen
	}

	// The boundary is exclusive on the accepting side: a bid arriving at
	// the deadline instant is already too late.
	now := s.now()
	if !now.Before(task.BiddingDeadline) {
		return nil, ErrBiddingClosed
	}

	role, err := s.userRepo.GetUserRoleById(ctx, input.BidderId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}
	if role != common.BidderRole {
		return nil, ErrNotABidder
	}

	if input.Amount < task.MinBid {
		return nil, ErrBidTooLow
	}

	input.CreatedAt = now
	id, err := s.bidRepo.CreateBid(ctx, input)
	if err != nil {
		return nil, err
	}

	bid, err := s.bidRepo.GetBidById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapBid(bid), nil
}

func (s *BidService) GetTaskBids(ctx context.Context, taskId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	_, err := s.taskRepo.GetTaskById(ctx, taskId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		return nil, err
	}

	bids, err := s.bidRepo.GetTaskBids(ctx, taskId, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

func (s *BidService) GetLowestBid(ctx context.Context, taskId string) (*entity.BidOutputModel, error) {
	_, err := s.taskRepo.GetTaskById(ctx, taskId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		return nil, err
	}

	lowest, err := s.bidRepo.GetLowestBid(ctx, taskId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrNoBids
		}

		return nil, err
	}

	return mapBid(lowest), nil
}

func (s *BidService) GetUserBids(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	exists, err := s.userRepo.DoesUserExistById(ctx, bidderId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	bids, err := s.bidRepo.GetUserBids(ctx, bidderId, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

// AcceptBid is the creator's manual acceptance. The chosen bid doesn't
// have to be the lowest one, and the bidding deadline doesn't have to
// have passed: while the task is open the creator may take any bid.
func (s *BidService) AcceptBid(ctx context.Context, taskId string, bidId string, callerId string) (*entity.AssignmentOutputModel, error) {
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

	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}
	if bid.TaskId != task.Id {
		return nil, ErrBidNotFound
	}

	if err := s.taskRepo.AssignTask(ctx, taskId, bid.Id, s.now()); err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrTaskNotOpen
		}

		return nil, err
	}

	task, err = s.taskRepo.GetTaskById(ctx, taskId)
	if err != nil {
		return nil, err
	}

	return mapAssignment(task, bid), nil
}

// AcceptLowestBid is the explicit "close the auction now" entry point.
// Unlike the manual AcceptBid it refuses to run while bidding is still
// ongoing.
func (s *BidService) AcceptLowestBid(ctx context.Context, taskId string) (*entity.AssignmentOutputModel, error) {
	task, err := s.taskRepo.GetTaskById(ctx, taskId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		return nil, err
	}

	if task.Status != common.Open {
		return nil, ErrTaskNotOpen
	}

	now := s.now()
	if now.Before(task.BiddingDeadline) {
		return nil, ErrBiddingStillOpen
	}

	winner, err := assignLowestBid(ctx, s.taskRepo, s.bidRepo, task, now)
	if err != nil {
		return nil, err
	}

	task, err = s.taskRepo.GetTaskById(ctx, taskId)
	if err != nil {
		return nil, err
	}

	return mapAssignment(task, winner), nil
}

// assignLowestBid selects the winner (minimum amount, earliest created
// among equals) and performs the conditional open->assigned transition.
// Shared by the manual entry point and the closure sweep; the sweep
// skips the deadline precondition because it only ever sees tasks that
// are already past it.
func assignLowestBid(ctx context.Context, taskRepo repo.Task, bidRepo repo.Bid, task *entity.Task, at time.Time) (*entity.Bid, error) {
	lowest, err := bidRepo.GetLowestBid(ctx, task.Id.String())
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrNoBids
		}

		return nil, err
	}

	if err := taskRepo.AssignTask(ctx, task.Id.String(), lowest.Id, at); err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrTaskNotOpen
		}

		return nil, err
	}

	return lowest, nil
}
