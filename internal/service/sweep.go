package service

import (
	"context"
	"errors"
	"log"
	"time"

	"task-auction-api/internal/repo"
)

type SweepService struct {
	taskRepo repo.Task
	bidRepo  repo.Bid
}

func NewSweepService(repos *repo.Repositories) *SweepService {
	return &SweepService{
		taskRepo: repos.Task,
		bidRepo:  repos.Bid,
	}
}

// RunClosureSweep assigns the lowest bid on every open task whose
// bidding deadline is at or before now. Each task is an independent
// unit: a failure on one is logged and the iteration continues. Tasks
// with no bids stay open and are picked up again on the next sweep.
// Returns the number of tasks actually transitioned.
func (s *SweepService) RunClosureSweep(ctx context.Context, now time.Time) (int, error) {
	tasks, err := s.taskRepo.GetExpiredOpenTasks(ctx, now)
	if err != nil {
		return 0, err
	}

	assigned := 0
	for _, task := range tasks {
		if _, err := assignLowestBid(ctx, s.taskRepo, s.bidRepo, &task, now); err != nil {
			switch {
			case errors.Is(err, ErrNoBids):
				// stays open; the creator may still cancel it
			case errors.Is(err, ErrTaskNotOpen):
				// lost the race to a manual accept, nothing to do
			default:
				log.Printf("closure sweep: task %s: %v", task.Id, err)
			}

			continue
		}

		assigned++
	}

	return assigned, nil
}
