package service

import (
	"time"

	"task-auction-api/internal/entity"
)

func formatInstant(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(time.RFC3339)
}

func mapTask(t *entity.Task) *entity.TaskOutputModel {
	out := &entity.TaskOutputModel{
		Id:                 t.Id.String(),
		CreatorId:          t.CreatorId.String(),
		Title:              t.Title,
		Description:        t.Description,
		FilePath:           t.FilePath,
		AcceptedDate:       formatInstant(t.AcceptedDate),
		EndDate:            t.EndDate.Format(time.RFC3339),
		BiddingDeadline:    t.BiddingDeadline.Format(time.RFC3339),
		MinBid:             t.MinBid,
		Status:             t.Status,
		AssignedAcceptedAt: formatInstant(t.AssignedAcceptedAt),
		CreatedAt:          t.CreatedAt,
	}
	if t.AssignedBidId != nil {
		out.AssignedBidId = t.AssignedBidId.String()
	}

	return out
}

func mapTasks(t []entity.Task) []entity.TaskOutputModel {
	s := make([]entity.TaskOutputModel, 0)
	for _, task := range t {
		s = append(s, *mapTask(&task))
	}

	return s
}

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	return &entity.BidOutputModel{
		Id:        b.Id.String(),
		TaskId:    b.TaskId.String(),
		BidderId:  b.BidderId.String(),
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

func mapBids(b []entity.Bid) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0)
	for _, bid := range b {
		s = append(s, *mapBid(&bid))
	}

	return s
}

func mapAssignment(t *entity.Task, winner *entity.Bid) *entity.AssignmentOutputModel {
	return &entity.AssignmentOutputModel{
		Task:   *mapTask(t),
		Winner: *mapBid(winner),
	}
}
