package entity

import (
	"time"

	"github.com/google/uuid"
)

// db model
type Task struct {
	Id                 uuid.UUID  `json:"id" db:"id"`
	CreatorId          uuid.UUID  `json:"creatorId" db:"creator_id"`
	Title              string     `json:"title" db:"title"`
	Description        string     `json:"description" db:"description"`
	FilePath           string     `json:"filePath" db:"file_path"`
	AcceptedDate       *time.Time `json:"acceptedDate" db:"accepted_date"`
	EndDate            time.Time  `json:"endDate" db:"end_date"`
	BiddingDeadline    time.Time  `json:"biddingDeadline" db:"bidding_deadline"`
	MinBid             float64    `json:"minBid" db:"min_bid"`
	Status             string     `json:"status" db:"status"`
	AssignedBidId      *uuid.UUID `json:"assignedBidId" db:"assigned_bid_id"`
	AssignedAcceptedAt *time.Time `json:"assignedAcceptedAt" db:"assigned_accepted_at"`
	CreatedAt          string     `json:"createdAt" db:"created_at"`
}

// service + repo input model
type CreateTaskInput struct {
	CreatorId       string     // given
	Title           string     // given
	Description     string     // given
	FilePath        string     // given, may be empty
	AcceptedDate    *time.Time // given, optional
	EndDate         time.Time  // given
	BiddingDeadline time.Time  // given
	MinBid          float64    // given, defaults to 0
	Status          string     // should be set: "open"
	// Id UUID sets automatically
	// CreatedAt sets automatically
}

// service + repo input model; empty fields keep their current values
type EditTaskInput struct {
	Title           string
	Description     string
	FilePath        string
	EndDate         *time.Time
	BiddingDeadline *time.Time
	MinBid          *float64
}

// controller model
type TaskOutputModel struct {
	Id                 string  `json:"id"`
	CreatorId          string  `json:"creatorId"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	FilePath           string  `json:"filePath,omitempty"`
	AcceptedDate       string  `json:"acceptedDate,omitempty"`
	EndDate            string  `json:"endDate"`
	BiddingDeadline    string  `json:"biddingDeadline"`
	MinBid             float64 `json:"minBid"`
	Status             string  `json:"status"`
	AssignedBidId      string  `json:"assignedBidId,omitempty"`
	AssignedAcceptedAt string  `json:"assignedAcceptedAt,omitempty"`
	CreatedAt          string  `json:"createdAt"`
}

// controller model for the creator dashboard list
type TaskWithBidCountOutputModel struct {
	TaskOutputModel
	BidCount int `json:"bidCount"`
}

// controller model returned by the accept operations
type AssignmentOutputModel struct {
	Task   TaskOutputModel `json:"task"`
	Winner BidOutputModel  `json:"winner"`
}
