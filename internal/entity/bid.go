package entity

import (
	"time"

	"github.com/google/uuid"
)

// db model. Bids are immutable once created.
type Bid struct {
	Id        uuid.UUID `json:"id" db:"id"`
	TaskId    uuid.UUID `json:"taskId" db:"task_id"`
	BidderId  uuid.UUID `json:"bidderId" db:"bidder_id"`
	Amount    float64   `json:"amount" db:"amount"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// service + repo input model
type CreateBidInput struct {
	TaskId    string    // given
	BidderId  string    // given
	Amount    float64   // given
	CreatedAt time.Time // should be set: submission instant
	// Id UUID sets automatically
}

// controller model
type BidOutputModel struct {
	Id        string  `json:"id"`
	TaskId    string  `json:"taskId"`
	BidderId  string  `json:"bidderId"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"createdAt"`
}
