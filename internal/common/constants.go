package common

// Task statuses. A task starts Open and leaves it exactly once.
const (
	Open      = "open"
	Assigned  = "assigned"
	Completed = "completed"
	Canceled  = "canceled"
)

// User roles.
const (
	CreatorRole = "creator"
	BidderRole  = "bidder"
)
