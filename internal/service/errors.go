package service

import "errors"

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrBidNotFound  = errors.New("bid not found")
	ErrUserNotFound = errors.New("user with given id not found")

	ErrNotTaskOwner = errors.New("user is not the creator of the task")
	ErrNotACreator  = errors.New("user doesn't have the creator role")
	ErrNotABidder   = errors.New("user doesn't have the bidder role")

	ErrTaskNotOpen      = errors.New("task is not open")
	ErrTaskNotAssigned  = errors.New("task is not assigned")
	ErrBiddingClosed    = errors.New("bidding deadline has passed")
	ErrBiddingStillOpen = errors.New("bidding is still ongoing")
	ErrBidTooLow        = errors.New("bid amount is below the task minimum")
	ErrNoBids           = errors.New("no bids available for the task")

	ErrNoNewChanges = errors.New("no new values")
)
