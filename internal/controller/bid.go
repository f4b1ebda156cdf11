package controller

import (
	"net/http"

	"task-auction-api/internal/entity"
	"task-auction-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type bidRoutesHandler struct {
	bidService service.Bid
	validate   *validator.Validate
}

func newBidRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *bidRoutesHandler {
	h := &bidRoutesHandler{bidService: services.Bid, validate: v}
	outer.POST("/bids/new", h.PostBid)
	outer.GET("/bids/my", h.GetUserBids)
	outer.GET("/bids/:taskId/list", h.GetTaskBids)
	outer.GET("/bids/:taskId/lowest", h.GetLowestBid)

	outer.PUT("/bids/:bidId/accept", h.AcceptBid)
	outer.PUT("/tasks/:taskId/accept_lowest", h.AcceptLowestBid)

	return h
}

type postBidInput struct {
	TaskId   string  `json:"taskId" validate:"required,uuid"`
	BidderId string  `json:"bidderId" validate:"required,uuid"`
	Amount   float64 `json:"amount" validate:"gte=0"`
}

// /bids/new
func (h *bidRoutesHandler) PostBid(c echo.Context) error {
	var input postBidInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	model := &entity.CreateBidInput{
		TaskId:   input.TaskId,
		BidderId: input.BidderId,
		Amount:   input.Amount,
	}

	bid, err := h.bidService.SubmitBid(c.Request().Context(), model)
	if err == nil {
		if e := c.JSON(http.StatusCreated, bid); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrTaskNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no task with given id"}); e != nil {
			return e
		}
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given id"}); e != nil {
			return e
		}
	case service.ErrNotABidder:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only bidders can place bids"}); e != nil {
			return e
		}
	case service.ErrTaskNotOpen:
		if e := c.JSON(http.StatusConflict, errorResponse{"Task is not open for bidding"}); e != nil {
			return e
		}
	case service.ErrBiddingClosed:
		if e := c.JSON(http.StatusConflict, errorResponse{"Bidding deadline has passed"}); e != nil {
			return e
		}
	case service.ErrBidTooLow:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Bid amount is below the task minimum"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getUserBidsInput struct {
	UserId string `query:"userId" validate:""`
	Limit  int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset int32  `query:"offset" validate:"gte=0"`
}

func newGetUserBidsInput() getUserBidsInput {
	return getUserBidsInput{Limit: defaultLimit, Offset: defaultOffset, UserId: defaultUserId}
}

// /bids/my
func (h *bidRoutesHandler) GetUserBids(c echo.Context) error {
	var input = newGetUserBidsInput()
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	if input.UserId == defaultUserId {
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"Please provide your user id"}); e != nil {
			return e
		}

		return nil
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	bids, err := h.bidService.GetUserBids(c.Request().Context(), input.UserId, pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, bids); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getTaskBidsInput struct {
	TaskId string `param:"taskId" validate:"required,uuid"`
	Limit  int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset int32  `query:"offset" validate:"gte=0"`
}

func newGetTaskBidsInput() getTaskBidsInput {
	return getTaskBidsInput{
		Limit:  defaultLimit,
		Offset: defaultOffset,
	}
}

// /bids/:taskId/list
func (h *bidRoutesHandler) GetTaskBids(c echo.Context) error {
	var input = newGetTaskBidsInput()
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	input.TaskId = c.Param("taskId")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	bids, err := h.bidService.GetTaskBids(c.Request().Context(), input.TaskId, pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, bids); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrTaskNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no task with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getLowestBidInput struct {
	TaskId string `param:"taskId" validate:"required,uuid"`
}

// /bids/:taskId/lowest
func (h *bidRoutesHandler) GetLowestBid(c echo.Context) error {
	input := getLowestBidInput{TaskId: c.Param("taskId")}
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	bid, err := h.bidService.GetLowestBid(c.Request().Context(), input.TaskId)
	if err == nil {
		if e := c.JSON(http.StatusOK, bid); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrTaskNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no task with given id"}); e != nil {
			return e
		}
	case service.ErrNoBids:
		if e := c.JSON(http.StatusNotFound, errorResponse{"No bids found for the task"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type acceptBidInput struct {
	BidId  string `param:"bidId" validate:"required,uuid"`
	TaskId string `json:"taskId" validate:"required,uuid"`
	UserId string `json:"userId" validate:"required,uuid"`
}

// /bids/:bidId/accept
func (h *bidRoutesHandler) AcceptBid(c echo.Context) error {
	var input acceptBidInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	input.BidId = c.Param("bidId")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	assignment, err := h.bidService.AcceptBid(c.Request().Context(), input.TaskId, input.BidId, input.UserId)
	if err == nil {
		if e := c.JSON(http.StatusOK, assignment); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrTaskNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no task with given id"}); e != nil {
			return e
		}
	case service.ErrBidNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no such bid for the task"}); e != nil {
			return e
		}
	case service.ErrNotTaskOwner:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the task creator can accept bids"}); e != nil {
			return e
		}
	case service.ErrTaskNotOpen:
		if e := c.JSON(http.StatusConflict, errorResponse{"Task is not open, the auction already concluded"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type acceptLowestBidInput struct {
	TaskId string `param:"taskId" validate:"required,uuid"`
}

// /tasks/:taskId/accept_lowest
func (h *bidRoutesHandler) AcceptLowestBid(c echo.Context) error {
	input := acceptLowestBidInput{TaskId: c.Param("taskId")}
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	assignment, err := h.bidService.AcceptLowestBid(c.Request().Context(), input.TaskId)
	if err == nil {
		if e := c.JSON(http.StatusOK, assignment); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrTaskNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no task with given id"}); e != nil {
			return e
		}
	case service.ErrNoBids:
		if e := c.JSON(http.StatusNotFound, errorResponse{"No bids available for the task"}); e != nil {
			return e
		}
	case service.ErrBiddingStillOpen:
		if e := c.JSON(http.StatusConflict, errorResponse{"Bidding is still ongoing"}); e != nil {
			return e
		}
	case service.ErrTaskNotOpen:
		if e := c.JSON(http.StatusConflict, errorResponse{"Task is not open, the auction already concluded"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
