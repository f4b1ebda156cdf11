package controller

import (
	"net/http"
	"time"

	"task-auction-api/internal/entity"
	"task-auction-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type taskRoutesHandler struct {
	taskService service.Task
	validate    *validator.Validate
}

func newTaskRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *taskRoutesHandler {
	h := &taskRoutesHandler{taskService: services.Task, validate: v}
	outer.POST("/tasks/new", h.PostTask)
	outer.GET("/tasks/open", h.GetOpenTasks)
	outer.GET("/tasks/my", h.GetUserTasks)
	outer.GET("/tasks/:taskId", h.GetTask)

	outer.PATCH("/tasks/:taskId/edit", h.EditTask)
	outer.PUT("/tasks/:taskId/cancel", h.CancelTask)
	outer.PUT("/tasks/:taskId/complete", h.CompleteTask)

	return h
}

type postTaskInput struct {
	UserId          string     `json:"userId" validate:"required,uuid"`
	Title           string     `json:"title" validate:"required,max=100"`
	Description     string     `json:"description" validate:"required,max=500"`
	FilePath        string     `json:"filePath" validate:"max=260"`
	AcceptedDate    *time.Time `json:"acceptedDate"`
	EndDate         time.Time  `json:"endDate" validate:"required"`
	BiddingDeadline time.Time  `json:"biddingDeadline" validate:"required"`
	MinBid          float64    `json:"minBid" validate:"gte=0"`
}

// /tasks/new
func (h *taskRoutesHandler) PostTask(c echo.Context) error {
	var input postTaskInput
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

	model := &entity.CreateTaskInput{
		CreatorId:       input.UserId,
		Title:           input.Title,
		Description:     input.Description,
		FilePath:        input.FilePath,
		AcceptedDate:    input.AcceptedDate,
		EndDate:         input.EndDate,
		BiddingDeadline: input.BiddingDeadline,
		MinBid:          input.MinBid,
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), model)
	if err == nil {
		if e := c.JSON(http.StatusCreated, task); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given id"}); e != nil {
			return e
		}
	case service.ErrNotACreator:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only creators can post tasks"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getOpenTasksInput struct {
	Limit  int32 `query:"limit" validate:"gte=0,lte=50"`
	Offset int32 `query:"offset" validate:"gte=0"`
}

// /tasks/open
func (h *taskRoutesHandler) GetOpenTasks(c echo.Context) error {
	input := getOpenTasksInput{Limit: defaultLimit, Offset: defaultOffset}
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

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	tasks, err := h.taskService.GetOpenTasks(c.Request().Context(), pg)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}

		return err
	}

	if e := c.JSON(http.StatusOK, tasks); e != nil {
		return e
	}

	return nil
}

type getUserTasksInput struct {
	UserId string `query:"userId" validate:""`
	Limit  int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset int32  `query:"offset" validate:"gte=0"`
}

// /tasks/my
func (h *taskRoutesHandler) GetUserTasks(c echo.Context) error {
	input := getUserTasksInput{Limit: defaultLimit, Offset: defaultOffset, UserId: defaultUserId}
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
	tasks, err := h.taskService.GetUserTasks(c.Request().Context(), input.UserId, pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, tasks); e != nil {
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

type getTaskInput struct {
	TaskId string `param:"taskId" validate:"required,uuid"`
}

// /tasks/:taskId
func (h *taskRoutesHandler) GetTask(c echo.Context) error {
	input := getTaskInput{TaskId: c.Param("taskId")}
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	task, err := h.taskService.GetTaskById(c.Request().Context(), input.TaskId)
	if err == nil {
		if e := c.JSON(http.StatusOK, task); e != nil {
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

type editTaskInput struct {
	TaskId          string     `param:"taskId" validate:"required,uuid"`
	UserId          string     `json:"userId" validate:"required,uuid"`
	Title           string     `json:"title" validate:"max=100"`
	Description     string     `json:"description" validate:"max=500"`
	FilePath        string     `json:"filePath" validate:"max=260"`
	EndDate         *time.Time `json:"endDate"`
	BiddingDeadline *time.Time `json:"biddingDeadline"`
	MinBid          *float64   `json:"minBid"`
}

// /tasks/:taskId/edit
func (h *taskRoutesHandler) EditTask(c echo.Context) error {
	var input editTaskInput
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

	if input.MinBid != nil && *input.MinBid < 0 {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"'minBid': should be greater or equal than 0"}); e != nil {
			return e
		}

		return nil
	}

	upd := &entity.EditTaskInput{
		Title:           input.Title,
		Description:     input.Description,
		FilePath:        input.FilePath,
		EndDate:         input.EndDate,
		BiddingDeadline: input.BiddingDeadline,
		MinBid:          input.MinBid,
	}

	task, err := h.taskService.EditTaskById(c.Request().Context(), input.TaskId, input.UserId, upd)
	if err == nil {
		if e := c.JSON(http.StatusOK, task); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrTaskNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no task with given id"}); e != nil {
			return e
		}
	case service.ErrNotTaskOwner:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the task creator can edit the task"}); e != nil {
			return e
		}
	case service.ErrTaskNotOpen:
		if e := c.JSON(http.StatusConflict, errorResponse{"Task is not open anymore"}); e != nil {
			return e
		}
	case service.ErrNoNewChanges:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"No new values passed"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type taskStatusActionInput struct {
	TaskId string `param:"taskId" validate:"required,uuid"`
	UserId string `json:"userId" validate:"required,uuid"`
}

// /tasks/:taskId/cancel
func (h *taskRoutesHandler) CancelTask(c echo.Context) error {
	var input taskStatusActionInput
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

	task, err := h.taskService.CancelTask(c.Request().Context(), input.TaskId, input.UserId)
	if err == nil {
		if e := c.JSON(http.StatusOK, task); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrTaskNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no task with given id"}); e != nil {
			return e
		}
	case service.ErrNotTaskOwner:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the task creator can cancel the task"}); e != nil {
			return e
		}
	case service.ErrTaskNotOpen:
		if e := c.JSON(http.StatusConflict, errorResponse{"Task is not open anymore"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /tasks/:taskId/complete
func (h *taskRoutesHandler) CompleteTask(c echo.Context) error {
	var input taskStatusActionInput
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

	task, err := h.taskService.CompleteTask(c.Request().Context(), input.TaskId, input.UserId)
	if err == nil {
		if e := c.JSON(http.StatusOK, task); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrTaskNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no task with given id"}); e != nil {
			return e
		}
	case service.ErrNotTaskOwner:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the task creator can complete the task"}); e != nil {
			return e
		}
	case service.ErrTaskNotAssigned:
		if e := c.JSON(http.StatusConflict, errorResponse{"Task is not assigned"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
