package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/worktrack/worktrack-api/internal/core/domain"
	"github.com/worktrack/worktrack-api/internal/core/ports"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type createTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	TaskStatus  string `json:"task_status" validate:"omitempty,oneof=todo in_progress done"`
	AssignedTo  string `json:"assigned_to"`
}

type assignTaskRequest struct {
	AssignedTo string `json:"assigned_to" validate:"required"`
}

// Create adds a task to a project.
//
// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string             true  "Project id"
// @Param        body       body      createTaskRequest  true  "Task details"
// @Success      201        {object}  domain.Task
// @Failure      404        {object}  map[string]string
// @Router       /projects/{projectId}/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.Create(c.Request().Context(), authContext(c), c.Param("projectId"), ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		TaskStatus:  domain.TaskStatus(req.TaskStatus),
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

// ListByProject returns the active tasks of a project.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path     string  true  "Project id"
// @Success      200        {array}  domain.Task
// @Failure      404        {object}  map[string]string
// @Router       /projects/{projectId}/tasks [get]
func (h *TaskHandler) ListByProject(c echo.Context) error {
	tasks, err := h.taskService.ListByProject(c.Request().Context(), authContext(c), c.Param("projectId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// Assign sets the task's assignee.
//
// @Summary      Assign task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string             true  "Project id"
// @Param        taskId     path      string             true  "Task id"
// @Param        body       body      assignTaskRequest  true  "Assignee"
// @Success      200        {object}  domain.Task
// @Failure      404        {object}  map[string]string
// @Router       /projects/{projectId}/tasks/{taskId}/assign [patch]
func (h *TaskHandler) Assign(c echo.Context) error {
	var req assignTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.Assign(c.Request().Context(), authContext(c), c.Param("projectId"), c.Param("taskId"), req.AssignedTo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Delete soft-deletes a task.
//
// @Summary      Delete task
// @Tags         tasks
// @Security     BearerAuth
// @Param        projectId  path  string  true  "Project id"
// @Param        taskId     path  string  true  "Task id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /projects/{projectId}/tasks/{taskId} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	if err := h.taskService.Delete(c.Request().Context(), authContext(c), c.Param("projectId"), c.Param("taskId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
