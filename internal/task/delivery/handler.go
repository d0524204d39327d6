package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itsprade/good-morning/internal/task/domain"
	"github.com/itsprade/good-morning/internal/task/usecase"
	"github.com/itsprade/good-morning/pkg/apperror"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
}

func NewTaskHandler(taskUsecase usecase.TaskUsecase) *TaskHandler {
	return &TaskHandler{taskUsecase: taskUsecase}
}

// GET /api/tasks
func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.taskUsecase.ListTasks(c.GetString("userID"))
	if err != nil {
		apperror.Respond(c, err, "Failed to fetch tasks")
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GET /api/tasks/search?q=
func (h *TaskHandler) SearchTasks(c *gin.Context) {
	tasks, err := h.taskUsecase.SearchTasks(c.GetString("userID"), c.Query("q"))
	if err != nil {
		apperror.Respond(c, err, "Failed to search tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req usecase.CreateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	task, err := h.taskUsecase.CreateTask(c.GetString("userID"), req)
	if err != nil {
		apperror.Respond(c, err, "Failed to create task")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// PATCH /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var patch usecase.TaskUpdateRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.UpdateTask(c.GetString("userID"), c.Param("id"), patch)
	if err != nil {
		apperror.Respond(c, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskUsecase.DeleteTask(c.GetString("userID"), c.Param("id")); err != nil {
		apperror.Respond(c, err, "Failed to delete task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
