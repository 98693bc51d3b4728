package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"main/dto"
	"main/model"
	"main/repository"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type TodosHandler struct {
	service *usecase.TodosService
}

func NewTodosHandler(service *usecase.TodosService) *TodosHandler {
	return &TodosHandler{service: service}
}

func (h *TodosHandler) CreateTodo(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		TodoName    string         `json:"todo_name" binding:"required"`
		Description string         `json:"description"`
		Priority    model.Priority `json:"priority"`
		Tags        []string       `json:"tags"`
		DueDate     time.Time      `json:"due_date"`
		ReminderAt  time.Time      `json:"reminder_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	todo := &model.Todos{
		UserID:      userID.(string),
		TodoName:    req.TodoName,
		Description: req.Description,
		Priority:    req.Priority,
		Tags:        req.Tags,
		DueDate:     req.DueDate,
		ReminderAt:  req.ReminderAt,
	}

	if err := h.service.CreateTodo(c.Request.Context(), todo); err != nil {
		if strings.Contains(err.Error(), "invalid priority level") ||
			strings.Contains(err.Error(), "cannot exceed 5 tags") ||
			strings.Contains(err.Error(), "tag cannot exceed 20 characters") ||
			strings.Contains(err.Error(), "cannot be in the past") ||
			strings.Contains(err.Error(), "cannot be after due date") {
			utils.BadRequest(c, err.Error())
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Created(c, dto.ToTodoResponse(todo))
}

func (h *TodosHandler) GetUserTodos(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	todos, err := h.service.GetUserTodos(c.Request.Context(), userID.(string))
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, dto.ToTodoResponses(todos))
}

func (h *TodosHandler) UpdateTodo(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var updates model.Todos
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	todo, err := h.service.UpdateTodo(c.Request.Context(), c.Param("id"), userID.(string), &updates)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Todo not found")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, dto.ToTodoResponse(todo))
}

func (h *TodosHandler) DeleteTodo(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	if err := h.service.DeleteTodo(c.Request.Context(), c.Param("id"), userID.(string)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Todo not found")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Todo deleted successfully"})
}

func (h *TodosHandler) ToggleTodoComplete(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	todo, err := h.service.ToggleTodoComplete(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Todo not found")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, dto.ToTodoResponse(todo))
}

func (h *TodosHandler) SearchTodos(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	todos, err := h.service.SearchTodos(c.Request.Context(), userID.(string), c.Query("q"))
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, dto.ToTodoResponses(todos))
}

func (h *TodosHandler) GetOverdueTodos(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	todos, err := h.service.GetOverdueTodos(c.Request.Context(), userID.(string))
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, dto.ToTodoResponses(todos))
}

func (h *TodosHandler) GetUpcomingTodos(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 {
		utils.BadRequest(c, "Invalid days parameter, must be positive")
		return
	}

	todos, err := h.service.GetUpcomingTodos(c.Request.Context(), userID.(string), days)
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, dto.ToTodoResponses(todos))
}

func (h *TodosHandler) GetUserTags(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	tags, err := h.service.GetUserTags(c.Request.Context(), userID.(string))
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, tags)
}

func (h *TodosHandler) GetTodoStats(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	stats, err := h.service.GetTodoStats(c.Request.Context(), userID.(string))
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, stats)
}
