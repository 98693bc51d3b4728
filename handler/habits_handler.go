package handler

import (
	"errors"
	"time"

	"main/dto"
	"main/model"
	"main/recurrence"
	"main/repository"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type HabitsHandler struct {
	habits *usecase.HabitsService
}

func NewHabitsHandler(habits *usecase.HabitsService) *HabitsHandler {
	return &HabitsHandler{habits: habits}
}

func (h *HabitsHandler) CreateHabit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		Title       string           `json:"title" binding:"required"`
		Description string           `json:"description"`
		Rule        model.RepeatRule `json:"rule" binding:"required"`
		Priority    model.Priority   `json:"priority"`
		Tags        []string         `json:"tags"`
		Target      int              `json:"target"`
		StartDate   time.Time        `json:"start_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	habit := &model.Habit{
		UserID:      userID.(string),
		Title:       req.Title,
		Description: req.Description,
		Rule:        req.Rule,
		Priority:    req.Priority,
		Tags:        req.Tags,
		Target:      req.Target,
		StartDate:   req.StartDate,
	}

	if err := h.habits.CreateHabit(c.Request.Context(), habit); err != nil {
		if errors.Is(err, recurrence.ErrInvalidRule) {
			utils.BadRequest(c, err.Error())
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Created(c, dto.ToHabitResponse(habit))
}

func (h *HabitsHandler) GetUserHabits(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	habits, err := h.habits.GetUserHabits(c.Request.Context(), userID.(string))
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, dto.ToHabitResponses(habits))
}

func (h *HabitsHandler) UpdateHabit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var updates model.Habit
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	habit, err := h.habits.UpdateHabit(c.Request.Context(), userID.(string), c.Param("id"), &updates)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			utils.NotFound(c, "Habit not found")
		case errors.Is(err, recurrence.ErrInvalidRule):
			utils.BadRequest(c, err.Error())
		default:
			utils.InternalError(c, err.Error())
		}
		return
	}

	utils.Success(c, dto.ToHabitResponse(habit))
}

func (h *HabitsHandler) ArchiveHabit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	if err := h.habits.ArchiveHabit(c.Request.Context(), userID.(string), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Habit not found")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Habit archived successfully"})
}

func (h *HabitsHandler) DeleteHabit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	if err := h.habits.DeleteHabit(c.Request.Context(), userID.(string), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Habit not found")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Habit deleted successfully"})
}

// GetAvailability reports each habit's window progress without writing
// anything; missed windows are retired lazily on the next count.
func (h *HabitsHandler) GetAvailability(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	report, err := h.habits.ListAvailability(c.Request.Context(), userID.(string))
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	response := dto.HabitAvailabilityResponse{
		Available:         make([]dto.HabitAvailabilityEntry, 0, len(report.Available)),
		CompletedInWindow: make([]dto.HabitAvailabilityEntry, 0, len(report.CompletedInWindow)),
	}
	for _, status := range report.Available {
		response.Available = append(response.Available, toHabitAvailabilityEntry(status))
	}
	for _, status := range report.CompletedInWindow {
		response.CompletedInWindow = append(response.CompletedInWindow, toHabitAvailabilityEntry(status))
	}

	utils.Success(c, response)
}

func toHabitAvailabilityEntry(status usecase.HabitStatus) dto.HabitAvailabilityEntry {
	return dto.HabitAvailabilityEntry{
		Habit:           dto.ToHabitResponse(status.Habit),
		Count:           status.Count,
		Target:          status.Target,
		LastLogAt:       status.LastLogAt,
		NextAvailableAt: status.NextAvailableAt,
	}
}

// AddCount records progress against the habit's current window.
func (h *HabitsHandler) AddCount(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		Count int `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}

	period, err := h.habits.AddCount(c.Request.Context(), userID.(string), c.Param("id"), req.Count)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			utils.NotFound(c, "Habit not found")
		case errors.Is(err, usecase.ErrAlreadyCompleted):
			utils.Conflict(c, "Already completed for the current period")
		case errors.Is(err, usecase.ErrNotYetAvailable):
			utils.Conflict(c, "Not yet available")
		case errors.Is(err, recurrence.ErrInvalidRule):
			utils.BadRequest(c, err.Error())
		default:
			utils.InternalError(c, err.Error())
		}
		return
	}

	utils.Success(c, dto.ToHabitCountResponse(period))
}

// CompleteHabit fulfils the current window regardless of the count.
func (h *HabitsHandler) CompleteHabit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	habit, nextStart, err := h.habits.CompleteHabit(c.Request.Context(), userID.(string), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			utils.NotFound(c, "Habit not found")
		case errors.Is(err, usecase.ErrAlreadyCompleted):
			utils.Conflict(c, "Already completed for the current period")
		case errors.Is(err, usecase.ErrNotYetAvailable):
			utils.Conflict(c, "Not yet available")
		case errors.Is(err, recurrence.ErrInvalidRule):
			utils.BadRequest(c, err.Error())
		default:
			utils.InternalError(c, err.Error())
		}
		return
	}

	utils.Success(c, gin.H{
		"habit":             dto.ToHabitResponse(habit),
		"next_available_at": nextStart,
	})
}

func (h *HabitsHandler) GetHistory(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	logs, err := h.habits.GetHistory(c.Request.Context(), userID.(string), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Habit not found")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, dto.ToCompletionLogResponses(logs))
}
