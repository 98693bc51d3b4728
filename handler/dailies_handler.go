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

type DailiesHandler struct {
	dailies      *usecase.DailiesService
	completion   *usecase.CompletionService
	reactivation *usecase.ReactivationService
}

func NewDailiesHandler(
	dailies *usecase.DailiesService,
	completion *usecase.CompletionService,
	reactivation *usecase.ReactivationService,
) *DailiesHandler {
	return &DailiesHandler{
		dailies:      dailies,
		completion:   completion,
		reactivation: reactivation,
	}
}

func (h *DailiesHandler) CreateDaily(c *gin.Context) {
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
		StartDate   time.Time        `json:"start_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	daily := &model.Daily{
		UserID:      userID.(string),
		Title:       req.Title,
		Description: req.Description,
		Rule:        req.Rule,
		Priority:    req.Priority,
		Tags:        req.Tags,
		StartDate:   req.StartDate,
	}

	if err := h.dailies.CreateDaily(c.Request.Context(), daily); err != nil {
		if errors.Is(err, recurrence.ErrInvalidRule) {
			utils.BadRequest(c, err.Error())
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Created(c, dto.ToDailyResponse(daily))
}

func (h *DailiesHandler) GetUserDailies(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	dailies, err := h.dailies.GetUserDailies(c.Request.Context(), userID.(string))
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, dto.ToDailyResponses(dailies))
}

func (h *DailiesHandler) GetDaily(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	daily, err := h.dailies.GetDaily(c.Request.Context(), userID.(string), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Daily not found")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, dto.ToDailyResponse(daily))
}

func (h *DailiesHandler) UpdateDaily(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var updates model.Daily
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	daily, err := h.dailies.UpdateDaily(c.Request.Context(), userID.(string), c.Param("id"), &updates)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			utils.NotFound(c, "Daily not found")
		case errors.Is(err, recurrence.ErrInvalidRule):
			utils.BadRequest(c, err.Error())
		default:
			utils.InternalError(c, err.Error())
		}
		return
	}

	utils.Success(c, dto.ToDailyResponse(daily))
}

func (h *DailiesHandler) ArchiveDaily(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	if err := h.dailies.ArchiveDaily(c.Request.Context(), userID.(string), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Daily not found")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Daily archived successfully"})
}

func (h *DailiesHandler) DeleteDaily(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	if err := h.dailies.DeleteDaily(c.Request.Context(), userID.(string), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Daily not found")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Daily deleted successfully"})
}

// CompleteDaily marks the daily done for its current window.
func (h *DailiesHandler) CompleteDaily(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	result, err := h.completion.CompleteDaily(c.Request.Context(), userID.(string), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			utils.NotFound(c, "Daily not found")
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

	utils.Success(c, dto.CompletionResponse{
		Daily:           dto.ToDailyResponse(result.Daily),
		NextAvailableAt: result.NextAvailableAt,
	})
}

// GetAvailability runs the reactivation sweep first so the report reflects
// any periods that expired since the last request.
func (h *DailiesHandler) GetAvailability(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	if _, err := h.reactivation.Reactivate(c.Request.Context(), userID.(string)); err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	report, err := h.completion.ListAvailability(c.Request.Context(), userID.(string))
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	response := dto.AvailabilityResponse{
		Available:         make([]dto.AvailabilityEntry, 0, len(report.Available)),
		CompletedInWindow: make([]dto.AvailabilityEntry, 0, len(report.CompletedInWindow)),
	}
	for _, daily := range report.Available {
		response.Available = append(response.Available, dto.AvailabilityEntry{
			Daily: dto.ToDailyResponse(daily),
		})
	}
	for _, done := range report.CompletedInWindow {
		next := done.NextAvailableAt
		response.CompletedInWindow = append(response.CompletedInWindow, dto.AvailabilityEntry{
			Daily:           dto.ToDailyResponse(done.Daily),
			NextAvailableAt: &next,
		})
	}

	utils.Success(c, response)
}

// Reactivate runs the sweep on demand.
func (h *DailiesHandler) Reactivate(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	result, err := h.reactivation.Reactivate(c.Request.Context(), userID.(string))
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, result)
}

func (h *DailiesHandler) GetHistory(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	logs, err := h.completion.GetHistory(c.Request.Context(), userID.(string), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Daily not found")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, dto.ToCompletionLogResponses(logs))
}
