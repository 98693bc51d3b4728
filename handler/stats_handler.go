package handler

import (
	"main/model"
	"main/repository"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	dailies *usecase.DailiesService
	habits  *usecase.HabitsService
	todos   *usecase.TodosService
	users   *usecase.UserService
	history repository.CompletionLogStore
	session *repository.SessionRepo
}

func NewStatsHandler(
	dailies *usecase.DailiesService,
	habits *usecase.HabitsService,
	todos *usecase.TodosService,
	users *usecase.UserService,
	history repository.CompletionLogStore,
	session *repository.SessionRepo,
) *StatsHandler {
	return &StatsHandler{
		dailies: dailies,
		habits:  habits,
		todos:   todos,
		users:   users,
		history: history,
		session: session,
	}
}

// GetUserStats aggregates per-user counters across dailies, habits, todos
// and account activity.
func (h *StatsHandler) GetUserStats(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}
	ctx := c.Request.Context()
	uid := userID.(string)

	stats := &model.UserStats{}

	dailies, err := h.dailies.GetUserDailies(ctx, uid)
	if err != nil {
		utils.InternalError(c, "Failed to fetch dailies")
		return
	}
	dailyIDs := make(map[string]bool, len(dailies))
	for _, d := range dailies {
		dailyIDs[d.DailyID] = true
		stats.DailyStats.Total++
		if d.IsArchived {
			stats.DailyStats.Archived++
		}
	}

	habits, err := h.habits.GetUserHabits(ctx, uid)
	if err != nil {
		utils.InternalError(c, "Failed to fetch habits")
		return
	}
	habitIDs := make(map[string]bool, len(habits))
	for _, hb := range habits {
		habitIDs[hb.HabitID] = true
		stats.HabitStats.Total++
		if hb.IsArchived {
			stats.HabitStats.Archived++
		}
	}

	logs, err := h.history.FindByUserID(ctx, uid)
	if err != nil {
		utils.InternalError(c, "Failed to fetch history")
		return
	}
	for _, entry := range logs {
		success := entry.Status == model.LogSuccess
		switch {
		case dailyIDs[entry.EntityID]:
			if success {
				stats.DailyStats.Successes++
			} else {
				stats.DailyStats.Failures++
			}
		case habitIDs[entry.EntityID]:
			if success {
				stats.HabitStats.Successes++
			} else {
				stats.HabitStats.Failures++
			}
		}
	}

	todoStats, err := h.todos.GetTodoStats(ctx, uid)
	if err != nil {
		utils.InternalError(c, "Failed to fetch todo stats")
		return
	}
	stats.TodoStats.Total = todoStats.Total
	stats.TodoStats.Completed = todoStats.Completed
	stats.TodoStats.Pending = todoStats.Pending

	user, err := h.users.GetUser(ctx, uid)
	if err == nil {
		stats.ActivityStats.AccountCreated = user.CreatedAt
	}
	if sessions, err := h.session.GetUserActiveSessions(uid); err == nil {
		stats.ActivityStats.TotalSessions = len(sessions)
		for _, s := range sessions {
			if s.LastActivityAt.After(stats.ActivityStats.LastActive) {
				stats.ActivityStats.LastActive = s.LastActivityAt
			}
		}
	}

	utils.Success(c, stats)
}
