package handler

import (
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessions *repository.SessionRepo
}

func NewSessionHandler(sessions *repository.SessionRepo) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) GetActiveSessions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	sessions, err := h.sessions.GetUserActiveSessions(userID.(string))
	if err != nil {
		utils.InternalError(c, "Failed to fetch sessions")
		return
	}

	utils.UpdateActiveSessions(float64(len(sessions)))
	utils.Success(c, gin.H{"sessions": sessions})
}

func (h *SessionHandler) LogoutAllSessions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.sessions.EndAllUserSessions(userID.(string)); err != nil {
		utils.InternalError(c, "Failed to end all sessions")
		return
	}

	c.SetCookie("session_id", "", -1, "/", "", true, true)

	utils.Success(c, gin.H{"message": "Successfully logged out of all sessions"})
}

func (h *SessionHandler) EndSession(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	sessionID := c.Param("id")
	session, err := h.sessions.GetSession(sessionID)
	if err != nil || session.UserID != userID.(string) {
		utils.NotFound(c, "Session not found")
		return
	}

	if err := h.sessions.DeleteSession(sessionID); err != nil {
		utils.InternalError(c, "Failed to end session")
		return
	}

	utils.Success(c, gin.H{"message": "Session ended"})
}
