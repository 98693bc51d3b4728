package middleware

import (
	"fmt"
	"time"

	"main/model"
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	maxSessionsPerUser = utils.GetEnvAsInt("MAX_SESSIONS_PER_USER", 5)
	sessionIdleTimeout = utils.GetEnvAsDuration("SESSION_IDLE_TIMEOUT", 48*time.Hour)
	sessionLifetime    = utils.GetEnvAsDuration("SESSION_LIFETIME", 24*time.Hour)
)

func SessionMiddleware(sessionRepo *repository.SessionRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie("session_id")
		if err != nil {
			c.Next()
			return
		}

		session, err := sessionRepo.GetSession(sessionID)
		if err != nil || !session.IsActive {
			c.SetCookie("session_id", "", -1, "/", "", true, true)
			c.Next()
			return
		}

		// Check for inactivity timeout
		if time.Since(session.LastActivityAt) > sessionIdleTimeout {
			session.IsActive = false
			sessionRepo.UpdateSession(session)
			c.SetCookie("session_id", "", -1, "/", "", true, true)
			c.Next()
			return
		}

		session.LastActivityAt = time.Now()
		sessionRepo.UpdateSession(session)

		c.Set("session", session)
		c.Next()
	}
}

// CreateSession opens a named session for the user and sets the cookie.
// The per-user session cap evicts the least recently active session.
func CreateSession(c *gin.Context, userID string, sessionRepo *repository.SessionRepo) error {
	active, err := sessionRepo.CountActiveSessions(userID)
	if err != nil {
		return err
	}
	if active >= maxSessionsPerUser {
		if err := sessionRepo.EndLeastActiveSession(userID); err != nil {
			return err
		}
	}

	userAgent := c.Request.UserAgent()
	browser, os, device := utils.ParseUserAgent(userAgent)

	location, err := utils.GetLocationFromIP(c.ClientIP())
	if err != nil {
		location = ""
	}
	displayName := utils.GenerateSessionName(userAgent, location)

	session := &model.Session{
		SessionID:      uuid.New().String(),
		UserID:         userID,
		DisplayName:    displayName,
		DeviceInfo:     fmt.Sprintf("%s on %s (%s)", browser, os, device),
		CreatedAt:      time.Now(),
		ExpiresAt:      time.Now().Add(sessionLifetime),
		LastActivityAt: time.Now(),
		IPAddress:      c.ClientIP(),
		IsActive:       true,
	}

	if err := sessionRepo.CreateSession(session); err != nil {
		return err
	}

	c.SetCookie(
		"session_id",
		session.SessionID,
		int(sessionLifetime.Seconds()),
		"/",
		"",
		true,
		true,
	)

	return nil
}
