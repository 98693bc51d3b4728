package handler

import (
	"errors"
	"strings"

	"main/dto"
	"main/middleware"
	"main/model"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type UsersHandler struct {
	users    *usecase.UserService
	sessions *repository.SessionRepo
}

func NewUsersHandler(users *usecase.UserService, sessions *repository.SessionRepo) *UsersHandler {
	return &UsersHandler{users: users, sessions: sessions}
}

func (h *UsersHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=4,max=20"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("auth", "invalid_registration_request")
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}

	if err := h.users.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			utils.Conflict(c, "Username already taken")
			return
		}
		if strings.Contains(err.Error(), "complexity requirements") ||
			strings.Contains(err.Error(), "invalid user data") {
			utils.BadRequest(c, err.Error())
			return
		}
		utils.InternalError(c, "Failed to create user")
		return
	}

	utils.Created(c, gin.H{
		"user_id":  user.UserID,
		"username": user.Username,
	})
}

func (h *UsersHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("auth", "invalid_login_request")
		utils.TrackAuthAttempt("failure", "validation")
		utils.BadRequest(c, "Invalid request")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			utils.TrackAuthAttempt("failure", "login")
			utils.Unauthorized(c, "Invalid username or password")
			return
		}
		utils.TrackError("auth", "login_failed")
		utils.InternalError(c, "Login failed")
		return
	}

	if err := middleware.CreateSession(c, user.UserID, h.sessions); err != nil {
		utils.TrackError("auth", "session_creation_failed")
		utils.InternalError(c, "Failed to create session")
		return
	}

	accessToken, err := services.GenerateToken(user.UserID)
	if err != nil {
		utils.TrackError("auth", "token_generation_failed")
		utils.InternalError(c, "Failed to generate token")
		return
	}
	refreshToken, err := services.GenerateRefreshToken(user.UserID)
	if err != nil {
		utils.TrackError("auth", "token_generation_failed")
		utils.InternalError(c, "Failed to generate refresh token")
		return
	}

	utils.TrackAuthAttempt("success", "login")
	utils.Success(c, gin.H{
		"token":         accessToken,
		"refresh_token": refreshToken,
		"user": gin.H{
			"user_id":  user.UserID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

func (h *UsersHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	accessToken := strings.TrimPrefix(authHeader, "Bearer ")

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	// Body is optional; logging out with only the access token still works.
	_ = c.ShouldBindJSON(&req)

	if accessToken != "" {
		if err := services.BlacklistTokens(accessToken, req.RefreshToken); err != nil {
			utils.TrackError("auth", "token_blacklist_failed")
		}
	}

	if sessionID, err := c.Cookie("session_id"); err == nil {
		if err := h.sessions.DeleteSession(sessionID); err != nil {
			utils.TrackError("auth", "session_delete_failed")
		}
	}
	c.SetCookie("session_id", "", -1, "/", "", true, true)

	utils.Success(c, gin.H{"message": "Successfully logged out"})
}

// Refresh rotates the token pair. The presented refresh token is
// blacklisted so it cannot be replayed.
func (h *UsersHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing refresh token")
		return
	}

	if services.IsTokenBlacklisted(req.RefreshToken) {
		utils.TrackAuthAttempt("failure", "refresh")
		utils.Unauthorized(c, "Refresh token has been invalidated")
		return
	}

	userID, err := services.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}

	accessToken, err := services.GenerateToken(userID)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}
	refreshToken, err := services.GenerateRefreshToken(userID)
	if err != nil {
		utils.InternalError(c, "Failed to generate refresh token")
		return
	}

	if err := services.BlacklistTokens("", req.RefreshToken); err != nil {
		utils.TrackError("auth", "token_blacklist_failed")
	}

	utils.TrackAuthAttempt("success", "refresh")
	utils.Success(c, gin.H{
		"token":         accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *UsersHandler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "User not found")
			return
		}
		utils.InternalError(c, "Failed to fetch profile")
		return
	}

	links := map[string]dto.UserLink{
		"self":            {Href: "/api/profile", Method: "GET"},
		"change_password": {Href: "/api/profile/password", Method: "PUT"},
		"change_email":    {Href: "/api/profile/email", Method: "PUT"},
		"sessions":        {Href: "/api/sessions", Method: "GET"},
	}
	utils.Success(c, dto.ToUserProfileResponse(user, links))
}

func (h *UsersHandler) ChangePassword(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	err := h.users.ChangePassword(c.Request.Context(), userID.(string), req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			utils.Unauthorized(c, "Incorrect password")
		case errors.Is(err, repository.ErrNotFound):
			utils.NotFound(c, "User not found")
		default:
			utils.BadRequest(c, err.Error())
		}
		return
	}

	// Password changed; force re-authentication everywhere else.
	if err := h.sessions.EndAllUserSessions(userID.(string)); err != nil {
		utils.TrackError("auth", "session_invalidation_failed")
	}

	utils.Success(c, gin.H{"message": "Password changed successfully"})
}

func (h *UsersHandler) ChangeEmail(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req model.ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.users.ChangeEmail(c.Request.Context(), userID.(string), req.NewEmail); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			utils.NotFound(c, "User not found")
		default:
			utils.BadRequest(c, err.Error())
		}
		return
	}

	utils.Success(c, gin.H{"message": "Email changed successfully"})
}

func (h *UsersHandler) DeleteUser(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), userID.(string)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "User not found")
			return
		}
		utils.InternalError(c, "Failed to delete user")
		return
	}

	if err := h.sessions.EndAllUserSessions(userID.(string)); err != nil {
		utils.TrackError("auth", "session_invalidation_failed")
	}
	c.SetCookie("session_id", "", -1, "/", "", true, true)

	utils.Success(c, gin.H{"message": "Account deleted"})
}
