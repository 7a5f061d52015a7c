package handler

import (
	"errors"
	"io"
	"net/http"

	"memo-api/src/domain"
	"memo-api/src/middleware"
	"memo-api/src/usecase"
	"memo-api/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles account registration, login and user lookups
type AuthHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
	logger      *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userUsecase usecase.UserUsecase, v *validator.CustomValidator, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		userUsecase: userUsecase,
		validator:   v,
		logger:      logger,
	}
}

// Register creates an account and returns it with an access token
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WithError(err).Debug("リクエストのバインドに失敗")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondError(c, h.logger, authStyle, err, "")
		return
	}

	result, err := h.userUsecase.Register(c.Request.Context(), req.toUsecase())
	if err != nil {
		respondError(c, h.logger, authStyle, err, "")
		return
	}

	h.logger.WithField("user_id", result.User.ID).Info("ユーザーを登録しました")
	c.JSON(http.StatusCreated, AuthResponseDTO{
		Message: "User registered successfully",
		User:    result.User,
		Token:   result.Token,
	})
}

// Login verifies credentials and returns an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WithError(err).Debug("リクエストのバインドに失敗")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondError(c, h.logger, authStyle, err, "")
		return
	}

	result, err := h.userUsecase.Login(c.Request.Context(), usecase.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.logger, authStyle, err, "User not found")
		return
	}

	h.logger.WithField("user_id", result.User.ID).Info("ログインしました")
	c.JSON(http.StatusOK, AuthResponseDTO{User: result.User, Token: result.Token})
}

// GetUser retrieves a user by ID
func (h *AuthHandler) GetUser(c *gin.Context) {
	userID := c.Param("userId")
	if err := h.validator.ValidateID("userId", userID); err != nil {
		respondError(c, h.logger, authStyle, err, "")
		return
	}

	user, err := h.userUsecase.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, authStyle, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, UserResponseDTO{Message: "User retrieved successfully!", User: user.ToPublic()})
}

// CountUsers counts every user
func (h *AuthHandler) CountUsers(c *gin.Context) {
	total, err := h.userUsecase.CountUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, memoStyle, err, "")
		return
	}

	c.JSON(http.StatusOK, UserCountResponseDTO{
		Message:    "Total users counted successfully.",
		TotalUsers: total,
	})
}

// ListUsers retrieves users with the role given by the "role" query parameter
func (h *AuthHandler) ListUsers(c *gin.Context) {
	listUsers(c, h.userUsecase, h.logger)
}

// CurrentUser returns the ID of the authenticated user
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		respondError(c, h.logger, authStyle, domain.ErrUserNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, CurrentUserResponseDTO{UserID: userID})
}
