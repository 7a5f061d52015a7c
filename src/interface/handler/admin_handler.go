package handler

import (
	"net/http"

	"memo-api/src/domain"
	"memo-api/src/usecase"
	"memo-api/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminHandler handles the administrative listing and cascade delete endpoints
type AdminHandler struct {
	memoUsecase usecase.MemoUsecase
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
	logger      *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(memoUsecase usecase.MemoUsecase, userUsecase usecase.UserUsecase, v *validator.CustomValidator, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		memoUsecase: memoUsecase,
		userUsecase: userUsecase,
		validator:   v,
		logger:      logger,
	}
}

// ListAllMemos retrieves every memo split by type, each joined with its owner
func (h *AdminHandler) ListAllMemos(c *gin.Context) {
	all, err := h.memoUsecase.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, memoStyle, err, "")
		return
	}

	c.JSON(http.StatusOK, AllMemosResponseDTO{
		Message:    "Memos retrieved successfully.",
		TextMemos:  all.TextMemos,
		VoiceMemos: all.VoiceMemos,
	})
}

// ListAllVoiceMemos retrieves every voice memo
func (h *AdminHandler) ListAllVoiceMemos(c *gin.Context) {
	memos, err := h.memoUsecase.ListVoiceAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, memoStyle, err, "No voice memos found.")
		return
	}

	c.JSON(http.StatusOK, MemoListResponseDTO{Message: "Voice memos retrieved successfully.", Memos: memos})
}

// DeleteUser deletes a user and every memo they own
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("userId")
	if err := h.validator.ValidateID("userId", userID); err != nil {
		respondError(c, h.logger, authStyle, err, "")
		return
	}

	result, err := h.memoUsecase.DeleteUserWithMemos(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, authStyle, err, "User not found")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":       userID,
		"deleted_memos": len(result.DeletedMemos),
	}).Info("ユーザーと関連メモを削除しました")
	c.JSON(http.StatusOK, UserDeletionResponseDTO{
		Message:      "User and associated memos deleted successfully",
		DeletedUser:  result.DeletedUser,
		DeletedMemos: result.DeletedMemos,
		DeletedCount: len(result.DeletedMemos),
	})
}

// ListUsers retrieves users with the role given by the "role" query parameter
func (h *AdminHandler) ListUsers(c *gin.Context) {
	listUsers(c, h.userUsecase, h.logger)
}

func listUsers(c *gin.Context, userUsecase usecase.UserUsecase, logger *logrus.Logger) {
	users, err := userUsecase.ListUsers(c.Request.Context(), domain.Role(c.Query("role")))
	if err != nil {
		respondError(c, logger, authStyle, err, "")
		return
	}

	c.JSON(http.StatusOK, UserListResponseDTO{Message: "Users retrieved successfully!", Users: users})
}
