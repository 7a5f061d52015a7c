package handler

import (
	"errors"
	"net/http"

	"memo-api/src/domain"
	"memo-api/src/storage"
	"memo-api/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// errorStyle is the error body shape of one route family
type errorStyle struct {
	key      string
	internal string
}

var (
	// メモ系ルートは {"message": ...}
	memoStyle = errorStyle{key: "message", internal: "Internal server error."}
	// 認証・ユーザー系ルートは {"error": ...}
	authStyle = errorStyle{key: "error", internal: "Server Error"}
)

// respondError maps a usecase error onto a status code and body.
// notFound overrides the body for ErrMemoNotFound and ErrUserNotFound.
func respondError(c *gin.Context, logger *logrus.Logger, style errorStyle, err error, notFound string) {
	status, message := classifyError(err, style, notFound)

	entry := logger.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"route":  c.FullPath(),
		"status": status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		c.Error(err)
		entry.Error("リクエストの処理に失敗")
	} else {
		entry.Debug("クライアントエラー")
	}

	c.JSON(status, gin.H{style.key: message})
}

func classifyError(err error, style errorStyle, notFound string) (int, string) {
	var domainErr *domain.ValidationError
	var requestErr validator.ValidationErrors

	switch {
	case errors.As(err, &domainErr):
		return http.StatusBadRequest, domainErr.Message
	case errors.As(err, &requestErr):
		return http.StatusBadRequest, requestErr.Error()
	case errors.Is(err, domain.ErrMemoNotFound):
		return http.StatusNotFound, fallback(notFound, "Memo not found.")
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, fallback(notFound, "User not found")
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid credentials"
	case errors.Is(err, storage.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "File too large."
	default:
		return http.StatusInternalServerError, style.internal
	}
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
