package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"memo-api/src/domain"
	"memo-api/src/storage"
	"memo-api/src/usecase"
	"memo-api/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MemoHandler handles HTTP requests for memo operations
type MemoHandler struct {
	memoUsecase   usecase.MemoUsecase
	uploads       storage.UploadStore
	validator     *validator.CustomValidator
	logger        *logrus.Logger
	maxUploadSize int64
}

// NewMemoHandler creates a new memo handler
func NewMemoHandler(memoUsecase usecase.MemoUsecase, uploads storage.UploadStore, v *validator.CustomValidator, logger *logrus.Logger, maxUploadSize int64) *MemoHandler {
	return &MemoHandler{
		memoUsecase:   memoUsecase,
		uploads:       uploads,
		validator:     v,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// CreateMemo creates a text or voice memo from a multipart upload.
// Files are stored in request order before the memo is validated.
func (h *MemoHandler) CreateMemo(c *gin.Context) {
	form, files, err := h.readMemoForm(c)
	if err != nil {
		respondError(c, h.logger, memoStyle, err, "")
		return
	}

	memo, err := h.memoUsecase.CreateMemo(c.Request.Context(), form.toDraft(), files)
	if err != nil {
		respondError(c, h.logger, memoStyle, err, "")
		return
	}

	message := "Memo created successfully."
	if memo.MemoType == domain.MemoTypeVoice {
		message = "Voice Memo created successfully."
	}

	h.logger.WithFields(logrus.Fields{
		"memo_id":   memo.ID,
		"user_id":   memo.UserID,
		"memo_type": memo.MemoType.String(),
		"files":     len(files),
	}).Info("メモを作成しました")
	c.JSON(http.StatusCreated, MemoResponseDTO{Message: message, Memo: memo})
}

// readMemoForm collects form fields and streams file parts to the upload store.
// Non-multipart bodies (JSON or urlencoded) carry fields only.
func (h *MemoHandler) readMemoForm(c *gin.Context) (CreateMemoFormDTO, []domain.UploadedFile, error) {
	var form CreateMemoFormDTO

	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if mediaType != "multipart/form-data" {
		if c.Request.ContentLength == 0 {
			return form, nil, nil
		}
		if err := c.ShouldBind(&form); err != nil {
			return form, nil, &domain.ValidationError{Message: "Invalid request body."}
		}
		return form, nil, nil
	}

	reader, err := c.Request.MultipartReader()
	if err != nil {
		return form, nil, &domain.ValidationError{Message: "Invalid multipart body."}
	}

	fields := make(map[string]string)
	files := make([]domain.UploadedFile, 0)
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return form, nil, &domain.ValidationError{Message: "Invalid multipart body."}
		}

		if part.FileName() != "" {
			original := part.FileName()
			stored, err := h.uploads.Save(c.Request.Context(), original, storage.LimitReader(part, h.maxUploadSize))
			part.Close()
			if err != nil {
				return form, nil, err
			}
			files = append(files, domain.UploadedFile{OriginalName: original, StoredPath: stored})
			continue
		}

		value, err := io.ReadAll(storage.LimitReader(part, h.maxUploadSize))
		part.Close()
		if err != nil {
			return form, nil, err
		}
		// 同名フィールドは最初の値を採用する
		if _, seen := fields[part.FormName()]; !seen {
			fields[part.FormName()] = string(value)
		}
	}

	form = CreateMemoFormDTO{
		UserID:          fields["userId"],
		Title:           fields["title"],
		MemoType:        fields["memoType"],
		Description:     fields["description"],
		AdditionalNotes: fields["additionalNotes"],
	}
	return form, files, nil
}

// CountMemos counts every memo
func (h *MemoHandler) CountMemos(c *gin.Context) {
	total, err := h.memoUsecase.CountMemos(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, memoStyle, err, "")
		return
	}

	c.JSON(http.StatusOK, MemoCountResponseDTO{
		Message:    "Total memos counted successfully.",
		TotalMemos: total,
	})
}

// ListTextMemosByUser retrieves a user's text memos
func (h *MemoHandler) ListTextMemosByUser(c *gin.Context) {
	userID := c.Param("userId")
	if err := h.validator.ValidateID("userId", userID); err != nil {
		respondError(c, h.logger, memoStyle, err, "")
		return
	}

	memos, err := h.memoUsecase.ListByUser(c.Request.Context(), userID, domain.MemoTypeText)
	if err != nil {
		respondError(c, h.logger, memoStyle, err, "No memos found for this user with memoType 1.")
		return
	}

	c.JSON(http.StatusOK, MemoListResponseDTO{Message: "Memos retrieved successfully.", Memos: memos})
}

// ListVoiceMemosByUser retrieves a user's voice memos as id/title/filePath entries
func (h *MemoHandler) ListVoiceMemosByUser(c *gin.Context) {
	userID := c.Param("userId")
	if err := h.validator.ValidateID("userId", userID); err != nil {
		respondError(c, h.logger, memoStyle, err, "")
		return
	}

	memos, err := h.memoUsecase.ListVoiceByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, memoStyle, err, "No memos found for this user with memoType 2.")
		return
	}

	c.JSON(http.StatusOK, VoiceMemoListResponseDTO{Message: "Memos retrieved successfully.", Memos: memos})
}

// ViewMemo retrieves a single memo
func (h *MemoHandler) ViewMemo(c *gin.Context) {
	memoID := c.Param("memoId")
	if err := h.validator.ValidateID("memoId", memoID); err != nil {
		respondError(c, h.logger, memoStyle, err, "")
		return
	}

	memo, err := h.memoUsecase.ViewMemo(c.Request.Context(), memoID)
	if err != nil {
		respondError(c, h.logger, memoStyle, err, "Memo not found.")
		return
	}

	c.JSON(http.StatusOK, MemoResponseDTO{Message: "Memo retrieved successfully.", Memo: memo})
}

// DeleteTextMemo deletes a memo only if it is a text memo
func (h *MemoHandler) DeleteTextMemo(c *gin.Context) {
	h.deleteMemo(c, domain.MemoTypeText, "Text memo")
}

// DeleteVoiceMemo deletes a memo only if it is a voice memo
func (h *MemoHandler) DeleteVoiceMemo(c *gin.Context) {
	h.deleteMemo(c, domain.MemoTypeVoice, "Voice memo")
}

func (h *MemoHandler) deleteMemo(c *gin.Context, memoType domain.MemoType, label string) {
	id := c.Param("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		respondError(c, h.logger, memoStyle, err, "")
		return
	}

	memo, err := h.memoUsecase.DeleteMemo(c.Request.Context(), id, memoType)
	if err != nil {
		respondError(c, h.logger, memoStyle, err, label+" not found.")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"memo_id":   memo.ID,
		"memo_type": memoType.String(),
	}).Info("メモを削除しました")
	c.JSON(http.StatusOK, MemoResponseDTO{Message: label + " deleted successfully.", Memo: memo})
}
