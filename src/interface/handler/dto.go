package handler

import (
	"memo-api/src/domain"
	"memo-api/src/usecase"
)

// CreateMemoFormDTO represents the non-file fields of a memo upload.
// Field rules are enforced by domain.NewMemo in their documented order.
type CreateMemoFormDTO struct {
	UserID          string `form:"userId" json:"userId"`
	Title           string `form:"title" json:"title"`
	MemoType        string `form:"memoType" json:"memoType"`
	Description     string `form:"description" json:"description"`
	AdditionalNotes string `form:"additionalNotes" json:"additionalNotes"`
}

func (d CreateMemoFormDTO) toDraft() domain.MemoDraft {
	return domain.MemoDraft{
		UserID:          d.UserID,
		Title:           d.Title,
		MemoType:        d.MemoType,
		Description:     d.Description,
		AdditionalNotes: d.AdditionalNotes,
	}
}

// RegisterRequestDTO represents HTTP request for registering a user
type RegisterRequestDTO struct {
	Name     string `json:"name" validate:"omitempty,max=100,safe_text"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"omitempty,max=72"`
	Role     string `json:"role" validate:"omitempty,max=16"`
}

func (d RegisterRequestDTO) toUsecase() usecase.RegisterRequest {
	return usecase.RegisterRequest{
		Name:     d.Name,
		Email:    d.Email,
		Password: d.Password,
		Role:     d.Role,
	}
}

// LoginRequestDTO represents HTTP request for logging in
type LoginRequestDTO struct {
	Email    string `json:"email" validate:"omitempty,max=254"`
	Password string `json:"password" validate:"omitempty,max=72"`
}

// MemoResponseDTO represents HTTP response carrying one memo
type MemoResponseDTO struct {
	Message string       `json:"message"`
	Memo    *domain.Memo `json:"memo"`
}

// MemoListResponseDTO represents HTTP response carrying a list of memos
type MemoListResponseDTO struct {
	Message string        `json:"message"`
	Memos   []domain.Memo `json:"memos"`
}

// VoiceMemoListResponseDTO represents HTTP response for a user's voice memos
type VoiceMemoListResponseDTO struct {
	Message string                    `json:"message"`
	Memos   []domain.VoiceMemoSummary `json:"memos"`
}

// AllMemosResponseDTO represents HTTP response for every memo split by type
type AllMemosResponseDTO struct {
	Message    string                 `json:"message"`
	TextMemos  []domain.MemoWithOwner `json:"textMemos"`
	VoiceMemos []domain.MemoWithOwner `json:"voiceMemos"`
}

// MemoCountResponseDTO represents HTTP response for the memo count
type MemoCountResponseDTO struct {
	Message    string `json:"message"`
	TotalMemos int    `json:"totalMemos"`
}

// UserDeletionResponseDTO represents HTTP response for deleting a user with their memos
type UserDeletionResponseDTO struct {
	Message      string        `json:"message"`
	DeletedUser  *domain.User  `json:"deletedUser"`
	DeletedMemos []domain.Memo `json:"deletedMemos"`
	DeletedCount int           `json:"deletedCount"`
}

// AuthResponseDTO represents HTTP response for register and login
type AuthResponseDTO struct {
	Message string             `json:"message,omitempty"`
	User    *domain.PublicUser `json:"user"`
	Token   string             `json:"token"`
}

// UserResponseDTO represents HTTP response carrying one user
type UserResponseDTO struct {
	Message string             `json:"message"`
	User    *domain.PublicUser `json:"user"`
}

// UserListResponseDTO represents HTTP response carrying users
type UserListResponseDTO struct {
	Message string        `json:"message"`
	Users   []domain.User `json:"users"`
}

// UserCountResponseDTO represents HTTP response for the user count
type UserCountResponseDTO struct {
	Message    string `json:"message"`
	TotalUsers int    `json:"totalUsers"`
}

// CurrentUserResponseDTO represents HTTP response for the authenticated user
type CurrentUserResponseDTO struct {
	UserID string `json:"userId"`
}
