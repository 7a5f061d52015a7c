package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"memo-api/src/domain"
)

// AllMemos represents every memo split by type, each joined with its owner
type AllMemos struct {
	TextMemos  []domain.MemoWithOwner `json:"textMemos"`
	VoiceMemos []domain.MemoWithOwner `json:"voiceMemos"`
}

// UserDeletion represents the result of removing a user and all of their memos
type UserDeletion struct {
	DeletedMemos []domain.Memo `json:"deletedMemos"`
	DeletedUser  *domain.User  `json:"deletedUser"`
}

// MemoUsecase defines the interface for memo lifecycle operations
type MemoUsecase interface {
	CreateMemo(ctx context.Context, draft domain.MemoDraft, files []domain.UploadedFile) (*domain.Memo, error)
	ListAll(ctx context.Context) (*AllMemos, error)
	ListVoiceAll(ctx context.Context) ([]domain.Memo, error)
	ListByUser(ctx context.Context, userID string, memoType domain.MemoType) ([]domain.Memo, error)
	ListVoiceByUser(ctx context.Context, userID string) ([]domain.VoiceMemoSummary, error)
	ViewMemo(ctx context.Context, id string) (*domain.Memo, error)
	CountMemos(ctx context.Context) (int, error)
	DeleteMemo(ctx context.Context, id string, memoType domain.MemoType) (*domain.Memo, error)
	DeleteUserWithMemos(ctx context.Context, userID string) (*UserDeletion, error)
}

type memoUsecase struct {
	memoRepo domain.MemoRepository
	userRepo domain.UserRepository
	now      func() time.Time
}

// NewMemoUsecase creates a new memo usecase
func NewMemoUsecase(memoRepo domain.MemoRepository, userRepo domain.UserRepository) MemoUsecase {
	return &memoUsecase{
		memoRepo: memoRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// CreateMemo validates the draft and persists the normalized memo
func (u *memoUsecase) CreateMemo(ctx context.Context, draft domain.MemoDraft, files []domain.UploadedFile) (*domain.Memo, error) {
	memo, err := domain.NewMemo(draft, files, u.now())
	if err != nil {
		return nil, err
	}
	return u.memoRepo.Insert(ctx, memo)
}

// ListAll retrieves every text and voice memo. Empty lists are not an error.
func (u *memoUsecase) ListAll(ctx context.Context) (*AllMemos, error) {
	textMemos, err := u.memoRepo.Find(ctx, domain.FilterByType(domain.MemoTypeText))
	if err != nil {
		return nil, err
	}
	voiceMemos, err := u.memoRepo.Find(ctx, domain.FilterByType(domain.MemoTypeVoice))
	if err != nil {
		return nil, err
	}

	owners := make(map[string]*domain.Owner)
	text, err := u.withOwners(ctx, textMemos, owners)
	if err != nil {
		return nil, err
	}
	voice, err := u.withOwners(ctx, voiceMemos, owners)
	if err != nil {
		return nil, err
	}

	return &AllMemos{TextMemos: text, VoiceMemos: voice}, nil
}

// ListVoiceAll retrieves every voice memo. Unlike ListAll, an empty result is ErrMemoNotFound.
func (u *memoUsecase) ListVoiceAll(ctx context.Context) ([]domain.Memo, error) {
	memos, err := u.memoRepo.Find(ctx, domain.FilterByType(domain.MemoTypeVoice))
	if err != nil {
		return nil, err
	}
	if len(memos) == 0 {
		return nil, domain.ErrMemoNotFound
	}
	return memos, nil
}

// ListByUser retrieves a user's memos of one type
func (u *memoUsecase) ListByUser(ctx context.Context, userID string, memoType domain.MemoType) ([]domain.Memo, error) {
	if userID == "" {
		return nil, &domain.ValidationError{Field: "userId", Message: "userId is required."}
	}
	if !memoType.IsValid() {
		return nil, domain.ErrInvalidMemoType
	}

	memos, err := u.memoRepo.Find(ctx, domain.FilterByUserAndType(userID, memoType))
	if err != nil {
		return nil, err
	}
	if len(memos) == 0 {
		return nil, domain.ErrMemoNotFound
	}
	return memos, nil
}

// ListVoiceByUser retrieves a user's voice memos as id/title/filePath projections
func (u *memoUsecase) ListVoiceByUser(ctx context.Context, userID string) ([]domain.VoiceMemoSummary, error) {
	memos, err := u.ListByUser(ctx, userID, domain.MemoTypeVoice)
	if err != nil {
		return nil, err
	}

	result := make([]domain.VoiceMemoSummary, len(memos))
	for i := range memos {
		result[i] = memos[i].VoiceSummary()
	}
	return result, nil
}

// ViewMemo retrieves a memo by ID
func (u *memoUsecase) ViewMemo(ctx context.Context, id string) (*domain.Memo, error) {
	if id == "" {
		return nil, &domain.ValidationError{Field: "memoId", Message: "memoId is required."}
	}
	return u.memoRepo.FindByID(ctx, id)
}

// CountMemos counts memos of every type
func (u *memoUsecase) CountMemos(ctx context.Context) (int, error) {
	return u.memoRepo.Count(ctx, domain.MemoFilter{})
}

// DeleteMemo deletes a memo only if it has the expected type
func (u *memoUsecase) DeleteMemo(ctx context.Context, id string, memoType domain.MemoType) (*domain.Memo, error) {
	if id == "" {
		return nil, &domain.ValidationError{Field: "id", Message: "Memo ID is required."}
	}
	if !memoType.IsValid() {
		return nil, domain.ErrInvalidMemoType
	}
	return u.memoRepo.FindOneAndDelete(ctx, domain.FilterByIDAndType(id, memoType))
}

// DeleteUserWithMemos deletes all of a user's memos and then the user.
// Memos are removed even when the user record is already gone; only the
// missing user is reported as ErrUserNotFound.
func (u *memoUsecase) DeleteUserWithMemos(ctx context.Context, userID string) (*UserDeletion, error) {
	if userID == "" {
		return nil, &domain.ValidationError{Field: "userId", Message: "userId is required."}
	}

	deletedMemos, err := u.memoRepo.DeleteMany(ctx, domain.FilterByUser(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to delete memos of user %s: %w", userID, err)
	}

	deletedUser, err := u.userRepo.DeleteByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if deletedMemos == nil {
		deletedMemos = []domain.Memo{}
	}
	return &UserDeletion{
		DeletedMemos: deletedMemos,
		DeletedUser:  deletedUser,
	}, nil
}

// withOwners joins each memo with its owner, caching lookups across calls
func (u *memoUsecase) withOwners(ctx context.Context, memos []domain.Memo, owners map[string]*domain.Owner) ([]domain.MemoWithOwner, error) {
	result := make([]domain.MemoWithOwner, 0, len(memos))
	for _, memo := range memos {
		owner, cached := owners[memo.UserID]
		if !cached {
			user, err := u.userRepo.FindByID(ctx, memo.UserID)
			switch {
			case err == nil:
				owner = user.ToOwner()
			case errors.Is(err, domain.ErrUserNotFound):
				owner = nil
			default:
				return nil, err
			}
			owners[memo.UserID] = owner
		}
		result = append(result, domain.MemoWithOwner{Memo: memo, Owner: owner})
	}
	return result, nil
}
