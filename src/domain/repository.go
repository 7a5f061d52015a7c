package domain

import "context"

// MemoFilter selects memos. Nil fields are unconstrained.
type MemoFilter struct {
	ID       *string
	UserID   *string
	MemoType *MemoType
}

// FilterByType matches every memo of the given type
func FilterByType(t MemoType) MemoFilter {
	return MemoFilter{MemoType: &t}
}

// FilterByUser matches every memo owned by userID
func FilterByUser(userID string) MemoFilter {
	return MemoFilter{UserID: &userID}
}

// FilterByUserAndType matches memos of one type owned by userID
func FilterByUserAndType(userID string, t MemoType) MemoFilter {
	return MemoFilter{UserID: &userID, MemoType: &t}
}

// FilterByIDAndType matches a single memo only if it has the given type
func FilterByIDAndType(id string, t MemoType) MemoFilter {
	return MemoFilter{ID: &id, MemoType: &t}
}

// Matches reports whether memo satisfies every set field of the filter
func (f MemoFilter) Matches(memo *Memo) bool {
	if f.ID != nil && *f.ID != memo.ID {
		return false
	}
	if f.UserID != nil && *f.UserID != memo.UserID {
		return false
	}
	if f.MemoType != nil && *f.MemoType != memo.MemoType {
		return false
	}
	return true
}

// MemoRepository defines the document store operations for memos
type MemoRepository interface {
	Insert(ctx context.Context, memo *Memo) (*Memo, error)
	Find(ctx context.Context, filter MemoFilter) ([]Memo, error)
	FindByID(ctx context.Context, id string) (*Memo, error)
	FindOneAndDelete(ctx context.Context, filter MemoFilter) (*Memo, error)
	DeleteMany(ctx context.Context, filter MemoFilter) ([]Memo, error)
	Count(ctx context.Context, filter MemoFilter) (int, error)
}

// UserRepository defines the user directory operations
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByRole(ctx context.Context, role Role) ([]User, error)
	Count(ctx context.Context) (int, error)
	DeleteByID(ctx context.Context, id string) (*User, error)
}
