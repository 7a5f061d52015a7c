package memstore

import (
	"context"
	"sync"

	"memo-api/src/domain"

	"github.com/google/uuid"
)

// UserStore is an in-memory domain.UserRepository
type UserStore struct {
	mu    sync.RWMutex
	users []domain.User
}

// NewUserStore creates an empty user store
func NewUserStore() *UserStore {
	return &UserStore{}
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, domain.ErrUserAlreadyExists
		}
	}

	stored := *user
	stored.ID = uuid.NewString()
	s.users = append(s.users, stored)

	result := stored
	return &result, nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.findOne(func(u *domain.User) bool { return u.ID == id })
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(func(u *domain.User) bool { return u.Email == email })
}

func (s *UserStore) FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.User, 0)
	for _, user := range s.users {
		if user.Role == role {
			result = append(result, user)
		}
	}
	return result, nil
}

func (s *UserStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *UserStore) DeleteByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			deleted := s.users[i]
			s.users = append(s.users[:i], s.users[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) findOne(match func(*domain.User) bool) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if match(&s.users[i]) {
			user := s.users[i]
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
