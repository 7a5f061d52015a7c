// Package memstore provides in-process implementations of the domain
// repositories, used for local development and tests.
package memstore

import (
	"context"
	"sync"

	"memo-api/src/domain"

	"github.com/google/uuid"
)

// MemoStore is an in-memory domain.MemoRepository. Records keep insertion order.
type MemoStore struct {
	mu    sync.RWMutex
	memos []domain.Memo
}

// NewMemoStore creates an empty memo store
func NewMemoStore() *MemoStore {
	return &MemoStore{}
}

func (s *MemoStore) Insert(ctx context.Context, memo *domain.Memo) (*domain.Memo, error) {
	if err := memo.Validate(); err != nil {
		return nil, err
	}

	stored := cloneMemo(*memo)
	stored.ID = uuid.NewString()

	s.mu.Lock()
	s.memos = append(s.memos, stored)
	s.mu.Unlock()

	result := cloneMemo(stored)
	return &result, nil
}

func (s *MemoStore) Find(ctx context.Context, filter domain.MemoFilter) ([]domain.Memo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Memo, 0)
	for i := range s.memos {
		if filter.Matches(&s.memos[i]) {
			result = append(result, cloneMemo(s.memos[i]))
		}
	}
	return result, nil
}

func (s *MemoStore) FindByID(ctx context.Context, id string) (*domain.Memo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.memos {
		if s.memos[i].ID == id {
			memo := cloneMemo(s.memos[i])
			return &memo, nil
		}
	}
	return nil, domain.ErrMemoNotFound
}

func (s *MemoStore) FindOneAndDelete(ctx context.Context, filter domain.MemoFilter) (*domain.Memo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.memos {
		if filter.Matches(&s.memos[i]) {
			deleted := s.memos[i]
			s.memos = append(s.memos[:i], s.memos[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, domain.ErrMemoNotFound
}

func (s *MemoStore) DeleteMany(ctx context.Context, filter domain.MemoFilter) ([]domain.Memo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := make([]domain.Memo, 0)
	kept := s.memos[:0]
	for _, memo := range s.memos {
		if filter.Matches(&memo) {
			deleted = append(deleted, memo)
			continue
		}
		kept = append(kept, memo)
	}
	s.memos = kept
	return deleted, nil
}

func (s *MemoStore) Count(ctx context.Context, filter domain.MemoFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for i := range s.memos {
		if filter.Matches(&s.memos[i]) {
			count++
		}
	}
	return count, nil
}

func cloneMemo(m domain.Memo) domain.Memo {
	out := m
	if m.Images != nil {
		out.Images = append([]string{}, m.Images...)
	}
	if m.Description != nil {
		description := *m.Description
		out.Description = &description
	}
	if m.Audio != nil {
		audio := *m.Audio
		out.Audio = &audio
	}
	return out
}
