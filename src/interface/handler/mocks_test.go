package handler_test

import (
	"context"
	"io"

	"memo-api/src/domain"
	"memo-api/src/usecase"

	"github.com/stretchr/testify/mock"
)

// MockMemoUsecase は usecase.MemoUsecase のモック実装
type MockMemoUsecase struct {
	mock.Mock
}

func (m *MockMemoUsecase) CreateMemo(ctx context.Context, draft domain.MemoDraft, files []domain.UploadedFile) (*domain.Memo, error) {
	args := m.Called(ctx, draft, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Memo), args.Error(1)
}

func (m *MockMemoUsecase) ListAll(ctx context.Context) (*usecase.AllMemos, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AllMemos), args.Error(1)
}

func (m *MockMemoUsecase) ListVoiceAll(ctx context.Context) ([]domain.Memo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Memo), args.Error(1)
}

func (m *MockMemoUsecase) ListByUser(ctx context.Context, userID string, memoType domain.MemoType) ([]domain.Memo, error) {
	args := m.Called(ctx, userID, memoType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Memo), args.Error(1)
}

func (m *MockMemoUsecase) ListVoiceByUser(ctx context.Context, userID string) ([]domain.VoiceMemoSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VoiceMemoSummary), args.Error(1)
}

func (m *MockMemoUsecase) ViewMemo(ctx context.Context, id string) (*domain.Memo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Memo), args.Error(1)
}

func (m *MockMemoUsecase) CountMemos(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockMemoUsecase) DeleteMemo(ctx context.Context, id string, memoType domain.MemoType) (*domain.Memo, error) {
	args := m.Called(ctx, id, memoType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Memo), args.Error(1)
}

func (m *MockMemoUsecase) DeleteUserWithMemos(ctx context.Context, userID string) (*usecase.UserDeletion, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UserDeletion), args.Error(1)
}

// MockUserUsecase は usecase.UserUsecase のモック実装
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) Register(ctx context.Context, req usecase.RegisterRequest) (*usecase.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuthResult), args.Error(1)
}

func (m *MockUserUsecase) Login(ctx context.Context, req usecase.LoginRequest) (*usecase.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuthResult), args.Error(1)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUsecase) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserUsecase) ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// recordingUploadStore は保存順を記録する storage.UploadStore の実装
type recordingUploadStore struct {
	saved []string
	err   error
}

func (s *recordingUploadStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, originalName)
	return "uploads/1700000000000-" + originalName, nil
}

// MockJWTService は service.JWTService のモック実装
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateAccessToken(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateAccessToken(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}
