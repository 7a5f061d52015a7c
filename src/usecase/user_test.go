package usecase_test

import (
	"context"
	"errors"
	"testing"

	"memo-api/src/domain"
	"memo-api/src/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserUsecase_Register(t *testing.T) {
	tests := []struct {
		name          string
		request       usecase.RegisterRequest
		mockSetup     func(*MockUserRepository, *MockPasswordHasher, *MockJWTService)
		expectedError error
		errorMsg      string
	}{
		{
			name: "登録成功",
			request: usecase.RegisterRequest{
				Name:     "Ann",
				Email:    "Ann@Example.com",
				Password: "password123",
			},
			mockSetup: func(repo *MockUserRepository, hasher *MockPasswordHasher, tokens *MockJWTService) {
				repo.On("FindByEmail", mock.Anything, "ann@example.com").Return(nil, domain.ErrUserNotFound)
				hasher.On("Hash", "password123").Return("hashed", nil)
				repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
					return u.Email == "ann@example.com" && u.PasswordHash == "hashed" && u.Role == domain.RoleUser
				})).Return(&domain.User{ID: "u1", Name: "Ann", Email: "ann@example.com", Role: domain.RoleUser}, nil)
				tokens.On("GenerateAccessToken", "u1").Return("token-u1", nil)
			},
		},
		{
			name: "必須項目が不足",
			request: usecase.RegisterRequest{
				Name:  "Ann",
				Email: "ann@example.com",
			},
			mockSetup: func(*MockUserRepository, *MockPasswordHasher, *MockJWTService) {},
			errorMsg:  "All fields are required",
		},
		{
			name: "不正なロール",
			request: usecase.RegisterRequest{
				Name:     "Ann",
				Email:    "ann@example.com",
				Password: "password123",
				Role:     "root",
			},
			mockSetup: func(*MockUserRepository, *MockPasswordHasher, *MockJWTService) {},
			errorMsg:  "Invalid role",
		},
		{
			name: "メールアドレスが重複",
			request: usecase.RegisterRequest{
				Name:     "Ann",
				Email:    "ann@example.com",
				Password: "password123",
			},
			mockSetup: func(repo *MockUserRepository, hasher *MockPasswordHasher, tokens *MockJWTService) {
				repo.On("FindByEmail", mock.Anything, "ann@example.com").Return(&domain.User{ID: "u1"}, nil)
			},
			expectedError: domain.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			hasher := new(MockPasswordHasher)
			tokens := new(MockJWTService)
			tt.mockSetup(repo, hasher, tokens)

			result, err := usecase.NewUserUsecase(repo, hasher, tokens).Register(context.Background(), tt.request)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.errorMsg != "":
				var validationErr *domain.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, tt.errorMsg, validationErr.Message)
			default:
				require.NoError(t, err)
				assert.Equal(t, "token-u1", result.Token)
				assert.Equal(t, "ann@example.com", result.User.Email)
			}
			repo.AssertExpectations(t)
			hasher.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestUserUsecase_Login(t *testing.T) {
	stored := &domain.User{ID: "u1", Email: "ann@example.com", PasswordHash: "hashed", Role: domain.RoleUser}

	t.Run("ログイン成功", func(t *testing.T) {
		repo := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		tokens := new(MockJWTService)
		repo.On("FindByEmail", mock.Anything, "ann@example.com").Return(stored, nil)
		hasher.On("Compare", "hashed", "password123").Return(true)
		tokens.On("GenerateAccessToken", "u1").Return("token-u1", nil)

		result, err := usecase.NewUserUsecase(repo, hasher, tokens).Login(context.Background(), usecase.LoginRequest{
			Email:    "ANN@example.com",
			Password: "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, "token-u1", result.Token)
		assert.Equal(t, "u1", result.User.ID)
	})

	t.Run("パスワード不一致", func(t *testing.T) {
		repo := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		tokens := new(MockJWTService)
		repo.On("FindByEmail", mock.Anything, "ann@example.com").Return(stored, nil)
		hasher.On("Compare", "hashed", "wrong").Return(false)

		_, err := usecase.NewUserUsecase(repo, hasher, tokens).Login(context.Background(), usecase.LoginRequest{
			Email:    "ann@example.com",
			Password: "wrong",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		tokens.AssertNotCalled(t, "GenerateAccessToken", mock.Anything)
	})

	t.Run("ユーザーが存在しない", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, domain.ErrUserNotFound)

		_, err := usecase.NewUserUsecase(repo, new(MockPasswordHasher), new(MockJWTService)).Login(context.Background(), usecase.LoginRequest{
			Email:    "nobody@example.com",
			Password: "x",
		})

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("入力不足", func(t *testing.T) {
		_, err := usecase.NewUserUsecase(new(MockUserRepository), new(MockPasswordHasher), new(MockJWTService)).Login(context.Background(), usecase.LoginRequest{})

		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Email and password are required", validationErr.Message)
	})

	t.Run("トークン生成失敗", func(t *testing.T) {
		repo := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		tokens := new(MockJWTService)
		repo.On("FindByEmail", mock.Anything, "ann@example.com").Return(stored, nil)
		hasher.On("Compare", "hashed", "password123").Return(true)
		tokens.On("GenerateAccessToken", "u1").Return("", errors.New("JWT_SECRET is not defined"))

		_, err := usecase.NewUserUsecase(repo, hasher, tokens).Login(context.Background(), usecase.LoginRequest{
			Email:    "ann@example.com",
			Password: "password123",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to generate access token")
	})
}

func TestUserUsecase_GetUser(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, "u1").Return(&domain.User{ID: "u1", Name: "Ann"}, nil)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, domain.ErrUserNotFound)
	uc := usecase.NewUserUsecase(repo, new(MockPasswordHasher), new(MockJWTService))

	user, err := uc.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)

	_, err = uc.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.GetUser(context.Background(), "")
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestUserUsecase_CountUsers(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("Count", mock.Anything).Return(3, nil)

	count, err := usecase.NewUserUsecase(repo, new(MockPasswordHasher), new(MockJWTService)).CountUsers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestUserUsecase_ListUsers(t *testing.T) {
	t.Run("ロール未指定はuser", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByRole", mock.Anything, domain.RoleUser).Return(nil, nil)

		users, err := usecase.NewUserUsecase(repo, new(MockPasswordHasher), new(MockJWTService)).ListUsers(context.Background(), "")

		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
		repo.AssertExpectations(t)
	})

	t.Run("管理者ロール", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByRole", mock.Anything, domain.RoleAdmin).Return([]domain.User{{ID: "a1", Role: domain.RoleAdmin}}, nil)

		users, err := usecase.NewUserUsecase(repo, new(MockPasswordHasher), new(MockJWTService)).ListUsers(context.Background(), domain.RoleAdmin)

		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}
