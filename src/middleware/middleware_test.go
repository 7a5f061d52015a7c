package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"memo-api/src/logger"
	"memo-api/src/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	dir, err := os.MkdirTemp("", "middleware-logs")
	if err != nil {
		panic(err)
	}
	// テスト時はエラーレベルのみ
	if err := logger.InitLogger("error", dir); err != nil {
		panic(err)
	}

	code := m.Run()

	logger.CloseLogger()
	os.RemoveAll(dir)
	os.Exit(code)
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

func TestLoggerMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(middleware.LoggerMiddleware())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})
	r.GET("/error", func(c *gin.Context) {
		c.Error(assert.AnError)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/error", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		allowed       string
		origin        string
		method        string
		wantStatus    int
		wantAllowOrig string
	}{
		{
			name:          "ワイルドカードは送信元を返す",
			allowed:       "*",
			origin:        "http://localhost:3000",
			method:        http.MethodGet,
			wantStatus:    http.StatusOK,
			wantAllowOrig: "http://localhost:3000",
		},
		{
			name:          "固定オリジン",
			allowed:       "https://memo.example.com",
			origin:        "http://localhost:3000",
			method:        http.MethodGet,
			wantStatus:    http.StatusOK,
			wantAllowOrig: "https://memo.example.com",
		},
		{
			name:          "プリフライト",
			allowed:       "*",
			origin:        "http://localhost:3000",
			method:        http.MethodOptions,
			wantStatus:    http.StatusNoContent,
			wantAllowOrig: "http://localhost:3000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middleware.CORSMiddleware(tt.allowed))
			r.GET("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "ok"})
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, "/test", nil)
			req.Header.Set("Origin", tt.origin)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllowOrig, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimitMiddleware(0.001, 2))
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// 別のクライアントは独立したバケットを持つ
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.0.2.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		mockSetup  func(*MockJWTService)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "有効なトークン",
			header: "Bearer good-token",
			mockSetup: func(m *MockJWTService) {
				m.On("ValidateAccessToken", "good-token").Return("u1", nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"userId":"u1"`,
		},
		{
			name:       "ヘッダーなし",
			mockSetup:  func(*MockJWTService) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Authorization header required",
		},
		{
			name:       "Bearer以外",
			header:     "Basic abc",
			mockSetup:  func(*MockJWTService) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid authorization format",
		},
		{
			name:       "空のトークン",
			header:     "Bearer  ",
			mockSetup:  func(*MockJWTService) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Token is empty",
		},
		{
			name:   "無効なトークン",
			header: "Bearer bad-token",
			mockSetup: func(m *MockJWTService) {
				m.On("ValidateAccessToken", "bad-token").Return("", errors.New("token is expired"))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService := new(MockJWTService)
			tt.mockSetup(jwtService)

			r := gin.New()
			r.GET("/me", middleware.AuthMiddleware(jwtService), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"userId": c.GetString(middleware.UserIDKey)})
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			jwtService.AssertExpectations(t)
		})
	}
}
