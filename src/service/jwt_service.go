package service

import (
	"errors"
	"fmt"
	"time"

	"memo-api/src/config"

	"github.com/golang-jwt/jwt/v5"
)

// ErrJWTSecretMissing JWT_SECRETが設定されていない
var ErrJWTSecretMissing = errors.New("JWT_SECRET is not defined")

// JWTClaims JWT内のカスタムクレーム
type JWTClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// JWTService JWT管理サービスのインターフェース
type JWTService interface {
	GenerateAccessToken(userID string) (string, error)
	ValidateAccessToken(tokenString string) (string, error)
}

// jwtService JWT管理サービスの実装
type jwtService struct {
	config config.AuthConfig
}

// NewJWTService JWT管理サービスを作成
func NewJWTService(cfg config.AuthConfig) JWTService {
	return &jwtService{config: cfg}
}

// GenerateAccessToken アクセストークンを生成
func (s *jwtService) GenerateAccessToken(userID string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", ErrJWTSecretMissing
	}

	now := time.Now()
	claims := &JWTClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.JWTExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "memo-api",
			Subject:   fmt.Sprintf("user:%s", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// ValidateAccessToken アクセストークンを検証してユーザーIDを返す
func (s *jwtService) ValidateAccessToken(tokenString string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", ErrJWTSecretMissing
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid && claims.UserID != "" {
		return claims.UserID, nil
	}

	return "", fmt.Errorf("invalid access token")
}
