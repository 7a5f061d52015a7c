package domain

import (
	"time"
)

// Role ユーザーの権限
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User ユーザーモデル
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser 公開用ユーザー情報（パスワードハッシュを除外）
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Owner メモ一覧で結合する所有者の表示名
type Owner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ToPublic センシティブな情報を除外したPublicUserを返す
func (u *User) ToPublic() *PublicUser {
	return &PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// ToOwner 所有者情報を返す
func (u *User) ToOwner() *Owner {
	return &Owner{ID: u.ID, Name: u.Name}
}

// IsValid validates if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}
