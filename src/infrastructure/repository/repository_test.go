package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"memo-api/src/database"
	"memo-api/src/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMemoWhere(t *testing.T) {
	tests := []struct {
		name      string
		filter    domain.MemoFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "条件なし",
			filter:    domain.MemoFilter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "型のみ",
			filter:    domain.FilterByType(domain.MemoTypeVoice),
			wantWhere: " WHERE memo_type = $1",
			wantArgs:  []interface{}{2},
		},
		{
			name:      "ユーザーと型",
			filter:    domain.FilterByUserAndType("u1", domain.MemoTypeText),
			wantWhere: " WHERE user_id = $1 AND memo_type = $2",
			wantArgs:  []interface{}{"u1", 1},
		},
		{
			name:      "IDと型",
			filter:    domain.FilterByIDAndType("m1", domain.MemoTypeText),
			wantWhere: " WHERE id = $1 AND memo_type = $2",
			wantArgs:  []interface{}{"m1", 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildMemoWhere(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

// openTestDB はTEST_DATABASE_URLが設定されている場合のみ接続してマイグレーションを適用する
func openTestDB(t *testing.T) *database.DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URLが設定されていません。統合テストをスキップします。")
	}

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)

	db := database.Wrap(sqlDB, logrus.New())
	require.NoError(t, db.Migrate(context.Background()))

	_, err = db.Exec("TRUNCATE memos, users")
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}

func TestRepositories_Integration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	logger := logrus.New()
	memos := NewMemoRepository(db, logger)
	users := NewUserRepository(db, logger)

	user, err := users.Create(ctx, &domain.User{
		Name:         "Ann",
		Email:        "ann@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleUser,
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)

	_, err = users.Create(ctx, &domain.User{Name: "Dup", Email: "ann@example.com", PasswordHash: "hash", Role: domain.RoleUser, CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	description := "milk"
	text, err := memos.Insert(ctx, &domain.Memo{
		UserID:      user.ID,
		MemoType:    domain.MemoTypeText,
		Title:       "Groceries",
		Description: &description,
		Images:      []string{"uploads/1-a.png", "uploads/2-b.png"},
		Status:      domain.StatusTextMemo,
		CreatedDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/1-a.png", "uploads/2-b.png"}, text.Images)

	audio := "uploads/3-idea.mp3"
	_, err = memos.Insert(ctx, &domain.Memo{
		UserID:      user.ID,
		MemoType:    domain.MemoTypeVoice,
		Title:       "Idea",
		Images:      []string{},
		Audio:       &audio,
		Status:      domain.StatusVoiceMemo,
		CreatedDate: time.Now(),
	})
	require.NoError(t, err)

	found, err := memos.Find(ctx, domain.FilterByUserAndType(user.ID, domain.MemoTypeVoice))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Nil(t, found[0].Description)
	assert.Empty(t, found[0].Images)

	_, err = memos.FindOneAndDelete(ctx, domain.FilterByIDAndType(text.ID, domain.MemoTypeVoice))
	assert.ErrorIs(t, err, domain.ErrMemoNotFound)

	deleted, err := memos.DeleteMany(ctx, domain.FilterByUser(user.ID))
	require.NoError(t, err)
	assert.Len(t, deleted, 2)

	count, err := memos.Count(ctx, domain.MemoFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = users.DeleteByID(ctx, user.ID)
	require.NoError(t, err)
	_, err = users.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
