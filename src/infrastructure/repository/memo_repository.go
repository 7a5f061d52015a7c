package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"memo-api/src/database"
	"memo-api/src/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const memoColumns = "id, user_id, memo_type, title, description, images, audio, additional_notes, status, created_date"

// MemoRepository implements domain.MemoRepository on PostgreSQL
type MemoRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewMemoRepository creates a new memo repository
func NewMemoRepository(db *database.DB, logger *logrus.Logger) domain.MemoRepository {
	return &MemoRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// buildMemoWhere はフィルタからWHERE句とプレースホルダ引数を組み立てる
func buildMemoWhere(filter domain.MemoFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.ID != nil {
		args = append(args, *filter.ID)
		conditions = append(conditions, fmt.Sprintf("id = $%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.MemoType != nil {
		args = append(args, int(*filter.MemoType))
		conditions = append(conditions, fmt.Sprintf("memo_type = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanMemo(row rowScanner) (*domain.Memo, error) {
	var memo domain.Memo
	var memoType int
	var description, audio sql.NullString
	var status string

	err := row.Scan(
		&memo.ID, &memo.UserID, &memoType, &memo.Title, &description,
		pq.Array(&memo.Images), &audio, &memo.AdditionalNotes, &status, &memo.CreatedDate,
	)
	if err != nil {
		return nil, err
	}

	memo.MemoType = domain.MemoType(memoType)
	memo.Status = domain.Status(status)
	if description.Valid {
		memo.Description = &description.String
	}
	if audio.Valid {
		memo.Audio = &audio.String
	}
	if memo.Images == nil {
		memo.Images = []string{}
	}
	return &memo, nil
}

func (r *MemoRepository) queryMemos(ctx context.Context, query string, args ...interface{}) ([]domain.Memo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memos := make([]domain.Memo, 0)
	for rows.Next() {
		memo, err := scanMemo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memo: %w", err)
		}
		memos = append(memos, *memo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return memos, nil
}

// Insert validates and stores a memo under a fresh ID
func (r *MemoRepository) Insert(ctx context.Context, memo *domain.Memo) (*domain.Memo, error) {
	if err := memo.Validate(); err != nil {
		return nil, err
	}

	images := memo.Images
	if images == nil {
		images = []string{}
	}

	query := `
		INSERT INTO memos (` + memoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + memoColumns

	created, err := scanMemo(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), memo.UserID, int(memo.MemoType), memo.Title, memo.Description,
		pq.Array(images), memo.Audio, memo.AdditionalNotes, string(memo.Status), memo.CreatedDate,
	))
	if err != nil {
		r.logger.WithError(err).Error("メモの作成に失敗")
		return nil, fmt.Errorf("failed to insert memo: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"memo_id":   created.ID,
		"user_id":   created.UserID,
		"memo_type": created.MemoType.String(),
	}).Info("メモを作成しました")
	return created, nil
}

// Find retrieves memos matching the filter in creation order
func (r *MemoRepository) Find(ctx context.Context, filter domain.MemoFilter) ([]domain.Memo, error) {
	where, args := buildMemoWhere(filter)
	query := "SELECT " + memoColumns + " FROM memos" + where + " ORDER BY created_date ASC, id ASC"

	memos, err := r.queryMemos(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).Error("メモ一覧の取得に失敗")
		return nil, fmt.Errorf("failed to find memos: %w", err)
	}
	return memos, nil
}

// FindByID retrieves a memo by ID
func (r *MemoRepository) FindByID(ctx context.Context, id string) (*domain.Memo, error) {
	query := "SELECT " + memoColumns + " FROM memos WHERE id = $1"

	memo, err := scanMemo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMemoNotFound
		}
		r.logger.WithError(err).WithField("memo_id", id).Error("メモの取得に失敗")
		return nil, fmt.Errorf("failed to get memo: %w", err)
	}
	return memo, nil
}

// FindOneAndDelete atomically deletes the oldest memo matching the filter and returns it
func (r *MemoRepository) FindOneAndDelete(ctx context.Context, filter domain.MemoFilter) (*domain.Memo, error) {
	where, args := buildMemoWhere(filter)
	query := `
		DELETE FROM memos
		WHERE id = (SELECT id FROM memos` + where + ` ORDER BY created_date ASC, id ASC LIMIT 1)
		RETURNING ` + memoColumns

	memo, err := scanMemo(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMemoNotFound
		}
		r.logger.WithError(err).Error("メモの削除に失敗")
		return nil, fmt.Errorf("failed to delete memo: %w", err)
	}

	r.logger.WithField("memo_id", memo.ID).Info("メモを削除しました")
	return memo, nil
}

// DeleteMany deletes every memo matching the filter and returns the deleted memos
func (r *MemoRepository) DeleteMany(ctx context.Context, filter domain.MemoFilter) ([]domain.Memo, error) {
	where, args := buildMemoWhere(filter)
	query := "DELETE FROM memos" + where + " RETURNING " + memoColumns

	memos, err := r.queryMemos(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).Error("メモの一括削除に失敗")
		return nil, fmt.Errorf("failed to delete memos: %w", err)
	}

	r.logger.WithField("count", len(memos)).Info("メモを一括削除しました")
	return memos, nil
}

// Count counts memos matching the filter
func (r *MemoRepository) Count(ctx context.Context, filter domain.MemoFilter) (int, error) {
	where, args := buildMemoWhere(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM memos"+where, args...).Scan(&total); err != nil {
		r.logger.WithError(err).Error("Failed to count memos")
		return 0, fmt.Errorf("failed to count memos: %w", err)
	}
	return total, nil
}
