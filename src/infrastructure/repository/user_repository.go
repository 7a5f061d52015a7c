package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"memo-api/src/database"
	"memo-api/src/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const userColumns = "id, name, email, password_hash, role, created_at"

// uniqueViolation PostgreSQLの一意制約違反コード
const uniqueViolation = "23505"

// UserRepository implements domain.UserRepository on PostgreSQL
type UserRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB, logger *logrus.Logger) domain.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var role string
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &role, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), user.Name, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt,
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrUserAlreadyExists
		}
		r.logger.WithError(err).Error("ユーザーの作成に失敗")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.WithField("user_id", created.ID).Info("ユーザーを作成しました")
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *UserRepository) findOne(ctx context.Context, column, value string) (*domain.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE " + column + " = $1"

	user, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.WithError(err).WithField(column, value).Error("ユーザーの取得に失敗")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE role = $1 ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, string(role))
	if err != nil {
		r.logger.WithError(err).Error("ユーザー一覧の取得に失敗")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, id string) (*domain.User, error) {
	query := "DELETE FROM users WHERE id = $1 RETURNING " + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.WithError(err).WithField("user_id", id).Error("ユーザーの削除に失敗")
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	r.logger.WithField("user_id", id).Info("ユーザーを削除しました")
	return user, nil
}
