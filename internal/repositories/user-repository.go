package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"botfactory/internal/entities"
	apperrors "botfactory/pkg/errors"
)

type UserRepositoryInterface interface {
	UpsertUser(ctx context.Context, id int64, username, firstName, lastName string) error
	FindUser(ctx context.Context, id int64) (*entities.User, error)
	IsAdmin(ctx context.Context, id int64) (bool, error)
	GetAllUsers(ctx context.Context) ([]entities.User, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &UserRepository{storage: storage}
}

// UpsertUser регистрирует пользователя при первом контакте и обновляет
// профиль и last_activity при каждом последующем. Идемпотентен.
func (r *UserRepository) UpsertUser(ctx context.Context, id int64, username, firstName, lastName string) error {
	query := `
		INSERT INTO users (user_id, username, first_name, last_name)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (user_id) DO UPDATE SET
			username      = EXCLUDED.username,
			first_name    = EXCLUDED.first_name,
			last_name     = EXCLUDED.last_name,
			last_activity = NOW()`

	if _, err := r.storage.Exec(ctx, query, id, username, firstName, lastName); err != nil {
		return fmt.Errorf("ошибка upsert пользователя %d: %w", id, err)
	}
	return nil
}

func (r *UserRepository) FindUser(ctx context.Context, id int64) (*entities.User, error) {
	query := `
		SELECT user_id, username, first_name, last_name, is_admin, is_blocked, created_at, last_activity
		FROM users WHERE user_id = $1`

	var u entities.User
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&u.UserID, &u.Username, &u.FirstName, &u.LastName,
		&u.IsAdmin, &u.IsBlocked, &u.CreatedAt, &u.LastActivity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка поиска пользователя %d: %w", id, err)
	}
	return &u, nil
}

// IsAdmin возвращает false для неизвестных пользователей, ошибки
// "не найдено" здесь нет.
func (r *UserRepository) IsAdmin(ctx context.Context, id int64) (bool, error) {
	var isAdmin bool
	err := r.storage.QueryRow(ctx, `SELECT is_admin FROM users WHERE user_id = $1`, id).Scan(&isAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("ошибка проверки прав пользователя %d: %w", id, err)
	}
	return isAdmin, nil
}

func (r *UserRepository) GetAllUsers(ctx context.Context) ([]entities.User, error) {
	query := `
		SELECT user_id, username, first_name, last_name, is_admin, is_blocked, created_at, last_activity
		FROM users ORDER BY created_at DESC`

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка пользователей: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		var u entities.User
		if err := rows.Scan(
			&u.UserID, &u.Username, &u.FirstName, &u.LastName,
			&u.IsAdmin, &u.IsBlocked, &u.CreatedAt, &u.LastActivity,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
