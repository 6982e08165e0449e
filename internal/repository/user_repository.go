package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/proposal-backend/internal/models"
)

// ErrUserNotFound возвращается, когда запись пользователя не найдена.
var ErrUserNotFound = errors.New("user not found")

// UserRepository отвечает за работу с таблицей users — локальными тенями
// внешних учётных записей.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByStackID возвращает пользователя по внешнему идентификатору.
func (r *UserRepository) GetByStackID(ctx context.Context, stackUserID string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, stack_user_id, email, name, created_at, updated_at
		FROM users
		WHERE stack_user_id = $1
	`
	if err := r.db.GetContext(ctx, &user, query, stackUserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by stack id %w", err)
	}

	return &user, nil
}

// Upsert создаёт тень внешней учётной записи или обновляет email и имя
// существующей. Идемпотентен: два конкурентных первых запроса одной учётки
// разрешаются constraint-ом на stack_user_id, без блокировок в коде.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (stack_user_id, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (stack_user_id) DO UPDATE
		SET email = EXCLUDED.email,
			name = EXCLUDED.name,
			updated_at = NOW()
		RETURNING id, stack_user_id, email, name, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.StackUserID, user.Email, user.Name,
	).StructScan(user); err != nil {
		return fmt.Errorf("user repository: upsert %w", err)
	}

	return nil
}
