package models

import (
	"time"

	"github.com/google/uuid"
)

// User локальная тень внешней учётной записи.
// Создаётся лениво при первом авторизованном запросе, которому нужен
// локальный foreign key; пароли и сессии хранит внешний провайдер.
type User struct {
	ID          uuid.UUID `db:"id" json:"id"`
	StackUserID string    `db:"stack_user_id" json:"stackUserId"`
	Email       string    `db:"email" json:"email"`
	Name        *string   `db:"name" json:"name,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
