package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// User - клиент или сотрудник. user_id совпадает с внешним
// идентификатором мессенджера, отдельного маппинга нет.
type User struct {
	UserID       int64       `json:"user_id"`
	Username     null.String `json:"username"`
	FirstName    null.String `json:"first_name"`
	LastName     null.String `json:"last_name"`
	IsAdmin      bool        `json:"is_admin"`
	IsBlocked    bool        `json:"is_blocked"`
	CreatedAt    time.Time   `json:"created_at"`
	LastActivity time.Time   `json:"last_activity"`
}

// DisplayName возвращает имя для вывода в списках и уведомлениях.
func (u *User) DisplayName() string {
	if u.FirstName.Valid && u.FirstName.String != "" {
		return u.FirstName.String
	}
	if u.Username.Valid && u.Username.String != "" {
		return "@" + u.Username.String
	}
	return "Клиент"
}
