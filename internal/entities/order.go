package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Order - заказ клиента. OrderNumber выдаётся при создании в формате
// BO-00001 и после этого не меняется. Tariff и Budget - текстовые
// снимки на момент заказа, правки каталога их не переписывают.
type Order struct {
	ID           int64       `json:"id"`
	OrderNumber  string      `json:"order_number"`
	UserID       int64       `json:"user_id"`
	Name         string      `json:"name"`
	Contact      string      `json:"contact"`
	Tariff       string      `json:"tariff"`
	Description  string      `json:"description"`
	Budget       string      `json:"budget"`
	Status       string      `json:"status"`
	AdminComment null.String `json:"admin_comment"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	CompletedAt  null.Time   `json:"completed_at"`
}

// OrderHistoryEntry - запись журнала смены статусов. Только добавление,
// записи никогда не изменяются и не удаляются. OldStatus пустой только
// у записи о создании заказа.
type OrderHistoryEntry struct {
	ID        int64       `json:"id"`
	OrderID   int64       `json:"order_id"`
	OldStatus null.String `json:"old_status"`
	NewStatus string      `json:"new_status"`
	Comment   null.String `json:"comment"`
	ChangedBy int64       `json:"changed_by"`
	CreatedAt time.Time   `json:"created_at"`
}
