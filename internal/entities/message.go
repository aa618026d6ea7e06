package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Message - сообщение в переписке по заказу. UserID всегда указывает
// на клиентскую сторону треда, кто бы ни был отправителем; IsAdmin
// помечает сообщения сотрудников, AdminID - кто именно ответил.
type Message struct {
	ID        int64      `json:"id"`
	OrderID   int64      `json:"order_id"`
	UserID    int64      `json:"user_id"`
	Message   string     `json:"message"`
	IsAdmin   bool       `json:"is_admin"`
	AdminID   null.Int64 `json:"admin_id"`
	CreatedAt time.Time  `json:"created_at"`
}

// Review - отзыв клиента о выполненном заказе.
type Review struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	OrderID     int64     `json:"order_id"`
	Rating      int       `json:"rating"`
	Text        string    `json:"text"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`

	// Поля автора, подтягиваются JOIN-ом для витрины отзывов.
	AuthorName     null.String `json:"author_name,omitempty"`
	AuthorUsername null.String `json:"author_username,omitempty"`
}
