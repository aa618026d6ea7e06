package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"botfactory/internal/dto"
	"botfactory/internal/entities"
)

type MessageRepositoryInterface interface {
	AddMessage(ctx context.Context, d dto.AddMessageDTO) (*entities.Message, error)
	GetOrderMessages(ctx context.Context, orderID int64) ([]entities.Message, error)
}

type MessageRepository struct {
	storage querier
}

func NewMessageRepository(storage *pgxpool.Pool) MessageRepositoryInterface {
	return &MessageRepository{storage: storage}
}

// AddMessage дописывает сообщение в тред заказа. user_id - всегда
// клиентская сторона треда, независимо от отправителя.
func (r *MessageRepository) AddMessage(ctx context.Context, d dto.AddMessageDTO) (*entities.Message, error) {
	query := `
		INSERT INTO messages (order_id, user_id, message, is_admin, admin_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, order_id, user_id, message, is_admin, admin_id, created_at`

	var m entities.Message
	err := r.storage.QueryRow(ctx, query, d.OrderID, d.UserID, d.Text, d.IsAdmin, d.AdminID).Scan(
		&m.ID, &m.OrderID, &m.UserID, &m.Message, &m.IsAdmin, &m.AdminID, &m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи сообщения по заказу %d: %w", d.OrderID, err)
	}
	return &m, nil
}

func (r *MessageRepository) GetOrderMessages(ctx context.Context, orderID int64) ([]entities.Message, error) {
	query := `
		SELECT id, order_id, user_id, message, is_admin, admin_id, created_at
		FROM messages
		WHERE order_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.storage.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения переписки заказа %d: %w", orderID, err)
	}
	defer rows.Close()

	messages := make([]entities.Message, 0)
	for rows.Next() {
		var m entities.Message
		if err := rows.Scan(
			&m.ID, &m.OrderID, &m.UserID, &m.Message, &m.IsAdmin, &m.AdminID, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сообщения: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
