package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"botfactory/internal/entities"
)

type OrderHistoryRepositoryInterface interface {
	GetOrderHistory(ctx context.Context, orderID int64) ([]entities.OrderHistoryEntry, error)
}

type OrderHistoryRepository struct {
	storage querier
}

func NewOrderHistoryRepository(storage *pgxpool.Pool) OrderHistoryRepositoryInterface {
	return &OrderHistoryRepository{storage: storage}
}

// GetOrderHistory возвращает журнал смены статусов, новые записи сверху.
// Записи в журнал добавляют OrderRepository.CreateOrder и
// OrderRepository.UpdateOrderStatus в своих транзакциях.
func (r *OrderHistoryRepository) GetOrderHistory(ctx context.Context, orderID int64) ([]entities.OrderHistoryEntry, error) {
	query := `
		SELECT id, order_id, old_status, new_status, comment, changed_by, created_at
		FROM order_history
		WHERE order_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.storage.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории заказа %d: %w", orderID, err)
	}
	defer rows.Close()

	entries := make([]entities.OrderHistoryEntry, 0)
	for rows.Next() {
		var e entities.OrderHistoryEntry
		if err := rows.Scan(
			&e.ID, &e.OrderID, &e.OldStatus, &e.NewStatus,
			&e.Comment, &e.ChangedBy, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи истории: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
