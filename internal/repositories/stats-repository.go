package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"botfactory/internal/entities"
)

type StatsRepositoryInterface interface {
	GetStatistics(ctx context.Context) (*entities.Statistics, error)
}

type StatsRepository struct {
	storage *pgxpool.Pool
}

func NewStatsRepository(storage *pgxpool.Pool) StatsRepositoryInterface {
	return &StatsRepository{storage: storage}
}

// GetStatistics считает агрегаты заново на каждый вызов, O(строк).
func (r *StatsRepository) GetStatistics(ctx context.Context) (*entities.Statistics, error) {
	stats := &entities.Statistics{
		OrdersByStatus: make(map[string]int),
	}

	if err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.TotalUsers); err != nil {
		return nil, fmt.Errorf("ошибка подсчёта пользователей: %w", err)
	}

	if err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&stats.TotalOrders); err != nil {
		return nil, fmt.Errorf("ошибка подсчёта заказов: %w", err)
	}

	rows, err := r.storage.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта заказов по статусам: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования статистики по статусам: %w", err)
		}
		stats.OrdersByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.storage.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE created_at::date = CURRENT_DATE`,
	).Scan(&stats.OrdersToday)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта заказов за сегодня: %w", err)
	}

	err = r.storage.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE created_at >= NOW() - INTERVAL '7 days'`,
	).Scan(&stats.NewUsersThisWeek)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта новых пользователей за неделю: %w", err)
	}

	return stats, nil
}
