package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"botfactory/internal/entities"
)

// Отзывы добавляются и публикуются вручную через БД, бот их только
// показывает.
type ReviewRepositoryInterface interface {
	GetPublishedReviews(ctx context.Context, limit int) ([]entities.Review, error)
}

type ReviewRepository struct {
	storage querier
}

func NewReviewRepository(storage *pgxpool.Pool) ReviewRepositoryInterface {
	return &ReviewRepository{storage: storage}
}

func (r *ReviewRepository) GetPublishedReviews(ctx context.Context, limit int) ([]entities.Review, error) {
	query := `
		SELECT r.id, r.user_id, r.order_id, r.rating, r.text, r.is_published, r.created_at,
		       u.first_name, u.username
		FROM reviews r
		JOIN users u ON r.user_id = u.user_id
		WHERE r.is_published = TRUE
		ORDER BY r.created_at DESC
		LIMIT $1`

	rows, err := r.storage.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения отзывов: %w", err)
	}
	defer rows.Close()

	reviews := make([]entities.Review, 0)
	for rows.Next() {
		var rv entities.Review
		if err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.OrderID, &rv.Rating, &rv.Text, &rv.IsPublished, &rv.CreatedAt,
			&rv.AuthorName, &rv.AuthorUsername,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования отзыва: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
