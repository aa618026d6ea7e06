package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"botfactory/internal/dto"
	"botfactory/internal/entities"
	"botfactory/pkg/constants"
	apperrors "botfactory/pkg/errors"
)

type OrderRepositoryInterface interface {
	CreateOrder(ctx context.Context, d dto.CreateOrderDTO) (*entities.Order, error)
	FindOrder(ctx context.Context, id int64) (*entities.Order, error)
	GetUserOrders(ctx context.Context, userID int64) ([]entities.Order, error)
	GetAllOrders(ctx context.Context, statusFilter string) ([]entities.Order, error)
	UpdateOrderStatus(ctx context.Context, d dto.UpdateOrderStatusDTO) (*entities.Order, error)
}

type OrderRepository struct {
	storage *pgxpool.Pool
}

func NewOrderRepository(storage *pgxpool.Pool) OrderRepositoryInterface {
	return &OrderRepository{storage: storage}
}

const orderColumns = `
	id, order_number, user_id, name, contact, tariff, description, budget,
	status, admin_comment, created_at, updated_at, completed_at`

func scanOrder(row pgx.Row) (*entities.Order, error) {
	var o entities.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Name, &o.Contact,
		&o.Tariff, &o.Description, &o.Budget,
		&o.Status, &o.AdminComment, &o.CreatedAt, &o.UpdatedAt, &o.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// FormatOrderNumber строит человекочитаемый номер вида BO-00001.
func FormatOrderNumber(seq int) string {
	return fmt.Sprintf("BO-%05d", seq)
}

// CreateOrder создаёт заказ и первую запись истории одной транзакцией:
// либо появляются обе строки, либо ни одной. Номер выдаётся по счётчику
// существующих заказов; при одновременном создании два заказа могут
// получить одинаковый номер и упасть на уникальном индексе - принятое
// ограничение при текущем трафике.
func (r *OrderRepository) CreateOrder(ctx context.Context, d dto.CreateOrderDTO) (*entities.Order, error) {
	var created *entities.Order

	err := WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
			return fmt.Errorf("ошибка подсчёта заказов: %w", err)
		}
		orderNumber := FormatOrderNumber(count + 1)

		insertQuery := `
			INSERT INTO orders (user_id, order_number, name, contact, tariff, description, budget, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING ` + orderColumns

		row := tx.QueryRow(ctx, insertQuery,
			d.UserID, orderNumber, d.Name, d.Contact, d.Tariff, d.Description, d.Budget,
			constants.StatusNew,
		)
		order, err := scanOrder(row)
		if err != nil {
			return fmt.Errorf("ошибка создания заказа: %w", err)
		}

		historyQuery := `
			INSERT INTO order_history (order_id, old_status, new_status, changed_by)
			VALUES ($1, NULL, $2, $3)`
		if _, err := tx.Exec(ctx, historyQuery, order.ID, constants.StatusNew, d.UserID); err != nil {
			return fmt.Errorf("ошибка записи истории создания заказа: %w", err)
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *OrderRepository) FindOrder(ctx context.Context, id int64) (*entities.Order, error) {
	order, err := scanOrder(r.storage.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("ошибка поиска заказа %d: %w", id, err)
	}
	return order, nil
}

func (r *OrderRepository) GetUserOrders(ctx context.Context, userID int64) ([]entities.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.storage.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заказов пользователя %d: %w", userID, err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// GetAllOrders возвращает заказы, новые сверху. Пустой statusFilter
// означает "все статусы".
func (r *OrderRepository) GetAllOrders(ctx context.Context, statusFilter string) ([]entities.Order, error) {
	builder := sq.Select(
		"id", "order_number", "user_id", "name", "contact", "tariff", "description", "budget",
		"status", "admin_comment", "created_at", "updated_at", "completed_at",
	).
		From("orders").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if statusFilter != "" {
		builder = builder.Where(sq.Eq{"status": statusFilter})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения запроса заказов: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка заказов: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// UpdateOrderStatus атомарно меняет статус, комментарий и отметку
// завершения и дописывает строку истории. При ошибке заказ остаётся
// в исходном состоянии. completed_at ставится один раз и позднейшими
// переходами не очищается.
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, d dto.UpdateOrderStatusDTO) (*entities.Order, error) {
	var updated *entities.Order

	err := WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		var oldStatus string
		err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, d.OrderID).Scan(&oldStatus)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrOrderNotFound
			}
			return fmt.Errorf("ошибка чтения текущего статуса заказа %d: %w", d.OrderID, err)
		}

		updateQuery := `
			UPDATE orders
			SET status        = $2,
			    admin_comment = $3,
			    updated_at    = NOW(),
			    completed_at  = CASE WHEN $2 = $4 THEN COALESCE(completed_at, NOW()) ELSE completed_at END
			WHERE id = $1
			RETURNING ` + orderColumns

		row := tx.QueryRow(ctx, updateQuery, d.OrderID, d.NewStatus, d.Comment, constants.StatusCompleted)
		order, err := scanOrder(row)
		if err != nil {
			return fmt.Errorf("ошибка обновления статуса заказа %d: %w", d.OrderID, err)
		}

		historyQuery := `
			INSERT INTO order_history (order_id, old_status, new_status, comment, changed_by)
			VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.Exec(ctx, historyQuery, d.OrderID, oldStatus, d.NewStatus, d.Comment, d.AdminID); err != nil {
			return fmt.Errorf("ошибка записи истории смены статуса: %w", err)
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func collectOrders(rows pgx.Rows) ([]entities.Order, error) {
	orders := make([]entities.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования заказа: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}
