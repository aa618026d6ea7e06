package services

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"botfactory/internal/dto"
	"botfactory/internal/entities"
	"botfactory/internal/repositories"
	"botfactory/pkg/constants"
	apperrors "botfactory/pkg/errors"
)

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, d dto.CreateOrderDTO) (*entities.Order, error)
	FindOrder(ctx context.Context, id int64) (*entities.Order, error)
	GetUserOrders(ctx context.Context, userID int64) ([]entities.Order, error)
	GetAllOrders(ctx context.Context, statusFilter string) ([]entities.Order, error)
	LatestUserOrder(ctx context.Context, userID int64) (*entities.Order, error)
	ChangeStatus(ctx context.Context, d dto.UpdateOrderStatusDTO) (*entities.Order, error)
	GetOrderHistory(ctx context.Context, orderID int64) ([]entities.OrderHistoryEntry, error)
	AddMessage(ctx context.Context, d dto.AddMessageDTO) (*entities.Message, error)
	GetOrderMessages(ctx context.Context, orderID int64) ([]entities.Message, error)
}

type OrderService struct {
	orderRepo   repositories.OrderRepositoryInterface
	historyRepo repositories.OrderHistoryRepositoryInterface
	messageRepo repositories.MessageRepositoryInterface
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewOrderService(
	orderRepo repositories.OrderRepositoryInterface,
	historyRepo repositories.OrderHistoryRepositoryInterface,
	messageRepo repositories.MessageRepositoryInterface,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
		messageRepo: messageRepo,
		validate:    validator.New(),
		logger:      logger,
	}
}

// CreateOrder финально валидирует накопленную анкету и создаёт заказ
// вместе с первой записью истории (атомарно, в репозитории).
func (s *OrderService) CreateOrder(ctx context.Context, d dto.CreateOrderDTO) (*entities.Order, error) {
	if err := s.validate.Struct(d); err != nil {
		return nil, apperrors.NewInvalidInputError("анкета заказа заполнена некорректно: %v", err)
	}

	order, err := s.orderRepo.CreateOrder(ctx, d)
	if err != nil {
		s.logger.Error("ошибка создания заказа",
			zap.Int64("user_id", d.UserID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("создан заказ",
		zap.String("order_number", order.OrderNumber),
		zap.Int64("user_id", order.UserID),
		zap.String("tariff", order.Tariff),
	)
	return order, nil
}

func (s *OrderService) FindOrder(ctx context.Context, id int64) (*entities.Order, error) {
	return s.orderRepo.FindOrder(ctx, id)
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID int64) ([]entities.Order, error) {
	return s.orderRepo.GetUserOrders(ctx, userID)
}

func (s *OrderService) GetAllOrders(ctx context.Context, statusFilter string) ([]entities.Order, error) {
	return s.orderRepo.GetAllOrders(ctx, statusFilter)
}

// LatestUserOrder возвращает последний созданный заказ клиента или
// ErrOrderNotFound, если заказов нет.
func (s *OrderService) LatestUserOrder(ctx context.Context, userID int64) (*entities.Order, error) {
	orders, err := s.orderRepo.GetUserOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperrors.ErrOrderNotFound
	}
	return &orders[0], nil
}

// ChangeStatus применяет смену статуса. Код статуса приходит из меню
// администратора и всё равно перепроверяется.
func (s *OrderService) ChangeStatus(ctx context.Context, d dto.UpdateOrderStatusDTO) (*entities.Order, error) {
	if !constants.IsValidStatus(d.NewStatus) {
		return nil, apperrors.NewInvalidInputError("неизвестный статус: %s", d.NewStatus)
	}

	order, err := s.orderRepo.UpdateOrderStatus(ctx, d)
	if err != nil {
		s.logger.Error("ошибка смены статуса заказа",
			zap.Int64("order_id", d.OrderID),
			zap.String("new_status", d.NewStatus),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("статус заказа изменён",
		zap.String("order_number", order.OrderNumber),
		zap.String("new_status", d.NewStatus),
		zap.Int64("admin_id", d.AdminID),
	)
	return order, nil
}

func (s *OrderService) GetOrderHistory(ctx context.Context, orderID int64) ([]entities.OrderHistoryEntry, error) {
	return s.historyRepo.GetOrderHistory(ctx, orderID)
}

func (s *OrderService) AddMessage(ctx context.Context, d dto.AddMessageDTO) (*entities.Message, error) {
	if err := s.validate.Struct(d); err != nil {
		return nil, apperrors.NewInvalidInputError("сообщение заполнено некорректно: %v", err)
	}
	return s.messageRepo.AddMessage(ctx, d)
}

func (s *OrderService) GetOrderMessages(ctx context.Context, orderID int64) ([]entities.Message, error) {
	return s.messageRepo.GetOrderMessages(ctx, orderID)
}
