package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"botfactory/internal/entities"
	"botfactory/internal/services"
	apperrors "botfactory/pkg/errors"
	"botfactory/pkg/utils"
)

type OrderController struct {
	orderService services.OrderServiceInterface
	logger       *zap.Logger
}

func NewOrderController(orderService services.OrderServiceInterface, logger *zap.Logger) *OrderController {
	return &OrderController{orderService: orderService, logger: logger}
}

// GetOrders - список заказов для панели, с опциональным фильтром
// ?status=<код>.
func (c *OrderController) GetOrders(ctx echo.Context) error {
	orders, err := c.orderService.GetAllOrders(ctx.Request().Context(), ctx.QueryParam("status"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, orders, "Список заказов получен", http.StatusOK)
}

type orderDetailResponse struct {
	Order    *entities.Order             `json:"order"`
	History  []entities.OrderHistoryEntry `json:"history"`
	Messages []entities.Message          `json:"messages"`
}

// GetOrder - карточка заказа вместе с историей статусов и перепиской.
func (c *OrderController) GetOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}

	order, err := c.orderService.FindOrder(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	history, err := c.orderService.GetOrderHistory(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	messages, err := c.orderService.GetOrderMessages(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, orderDetailResponse{
		Order:    order,
		History:  history,
		Messages: messages,
	}, "Заказ получен", http.StatusOK)
}
