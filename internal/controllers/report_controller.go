package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"botfactory/internal/entities"
	"botfactory/internal/services"
	"botfactory/pkg/constants"
	"botfactory/pkg/utils"
)

type ReportController struct {
	orderService services.OrderServiceInterface
	logger       *zap.Logger
}

func NewReportController(orderService services.OrderServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{orderService: orderService, logger: logger}
}

// GetReport выгружает заказы: JSON по умолчанию, ?format=xlsx - файл.
// Фильтр по статусу тот же, что и у списка заказов.
func (c *ReportController) GetReport(ctx echo.Context) error {
	orders, err := c.orderService.GetAllOrders(ctx.Request().Context(), ctx.QueryParam("status"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if ctx.QueryParam("format") == "xlsx" {
		return c.respondWithXLSX(ctx, orders)
	}
	return utils.SuccessResponse(ctx, orders, "Отчёт сформирован", http.StatusOK)
}

var reportHeaders = []interface{}{
	"Номер", "Клиент (ID)", "Имя", "Контакт", "Тариф", "Бюджет",
	"Статус", "Комментарий", "Создан", "Обновлён", "Завершён",
}

func rowToSlice(order entities.Order) []interface{} {
	dateFmt := "02.01.2006 15:04"
	var completedAt string
	if order.CompletedAt.Valid {
		completedAt = order.CompletedAt.Time.Format(dateFmt)
	}
	return []interface{}{
		order.OrderNumber, order.UserID, order.Name, order.Contact,
		order.Tariff, order.Budget, constants.StatusLabel(order.Status),
		order.AdminComment.String, order.CreatedAt.Format(dateFmt),
		order.UpdatedAt.Format(dateFmt), completedAt,
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, orders []entities.Order) error {
	f := excelize.NewFile()
	sheet := "Заказы"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "K1", style)

	for i, order := range orders {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowToSlice(order)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "C", "F", 20)
	f.SetColWidth(sheet, "H", "H", 40)
	f.SetColWidth(sheet, "I", "K", 18)

	fileName := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
