package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"botfactory/internal/services"
	"botfactory/pkg/utils"
)

type StatsController struct {
	statsService services.StatsServiceInterface
	logger       *zap.Logger
}

func NewStatsController(statsService services.StatsServiceInterface, logger *zap.Logger) *StatsController {
	return &StatsController{statsService: statsService, logger: logger}
}

func (c *StatsController) GetStats(ctx echo.Context) error {
	stats, err := c.statsService.GetStatistics(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "Статистика получена", http.StatusOK)
}
