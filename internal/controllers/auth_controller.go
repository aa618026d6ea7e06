package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"botfactory/internal/services"
	apperrors "botfactory/pkg/errors"
	"botfactory/pkg/utils"
)

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type AuthController struct {
	authService services.AuthServiceInterface
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		validate:    validator.New(),
		logger:      logger,
	}
}

func (c *AuthController) Login(ctx echo.Context) error {
	var req loginRequest
	if err := ctx.Bind(&req); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := c.validate.Struct(req); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("логин и пароль обязательны"), c.logger)
	}

	tokens, err := c.authService.Login(ctx.Request().Context(), req.Login, req.Password)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tokens, "Авторизация успешна", http.StatusOK)
}

func (c *AuthController) Refresh(ctx echo.Context) error {
	var req refreshRequest
	if err := ctx.Bind(&req); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := c.validate.Struct(req); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("refresh-токен обязателен"), c.logger)
	}

	tokens, err := c.authService.Refresh(ctx.Request().Context(), req.RefreshToken)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tokens, "Токены обновлены", http.StatusOK)
}
