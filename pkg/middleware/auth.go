package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "botfactory/pkg/errors"
	"botfactory/pkg/service"
	"botfactory/pkg/utils"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth проверяет Bearer-токен и пропускает запрос дальше.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: попытка доступа с refresh-токеном")
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		c.Set("admin_login", claims.Login)
		return next(c)
	}
}

// RequestID присваивает каждому запросу идентификатор для трассировки в логах.
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := c.Request().Header.Get(echo.HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Response().Header().Set(echo.HeaderXRequestID, reqID)
		return next(c)
	}
}
