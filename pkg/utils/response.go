package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "botfactory/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

// errorStatusList - соответствие известных ошибок HTTP-статусам.
var errorStatusList = map[error]int{
	apperrors.ErrNotFound:           http.StatusNotFound,
	apperrors.ErrOrderNotFound:      http.StatusNotFound,
	apperrors.ErrUserNotFound:       http.StatusNotFound,
	apperrors.ErrBadRequest:         http.StatusBadRequest,
	apperrors.ErrInvalidCredentials: http.StatusUnauthorized,
	apperrors.ErrEmptyAuthHeader:    http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:  http.StatusUnauthorized,
	apperrors.ErrInvalidToken:       http.StatusUnauthorized,
	apperrors.ErrTokenExpired:       http.StatusUnauthorized,
	apperrors.ErrTokenIsNotAccess:   http.StatusUnauthorized,
	apperrors.ErrForbidden:          http.StatusForbidden,
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	})
}

func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	message := "Внутренняя ошибка сервера"
	code := http.StatusInternalServerError

	var invalidInput *apperrors.InvalidInputError
	switch {
	case errors.As(err, &invalidInput):
		message = invalidInput.Message
		code = http.StatusBadRequest
	default:
		for known, statusCode := range errorStatusList {
			if errors.Is(err, known) {
				message = known.Error()
				code = statusCode
				break
			}
		}
	}

	if code == http.StatusInternalServerError {
		logger.Error("необработанная ошибка API", zap.Error(err))
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}
