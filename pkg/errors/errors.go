package errors

import "fmt"

var (
	// Токены и авторизация REST API
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")
	ErrEmptyAuthHeader      = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader    = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials   = fmt.Errorf("неверные учётные данные")
	ErrForbidden            = fmt.Errorf("доступ запрещён")

	// Общие
	ErrNotFound      = fmt.Errorf("запись не найдена")
	ErrOrderNotFound = fmt.Errorf("заказ не найден")
	ErrUserNotFound  = fmt.Errorf("пользователь не найден")
	ErrBadRequest    = fmt.Errorf("неверный запрос")

	// Диалоги: состояние не найдено или устарело (TTL в Redis истёк).
	ErrStateNotFound = fmt.Errorf("состояние диалога не найдено")
)

// InvalidInputError - ошибка валидации пользовательского ввода.
// Движок диалога реагирует на неё повторным запросом того же шага.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
