package dto

// CreateOrderDTO - накопленные поля анкеты заказа. Границы длин
// совпадают с пошаговой валидацией диалога: финальная проверка перед
// записью в БД повторяет их через validator.
type CreateOrderDTO struct {
	UserID      int64  `validate:"required"`
	Name        string `validate:"required,min=2,max=100"`
	Contact     string `validate:"required,min=3,max=200"`
	Tariff      string `validate:"required"`
	Description string `validate:"required,min=10,max=2000"`
	Budget      string `validate:"required"`
}

// UpdateOrderStatusDTO - параметры смены статуса администратором.
// Comment == nil означает "без комментария" (ввод "-" нормализуется
// раньше, до сервисного слоя).
type UpdateOrderStatusDTO struct {
	OrderID   int64  `validate:"required"`
	NewStatus string `validate:"required"`
	AdminID   int64  `validate:"required"`
	Comment   *string
}

// AddMessageDTO - добавление сообщения в тред заказа.
type AddMessageDTO struct {
	OrderID int64  `validate:"required"`
	UserID  int64  `validate:"required"`
	Text    string `validate:"required"`
	IsAdmin bool
	AdminID *int64
}
