package dialog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"botfactory/internal/dto"
	"botfactory/pkg/constants"
)

// startStatusChange - вход в поток смены статуса: админ выбрал заказ и
// целевой статус, следующий его текст станет комментарием.
// Ключ имеет вид setstatus_<orderID>_<status>.
func (e *Engine) startStatusChange(ctx context.Context, ev dto.MenuSelection) []dto.Render {
	rest := strings.TrimPrefix(ev.SelectionKey, "setstatus_")
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 {
		return []dto.Render{dto.NewRender(ev.ConversationID, orderNotFoundText)}
	}
	orderID, err := strconv.ParseInt(parts[0], 10, 64)
	newStatus := parts[1]
	if err != nil || !constants.IsValidStatus(newStatus) {
		return []dto.Render{dto.NewRender(ev.ConversationID, orderNotFoundText)}
	}

	if _, err := e.orders.FindOrder(ctx, orderID); err != nil {
		return []dto.Render{dto.NewRender(ev.ConversationID, orderNotFoundText)}
	}

	if !e.saveState(ctx, ev.ConversationID, dto.NewStatusChangeState(orderID, newStatus)) {
		return []dto.Render{dto.NewRender(ev.ConversationID, genericErrorText)}
	}

	text := "💬 <b>Добавьте комментарий к изменению статуса</b>\n\n" +
		"Это сообщение увидит клиент.\n" +
		"Или отправьте '-' чтобы пропустить."
	return []dto.Render{dto.NewRender(ev.ConversationID, text)}
}

// finishStatusChange - второй шаг: текст админа становится комментарием,
// буквальный "-" нормализуется в отсутствие комментария. Состояние
// очищается при любом исходе.
func (e *Engine) finishStatusChange(ctx context.Context, ev dto.TextInput, state *dto.DialogState, text string) []dto.Render {
	defer e.clearState(ctx, ev.ConversationID)

	var comment *string
	if text != "-" && text != "" {
		comment = &text
	}

	order, err := e.orders.ChangeStatus(ctx, dto.UpdateOrderStatusDTO{
		OrderID:   state.OrderID,
		NewStatus: state.NewStatus,
		AdminID:   ev.SenderID,
		Comment:   comment,
	})
	if err != nil {
		return []dto.Render{dto.NewRender(ev.ConversationID, "❌ Ошибка при изменении статуса")}
	}

	statusName := constants.StatusLabel(state.NewStatus)

	// Клиент узнаёт о смене статуса отдельным уведомлением; его
	// недоставка не портит подтверждение админу.
	customerText := fmt.Sprintf("🔔 <b>Обновление заказа #%s</b>\n\nСтатус изменён: %s\n", order.OrderNumber, statusName)
	if comment != nil {
		customerText += fmt.Sprintf("\n💬 Комментарий:\n%s\n", esc(*comment))
	}
	e.dispatcher.Notify(ctx, dto.NewRender(order.UserID, customerText).
		WithRow(dto.Action{Label: "📦 Мои заказы", SelectionKey: "my_orders"}))

	e.logger.Info("статус заказа обновлён через диалог",
		zap.String("order_number", order.OrderNumber),
		zap.String("new_status", state.NewStatus),
		zap.Int64("admin_id", ev.SenderID))

	adminText := fmt.Sprintf("✅ Статус заказа #%s изменён на: %s", order.OrderNumber, statusName)
	return []dto.Render{dto.NewRender(ev.ConversationID, adminText).
		WithRow(dto.Action{Label: "📋 Открыть заказ", SelectionKey: fmt.Sprintf("admin_order_%d", state.OrderID)}).
		WithRow(dto.Action{Label: "◀️ К заказам", SelectionKey: "admin_orders"})}
}
