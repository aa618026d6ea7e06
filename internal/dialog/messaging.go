package dialog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"botfactory/internal/dto"
	apperrors "botfactory/pkg/errors"
)

// startAdminMessage - админ пишет клиенту по конкретному заказу.
func (e *Engine) startAdminMessage(ctx context.Context, ev dto.MenuSelection, orderID int64) []dto.Render {
	order, err := e.orders.FindOrder(ctx, orderID)
	if err != nil {
		return []dto.Render{dto.NewRender(ev.ConversationID, orderNotFoundText)}
	}

	if !e.saveState(ctx, ev.ConversationID, dto.NewAdminMessageState(orderID)) {
		return []dto.Render{dto.NewRender(ev.ConversationID, genericErrorText)}
	}

	text := fmt.Sprintf("💬 <b>Сообщение клиенту по заказу #%s</b>\n\nНапишите текст сообщения:", order.OrderNumber)
	return []dto.Render{dto.NewRender(ev.ConversationID, text)}
}

// sendAdminMessage - текст админа уходит клиенту и в тред заказа.
// Пустой текст повторяет тот же шаг и не продвигает поток.
func (e *Engine) sendAdminMessage(ctx context.Context, ev dto.TextInput, state *dto.DialogState, text string) []dto.Render {
	if text == "" {
		return []dto.Render{dto.NewRender(ev.ConversationID, "❌ Сообщение не может быть пустым. Напишите текст:")}
	}

	defer e.clearState(ctx, ev.ConversationID)

	order, err := e.orders.FindOrder(ctx, state.OrderID)
	if err != nil {
		return []dto.Render{dto.NewRender(ev.ConversationID, orderNotFoundText)}
	}

	adminID := ev.SenderID
	if _, err := e.orders.AddMessage(ctx, dto.AddMessageDTO{
		OrderID: order.ID,
		UserID:  order.UserID,
		Text:    text,
		IsAdmin: true,
		AdminID: &adminID,
	}); err != nil {
		return []dto.Render{dto.NewRender(ev.ConversationID, "❌ Не удалось отправить сообщение. Попробуйте ещё раз.")}
	}

	customerText := fmt.Sprintf("💬 <b>Сообщение по заказу #%s</b>\n\n%s", order.OrderNumber, esc(text))
	e.dispatcher.Notify(ctx, dto.NewRender(order.UserID, customerText).
		WithRow(dto.Action{Label: "📋 Открыть заказ", SelectionKey: fmt.Sprintf("view_order_%d", order.ID)}).
		WithRow(dto.Action{Label: "✉️ Ответить", SelectionKey: fmt.Sprintf("chat_order_%d", order.ID)}))

	confirm := fmt.Sprintf("✅ Сообщение по заказу #%s отправлено клиенту", order.OrderNumber)
	return []dto.Render{dto.NewRender(ev.ConversationID, confirm).
		WithRow(dto.Action{Label: "✉️ Написать ещё", SelectionKey: fmt.Sprintf("admin_message_%d", order.ID)}).
		WithRow(dto.Action{Label: "📋 Открыть заказ", SelectionKey: fmt.Sprintf("admin_order_%d", order.ID)})}
}

// startCustomerChat - клиент открывает чат: по кнопке конкретного
// заказа или общей кнопкой (тогда берётся последний заказ).
func (e *Engine) startCustomerChat(ctx context.Context, ev dto.MenuSelection, orderID int64) []dto.Render {
	if orderID == 0 {
		order, err := e.orders.LatestUserOrder(ctx, ev.SenderID)
		if err != nil {
			if errors.Is(err, apperrors.ErrOrderNotFound) {
				return []dto.Render{e.redirectToIntake(ev.ConversationID)}
			}
			return []dto.Render{dto.NewRender(ev.ConversationID, genericErrorText)}
		}
		orderID = order.ID
	}

	order, err := e.orders.FindOrder(ctx, orderID)
	if err != nil {
		return []dto.Render{dto.NewRender(ev.ConversationID, orderNotFoundText)}
	}

	if !e.saveState(ctx, ev.ConversationID, dto.NewCustomerChatState(order.ID)) {
		return []dto.Render{dto.NewRender(ev.ConversationID, genericErrorText)}
	}

	text := fmt.Sprintf("💬 <b>Чат по заказу #%s</b>\n\nНапишите ваше сообщение, и менеджер ответит вам:", order.OrderNumber)
	return []dto.Render{dto.NewRender(ev.ConversationID, text).WithRow(backAction())}
}

// routeCustomerReply - свободный текст клиента вне активного потока.
// Привязывается к закреплённому заказу, иначе к последнему созданному;
// клиент без заказов перенаправляется в анкету, запись не создаётся.
func (e *Engine) routeCustomerReply(ctx context.Context, ev dto.TextInput, pinnedOrderID int64, text string) []dto.Render {
	if text == "" {
		return []dto.Render{dto.NewRender(ev.ConversationID, "❌ Сообщение не может быть пустым. Напишите текст:")}
	}

	var orderID int64
	var orderNumber string

	if pinnedOrderID > 0 {
		order, err := e.orders.FindOrder(ctx, pinnedOrderID)
		if err != nil {
			e.clearState(ctx, ev.ConversationID)
			return []dto.Render{dto.NewRender(ev.ConversationID, orderNotFoundText)}
		}
		orderID, orderNumber = order.ID, order.OrderNumber
	} else {
		order, err := e.orders.LatestUserOrder(ctx, ev.SenderID)
		if err != nil {
			if errors.Is(err, apperrors.ErrOrderNotFound) {
				return []dto.Render{e.redirectToIntake(ev.ConversationID)}
			}
			return []dto.Render{dto.NewRender(ev.ConversationID, genericErrorText)}
		}
		orderID, orderNumber = order.ID, order.OrderNumber
	}

	if _, err := e.orders.AddMessage(ctx, dto.AddMessageDTO{
		OrderID: orderID,
		UserID:  ev.SenderID,
		Text:    text,
		IsAdmin: false,
	}); err != nil {
		return []dto.Render{dto.NewRender(ev.ConversationID, genericErrorText)}
	}

	name := ev.FirstName
	if name == "" {
		name = "Клиент"
		if user, err := e.users.FindUser(ctx, ev.SenderID); err == nil {
			name = user.DisplayName()
		}
	}
	staffText := fmt.Sprintf(
		"💬 <b>Сообщение от клиента по заказу #%s</b>\n\n👤 %s (ID: <code>%d</code>)\n\n%s",
		orderNumber, esc(name), ev.SenderID, esc(text),
	)
	actions := [][]dto.Action{
		{{Label: "✉️ Ответить", SelectionKey: fmt.Sprintf("admin_message_%d", orderID)}},
		{{Label: "📋 Открыть заказ", SelectionKey: fmt.Sprintf("admin_order_%d", orderID)}},
	}
	result := e.dispatcher.Broadcast(ctx, e.staffIDs, staffText, actions)
	if len(result.Failed) > 0 {
		e.logger.Warn("не все сотрудники получили сообщение клиента",
			zap.String("order_number", orderNumber),
			zap.Int64s("failed", result.Failed))
	}

	confirm := fmt.Sprintf("✅ Сообщение по заказу #%s передано менеджеру. Мы ответим в ближайшее время!", orderNumber)
	return []dto.Render{dto.NewRender(ev.ConversationID, confirm).WithRow(backAction())}
}

// redirectToIntake - у клиента нет заказов, предлагаем оформить первый.
func (e *Engine) redirectToIntake(conversationID int64) dto.Render {
	return dto.NewRender(conversationID,
		"У вас пока нет заказов. Оформите первый заказ, и менеджер свяжется с вами!").
		WithRow(orderAction()).
		WithRow(backAction())
}
