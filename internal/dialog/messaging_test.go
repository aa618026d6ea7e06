package dialog

import (
	"context"
	"fmt"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botfactory/internal/dto"
	"botfactory/internal/entities"
)

func TestCustomerReply_NoOrdersRedirectsToIntake(t *testing.T) {
	env := newTestEnv(t)

	renders := env.engine.HandleText(context.Background(), textFrom(customerID, "здравствуйте, нужен бот"))
	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "нет заказов")

	// В тред ничего не записано, сотрудники не побеспокоены.
	assert.Empty(t, env.orders.messages)
	assert.Empty(t, env.sender.sent)
}

func TestCustomerReply_RoutesToLatestOrder(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(1, customerID, "BO-00001", "completed")
	env.orders.addOrder(2, customerID, "BO-00002", "new")

	renders := env.engine.HandleText(context.Background(), textFrom(customerID, "когда будет готово?"))
	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "#BO-00002")

	require.Len(t, env.orders.messages, 1)
	msg := env.orders.messages[0]
	assert.Equal(t, int64(2), msg.OrderID)
	assert.Equal(t, customerID, msg.UserID)
	assert.False(t, msg.IsAdmin)

	for _, staffID := range []int64{adminID, admin2ID} {
		sent := env.sender.sentTo(staffID)
		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].BodyText, "#BO-00002")
		assert.Contains(t, sent[0].BodyText, "когда будет готово?")
	}
}

func TestCustomerReply_ProfileNameWhenEventHasNone(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(1, customerID, "BO-00001", "new")
	env.users.users = []entities.User{{UserID: customerID, Username: null.StringFrom("vanya")}}

	ev := dto.TextInput{ConversationID: customerID, SenderID: customerID, Text: "вопрос по заказу"}
	renders := env.engine.HandleText(context.Background(), ev)
	require.Len(t, renders, 1)

	sent := env.sender.sentTo(adminID)
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].BodyText, "@vanya")
}

func TestCustomerReply_TextEscapedForStaff(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(1, customerID, "BO-00001", "new")

	env.engine.HandleText(context.Background(), textFrom(customerID, "сравните 1 < 2 и тег <код>"))

	sent := env.sender.sentTo(adminID)
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].BodyText, "1 &lt; 2")
	assert.Contains(t, sent[0].BodyText, "&lt;код&gt;")
	assert.NotContains(t, sent[0].BodyText, "<код>")

	// В тред заказа текст сохраняется неэкранированным.
	require.Len(t, env.orders.messages, 1)
	assert.Equal(t, "сравните 1 < 2 и тег <код>", env.orders.messages[0].Text)
}

func TestCustomerChat_PinnedOrderSurvivesReplies(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(1, customerID, "BO-00001", "in_progress")
	env.orders.addOrder(2, customerID, "BO-00002", "new")
	ctx := context.Background()

	renders := env.engine.HandleSelection(ctx, selectionFrom(customerID, "chat_order_1"))
	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "Чат по заказу #BO-00001")

	// Оба сообщения уходят в закреплённый заказ, не в последний.
	env.engine.HandleText(ctx, textFrom(customerID, "первое сообщение"))
	env.engine.HandleText(ctx, textFrom(customerID, "второе сообщение"))

	require.Len(t, env.orders.messages, 2)
	for _, msg := range env.orders.messages {
		assert.Equal(t, int64(1), msg.OrderID)
	}

	state := env.state(t, customerID)
	assert.Equal(t, dto.FlowCustomerChat, state.Flow)
	assert.Equal(t, int64(1), state.PinnedOrderID)
}

func TestCustomerChat_GenericButtonPicksLatestOrder(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(3, customerID, "BO-00003", "new")

	renders := env.engine.HandleSelection(context.Background(), selectionFrom(customerID, "start_chat"))
	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "#BO-00003")
	assert.Equal(t, int64(3), env.state(t, customerID).PinnedOrderID)
}

func TestCustomerChat_NoOrdersRedirects(t *testing.T) {
	env := newTestEnv(t)

	renders := env.engine.HandleSelection(context.Background(), selectionFrom(customerID, "start_chat"))
	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "нет заказов")
	env.requireNoState(t, customerID)
}

func TestCustomerChat_PinnedOrderGoneClearsState(t *testing.T) {
	env := newTestEnv(t)
	order := env.orders.addOrder(1, customerID, "BO-00001", "new")
	ctx := context.Background()

	env.engine.HandleSelection(ctx, selectionFrom(customerID, "chat_order_1"))
	delete(env.orders.orders, order.ID)

	renders := env.engine.HandleText(ctx, textFrom(customerID, "ау"))
	require.Len(t, renders, 1)
	assert.Equal(t, orderNotFoundText, renders[0].BodyText)
	env.requireNoState(t, customerID)
}

func TestAdminMessage_DeliveredToCustomerAndThread(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(5, customerID, "BO-00005", "in_progress")
	ctx := context.Background()

	renders := env.engine.HandleSelection(ctx, selectionFrom(adminID, "admin_message_5"))
	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "#BO-00005")

	renders = env.engine.HandleText(ctx, textFrom(adminID, "Уточните, пожалуйста, сроки"))
	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "отправлено клиенту")

	require.Len(t, env.orders.messages, 1)
	msg := env.orders.messages[0]
	assert.Equal(t, int64(5), msg.OrderID)
	assert.Equal(t, customerID, msg.UserID)
	assert.True(t, msg.IsAdmin)
	require.NotNil(t, msg.AdminID)
	assert.Equal(t, adminID, *msg.AdminID)

	sent := env.sender.sentTo(customerID)
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].BodyText, "Уточните, пожалуйста, сроки")
	env.requireNoState(t, adminID)
}

func TestAdminMessage_EmptyTextRepeatsStep(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(5, customerID, "BO-00005", "new")
	ctx := context.Background()

	env.engine.HandleSelection(ctx, selectionFrom(adminID, "admin_message_5"))
	renders := env.engine.HandleText(ctx, textFrom(adminID, "   "))

	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "не может быть пустым")

	// Шаг не продвинулся, следующий текст всё ещё уходит клиенту.
	assert.Equal(t, dto.FlowAdminMessage, env.state(t, adminID).Flow)
	assert.Empty(t, env.orders.messages)
}

func TestAdminMessage_StoreErrorDoesNotNotifyCustomer(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(5, customerID, "BO-00005", "new")
	env.orders.messageErr = fmt.Errorf("БД недоступна")
	ctx := context.Background()

	env.engine.HandleSelection(ctx, selectionFrom(adminID, "admin_message_5"))
	renders := env.engine.HandleText(ctx, textFrom(adminID, "сообщение"))

	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "Не удалось отправить")
	assert.Empty(t, env.sender.sentTo(customerID))
	env.requireNoState(t, adminID)
}
