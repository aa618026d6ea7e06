package dialog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botfactory/internal/dto"
)

func TestStatusChange_KeyWithUnderscoreInStatus(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(7, customerID, "BO-00007", "new")
	ctx := context.Background()

	renders := env.engine.HandleSelection(ctx, selectionFrom(adminID, "setstatus_7_in_progress"))
	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "комментарий")

	state := env.state(t, adminID)
	assert.Equal(t, dto.FlowStatusChange, state.Flow)
	assert.Equal(t, int64(7), state.OrderID)
	assert.Equal(t, "in_progress", state.NewStatus)
}

func TestStatusChange_DashSkipsComment(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(7, customerID, "BO-00007", "new")
	ctx := context.Background()

	env.engine.HandleSelection(ctx, selectionFrom(adminID, "setstatus_7_in_progress"))
	renders := env.engine.HandleText(ctx, textFrom(adminID, "-"))

	require.Len(t, env.orders.statusCalls, 1)
	call := env.orders.statusCalls[0]
	assert.Nil(t, call.Comment)
	assert.Equal(t, adminID, call.AdminID)
	assert.Equal(t, "in_progress", call.NewStatus)

	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "изменён на")
	env.requireNoState(t, adminID)

	// Клиент получил уведомление без блока комментария.
	sent := env.sender.sentTo(customerID)
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].BodyText, "Обновление заказа #BO-00007")
	assert.NotContains(t, sent[0].BodyText, "Комментарий")
}

func TestStatusChange_CommentReachesCustomer(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(7, customerID, "BO-00007", "new")
	ctx := context.Background()

	env.engine.HandleSelection(ctx, selectionFrom(adminID, "setstatus_7_completed"))
	env.engine.HandleText(ctx, textFrom(adminID, "Готово, проверяйте"))

	require.Len(t, env.orders.statusCalls, 1)
	require.NotNil(t, env.orders.statusCalls[0].Comment)
	assert.Equal(t, "Готово, проверяйте", *env.orders.statusCalls[0].Comment)

	sent := env.sender.sentTo(customerID)
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].BodyText, "Готово, проверяйте")
	assert.Contains(t, sent[0].BodyText, "Завершён")
}

func TestStatusChange_InvalidStatusRejected(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(7, customerID, "BO-00007", "new")

	renders := env.engine.HandleSelection(context.Background(), selectionFrom(adminID, "setstatus_7_bogus"))
	require.Len(t, renders, 1)
	assert.Equal(t, orderNotFoundText, renders[0].BodyText)
	env.requireNoState(t, adminID)
	assert.Empty(t, env.orders.statusCalls)
}

func TestStatusChange_MissingOrderRejected(t *testing.T) {
	env := newTestEnv(t)

	renders := env.engine.HandleSelection(context.Background(), selectionFrom(adminID, "setstatus_99_new"))
	require.Len(t, renders, 1)
	assert.Equal(t, orderNotFoundText, renders[0].BodyText)
	env.requireNoState(t, adminID)
}

func TestStatusChange_StoreErrorClearsState(t *testing.T) {
	env := newTestEnv(t)
	order := env.orders.addOrder(7, customerID, "BO-00007", "new")
	ctx := context.Background()

	env.engine.HandleSelection(ctx, selectionFrom(adminID, "setstatus_7_cancelled"))
	delete(env.orders.orders, order.ID)

	renders := env.engine.HandleText(ctx, textFrom(adminID, "комментарий"))
	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "Ошибка при изменении статуса")
	env.requireNoState(t, adminID)
	assert.Empty(t, env.sender.sentTo(customerID))
}
