package dialog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botfactory/internal/entities"
)

func TestOrderDetail_ForeignOrderHiddenFromCustomer(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(1, customerID, "BO-00001", "new")
	otherCustomer := int64(200)

	renders := env.engine.HandleSelection(context.Background(), selectionFrom(otherCustomer, "view_order_1"))
	require.Len(t, renders, 1)
	assert.Equal(t, orderNotFoundText, renders[0].BodyText)
}

func TestOrderDetail_AdminSeesAnyOrder(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(1, customerID, "BO-00001", "new")

	renders := env.engine.HandleSelection(context.Background(), selectionFrom(adminID, "view_order_1"))
	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "Заказ #BO-00001")
}

func TestMyOrders_EmptyListSuggestsIntake(t *testing.T) {
	env := newTestEnv(t)

	renders := env.engine.HandleSelection(context.Background(), selectionFrom(customerID, "my_orders"))
	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "пока нет заказов")

	var keys []string
	for _, row := range renders[0].Actions {
		for _, a := range row {
			keys = append(keys, a.SelectionKey)
		}
	}
	assert.Contains(t, keys, "order")
}

func TestMyOrders_ListsOwnOrdersOnly(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(1, customerID, "BO-00001", "new")
	env.orders.addOrder(2, int64(200), "BO-00002", "new")

	renders := env.engine.HandleSelection(context.Background(), selectionFrom(customerID, "my_orders"))
	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "#BO-00001")
	assert.NotContains(t, renders[0].BodyText, "#BO-00002")
}

func TestAdminPanel_ShowsOnlyNonZeroStatusCounts(t *testing.T) {
	env := newTestEnv(t)
	env.stats.stats = &entities.Statistics{
		TotalUsers:  12,
		TotalOrders: 5,
		OrdersByStatus: map[string]int{
			"new":       3,
			"completed": 2,
			"cancelled": 0,
		},
	}

	renders := env.engine.HandleSelection(context.Background(), selectionFrom(adminID, "admin_panel"))
	require.Len(t, renders, 1)
	body := renders[0].BodyText
	assert.Contains(t, body, "Всего пользователей: 12")
	assert.Contains(t, body, "🆕 Новый: 3")
	assert.Contains(t, body, "✅ Завершён: 2")
	assert.NotContains(t, body, "Отменён")
}

func TestStatusMenu_OffersEveryStatus(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(4, customerID, "BO-00004", "new")

	renders := env.engine.HandleSelection(context.Background(), selectionFrom(adminID, "admin_status_4"))
	require.Len(t, renders, 1)

	var keys []string
	for _, row := range renders[0].Actions {
		for _, a := range row {
			keys = append(keys, a.SelectionKey)
		}
	}
	for _, status := range []string{"new", "in_progress", "review", "revision", "completed", "cancelled", "paid"} {
		assert.Contains(t, keys, "setstatus_4_"+status)
	}
}

func TestAdminNewOrders_FiltersByStatus(t *testing.T) {
	env := newTestEnv(t)
	env.orders.addOrder(1, customerID, "BO-00001", "new")
	env.orders.addOrder(2, customerID, "BO-00002", "completed")

	renders := env.engine.HandleSelection(context.Background(), selectionFrom(adminID, "admin_new_orders"))
	require.Len(t, renders, 1)
	assert.Contains(t, renders[0].BodyText, "Новые заказы (1)")
}
