package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"botfactory/internal/dto"
)

type recordingSender struct {
	failFor map[int64]bool
	sent    []dto.Render
}

func (s *recordingSender) Send(_ context.Context, render dto.Render) error {
	if s.failFor[render.TargetID] {
		return fmt.Errorf("получатель %d недоступен", render.TargetID)
	}
	s.sent = append(s.sent, render)
	return nil
}

func TestBroadcast_IsolatesRecipientFailures(t *testing.T) {
	sender := &recordingSender{failFor: map[int64]bool{2: true, 4: true}}
	d := NewDispatcher(sender, zap.NewNop())

	result := d.Broadcast(context.Background(), []int64{1, 2, 3, 4, 5}, "всем привет", nil)

	assert.Equal(t, []int64{1, 3, 5}, result.Succeeded)
	assert.Equal(t, []int64{2, 4}, result.Failed)
	assert.Len(t, sender.sent, 3)
}

func TestBroadcast_EmptyTargetList(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, zap.NewNop())

	result := d.Broadcast(context.Background(), nil, "текст", nil)

	assert.Empty(t, result.Succeeded)
	assert.Empty(t, result.Failed)
	assert.Empty(t, sender.sent)
}

func TestBroadcast_AttachesSameActionsToEveryRecipient(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, zap.NewNop())

	actions := [][]dto.Action{{{Label: "Открыть", SelectionKey: "admin_order_1"}}}
	d.Broadcast(context.Background(), []int64{10, 20}, "новый заказ", actions)

	for _, r := range sender.sent {
		assert.Equal(t, actions, r.Actions)
		assert.Equal(t, "новый заказ", r.BodyText)
	}
}

func TestNotify_SwallowsDeliveryError(t *testing.T) {
	sender := &recordingSender{failFor: map[int64]bool{7: true}}
	d := NewDispatcher(sender, zap.NewNop())

	// Паники и возврата ошибки нет, отказ фиксируется только в логе.
	d.Notify(context.Background(), dto.NewRender(7, "сообщение"))
	assert.Empty(t, sender.sent)
}
