package dialog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"botfactory/internal/dto"
)

// startBroadcast - вход в массовую рассылку: следующий текст админа
// уйдёт всем пользователям.
func (e *Engine) startBroadcast(ctx context.Context, ev dto.MenuSelection) []dto.Render {
	if !e.saveState(ctx, ev.ConversationID, dto.NewBroadcastState()) {
		return []dto.Render{dto.NewRender(ev.ConversationID, genericErrorText)}
	}

	text := "📢 <b>Массовая рассылка</b>\n\n" +
		"Отправьте сообщение, которое нужно разослать всем пользователям.\n\n" +
		"⚠️ Используйте осторожно!"
	return []dto.Render{dto.NewRender(ev.ConversationID, text)}
}

// sendBroadcast рассылает текст всем пользователям и отчитывается
// счётчиками успехов и отказов. Рассылка не транзакционна: частичная
// доставка - принятое ограничение.
func (e *Engine) sendBroadcast(ctx context.Context, ev dto.TextInput, text string) []dto.Render {
	defer e.clearState(ctx, ev.ConversationID)

	if text == "" {
		return []dto.Render{dto.NewRender(ev.ConversationID, "❌ Текст рассылки не может быть пустым")}
	}

	users, err := e.users.GetAllUsers(ctx)
	if err != nil {
		e.logger.Error("ошибка получения пользователей для рассылки", zap.Error(err))
		return []dto.Render{dto.NewRender(ev.ConversationID, genericErrorText)}
	}

	targets := make([]int64, 0, len(users))
	for _, u := range users {
		targets = append(targets, u.UserID)
	}

	result := e.dispatcher.Broadcast(ctx, targets, text, nil)

	e.logger.Info("рассылка завершена",
		zap.Int64("admin_id", ev.SenderID),
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)))

	report := fmt.Sprintf(
		"✅ <b>Рассылка завершена!</b>\n\n📨 Отправлено: %d\n❌ Ошибок: %d\n👥 Всего: %d",
		len(result.Succeeded), len(result.Failed), len(users),
	)
	return []dto.Render{dto.NewRender(ev.ConversationID, report).
		WithRow(dto.Action{Label: "◀️ В админ-панель", SelectionKey: "admin_panel"})}
}
