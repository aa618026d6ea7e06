// Пакет telegram - адаптер вебхука Bot API: переводит обновления в
// события ядра и отправляет ответные Render обратно в чат.
package telegram

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"botfactory/internal/dialog"
	"botfactory/internal/dto"
	"botfactory/internal/services"
	"botfactory/pkg/telegram"
)

// Команды дублируют пункты меню: оба пути ведут в один обработчик ядра.
var commandSelections = map[string]string{
	"/start":  "start",
	"/help":   "start",
	"/order":  "order",
	"/orders": "my_orders",
	"/admin":  "admin_panel",
	"/stats":  "admin_stats",
}

type Controller struct {
	engine    dialog.EngineInterface
	sender    services.Sender
	tgService telegram.ServiceInterface
	logger    *zap.Logger
}

func NewController(
	engine dialog.EngineInterface,
	sender services.Sender,
	tgService telegram.ServiceInterface,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		engine:    engine,
		sender:    sender,
		tgService: tgService,
		logger:    logger,
	}
}

// HandleWebhook принимает обновление и обрабатывает его до конца перед
// ответом: Telegram шлёт вебхуки одного чата последовательно, и этот
// порядок - гарантия порядка событий внутри диалога.
func (c *Controller) HandleWebhook(ctx echo.Context) error {
	var update Update
	if err := ctx.Bind(&update); err != nil {
		c.logger.Error("не удалось распарсить обновление от Telegram", zap.Error(err))
		return ctx.NoContent(http.StatusBadRequest)
	}

	reqCtx := ctx.Request().Context()

	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		query := update.CallbackQuery
		if err := c.tgService.AnswerCallbackQuery(reqCtx, query.ID, ""); err != nil {
			c.logger.Warn("не удалось подтвердить callback", zap.Error(err))
		}

		conversationID := query.From.ID
		messageID := 0
		if query.Message != nil {
			conversationID = query.Message.Chat.ID
			messageID = query.Message.MessageID
		}

		renders := c.engine.HandleSelection(reqCtx, dto.MenuSelection{
			ConversationID: conversationID,
			SenderID:       query.From.ID,
			SelectionKey:   query.Data,
			Username:       query.From.Username,
			FirstName:      query.From.FirstName,
			LastName:       query.From.LastName,
		})
		c.deliverCallback(ctx, renders, conversationID, messageID)

	case update.Message != nil && update.Message.From != nil && update.Message.Text != "":
		msg := update.Message
		text := strings.TrimSpace(msg.Text)

		// Команды сводятся к тем же ключам меню.
		if strings.HasPrefix(text, "/") {
			command := strings.SplitN(text, " ", 2)[0]
			command = strings.SplitN(command, "@", 2)[0]
			key, ok := commandSelections[command]
			if !ok {
				key = "start"
			}
			renders := c.engine.HandleSelection(reqCtx, dto.MenuSelection{
				ConversationID: msg.Chat.ID,
				SenderID:       msg.From.ID,
				SelectionKey:   key,
				Username:       msg.From.Username,
				FirstName:      msg.From.FirstName,
				LastName:       msg.From.LastName,
			})
			c.deliver(ctx, renders)
			break
		}

		renders := c.engine.HandleText(reqCtx, dto.TextInput{
			ConversationID: msg.Chat.ID,
			SenderID:       msg.From.ID,
			Text:           msg.Text,
			Username:       msg.From.Username,
			FirstName:      msg.From.FirstName,
			LastName:       msg.From.LastName,
		})
		c.deliver(ctx, renders)
	}

	return ctx.NoContent(http.StatusOK)
}

func (c *Controller) deliver(ctx echo.Context, renders []dto.Render) {
	for _, render := range renders {
		if err := c.sender.Send(ctx.Request().Context(), render); err != nil {
			c.logger.Error("ошибка отправки ответа в Telegram",
				zap.Int64("target_id", render.TargetID), zap.Error(err))
		}
	}
}

// deliverCallback заменяет сообщение с нажатой кнопкой первым Render -
// меню обновляется на месте, без лестницы дублей в чате. Остальные
// Render и случаи без исходного сообщения уходят новыми сообщениями;
// неудавшееся редактирование тоже откатывается в обычную отправку.
func (c *Controller) deliverCallback(ctx echo.Context, renders []dto.Render, chatID int64, messageID int) {
	if len(renders) == 0 {
		return
	}

	rest := renders
	first := renders[0]
	if messageID != 0 && first.TargetID == chatID {
		err := c.tgService.EditMessageText(ctx.Request().Context(), chatID, messageID, first.BodyText, messageOptions(first)...)
		if err == nil {
			rest = renders[1:]
		} else {
			c.logger.Warn("не удалось отредактировать сообщение, отправляем новое",
				zap.Int64("chat_id", chatID), zap.Int("message_id", messageID), zap.Error(err))
		}
	}
	c.deliver(ctx, rest)
}
