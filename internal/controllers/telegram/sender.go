package telegram

import (
	"context"

	"botfactory/internal/dto"
	"botfactory/pkg/telegram"
)

// Sender доставляет Render-запросы ядра в Telegram. Кнопки Render
// превращаются в inline-клавиатуру, selection key едет в callback data.
type Sender struct {
	tgService telegram.ServiceInterface
}

func NewSender(tgService telegram.ServiceInterface) *Sender {
	return &Sender{tgService: tgService}
}

func (s *Sender) Send(ctx context.Context, render dto.Render) error {
	return s.tgService.SendMessage(ctx, render.TargetID, render.BodyText, messageOptions(render)...)
}

func messageOptions(render dto.Render) []telegram.MessageOption {
	options := []telegram.MessageOption{telegram.WithHTML()}
	if keyboard := toKeyboard(render.Actions); len(keyboard) > 0 {
		options = append(options, telegram.WithKeyboard(keyboard))
	}
	return options
}

func toKeyboard(actions [][]dto.Action) [][]telegram.InlineKeyboardButton {
	if len(actions) == 0 {
		return nil
	}
	rows := make([][]telegram.InlineKeyboardButton, 0, len(actions))
	for _, actionRow := range actions {
		row := make([]telegram.InlineKeyboardButton, 0, len(actionRow))
		for _, action := range actionRow {
			row = append(row, telegram.InlineKeyboardButton{
				Text:         action.Label,
				CallbackData: action.SelectionKey,
			})
		}
		rows = append(rows, row)
	}
	return rows
}
