package dto

// Формы событий внешнего канала. Ядро диалога потребляет только эти
// две структуры и не знает, каким транспортом они доставлены.

// TextInput - свободный текст от пользователя.
type TextInput struct {
	ConversationID int64
	SenderID       int64
	Text           string

	// Профиль отправителя из канала, для upsert-а пользователя.
	Username  string
	FirstName string
	LastName  string
}

// MenuSelection - выбор пункта меню (нажатие кнопки).
type MenuSelection struct {
	ConversationID int64
	SenderID       int64
	SelectionKey   string

	Username  string
	FirstName string
	LastName  string
}

// Action - кнопка в ответном сообщении.
type Action struct {
	Label        string
	SelectionKey string
}

// Render - запрос на отрисовку сообщения получателю. Канал сам
// отвечает за доставку и форматирование.
type Render struct {
	TargetID int64
	BodyText string
	Actions  [][]Action
}

// NewRender - сообщение без кнопок.
func NewRender(targetID int64, body string) Render {
	return Render{TargetID: targetID, BodyText: body}
}

// WithRow добавляет ряд кнопок.
func (r Render) WithRow(actions ...Action) Render {
	r.Actions = append(r.Actions, actions)
	return r
}
