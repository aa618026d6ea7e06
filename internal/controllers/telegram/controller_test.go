package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"botfactory/internal/dto"
	tgapi "botfactory/pkg/telegram"
)

type fakeEngine struct {
	texts      []dto.TextInput
	selections []dto.MenuSelection
	renders    []dto.Render
}

func (f *fakeEngine) HandleText(_ context.Context, ev dto.TextInput) []dto.Render {
	f.texts = append(f.texts, ev)
	return f.renders
}

func (f *fakeEngine) HandleSelection(_ context.Context, ev dto.MenuSelection) []dto.Render {
	f.selections = append(f.selections, ev)
	return f.renders
}

type fakeWebhookSender struct {
	sent []dto.Render
}

func (f *fakeWebhookSender) Send(_ context.Context, render dto.Render) error {
	f.sent = append(f.sent, render)
	return nil
}

type editCall struct {
	chatID    int64
	messageID int
	text      string
}

type fakeTgAPI struct {
	answered []string
	edits    []editCall
	editErr  error
}

func (f *fakeTgAPI) SendMessage(_ context.Context, _ int64, _ string, _ ...tgapi.MessageOption) error {
	return nil
}

func (f *fakeTgAPI) AnswerCallbackQuery(_ context.Context, callbackQueryID string, _ string) error {
	f.answered = append(f.answered, callbackQueryID)
	return nil
}

func (f *fakeTgAPI) EditMessageText(_ context.Context, chatID int64, messageID int, text string, _ ...tgapi.MessageOption) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, editCall{chatID: chatID, messageID: messageID, text: text})
	return nil
}

func (f *fakeTgAPI) RegisterWebhook(_ context.Context, _ string) error {
	return nil
}

type webhookEnv struct {
	controller *Controller
	engine     *fakeEngine
	sender     *fakeWebhookSender
	api        *fakeTgAPI
}

func newWebhookEnv() *webhookEnv {
	env := &webhookEnv{
		engine: &fakeEngine{},
		sender: &fakeWebhookSender{},
		api:    &fakeTgAPI{},
	}
	env.controller = NewController(env.engine, env.sender, env.api, zap.NewNop())
	return env
}

func (env *webhookEnv) post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/telegram", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, env.controller.HandleWebhook(e.NewContext(req, rec)))
	return rec
}

func TestHandleWebhook_CommandMapsToMenuKey(t *testing.T) {
	env := newWebhookEnv()

	rec := env.post(t, `{"update_id":1,"message":{"message_id":10,"from":{"id":100,"first_name":"Иван","username":"ivan"},"chat":{"id":100},"text":"/order"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, env.engine.selections, 1)
	sel := env.engine.selections[0]
	assert.Equal(t, "order", sel.SelectionKey)
	assert.Equal(t, int64(100), sel.SenderID)
	assert.Equal(t, int64(100), sel.ConversationID)
	assert.Empty(t, env.engine.texts)
}

func TestHandleWebhook_CommandWithBotMentionAndArgs(t *testing.T) {
	env := newWebhookEnv()

	env.post(t, `{"update_id":1,"message":{"from":{"id":100},"chat":{"id":100},"text":"/orders@botfactory_bot список"}}`)
	require.Len(t, env.engine.selections, 1)
	assert.Equal(t, "my_orders", env.engine.selections[0].SelectionKey)
}

func TestHandleWebhook_UnknownCommandFallsBackToStart(t *testing.T) {
	env := newWebhookEnv()

	env.post(t, `{"update_id":1,"message":{"from":{"id":100},"chat":{"id":100},"text":"/unknown"}}`)
	require.Len(t, env.engine.selections, 1)
	assert.Equal(t, "start", env.engine.selections[0].SelectionKey)
}

func TestHandleWebhook_PlainTextGoesToHandleText(t *testing.T) {
	env := newWebhookEnv()

	env.post(t, `{"update_id":1,"message":{"from":{"id":100,"first_name":"Иван"},"chat":{"id":100},"text":"хочу бота для магазина"}}`)
	require.Len(t, env.engine.texts, 1)
	assert.Equal(t, "хочу бота для магазина", env.engine.texts[0].Text)
	assert.Empty(t, env.engine.selections)
}

func TestHandleWebhook_CallbackAnsweredAndEditsInPlace(t *testing.T) {
	env := newWebhookEnv()
	env.engine.renders = []dto.Render{dto.NewRender(100, "ответ")}

	env.post(t, `{"update_id":1,"callback_query":{"id":"cb-1","from":{"id":100,"first_name":"Иван"},"message":{"message_id":5,"chat":{"id":100}},"data":"my_orders"}}`)

	assert.Equal(t, []string{"cb-1"}, env.api.answered)
	require.Len(t, env.engine.selections, 1)
	assert.Equal(t, "my_orders", env.engine.selections[0].SelectionKey)

	// Сообщение с меню редактируется на месте, новое не отправляется.
	require.Len(t, env.api.edits, 1)
	assert.Equal(t, editCall{chatID: 100, messageID: 5, text: "ответ"}, env.api.edits[0])
	assert.Empty(t, env.sender.sent)
}

func TestHandleWebhook_CallbackEditFailureFallsBackToSend(t *testing.T) {
	env := newWebhookEnv()
	env.engine.renders = []dto.Render{dto.NewRender(100, "ответ")}
	env.api.editErr = fmt.Errorf("message is not modified")

	env.post(t, `{"update_id":1,"callback_query":{"id":"cb-1","from":{"id":100},"message":{"message_id":5,"chat":{"id":100}},"data":"my_orders"}}`)

	require.Len(t, env.sender.sent, 1)
	assert.Equal(t, "ответ", env.sender.sent[0].BodyText)
}

func TestHandleWebhook_CallbackWithoutMessageSendsNew(t *testing.T) {
	env := newWebhookEnv()
	env.engine.renders = []dto.Render{dto.NewRender(777, "ответ")}

	env.post(t, `{"update_id":1,"callback_query":{"id":"cb-3","from":{"id":777},"data":"my_orders"}}`)

	assert.Empty(t, env.api.edits)
	require.Len(t, env.sender.sent, 1)
}

func TestHandleWebhook_CallbackExtraRendersSentAsNewMessages(t *testing.T) {
	env := newWebhookEnv()
	env.engine.renders = []dto.Render{dto.NewRender(100, "первое"), dto.NewRender(100, "второе")}

	env.post(t, `{"update_id":1,"callback_query":{"id":"cb-4","from":{"id":100},"message":{"message_id":5,"chat":{"id":100}},"data":"start"}}`)

	require.Len(t, env.api.edits, 1)
	assert.Equal(t, "первое", env.api.edits[0].text)
	require.Len(t, env.sender.sent, 1)
	assert.Equal(t, "второе", env.sender.sent[0].BodyText)
}

func TestHandleWebhook_CallbackWithoutMessageUsesSenderID(t *testing.T) {
	env := newWebhookEnv()

	env.post(t, `{"update_id":1,"callback_query":{"id":"cb-2","from":{"id":777},"data":"start"}}`)
	require.Len(t, env.engine.selections, 1)
	assert.Equal(t, int64(777), env.engine.selections[0].ConversationID)
}

func TestHandleWebhook_MalformedBodyRejected(t *testing.T) {
	env := newWebhookEnv()

	rec := env.post(t, `не json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.engine.texts)
	assert.Empty(t, env.engine.selections)
}

func TestHandleWebhook_EmptyUpdateIgnored(t *testing.T) {
	env := newWebhookEnv()

	rec := env.post(t, `{"update_id":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.engine.texts)
	assert.Empty(t, env.engine.selections)
}

func TestToKeyboard_MapsActionsToButtons(t *testing.T) {
	rows := toKeyboard([][]dto.Action{
		{{Label: "📦 Мои заказы", SelectionKey: "my_orders"}},
		{{Label: "🏠 Главное меню", SelectionKey: "start"}},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "my_orders", rows[0][0].CallbackData)
	assert.Equal(t, "📦 Мои заказы", rows[0][0].Text)
}
