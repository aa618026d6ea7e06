package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	path    string
	payload map[string]interface{}
}

// поднимает фейковый Telegram API и сервис, смотрящий на него
func newTestService(t *testing.T, response string) (*Service, *[]recordedCall) {
	t.Helper()

	var calls []recordedCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		calls = append(calls, recordedCall{path: r.URL.Path, payload: payload})
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	svc := &Service{
		botToken:   "test-token",
		apiHost:    srv.URL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
	return svc, &calls
}

func TestSendMessage_BuildsRequest(t *testing.T) {
	svc, calls := newTestService(t, `{"ok":true}`)

	err := svc.SendMessage(context.Background(), 42, "<b>привет</b>",
		WithHTML(),
		WithKeyboard([][]InlineKeyboardButton{{{Text: "Меню", CallbackData: "start"}}}),
	)
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/bottest-token/sendMessage", call.path)
	assert.Equal(t, float64(42), call.payload["chat_id"])
	assert.Equal(t, "<b>привет</b>", call.payload["text"])
	assert.Equal(t, "HTML", call.payload["parse_mode"])
	assert.Contains(t, call.payload, "reply_markup")
}

func TestSendMessage_EmptyKeyboardOmitsMarkup(t *testing.T) {
	svc, calls := newTestService(t, `{"ok":true}`)

	require.NoError(t, svc.SendMessage(context.Background(), 42, "текст", WithKeyboard(nil)))
	require.Len(t, *calls, 1)
	assert.NotContains(t, (*calls)[0].payload, "reply_markup")
}

func TestSendMessage_APIErrorSurfaced(t *testing.T) {
	svc, _ := newTestService(t, `{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`)

	err := svc.SendMessage(context.Background(), 42, "текст")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "blocked")
}

func TestEditMessageText_ZeroIDFallsBackToSend(t *testing.T) {
	svc, calls := newTestService(t, `{"ok":true}`)

	require.NoError(t, svc.EditMessageText(context.Background(), 42, 0, "текст"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "/bottest-token/sendMessage", (*calls)[0].path)
}

func TestRegisterWebhook_AppendsWebhookPath(t *testing.T) {
	svc, calls := newTestService(t, `{"ok":true}`)

	require.NoError(t, svc.RegisterWebhook(context.Background(), "https://bot.example.com/"))
	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/bottest-token/setWebhook", call.path)
	assert.Equal(t, "https://bot.example.com/api/webhooks/telegram", call.payload["url"])
}

func TestRegisterWebhook_EmptyBaseURL(t *testing.T) {
	svc, _ := newTestService(t, `{"ok":true}`)
	assert.Error(t, svc.RegisterWebhook(context.Background(), ""))
}

func TestAnswerCallbackQuery_RequiresID(t *testing.T) {
	svc, _ := newTestService(t, `{"ok":true}`)
	assert.Error(t, svc.AnswerCallbackQuery(context.Background(), "", "текст"))
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "a &amp;&amp; b &lt;c&gt;", EscapeHTML("a && b <c>"))
	assert.Equal(t, "обычный текст", EscapeHTML("обычный текст"))
}
