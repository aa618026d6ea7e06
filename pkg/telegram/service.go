// Файл: pkg/telegram/service.go
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type ServiceInterface interface {
	SendMessage(ctx context.Context, chatID int64, text string, options ...MessageOption) error
	AnswerCallbackQuery(ctx context.Context, callbackQueryID string, text string) error
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, options ...MessageOption) error
	RegisterWebhook(ctx context.Context, baseURL string) error
}

type Service struct {
	botToken   string
	apiHost    string
	httpClient *http.Client
	debug      bool
}

func NewService(botToken string) ServiceInterface {
	debug := strings.Contains(strings.ToLower(os.Getenv("DEBUG")), "telegram")

	return &Service{
		botToken:   botToken,
		apiHost:    "https://api.telegram.org",
		httpClient: &http.Client{Timeout: 15 * time.Second},
		debug:      debug,
	}
}

type sendMessageRequest struct {
	ChatID      int64       `json:"chat_id"`
	Text        string      `json:"text"`
	ParseMode   string      `json:"parse_mode,omitempty"`
	ReplyMarkup interface{} `json:"reply_markup,omitempty"`
}

type editMessageTextRequest struct {
	ChatID      int64       `json:"chat_id"`
	MessageID   int         `json:"message_id"`
	Text        string      `json:"text"`
	ParseMode   string      `json:"parse_mode,omitempty"`
	ReplyMarkup interface{} `json:"reply_markup,omitempty"`
}

type callbackQueryRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
}

type setWebhookRequest struct {
	URL string `json:"url"`
}

type inlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type MessageOption func(*sendMessageRequest)

func WithKeyboard(rows [][]InlineKeyboardButton) MessageOption {
	return func(req *sendMessageRequest) {
		if len(rows) > 0 {
			req.ReplyMarkup = inlineKeyboardMarkup{InlineKeyboard: rows}
		}
	}
}

func WithHTML() MessageOption {
	return func(req *sendMessageRequest) {
		req.ParseMode = "HTML"
	}
}

func (s *Service) SendMessage(ctx context.Context, chatID int64, text string, options ...MessageOption) error {
	reqPayload := &sendMessageRequest{
		ChatID: chatID,
		Text:   text,
	}
	for _, opt := range options {
		opt(reqPayload)
	}
	return s.sendRequest(ctx, "sendMessage", reqPayload)
}

func (s *Service) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, options ...MessageOption) error {
	if messageID == 0 {
		return s.SendMessage(ctx, chatID, text, options...)
	}

	editReq := &editMessageTextRequest{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	}

	tempSendReq := &sendMessageRequest{}
	for _, opt := range options {
		opt(tempSendReq)
	}
	editReq.ParseMode = tempSendReq.ParseMode
	editReq.ReplyMarkup = tempSendReq.ReplyMarkup

	return s.sendRequest(ctx, "editMessageText", editReq)
}

func (s *Service) AnswerCallbackQuery(ctx context.Context, callbackQueryID string, text string) error {
	if callbackQueryID == "" {
		return fmt.Errorf("callbackQueryID не может быть пустым")
	}
	return s.sendRequest(ctx, "answerCallbackQuery", callbackQueryRequest{
		CallbackQueryID: callbackQueryID,
		Text:            text,
	})
}

func (s *Service) RegisterWebhook(ctx context.Context, baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("SERVER_BASE_URL не задан, webhook не зарегистрирован")
	}
	url := strings.TrimRight(baseURL, "/") + "/api/webhooks/telegram"
	return s.sendRequest(ctx, "setWebhook", setWebhookRequest{URL: url})
}

func (s *Service) sendRequest(ctx context.Context, methodName string, payload interface{}) error {
	if s.botToken == "" {
		return fmt.Errorf("токен Telegram-бота не установлен")
	}

	apiURL := fmt.Sprintf("%s/bot%s/%s", s.apiHost, s.botToken, methodName)

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка отправки запроса в Telegram: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if s.debug {
		fmt.Printf("[telegram] %s\nRequest: %s\nResponse: %s\n\n", methodName, string(reqBody), string(body))
	}

	// Telegram отвечает 200 OK даже при ошибках, смотрим поле ok.
	var telegramResp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description,omitempty"`
		ErrorCode   int    `json:"error_code,omitempty"`
	}
	if err := json.Unmarshal(body, &telegramResp); err != nil {
		return fmt.Errorf("ошибка декодирования ответа Telegram API: %w", err)
	}
	if !telegramResp.OK {
		return fmt.Errorf("telegram API ошибка (%s): код %d, описание: %s",
			methodName, telegramResp.ErrorCode, telegramResp.Description)
	}
	return nil
}

// EscapeHTML экранирует спецсимволы для parse_mode=HTML.
func EscapeHTML(text string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	return replacer.Replace(text)
}
