// Пакет dialog - ядро диалогов: анкета заказа, смена статуса,
// переписка по заказам и рассылка. Пакет не знает о транспорте:
// на входе события TextInput/MenuSelection, на выходе Render.
package dialog

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"botfactory/internal/dto"
	"botfactory/internal/repositories"
	"botfactory/internal/services"
	apperrors "botfactory/pkg/errors"
)

const (
	genericErrorText = "❌ Произошла ошибка. Пожалуйста, попробуйте позже."
	orderNotFoundText = "❌ Заказ не найден"
	noAccessText      = "❌ У вас нет прав администратора"
)

type EngineInterface interface {
	HandleText(ctx context.Context, ev dto.TextInput) []dto.Render
	HandleSelection(ctx context.Context, ev dto.MenuSelection) []dto.Render
}

// Engine - единая точка входа для обоих типов событий. Командные и
// кнопочные триггеры одной операции сходятся в один обработчик.
type Engine struct {
	users      services.UserServiceInterface
	orders     services.OrderServiceInterface
	stats      services.StatsServiceInterface
	reviews    services.ReviewServiceInterface
	sessions   repositories.SessionRepositoryInterface
	dispatcher services.DispatcherInterface
	staffIDs   []int64
	logger     *zap.Logger
}

func NewEngine(
	users services.UserServiceInterface,
	orders services.OrderServiceInterface,
	stats services.StatsServiceInterface,
	reviews services.ReviewServiceInterface,
	sessions repositories.SessionRepositoryInterface,
	dispatcher services.DispatcherInterface,
	staffIDs []int64,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		users:      users,
		orders:     orders,
		stats:      stats,
		reviews:    reviews,
		sessions:   sessions,
		dispatcher: dispatcher,
		staffIDs:   staffIDs,
		logger:     logger,
	}
}

// HandleText обрабатывает свободный текст. Если у диалога есть активное
// состояние, текст уходит в текущий шаг потока; иначе клиентский текст
// трактуется как ответ по заказу (или приглашение оформить первый).
func (e *Engine) HandleText(ctx context.Context, ev dto.TextInput) []dto.Render {
	isAdmin := e.registerContact(ctx, ev.SenderID, ev.Username, ev.FirstName, ev.LastName)

	state, err := e.sessions.GetState(ctx, ev.ConversationID)
	if err != nil && !errors.Is(err, apperrors.ErrStateNotFound) {
		e.logger.Error("ошибка чтения состояния диалога",
			zap.Int64("conversation_id", ev.ConversationID), zap.Error(err))
		return []dto.Render{dto.NewRender(ev.ConversationID, genericErrorText)}
	}

	text := strings.TrimSpace(ev.Text)

	if state != nil {
		switch state.Flow {
		case dto.FlowIntake:
			return e.handleIntakeText(ctx, ev, state, text)
		case dto.FlowStatusChange:
			return e.finishStatusChange(ctx, ev, state, text)
		case dto.FlowAdminMessage:
			return e.sendAdminMessage(ctx, ev, state, text)
		case dto.FlowBroadcast:
			return e.sendBroadcast(ctx, ev, text)
		case dto.FlowCustomerChat:
			return e.routeCustomerReply(ctx, ev, state.PinnedOrderID, text)
		default:
			e.clearState(ctx, ev.ConversationID)
		}
	}

	if isAdmin {
		return []dto.Render{e.mainMenu(ctx, ev.SenderID, ev.FirstName, true)}
	}
	return e.routeCustomerReply(ctx, ev, 0, text)
}

// HandleSelection обрабатывает нажатие кнопки меню.
func (e *Engine) HandleSelection(ctx context.Context, ev dto.MenuSelection) []dto.Render {
	isAdmin := e.registerContact(ctx, ev.SenderID, ev.Username, ev.FirstName, ev.LastName)

	key := ev.SelectionKey

	switch {
	case key == "start":
		// Возврат в главное меню сбрасывает любой активный поток.
		e.clearState(ctx, ev.ConversationID)
		return []dto.Render{e.mainMenu(ctx, ev.SenderID, ev.FirstName, isAdmin)}
	case key == "order":
		return e.startIntake(ctx, ev)
	case key == "cancel_order":
		return e.cancelIntake(ctx, ev)
	case strings.HasPrefix(key, "tariff_"):
		return e.selectTariff(ctx, ev, strings.TrimPrefix(key, "tariff_"))
	case strings.HasPrefix(key, "budget_"):
		return e.selectBudget(ctx, ev, strings.TrimPrefix(key, "budget_"))
	case key == "my_orders":
		return []dto.Render{e.myOrders(ctx, ev.SenderID)}
	case strings.HasPrefix(key, "view_order_"):
		return e.orderDetail(ctx, ev, parseID(key, "view_order_"))
	case key == "tariffs":
		return []dto.Render{e.tariffList(ev.SenderID)}
	case key == "reviews":
		return []dto.Render{e.reviewList(ctx, ev.SenderID)}
	case key == "about":
		return []dto.Render{e.aboutScreen(ev.SenderID)}
	case key == "support":
		return []dto.Render{e.supportScreen(ev.SenderID)}
	case key == "portfolio":
		return []dto.Render{e.portfolioScreen(ev.SenderID)}
	case key == "start_chat":
		return e.startCustomerChat(ctx, ev, 0)
	case strings.HasPrefix(key, "chat_order_"):
		return e.startCustomerChat(ctx, ev, parseID(key, "chat_order_"))
	}

	// Дальше только админские операции.
	if !isAdmin {
		e.logger.Warn("попытка доступа к админ-функции",
			zap.Int64("user_id", ev.SenderID), zap.String("key", key))
		return []dto.Render{dto.NewRender(ev.ConversationID, noAccessText)}
	}

	switch {
	case key == "admin_panel":
		e.clearState(ctx, ev.ConversationID)
		return []dto.Render{e.adminPanel(ctx, ev.SenderID)}
	case key == "admin_orders":
		return []dto.Render{e.adminOrders(ctx, ev.SenderID, "")}
	case key == "admin_new_orders":
		return []dto.Render{e.adminOrders(ctx, ev.SenderID, "new")}
	case key == "admin_users":
		return []dto.Render{e.adminUsers(ctx, ev.SenderID)}
	case key == "admin_stats":
		return []dto.Render{e.adminStats(ctx, ev.SenderID)}
	case key == "admin_broadcast":
		return e.startBroadcast(ctx, ev)
	case strings.HasPrefix(key, "admin_order_"):
		return []dto.Render{e.adminOrderDetail(ctx, ev.SenderID, parseID(key, "admin_order_"))}
	case strings.HasPrefix(key, "admin_status_"):
		return []dto.Render{e.statusMenu(ctx, ev.SenderID, parseID(key, "admin_status_"))}
	case strings.HasPrefix(key, "setstatus_"):
		return e.startStatusChange(ctx, ev)
	case strings.HasPrefix(key, "admin_history_"):
		return []dto.Render{e.orderHistory(ctx, ev.SenderID, parseID(key, "admin_history_"))}
	case strings.HasPrefix(key, "admin_chat_"):
		return []dto.Render{e.chatHistory(ctx, ev.SenderID, parseID(key, "admin_chat_"))}
	case strings.HasPrefix(key, "admin_message_"):
		return e.startAdminMessage(ctx, ev, parseID(key, "admin_message_"))
	}

	e.logger.Debug("неизвестный пункт меню", zap.String("key", key))
	return []dto.Render{e.mainMenu(ctx, ev.SenderID, ev.FirstName, isAdmin)}
}

// registerContact обновляет профиль на каждое событие. Ошибка хранилища
// не прерывает обработку: пользователь просто считается не-админом.
func (e *Engine) registerContact(ctx context.Context, id int64, username, firstName, lastName string) bool {
	isAdmin, err := e.users.RegisterContact(ctx, id, username, firstName, lastName)
	if err != nil {
		e.logger.Error("ошибка регистрации пользователя", zap.Int64("user_id", id), zap.Error(err))
		return false
	}
	return isAdmin
}

func (e *Engine) clearState(ctx context.Context, conversationID int64) {
	if err := e.sessions.ClearState(ctx, conversationID); err != nil {
		e.logger.Error("ошибка очистки состояния диалога",
			zap.Int64("conversation_id", conversationID), zap.Error(err))
	}
}

func (e *Engine) saveState(ctx context.Context, conversationID int64, state *dto.DialogState) bool {
	if err := e.sessions.SetState(ctx, conversationID, state); err != nil {
		e.logger.Error("ошибка сохранения состояния диалога",
			zap.Int64("conversation_id", conversationID), zap.Error(err))
		return false
	}
	return true
}

// parseID достаёт числовой ID из ключа вида prefix_123.
// Некорректный хвост даёт 0, дальше это обычный "заказ не найден".
func parseID(key, prefix string) int64 {
	id, _ := strconv.ParseInt(strings.TrimPrefix(key, prefix), 10, 64)
	return id
}
