package dialog

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"botfactory/internal/catalog"
	"botfactory/internal/dto"
)

// Границы полей анкеты. Повторяются validator-тегами CreateOrderDTO:
// пошаговая проверка даёт точную подсказку, финальная страхует запись.
const (
	nameMinLen        = 2
	nameMaxLen        = 100
	descriptionMinLen = 10
	descriptionMaxLen = 2000
	contactMinLen     = 3
	contactMaxLen     = 200
)

const staleDialogText = "⏳ Диалог устарел. Начните оформление заказа заново."

// startIntake - вход в анкету заказа, шаг 1: выбор тарифа.
func (e *Engine) startIntake(ctx context.Context, ev dto.MenuSelection) []dto.Render {
	if !e.saveState(ctx, ev.ConversationID, dto.NewIntakeState()) {
		return []dto.Render{dto.NewRender(ev.ConversationID, genericErrorText)}
	}

	text := "🛒 <b>Оформление заказа</b>\n\n" +
		"Шаг 1/5: Выберите подходящий тариф\n\n" +
		"Если у вас индивидуальный проект, выберите тариф " +
		"«Индивидуальный», и мы рассчитаем стоимость."

	render := dto.NewRender(ev.ConversationID, text)
	for _, key := range catalog.TariffOrder {
		tariff := catalog.Tariffs[key]
		render = render.WithRow(dto.Action{
			Label:        fmt.Sprintf("%s - %s", tariff.Name, tariff.PriceText),
			SelectionKey: "tariff_" + key,
		})
	}
	render = render.WithRow(backAction())
	return []dto.Render{render}
}

// selectTariff - шаг 1 → шаг 2. Неверный ключ тарифа жёстко завершает
// анкету, это не цикл повтора.
func (e *Engine) selectTariff(ctx context.Context, ev dto.MenuSelection, tariffKey string) []dto.Render {
	state, err := e.sessions.GetState(ctx, ev.ConversationID)
	if err != nil || state.Flow != dto.FlowIntake || state.Step != dto.StepSelectTariff {
		return []dto.Render{dto.NewRender(ev.ConversationID, staleDialogText).WithRow(orderAction(), backAction())}
	}

	tariff, ok := catalog.Tariffs[tariffKey]
	if !ok {
		e.clearState(ctx, ev.ConversationID)
		return []dto.Render{dto.NewRender(ev.ConversationID, "❌ Неверный тариф")}
	}

	state.Tariff = tariffKey
	state.Step = dto.StepEnterName
	if !e.saveState(ctx, ev.ConversationID, state) {
		return []dto.Render{dto.NewRender(ev.ConversationID, genericErrorText)}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Вы выбрали: <b>%s</b>\n💰 Стоимость: %s\n\n🎯 <b>Что входит:</b>\n", tariff.Name, tariff.PriceText)
	for _, feature := range tariff.Features {
		b.WriteString(feature + "\n")
	}
	fmt.Fprintf(&b, "\n⏱ Срок разработки: %s\n\n", tariff.Duration)
	b.WriteString("─────────────────────────\n\n" +
		"<b>Шаг 2/5: Как к вам обращаться?</b>\n" +
		"Введите ваше имя или название компании:")

	return []dto.Render{dto.NewRender(ev.ConversationID, b.String()).WithRow(cancelAction())}
}

// handleIntakeText - текстовые шаги анкеты. Выход за границы длины
// повторяет тот же шаг, накопленные поля сохраняются.
func (e *Engine) handleIntakeText(ctx context.Context, ev dto.TextInput, state *dto.DialogState, text string) []dto.Render {
	switch state.Step {
	case dto.StepEnterName:
		return e.enterName(ctx, ev, state, text)
	case dto.StepEnterDescription:
		return e.enterDescription(ctx, ev, state, text)
	case dto.StepEnterContact:
		return e.enterContact(ctx, ev, state, text)
	default:
		// На шагах выбора ждём кнопку, а не текст.
		return []dto.Render{dto.NewRender(ev.ConversationID, "Пожалуйста, выберите вариант кнопкой выше 👆")}
	}
}

func (e *Engine) enterName(ctx context.Context, ev dto.TextInput, state *dto.DialogState, name string) []dto.Render {
	if n := utf8.RuneCountInString(name); n < nameMinLen || n > nameMaxLen {
		return []dto.Render{dto.NewRender(ev.ConversationID,
			"❌ Имя должно быть от 2 до 100 символов. Попробуйте ещё раз:")}
	}

	state.Name = name
	state.Step = dto.StepEnterDescription
	if !e.saveState(ctx, ev.ConversationID, state) {
		return []dto.Render{dto.NewRender(ev.ConversationID, genericErrorText)}
	}

	text := fmt.Sprintf("✅ Отлично, <b>%s</b>!\n\n", esc(name)) +
		"<b>Шаг 3/5: Опишите ваш проект</b>\n\n" +
		"Расскажите подробнее, что вы хотите:\n" +
		"• Какие функции должны быть?\n" +
		"• Для какой цели создаётся бот?\n" +
		"• Есть ли примеры похожих ботов?\n" +
		"• Особые требования или пожелания?\n\n" +
		"💡 Чем подробнее описание, тем точнее мы сможем оценить проект и сроки."

	return []dto.Render{dto.NewRender(ev.ConversationID, text).WithRow(cancelAction())}
}

func (e *Engine) enterDescription(ctx context.Context, ev dto.TextInput, state *dto.DialogState, description string) []dto.Render {
	n := utf8.RuneCountInString(description)
	if n < descriptionMinLen {
		return []dto.Render{dto.NewRender(ev.ConversationID,
			"❌ Слишком короткое описание. Пожалуйста, опишите проект более подробно (минимум 10 символов):")}
	}
	if n > descriptionMaxLen {
		return []dto.Render{dto.NewRender(ev.ConversationID,
			"❌ Слишком длинное описание (максимум 2000 символов). Пожалуйста, сократите:")}
	}

	state.Description = description
	state.Step = dto.StepSelectBudget
	if !e.saveState(ctx, ev.ConversationID, state) {
		return []dto.Render{dto.NewRender(ev.ConversationID, genericErrorText)}
	}

	render := dto.NewRender(ev.ConversationID,
		"✅ Описание принято!\n\n<b>Шаг 4/5: Укажите ваш бюджет</b>\n\nЭто поможет нам предложить оптимальное решение:")
	for _, key := range catalog.BudgetOrder {
		render = render.WithRow(dto.Action{Label: catalog.BudgetLabels[key], SelectionKey: "budget_" + key})
	}
	return []dto.Render{render}
}

// selectBudget - шаг 4 → шаг 5. Нераспознанный ключ не ошибка:
// подставляется заглушка и анкета идёт дальше.
func (e *Engine) selectBudget(ctx context.Context, ev dto.MenuSelection, budgetKey string) []dto.Render {
	state, err := e.sessions.GetState(ctx, ev.ConversationID)
	if err != nil || state.Flow != dto.FlowIntake || state.Step != dto.StepSelectBudget {
		return []dto.Render{dto.NewRender(ev.ConversationID, staleDialogText).WithRow(orderAction(), backAction())}
	}

	state.Budget = catalog.BudgetLabel(budgetKey)
	state.Step = dto.StepEnterContact
	if !e.saveState(ctx, ev.ConversationID, state) {
		return []dto.Render{dto.NewRender(ev.ConversationID, genericErrorText)}
	}

	text := fmt.Sprintf("💰 Бюджет: <b>%s</b>\n\n", state.Budget) +
		"<b>Шаг 5/5: Контактные данные</b>\n\n" +
		"Укажите удобный способ связи:\n" +
		"• Telegram (@username)\n" +
		"• Email\n" +
		"• Телефон\n" +
		"• WhatsApp\n\n" +
		"Можете указать несколько вариантов."

	return []dto.Render{dto.NewRender(ev.ConversationID, text).WithRow(cancelAction())}
}

// enterContact - финальный шаг: фиксация контакта и коммит заказа.
// Состояние очищается независимо от исхода записи.
func (e *Engine) enterContact(ctx context.Context, ev dto.TextInput, state *dto.DialogState, contact string) []dto.Render {
	n := utf8.RuneCountInString(contact)
	if n < contactMinLen {
		return []dto.Render{dto.NewRender(ev.ConversationID,
			"❌ Слишком короткие контактные данные. Попробуйте ещё раз:")}
	}
	if n > contactMaxLen {
		return []dto.Render{dto.NewRender(ev.ConversationID,
			"❌ Слишком длинные контактные данные (максимум 200 символов). Пожалуйста, сократите:")}
	}

	state.Contact = contact
	defer e.clearState(ctx, ev.ConversationID)

	tariff := catalog.Tariffs[state.Tariff]
	order, err := e.orders.CreateOrder(ctx, dto.CreateOrderDTO{
		UserID:      ev.SenderID,
		Name:        state.Name,
		Contact:     state.Contact,
		Tariff:      tariff.Name,
		Description: state.Description,
		Budget:      state.Budget,
	})
	if err != nil {
		return []dto.Render{dto.NewRender(ev.ConversationID,
			"❌ Произошла ошибка при создании заказа. Пожалуйста, обратитесь в поддержку.")}
	}

	// Веер по сотрудникам: недоступный админ не мешает ни остальным,
	// ни подтверждению клиенту.
	e.notifyStaffNewOrder(ctx, ev, order.ID, order.OrderNumber, state, tariff.Name)

	clientText := fmt.Sprintf(
		"🎉 <b>Заказ успешно создан!</b>\n\n"+
			"📋 Номер заказа: <b>#%s</b>\n\n"+
			"📝 <b>Детали заказа:</b>\n"+
			"👤 Имя: %s\n"+
			"💎 Тариф: %s\n"+
			"💰 Бюджет: %s\n"+
			"📞 Контакт: %s\n\n"+
			"📄 <b>Описание:</b>\n%s\n\n"+
			"⏱ <b>Что дальше?</b>\n"+
			"1️⃣ Мы изучим ваш заказ (15-30 мин)\n"+
			"2️⃣ Свяжемся для уточнения деталей\n"+
			"3️⃣ Составим ТЗ и договор\n"+
			"4️⃣ Начнём разработку после оплаты\n\n"+
			"📱 Следить за статусом можно в разделе «📦 Мои заказы»",
		order.OrderNumber, esc(state.Name), tariff.Name, state.Budget, esc(state.Contact),
		esc(truncate(state.Description, 200)),
	)

	return []dto.Render{dto.NewRender(ev.ConversationID, clientText).
		WithRow(dto.Action{Label: "📦 Мои заказы", SelectionKey: "my_orders"}).
		WithRow(dto.Action{Label: "🏠 Главное меню", SelectionKey: "start"})}
}

func (e *Engine) notifyStaffNewOrder(ctx context.Context, ev dto.TextInput, orderID int64, orderNumber string, state *dto.DialogState, tariffName string) {
	username := ev.Username
	if username == "" {
		username = "не указан"
	}

	adminText := fmt.Sprintf(
		"🔔 <b>НОВЫЙ ЗАКАЗ!</b>\n\n"+
			"📋 Заказ: <b>#%s</b>\n\n"+
			"👤 <b>Клиент:</b>\n"+
			"   Имя: %s\n"+
			"   Username: @%s\n"+
			"   User ID: <code>%d</code>\n\n"+
			"💎 <b>Тариф:</b> %s\n"+
			"💰 <b>Бюджет:</b> %s\n"+
			"📞 <b>Контакт:</b> %s\n\n"+
			"📝 <b>Описание проекта:</b>\n%s",
		orderNumber, esc(state.Name), esc(username), ev.SenderID,
		tariffName, state.Budget, esc(state.Contact), esc(state.Description),
	)

	actions := [][]dto.Action{
		{{Label: "📋 Открыть заказ", SelectionKey: fmt.Sprintf("admin_order_%d", orderID)}},
		{{Label: "✏️ Изменить статус", SelectionKey: fmt.Sprintf("admin_status_%d", orderID)}},
	}

	result := e.dispatcher.Broadcast(ctx, e.staffIDs, adminText, actions)
	if len(result.Failed) > 0 {
		e.logger.Warn("не все сотрудники уведомлены о новом заказе",
			zap.String("order_number", orderNumber),
			zap.Int64s("failed", result.Failed))
	}
}

// cancelIntake - явная отмена анкеты: состояние стирается, в хранилище
// не попадает ни одной записи.
func (e *Engine) cancelIntake(ctx context.Context, ev dto.MenuSelection) []dto.Render {
	e.clearState(ctx, ev.ConversationID)
	return []dto.Render{dto.NewRender(ev.ConversationID,
		"❌ <b>Оформление заказа отменено</b>\n\nВы можете начать заново в любое время.").
		WithRow(dto.Action{Label: "🛒 Начать заново", SelectionKey: "order"}).
		WithRow(dto.Action{Label: "🏠 Главное меню", SelectionKey: "start"})}
}

// truncate обрезает текст по рунам для превью в подтверждении.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
