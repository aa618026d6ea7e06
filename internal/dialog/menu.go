package dialog

import (
	"context"
	"fmt"
	"strings"

	"botfactory/internal/catalog"
	"botfactory/internal/dto"
	"botfactory/pkg/constants"
	"botfactory/pkg/telegram"
)

const (
	dateFormat     = "02.01.2006"
	dateTimeFormat = "02.01.2006 15:04"
)

func backAction() dto.Action {
	return dto.Action{Label: "🏠 Главное меню", SelectionKey: "start"}
}

func cancelAction() dto.Action {
	return dto.Action{Label: "❌ Отменить", SelectionKey: "cancel_order"}
}

func orderAction() dto.Action {
	return dto.Action{Label: "🛒 Заказать бота", SelectionKey: "order"}
}

// esc экранирует пользовательский текст перед вставкой в HTML-разметку:
// голый "<" в имени или описании ломает parse_mode=HTML у всего сообщения.
func esc(text string) string {
	return telegram.EscapeHTML(text)
}

func (e *Engine) mainMenu(ctx context.Context, targetID int64, firstName string, isAdmin bool) dto.Render {
	if firstName == "" {
		firstName = "друг"
	}

	text := fmt.Sprintf("👋 <b>Добро пожаловать, %s!</b>\n\n", esc(firstName)) +
		"🤖 <b>BotFactory</b> — профессиональная разработка Telegram-ботов и веб-сайтов\n\n" +
		"🎯 <b>Наши услуги:</b>\n" +
		"• Telegram боты - от 1,000 ₽\n" +
		"• Веб-сайты - от 2,500 ₽\n" +
		"• API интеграции - от 500 ₽\n" +
		"• Индивидуальные проекты\n\n" +
		"💎 <b>Преимущества:</b>\n" +
		"✅ Быстрая разработка\n" +
		"✅ Доступные цены\n" +
		"✅ Гарантия качества\n" +
		"✅ Поддержка 24/7\n\n" +
		"Выберите действие из меню:"

	render := dto.NewRender(targetID, text).
		WithRow(orderAction()).
		WithRow(dto.Action{Label: "📦 Мои заказы", SelectionKey: "my_orders"}).
		WithRow(
			dto.Action{Label: "💰 Тарифы", SelectionKey: "tariffs"},
			dto.Action{Label: "📊 Портфолио", SelectionKey: "portfolio"},
		).
		WithRow(
			dto.Action{Label: "⭐ Отзывы", SelectionKey: "reviews"},
			dto.Action{Label: "💬 Написать нам", SelectionKey: "start_chat"},
		).
		WithRow(dto.Action{Label: "ℹ️ О нас", SelectionKey: "about"})

	if isAdmin {
		render = render.WithRow(dto.Action{Label: "👨‍💼 Админ-панель", SelectionKey: "admin_panel"})
	}
	return render
}

func (e *Engine) tariffList(targetID int64) dto.Render {
	var b strings.Builder
	b.WriteString("💰 <b>Наш прайс-лист:</b>\n\n")

	writeTariff := func(key string) {
		tariff := catalog.Tariffs[key]
		fmt.Fprintf(&b, "<b>%s</b>\n💵 %s\n", tariff.Name, tariff.PriceText)
		for _, feature := range tariff.Features {
			b.WriteString("  " + feature + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("🤖 <b>TELEGRAM БОТЫ:</b>\n\n")
	for _, key := range []string{"bot_simple", "bot_medium", "bot_complex"} {
		writeTariff(key)
	}
	b.WriteString("🌐 <b>ВЕБ-САЙТЫ:</b>\n\n")
	writeTariff("website")
	b.WriteString("🔌 <b>ДОПОЛНИТЕЛЬНО:</b>\n\n")
	writeTariff("api_integration")

	b.WriteString("💡 <b>Важно:</b>\n" +
		"• Цена финальная, без скрытых платежей\n" +
		"• Подключение API оплачивается отдельно\n" +
		"• Сложные интеграции обсуждаются индивидуально\n" +
		"• Предоплата 50%, остаток после сдачи\n\n" +
		"📞 Для заказа нажмите кнопку ниже")

	return dto.NewRender(targetID, b.String()).
		WithRow(orderAction()).
		WithRow(backAction())
}

func (e *Engine) myOrders(ctx context.Context, userID int64) dto.Render {
	orders, err := e.orders.GetUserOrders(ctx, userID)
	if err != nil {
		return dto.NewRender(userID, genericErrorText)
	}

	if len(orders) == 0 {
		return dto.NewRender(userID,
			"📦 <b>Ваши заказы</b>\n\nУ вас пока нет заказов.\n\nСоздайте первый заказ, чтобы начать работу с нами!").
			WithRow(orderAction()).
			WithRow(backAction())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📦 <b>Ваши заказы (%d):</b>\n\n", len(orders))

	shown := orders
	if len(shown) > 10 {
		shown = shown[:10]
	}
	render := dto.Render{TargetID: userID}
	for _, order := range shown {
		fmt.Fprintf(&b, "🔹 <b>Заказ #%s</b>\n   Тариф: %s\n   Статус: %s\n   Дата: %s\n\n",
			order.OrderNumber, order.Tariff, constants.StatusLabel(order.Status),
			order.CreatedAt.Format(dateFormat))
		render = render.WithRow(dto.Action{
			Label:        fmt.Sprintf("#%s - %s", order.OrderNumber, constants.StatusLabel(order.Status)),
			SelectionKey: fmt.Sprintf("view_order_%d", order.ID),
		})
	}
	render.BodyText = b.String()
	return render.WithRow(backAction())
}

// orderDetail - карточка заказа для клиента. Чужой заказ недоступен,
// если смотрящий не сотрудник.
func (e *Engine) orderDetail(ctx context.Context, ev dto.MenuSelection, orderID int64) []dto.Render {
	order, err := e.orders.FindOrder(ctx, orderID)
	if err != nil {
		return []dto.Render{dto.NewRender(ev.ConversationID, orderNotFoundText)}
	}
	if order.UserID != ev.SenderID && !e.users.IsAdmin(ctx, ev.SenderID) {
		return []dto.Render{dto.NewRender(ev.ConversationID, orderNotFoundText)}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>Заказ #%s</b>\n\n", order.OrderNumber)
	fmt.Fprintf(&b, "<b>Статус:</b> %s\n", constants.StatusLabel(order.Status))
	fmt.Fprintf(&b, "<b>Тариф:</b> %s\n", order.Tariff)
	fmt.Fprintf(&b, "<b>Бюджет:</b> %s\n", order.Budget)
	fmt.Fprintf(&b, "<b>Дата создания:</b> %s\n", order.CreatedAt.Format(dateTimeFormat))
	fmt.Fprintf(&b, "<b>Последнее обновление:</b> %s\n\n", order.UpdatedAt.Format(dateTimeFormat))
	fmt.Fprintf(&b, "<b>Описание:</b>\n%s\n\n", esc(order.Description))
	if order.AdminComment.Valid {
		fmt.Fprintf(&b, "💬 <b>Комментарий:</b>\n%s\n\n", esc(order.AdminComment.String))
	}

	return []dto.Render{dto.NewRender(ev.ConversationID, b.String()).
		WithRow(dto.Action{Label: "💬 Написать менеджеру", SelectionKey: fmt.Sprintf("chat_order_%d", order.ID)}).
		WithRow(dto.Action{Label: "◀️ Назад", SelectionKey: "my_orders"})}
}

func (e *Engine) reviewList(ctx context.Context, targetID int64) dto.Render {
	reviews, err := e.reviews.GetPublishedReviews(ctx, 5)
	if err != nil {
		return dto.NewRender(targetID, genericErrorText)
	}

	var b strings.Builder
	if len(reviews) == 0 {
		b.WriteString("⭐ <b>Отзывы</b>\n\nОтзывов пока нет. Станьте первым!")
	} else {
		b.WriteString("⭐ <b>Отзывы наших клиентов:</b>\n\n")
		for _, review := range reviews {
			name := "Клиент"
			if review.AuthorName.Valid && review.AuthorName.String != "" {
				name = review.AuthorName.String
			} else if review.AuthorUsername.Valid && review.AuthorUsername.String != "" {
				name = review.AuthorUsername.String
			}
			fmt.Fprintf(&b, "%s <b>%s</b>\n%s\n<i>%s</i>\n\n",
				strings.Repeat("⭐", review.Rating), esc(name), esc(review.Text),
				review.CreatedAt.Format(dateFormat))
		}
	}
	return dto.NewRender(targetID, b.String()).WithRow(backAction())
}

func (e *Engine) aboutScreen(targetID int64) dto.Render {
	text := "<b>ℹ️ О BotFactory</b>\n\n" +
		"Мы — команда профессиональных разработчиков, специализирующихся " +
		"на создании Telegram-ботов и веб-сайтов.\n\n" +
		"📊 <b>Наши достижения:</b>\n" +
		"✅ 500+ выполненных проектов\n" +
		"✅ 98% довольных клиентов\n" +
		"✅ Работаем с 2021 года\n" +
		"✅ Средний рейтинг 4.9/5.0\n\n" +
		"🎯 <b>Специализация:</b>\n" +
		"• Telegram боты любой сложности\n" +
		"• Корпоративные сайты\n" +
		"• Интернет-магазины\n" +
		"• Landing Page\n" +
		"• API интеграции\n" +
		"• Автоматизация бизнеса\n\n" +
		"💰 <b>Ценовая политика:</b>\n" +
		"• Честные цены без накруток\n" +
		"• Оплата по факту выполнения\n" +
		"• Возможна рассрочка\n" +
		"• Бесплатные консультации"
	return dto.NewRender(targetID, text).WithRow(backAction())
}

func (e *Engine) supportScreen(targetID int64) dto.Render {
	text := "<b>💬 Служба поддержки</b>\n\n" +
		"Мы всегда на связи! Выберите удобный способ:\n\n" +
		"📱 <b>Telegram:</b> @botfactory_support\n" +
		"📧 <b>Email:</b> support@botfactory.ru\n\n" +
		"⏰ <b>Режим работы:</b>\n" +
		"Пн-Пт: 9:00 - 21:00 (МСК)\n" +
		"Сб-Вс: 10:00 - 18:00 (МСК)\n\n" +
		"⚡ Среднее время ответа: 15 минут\n" +
		"💡 <b>Совет:</b> Для быстрого ответа пишите в Telegram"
	return dto.NewRender(targetID, text).WithRow(backAction())
}

func (e *Engine) portfolioScreen(targetID int64) dto.Render {
	text := "📊 <b>Наше портфолио</b>\n\n" +
		"🎯 <b>Примеры выполненных проектов:</b>\n\n" +
		"🤖 <b>TELEGRAM БОТЫ:</b>\n\n" +
		"1️⃣ <b>@ShopBot</b> - Интернет-магазин\n" +
		"   • Каталог товаров с фото\n" +
		"   • Корзина и оформление заказа\n" +
		"   • Админ-панель для управления\n\n" +
		"2️⃣ <b>@BookingBot</b> - Запись клиентов\n" +
		"   • Календарь свободных слотов\n" +
		"   • Автоматические напоминания\n\n" +
		"3️⃣ <b>@MenuBot</b> - Меню ресторана\n" +
		"   • Красивый каталог блюд\n" +
		"   • Онлайн заказ\n\n" +
		"🌐 <b>ВЕБ-САЙТЫ:</b>\n\n" +
		"1️⃣ <b>Корпоративный сайт</b> - 5 страниц + блог\n" +
		"2️⃣ <b>Landing Page</b> - продающий дизайн\n\n" +
		"💡 Хотите так же? Жмите «Заказать»!"
	return dto.NewRender(targetID, text).
		WithRow(orderAction()).
		WithRow(backAction())
}

// --- Экраны администратора ---

func (e *Engine) adminPanel(ctx context.Context, targetID int64) dto.Render {
	stats, err := e.stats.GetStatistics(ctx)
	if err != nil {
		return dto.NewRender(targetID, genericErrorText)
	}

	var b strings.Builder
	b.WriteString("👨‍💼 <b>Панель администратора</b>\n\n📊 <b>Статистика:</b>\n")
	fmt.Fprintf(&b, "👥 Всего пользователей: %d\n", stats.TotalUsers)
	fmt.Fprintf(&b, "📦 Всего заказов: %d\n", stats.TotalOrders)
	fmt.Fprintf(&b, "🆕 Заказов сегодня: %d\n", stats.OrdersToday)
	fmt.Fprintf(&b, "👤 Новых за неделю: %d\n\n", stats.NewUsersThisWeek)

	b.WriteString("📋 <b>Заказы по статусам:</b>\n")
	for _, status := range constants.StatusOrder {
		if count := stats.OrdersByStatus[status]; count > 0 {
			fmt.Fprintf(&b, "%s: %d\n", constants.StatusLabel(status), count)
		}
	}
	b.WriteString("\nВыберите действие:")

	return dto.NewRender(targetID, b.String()).
		WithRow(dto.Action{Label: "📋 Все заказы", SelectionKey: "admin_orders"}).
		WithRow(dto.Action{Label: "🆕 Новые заказы", SelectionKey: "admin_new_orders"}).
		WithRow(
			dto.Action{Label: "👥 Пользователи", SelectionKey: "admin_users"},
			dto.Action{Label: "📊 Статистика", SelectionKey: "admin_stats"},
		).
		WithRow(dto.Action{Label: "📢 Рассылка", SelectionKey: "admin_broadcast"}).
		WithRow(backAction())
}

func (e *Engine) adminOrders(ctx context.Context, targetID int64, statusFilter string) dto.Render {
	orders, err := e.orders.GetAllOrders(ctx, statusFilter)
	if err != nil {
		return dto.NewRender(targetID, genericErrorText)
	}

	backRow := dto.Action{Label: "◀️ Назад", SelectionKey: "admin_panel"}

	if len(orders) == 0 {
		text := "📋 Заказов пока нет"
		if statusFilter == constants.StatusNew {
			text = "🆕 Новых заказов нет"
		}
		return dto.NewRender(targetID, text).WithRow(backRow)
	}

	title := fmt.Sprintf("📋 <b>Все заказы (%d):</b>", len(orders))
	if statusFilter == constants.StatusNew {
		title = fmt.Sprintf("🆕 <b>Новые заказы (%d):</b>", len(orders))
	}

	shown := orders
	if len(shown) > 20 {
		shown = shown[:20]
	}
	render := dto.NewRender(targetID, title)
	for _, order := range shown {
		render = render.WithRow(dto.Action{
			Label: fmt.Sprintf("#%s | %s | %s",
				order.OrderNumber, constants.StatusLabel(order.Status),
				order.CreatedAt.Format(dateFormat)),
			SelectionKey: fmt.Sprintf("admin_order_%d", order.ID),
		})
	}
	return render.WithRow(backRow)
}

func (e *Engine) adminOrderDetail(ctx context.Context, targetID int64, orderID int64) dto.Render {
	order, err := e.orders.FindOrder(ctx, orderID)
	if err != nil {
		return dto.NewRender(targetID, orderNotFoundText)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>ЗАКАЗ #%s</b>\n🆔 ID: %d\n\n", order.OrderNumber, order.ID)
	fmt.Fprintf(&b, "👤 <b>Клиент:</b>\n   ID: <code>%d</code>\n   Имя: %s\n", order.UserID, esc(order.Name))

	if user, err := e.users.FindUser(ctx, order.UserID); err == nil {
		username := "нет"
		if user.Username.Valid && user.Username.String != "" {
			username = user.Username.String
		}
		fmt.Fprintf(&b, "   Username: @%s\n", esc(username))
	}

	fmt.Fprintf(&b, "\n📞 <b>Контакт:</b> %s\n", esc(order.Contact))
	fmt.Fprintf(&b, "💎 <b>Тариф:</b> %s\n", order.Tariff)
	fmt.Fprintf(&b, "💰 <b>Бюджет:</b> %s\n", order.Budget)
	fmt.Fprintf(&b, "📊 <b>Статус:</b> %s\n\n", constants.StatusLabel(order.Status))
	fmt.Fprintf(&b, "📝 <b>Описание:</b>\n%s\n\n", esc(order.Description))
	if order.AdminComment.Valid {
		fmt.Fprintf(&b, "💬 <b>Комментарий:</b>\n%s\n\n", esc(order.AdminComment.String))
	}
	fmt.Fprintf(&b, "📅 <b>Создан:</b> %s\n", order.CreatedAt.Format(dateTimeFormat))
	fmt.Fprintf(&b, "🔄 <b>Обновлён:</b> %s\n", order.UpdatedAt.Format(dateTimeFormat))
	if order.CompletedAt.Valid {
		fmt.Fprintf(&b, "✅ <b>Завершён:</b> %s\n", order.CompletedAt.Time.Format(dateTimeFormat))
	}

	return dto.NewRender(targetID, b.String()).
		WithRow(dto.Action{Label: "✏️ Изменить статус", SelectionKey: fmt.Sprintf("admin_status_%d", order.ID)}).
		WithRow(dto.Action{Label: "💬 Написать клиенту", SelectionKey: fmt.Sprintf("admin_message_%d", order.ID)}).
		WithRow(dto.Action{Label: "📜 История чата", SelectionKey: fmt.Sprintf("admin_chat_%d", order.ID)}).
		WithRow(dto.Action{Label: "📋 История статусов", SelectionKey: fmt.Sprintf("admin_history_%d", order.ID)}).
		WithRow(dto.Action{Label: "◀️ К заказам", SelectionKey: "admin_orders"})
}

func (e *Engine) statusMenu(ctx context.Context, targetID int64, orderID int64) dto.Render {
	order, err := e.orders.FindOrder(ctx, orderID)
	if err != nil {
		return dto.NewRender(targetID, orderNotFoundText)
	}

	text := fmt.Sprintf(
		"✏️ <b>Изменение статуса</b>\n\nЗаказ: #%s\nТекущий статус: %s\n\nВыберите новый статус:",
		order.OrderNumber, constants.StatusLabel(order.Status))

	render := dto.NewRender(targetID, text)
	for _, status := range constants.StatusOrder {
		render = render.WithRow(dto.Action{
			Label:        constants.StatusLabel(status),
			SelectionKey: fmt.Sprintf("setstatus_%d_%s", order.ID, status),
		})
	}
	return render.WithRow(dto.Action{Label: "◀️ Назад", SelectionKey: fmt.Sprintf("admin_order_%d", order.ID)})
}

func (e *Engine) orderHistory(ctx context.Context, targetID int64, orderID int64) dto.Render {
	order, err := e.orders.FindOrder(ctx, orderID)
	if err != nil {
		return dto.NewRender(targetID, orderNotFoundText)
	}
	history, err := e.orders.GetOrderHistory(ctx, orderID)
	if err != nil {
		return dto.NewRender(targetID, genericErrorText)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📜 <b>История заказа #%s</b>\n\n", order.OrderNumber)
	if len(history) == 0 {
		b.WriteString("История пуста")
	}
	for _, entry := range history {
		fmt.Fprintf(&b, "🕐 %s\n", entry.CreatedAt.Format(dateTimeFormat))
		if entry.OldStatus.Valid {
			fmt.Fprintf(&b, "   %s → %s\n",
				constants.StatusLabel(entry.OldStatus.String),
				constants.StatusLabel(entry.NewStatus))
		} else {
			fmt.Fprintf(&b, "   Создан: %s\n", constants.StatusLabel(entry.NewStatus))
		}
		if entry.Comment.Valid {
			fmt.Fprintf(&b, "   💬 %s\n", esc(entry.Comment.String))
		}
		b.WriteString("\n")
	}

	return dto.NewRender(targetID, b.String()).
		WithRow(dto.Action{Label: "◀️ Назад", SelectionKey: fmt.Sprintf("admin_order_%d", orderID)})
}

func (e *Engine) chatHistory(ctx context.Context, targetID int64, orderID int64) dto.Render {
	order, err := e.orders.FindOrder(ctx, orderID)
	if err != nil {
		return dto.NewRender(targetID, orderNotFoundText)
	}
	messages, err := e.orders.GetOrderMessages(ctx, orderID)
	if err != nil {
		return dto.NewRender(targetID, genericErrorText)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💬 <b>Переписка по заказу #%s</b>\n\n", order.OrderNumber)
	if len(messages) == 0 {
		b.WriteString("Сообщений пока нет")
	}
	for _, msg := range messages {
		author := "👤 Клиент"
		if msg.IsAdmin {
			author = "👨‍💼 Менеджер"
		}
		fmt.Fprintf(&b, "%s · %s\n%s\n\n", author, msg.CreatedAt.Format(dateTimeFormat), esc(msg.Message))
	}

	return dto.NewRender(targetID, b.String()).
		WithRow(dto.Action{Label: "✉️ Написать клиенту", SelectionKey: fmt.Sprintf("admin_message_%d", orderID)}).
		WithRow(dto.Action{Label: "◀️ Назад", SelectionKey: fmt.Sprintf("admin_order_%d", orderID)})
}

func (e *Engine) adminUsers(ctx context.Context, targetID int64) dto.Render {
	users, err := e.users.GetAllUsers(ctx)
	if err != nil {
		return dto.NewRender(targetID, genericErrorText)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👥 <b>Пользователи (%d):</b>\n\n", len(users))

	shown := users
	if len(shown) > 15 {
		shown = shown[:15]
	}
	for _, user := range shown {
		username := "без username"
		if user.Username.Valid && user.Username.String != "" {
			username = "@" + user.Username.String
		}
		name := "Имя не указано"
		if user.FirstName.Valid && user.FirstName.String != "" {
			name = user.FirstName.String
		}
		fmt.Fprintf(&b, "👤 %s\n   ID: <code>%d</code>\n   %s\n   Регистрация: %s\n\n",
			esc(name), user.UserID, esc(username), user.CreatedAt.Format(dateFormat))
	}

	return dto.NewRender(targetID, b.String()).
		WithRow(dto.Action{Label: "◀️ Назад", SelectionKey: "admin_panel"})
}

func (e *Engine) adminStats(ctx context.Context, targetID int64) dto.Render {
	stats, err := e.stats.GetStatistics(ctx)
	if err != nil {
		return dto.NewRender(targetID, genericErrorText)
	}

	var b strings.Builder
	b.WriteString("📊 <b>Детальная статистика</b>\n\n")
	fmt.Fprintf(&b, "👥 <b>Пользователи:</b>\n   Всего: %d\n   За неделю: %d\n\n",
		stats.TotalUsers, stats.NewUsersThisWeek)
	fmt.Fprintf(&b, "📦 <b>Заказы:</b>\n   Всего: %d\n   Сегодня: %d\n\n",
		stats.TotalOrders, stats.OrdersToday)
	b.WriteString("📋 <b>По статусам:</b>\n")
	for _, status := range constants.StatusOrder {
		fmt.Fprintf(&b, "   %s: %d\n", constants.StatusLabel(status), stats.OrdersByStatus[status])
	}

	return dto.NewRender(targetID, b.String()).
		WithRow(dto.Action{Label: "◀️ Назад", SelectionKey: "admin_panel"})
}
