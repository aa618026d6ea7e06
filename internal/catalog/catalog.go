// Пакет catalog хранит прайс-лист: тарифы и вилки бюджета.
// На заказе тариф и бюджет сохраняются текстовым снимком, поэтому
// правки каталога не затрагивают уже созданные заказы.
package catalog

type Tariff struct {
	Name      string
	PriceText string
	Features  []string
	Duration  string
}

// Tariffs - каталог тарифов, ключ используется как selection key
// с префиксом tariff_.
var Tariffs = map[string]Tariff{
	"bot_simple": {
		Name:      "🤖 Бот - Простой",
		PriceText: "от 1,000 ₽",
		Features:  []string{"• Меню и кнопки", "• Приём заявок", "• Уведомления владельцу"},
		Duration:  "2-3 дня",
	},
	"bot_medium": {
		Name:      "🤖 Бот - Средний",
		PriceText: "от 1,500 ₽",
		Features:  []string{"• Каталог товаров/услуг", "• Корзина и заказы", "• Админ-панель"},
		Duration:  "3-5 дней",
	},
	"bot_complex": {
		Name:      "🤖 Бот - Сложный",
		PriceText: "от 2,500 ₽",
		Features:  []string{"• Интеграции с CRM и оплатой", "• Рассылки и аналитика", "• Индивидуальная логика"},
		Duration:  "5-10 дней",
	},
	"website": {
		Name:      "🌐 Веб-сайт",
		PriceText: "от 2,500 ₽",
		Features:  []string{"• Адаптивный дизайн", "• Форма обратной связи", "• Базовое SEO"},
		Duration:  "5-10 дней",
	},
	"api_integration": {
		Name:      "🔌 API Интеграция",
		PriceText: "от 500 ₽",
		Features:  []string{"• Подключение внешних сервисов", "• Обмен данными", "• Документация"},
		Duration:  "1-3 дня",
	},
	"custom": {
		Name:      "💎 Индивидуальный",
		PriceText: "по договорённости",
		Features:  []string{"• Оценка по ТЗ", "• Любая сложность"},
		Duration:  "обсуждается",
	},
}

// TariffOrder - порядок вывода тарифов в меню.
var TariffOrder = []string{
	"bot_simple", "bot_medium", "bot_complex",
	"website", "api_integration", "custom",
}

// BudgetLabels - вилки бюджета, ключ используется как selection key
// с префиксом budget_.
var BudgetLabels = map[string]string{
	"1500":     "До 1,500 ₽",
	"2500":     "1,500 - 2,500 ₽",
	"5000":     "2,500 - 5,000 ₽",
	"5000plus": "5,000+ ₽",
	"unknown":  "Не определился",
}

var BudgetOrder = []string{"1500", "2500", "5000", "5000plus", "unknown"}

// BudgetNotSpecified - подпись-заглушка для нераспознанного выбора.
// Неизвестный ключ не считается ошибкой, анкета продолжается.
const BudgetNotSpecified = "Не указан"

// BudgetLabel отображает ключ вилки в подпись.
func BudgetLabel(key string) string {
	if label, ok := BudgetLabels[key]; ok {
		return label
	}
	return BudgetNotSpecified
}
