package constants

// --- СТАТУСЫ ЗАКАЗОВ (хранятся в БД как текстовые коды) ---
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusRevision   = "revision"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusPaid       = "paid"
)

// StatusOrder - порядок вывода статусов в меню и статистике.
var StatusOrder = []string{
	StatusNew,
	StatusInProgress,
	StatusReview,
	StatusRevision,
	StatusCompleted,
	StatusCancelled,
	StatusPaid,
}

// StatusLabels - человекочитаемые подписи статусов.
var StatusLabels = map[string]string{
	StatusNew:        "🆕 Новый",
	StatusInProgress: "🔧 В работе",
	StatusReview:     "👀 На проверке",
	StatusRevision:   "✏️ На доработке",
	StatusCompleted:  "✅ Завершён",
	StatusCancelled:  "❌ Отменён",
	StatusPaid:       "💰 Оплачен",
}

// StatusLabel возвращает подпись статуса, либо сам код, если подписи нет.
func StatusLabel(code string) string {
	if label, ok := StatusLabels[code]; ok {
		return label
	}
	return code
}

// IsValidStatus проверяет, что код входит в набор статусов.
func IsValidStatus(code string) bool {
	_, ok := StatusLabels[code]
	return ok
}
