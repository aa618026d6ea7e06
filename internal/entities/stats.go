package entities

// Statistics - моментальный срез агрегатов, считается заново на каждый
// запрос. Кеша нет намеренно: объёмы маленькие, а окно устаревания
// нулевое по построению.
type Statistics struct {
	TotalUsers       int            `json:"total_users"`
	TotalOrders      int            `json:"total_orders"`
	OrdersByStatus   map[string]int `json:"orders_by_status"`
	OrdersToday      int            `json:"orders_today"`
	NewUsersThisWeek int            `json:"new_users_week"`
}
