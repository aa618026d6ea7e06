package dto

import (
	"encoding/json"
	"fmt"
)

// Потоки диалога.
const (
	FlowIntake       = "intake"
	FlowStatusChange = "status_change"
	FlowAdminMessage = "admin_message"
	FlowBroadcast    = "broadcast"
	FlowCustomerChat = "customer_chat"
)

// Шаги анкеты заказа, в строгом линейном порядке.
const (
	StepSelectTariff     = "select_tariff"
	StepEnterName        = "enter_name"
	StepEnterDescription = "enter_description"
	StepSelectBudget     = "select_budget"
	StepEnterContact     = "enter_contact"
)

// Шаги двухфазных админских потоков.
const (
	StepAwaitComment       = "await_comment"
	StepAwaitMessageText   = "await_message_text"
	StepAwaitBroadcastText = "await_broadcast_text"
)

// DialogState - рабочая память одного диалога. Создаётся при входе в
// поток, очищается при выходе (успех, ошибка или отмена). Хранится в
// Redis с TTL, сериализуется в JSON.
type DialogState struct {
	Flow string `json:"flow"`
	Step string `json:"step"`

	// Накопление анкеты заказа.
	Tariff      string `json:"tariff,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Budget      string `json:"budget,omitempty"`
	Contact     string `json:"contact,omitempty"`

	// Смена статуса и переписка.
	OrderID   int64  `json:"order_id,omitempty"`
	NewStatus string `json:"new_status,omitempty"`

	// Заказ, закреплённый за чатом клиента через кнопку "открыть чат".
	PinnedOrderID int64 `json:"pinned_order_id,omitempty"`
}

func NewIntakeState() *DialogState {
	return &DialogState{Flow: FlowIntake, Step: StepSelectTariff}
}

func NewStatusChangeState(orderID int64, newStatus string) *DialogState {
	return &DialogState{
		Flow:      FlowStatusChange,
		Step:      StepAwaitComment,
		OrderID:   orderID,
		NewStatus: newStatus,
	}
}

func NewAdminMessageState(orderID int64) *DialogState {
	return &DialogState{
		Flow:    FlowAdminMessage,
		Step:    StepAwaitMessageText,
		OrderID: orderID,
	}
}

func NewBroadcastState() *DialogState {
	return &DialogState{Flow: FlowBroadcast, Step: StepAwaitBroadcastText}
}

func NewCustomerChatState(orderID int64) *DialogState {
	return &DialogState{Flow: FlowCustomerChat, PinnedOrderID: orderID}
}

func (s *DialogState) ToJSON() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации состояния диалога: %w", err)
	}
	return string(data), nil
}

func StateFromJSON(data string) (*DialogState, error) {
	var state DialogState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("ошибка десериализации состояния диалога: %w", err)
	}
	return &state, nil
}
