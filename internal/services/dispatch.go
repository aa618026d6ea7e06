package services

import (
	"context"

	"go.uber.org/zap"

	"botfactory/internal/dto"
)

// Sender - исходящий порт во внешний канал. Реализуется адаптером
// канала (Telegram), ядро о транспорте не знает.
type Sender interface {
	Send(ctx context.Context, render dto.Render) error
}

// DispatchResult - итог веерной рассылки: кому доставлено, кому нет.
type DispatchResult struct {
	Succeeded []int64
	Failed    []int64
}

type DispatcherInterface interface {
	Notify(ctx context.Context, render dto.Render)
	Broadcast(ctx context.Context, targets []int64, body string, actions [][]dto.Action) DispatchResult
}

// Dispatcher рассылает уведомления с изоляцией отказов по получателям:
// недоставка одному никогда не валит ни рассылку, ни вызвавшую её
// операцию.
type Dispatcher struct {
	sender Sender
	logger *zap.Logger
}

func NewDispatcher(sender Sender, logger *zap.Logger) DispatcherInterface {
	return &Dispatcher{sender: sender, logger: logger}
}

// Notify отправляет одно уведомление. Ошибка доставки логируется и
// не возвращается вызывающему.
func (d *Dispatcher) Notify(ctx context.Context, render dto.Render) {
	if err := d.sender.Send(ctx, render); err != nil {
		d.logger.Error("ошибка доставки уведомления",
			zap.Int64("target_id", render.TargetID),
			zap.Error(err),
		)
	}
}

// Broadcast отправляет одно и то же сообщение каждому получателю и
// собирает поимённый результат.
func (d *Dispatcher) Broadcast(ctx context.Context, targets []int64, body string, actions [][]dto.Action) DispatchResult {
	var result DispatchResult
	for _, target := range targets {
		render := dto.Render{TargetID: target, BodyText: body, Actions: actions}
		if err := d.sender.Send(ctx, render); err != nil {
			d.logger.Error("ошибка доставки при рассылке",
				zap.Int64("target_id", target),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, target)
			continue
		}
		result.Succeeded = append(result.Succeeded, target)
	}
	return result
}
