package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"botfactory/internal/dto"
	apperrors "botfactory/pkg/errors"
)

const dialogStateKey = "dialog_state:%d"

// SessionRepositoryInterface - хранилище рабочей памяти диалогов.
// Состояние живёт ровно от входа в поток до выхода из него; по TTL
// брошенные диалоги забываются сами.
type SessionRepositoryInterface interface {
	GetState(ctx context.Context, conversationID int64) (*dto.DialogState, error)
	SetState(ctx context.Context, conversationID int64, state *dto.DialogState) error
	ClearState(ctx context.Context, conversationID int64) error
}

// SessionRepository хранит состояния диалогов в Redis.
type SessionRepository struct {
	cache CacheRepositoryInterface
	ttl   time.Duration
}

func NewSessionRepository(cache CacheRepositoryInterface, ttl time.Duration) SessionRepositoryInterface {
	return &SessionRepository{cache: cache, ttl: ttl}
}

func (r *SessionRepository) GetState(ctx context.Context, conversationID int64) (*dto.DialogState, error) {
	raw, err := r.cache.Get(ctx, fmt.Sprintf(dialogStateKey, conversationID))
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, apperrors.ErrStateNotFound
		}
		return nil, fmt.Errorf("ошибка чтения состояния диалога %d: %w", conversationID, err)
	}
	return dto.StateFromJSON(raw)
}

func (r *SessionRepository) SetState(ctx context.Context, conversationID int64, state *dto.DialogState) error {
	raw, err := state.ToJSON()
	if err != nil {
		return err
	}
	if err := r.cache.Set(ctx, fmt.Sprintf(dialogStateKey, conversationID), raw, r.ttl); err != nil {
		return fmt.Errorf("ошибка сохранения состояния диалога %d: %w", conversationID, err)
	}
	return nil
}

func (r *SessionRepository) ClearState(ctx context.Context, conversationID int64) error {
	return r.cache.Del(ctx, fmt.Sprintf(dialogStateKey, conversationID))
}

// MemorySessionRepository - потокобезопасное состояние в памяти
// процесса. Используется в тестах и как запасной вариант без Redis.
type MemorySessionRepository struct {
	mu      sync.RWMutex
	states  map[int64]*dto.DialogState
	failErr error
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{states: make(map[int64]*dto.DialogState)}
}

// FailNext заставляет следующее обращение к хранилищу вернуть err.
// Имитация отказа Redis в тестах.
func (r *MemorySessionRepository) FailNext(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failErr = err
}

func (r *MemorySessionRepository) takeFailErr() error {
	err := r.failErr
	r.failErr = nil
	return err
}

func (r *MemorySessionRepository) GetState(_ context.Context, conversationID int64) (*dto.DialogState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailErr(); err != nil {
		return nil, err
	}
	state, ok := r.states[conversationID]
	if !ok {
		return nil, apperrors.ErrStateNotFound
	}
	copied := *state
	return &copied, nil
}

func (r *MemorySessionRepository) SetState(_ context.Context, conversationID int64, state *dto.DialogState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailErr(); err != nil {
		return err
	}
	copied := *state
	r.states[conversationID] = &copied
	return nil
}

func (r *MemorySessionRepository) ClearState(_ context.Context, conversationID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, conversationID)
	return nil
}
