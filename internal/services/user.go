package services

import (
	"context"

	"go.uber.org/zap"

	"botfactory/internal/entities"
	"botfactory/internal/repositories"
)

type UserServiceInterface interface {
	RegisterContact(ctx context.Context, id int64, username, firstName, lastName string) (isAdmin bool, err error)
	IsAdmin(ctx context.Context, id int64) bool
	FindUser(ctx context.Context, id int64) (*entities.User, error)
	GetAllUsers(ctx context.Context) ([]entities.User, error)
}

// UserService объединяет два источника прав администратора: список ID
// из конфигурации (сотрудники, получающие уведомления) и флаг is_admin
// в БД, проставляемый вручную.
type UserService struct {
	userRepo repositories.UserRepositoryInterface
	staffIDs map[int64]bool
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, staffIDs []int64, logger *zap.Logger) UserServiceInterface {
	staff := make(map[int64]bool, len(staffIDs))
	for _, id := range staffIDs {
		staff[id] = true
	}
	return &UserService{userRepo: userRepo, staffIDs: staff, logger: logger}
}

// RegisterContact вызывается на каждое входящее событие: создаёт
// пользователя при первом контакте, дальше обновляет профиль и
// last_activity.
func (s *UserService) RegisterContact(ctx context.Context, id int64, username, firstName, lastName string) (bool, error) {
	if err := s.userRepo.UpsertUser(ctx, id, username, firstName, lastName); err != nil {
		return false, err
	}
	if s.staffIDs[id] {
		return true, nil
	}
	return s.userRepo.IsAdmin(ctx, id)
}

// IsAdmin проглатывает ошибку хранилища: при недоступной БД пользователь
// считается не-администратором, детали уходят в лог.
func (s *UserService) IsAdmin(ctx context.Context, id int64) bool {
	if s.staffIDs[id] {
		return true
	}
	isAdmin, err := s.userRepo.IsAdmin(ctx, id)
	if err != nil {
		s.logger.Error("ошибка проверки прав администратора", zap.Int64("user_id", id), zap.Error(err))
		return false
	}
	return isAdmin
}

func (s *UserService) FindUser(ctx context.Context, id int64) (*entities.User, error) {
	return s.userRepo.FindUser(ctx, id)
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]entities.User, error) {
	return s.userRepo.GetAllUsers(ctx)
}
