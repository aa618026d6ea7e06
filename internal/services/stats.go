package services

import (
	"context"

	"go.uber.org/zap"

	"botfactory/internal/entities"
	"botfactory/internal/repositories"
)

type StatsServiceInterface interface {
	GetStatistics(ctx context.Context) (*entities.Statistics, error)
}

type StatsService struct {
	statsRepo repositories.StatsRepositoryInterface
	logger    *zap.Logger
}

func NewStatsService(statsRepo repositories.StatsRepositoryInterface, logger *zap.Logger) StatsServiceInterface {
	return &StatsService{statsRepo: statsRepo, logger: logger}
}

func (s *StatsService) GetStatistics(ctx context.Context) (*entities.Statistics, error) {
	stats, err := s.statsRepo.GetStatistics(ctx)
	if err != nil {
		s.logger.Error("ошибка сбора статистики", zap.Error(err))
		return nil, err
	}
	return stats, nil
}
