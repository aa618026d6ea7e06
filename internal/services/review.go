package services

import (
	"context"

	"go.uber.org/zap"

	"botfactory/internal/entities"
	"botfactory/internal/repositories"
)

type ReviewServiceInterface interface {
	GetPublishedReviews(ctx context.Context, limit int) ([]entities.Review, error)
}

type ReviewService struct {
	reviewRepo repositories.ReviewRepositoryInterface
	logger     *zap.Logger
}

func NewReviewService(reviewRepo repositories.ReviewRepositoryInterface, logger *zap.Logger) ReviewServiceInterface {
	return &ReviewService{reviewRepo: reviewRepo, logger: logger}
}

func (s *ReviewService) GetPublishedReviews(ctx context.Context, limit int) ([]entities.Review, error) {
	reviews, err := s.reviewRepo.GetPublishedReviews(ctx, limit)
	if err != nil {
		s.logger.Error("ошибка получения отзывов", zap.Error(err))
		return nil, err
	}
	return reviews, nil
}
