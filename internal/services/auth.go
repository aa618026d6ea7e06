package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"botfactory/pkg/config"
	apperrors "botfactory/pkg/errors"
	"botfactory/pkg/service"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthServiceInterface interface {
	Login(ctx context.Context, login, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// AuthService авторизует администратора панели. Учётная запись одна и
// задаётся конфигурацией: логин и bcrypt-хэш пароля.
type AuthService struct {
	cfg        config.AdminAPIConfig
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthService(cfg config.AdminAPIConfig, jwtService service.JWTService, logger *zap.Logger) AuthServiceInterface {
	return &AuthService{cfg: cfg, jwtService: jwtService, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, login, password string) (*TokenPair, error) {
	if login != s.cfg.Login {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("неудачная попытка входа в панель", zap.String("login", login))
		return nil, apperrors.ErrInvalidCredentials
	}

	access, refresh, err := s.jwtService.GenerateTokens(login)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrInvalidToken
	}

	access, refresh, err := s.jwtService.GenerateTokens(claims.Login)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
