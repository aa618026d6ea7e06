package service

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "botfactory/pkg/errors"
)

type JwtCustomClaim struct {
	Login          string `json:"login"`
	IsRefreshToken bool   `json:"isRefresh"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateTokens(login string) (string, string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
}

type jwtService struct {
	SecretKey       string
	AccessTokenExp  time.Duration
	RefreshTokenExp time.Duration
}

func NewJWTService(secretKey string, accessTokenExp, refreshTokenExp time.Duration) JWTService {
	return &jwtService{
		SecretKey:       secretKey,
		AccessTokenExp:  accessTokenExp,
		RefreshTokenExp: refreshTokenExp,
	}
}

func (s *jwtService) GenerateTokens(login string) (string, string, error) {
	accessClaims := &JwtCustomClaim{
		Login: login,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.AccessTokenExp)),
		},
	}
	refreshClaims := &JwtCustomClaim{
		Login:          login,
		IsRefreshToken: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.RefreshTokenExp)),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS512, accessClaims).SignedString([]byte(s.SecretKey))
	if err != nil {
		return "", "", err
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS512, refreshClaims).SignedString([]byte(s.SecretKey))
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return []byte(s.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
