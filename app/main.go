// Файл: app/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"botfactory/internal/dto"
	"botfactory/internal/routes"
	"botfactory/pkg/config"
	"botfactory/pkg/database/postgresql"
	applogger "botfactory/pkg/logger"
	"botfactory/pkg/service"
	"botfactory/pkg/telegram"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger()
	defer logger.Sync()

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("обнаружена паника в обработчике",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			return err
		},
	}))

	// БД и миграции
	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()
	if err := postgresql.RunMigrations(cfg.Postgres.DSN, "migrations"); err != nil {
		logger.Fatal("не удалось применить миграции", zap.Error(err))
	}

	// Redis для состояний диалогов
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis",
			zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	tgService := telegram.NewService(cfg.Telegram.BotToken)

	dispatcher := routes.InitRouter(e, dbConn, redisClient, jwtSvc, tgService, logger, cfg)

	if err := tgService.RegisterWebhook(context.Background(), cfg.Server.BaseURL); err != nil {
		logger.Warn("webhook не зарегистрирован", zap.Error(err))
	}

	// Сотрудники узнают о рестарте первыми.
	for _, adminID := range cfg.Telegram.AdminChatIDs {
		dispatcher.Notify(context.Background(), dto.NewRender(adminID, "✅ <b>Бот успешно запущен!</b>"))
	}

	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("ошибка запуска сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Остановка сервера...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка при остановке сервера", zap.Error(err))
	}
}
