package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"botfactory/internal/controllers"
	telegramcontroller "botfactory/internal/controllers/telegram"
	"botfactory/internal/dialog"
	"botfactory/internal/repositories"
	"botfactory/internal/services"
	"botfactory/pkg/config"
	"botfactory/pkg/middleware"
	"botfactory/pkg/service"
	"botfactory/pkg/telegram"
)

// InitRouter собирает весь граф зависимостей и маршруты.
// Возвращает Sender: он нужен процессу для стартового уведомления.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	tgService telegram.ServiceInterface,
	logger *zap.Logger,
	cfg *config.Config,
) services.DispatcherInterface {
	logger.Info("InitRouter: начало создания маршрутов")

	api := e.Group("/api", middleware.RequestID)
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	// --- Репозитории ---
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	sessionRepo := repositories.NewSessionRepository(cacheRepo, cfg.Dialog.StateTTL)
	userRepo := repositories.NewUserRepository(dbConn)
	orderRepo := repositories.NewOrderRepository(dbConn)
	historyRepo := repositories.NewOrderHistoryRepository(dbConn)
	messageRepo := repositories.NewMessageRepository(dbConn)
	reviewRepo := repositories.NewReviewRepository(dbConn)
	statsRepo := repositories.NewStatsRepository(dbConn)

	// --- Сервисы ---
	userService := services.NewUserService(userRepo, cfg.Telegram.AdminChatIDs, logger)
	orderService := services.NewOrderService(orderRepo, historyRepo, messageRepo, logger)
	statsService := services.NewStatsService(statsRepo, logger)
	reviewService := services.NewReviewService(reviewRepo, logger)
	authService := services.NewAuthService(cfg.AdminAPI, jwtSvc, logger)

	sender := telegramcontroller.NewSender(tgService)
	dispatcher := services.NewDispatcher(sender, logger)

	// --- Ядро диалогов ---
	engine := dialog.NewEngine(
		userService, orderService, statsService, reviewService,
		sessionRepo, dispatcher, cfg.Telegram.AdminChatIDs, logger,
	)

	// --- Вебхук Telegram ---
	tgController := telegramcontroller.NewController(engine, sender, tgService, logger)
	api.POST("/webhooks/telegram", tgController.HandleWebhook)

	// --- REST API панели администратора ---
	authController := controllers.NewAuthController(authService, logger)
	api.POST("/auth/login", authController.Login)
	api.POST("/auth/refresh", authController.Refresh)

	secured := api.Group("", authMW.Auth)

	orderController := controllers.NewOrderController(orderService, logger)
	secured.GET("/orders", orderController.GetOrders)
	secured.GET("/orders/:id", orderController.GetOrder)

	statsController := controllers.NewStatsController(statsService, logger)
	secured.GET("/stats", statsController.GetStats)

	reportController := controllers.NewReportController(orderService, logger)
	secured.GET("/report", reportController.GetReport)

	logger.Info("InitRouter: маршруты созданы")
	return dispatcher
}
