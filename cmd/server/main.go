package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/talent-escrow/internal/config"
	"github.com/ignatzorin/talent-escrow/internal/db"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
	"github.com/ignatzorin/talent-escrow/internal/goroutine"
	httpHandlers "github.com/ignatzorin/talent-escrow/internal/http/handlers"
	httpRouter "github.com/ignatzorin/talent-escrow/internal/http/router"
	"github.com/ignatzorin/talent-escrow/internal/infrastructure/memstore"
	"github.com/ignatzorin/talent-escrow/internal/infrastructure/persistence"
	newHandler "github.com/ignatzorin/talent-escrow/internal/interface/http/handler"
	"github.com/ignatzorin/talent-escrow/internal/logger"
	"github.com/ignatzorin/talent-escrow/internal/metrics"
	"github.com/ignatzorin/talent-escrow/internal/service"
	"github.com/ignatzorin/talent-escrow/internal/usecase/escrow"
	"github.com/ignatzorin/talent-escrow/internal/usecase/profile"
	"github.com/ignatzorin/talent-escrow/internal/worker"
	"github.com/ignatzorin/talent-escrow/internal/ws"
)

// storage - реализация портов, выбранная STORAGE_DRIVER.
type storage struct {
	escrow   repository.EscrowStore
	profiles repository.ProfileRepository
	payments repository.PaymentRepository
	pinger   httpHandlers.Pinger
	close    func()
}

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}
	log := logger.L()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("main: ошибка подготовки хранилища: %v", err)
	}
	defer store.close()

	// Вебсокеты.
	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, hub.Run)

	kinds := valueobject.NewKinds(
		valueobject.ScoutConfig(valueobject.Amount(cfg.Escrow.ScoutMinAmount), cfg.Escrow.ScoutWindow),
		valueobject.ContactConfig(valueobject.Amount(cfg.Escrow.ContactMinAmount), cfg.Escrow.ContactDefaultWindow),
	)
	deps := escrow.Dependencies{
		Store:     store.escrow,
		Profiles:  store.profiles,
		Kinds:     kinds,
		Publisher: ws.NewOfferPublisher(hub),
		Observer:  metrics.Escrow(),
	}
	reclaimUC := escrow.NewReclaimExpiredUseCase(deps)

	// Сервисы.
	cache := service.NewCacheService()
	defer cache.Close()
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := service.NewAuthService(cache, tokenManager, cfg.LoginChallengeTTL)
	paymentService := service.NewPaymentService(store.payments)

	// HTTP хэндлеры.
	h := httpRouter.Handlers{
		Auth:    httpHandlers.NewAuthHandler(authService),
		Payment: httpHandlers.NewPaymentHandler(paymentService),
		Health:  httpHandlers.NewHealthHandler(store.pinger, cfg.StorageDriver),
		WS:      httpHandlers.NewWSHandler(hub, authService, cfg.AllowedOrigins),
		Offer: newHandler.NewOfferHandler(
			escrow.NewOpenOfferUseCase(deps),
			escrow.NewRespondOfferUseCase(deps),
			reclaimUC,
			escrow.NewGetOfferUseCase(deps),
			escrow.NewListOffersUseCase(deps),
			kinds,
		),
		Profile: newHandler.NewProfileHandler(
			profile.NewCreateProfileUseCase(store.profiles),
			profile.NewUpdateProfileUseCase(store.profiles),
			profile.NewGetProfileUseCase(store.profiles),
		),
	}
	engine := httpRouter.SetupRouter(cfg, h, authService, metrics.HTTP())

	if cfg.Escrow.ExpirySweepInterval > 0 {
		sweeper := worker.NewExpirySweeper(store.escrow, reclaimUC, cfg.Escrow.ExpirySweepInterval)
		goroutine.SafeGoWithContext(ctx, sweeper.Run)
		log.WithField("interval", cfg.Escrow.ExpirySweepInterval.String()).Info("main: фоновый возврат просроченных предложений включён")
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGo(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("main: ошибка остановки http сервера: %v", err)
		}
	})

	log.WithFields(logrus.Fields{"port": cfg.HTTPPort, "storage": cfg.StorageDriver}).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.L().Warn("main: данные хранятся в памяти и пропадут при перезапуске")
		mem := memstore.New()
		return &storage{
			escrow:   mem,
			profiles: mem.Profiles(),
			payments: mem,
			close:    func() {},
		}, nil
	}

	// Подключение к базе и миграции.
	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, conn, db.Migrations()); err != nil {
		safeClose(conn)
		return nil, err
	}
	return &storage{
		escrow:   persistence.NewEscrowStoreAdapter(conn),
		profiles: persistence.NewProfileRepositoryAdapter(conn),
		payments: persistence.NewPaymentRepositoryAdapter(conn),
		pinger:   conn,
		close:    func() { safeClose(conn) },
	}, nil
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		logger.L().Errorf("main: ошибка закрытия базы: %v", err)
	}
}
