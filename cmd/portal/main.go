// @title        Telemed Portal API
// @version      1.0
// @description  Local surface of the telemedicine portal client: guarded views, navigation, notifications and auth.
// @host         localhost:3000
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medconnect/telemed-portal/internal/api"
	"github.com/medconnect/telemed-portal/internal/api/metrics"
	"github.com/medconnect/telemed-portal/internal/core/domain"
	"github.com/medconnect/telemed-portal/internal/core/ports"
	"github.com/medconnect/telemed-portal/internal/core/service"
	"github.com/medconnect/telemed-portal/internal/infrastructure/backend"
	filestore "github.com/medconnect/telemed-portal/internal/infrastructure/db/file"
	mongostore "github.com/medconnect/telemed-portal/internal/infrastructure/db/mongo"
	redisstore "github.com/medconnect/telemed-portal/internal/infrastructure/db/redis"
	"github.com/medconnect/telemed-portal/internal/infrastructure/queue"
	"github.com/medconnect/telemed-portal/internal/infrastructure/realtime"
	"github.com/medconnect/telemed-portal/internal/pkg/config"
	"github.com/medconnect/telemed-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "telemed-portal",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Session.Store).Msg("failed to open session storage")
	}
	defer closeStorage()

	// --- Core ---
	sessions := service.NewSessionStore(storage, logger.Component("session"))

	client := backend.NewClient(backend.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, sessions, logger.Component("backend"))

	authService := service.NewAuthService(backend.NewAuthGateway(client), sessions)
	notifications := service.NewNotificationReconciler(backend.NewNotificationGateway(client), logger.Component("notifications"))

	refresher := queue.NewRefresher(notifications, sessions, cfg.Notification.PollInterval, logger.Component("refresher"))
	channel := realtime.New(realtime.Config{
		URL:               cfg.Realtime.URL,
		ReconnectInterval: cfg.Realtime.ReconnectInterval,
	}, sessions, refresher.Trigger, logger.Component("realtime"))

	service.NewLiveSync(channel, notifications, refresher).Bind(sessions)
	sessions.OnChange(observeSession)

	// Listeners are in place; a restored session subscribes and refreshes.
	sessions.Hydrate(ctx)

	refresher.Start(ctx)
	go channel.Run(ctx)

	// --- HTTP surface ---
	e := api.NewRouter(api.Deps{
		Sessions:      sessions,
		Auth:          authService,
		Notifications: notifications,
		Routes:        domain.NewRouteTable(),
		Storage:       storage,
		Backend:       client,
		Realtime:      channel.Connected,
		Log:           logger.Component("http"),
	})

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("portal listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http listen")
		}
	}()

	waitForShutdown(log)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	channel.Close()
	cancel()
}

// openStorage picks the session storage backend named by SESSION_STORE.
func openStorage(ctx context.Context, cfg *config.Config) (ports.SessionStorage, func(), error) {
	switch cfg.Session.Store {
	case config.StoreRedis:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewSessionStorage(rdb, cfg.Session.Key), func() { _ = rdb.Close() }, nil
	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "telemed-portal"})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return mongostore.NewSessionStorage(db, cfg.Session.Key), closeFn, nil
	case config.StoreFile:
		return filestore.NewSessionStorage(cfg.Session.File), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

func observeSession(prev, next *domain.Session) {
	if next != nil {
		metrics.SessionTransitionsTotal.WithLabelValues("login").Inc()
		return
	}
	metrics.SessionTransitionsTotal.WithLabelValues("logout").Inc()
	metrics.NotificationsUnread.Set(0)
}

func waitForShutdown(log zerolog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")
}
