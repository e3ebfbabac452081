// Package server wires the application together: configuration, stores,
// services, controllers, the HTTP stack, and the gRPC health server.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rsharma-dev/inventra/app/controllers"
	"github.com/rsharma-dev/inventra/app/graph"
	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/app/repositories"
	"github.com/rsharma-dev/inventra/app/routes"
	"github.com/rsharma-dev/inventra/app/services"
	"github.com/rsharma-dev/inventra/config"
	"github.com/rsharma-dev/inventra/pkg/cache"
	"github.com/rsharma-dev/inventra/pkg/database"
	"github.com/rsharma-dev/inventra/pkg/event"
	"github.com/rsharma-dev/inventra/pkg/grpcserver"
	"github.com/rsharma-dev/inventra/pkg/logger"
	"github.com/rsharma-dev/inventra/pkg/metrics"
	"github.com/rsharma-dev/inventra/pkg/middleware"
	"github.com/rsharma-dev/inventra/pkg/reqid"
	"github.com/rsharma-dev/inventra/pkg/router"
	"github.com/rsharma-dev/inventra/pkg/storage"
	"github.com/rsharma-dev/inventra/pkg/ws"
)

// Repos groups the persistence layer handed to NewRouter. The server
// builds Mongo-backed ones; the CLI and tests can pass in-memory ones.
type Repos struct {
	Products repositories.ProductRepository
	Orders   repositories.OrderRepository
	Activity repositories.ActivityRepository
	Users    repositories.UserRepository
}

// MemoryRepos returns a Repos backed entirely by in-memory stores.
func MemoryRepos() Repos {
	return Repos{
		Products: repositories.NewMemoryProductRepository(),
		Orders:   repositories.NewMemoryOrderRepository(),
		Activity: repositories.NewMemoryActivityRepository(),
		Users:    repositories.NewMemoryUserRepository(),
	}
}

// NewRouter builds the full HTTP stack over the given repositories.
// The returned ActivityRecorder must be closed on shutdown to flush the
// audit queue.
func NewRouter(repos Repos, hub *ws.Hub) (*router.Router, *services.ActivityRecorder, error) {
	recorder := services.NewActivityRecorder(repos.Activity)

	// New activity fans out to connected WebSocket clients.
	event.Listen(services.EventActivityRecorded, func(payload interface{}) {
		a, ok := payload.(models.Activity)
		if !ok {
			return
		}
		if data, err := json.Marshal(a); err == nil {
			select {
			case hub.Broadcast <- data:
			default:
			}
		}
	})

	analytics := services.NewAnalyticsService(repos.Products, repos.Orders, repos.Activity)
	productSvc := services.NewProductService(repos.Products, recorder, analytics.Invalidate)
	orderSvc := services.NewOrderService(repos.Orders, repos.Products, recorder, analytics.Invalidate)
	authSvc := services.NewAuthService(repos.Users)
	userSvc := services.NewUserService(repos.Users)

	schema, err := graph.NewSchema(repos.Products, repos.Orders)
	if err != nil {
		return nil, nil, fmt.Errorf("server: build graphql schema: %w", err)
	}

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	routes.RegisterAPI(r, routes.Controllers{
		Auth:      controllers.NewAuthController(authSvc),
		Products:  controllers.NewProductController(productSvc),
		Orders:    controllers.NewOrderController(orderSvc),
		Activity:  controllers.NewActivityController(repos.Activity, hub),
		Analytics: controllers.NewAnalyticsController(analytics),
		Users:     controllers.NewUserController(userSvc),
		Upload:    controllers.NewUploadController(),
		Schema:    schema,
	})

	return r, recorder, nil
}

// Start boots the full server and blocks until SIGINT/SIGTERM, then
// shuts everything down gracefully.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx := context.Background()

	db, err := database.Connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	if err := cache.Connect(); err != nil {
		// Redis is an accelerator, not a dependency.
		logger.Warn("server: redis unavailable, running without cache", "error", err)
	}
	if err := storage.Connect(); err != nil {
		return err
	}

	userRepo := repositories.NewMongoUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	repos := Repos{
		Products: repositories.NewMongoProductRepository(db),
		Orders:   repositories.NewMongoOrderRepository(db),
		Activity: repositories.NewMongoActivityRepository(db),
		Users:    userRepo,
	}

	hub := ws.NewHub()
	go hub.Run()

	r, recorder, err := NewRouter(repos, hub)
	if err != nil {
		return err
	}

	grpcSrv, err := grpcserver.Start(config.GRPCPort(), db.Ping)
	if err != nil {
		return err
	}

	addr := ":" + config.AppPort()
	httpSrv := &http.Server{
		Addr:        addr,
		Handler:     r.Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// No WriteTimeout: the activity stream holds its WebSocket open
		// and manages its own deadlines.
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("server: shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server: http shutdown", "error", err)
	}
	grpcserver.Stop(grpcSrv)
	recorder.Close()
	return nil
}
