package cmd

import (
	"context"
	"errors"
	"net/http"

	"pizzeria/api"
	"pizzeria/config"
	"pizzeria/infrastructure/persistence/gormstore"
	"pizzeria/pkg/logger"
	"pizzeria/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// App 应用程序结构体
type App struct {
	config  *config.Config
	router  *api.Router
	server  *http.Server
	db      *gorm.DB
	worker  *gormstore.OutboxWorker
	tracer  *tracing.Provider
	closers []func() error
}

// Run serves HTTP and, when configured, relays the outbox until ctx is done,
// then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if a.worker != nil {
		g.Go(func() error {
			logger.Info("Embedded outbox worker started")
			if err := a.worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	logger.Info("Server stopped")
	return err
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("Failed to release resource", zap.Error(err))
		}
	}
	a.closers = nil

	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		logger.Warn("Failed to flush traces", zap.Error(err))
	}
	_ = logger.Sync()
}

// GetServer 获取 HTTP handler（用于测试）
func (a *App) GetServer() *gin.Engine {
	return a.router.GetEngine()
}
