package cmd

import (
	"context"
	"fmt"
	"net/http"

	"pizzeria/api"
	apicustomer "pizzeria/api/customer"
	"pizzeria/api/health"
	apiorder "pizzeria/api/order"
	apipizza "pizzeria/api/pizza"
	customerapp "pizzeria/application/customer"
	orderapp "pizzeria/application/order"
	pizzaapp "pizzeria/application/pizza"
	"pizzeria/config"
	"pizzeria/domain/customer"
	"pizzeria/domain/order"
	"pizzeria/domain/pizza"
	"pizzeria/domain/shared"
	"pizzeria/infrastructure/messaging"
	"pizzeria/infrastructure/persistence/gormstore"
	"pizzeria/infrastructure/persistence/memory"
	"pizzeria/infrastructure/persistence/retry"
	"pizzeria/pkg/logger"
	"pizzeria/pkg/metrics"
	"pizzeria/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppBuilder builds an App with customizable components
type AppBuilder struct {
	cfg          *config.Config
	controllers  []api.ControllerRegister
	middlewares  []api.MiddlewareRegister
	customRoutes []api.Route
	skipLogger   bool
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithController adds a controller to the app
func (b *AppBuilder) WithController(c api.ControllerRegister) *AppBuilder {
	b.controllers = append(b.controllers, c)
	return b
}

// WithMiddleware adds a middleware to the app
func (b *AppBuilder) WithMiddleware(m api.MiddlewareRegister) *AppBuilder {
	b.middlewares = append(b.middlewares, m)
	return b
}

// WithRoute adds a custom route at the engine root
func (b *AppBuilder) WithRoute(method, path string, handler gin.HandlerFunc) *AppBuilder {
	b.customRoutes = append(b.customRoutes, api.Route{Method: method, Path: path, Handler: handler})
	return b
}

// WithoutLoggerInit keeps the already installed global logger (tests).
func (b *AppBuilder) WithoutLoggerInit() *AppBuilder {
	b.skipLogger = true
	return b
}

// backend is the persistence wiring selected by database.type.
type backend struct {
	db         *gorm.DB
	orders     order.Repository
	customers  customer.Repository
	pizzas     pizza.Repository
	uowFactory shared.UnitOfWorkFactory
	outbox     *gormstore.OutboxRepository
}

// Build creates the App instance
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if !b.skipLogger {
		if err := logger.Init(&b.cfg.Log, b.cfg.App.Env); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("store", b.cfg.Database.Type))

	app := &App{config: b.cfg}
	app.tracer = tracing.Init(b.cfg.App.Name, b.cfg.App.Version)

	var m *metrics.Metrics
	if b.cfg.Metrics.Enabled {
		m = metrics.New()
		b.customRoutes = append(b.customRoutes, api.Route{
			Method:  http.MethodGet,
			Path:    b.cfg.Metrics.Path,
			Handler: gin.WrapH(m.Handler()),
		})
	}

	publisher, closePublisher, err := NewPublisher(b.cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closePublisher)

	be, err := b.openBackend(ctx, publisher)
	if err != nil {
		_ = closePublisher()
		return nil, err
	}
	app.db = be.db
	if be.db != nil {
		app.closers = append(app.closers, func() error { return gormstore.Close(be.db) })
	}

	if be.outbox != nil && b.cfg.Worker.Enabled && b.cfg.Worker.Embedded {
		worker, err := gormstore.NewOutboxWorker(be.outbox, publisher,
			b.cfg.Worker.PollInterval, b.cfg.Worker.BatchSize, b.cfg.Worker.MaxRetries)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("failed to create outbox worker: %w", err)
		}
		app.worker = worker.WithMetrics(m)
	}

	customerService := customerapp.NewApplicationService(be.customers, be.orders, be.uowFactory)
	pizzaService := pizzaapp.NewApplicationService(be.pizzas, be.uowFactory)
	orderService := orderapp.NewApplicationService(be.orders, be.customers, be.pizzas, be.uowFactory, m)

	controllers := []api.ControllerRegister{
		b.healthController(be.db),
		apicustomer.NewController(customerService),
		apipizza.NewController(pizzaService),
		apiorder.NewController(orderService),
	}
	controllers = append(controllers, b.controllers...)

	router := api.NewRouter(b.cfg, m, controllers, b.middlewares, b.customRoutes)
	router.SetupRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}
	return app, nil
}

func (b *AppBuilder) openBackend(ctx context.Context, publisher messaging.Publisher) (*backend, error) {
	if b.cfg.Database.Type == "memory" {
		logger.Info("Using in-memory persistence layer")
		store := memory.NewStore()
		return &backend{
			orders:     memory.NewOrderRepository(store),
			customers:  memory.NewCustomerRepository(store),
			pizzas:     memory.NewPizzaRepository(store),
			uowFactory: memory.NewUnitOfWorkFactory(store, publisher),
		}, nil
	}

	db, err := OpenDatabase(ctx, b.cfg)
	if err != nil {
		return nil, err
	}
	return &backend{
		db:         db,
		orders:     gormstore.NewOrderRepository(db),
		customers:  gormstore.NewCustomerRepository(db),
		pizzas:     gormstore.NewPizzaRepository(db),
		uowFactory: gormstore.NewUnitOfWorkFactory(db, retry.FromAppConfig(b.cfg)),
		outbox:     gormstore.NewOutboxRepository(db),
	}, nil
}

func (b *AppBuilder) healthController(db *gorm.DB) *health.Controller {
	if db == nil {
		return health.NewController(b.cfg, nil)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return health.NewController(b.cfg, nil)
	}
	return health.NewController(b.cfg, sqlDB)
}
