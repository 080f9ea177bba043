package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	employeeHandler "warehouse/internal/employee/handler"
	employeeModels "warehouse/internal/employee/models"
	employeeService "warehouse/internal/employee/service"
	employeeStore "warehouse/internal/employee/store"
	eventHandler "warehouse/internal/event/handler"
	eventModels "warehouse/internal/event/models"
	eventService "warehouse/internal/event/service"
	eventStore "warehouse/internal/event/store"
	expenseHandler "warehouse/internal/expense/handler"
	expenseModels "warehouse/internal/expense/models"
	expenseService "warehouse/internal/expense/service"
	expenseStore "warehouse/internal/expense/store"
	httpapi "warehouse/internal/http"
	jwttoken "warehouse/internal/jwt_token"
	kanbanHandler "warehouse/internal/kanban/handler"
	kanbanModels "warehouse/internal/kanban/models"
	kanbanService "warehouse/internal/kanban/service"
	kanbanStore "warehouse/internal/kanban/store"
	mailHandler "warehouse/internal/mail/handler"
	"warehouse/internal/mail/mailer"
	mailService "warehouse/internal/mail/service"
	notificationHandler "warehouse/internal/notification/handler"
	notificationMetrics "warehouse/internal/notification/metrics"
	notificationModels "warehouse/internal/notification/models"
	notificationService "warehouse/internal/notification/service"
	notificationStore "warehouse/internal/notification/store"
	orderAdapters "warehouse/internal/order/adapters"
	orderHandler "warehouse/internal/order/handler"
	"warehouse/internal/order/lock"
	orderMetrics "warehouse/internal/order/metrics"
	orderModels "warehouse/internal/order/models"
	orderService "warehouse/internal/order/service"
	orderStore "warehouse/internal/order/store"
	"warehouse/internal/platform/config"
	"warehouse/internal/platform/docstore"
	"warehouse/internal/platform/httpserver"
	"warehouse/internal/platform/logger"
	"warehouse/internal/platform/metrics"
	redisclient "warehouse/internal/platform/redis"
	productHandler "warehouse/internal/product/handler"
	productModels "warehouse/internal/product/models"
	productService "warehouse/internal/product/service"
	productStore "warehouse/internal/product/store"
	rateLimitMiddleware "warehouse/internal/ratelimit/middleware"
	rateLimitModels "warehouse/internal/ratelimit/models"
	rateLimitStore "warehouse/internal/ratelimit/store"
	supplierHandler "warehouse/internal/supplier/handler"
	supplierModels "warehouse/internal/supplier/models"
	supplierService "warehouse/internal/supplier/service"
	supplierStore "warehouse/internal/supplier/store"
	taskHandler "warehouse/internal/task/handler"
	taskModels "warehouse/internal/task/models"
	taskService "warehouse/internal/task/service"
	taskStore "warehouse/internal/task/store"
	uploadHandler "warehouse/internal/upload/handler"
	uploadService "warehouse/internal/upload/service"
	uploadStorage "warehouse/internal/upload/storage"
	userHandler "warehouse/internal/user/handler"
	userModels "warehouse/internal/user/models"
	"warehouse/internal/user/revocation"
	userService "warehouse/internal/user/service"
	userStore "warehouse/internal/user/store"
	"warehouse/pkg/platform/audit/publisher"
	kafkasink "warehouse/pkg/platform/audit/store/kafka"
	auditmemory "warehouse/pkg/platform/audit/store/memory"
	pubsubsink "warehouse/pkg/platform/audit/store/pubsub"
	"warehouse/pkg/platform/circuit"
	"warehouse/pkg/platform/middleware/auth"
)

const (
	shutdownTimeout = 15 * time.Second
	lockTTL         = 10 * time.Second
	purgeInterval   = time.Hour
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires dependencies and blocks until the process is signalled.
// Business logic lives in the internal service packages.
func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.New(reg)

	gateway := docstore.NewGateway(cfg.DatabaseURL, log)
	pool, err := gateway.Connect(ctx)
	if err != nil {
		return err
	}
	defer gateway.Close()

	rdb, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	g, gctx := errgroup.WithContext(ctx)

	revocations, err := newRevocationList(gctx, cfg, rdb, g, log)
	if err != nil {
		return err
	}

	auditStore := auditmemory.NewInMemoryStore()
	auditOpts := []publisher.Option{publisher.WithLogger(log), publisher.WithAsyncBuffer(1024)}
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := kafkasink.NewSink(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			return err
		}
		defer sink.Close()
		if err := sink.EnsureTopic(ctx, 1, 1); err != nil {
			log.WarnContext(ctx, "kafka audit topic not ensured", "error", err)
		}
		auditOpts = append(auditOpts, publisher.WithSink(sink))
	}
	if cfg.PubSub.ProjectID != "" {
		sink, err := pubsubsink.NewSink(ctx, cfg.PubSub.ProjectID, cfg.PubSub.AuditTopic, cfg.PubSub.CredentialsJSON)
		if err != nil {
			return err
		}
		defer sink.Close()
		if err := sink.EnsureTopic(ctx); err != nil {
			log.WarnContext(ctx, "pubsub audit topic not ensured", "error", err)
		}
		auditOpts = append(auditOpts, publisher.WithSink(sink))
	}
	auditPublisher := publisher.NewPublisher(auditStore, auditOpts...)
	defer auditPublisher.Close()

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer)

	cols := &collections{ctx: ctx, pool: pool}
	employeeDocs := open[employeeModels.Employee](cols, employeeStore.CollectionName, employeeStore.Options()...)
	userDocs := open[userModels.User](cols, userStore.CollectionName, userStore.Options()...)
	notificationDocs := open[notificationModels.Notification](cols, notificationStore.CollectionName, notificationStore.Options()...)
	productDocs := open[productModels.Product](cols, productStore.CollectionName)
	supplierDocs := open[supplierModels.Supplier](cols, supplierStore.CollectionName)
	orderDocs := open[orderModels.Order](cols, orderStore.CollectionName)
	taskDocs := open[taskModels.Task](cols, taskStore.CollectionName)
	kanbanDocs := open[kanbanModels.Task](cols, kanbanStore.CollectionName)
	expenseDocs := open[expenseModels.Expense](cols, expenseStore.CollectionName)
	eventDocs := open[eventModels.Event](cols, eventStore.CollectionName)
	if cols.err != nil {
		return cols.err
	}

	employees := employeeService.New(employeeStore.New(employeeDocs),
		employeeService.WithLogger(log),
		employeeService.WithAuditPublisher(auditPublisher),
	)
	notifications := notificationService.New(notificationStore.New(notificationDocs),
		notificationService.WithLogger(log),
		notificationService.WithMetrics(notificationMetrics.New(reg)),
	)
	users := userService.New(userStore.New(userDocs), jwtService,
		userService.WithLogger(log),
		userService.WithAuditPublisher(auditPublisher),
		userService.WithActivityLister(auditPublisher),
		userService.WithRevocationList(revocations),
		userService.WithTokenTTL(cfg.TokenTTL),
		userService.WithMetrics(httpMetrics),
	)
	suppliers := supplierStore.New(supplierDocs)
	products := productService.New(productStore.New(productDocs),
		productService.WithLogger(log),
		productService.WithSupplierChecker(suppliers),
	)
	var locker lock.Locker = lock.NewMemory()
	if rdb != nil {
		locker = lock.NewRedis(rdb.Client, lockTTL)
	}
	orders := orderService.New(orderStore.New(orderDocs), orderAdapters.NewProductAdapter(products),
		orderService.WithLogger(log),
		orderService.WithAuditPublisher(auditPublisher),
		orderService.WithMetrics(orderMetrics.New(reg)),
		orderService.WithLocker(locker),
		orderService.WithTracer(otel.Tracer("warehouse/order")),
	)

	uploads, err := newUploadStorage(ctx, cfg.Upload)
	if err != nil {
		return err
	}
	mail := mailService.New(newMailer(ctx, cfg.Mail, log), cfg.Mail.From,
		mailService.WithLogger(log),
		mailService.WithRecipientOverride(cfg.Mail.RecipientOverride),
	)

	modules := []httpapi.Module{
		userHandler.New(users, log),
		employeeHandler.New(employees, log),
		productHandler.New(products, log),
		supplierHandler.New(supplierService.New(suppliers, products, supplierService.WithLogger(log)), log),
		orderHandler.New(orders, log),
		expenseHandler.New(expenseService.New(expenseStore.New(expenseDocs),
			expenseService.WithLogger(log),
			expenseService.WithAuditPublisher(auditPublisher),
			expenseService.WithEmployeeChecker(employees),
		), log),
		taskHandler.New(taskService.New(taskStore.New(taskDocs), employees,
			taskService.WithLogger(log),
			taskService.WithAuditPublisher(auditPublisher),
			taskService.WithNotifier(notifications),
		), log),
		kanbanHandler.New(kanbanService.New(kanbanStore.New(kanbanDocs),
			kanbanService.WithLogger(log),
			kanbanService.WithEmployeeChecker(employees),
		), log),
		eventHandler.New(eventService.New(eventStore.New(eventDocs), eventService.WithLogger(log)), log),
		notificationHandler.New(notifications, log),
		uploadHandler.New(uploadService.New(uploads,
			uploadService.WithLogger(log),
			uploadService.WithMaxBytes(cfg.Upload.MaxBytes),
		), log),
		mailHandler.New(mail, log),
	}

	gate := auth.NewGate(jwttoken.NewJWTServiceAdapter(jwtService),
		auth.WithRevocationChecker(revocations),
		auth.WithLogger(log),
	)
	limiter := newRateLimiter(gctx, cfg.RateLimit, rdb, g, log, httpMetrics)
	static := httpapi.Static{}
	if cfg.Upload.Provider == "local" {
		static = httpapi.Static{Prefix: cfg.Upload.PublicPrefix, Dir: cfg.Upload.Dir}
	}
	var health []httpapi.HealthCheck
	if gateway.Enabled() {
		health = append(health, httpapi.HealthCheck{Name: "database", Check: gateway.Health})
	}
	if rdb != nil {
		health = append(health, httpapi.HealthCheck{Name: "redis", Check: rdb.Health})
	}
	router := httpapi.NewRouter(httpapi.Config{
		Logger:         log,
		Metrics:        httpMetrics,
		Gate:           gate,
		RateLimit:      limiter.Paths("/api/login", "/api/register"),
		RequestTimeout: cfg.RequestTimeout,
		Uploads:        static,
		Health:         health,
		Modules:        modules,
	})

	srv := httpserver.New(cfg.Addr, router,
		httpserver.WithRequestTimeout(cfg.RequestTimeout),
		httpserver.WithShutdownTimeout(shutdownTimeout),
		httpserver.WithLogger(log),
	)
	g.Go(func() error {
		log.Info("starting warehouse api",
			"addr", cfg.Addr,
			"environment", cfg.Environment,
			"persistence", persistenceMode(gateway),
			"redis", rdb != nil,
		)
		return srv.Run(gctx)
	})
	return g.Wait()
}

type collections struct {
	ctx  context.Context
	pool *pgxpool.Pool
	err  error
}

// open returns a Postgres-backed collection when a pool is configured and an
// in-memory one otherwise. The first failure is kept on c.err.
func open[T any](c *collections, name string, opts ...docstore.Option) docstore.Collection[T] {
	if c.pool == nil {
		return docstore.MustMemory[T](name, opts...)
	}
	col, err := docstore.NewCollection[T](c.ctx, c.pool, name, opts...)
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("open collection %s: %w", name, err)
	}
	return col
}

func persistenceMode(g *docstore.Gateway) string {
	if g.Enabled() {
		return "postgres"
	}
	return "memory"
}

// newRevocationList prefers Redis, then Postgres, then process memory. The
// Postgres list is purged periodically on g.
func newRevocationList(ctx context.Context, cfg config.Server, rdb *redisclient.Client, g *errgroup.Group, log *slog.Logger) (revocation.List, error) {
	if rdb != nil {
		return revocation.NewRedis(rdb.Client), nil
	}
	if cfg.DatabaseURL == "" {
		return revocation.NewMemory(nil), nil
	}
	pg, err := revocation.OpenPostgres(ctx, cfg.DatabaseURL, nil)
	if err != nil {
		return nil, err
	}
	g.Go(func() error {
		defer pg.Close()
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				n, err := pg.Purge(ctx)
				if err != nil {
					log.WarnContext(ctx, "token revocation purge failed", "error", err)
					continue
				}
				log.DebugContext(ctx, "purged expired token revocations", "count", n)
			}
		}
	})
	return pg, nil
}

// newRateLimiter shares windows through Redis when available. The in-memory
// store is swept on g so idle clients do not accumulate.
func newRateLimiter(ctx context.Context, cfg config.RateLimitConfig, rdb *redisclient.Client, g *errgroup.Group, log *slog.Logger, m *metrics.Metrics) *rateLimitMiddleware.Middleware {
	policy := rateLimitModels.Policy{Limit: cfg.AuthLimit, Window: cfg.Window}
	opts := []rateLimitMiddleware.Option{rateLimitMiddleware.WithLogger(log), rateLimitMiddleware.WithMetrics(m)}
	if rdb != nil {
		return rateLimitMiddleware.New(rateLimitStore.NewRedis(rdb.Client), policy, opts...)
	}
	mem := rateLimitStore.NewMemory()
	if policy.Enabled() {
		g.Go(func() error {
			ticker := time.NewTicker(policy.Window)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					mem.Sweep(policy.Window)
				}
			}
		})
	}
	return rateLimitMiddleware.New(mem, policy, opts...)
}

func newUploadStorage(ctx context.Context, cfg config.UploadConfig) (uploadService.Storage, error) {
	if cfg.Provider == "gcs" {
		return uploadStorage.NewGCS(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSON)
	}
	return uploadStorage.NewLocal(cfg.Dir, cfg.PublicPrefix)
}

func newMailer(ctx context.Context, cfg config.MailConfig, log *slog.Logger) mailer.Mailer {
	fallback := mailer.NewLog(log)
	var primary mailer.Mailer
	switch cfg.Provider {
	case "http":
		primary = mailer.NewHTTP(cfg.APIURL, cfg.APIKey, nil)
	case "ses":
		sesMailer, err := mailer.NewSESFromConfig(ctx, cfg.SES.Region, cfg.SES.AccessKeyID, cfg.SES.SecretAccessKey)
		if err != nil {
			log.WarnContext(ctx, "ses mailer unavailable, logging emails instead", "error", err)
			return fallback
		}
		primary = sesMailer
	default:
		return fallback
	}
	breaker := circuit.New("mail-"+cfg.Provider, circuit.WithFailureThreshold(3), circuit.WithCooldown(time.Minute))
	return mailer.NewFallback(primary, fallback, breaker, log)
}
