package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"suncoast/internal/auth"
	"suncoast/internal/cart"
	"suncoast/internal/catalog"
	"suncoast/internal/config"
	httpapi "suncoast/internal/http"
	"suncoast/internal/logging"
	"suncoast/internal/repository"
	"suncoast/internal/seed"
	"suncoast/internal/service"

	_ "suncoast/docs"
)

const cartEvictInterval = 5 * time.Minute

// @title Suncoast Dive Shop API
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, warnings := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Development())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	repos, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}

	loader := catalog.NewLoader(repos.products, logger)
	checks := map[string]httpapi.HealthCheck{}
	if repos.ping != nil {
		checks["database"] = repos.ping
	}

	// without redis the in-memory cart is the only copy and lives for CART_TTL
	cartOpts := []cart.StoreOption{cart.WithLogger(logger), cart.WithIdleTTL(cfg.CartTTL)}
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		persister := cart.NewRedisPersister(rdb, cfg.CartPrefix, cfg.CartTTL)
		if err := persister.Ping(context.Background()); err != nil {
			logger.Warn("redis unreachable, carts will persist once it is back", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		cartOpts = append(cartOpts, cart.WithPersister(persister), cart.WithIdleTTL(cfg.CartIdleTTL))
		checks["redis"] = persister.Ping
	}
	carts := cart.NewMemoryStore(loader, cartOpts...)

	productsSvc := service.NewProductService(repos.products, loader, logger)
	ordersSvc := service.NewOrderService(repos.products, repos.orders, repos.tx, carts, loader, logger)
	blogSvc := service.NewBlogService(repos.blog)
	promosSvc := service.NewPromotionService(repos.promotions)
	servicesSvc := service.NewServiceCatalogService(repos.services)
	searchSvc := service.NewSearchService(productsSvc, blogSvc, service.DefaultPages)

	ctx := context.Background()
	evictCtx, stopEvict := context.WithCancel(ctx)
	defer stopEvict()
	go carts.Run(evictCtx, cartEvictInterval)

	if cfg.Seed {
		if _, err := seed.New(productsSvc, blogSvc, promosSvc, servicesSvc, logger).Run(ctx); err != nil {
			logger.Fatal("seed", zap.Error(err))
		}
	}
	if _, err := loader.Current(ctx); err != nil {
		logger.Fatal("load catalog", zap.Error(err))
	}

	srv := httpapi.NewServer(httpapi.Deps{
		Products:   productsSvc,
		Orders:     ordersSvc,
		Blog:       blogSvc,
		Promotions: promosSvc,
		Services:   servicesSvc,
		Search:     searchSvc,
		Carts:      carts,
		Catalog:    loader,
		Auth:       auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer),
		Log:        logger,
		PageSize:   cfg.DefaultPageSize,
		Checks:     checks,
	})

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr), zap.String("store", cfg.Store))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	httpStopped := make(chan struct{})
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http": func(ctx context.Context) error {
				defer close(httpStopped)
				stopEvict()
				return httpServer.Shutdown(ctx)
			},
			"storage": func(ctx context.Context) error {
				// in-flight requests may still save carts or orders
				select {
				case <-httpStopped:
				case <-ctx.Done():
				}
				var errs []error
				if rdb != nil {
					errs = append(errs, rdb.Close())
				}
				errs = append(errs, closeStore())
				return errors.Join(errs...)
			},
		},
	)

	exitCode := <-wait
	logger.Info("exited", zap.Int("code", exitCode))
	_ = logger.Sync()
	os.Exit(exitCode)
}

type repositories struct {
	products   repository.ProductRepository
	orders     repository.OrderRepository
	blog       repository.BlogRepository
	promotions repository.PromotionRepository
	services   repository.ServiceCatalogRepository
	tx         repository.TxManager
	ping       httpapi.HealthCheck
}

func openStore(cfg config.Config, logger *zap.Logger) (repositories, func() error, error) {
	if cfg.Store == config.StoreSQLite {
		store, err := repository.OpenSQLite(cfg.DBPath)
		if err != nil {
			return repositories{}, nil, err
		}
		logger.Info("using sqlite store", zap.String("path", cfg.DBPath))
		return repositories{
			products:   store.Products(),
			orders:     store.Orders(),
			blog:       store.Blog(),
			promotions: store.Promotions(),
			services:   store.Services(),
			tx:         store,
			ping:       store.Ping,
		}, store.Close, nil
	}

	store := repository.NewMemoryStore()
	logger.Info("using in-memory store")
	return repositories{
		products:   store,
		orders:     repository.NewMemoryOrders(store),
		blog:       repository.NewMemoryBlog(store),
		promotions: repository.NewMemoryPromotions(store),
		services:   repository.NewMemoryServices(store),
		tx:         repository.NewMemoryTx(store),
	}, func() error { return nil }, nil
}
