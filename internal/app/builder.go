package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/auth/blacklist"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/auth/password"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/auth/token"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/config"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/infra/cache/memory"
	redisx "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/infra/cache/redis"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/infra/database/postgres"
	s3storage "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/infra/storage/s3"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web"
)

type App struct {
	config  *config.Config
	server  *web.Server
	log     *log.Logger
	storage domain.BlobStorage
	store   domain.CacheStore
	repo    *postgres.PGRepo
}

func Build(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[app] ", log.LstdFlags)

	serverLog := log.New(base.Writer(), base.Prefix()+"[server] ", base.Flags())
	pgLog := log.New(base.Writer(), base.Prefix()+"[postgres] ", base.Flags())
	cacheLog := log.New(base.Writer(), base.Prefix()+"[cache] ", base.Flags())

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}
	base.Printf("\n  configuration: %s-------------------", cfg)

	base.Println("init PostgreSQL")
	pgRepo, err := postgres.NewPGRepo(ctx, pgLog, cfg.GetDSN(), cfg.DBScheme)
	if err != nil {
		return nil, fmt.Errorf("failed init postgres: %w", err)
	}
	base.Println("PostgreSQL is initialized")

	base.Println("init S3 storage")
	s3, err := s3storage.New(ctx, s3storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
		PathStyle: cfg.S3PathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed init s3: %w", err)
	}

	// Кеш: Redis в проде, in-memory для локалки/тестов.
	// Недоступный Redis не валит старт — сервис живёт в режиме fail-open.
	var store domain.CacheStore
	switch cfg.CacheBackend {
	case "memory":
		base.Println("init in-memory cache")
		store = memory.New()
	default:
		base.Println("init Redis")
		rc := redisx.New(redisx.Config{
			Addr:     cfg.RedisAddr,
			DB:       cfg.RedisDB,
			Password: cfg.RedisPassword,
		}, cacheLog)
		if err := rc.Ping(ctx); err != nil {
			base.Printf("redis unavailable, continuing fail-open: %v", err)
		}
		store = rc
	}
	cacheSvc := cache.NewService(store, cacheLog, cfg.CacheDefaultTTL)
	invalidator := cache.NewInvalidator(cacheSvc, cacheLog)

	// Auth primitives
	hasher := password.NewDefault()
	tm := token.New(cfg.AuthJWTSecret, cfg.AuthIssuer, cfg.AuthTokenTTL)
	bl := blacklist.NewStore(cacheSvc)

	base.Println("init Server")
	rep := web.Repos{Users: pgRepo, Foods: pgRepo, Pantry: pgRepo, Shopping: pgRepo}
	ad := web.AuthDeps{Hasher: hasher, Tokens: tm, Blacklist: bl, AdminToken: cfg.AuthAdminToken}
	cd := web.CacheDeps{
		Service:     cacheSvc,
		Invalidator: invalidator,
		ListTTL:     cfg.CacheListTTL,
		EntityTTL:   cfg.CacheEntityTTL,
	}
	server := web.New(serverLog, cfg, rep, ad, cd, pgRepo, s3)
	base.Println("Server is initialized")

	base.Println("build ended")
	return &App{
		config:  cfg,
		server:  server,
		log:     base,
		storage: s3,
		store:   store,
		repo:    pgRepo,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Println("start application...")
	go a.server.Run()
	<-ctx.Done()
	a.log.Println("stop application...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.server.Close(stopCtx)
	a.repo.Close()
	a.store.Close()

	return nil
}
