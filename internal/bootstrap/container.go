package bootstrap

import (
	"context"
	"log"
	"os"

	"feature-catalog-be/internal/config"
	"feature-catalog-be/internal/controller"
	"feature-catalog-be/internal/pkg/logger"
	"feature-catalog-be/internal/repository/memory"
	"feature-catalog-be/internal/repository/unitofwork"
	"feature-catalog-be/internal/service"
	"feature-catalog-be/pkg/cache"
	"feature-catalog-be/pkg/catalog/cascade"
	"feature-catalog-be/pkg/catalog/coordinator"
	catalogEvents "feature-catalog-be/pkg/catalog/events"
	"feature-catalog-be/pkg/catalog/reference"
	"feature-catalog-be/pkg/filestore"
	"feature-catalog-be/pkg/search"

	pktNats "feature-catalog-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	FeatureRecordController controller.IFeatureRecordController
	ReferenceController     controller.IReferenceController

	// Background Services (Exposed for main.go to run)
	ArtifactCleanupService   service.IArtifactCleanupService
	CacheInvalidationService service.ICacheInvalidationService // nil without NATS or with a shared cache

	// Shared with the CLI tools
	References *reference.Store
	Logger     logger.ILogger

	closers []func()
}

// Close releases broker connections
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		closeFn()
	}
}

// NewUnitOfWorkFactory picks the record store backend. db may be nil for the memory driver.
func NewUnitOfWorkFactory(db *gorm.DB, cfg *config.Config) unitofwork.RepositoryFactory {
	if cfg.Database.Driver == "memory" {
		log.Printf("[WARN] Using in-memory store, data is lost on restart")
		return memory.NewRepositoryFactory(memory.NewStore())
	}
	return unitofwork.NewRepositoryFactory(db)
}

func newOptionsCache(cfg *config.Config, sysLogger logger.ILogger) cache.OptionsCache {
	if cfg.Cache.Driver != "redis" {
		return cache.NewMemoryCache(cfg.Cache.TTL)
	}

	opt, err := redis.ParseURL(cfg.Cache.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.Cache.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	return cache.NewRedisCache(rdb, cfg.Cache.TTL, sysLogger)
}

func processOrigin() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return host + "-" + uuid.NewString()[:8]
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := NewUnitOfWorkFactory(db, cfg)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	localFiles, err := filestore.NewLocalStore(
		cfg.Storage.UploadDir,
		int64(cfg.Storage.MaxUploadMB)*1024*1024,
		filestore.DefaultAllowedExtensions,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to prepare upload directory: %v", err)
	}
	files := filestore.NewQueuedStore(localFiles, pubSub)

	optionCache := newOptionsCache(cfg, sysLogger)

	synonyms, err := search.LoadSynonyms(cfg.Search.SynonymsFile)
	if err != nil {
		log.Printf("[WARN] Failed to load synonyms from %q: %v. Using built-in dictionary", cfg.Search.SynonymsFile, err)
		synonyms = search.DefaultSynonyms()
	}

	// NATS
	origin := processOrigin()
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL, origin)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	var sender catalogEvents.Sender
	if natsPub != nil {
		sender = natsPub
	}
	eventPublisher := catalogEvents.NewBusPublisher(sender, sysLogger)

	// 4. Domain
	refs := reference.NewStore(uowFactory, auditLogger)
	coord := coordinator.New(uowFactory, refs, files, eventPublisher, sysLogger)
	resolver := cascade.NewResolver(uowFactory)
	engine := search.NewEngine(uowFactory, synonyms)
	c.References = refs

	// 5. Services
	featureRecordService := service.NewFeatureRecordService(coord, engine, optionCache)
	referenceService := service.NewReferenceService(refs, resolver, optionCache, auditLogger)

	c.ArtifactCleanupService = service.NewArtifactCleanupService(pubSub, filestore.CleanupTopic, localFiles, sysLogger)
	if natsSub != nil && cfg.Cache.Driver != "redis" {
		c.CacheInvalidationService = service.NewCacheInvalidationService(natsSub, origin, optionCache, sysLogger)
	}

	// 6. Controllers
	c.FeatureRecordController = controller.NewFeatureRecordController(featureRecordService)
	c.ReferenceController = controller.NewReferenceController(referenceService)

	return c
}
