package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skill-bridge/internal/catalog"
	"skill-bridge/internal/config"
	"skill-bridge/internal/database"
	dbpostgres "skill-bridge/internal/database/postgres"
	"skill-bridge/internal/domain/matching"
	"skill-bridge/internal/embedding"
	"skill-bridge/internal/extractor"
	"skill-bridge/internal/infrastructure/cache"
	"skill-bridge/internal/ingest"
	"skill-bridge/internal/pkg/logger"
	"skill-bridge/internal/queue"
	"skill-bridge/internal/repository"
	"skill-bridge/internal/session"
	"skill-bridge/internal/usecase"

	"github.com/streadway/amqp"
)

const analysisLockTTL = 5 * time.Minute

// Container holds the process-wide dependencies shared by cmd/server and
// cmd/worker.
type Container struct {
	Config config.Config
	Logger *logger.Logger

	Redis    *cache.Redis
	DB       database.DB
	Catalog  *catalog.Catalog
	Embedder embedding.Provider

	CatalogUC  *usecase.Catalog
	AnalysisUC *usecase.Analysis
	Sessions   session.Store
	Locks      session.Locker

	Broker    *queue.Broker
	Publisher *queue.Publisher
	pubCh     *amqp.Channel
}

func NewContainer(ctx context.Context, cfg config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: log}
	c.Redis = cache.NewRedis(cfg.Redis, log)

	if err := c.loadCatalog(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	embedder, err := embedding.New(ctx, cfg.Embedding, c.Redis, log)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	// Unknown ids embed as their literal text; keep those out of the caches.
	c.Embedder = embedder.Only(c.Catalog.Ontology.IsSkillName)

	profiles := matching.NewAggregator(embedder, c.Catalog.Ontology)
	roles := matching.NewRoleMatcher(c.Catalog.Roles, profiles)
	if err := roles.Warm(ctx); err != nil {
		log.Warn("role vectors not precomputed", "error", err)
	}

	var fetcher usecase.DocumentFetcher
	if cfg.Storage.Enabled() {
		f, err := ingest.NewS3Fetcher(ctx, cfg.Storage)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("object storage: %w", err)
		}
		fetcher = f
	}

	c.CatalogUC = usecase.NewCatalogUsecase(c.Catalog)
	c.AnalysisUC = usecase.NewAnalysisUsecase(
		extractor.NewSubstringExtractor(c.Catalog.Ontology),
		profiles,
		roles,
		matching.NewBridgeRecommender(c.Catalog.Courses),
		fetcher,
		usecase.Limits{Match: cfg.Matching.MatchLimit, Bridge: cfg.Matching.BridgeLimit},
		log,
	)
	c.Sessions = session.NewStore(c.Redis, cfg.Redis.SessionTTL)
	c.Locks = session.NewLocker(c.Redis, analysisLockTTL)

	if err := c.connectQueue(); err != nil {
		_ = c.Close()
		return nil, err
	}

	log.Info("container ready",
		"catalog_source", cfg.Catalog.Source,
		"skills", c.Catalog.Ontology.Len(),
		"roles", len(c.Catalog.Roles),
		"courses", len(c.Catalog.Courses),
		"redis", c.Redis.Available(),
		"storage", cfg.Storage.Enabled(),
		"queue", c.Broker != nil,
	)
	return c, nil
}

func (c *Container) loadCatalog(ctx context.Context) error {
	opts := catalog.Options{Strict: c.Config.Catalog.Strict, Logger: c.Logger}

	var src catalog.Source
	switch c.Config.Catalog.Source {
	case config.CatalogSourcePostgres:
		db, err := dbpostgres.Connect(ctx, c.Config.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		c.DB = db
		src = repository.NewPostgresCatalogRepository(db, opts)
	default:
		src = catalog.NewFileSource(catalog.Paths{
			Ontology: c.Config.Catalog.SkillOntologyPath,
			Roles:    c.Config.Catalog.RoleCatalogPath,
			Courses:  c.Config.Catalog.CourseCatalogPath,
		}, opts)
	}

	cat, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	c.Catalog = cat
	return nil
}

func (c *Container) connectQueue() error {
	if c.Config.Queue.RabbitMQURL == "" {
		return nil
	}
	b, err := queue.Dial(c.Config.Queue)
	if err != nil {
		return err
	}
	ch, err := b.Channel()
	if err != nil {
		_ = b.Close()
		return err
	}
	c.Broker = b
	c.pubCh = ch
	c.Publisher = queue.NewPublisher(ch, c.Config.Queue.AnalysisQueue, c.Config.Queue.SessionExchange)
	return nil
}

// NewSessionUsecase builds the session usecase with the given notifiers.
func (c *Container) NewSessionUsecase(notifiers ...session.Notifier) *usecase.Sessions {
	return usecase.NewSessionUsecase(c.Sessions, c.Locks, c.AnalysisUC, session.NewFanout(c.Logger, notifiers...), c.Logger)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.pubCh != nil {
		errs = append(errs, c.pubCh.Close())
	}
	if c.Broker != nil {
		errs = append(errs, c.Broker.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	return errors.Join(errs...)
}
