// Package app wires configuration, storage and services into a runnable
// HTTP handler.
package app

import (
	"aperturelab/internal/cache"
	"aperturelab/internal/catalog"
	"aperturelab/internal/config"
	"aperturelab/internal/flag"
	"aperturelab/internal/platform/logger"
	"aperturelab/internal/repository"
	"aperturelab/internal/service"
	"aperturelab/internal/transport/rest"
	"aperturelab/internal/transport/ws"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

const connectTimeout = 5 * time.Second

// App owns every long-lived dependency of the server
type App struct {
	Config  *config.Config
	Log     *logger.Logger
	Handler http.Handler

	Catalog *service.CatalogService
	Lessons *service.LessonService
	Quizzes *service.QuizService
	Hub     *ws.Hub

	mongo   *mongo.Client
	redis   *redis.Client
	closers []io.Closer
}

// New connects to the configured backends and builds the router. Without
// MONGO_URI or REDIS_URI the matching stores run in process.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}
	ok := false
	defer func() {
		if !ok {
			a.Close(context.Background())
		}
	}()

	// Backends connect in parallel; either one failing aborts startup
	g, gctx := errgroup.WithContext(ctx)
	if cfg.MongoURI != "" {
		g.Go(func() error {
			client, err := connectMongo(gctx, cfg.MongoURI)
			if err != nil {
				return err
			}
			a.mongo = client
			return nil
		})
	}
	if cfg.RedisURI != "" {
		g.Go(func() error {
			client, err := connectRedis(gctx, cfg.RedisAddr())
			if err != nil {
				return err
			}
			a.redis = client
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var db *mongo.Database
	if a.mongo != nil {
		db = a.mongo.Database(cfg.MongoDB)
		if err := repository.EnsureIndexes(ctx, db); err != nil {
			log.Warn("failed to ensure indexes", "error", err)
		}
		log.Info("connected to MongoDB", "db", cfg.MongoDB)
	}
	if a.redis != nil {
		log.Info("connected to Redis")
	}

	// Initialize repositories and caches
	attempts := repository.NewMemoryAttemptRepo()
	var topics repository.TopicRepo
	if db != nil {
		attempts = repository.NewAttemptRepo(db)
		topics = repository.NewTopicRepo(db)
	}
	learnerCache := cache.NewMemoryLearnerCache()
	if a.redis != nil {
		learnerCache = cache.NewLearnerCache(a.redis, cfg.StateTTL)
	}
	flags, err := a.openFlagStore(db)
	if err != nil {
		return nil, err
	}
	log.Info("flag store ready", "backend", cfg.FlagBackend)

	// Content
	base, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	cat := service.LoadCatalog(ctx, base, topics, log)

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.TokenTTL)
	a.Catalog, err = service.NewCatalogService(cat, cfg.QuizURL)
	if err != nil {
		return nil, err
	}
	a.Lessons = service.NewLessonService(a.Catalog, learnerCache, flags, authSvc, log)
	a.Quizzes = service.NewQuizService(a.Catalog, learnerCache, attempts, flags, cfg.AutoAdvance, log)

	// Inject broadcaster (hub implements service.Broadcaster)
	a.Hub = ws.NewHub(log)
	a.Lessons.SetBroadcaster(a.Hub)
	a.Quizzes.SetBroadcaster(a.Hub)

	a.Handler = rest.NewRouter(&rest.Container{
		AuthService:    authSvc,
		CatalogService: a.Catalog,
		LessonService:  a.Lessons,
		QuizService:    a.Quizzes,
		WSHub:          a.Hub,
		CORS:           cfg.CORS,
		Logger:         log,
	})

	ok = true
	return a, nil
}

// openFlagStore builds the store named by FLAG_BACKEND
func (a *App) openFlagStore(db *mongo.Database) (flag.Store, error) {
	switch a.Config.FlagBackend {
	case flag.BackendMemory, "":
		return flag.NewMemory(), nil
	case flag.BackendGdata:
		s, err := flag.OpenGdata(a.Config.FlagAppName)
		if err != nil {
			return nil, fmt.Errorf("open gdata flag store: %w", err)
		}
		return s, nil
	case flag.BackendSQLite:
		s, err := flag.OpenSQLite(a.Config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite flag store: %w", err)
		}
		a.closers = append(a.closers, s)
		return s, nil
	case flag.BackendRedis:
		if a.redis == nil {
			return nil, errors.New("redis flag store needs REDIS_URI")
		}
		return cache.NewFlagCache(a.redis), nil
	case flag.BackendMongo:
		if db == nil {
			return nil, errors.New("mongo flag store needs MONGO_URI")
		}
		return repository.NewFlagRepo(db), nil
	}
	return nil, fmt.Errorf("unknown flag backend %q", a.Config.FlagBackend)
}

// Close stops timers and the hub, then releases storage connections
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Quizzes != nil {
		a.Quizzes.Close()
	}
	if a.Hub != nil {
		a.Hub.Close()
	}
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.mongo != nil {
		errs = append(errs, a.mongo.Disconnect(ctx))
	}
	return errors.Join(errs...)
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect MongoDB: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}

func connectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping Redis: %w", err)
	}
	return rdb, nil
}
