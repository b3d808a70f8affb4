package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/airavata-tech/portfolio-api/config"
	"github.com/airavata-tech/portfolio-api/internal/catalog/repository"
)

// OpenStore connects the configured document store and verifies it answers a
// ping. Driver "none" yields a nil store and no error.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, error) {
	timeout := cfg.Store.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	switch cfg.Store.Driver {
	case config.DriverNone:
		log.Info("document store disabled, serving static catalog only")
		return nil, nil

	case config.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().
			ApplyURI(cfg.Store.MongoURI).
			SetConnectTimeout(timeout).
			SetServerSelectionTimeout(timeout))
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}

		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := client.Ping(pctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo ping: %w", err)
		}

		log.Info("connected to mongodb", zap.String("database", cfg.Store.MongoDatabase))
		return repository.NewMongoStore(client, cfg.Store.MongoDatabase, repository.WithLogger(log)), nil

	case config.DriverPostgres:
		pool, err := OpenDB(ctx, DBOptions{
			DSN:       cfg.Database.PostgresDSN(),
			ConnectTO: timeout,
			PingTO:    timeout,
			MaxConns:  cfg.Database.MaxConns,
		})
		if err != nil {
			return nil, err
		}

		log.Info("connected to postgres", zap.String("database", cfg.Database.Name))
		return repository.NewPostgresStore(pool, repository.WithLogger(log)), nil

	case config.DriverRedis:
		opt, err := redis.ParseURL(cfg.Store.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis url: %w", err)
		}
		opt.DialTimeout = timeout
		client := redis.NewClient(opt)

		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := client.Ping(pctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}

		log.Info("connected to redis", zap.Int("db", opt.DB))
		return repository.NewRedisStore(client, repository.WithLogger(log)), nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
