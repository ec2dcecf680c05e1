// Package app wires the ledger engine to the backends selected by config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/lock"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

// App owns the engine and everything it was built from.
type App struct {
	Engine *ledger.Engine

	store     *sqlite.SQLiteStore
	redis     *redis.Client
	publisher events.Publisher
}

// New opens storage, connects the optional Redis lock and AMQP publisher and
// builds the engine. Close releases all of them.
func New(ctx context.Context, cfg *config.Config, m *metrics.Ledger) (*App, error) {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a := &App{store: store, publisher: events.Noop{}}
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var locker lock.Locker = lock.NewLocal()
	if cfg.Lock.RedisAddress != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Lock.RedisAddress,
			Password: cfg.Lock.RedisPassword,
			DB:       cfg.Lock.RedisDB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Lock.RedisAddress, err)
		}
		locker = lock.NewRedis(a.redis, cfg.Lock.TTL, cfg.Lock.RetryInterval)
		slog.Info("Using Redis group locks", "address", cfg.Lock.RedisAddress)
	}

	if cfg.Event.AMQPURL != "" {
		publisher, err := events.NewAMQP(cfg.Event.AMQPURL, cfg.Event.Exchange, cfg.Event.RoutingKey)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize event publisher: %w", err)
		}
		a.publisher = publisher
		slog.Info("Publishing balance events", "exchange", cfg.Event.Exchange, "routing_key", cfg.Event.RoutingKey)
	}

	a.Engine = ledger.New(store,
		ledger.WithLocker(locker),
		ledger.WithPublisher(a.publisher),
		ledger.WithMetrics(m),
		ledger.WithLogger(slog.Default()),
	)
	return a, nil
}

// Close shuts down the publisher, Redis client and store, in that order.
func (a *App) Close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.store.Close())
	return errors.Join(errs...)
}
