package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/SystemBuilders/CelLock/internal/config"
	"github.com/SystemBuilders/CelLock/internal/coordinator"
	"github.com/SystemBuilders/CelLock/internal/entitystore"
	"github.com/SystemBuilders/CelLock/internal/httpapi"
	"github.com/SystemBuilders/CelLock/internal/lock"
	"github.com/SystemBuilders/CelLock/internal/lockbackend"
	"github.com/SystemBuilders/CelLock/internal/message"
	"github.com/SystemBuilders/CelLock/internal/metrics"
)

func run(args []string) int {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "cellockd",
		Short:         "cell coordination daemon: locks, counters and message state",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func serve(cfg *config.Config) error {
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	backend, err := newBackend(cfg, log)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	locks := lock.NewManager(backend, lock.Config{
		RetryTimes:    cfg.LockRetryTimes,
		RetryInterval: cfg.LockRetryInterval,
		Metrics:       metrics.NewLock(registry),
	}, log)

	store := entitystore.NewInMemory()
	resolver := newBoxResolver(store)

	deps := httpapi.Deps{
		Locks:         locks,
		Cells:         coordinator.NewCellStatus(backend, log),
		Mode:          coordinator.NewReadDeleteMode(backend, log),
		Accounts:      coordinator.NewAccountLockout(backend, cfg.AccountLockThreshold, cfg.AccountLockTTL, log),
		AuthIntervals: coordinator.NewAuthInterval(backend, cfg.AuthIntervalTTL, log),
		Messages: func(cellID string) *message.StateMachine {
			return message.NewStateMachine(locks, store, resolver, cellID, log)
		},
		Gatherer: registry,
		Log:      log,
	}
	log.
		Info().
		Str("backend", cfg.Backend).
		Msg("coordination daemon configured")
	return httpapi.Serve(deps, cfg.ListenAddr)
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(lvl), nil
}

func newBackend(cfg *config.Config, log zerolog.Logger) (lockbackend.Backend, error) {
	switch cfg.Backend {
	case config.BackendInProcess:
		return lockbackend.NewInProcess(log), nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, err
		}
		return lockbackend.NewRedis(client, log), nil
	default:
		return nil, config.ErrUnknownBackend
	}
}

// newBoxResolver answers schema URL lookups out of the entity store.
// A box installed for a schema is stored as a Box document keyed by
// cell and schema URL.
func newBoxResolver(store entitystore.Store) entitystore.Resolver {
	return entitystore.ResolverFunc(func(ctx context.Context, cellID, schemaURL string) (string, error) {
		doc, err := store.Get(ctx, "Box", cellID+":"+schemaURL)
		if errors.Is(err, entitystore.ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return doc.Fields["name"], nil
	})
}
