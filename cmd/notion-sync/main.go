package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/canvas2notion/notion-sync/internal/config"
	"github.com/canvas2notion/notion-sync/pkg/client"
	"github.com/canvas2notion/notion-sync/pkg/logging"
	"github.com/canvas2notion/notion-sync/pkg/notion"
	"github.com/canvas2notion/notion-sync/pkg/reconcile"
	"github.com/canvas2notion/notion-sync/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
	})

	// Setup Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisURL).Msg("Failed to connect to Redis")
	}
	log.Info().Str("addr", cfg.RedisURL).Msg("Connected to Redis")

	store := storage.NewRedisStore(redisClient, cfg.StoragePrefix)
	registry := client.NewRegistry(nil)
	reconciler := reconcile.New(store, registry, cfg.ReconcileConfig(), nil)

	// Startup credential check is advisory only; a bad credential still lets
	// the service come up, each run then aborts with its own alert.
	if cfg.NotionKey != "" {
		c := registry.GetInstance(cfg.ReconcileConfig().Client)
		if !registry.ValidateCredential(ctx, c) {
			log.Warn().
				Str("credential", notion.FingerprintCredential(cfg.NotionKey)).
				Msg("Notion credential did not validate")
		}
	}

	scheduler := gocron.NewScheduler(time.UTC)
	_, err = scheduler.Every(cfg.SyncInterval).StartImmediately().Do(func() {
		created := reconciler.Run(context.Background())
		log.Info().Int("created", len(created)).Msg("Sync run finished")
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule sync job")
	}
	scheduler.StartAsync()

	// HTTP Server
	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/ready", readyHandler(redisClient))
	http.HandleFunc("/sync", syncHandler(reconciler))
	http.Handle("/metrics", promhttp.Handler())

	addr := ":" + cfg.Port
	log.Info().
		Str("addr", addr).
		Dur("interval", cfg.SyncInterval).
		Msg("Starting notion-sync server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}
}

// syncHandler triggers a reconciliation run outside the schedule.
func syncHandler(reconciler *reconcile.Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		created := reconciler.Run(r.Context())

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"created": len(created),
		})
	}
}
