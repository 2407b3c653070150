package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/parlor-chat/parlor/internal/agents"
	"github.com/parlor-chat/parlor/internal/api"
	"github.com/parlor-chat/parlor/internal/bus"
	"github.com/parlor-chat/parlor/internal/config"
	"github.com/parlor-chat/parlor/internal/dedup"
	"github.com/parlor-chat/parlor/internal/dispatch"
	"github.com/parlor-chat/parlor/internal/gen"
	"github.com/parlor-chat/parlor/internal/gen/anthropic"
	"github.com/parlor-chat/parlor/internal/gen/openai"
	"github.com/parlor-chat/parlor/internal/handlers"
	"github.com/parlor-chat/parlor/internal/history"
	"github.com/parlor-chat/parlor/internal/orchestrator"
	"github.com/parlor-chat/parlor/internal/ratelimit"
	"github.com/parlor-chat/parlor/internal/shutdown"
	"github.com/parlor-chat/parlor/internal/world"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("configuration invalid")
	}

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	// World: the room graph is fixed at startup and validated before use.
	eventBus := bus.New()
	w := world.New(eventBus)
	if err := buildRooms(w, eventBus); err != nil {
		logger.Fatal().Err(err).Msg("world construction failed")
	}

	// Agent roster
	registry := agents.NewRegistry()
	if cfg.RosterPath != "" {
		err = registry.LoadFile(cfg.RosterPath)
	} else {
		err = registry.LoadDefault()
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("agent roster invalid")
	}
	logger.Info().Int("agents", registry.Len()).Msg("agent roster loaded")

	// Generation services, one per configured provider key.
	services := map[string]gen.Service{}
	if cfg.AnthropicAPIKey != "" {
		svc := anthropic.New(func(o *anthropic.Options) { o.APIKey = cfg.AnthropicAPIKey })
		services[agents.ProviderAnthropic] = gen.WithTimeout{Service: svc, Timeout: cfg.GenTimeout}
	}
	if cfg.OpenAIAPIKey != "" {
		svc := openai.New(func(o *openai.Options) { o.APIKey = cfg.OpenAIAPIKey })
		services[agents.ProviderOpenAI] = gen.WithTimeout{Service: svc, Timeout: cfg.GenTimeout}
	}

	hist := history.NewStore(0)
	orch := orchestrator.New(registry, w, hist, services, logger)
	if err := orch.Start(); err != nil {
		logger.Fatal().Err(err).Msg("orchestrator start failed")
	}

	// Protection layers and their sweepers.
	sweepCtx, stopSweeps := context.WithCancel(context.Background())
	limiter := ratelimit.New(func(o *ratelimit.Options) { o.MaxPerWindow = cfg.RateLimitPerMinute })
	cache := dedup.New()
	go limiter.Run(sweepCtx)
	go cache.Run(sweepCtx)

	router := dispatch.New(limiter, cache, orch, logger, func(o *dispatch.Options) {
		o.QueueCapacity = cfg.QueueCapacity
	})
	go router.Run(context.Background())

	// HTTP server
	h := handlers.NewHandler(router, registry, w, logger, cfg.APIKeyConfigured())
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(logger, h),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting parlor server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Drain order: stop new HTTP traffic, drain the dispatch queue, then
	// take the orchestrator and sweepers down.
	mgr := shutdown.NewManager(logger, cfg.ShutdownTimeout)
	mgr.Register("http", srv.Shutdown)
	mgr.Register("dispatch", router.Shutdown)
	mgr.Register("orchestrator", func(ctx context.Context) error {
		orch.Stop()
		stopSweeps()
		return nil
	})
	mgr.Wait()
}

// buildRooms assembles the default room graph. Exits reference rooms by
// id and may form cycles; Validate catches dangling ids.
func buildRooms(w *world.World, b *bus.Bus) error {
	rooms := []struct {
		id, name, description string
		exits                 []string
	}{
		{"lounge", "The Lounge", "Soft chairs and endless conversation.", []string{"hallway", "study"}},
		{"study", "The Study", "Bookshelves and a crackling terminal.", []string{"lounge", "hallway"}},
		{"garden", "The Garden", "A quiet patch of green behind the house.", []string{"hallway"}},
		{"hallway", "The Hallway", "Connects everything to everything.", []string{"lounge", "study", "garden"}},
	}
	for _, r := range rooms {
		entity := world.NewEntity(b, r.id, world.KindRoom, r.name, r.description)
		if err := w.AddRoom(world.NewRoom(entity, r.exits...)); err != nil {
			return err
		}
	}
	return w.Validate()
}
