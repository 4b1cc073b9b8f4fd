package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"brainbuzz/internal/app"
	"brainbuzz/internal/catalog"
	"brainbuzz/internal/config"
	"brainbuzz/internal/infra/firebase"
	"brainbuzz/internal/infra/memory"
	"brainbuzz/internal/infra/postgres"
	redisinfra "brainbuzz/internal/infra/redis"
	"brainbuzz/internal/infra/sqlite"
	"brainbuzz/internal/metrics"
	transport "brainbuzz/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// backends are the stores selected by configuration.
type backends struct {
	banks      app.BankRepository
	plays      app.PlayRegistry
	profiles   app.ProfileStore
	auth       app.Authenticator
	challenges app.ChallengeStore
	local      app.LocalStatsStore
	closers    []io.Closer
}

func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil {
			log.Warn().Err(err).Msg("closing backend")
		}
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, redisClient)
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.close()
			return nil, err
		}
		b.closers = append(b.closers, closerFunc(func() error { pool.Close(); return nil }))
	}

	var fb *firebase.Connector
	if cfg.Firebase.ProjectID != "" {
		var err error
		fb, err = firebase.NewConnector(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			b.close()
			return nil, err
		}
		b.closers = append(b.closers, fb)
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(catalog.BuiltinBanks())
	if pool != nil {
		loader = memory.NewFallbackBankLoader(postgres.NewBankLoader(pool), loader)
	}
	bankTTL := config.TTLDuration(cfg.Bank.TTL, 5*time.Minute)

	switch {
	case redisClient != nil:
		b.banks = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
		b.plays = redisinfra.NewPlayRegistry(redisClient, redisTTL)
	default:
		b.banks = memory.NewBankRepository(loader, bankTTL)
		b.plays = memory.NewPlayRegistry()
	}

	switch {
	case fb != nil:
		b.auth = fb.Authenticator()
		b.profiles = fb.Profiles()
	case pool != nil:
		b.auth = postgres.NewAuthenticator(pool, 0)
		b.profiles = postgres.NewProfileStore(pool)
	default:
		b.auth = memory.NewAuthenticator(0)
		b.profiles = memory.NewProfileStore()
	}

	switch {
	case fb != nil:
		b.challenges = fb.Challenges()
	case redisClient != nil:
		b.challenges = redisinfra.NewChallengeStore(redisClient, 0)
	default:
		b.challenges = memory.NewChallengeStore()
	}

	if cfg.SQLite.Path != "" {
		local, err := sqlite.NewLocalStatsStore(cfg.SQLite.Path)
		if err != nil {
			b.close()
			return nil, err
		}
		b.local = local
		b.closers = append(b.closers, local)
	} else {
		b.local = memory.NewLocalStatsStore()
	}

	log.Info().
		Bool("redis", redisClient != nil).
		Bool("postgres", pool != nil).
		Bool("firebase", fb != nil).
		Str("sqlite", cfg.SQLite.Path).
		Msg("backends ready")
	return b, nil
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.LogLevel)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	m := metrics.NewManager()
	challenges := app.NewChallengeService(b.challenges, time.Now)
	recorder := app.NewRecorder(b.local, b.profiles,
		app.WithRecorderLogger(logger),
		app.WithRecorderMetrics(m),
		app.WithChallenges(challenges),
	)
	games := app.NewGameService(catalog.Default(), b.banks, b.plays, recorder,
		app.WithLogger(logger),
		app.WithMetrics(m),
		app.WithAdvanceDelay(config.TTLDuration(cfg.Game.AdvanceDelay, 2*time.Second)),
	)
	profiles := app.NewProfileService(b.auth, b.profiles,
		app.WithLeaderboardLimits(cfg.Game.LeaderboardLimit, cfg.Game.MaxLeaderboardLimit),
		app.WithLocalStats(b.local),
	)

	server := &http.Server{
		Addr: ":" + finalPort,
		Handler: transport.NewRouter(transport.Deps{
			Games:      games,
			Profiles:   profiles,
			Challenges: challenges,
			Metrics:    m,
			Log:        logger,
		}),
		ReadHeaderTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", finalPort).Msg("starting brainbuzz")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		log.Info().Msg("shutting down server")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server")
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
		games.Shutdown()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	games.Shutdown()
	return err
}
