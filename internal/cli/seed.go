package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"brainbuzz/internal/catalog"
	"brainbuzz/internal/config"
	"brainbuzz/internal/domain"
	"brainbuzz/internal/infra/postgres"
	redisinfra "brainbuzz/internal/infra/redis"
	"brainbuzz/internal/wordle"
)

// NewSeedCmd stores question banks in Postgres: the built-in ones, or
// those read from the YAML files given with --file.
func NewSeedCmd(configPath *string) *cobra.Command {
	var files []string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load question banks into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			setupLogger(cfg.LogLevel)

			banks := catalog.BuiltinBanks()
			if len(files) > 0 {
				if banks, err = readBankFiles(files); err != nil {
					return err
				}
			}
			return seedBanks(cmd.Context(), cfg, banks)
		},
	}
	cmd.Flags().StringSliceVar(&files, "file", nil, "YAML bank file (repeatable)")
	return cmd
}

// bankFile is the on-disk layout: a list of banks under "banks".
type bankFile struct {
	Banks []domain.Bank `yaml:"banks"`
}

func readBankFiles(paths []string) ([]domain.Bank, error) {
	var out []domain.Bank
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		var f bankFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, f.Banks...)
	}
	return out, nil
}

// validateBank rejects banks a game could not be played from.
func validateBank(cat *catalog.Catalog, b domain.Bank) error {
	g, err := cat.Lookup(b.Game)
	if err != nil {
		return err
	}
	if len(b.Items) == 0 {
		return fmt.Errorf("%s: %w", b.Game, domain.ErrEmptyBank)
	}
	seen := make(map[string]bool, len(b.Items))
	for i, it := range b.Items {
		switch {
		case it.ID == "":
			return fmt.Errorf("%s item %d: missing id", b.Game, i)
		case seen[it.ID]:
			return fmt.Errorf("%s item %s: duplicate id", b.Game, it.ID)
		}
		seen[it.ID] = true

		if g.Word {
			if _, err := wordle.New(it.Answer); err != nil {
				return fmt.Errorf("%s item %s: %w", b.Game, it.ID, err)
			}
			continue
		}
		if len(it.Options) == 0 {
			if it.Answer == "" {
				return fmt.Errorf("%s item %s: needs options or an answer", b.Game, it.ID)
			}
			continue
		}
		if it.Correct < 0 || it.Correct >= len(it.Options) {
			return fmt.Errorf("%s item %s: correct index %d out of range", b.Game, it.ID, it.Correct)
		}
	}
	return nil
}

func seedBanks(ctx context.Context, cfg config.Config, banks []domain.Bank) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	cat := catalog.Default()
	for _, b := range banks {
		if err := validateBank(cat, b); err != nil {
			return err
		}
	}

	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	var cache *redisinfra.BankRepository
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		cache = redisinfra.NewBankRepository(client, nil, 0)
	}

	loader := postgres.NewBankLoader(pool)
	for _, b := range banks {
		if err := loader.SaveBank(ctx, b); err != nil {
			return fmt.Errorf("save %s: %w", b.Game, err)
		}
		if cache != nil {
			if err := cache.Invalidate(ctx, b.Game); err != nil {
				log.Warn().Err(err).Str("game", string(b.Game)).Msg("cached bank not invalidated")
			}
		}
		log.Info().Str("game", string(b.Game)).Int("items", len(b.Items)).Msg("bank stored")
	}
	return nil
}
