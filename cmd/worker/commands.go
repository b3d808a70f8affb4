package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/airavata-tech/portfolio-api/config"
	"github.com/airavata-tech/portfolio-api/internal/bootstrap"
	"github.com/airavata-tech/portfolio-api/internal/catalog/domain"
	"github.com/airavata-tech/portfolio-api/internal/catalog/fallback"
	"github.com/airavata-tech/portfolio-api/internal/catalog/service"
	"github.com/airavata-tech/portfolio-api/internal/logging"
	"github.com/airavata-tech/portfolio-api/internal/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply Postgres schema migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := postgres.NewConnection(cfg.Database.PostgresDSN())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		v, err := postgres.MigrationVersion(cmd.Context(), db)
		if err != nil {
			return err
		}
		log.Info("migrations applied", zap.Int64("version", v))
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Copy the static catalog into the document store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withCatalog(cmd.Context(), func(ctx context.Context, svc *service.CatalogService, log *zap.Logger) error {
			nServices, nProjects, err := svc.Seed(ctx)
			if err != nil {
				return err
			}
			log.Info("catalog seeded", zap.Int("services", nServices), zap.Int("projects", nProjects))
			return nil
		})
	},
}

var syncIn domain.SyncInput

var syncImagesCmd = &cobra.Command{
	Use:   "sync-images",
	Short: "Upsert a project's cover and gallery by slug",
	Example: `  worker sync-images --slug train-with-winston \
    --image /images/winston/cover.jpg \
    --gallery /images/winston/1.jpg,/images/winston/2.jpg`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withCatalog(cmd.Context(), func(ctx context.Context, svc *service.CatalogService, _ *zap.Logger) error {
			res, err := svc.SyncImages(ctx, syncIn)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		})
	},
}

var deleteBySlugCmd = &cobra.Command{
	Use:   "delete-by-slug <slug>",
	Short: "Delete every project addressed by slug",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd.Context(), func(ctx context.Context, svc *service.CatalogService, _ *zap.Logger) error {
			n, err := svc.DeleteBySlug(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]int64{"deletedCount": n})
		})
	},
}

func init() {
	f := syncImagesCmd.Flags()
	f.StringVar(&syncIn.Slug, "slug", "", "project slug (required)")
	f.StringVar(&syncIn.Image, "image", "", "cover image URL")
	f.StringSliceVar(&syncIn.Gallery, "gallery", nil, "gallery image URLs, comma separated")
	f.StringVar(&syncIn.Name, "name", "", "display name (defaults to one derived from the slug)")
	f.StringVar(&syncIn.ServiceSlug, "service-slug", "", "owning service slug")
	f.StringVar(&syncIn.Category, "category", "", "category")
	_ = syncImagesCmd.MarkFlagRequired("slug")
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	log, err := logging.New(cfg.App.LogLevel, cfg.App.Environment)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// withCatalog opens the configured store and hands a catalog service to fn.
// Unlike the API, a store that cannot be opened is fatal here.
func withCatalog(ctx context.Context, fn func(context.Context, *service.CatalogService, *zap.Logger) error) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() {
			cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = store.Close(cctx)
		}()
	}

	var table *fallback.Table
	if cfg.Store.FallbackFile != "" {
		table, err = fallback.LoadFile(cfg.Store.FallbackFile)
	} else {
		table, err = fallback.Load()
	}
	if err != nil {
		return fmt.Errorf("load fallback: %w", err)
	}

	return fn(ctx, service.NewCatalogService(store, table, cfg.Store.Timeout, log), log)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
