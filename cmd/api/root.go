package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"adoptme/internal/adapters/storage"
	"adoptme/internal/config"
	"adoptme/internal/platform/logger"
	"adoptme/internal/ports/store"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "adoptme",
		Short:         "Pet adoption API",
		SilenceUsage:  true,
		SilenceErrors: false,
		// sin subcomando arranca el servidor
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd(), newSeedCmd())
	return root
}

// bootstrap carga config, arma el logger y abre el store configurado.
func bootstrap(ctx context.Context) (*config.Config, logger.Logger, store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	st, err := storage.Open(ctx, cfg)
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, fmt.Errorf("open store: %w", err)
	}
	log.Info("store ready", map[string]any{"driver": cfg.StoreDriver})

	return cfg, log, st, nil
}
