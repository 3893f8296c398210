package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"adoptme/internal/domain/mocks"
	"adoptme/internal/platform/password"
	"adoptme/internal/router"
)

func newSeedCmd() *cobra.Command {
	var (
		nUsers int
		nPets  int
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert mock users and pets into the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), nUsers, nPets, seed, cmd)
		},
	}

	cmd.Flags().IntVar(&nUsers, "users", mocks.DefaultUsers, "mock users to insert")
	cmd.Flags().IntVar(&nPets, "pets", mocks.DefaultPets, "mock pets to insert")
	cmd.Flags().Int64Var(&seed, "seed", 0, "faker seed (0 = random)")
	return cmd
}

func runSeed(ctx context.Context, nUsers, nPets int, seed int64, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, st, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	defer func() { _ = st.Close(context.Background()) }()

	svcs := router.NewServices(router.Options{
		Store:        st,
		Logger:       log,
		Hasher:       password.NewHasher(cfg.BcryptCost),
		MockPassword: cfg.MockPassword,
		MockSeed:     seed,
	})

	res, err := svcs.Mocks.Generate(ctx, nUsers, nPets)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "users: %d/%d created, pets: %d/%d created\n",
		res.Users.Created, res.Users.Requested, res.Pets.Created, res.Pets.Requested)
	return nil
}
