package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"focusflow/models"
	"focusflow/repository"
)

//go:embed seeddata/habits.json
var seedHabits []byte

// Demo account created by the seeder.
const (
	demoUsername = "testuser"
	demoEmail    = "test@example.com"
	demoPassword = "password123"
)

const seedTimeout = time.Minute

func newSeedCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample habits and a demo user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closer, err := setup()
			if err != nil {
				return err
			}
			defer closer.Close()

			store, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), seedTimeout)
			defer cancel()
			defer store.Close(context.Background())

			n, err := seed(ctx, store, logger, reset)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d habits\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete existing habits before seeding")
	return cmd
}

// seed inserts the sample habits and the demo user. Without reset it leaves
// a non-empty habit collection alone. It returns the number of habits added.
func seed(ctx context.Context, store repository.Store, logger *slog.Logger, reset bool) (int, error) {
	var samples []models.HabitRequest
	if err := json.Unmarshal(seedHabits, &samples); err != nil {
		return 0, fmt.Errorf("failed to parse seed data: %w", err)
	}

	habits := store.Habits()
	if reset {
		logger.Info("clearing existing habits")
		if err := habits.Reset(ctx); err != nil {
			return 0, fmt.Errorf("failed to clear habits: %w", err)
		}
	}

	existing, err := habits.List(ctx, models.HabitQuery{Fields: []string{"id"}})
	if err != nil {
		return 0, err
	}

	inserted := 0
	if len(existing) > 0 {
		logger.Info("habits already present, skipping sample data", "count", len(existing))
	} else {
		for _, req := range samples {
			if _, err := habits.Create(ctx, req); err != nil {
				return inserted, fmt.Errorf("failed to insert %q: %w", *req.Title, err)
			}
			inserted++
		}
		logger.Info("inserted sample habits", "count", inserted)
	}

	_, err = store.Users().Create(ctx, demoUsername, demoEmail, demoPassword)
	switch {
	case errors.Is(err, repository.ErrDuplicateUser):
		logger.Info("demo user already exists", "username", demoUsername)
	case err != nil:
		return inserted, fmt.Errorf("failed to create demo user: %w", err)
	default:
		logger.Info("created demo user", "username", demoUsername)
	}
	return inserted, nil
}
