package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ashendes/bec-market/internal/api"
	"github.com/ashendes/bec-market/internal/assistant"
	"github.com/ashendes/bec-market/internal/auth"
	"github.com/ashendes/bec-market/internal/catalog"
	"github.com/ashendes/bec-market/internal/config"
	"github.com/ashendes/bec-market/internal/orders"
	"github.com/ashendes/bec-market/internal/patterns"
	"github.com/ashendes/bec-market/internal/store"
	"github.com/ashendes/bec-market/internal/store/postgres"
	"github.com/ashendes/bec-market/internal/store/supabase"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	gin.SetMode(cfg.Server.Mode)

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	srv, err := buildServer(ctx, cfg, st)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"port":         cfg.Server.Port,
			"store":        cfg.Store.Driver,
			"assistant_ai": cfg.Assistant.APIKey != "",
		}).Info("Shop Service starting")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func guardOptions(cfg *config.Config) patterns.GuardOptions {
	opts := patterns.DefaultGuardOptions()
	opts.Concurrency = cfg.Resilience.Concurrency
	opts.QueueWait = cfg.Resilience.QueueWait
	opts.Timeout = cfg.Resilience.Timeout
	return opts
}

// openStore selects the persistence backend named by the configuration.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Driver {
	case config.DriverSupabase:
		return supabase.New(supabase.Config{
			URL:    cfg.Store.Supabase.URL,
			APIKey: cfg.Store.Supabase.APIKey,
			Guard:  guardOptions(cfg),
		}), noop, nil

	case config.DriverPostgres:
		pg, err := postgres.Open(ctx, cfg.Store.Postgres.DSN, guardOptions(cfg))
		if err != nil {
			return nil, noop, err
		}
		if cfg.Store.Postgres.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				pg.Close()
				return nil, noop, fmt.Errorf("migrate: %w", err)
			}
		}
		return pg, func() { pg.Close() }, nil

	default:
		log.Warn("Using in-memory store; data is lost on restart")
		return store.NewMemory(), noop, nil
	}
}

// buildServer wires the services over st and seeds the admin account.
func buildServer(ctx context.Context, cfg *config.Config, st store.Store) (*api.Server, error) {
	accounts := auth.NewService(st, auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))
	err := accounts.EnsureAdmin(ctx, auth.AdminAccount{
		Email:        cfg.Auth.AdminEmail,
		Name:         cfg.Auth.AdminName,
		PasswordHash: cfg.Auth.AdminPasswordHash,
	})
	if err != nil {
		return nil, err
	}

	cat := catalog.NewService(st)

	assistantGuard := patterns.DefaultGuardOptions()
	assistantGuard.Timeout = cfg.Assistant.Timeout
	bot := assistant.New(assistant.Config{
		APIKey:  cfg.Assistant.APIKey,
		Model:   cfg.Assistant.Model,
		BaseURL: cfg.Assistant.BaseURL,
		Guard:   assistantGuard,
	}, cat)

	return api.NewServer(api.Deps{
		Catalog:   cat,
		Orders:    orders.NewService(st, cfg.Payment.PromptPayAccount),
		Accounts:  accounts,
		Users:     st,
		Assistant: bot,
	}), nil
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash for an admin password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args[0]) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}
			hashed, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hashed)
			return nil
		},
	}
}

func catalogCmd() *cobra.Command {
	var (
		query    string
		category string
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the built-in catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tLEVEL\tCATEGORY")
			for _, p := range catalog.Filter(catalog.Static(), query, category) {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", p.ID, p.Name, p.Price, p.Level, p.Category)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Name or description substring")
	cmd.Flags().StringVar(&category, "category", catalog.AllCategories, "Category, or all")

	return cmd
}
