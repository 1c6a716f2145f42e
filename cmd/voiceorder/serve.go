package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	aloha "github.com/hamchowderr/ncr-aloha"
	httpadapter "github.com/hamchowderr/ncr-aloha/internal/adapters/http"
	"github.com/hamchowderr/ncr-aloha/internal/logging"
	"github.com/hamchowderr/ncr-aloha/pkg/adapters/memory"
	"github.com/hamchowderr/ncr-aloha/pkg/adapters/middleware"
	"github.com/hamchowderr/ncr-aloha/pkg/adapters/orderapi"
	redisadapter "github.com/hamchowderr/ncr-aloha/pkg/adapters/redis"
	"github.com/hamchowderr/ncr-aloha/pkg/flow"
	"github.com/hamchowderr/ncr-aloha/pkg/observability"
	"github.com/hamchowderr/ncr-aloha/pkg/ports"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the voice ordering HTTP server",
	Long: `Starts the session server: POST /sessions answers a call, POST
/sessions/{id}/intents runs one classified caller turn, and /metrics exposes
Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		backendURL, _ := cmd.Flags().GetString("backend-url")
		configPath, _ := cmd.Flags().GetString("config")
		redisAddr, _ := cmd.Flags().GetString("redis")
		redisTTL, _ := cmd.Flags().GetDuration("redis-ttl")
		levelStr, _ := cmd.Flags().GetString("log-level")

		level, err := logging.ParseLevel(levelStr)
		if err != nil {
			return err
		}
		logger := logging.New(level)

		cfg := flow.DefaultConfig()
		if configPath != "" {
			cfg, err = flow.LoadConfig(configPath)
			if err != nil {
				return err
			}
		}

		client := orderapi.New(backendURL)
		defer client.Close()

		var backend ports.OrderBackend = client
		if redact, _ := cmd.Flags().GetBool("redact-transcripts"); redact {
			backend = middleware.NewPIIMiddleware([]string{middleware.PhonePattern})(backend)
		}

		var registry ports.CallRegistry
		if redisAddr != "" {
			r := redisadapter.New(redisAddr, "", 0, redisadapter.WithTTL(redisTTL))
			defer r.Close()
			registry = r
			logger.Info("using redis call registry", "addr", redisAddr)
		} else {
			registry = memory.NewRegistry()
		}

		svc, err := aloha.New(cfg, backend,
			aloha.WithLogger(logger),
			aloha.WithRegistry(registry),
			aloha.WithCollector(observability.NewCollector()),
		)
		if err != nil {
			return err
		}

		server := httpadapter.NewServer(svc, httpadapter.WithLogger(logger))
		srv := &http.Server{
			Addr:    ":" + port,
			Handler: server.Handler(),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			logger.Info("starting voiceorder server",
				"addr", srv.Addr,
				"backend_url", backendURL,
				"restaurant", cfg.RestaurantName,
			)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			// Flush live calls first so their records reach the backend.
			server.Shutdown(shutdownCtx)

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			return err
		}
		logger.Info("voiceorder server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("backend-url", "http://localhost:7860", "Base URL of the restaurant ordering API")
	serveCmd.Flags().String("config", "", "Path to a YAML flow configuration")
	serveCmd.Flags().String("redis", "", "Redis address for the shared call registry (empty = in-memory)")
	serveCmd.Flags().Duration("redis-ttl", 2*time.Hour, "Expiry for redis call entries")
	serveCmd.Flags().Bool("redact-transcripts", false, "Mask phone numbers in archived call transcripts")
}
