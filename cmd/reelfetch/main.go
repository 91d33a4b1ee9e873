package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Belphemur/ReelFetch/internal/cache"
	"github.com/Belphemur/ReelFetch/internal/client"
	"github.com/Belphemur/ReelFetch/internal/config"
	"github.com/Belphemur/ReelFetch/internal/errreport"
	grpcserver "github.com/Belphemur/ReelFetch/internal/grpc"
	"github.com/Belphemur/ReelFetch/internal/httpapi"
	"github.com/Belphemur/ReelFetch/internal/metrics"
	"github.com/Belphemur/ReelFetch/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Str("provider_host", cfg.Provider.Host).
		Str("download_dir", cfg.Transfer.DownloadDir).
		Str("cache_provider", cfg.Cache.Provider).
		Int("grpc_port", cfg.Server.Port).
		Int("http_port", cfg.HTTP.Port).
		Str("server_address", cfg.Server.Address).
		Msg("Application started with configuration")

	if err := errreport.Init(errreport.Options{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to initialise Sentry, continuing without error reporting")
	}
	defer errreport.Flush(2 * time.Second)

	config.WatchCredentials()

	var clientOpts []client.Option
	if descriptorCache := newDescriptorCache(cfg); descriptorCache != nil {
		clientOpts = append(clientOpts, client.WithCache(descriptorCache))
	}
	mediaClient := client.NewClient(cfg, clientOpts...)
	defer func() {
		if err := mediaClient.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close client")
		}
	}()

	downloader := services.NewMediaDownloader(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	// gRPC
	grpcServer := grpcserver.NewGRPCServer(mediaClient, downloader)
	grpcAddress := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	listener, err := net.Listen("tcp", grpcAddress)
	if err != nil {
		logger.Fatal().Err(err).Str("address", grpcAddress).Msg("Failed to create listener")
	}
	g.Go(func() error {
		logger.Info().Str("address", grpcAddress).Msg("Starting gRPC server")
		return grpcServer.Serve(listener)
	})
	g.Go(func() error {
		<-gctx.Done()
		grpcServer.GracefulStop()
		return nil
	})

	// REST
	restServer := httpapi.NewHTTPServer(cfg.Server.Address, cfg.HTTP.Port, httpapi.NewRouter(httpapi.NewHandlers(mediaClient, downloader)))
	serveHTTP(gctx, g, restServer, "rest")

	// Prometheus
	if cfg.Metrics.Enabled {
		serveHTTP(gctx, g, metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port), "metrics")
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("Server stopped with error")
		errreport.Capture(context.Background(), err, map[string]string{"component": "main"})
		return
	}

	logger.Info().Msg("Server stopped gracefully")
}

// serveHTTP runs srv in g and shuts it down once ctx is done
func serveHTTP(ctx context.Context, g *errgroup.Group, srv *http.Server, name string) {
	logger := config.GetLogger()

	g.Go(func() error {
		logger.Info().Str("server", name).Str("address", srv.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server: %w", name, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Str("server", name).Msg("Failed to shutdown HTTP server")
			return err
		}
		return nil
	})
}

// newDescriptorCache builds the resolver cache from cache.* settings. A cache that cannot be
// created disables caching instead of stopping the process.
func newDescriptorCache(cfg *config.Config) cache.Cache {
	logger := config.GetLogger()
	if cfg.Cache.Provider == "" {
		return nil
	}

	c, err := cache.New(cfg.Cache.Provider, cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		TTL:           config.ParseDuration(cfg.Cache.TTL, 5*time.Minute, "cache.ttl"),
		Logger:        cache.NewZerologLogger(logger),
		RedisAddress:  cfg.Cache.Redis.Address,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		Group:         "descriptors",
	})
	if err != nil {
		logger.Error().Err(err).Str("provider", cfg.Cache.Provider).Msg("Failed to create descriptor cache, resolving without cache")
		return nil
	}
	return c
}
