package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/mitchelldurbincs/Evolve2048/internal/config"
	"github.com/mitchelldurbincs/Evolve2048/internal/grpc/plannerserver"
	"github.com/mitchelldurbincs/Evolve2048/internal/mcts"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	port := flag.Int("port", -1, "The server port (-1 to use config default)")
	host := flag.String("host", "", "The server host (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	searches := flag.Int("searches", -1, "Rollouts per candidate move (-1 to use config default)")
	depth := flag.Int("depth", -1, "Rollout depth (-1 to use config default)")
	enableReflection := flag.Bool("enable-reflection", false, "Enable gRPC reflection for debugging")
	flag.Parse()

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}

	cfg := config.Get()
	serverCfg := cfg.Server.Planner

	// Use config defaults if not overridden by flags
	if *port == -1 {
		*port = serverCfg.Port
	}
	if *host == "" {
		*host = serverCfg.Host
	}
	if *logLevel == "" {
		*logLevel = serverCfg.LogLevel
	}
	if *searches == -1 {
		*searches = cfg.Planner.SearchesPerMove
	}
	if *depth == -1 {
		*depth = cfg.Planner.Depth
	}
	// For enableReflection, use config if flag not explicitly set to true
	if !*enableReflection {
		*enableReflection = serverCfg.EnableReflection
	}

	// Setup logging
	setupLogging(*logLevel)

	log.Info().
		Int("port", *port).
		Str("host", *host).
		Int("searches_per_move", *searches).
		Int("depth", *depth).
		Msg("Starting gRPC planner server")

	// Create listener
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", *host, *port))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen")
	}

	grpcServer := grpc.NewServer(plannerserver.ServerOptions(log.Logger)...)

	// Register planner service
	planner := mcts.New(mcts.Config{
		SearchesPerMove: *searches,
		Depth:           *depth,
		Workers:         cfg.Planner.Workers,
		Logger:          log.Logger,
	})
	plannerserver.RegisterPlannerServiceServer(grpcServer, plannerserver.NewServer(planner, log.Logger))

	// Register health service
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(plannerserver.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	// Register reflection service for debugging
	if *enableReflection {
		reflection.Register(grpcServer)
		log.Info().Msg("gRPC reflection enabled")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(plannerserver.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

		// Give ongoing requests time to complete
		time.Sleep(time.Duration(serverCfg.GracefulShutdownDelay) * time.Second)

		log.Info().Msg("Gracefully stopping gRPC server")
		grpcServer.GracefulStop()
		cancel()
	}()

	log.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server shutdown complete")
}

func setupLogging(level string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	// Check if we're in production
	if os.Getenv("APP_ENV") == "production" {
		// JSON output for production
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		// Pretty console output for development
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}
