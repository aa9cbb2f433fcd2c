package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"auction-engine/src/auction"
	"auction-engine/src/bench"
	"auction-engine/src/config"
	"auction-engine/src/handlers"
	"auction-engine/src/logger"
	"auction-engine/src/routes"
	"auction-engine/src/scenario"
	"auction-engine/src/store"
)

func main() {
	logger.InitLogger()
	defer logger.CloseLogger()
	log := logger.GetLogger()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if len(os.Args) > 1 {
		if err := runCommand(cfg, os.Args[1], os.Args[2:]); err != nil {
			log.Fatal().Err(err).Str("command", os.Args[1]).Msg("Command failed")
		}
		return
	}

	serve(cfg)
}

// runCommand handles the one-shot modes: settle a scenario file, generate
// a scenario, or run the benchmark sweep.
func runCommand(cfg *config.Config, command string, args []string) error {
	log := logger.GetLogger()

	switch command {
	case "run":
		if len(args) < 1 {
			return errors.New("usage: run <scenario.json> [journal.json]")
		}
		journalPath := "journal.json"
		if len(args) > 1 {
			journalPath = args[1]
		}

		s, err := scenario.Load(args[0])
		if err != nil {
			return err
		}

		start := time.Now()
		outcome, err := auction.Run(s.EngineParticipants(), nil)
		if err != nil {
			return err
		}

		if err := scenario.WriteJournal(journalPath, outcome.Journal); err != nil {
			return err
		}

		log.Info().
			Str("scenario", s.ScenarioName).
			Int("participants", outcome.Journal.Size()).
			Uint64("clearing_price", outcome.Result.Price).
			Uint64("cleared_quantity", outcome.Result.Cleared).
			Str("digest", outcome.Journal.Digest()).
			Int64("settle_us", time.Since(start).Microseconds()).
			Str("journal_file", journalPath).
			Msg("Scenario settled")
		return nil

	case "gen":
		if len(args) < 3 {
			return errors.New("usage: gen <n> <seed> <out.json>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid participant count %q", args[0])
		}
		seed, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q", args[1])
		}

		s := scenario.Generate(n, seed)
		if err := s.Save(args[2]); err != nil {
			return err
		}

		log.Info().
			Str("scenario", s.ScenarioName).
			Int("participants", n).
			Str("file", args[2]).
			Msg("Scenario generated")
		return nil

	case "bench":
		summaryPath := "benchmark_summary.json"
		if len(args) > 0 {
			summaryPath = args[0]
		}

		runner := &bench.Runner{
			Sizes:       cfg.Bench.Sizes,
			Repetitions: cfg.Bench.Repetitions,
			Seed:        cfg.Bench.Seed,
		}

		results, err := runner.Run()
		if err != nil {
			return err
		}

		for _, r := range results {
			log.Info().
				Int("participants", r.ParticipantCount).
				Float64("p50_ms", r.SettleP50Ms).
				Float64("p99_ms", r.SettleP99Ms).
				Float64("ns_per_participant", r.NsPerParticipant).
				Uint64("cleared_quantity", r.ClearedQuantity).
				Msg("Benchmark point")
		}

		if err := bench.WriteSummary(summaryPath, results); err != nil {
			return err
		}
		log.Info().Str("file", summaryPath).Msg("Benchmark summary written")
		return nil

	default:
		return fmt.Errorf("unknown command %q (expected run, gen, or bench)", command)
	}
}

func serve(cfg *config.Config) {
	log := logger.GetLogger()

	log.Info().Msg("Initializing Auction Settlement Engine")

	runStore := store.NewRunStore()
	auctionHandler := handlers.NewAuctionHandler(runStore, cfg.Metrics.MaxLatencies)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Error().
				Str("path", c.Path()).
				Str("method", c.Method()).
				Int("status", code).
				Str("error", err.Error()).
				Msg("Request error")

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	routes.SetupRoutes(app, cfg, auctionHandler)

	port := ":" + cfg.Server.Port

	serverError := make(chan error, 1)

	go func() {
		if err := app.Listen(port); err != nil {
			// edge case: ignore shutdown errors, only report real errors
			if err.Error() != "server is shutting down" {
				serverError <- err
			}
		}
	}()

	select {
	case err := <-serverError:
		log.Fatal().
			Err(err).
			Str("port", port).
			Str("hint", "Port may be already in use. Try: PORT=3000 go run main.go").
			Msg("Server failed to start")
	default:
		log.Info().
			Str("port", port).
			Msg("Auction Settlement Engine started")

		log.Info().
			Strs("endpoints", []string{
				"POST /api/v1/auctions",
				"GET  /api/v1/auctions/:id",
				"GET  /api/v1/auctions/:id/journal",
				"GET  /health",
				"GET  /metrics",
			}).
			Msg("API endpoints registered")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-quit
	log.Info().Msg("Received shutdown signal, shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		// edge case: timeout during shutdown is acceptable
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn().
				Dur("timeout", cfg.Server.ShutdownTimeout.Duration).
				Msg("Timeout exceeded, shutting down...")
		} else {
			log.Error().
				Err(err).
				Msg("Error during shutdown")
		}
	} else {
		log.Info().Msg("Shutdown complete")
	}
}
