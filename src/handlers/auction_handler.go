package handlers

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"auction-engine/src/auction"
	"auction-engine/src/models"
	"auction-engine/src/store"
)

type AuctionHandler struct {
	Store     *store.RunStore
	StartTime time.Time

	AuctionsReceived      int64
	AuctionsSettled       int64
	AuctionsRejected      int64
	NoMatchAuctions       int64
	ParticipantsProcessed int64

	latencies    []time.Duration
	latenciesMu  sync.RWMutex
	maxLatencies int
}

func NewAuctionHandler(runStore *store.RunStore, maxLatencies int) *AuctionHandler {
	if maxLatencies <= 0 {
		maxLatencies = 10000
	}

	return &AuctionHandler{
		Store:        runStore,
		StartTime:    time.Now(),
		latencies:    make([]time.Duration, 0, maxLatencies),
		maxLatencies: maxLatencies,
	}
}

func (h *AuctionHandler) SettleAuction(c *fiber.Ctx) error {
	var req models.SettleAuctionRequest

	if err := c.BodyParser(&req); err != nil {
		log.Warn().
			Err(err).
			Str("ip", c.IP()).
			Str("path", c.Path()).
			Msg("Invalid request: malformed JSON")
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request: malformed JSON",
		})
	}

	participants, err := validateSettleRequest(&req)
	if err != nil {
		log.Warn().
			Err(err).
			Str("scenario", req.ScenarioName).
			Int("participants", len(req.Participants)).
			Str("ip", c.IP()).
			Msg("Invalid auction request")
		atomic.AddInt64(&h.AuctionsRejected, 1)
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: err.Error(),
		})
	}

	atomic.AddInt64(&h.AuctionsReceived, 1)

	log.Info().
		Str("scenario", req.ScenarioName).
		Int("participants", len(participants)).
		Str("ip", c.IP()).
		Msg("Auction submitted")

	startTime := time.Now()
	outcome, err := auction.Run(participants, nil)
	latency := time.Since(startTime)
	h.recordLatency(latency)

	if err != nil {
		return h.settleError(c, &req, err)
	}

	run := h.Store.Put(&store.Run{
		ScenarioName:     req.ScenarioName,
		ParticipantCount: len(participants),
		ClearingPrice:    outcome.Result.Price,
		ClearedQuantity:  outcome.Result.Cleared,
		Journal:          outcome.Journal,
		Digest:           outcome.Journal.Digest(),
		SettleDuration:   latency,
	})

	atomic.AddInt64(&h.AuctionsSettled, 1)
	atomic.AddInt64(&h.ParticipantsProcessed, int64(len(participants)))
	if outcome.Result.Cleared == 0 {
		atomic.AddInt64(&h.NoMatchAuctions, 1)
	}

	log.Info().
		Str("run_id", run.ID).
		Str("scenario", req.ScenarioName).
		Uint64("clearing_price", outcome.Result.Price).
		Uint64("cleared_quantity", outcome.Result.Cleared).
		Str("digest", run.Digest).
		Int64("latency_us", latency.Microseconds()).
		Msg("Auction settled")

	return c.Status(fiber.StatusOK).JSON(models.SettleAuctionResponse{
		RunID:            run.ID,
		ScenarioName:     run.ScenarioName,
		ParticipantCount: run.ParticipantCount,
		ClearingPrice:    run.ClearingPrice,
		ClearedQuantity:  run.ClearedQuantity,
		JournalDigest:    run.Digest,
		Journal:          journalResponse(outcome.Journal),
	})
}

// settleError maps engine error kinds onto HTTP statuses. Malformed input
// is the caller's fault; overflow and infeasibility mean the scenario is
// unprocessable; a conservation failure is an engine defect and must look
// like one.
func (h *AuctionHandler) settleError(c *fiber.Ctx, req *models.SettleAuctionRequest, err error) error {
	atomic.AddInt64(&h.AuctionsRejected, 1)

	switch {
	case errors.Is(err, auction.ErrMalformedInput):
		log.Warn().
			Err(err).
			Str("scenario", req.ScenarioName).
			Msg("Auction rejected: malformed input")
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, auction.ErrOverflow), errors.Is(err, auction.ErrInfeasible):
		log.Warn().
			Err(err).
			Str("scenario", req.ScenarioName).
			Msg("Auction rejected: unprocessable scenario")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{Error: err.Error()})
	default:
		log.Error().
			Err(err).
			Str("scenario", req.ScenarioName).
			Msg("Auction settlement failed")
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "Internal settlement error",
		})
	}
}

func (h *AuctionHandler) GetRun(c *fiber.Ctx) error {
	runID := c.Params("id")

	run, exists := h.Store.Get(runID)
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: "Run not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(models.RunSummaryResponse{
		RunID:            run.ID,
		ScenarioName:     run.ScenarioName,
		ParticipantCount: run.ParticipantCount,
		ClearingPrice:    run.ClearingPrice,
		ClearedQuantity:  run.ClearedQuantity,
		JournalDigest:    run.Digest,
		SettledAt:        run.SettledAt.UnixMilli(),
	})
}

func (h *AuctionHandler) GetJournal(c *fiber.Ctx) error {
	runID := c.Params("id")

	run, exists := h.Store.Get(runID)
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: "Run not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(journalResponse(run.Journal))
}

func (h *AuctionHandler) HealthCheck(c *fiber.Ctx) error {
	uptime := time.Since(h.StartTime).Seconds()

	return c.Status(fiber.StatusOK).JSON(models.HealthResponse{
		Status:          "healthy",
		UptimeSeconds:   int64(uptime),
		AuctionsSettled: atomic.LoadInt64(&h.AuctionsSettled),
	})
}

func (h *AuctionHandler) Metrics(c *fiber.Ctx) error {
	p50, p99, p999 := h.calculateLatencyPercentiles()

	return c.Status(fiber.StatusOK).JSON(models.MetricsResponse{
		AuctionsReceived:      atomic.LoadInt64(&h.AuctionsReceived),
		AuctionsSettled:       atomic.LoadInt64(&h.AuctionsSettled),
		AuctionsRejected:      atomic.LoadInt64(&h.AuctionsRejected),
		NoMatchAuctions:       atomic.LoadInt64(&h.NoMatchAuctions),
		ParticipantsProcessed: atomic.LoadInt64(&h.ParticipantsProcessed),
		RunsStored:            int64(h.Store.Len()),
		LatencyP50Ms:          p50,
		LatencyP99Ms:          p99,
		LatencyP999Ms:         p999,
		ThroughputPerSec:      h.calculateThroughput(),
	})
}

func journalResponse(journal *auction.Journal) models.JournalResponse {
	return models.JournalResponse{
		InCoin:    journal.InCoin,
		InEnergy:  journal.InEnergy,
		OutCoin:   journal.OutCoin,
		OutEnergy: journal.OutEnergy,
	}
}

func (h *AuctionHandler) recordLatency(latency time.Duration) {
	h.latenciesMu.Lock()
	defer h.latenciesMu.Unlock()

	h.latencies = append(h.latencies, latency)

	// edge case: maintain rolling window by removing oldest measurements
	if len(h.latencies) > h.maxLatencies {
		removeCount := len(h.latencies) - h.maxLatencies
		h.latencies = h.latencies[removeCount:]
	}
}

func (h *AuctionHandler) calculateLatencyPercentiles() (p50, p99, p999 float64) {
	h.latenciesMu.RLock()
	defer h.latenciesMu.RUnlock()

	if len(h.latencies) == 0 {
		return 0, 0, 0
	}

	sorted := make([]time.Duration, len(h.latencies))
	copy(sorted, h.latencies)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	index := func(q float64) int {
		i := int(float64(len(sorted)) * q)
		if i >= len(sorted) {
			i = len(sorted) - 1
		}
		return i
	}

	p50 = float64(sorted[index(0.50)].Nanoseconds()) / 1e6
	p99 = float64(sorted[index(0.99)].Nanoseconds()) / 1e6
	p999 = float64(sorted[index(0.999)].Nanoseconds()) / 1e6

	return p50, p99, p999
}

func (h *AuctionHandler) calculateThroughput() float64 {
	uptime := time.Since(h.StartTime).Seconds()
	if uptime <= 0 {
		return 0
	}

	return float64(atomic.LoadInt64(&h.AuctionsReceived)) / uptime
}

func validateSettleRequest(req *models.SettleAuctionRequest) ([]auction.Participant, error) {
	if len(req.Participants) == 0 {
		return nil, &ValidationError{Message: "Invalid auction: participants are required"}
	}

	participants := make([]auction.Participant, 0, len(req.Participants))
	for _, p := range req.Participants {
		var role auction.Role
		switch p.Role {
		case "BUY":
			role = auction.RoleBuy
		case "SELL":
			role = auction.RoleSell
		default:
			return nil, &ValidationError{Message: "Invalid auction: role must be BUY or SELL"}
		}

		participants = append(participants, auction.Participant{
			ID:       p.ID,
			Role:     role,
			Price:    p.Price,
			Quantity: p.Quantity,
			InCoin:   p.InCoin,
			InEnergy: p.InEnergy,
		})
	}

	return participants, nil
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
