package models

type ParticipantRequest struct {
	ID       uint32 `json:"id"`
	Role     string `json:"role"` // BUY or SELL
	Price    uint64 `json:"price"`
	Quantity uint64 `json:"quantity"`
	InCoin   uint64 `json:"in_coin"`
	InEnergy uint64 `json:"in_energy"`
}

type SettleAuctionRequest struct {
	ScenarioName string               `json:"scenario_name"`
	Participants []ParticipantRequest `json:"participants"`
}

type JournalResponse struct {
	InCoin    []uint64 `json:"in_coin"`
	InEnergy  []uint64 `json:"in_energy"`
	OutCoin   []uint64 `json:"out_coin"`
	OutEnergy []uint64 `json:"out_energy"`
}

type SettleAuctionResponse struct {
	RunID            string          `json:"run_id"`
	ScenarioName     string          `json:"scenario_name,omitempty"`
	ParticipantCount int             `json:"participant_count"`
	ClearingPrice    uint64          `json:"clearing_price"`
	ClearedQuantity  uint64          `json:"cleared_quantity"`
	JournalDigest    string          `json:"journal_digest"`
	Journal          JournalResponse `json:"journal"`
}

type RunSummaryResponse struct {
	RunID            string `json:"run_id"`
	ScenarioName     string `json:"scenario_name,omitempty"`
	ParticipantCount int    `json:"participant_count"`
	ClearingPrice    uint64 `json:"clearing_price"`
	ClearedQuantity  uint64 `json:"cleared_quantity"`
	JournalDigest    string `json:"journal_digest"`
	SettledAt        int64  `json:"settled_at"` // unix timestamp in milliseconds
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status          string `json:"status"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	AuctionsSettled int64  `json:"auctions_settled"`
}

type MetricsResponse struct {
	AuctionsReceived      int64   `json:"auctions_received"`
	AuctionsSettled       int64   `json:"auctions_settled"`
	AuctionsRejected      int64   `json:"auctions_rejected"`
	NoMatchAuctions       int64   `json:"no_match_auctions"`
	ParticipantsProcessed int64   `json:"participants_processed"`
	RunsStored            int64   `json:"runs_stored"`
	LatencyP50Ms          float64 `json:"latency_p50_ms"`
	LatencyP99Ms          float64 `json:"latency_p99_ms"`
	LatencyP999Ms         float64 `json:"latency_p999_ms"`
	ThroughputPerSec      float64 `json:"throughput_per_sec"`
}
