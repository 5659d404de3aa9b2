package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/Evolve2048/internal/game/events"
)

// RunMonitor watches a training run. It subscribes to population events to
// track generation throughput and score progress, and samples the goroutine
// count on a ticker to catch leaked evaluation workers.
type RunMonitor struct {
	mu     sync.RWMutex
	logger zerolog.Logger

	baseline       int
	current        int
	peak           int
	checkInterval  time.Duration
	alertThreshold int
	lastAlert      time.Time
	alertCooldown  time.Duration

	started         time.Time
	rounds          int
	roundTime       time.Duration
	generations     int
	bestAvgScore    float64
	bestGeneration  int
	highestTile     uint32
	stallThreshold  int
	stalledWarnedAt int

	stopChan chan struct{}
	stopOnce sync.Once
}

// Option configures a RunMonitor.
type Option func(*RunMonitor)

// WithCheckInterval sets how often goroutines are sampled.
func WithCheckInterval(d time.Duration) Option {
	return func(m *RunMonitor) { m.checkInterval = d }
}

// WithAlertThreshold sets the goroutine count that triggers a warning.
func WithAlertThreshold(n int) Option {
	return func(m *RunMonitor) { m.alertThreshold = n }
}

// WithStallThreshold sets how many generations without a new best average
// score are tolerated before a warning. Zero disables the warning.
func WithStallThreshold(generations int) Option {
	return func(m *RunMonitor) { m.stallThreshold = generations }
}

// NewRunMonitor creates a new run monitor
func NewRunMonitor(logger zerolog.Logger, opts ...Option) *RunMonitor {
	baseline := runtime.NumGoroutine()
	m := &RunMonitor{
		logger:         logger.With().Str("component", "RunMonitor").Logger(),
		baseline:       baseline,
		current:        baseline,
		peak:           baseline,
		checkInterval:  30 * time.Second,
		alertThreshold: 1000,
		alertCooldown:  5 * time.Minute,
		started:        time.Now(),
		stallThreshold: 100,
		stopChan:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins sampling goroutines
func (m *RunMonitor) Start() {
	go m.monitor()
	m.logger.Info().
		Int("baseline", m.baseline).
		Msg("Started run monitoring")
}

// Stop stops the sampler. It is safe to call more than once.
func (m *RunMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

func (m *RunMonitor) monitor() {
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.checkGoroutines()
		case <-m.stopChan:
			return
		}
	}
}

func (m *RunMonitor) checkGoroutines() {
	current := runtime.NumGoroutine()

	m.mu.Lock()
	m.current = current
	if current > m.peak {
		m.peak = current
	}
	shouldAlert := current > m.alertThreshold &&
		time.Since(m.lastAlert) > m.alertCooldown
	if shouldAlert {
		m.lastAlert = time.Now()
	}
	peak := m.peak
	m.mu.Unlock()

	m.logger.Debug().
		Int("current", current).
		Int("baseline", m.baseline).
		Int("peak", peak).
		Msg("Goroutine metrics")

	if shouldAlert {
		m.logger.Warn().
			Int("current", current).
			Int("threshold", m.alertThreshold).
			Msg("High goroutine count detected - possible leak")
	}
}

// ID implements events.Subscriber
func (m *RunMonitor) ID() string { return "run_monitor" }

// InterestedIn implements events.Subscriber
func (m *RunMonitor) InterestedIn(eventType string) bool {
	return eventType == events.TypeRoundCompleted || eventType == events.TypeGenerationRanked
}

// HandleEvent implements events.Subscriber
func (m *RunMonitor) HandleEvent(event events.Event) {
	switch e := event.(type) {
	case *events.RoundCompletedEvent:
		m.mu.Lock()
		m.rounds++
		m.roundTime += e.Duration
		m.mu.Unlock()
	case *events.GenerationRankedEvent:
		m.observeGeneration(e)
	}
}

func (m *RunMonitor) observeGeneration(e *events.GenerationRankedEvent) {
	m.mu.Lock()
	m.generations++
	if m.generations == 1 || e.BestAvgScore > m.bestAvgScore {
		m.bestAvgScore = e.BestAvgScore
		m.bestGeneration = e.Generation
	}
	if e.HighestTile > m.highestTile {
		m.highestTile = e.HighestTile
	}
	stalled := e.Generation - m.bestGeneration
	warn := m.stallThreshold > 0 && stalled >= m.stallThreshold && stalled%m.stallThreshold == 0 &&
		m.stalledWarnedAt != e.Generation
	if warn {
		m.stalledWarnedAt = e.Generation
	}
	best := m.bestAvgScore
	m.mu.Unlock()

	if warn {
		m.logger.Warn().
			Int("generation", e.Generation).
			Int("generations_without_improvement", stalled).
			Float64("best_avg_score", best).
			Msg("Training has not improved")
	}
}

// GetMetrics returns a snapshot of the run
func (m *RunMonitor) GetMetrics() RunMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	metrics := RunMetrics{
		Goroutines:     m.current,
		Baseline:       m.baseline,
		PeakGoroutines: m.peak,
		Rounds:         m.rounds,
		Generations:    m.generations,
		BestAvgScore:   m.bestAvgScore,
		BestGeneration: m.bestGeneration,
		HighestTile:    m.highestTile,
		Uptime:         time.Since(m.started),
	}
	if m.rounds > 0 {
		metrics.MeanRoundTime = m.roundTime / time.Duration(m.rounds)
	}
	if secs := metrics.Uptime.Seconds(); secs > 0 {
		metrics.GenerationsPerSecond = float64(m.generations) / secs
	}
	return metrics
}

// RunMetrics contains run statistics
type RunMetrics struct {
	Goroutines           int           `json:"goroutines"`
	Baseline             int           `json:"baseline"`
	PeakGoroutines       int           `json:"peak_goroutines"`
	Rounds               int           `json:"rounds"`
	MeanRoundTime        time.Duration `json:"mean_round_time"`
	Generations          int           `json:"generations"`
	GenerationsPerSecond float64       `json:"generations_per_second"`
	BestAvgScore         float64       `json:"best_avg_score"`
	BestGeneration       int           `json:"best_generation"`
	HighestTile          uint32        `json:"highest_tile"`
	Uptime               time.Duration `json:"uptime"`
}

// Log writes the current metrics at info level
func (m *RunMonitor) Log() {
	metrics := m.GetMetrics()
	m.logger.Info().
		Int("generations", metrics.Generations).
		Float64("best_avg_score", metrics.BestAvgScore).
		Int("best_generation", metrics.BestGeneration).
		Uint32("highest_tile", metrics.HighestTile).
		Dur("mean_round_time", metrics.MeanRoundTime).
		Int("peak_goroutines", metrics.PeakGoroutines).
		Msg("Run metrics")
}
