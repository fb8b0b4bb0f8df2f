// Package daemon provides the long-running background budget monitor. It
// re-reads the local store on a cron schedule, applies the monthly rollover
// and serves the derived figures over a small read-only HTTP API.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/balancebuddy/internal/budget"
	"github.com/theirongolddev/balancebuddy/internal/logger"
	"github.com/theirongolddev/balancebuddy/internal/model"
	"github.com/theirongolddev/balancebuddy/internal/pipeline"
	"github.com/theirongolddev/balancebuddy/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DataDir      string
	Storage      string
	Options      pipeline.Options
	Schedule     string
	Addr         string
	EventsBuffer int
	Logger       zerolog.Logger

	// OpenStore overrides how each poll reaches the budget store.
	OpenStore func() (store.Backend, error)
	Now       func() time.Time
}

// Snapshot is a compact budget state for status/event payloads.
type Snapshot struct {
	At                 time.Time        `json:"at"`
	Balance            decimal.Decimal  `json:"balance"`
	Health             model.HealthTier `json:"health"`
	FlexibleSpending   decimal.Decimal  `json:"flexible_spending"`
	PerDay             decimal.Decimal  `json:"per_day"`
	SavedThisMonth     decimal.Decimal  `json:"saved_this_month"`
	PendingBills       int              `json:"pending_bills"`
	DueSoon            int              `json:"due_soon"`
	Transactions       int              `json:"transactions"`
	LowBalance         bool             `json:"low_balance"`
	OnboardingComplete bool             `json:"onboarding_complete"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Balance        decimal.Decimal `json:"balance"`
	SavedThisMonth decimal.Decimal `json:"saved_this_month"`
	PendingBills   int             `json:"pending_bills"`
	DueSoon        int             `json:"due_soon"`
	Transactions   int             `json:"transactions"`
}

func (d Delta) isZero() bool {
	return d.Balance.IsZero() &&
		d.SavedThisMonth.IsZero() &&
		d.PendingBills == 0 &&
		d.DueSoon == 0 &&
		d.Transactions == 0
}

// Event types.
const (
	EventSnapshot = "snapshot"
	EventDelta    = "budget_delta"
	EventRollover = "rollover"
)

// Event is emitted whenever the budget snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	Schedule        string    `json:"schedule"`
	PollCount       int64     `json:"poll_count"`
	DataDir         string    `json:"data_dir"`
	Storage         string    `json:"storage"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	log zerolog.Logger

	pollMu sync.Mutex

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	summary     model.Summary
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 5m"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Storage == "" {
		cfg.Storage = store.KindSQLite
	}
	if cfg.Options == (pipeline.Options{}) {
		cfg.Options = pipeline.DefaultOptions()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.OpenStore == nil {
		kind, dir := cfg.Storage, cfg.DataDir
		cfg.OpenStore = func() (store.Backend, error) { return store.Open(kind, dir) }
	}

	return &Service{
		cfg:       cfg,
		log:       cfg.Logger.With().Str("component", "daemon").Logger(),
		startedAt: cfg.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts the HTTP endpoints and the poll schedule until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		// Requests carry the daemon logger and end with the daemon.
		BaseContext: func(net.Listener) context.Context {
			return logger.WithContext(ctx, s.log)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	c := cron.New()
	if _, err := c.AddFunc(s.cfg.Schedule, s.pollOnce); err != nil {
		_ = server.Close()
		return fmt.Errorf("daemon schedule %q: %w", s.cfg.Schedule, err)
	}
	c.Start()
	s.log.Info().Str("addr", s.cfg.Addr).Str("schedule", s.cfg.Schedule).Msg("daemon started")

	defer func() { <-c.Stop().Done() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("daemon stopping")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// pollOnce reloads the store through a short-lived engine so rollover is
// applied and persisted, then publishes what changed.
func (s *Service) pollOnce() {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	sum, rolled, err := s.loadSummary()
	now := s.cfg.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("daemon poll failed")
		return
	}

	snap := snapshotFromSummary(sum)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.summary = sum
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	switch {
	case !prevExists:
		ev = Event{Type: EventSnapshot, Snapshot: snap}
		publish = true
	case rolled:
		ev = Event{Type: EventRollover, Snapshot: snap, Delta: diffSnapshots(prev, snap)}
		publish = true
	default:
		if delta := diffSnapshots(prev, snap); !delta.isZero() {
			ev = Event{Type: EventDelta, Snapshot: snap, Delta: delta}
			publish = true
		}
	}
	if publish {
		s.nextEventID++
		ev.ID = s.nextEventID
		ev.Timestamp = now
	}
	s.mu.Unlock()

	if publish {
		s.log.Debug().Str("type", ev.Type).Int64("id", ev.ID).Msg("event published")
		s.publishEvent(ev)
	}
}

func (s *Service) loadSummary() (model.Summary, bool, error) {
	backend, err := s.cfg.OpenStore()
	if err != nil {
		return model.Summary{}, false, err
	}
	defer func() { _ = backend.Close() }()

	eng, err := budget.New(budget.Config{Store: backend, Logger: &s.log, Now: s.cfg.Now})
	if err != nil {
		return model.Summary{}, false, err
	}
	if err := eng.LastSaveError(); err != nil {
		return model.Summary{}, false, fmt.Errorf("persisting rollover: %w", err)
	}

	// New already rolled over; a differing marker means it happened on this poll.
	st := eng.State()
	rolled := s.hasRolledOver(st)
	return eng.Summary(s.cfg.Options), rolled, nil
}

// hasRolledOver reports whether st's period differs from the previous poll's.
func (s *Service) hasRolledOver(st model.State) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasSnapshot {
		return false
	}
	prevMonth, prevYear := model.PeriodOf(s.snapshot.At)
	return prevMonth != st.LastMonth || prevYear != st.LastYear
}

func snapshotFromSummary(sum model.Summary) Snapshot {
	return Snapshot{
		At:                 sum.At,
		Balance:            sum.Balance,
		Health:             sum.Health,
		FlexibleSpending:   sum.FlexibleSpending,
		PerDay:             sum.PerDay.Round(2),
		SavedThisMonth:     sum.SavedThisMonth,
		PendingBills:       len(sum.UpcomingBills),
		DueSoon:            sum.DueSoonCount,
		Transactions:       sum.TransactionCount,
		LowBalance:         sum.LowBalance,
		OnboardingComplete: sum.OnboardingComplete,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Balance:        curr.Balance.Sub(prev.Balance),
		SavedThisMonth: curr.SavedThisMonth.Sub(prev.SavedThisMonth),
		PendingBills:   curr.PendingBills - prev.PendingBills,
		DueSoon:        curr.DueSoon - prev.DueSoon,
		Transactions:   curr.Transactions - prev.Transactions,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		Schedule:        s.cfg.Schedule,
		PollCount:       s.pollCount,
		DataDir:         s.cfg.DataDir,
		Storage:         s.cfg.Storage,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
