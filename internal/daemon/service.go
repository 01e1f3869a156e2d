// Package daemon provides the long-running contract monitor and its HTTP API.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/hburn/internal/model"
	"github.com/theirongolddev/hburn/internal/pipeline"
)

// Event types.
const (
	EventSnapshot      = "snapshot"
	EventReportChanged = "report_changed"
	EventOverBudget    = "over_budget"
	EventBackOnPace    = "back_on_pace"
	EventImported      = "imported"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr          string
	DBPath        string
	Interval      time.Duration
	EventsBuffer  int
	RatePerMinute int
	Burst         int
	SkipInvalid   bool

	// WatchDir enables the import inbox. It requires an importer.
	WatchDir string
	UserName string
}

// Snapshot is a compact portfolio state for status/event payloads.
type Snapshot struct {
	At               time.Time `json:"at"`
	Contracts        int       `json:"contracts"`
	OverBudget       int       `json:"over_budget"`
	TotalHours       float64   `json:"total_hours"`
	ConsumedHours    float64   `json:"consumed_hours"`
	RemainingHours   float64   `json:"remaining_hours"`
	InvalidContracts int       `json:"invalid_contracts"`
}

// Delta captures a contract's change between polls.
type Delta struct {
	ConsumedHours   float64 `json:"consumed_hours"`
	ProgressPercent float64 `json:"progress_percent"`
}

// ImportSummary describes one inbox import run.
type ImportSummary struct {
	BatchID     string `json:"batch_id"`
	Files       int    `json:"files"`
	Entries     int    `json:"entries"`
	ParseErrors int    `json:"parse_errors"`
	FileErrors  int    `json:"file_errors"`
}

// Event is emitted whenever a poll observes a change.
type Event struct {
	ID         int64                 `json:"id"`
	Type       string                `json:"type"`
	Timestamp  time.Time             `json:"timestamp"`
	ContractID int64                 `json:"contract_id,omitempty"`
	Snapshot   Snapshot              `json:"snapshot"`
	Report     *model.ContractReport `json:"report,omitempty"`
	Delta      *Delta                `json:"delta,omitempty"`
	Import     *ImportSummary        `json:"import,omitempty"`
}

// Status is served at /api/v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DBPath          string    `json:"db_path,omitempty"`
	SkipInvalid     bool      `json:"skip_invalid"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
	WatchDir        string    `json:"watch_dir,omitempty"`
	LastImportAt    time.Time `json:"last_import_at"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg      Config
	source   pipeline.ReportSource
	reporter pipeline.Reporter
	sink     pipeline.ImportSink
	logger   zerolog.Logger
	clock    func() time.Time

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	lastImport  time.Time
	hasSnapshot bool
	snapshot    Snapshot
	reports     map[int64]model.ContractReport
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service reading contracts from src.
func New(cfg Config, src pipeline.ReportSource, logger zerolog.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.RatePerMinute < 1 {
		cfg.RatePerMinute = 120
	}
	if cfg.Burst < 1 {
		cfg.Burst = 20
	}

	return &Service{
		cfg:       cfg,
		source:    src,
		reporter:  pipeline.Reporter{Source: src, SkipInvalid: cfg.SkipInvalid},
		logger:    logger,
		clock:     time.Now,
		startedAt: time.Now(),
		reports:   make(map[int64]model.ContractReport),
		subs:      make(map[int]chan Event),
	}
}

// WithImporter enables the WatchDir inbox, writing imported entries to sink.
func (s *Service) WithImporter(sink pipeline.ImportSink) *Service {
	s.sink = sink
	return s
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// The watcher starts first so a bad watch dir fails before anything listens.
	imports := make(chan struct{}, 1)
	watching := s.cfg.WatchDir != "" && s.sink != nil
	if watching {
		if err := s.startWatcher(ctx, imports); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if watching {
		s.importOnce(ctx)
	}

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("shutdown initiated")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case <-imports:
			s.importOnce(ctx)
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) startWatcher(ctx context.Context, imports chan<- struct{}) error {
	if err := os.MkdirAll(s.cfg.WatchDir, 0o750); err != nil {
		return fmt.Errorf("creating watch dir: %w", err)
	}
	w, err := pipeline.NewWatcher(time.Second, func(path string) {
		s.logger.Debug().Str("path", path).Msg("inbox changed")
		select {
		case imports <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	if err := w.Add(s.cfg.WatchDir); err != nil {
		_ = w.Close()
		return err
	}
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error().Err(err).Msg("inbox watcher stopped")
		}
	}()
	s.logger.Info().Str("dir", s.cfg.WatchDir).Msg("watching import inbox")
	return nil
}

// importOnce imports changed inbox files and emits an imported event when
// anything was written.
func (s *Service) importOnce(ctx context.Context) {
	res, err := pipeline.Import(ctx, s.cfg.WatchDir, s.sink, pipeline.ImportOptions{UserName: s.cfg.UserName})
	if err != nil {
		s.logger.Error().Err(err).Msg("inbox import failed")
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		return
	}
	for _, e := range res.Errors {
		s.logger.Warn().Err(e).Str("batch_id", res.BatchID).Msg("inbox file rejected")
	}
	now := s.clock()

	s.mu.Lock()
	s.lastImport = now
	snap := s.snapshot
	var ev *Event
	if res.Imported > 0 {
		s.nextEventID++
		ev = &Event{
			ID:        s.nextEventID,
			Type:      EventImported,
			Timestamp: now,
			Snapshot:  snap,
			Import: &ImportSummary{
				BatchID:     res.BatchID,
				Files:       res.Imported,
				Entries:     res.Entries,
				ParseErrors: res.ParseErrors,
				FileErrors:  res.FileErrors,
			},
		}
	}
	s.mu.Unlock()

	if ev != nil {
		s.publishEvent(*ev)
	}
	s.logger.Info().
		Str("batch_id", res.BatchID).
		Int("files", res.Imported).
		Int("skipped", res.Skipped).
		Int("entries", res.Entries).
		Msg("inbox import complete")
}

func (s *Service) pollOnce(ctx context.Context) {
	now := s.clock()
	results, errs := s.reporter.Active(ctx, now)

	for _, err := range errs {
		s.logger.Warn().Err(err).Msg("contract report failed")
	}
	for _, r := range results {
		for _, skipped := range r.Skipped {
			s.logger.Warn().Err(skipped).Int64("contract_id", r.Report.ContractID).Msg("entry excluded")
		}
	}

	reports := pipeline.Reports(results)
	snap := summarize(reports, len(errs), now)

	var events []Event

	s.mu.Lock()
	prev := s.reports
	prevExists := s.hasSnapshot

	next := make(map[int64]model.ContractReport, len(reports))
	for _, r := range reports {
		next[r.ContractID] = r
	}

	s.hasSnapshot = true
	s.snapshot = snap
	s.reports = next
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""
	if len(errs) > 0 {
		s.lastError = errs[0].Error()
	}

	if !prevExists {
		events = append(events, Event{Type: EventSnapshot, Timestamp: now, Snapshot: snap})
	} else {
		for _, r := range reports {
			events = append(events, diffReport(prev[r.ContractID], r, snap, now)...)
		}
	}
	for i := range events {
		s.nextEventID++
		events[i].ID = s.nextEventID
	}
	s.mu.Unlock()

	for _, ev := range events {
		s.publishEvent(ev)
	}

	s.logger.Debug().
		Int("contracts", snap.Contracts).
		Int("over_budget", snap.OverBudget).
		Int("events", len(events)).
		Msg("poll complete")
}

// diffReport returns the events implied by a contract moving from prev to curr.
// A zero prev means the contract was not seen on the previous poll.
func diffReport(prev, curr model.ContractReport, snap Snapshot, now time.Time) []Event {
	var out []Event
	report := curr

	if prev.ContractID == 0 || prev.ConsumedHours != curr.ConsumedHours {
		out = append(out, Event{
			Type:       EventReportChanged,
			Timestamp:  now,
			ContractID: curr.ContractID,
			Snapshot:   snap,
			Report:     &report,
			Delta: &Delta{
				ConsumedHours:   curr.ConsumedHours - prev.ConsumedHours,
				ProgressPercent: curr.ProgressPercent - prev.ProgressPercent,
			},
		})
	}

	switch {
	case !prev.IsOverBudget && curr.IsOverBudget:
		out = append(out, Event{Type: EventOverBudget, Timestamp: now, ContractID: curr.ContractID, Snapshot: snap, Report: &report})
	case prev.IsOverBudget && !curr.IsOverBudget && prev.ContractID != 0:
		out = append(out, Event{Type: EventBackOnPace, Timestamp: now, ContractID: curr.ContractID, Snapshot: snap, Report: &report})
	}
	return out
}

func summarize(reports []model.ContractReport, invalid int, at time.Time) Snapshot {
	snap := Snapshot{At: at, Contracts: len(reports), InvalidContracts: invalid}
	for _, r := range reports {
		snap.TotalHours += r.TotalHours
		snap.ConsumedHours += r.ConsumedHours
		snap.RemainingHours += r.RemainingHours
		if r.IsOverBudget {
			snap.OverBudget++
		}
	}
	return snap
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
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DBPath:          s.cfg.DBPath,
		SkipInvalid:     s.cfg.SkipInvalid,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
		WatchDir:        s.cfg.WatchDir,
		LastImportAt:    s.lastImport,
	}
}

// latestReports returns the last polled reports ordered by contract id.
func (s *Service) latestReports() []model.ContractReport {
	s.mu.RLock()
	out := make([]model.ContractReport, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ContractID < out[j].ContractID })
	return out
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
