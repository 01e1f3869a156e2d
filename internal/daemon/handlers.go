package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/hburn/internal/burn"
	"github.com/theirongolddev/hburn/internal/store"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Router builds the HTTP API.
func (s *Service) Router() http.Handler {
	router := chi.NewRouter()

	router.Use(RequestLogger(&s.logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", s.handleHealth)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimit(NewLimiter(s.cfg.RatePerMinute, s.cfg.Burst)))

		r.Get("/status", s.handleStatus)
		r.Get("/contracts", s.handleContracts)
		r.Get("/contracts/{id}/report", s.handleReport)
		r.Get("/reports", s.handleReports)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
	})

	return router
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleContracts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	contracts, err := s.source.ListContracts(ctx, true)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list contracts")
		writeError(w, http.StatusInternalServerError, "failed to list contracts")
		return
	}
	writeJSON(w, http.StatusOK, contracts)
}

func (s *Service) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "contract id must be a positive integer")
		return
	}

	res, err := s.reporter.Contract(ctx, id, s.clock())
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, fmt.Sprintf("contract %d not found", id))
		return
	case errors.Is(err, burn.ErrInvalidEntry):
		logger.Warn().Err(err).Int64("contract_id", id).Msg("invalid time entry")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		logger.Error().Err(err).Int64("contract_id", id).Msg("failed to build report")
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	for _, skipped := range res.Skipped {
		logger.Warn().Err(skipped).Int64("contract_id", id).Msg("entry excluded")
	}
	writeJSON(w, http.StatusOK, res.Report)
}

func (s *Service) handleReports(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.latestReports())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.clock(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
