package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/hburn/internal/daemon"
	"github.com/theirongolddev/hburn/internal/model"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/api/v1/contracts/{id}/report", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch chi.URLParam(req, "id") {
		case "1":
			_ = json.NewEncoder(w).Encode(model.ContractReport{ContractID: 1, ContractTitle: "Acme - Support", ConsumedHours: 12.5})
		case "2":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(daemon.ErrorResponse{Error: "entry 9 has negative duration"})
		case "3":
			w.WriteHeader(http.StatusTooManyRequests)
		case "4":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(daemon.ErrorResponse{Error: "contract not found"})
		}
	})
	r.Get("/api/v1/status", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(daemon.Status{PollCount: 7, PollIntervalSec: 30})
	})
	r.Get("/api/v1/reports", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.ContractReport{{ContractID: 1}, {ContractID: 2}})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchReport(t *testing.T) {
	c := New(newTestServer(t).URL)

	r, err := c.FetchReport(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.ContractID)
	assert.Equal(t, "Acme - Support", r.ContractTitle)
	assert.Equal(t, 12.5, r.ConsumedHours)
}

func TestFetchReport_ErrorMapping(t *testing.T) {
	c := New(newTestServer(t).URL)
	ctx := context.Background()

	_, err := c.FetchReport(ctx, 2)
	assert.ErrorIs(t, err, ErrInvalidEntry)
	assert.Contains(t, err.Error(), "entry 9")

	_, err = c.FetchReport(ctx, 3)
	assert.ErrorIs(t, err, ErrRateLimited)

	_, err = c.FetchReport(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.FetchReport(ctx, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500: boom")
}

func TestFetchStatusAndReports(t *testing.T) {
	c := New(newTestServer(t).URL + "/")
	ctx := context.Background()

	st, err := c.FetchStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), st.PollCount)

	reports, err := c.FetchReports(ctx)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestNew_AddsScheme(t *testing.T) {
	c := New(" 127.0.0.1:8787/ ")
	assert.Equal(t, "http://127.0.0.1:8787", c.baseURL)

	c = New("https://example.test")
	assert.True(t, strings.HasPrefix(c.baseURL, "https://"))
}
