package testevents

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/versus/internal/adapters/http/api"
	service "github.com/okian/versus/internal/app"
	"github.com/okian/versus/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	svc := service.New(service.WithDebounce(20 * time.Millisecond))
	require.NoError(t, svc.Start(ctx))
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc, logger.Get()).Register(ctx, mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunAgainstService(t *testing.T) {
	srv := newTestServer(t)
	out := filepath.Join(t.TempDir(), "sessions.json")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := Run(ctx, &Config{
		BaseURL:          srv.URL,
		Sessions:         4,
		EventsPerSession: 20,
		Workers:          2,
		Timeout:          5 * time.Second,
		Settle:           150 * time.Millisecond,
		Seed:             7,
		OutputFile:       out,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, stats.SessionsCreated)
	assert.Zero(t, stats.SessionsFailed)
	assert.Zero(t, stats.Violations)
	assert.Positive(t, stats.EventsAccepted)
	assert.Positive(t, stats.EventsDuplicate)
	assert.GreaterOrEqual(t, stats.ViewsVerified, 4*2)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"session_id"`)
}

func TestRunFailsWhenServiceIsDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := Run(context.Background(), &Config{
		BaseURL:  srv.URL,
		Sessions: 1,
		Timeout:  time.Second,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health check")
}

func TestHTTPClientStatusErrors(t *testing.T) {
	srv := newTestServer(t)
	client := NewHTTPClient(srv.URL, 5*time.Second)
	ctx := context.Background()

	_, err := client.Session(ctx, "missing")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Status)

	view, err := client.CreateSession(ctx)
	require.NoError(t, err)
	require.NoError(t, client.CloseSession(ctx, view.SessionID))
	require.ErrorAs(t, client.CloseSession(ctx, view.SessionID), &se)
}
