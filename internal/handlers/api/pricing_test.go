package api

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentdeals/internal/models"
	"agentdeals/internal/testutil"
)

type fakeHistory struct {
	runs      []models.CheckRun
	err       error
	lastLimit int
}

func (f *fakeHistory) RecentRuns(_ context.Context, limit int) ([]models.CheckRun, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.runs) {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

func newPricingApp(history RunHistory) *fiber.App {
	h := NewPricingHandler(history, testutil.DiscardLogger())
	app := fiber.New()
	app.Get("/api/pricing/runs", h.Runs)
	return app
}

func TestPricingRuns(t *testing.T) {
	started := time.Date(2026, 2, 20, 6, 0, 0, 0, time.UTC)
	history := &fakeHistory{runs: []models.CheckRun{
		{ID: 2, StartedAt: started.Add(time.Hour), Checked: 4, Changed: 1, Unchanged: 3, ExitCode: 1},
		{ID: 1, StartedAt: started, Checked: 4, Baseline: 4},
	}}
	app := newPricingApp(history)

	status, env := get(t, app, "/api/pricing/runs")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", env.Status)
	assert.Equal(t, defaultRunLimit, history.lastLimit)

	var runs []models.CheckRun
	require.NoError(t, json.Unmarshal(env.Data, &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, int64(2), runs[0].ID)
	assert.Equal(t, 1, runs[0].ExitCode)

	status, env = get(t, app, "/api/pricing/runs?limit=1")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, history.lastLimit)
	require.NoError(t, json.Unmarshal(env.Data, &runs))
	assert.Len(t, runs, 1)
}

func TestPricingRunsRejects(t *testing.T) {
	app := newPricingApp(&fakeHistory{})

	tests := []struct {
		target string
		want   string
	}{
		{"/api/pricing/runs?limit=abc", "limit must be an integer"},
		{"/api/pricing/runs?limit=0", "limit must be between 1 and 100"},
		{"/api/pricing/runs?limit=101", "limit must be between 1 and 100"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			status, env := get(t, app, tt.target)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, tt.want, env.Error)
		})
	}
}

func TestPricingRunsWithoutHistory(t *testing.T) {
	status, env := get(t, newPricingApp(nil), "/api/pricing/runs")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestPricingRunsStoreError(t *testing.T) {
	status, env := get(t, newPricingApp(&fakeHistory{err: errors.New("connection refused")}), "/api/pricing/runs")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Failed to load pricing runs", env.Error)
}
