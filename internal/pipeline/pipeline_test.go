package pipeline_test

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoResolver returns an outcome derived from the query so tests can
// verify slot alignment. Venues containing "missing" stay unresolved.
// A small random delay shakes out ordering bugs under concurrency.
type echoResolver struct {
	calls atomic.Int64
	delay bool
}

func (e *echoResolver) Resolve(_ context.Context, query models.Query) models.ResolutionOutcome {
	e.calls.Add(1)
	if e.delay {
		time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
	}
	if query.Venue == "missing" {
		return models.ResolutionOutcome{}
	}
	return models.ResolutionOutcome{
		Address: query.FullName(),
		Point:   &models.Coordinates{Lat: 1, Lng: 2},
	}
}

func newPipeline(resolver pipeline.Arbitrator, workers int) *pipeline.Pipeline {
	mtr := metrics.NewMetrics(prometheus.NewRegistry())
	return pipeline.New(resolver, slog.Default(), mtr, workers)
}

func TestRun(t *testing.T) {
	ctx := t.Context()

	t.Run("preserves row order", func(t *testing.T) {
		for _, workers := range []int{1, 4} {
			t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
				rows := make([]models.Row, 20)
				for i := range rows {
					rows[i] = models.Row{City: fmt.Sprintf("city%02d", i), Venue: fmt.Sprintf("venue%02d", i)}
				}

				resolver := &echoResolver{delay: workers > 1}
				results := newPipeline(resolver, workers).Run(ctx, rows)

				require.Len(t, results, len(rows))
				for i, outcome := range results {
					assert.Equal(t, fmt.Sprintf("city%02d venue%02d", i, i), outcome.Address)
				}
				assert.Equal(t, int64(len(rows)), resolver.calls.Load())
			})
		}
	})

	t.Run("five rows two failures", func(t *testing.T) {
		rows := []models.Row{
			{City: "南京", Venue: "先锋书店"},
			{City: "上海", Venue: "missing"},
			{City: "北京", Venue: "故宫"},
			{City: "广州", Venue: "missing"},
			{City: "成都", Venue: "宽窄巷子"},
		}

		results := newPipeline(&echoResolver{}, 2).Run(ctx, rows)

		require.Len(t, results, 5)
		resolved := 0
		for _, outcome := range results {
			if outcome.Point != nil {
				resolved++
			}
		}
		assert.Equal(t, 3, resolved)
		assert.Nil(t, results[1].Point)
		assert.Nil(t, results[3].Point)
	})

	t.Run("trims whitespace from row values", func(t *testing.T) {
		rows := []models.Row{{City: " 南京 ", Venue: " 先锋书店 "}}

		results := newPipeline(&echoResolver{}, 1).Run(ctx, rows)

		require.Len(t, results, 1)
		assert.Equal(t, "南京 先锋书店", results[0].Address)
	})

	t.Run("empty input", func(t *testing.T) {
		results := newPipeline(&echoResolver{}, 3).Run(ctx, nil)
		assert.Empty(t, results)
	})

	t.Run("worker count below one is clamped", func(t *testing.T) {
		rows := []models.Row{{City: "南京", Venue: "先锋书店"}}

		results := newPipeline(&echoResolver{}, 0).Run(ctx, rows)

		require.Len(t, results, 1)
		assert.NotNil(t, results[0].Point)
	})
}
