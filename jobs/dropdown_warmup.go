package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	jobmetrics "github.com/synexis/synexis-admin/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

const (
	warmupTimeout     = 20 * time.Second
	warmupConcurrency = 4
)

// Warmer refreshes the cached dropdowns of one backend resource.
type Warmer struct {
	Resource string
	Warm     func(ctx context.Context) error
}

// DropdownWarmupJob pre-populates the dropdown cache so form pages render
// without waiting on the backend.
type DropdownWarmupJob struct {
	Warmers []Warmer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewDropdownWarmupJob wires dependencies for the warmup handler.
func NewDropdownWarmupJob(logger *slog.Logger, metrics *jobmetrics.Metrics, warmers ...Warmer) *DropdownWarmupJob {
	return &DropdownWarmupJob{Warmers: warmers, Logger: logger, Metrics: metrics}
}

// Handle processes dropdown warmup tasks. Every selected resource is warmed
// even when another one fails; the failures are joined.
func (j *DropdownWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil {
		return errors.New("dropdown warmup: handler not configured")
	}
	var payload DropdownWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("dropdown warmup: %v: %w", err, asynq.SkipRetry)
		}
	}

	tracker := j.metrics().Track(TaskDropdownWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	warmers, err := j.selected(payload.Resources)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	logger := j.logger()
	start := time.Now()
	logger.Info("starting dropdown warmup", slog.Int("resources", len(warmers)))

	errs := make([]error, len(warmers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmupConcurrency)
	for i, w := range warmers {
		g.Go(func() error {
			wctx, cancel := context.WithTimeout(gctx, warmupTimeout)
			defer cancel()
			err := w.Warm(wctx)
			j.metrics().Warmed(w.Resource, err == nil)
			if err != nil {
				logger.Error("warm dropdowns", slog.String("resource", w.Resource), slog.Any("error", err))
				errs[i] = fmt.Errorf("%s: %w", w.Resource, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return err
	}
	logger.Info("completed dropdown warmup", slog.Int("resources", len(warmers)), slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *DropdownWarmupJob) selected(names []string) ([]Warmer, error) {
	if len(names) == 0 {
		return j.Warmers, nil
	}
	byName := make(map[string]Warmer, len(j.Warmers))
	for _, w := range j.Warmers {
		byName[w.Resource] = w
	}
	out := make([]Warmer, 0, len(names))
	for _, name := range names {
		w, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("dropdown warmup: unknown resource %q", name)
		}
		out = append(out, w)
	}
	return out, nil
}

func (j *DropdownWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDropdownWarmup))
	}
	return slog.Default().With(slog.String("job", TaskDropdownWarmup))
}

func (j *DropdownWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
