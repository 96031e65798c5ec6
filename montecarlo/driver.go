package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/signalsfoundry/supplychain-simulator/core"
	"github.com/signalsfoundry/supplychain-simulator/internal/logging"
	"github.com/signalsfoundry/supplychain-simulator/internal/observability"
	"github.com/signalsfoundry/supplychain-simulator/model"
)

const tracerName = "github.com/signalsfoundry/supplychain-simulator/montecarlo"

// Driver executes a batch of independent simulation runs and aggregates
// their summaries. Each iteration derives its own random source from the
// master seed and the iteration index, so the whole batch is reproducible
// from one seed while runs stay mutually independent.
type Driver struct {
	cfg         *core.Config
	scenario    core.Scenario
	log         logging.Logger
	collector   *observability.SimCollector
	parallelism int
}

// Option customises a Driver.
type Option func(*Driver)

// WithLogger attaches a structured logger for batch progress.
func WithLogger(l logging.Logger) Option {
	return func(d *Driver) { d.log = l }
}

// WithCollector attaches Prometheus collectors for run accounting.
func WithCollector(c *observability.SimCollector) Option {
	return func(d *Driver) { d.collector = c }
}

// WithParallelism bounds how many runs execute concurrently. Values <= 1
// select sequential execution. Aggregate statistics are identical either
// way: results are stored by iteration index, never by completion order.
func WithParallelism(n int) Option {
	return func(d *Driver) { d.parallelism = n }
}

// NewDriver validates the configuration and prepares a batch for the given
// scenario. Validation failures surface here, before any run starts.
func NewDriver(cfg *core.Config, scenario core.Scenario, opts ...Option) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Driver{
		cfg:      cfg,
		scenario: scenario,
		log:      logging.Noop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// rngFor derives the iteration's independent random source from the master
// seed and the iteration index.
func (d *Driver) rngFor(iteration int) *rand.Rand {
	return rand.New(rand.NewPCG(d.cfg.Simulation.Seed, uint64(iteration)))
}

// Run executes the full batch. Runs aborted by a computation error are
// recorded as failed and excluded from aggregation; the batch itself only
// fails on cancellation. Cancellation is honoured between iterations, never
// mid-week.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	iterations := d.cfg.Simulation.MonteCarloIterations
	batchID := uuid.NewString()
	ctx, log := logging.WithBatchLogger(ctx, d.log, batchID)
	ctx = logging.ContextWithLogger(ctx, log)

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "montecarlo.batch")
	span.SetAttributes(
		attribute.String("scenario", string(d.scenario)),
		attribute.Int("iterations", iterations),
		attribute.Int64("seed", int64(d.cfg.Simulation.Seed)),
	)
	defer span.End()

	log.Info(ctx, "batch starting",
		logging.String("scenario", string(d.scenario)),
		logging.Int("iterations", iterations),
		logging.Int("weeks", d.cfg.Simulation.SimulationLengthWeeks),
	)

	results := make([]*model.RunSummary, iterations)
	var runErr error
	if d.parallelism > 1 {
		runErr = d.runParallel(ctx, results)
	} else {
		runErr = d.runSequential(ctx, results)
	}
	if runErr != nil {
		return nil, runErr
	}

	out := &Result{
		BatchID:    batchID,
		Scenario:   string(d.scenario),
		Seed:       d.cfg.Simulation.Seed,
		Iterations: iterations,
	}
	for _, s := range results {
		if s == nil {
			out.Failed++
			continue
		}
		out.Succeeded++
		out.Summaries = append(out.Summaries, *s)
	}
	out.Stats = Aggregate(out.Summaries)

	d.collector.SetBatchAverages(out.Stats.Resilience.Mean, out.Stats.ServiceLevel.Mean, out.Stats.CostImpact.Mean)
	log.Info(ctx, "batch complete",
		logging.Int("succeeded", out.Succeeded),
		logging.Int("failed", out.Failed),
		logging.Float("avg_resilience", out.Stats.Resilience.Mean),
		logging.Float("avg_service_level", out.Stats.ServiceLevel.Mean),
		logging.Float("avg_cost_impact", out.Stats.CostImpact.Mean),
	)
	return out, nil
}

func (d *Driver) runSequential(ctx context.Context, results []*model.RunSummary) error {
	for i := range results {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("batch aborted after %d iterations: %w", i, err)
		}
		results[i] = d.executeOne(ctx, i)
	}
	return nil
}

func (d *Driver) runParallel(ctx context.Context, results []*model.RunSummary) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.parallelism)
	for i := range results {
		if err := ctx.Err(); err != nil {
			_ = g.Wait()
			return fmt.Errorf("batch aborted: %w", err)
		}
		g.Go(func() error {
			results[i] = d.executeOne(ctx, i)
			return nil
		})
	}
	return g.Wait()
}

// executeOne runs a single iteration and returns its summary, or nil when
// the run failed. Run failures never abort the batch.
func (d *Driver) executeOne(ctx context.Context, iteration int) *model.RunSummary {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "montecarlo.run")
	span.SetAttributes(attribute.Int("iteration", iteration))
	defer span.End()

	start := time.Now()
	run, err := core.NewSimulationRun(d.cfg, string(d.scenario), iteration, d.rngFor(iteration))
	if err != nil {
		// Config was validated up front; a failure here is a programming
		// error but is still accounted as a failed run.
		d.recordFailure(ctx, iteration, err)
		return nil
	}

	res, err := run.Execute()
	if err != nil {
		d.recordFailure(ctx, iteration, err)
		return nil
	}

	d.collector.RunCompleted(string(d.scenario), res.Summary.Weeks, time.Since(start).Seconds())
	for t, c := range res.Summary.DisruptionsByType {
		d.collector.DisruptionObserved(string(t), c)
	}
	return &res.Summary
}

func (d *Driver) recordFailure(ctx context.Context, iteration int, err error) {
	d.collector.RunFailed(string(d.scenario))
	log := logging.LoggerFromContext(ctx)
	if log == nil {
		log = d.log
	}
	var compErr *core.ComputationError
	if errors.As(err, &compErr) {
		log.Warn(ctx, "run failed",
			logging.Int("iteration", iteration),
			logging.Int("week", compErr.Week),
			logging.String("metric", compErr.Metric),
		)
		return
	}
	log.Warn(ctx, "run failed",
		logging.Int("iteration", iteration),
		logging.String("error", err.Error()),
	)
}
