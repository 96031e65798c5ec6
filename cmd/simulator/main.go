package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/signalsfoundry/supplychain-simulator/core"
	"github.com/signalsfoundry/supplychain-simulator/internal/logging"
	"github.com/signalsfoundry/supplychain-simulator/internal/observability"
	"github.com/signalsfoundry/supplychain-simulator/montecarlo"
)

func main() {
	configPath := flag.String("config", "", "Path to a JSON configuration file (defaults apply when empty)")
	scenarioName := flag.String("scenario", "all", "Scenario to simulate, or \"all\" to sweep every scenario")
	iterations := flag.Int("iterations", 0, "Override the number of Monte Carlo iterations (0 keeps the configured value)")
	seed := flag.Uint64("seed", 0, "Override the master random seed (0 keeps the configured value)")
	weeks := flag.Int("weeks", 0, "Override the simulated horizon in weeks (0 keeps the configured value)")
	parallelism := flag.Int("parallelism", 1, "Number of runs to execute concurrently within a batch")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for Prometheus /metrics (disabled when empty)")
	outDir := flag.String("out", "simulation_results", "Directory for result and configuration artifacts")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewSimCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}
	metricsSrv := serveMetrics(*metricsAddr, collector, log)

	cfg, notes, err := loadConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to load configuration", logging.String("path", *configPath), logging.String("error", err.Error()))
		os.Exit(1)
	}
	for _, note := range notes {
		log.Warn(ctx, "configuration adjusted", logging.String("note", note))
	}
	if *iterations > 0 {
		cfg.Simulation.MonteCarloIterations = *iterations
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *weeks > 0 {
		cfg.Simulation.SimulationLengthWeeks = *weeks
	}
	if err := cfg.Validate(); err != nil {
		log.Error(ctx, "invalid configuration", logging.String("error", err.Error()))
		os.Exit(1)
	}

	scenarios, err := selectScenarios(*scenarioName)
	if err != nil {
		log.Error(ctx, "unknown scenario", logging.String("scenario", *scenarioName), logging.String("error", err.Error()))
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Error(ctx, "failed to create output directory", logging.String("dir", *outDir), logging.String("error", err.Error()))
		os.Exit(1)
	}
	stamp := time.Now().UTC().Format("20060102_150405")

	scenarioCfgs := make(map[core.Scenario]*core.Config, len(scenarios))
	for _, s := range scenarios {
		sc, err := core.ScenarioConfig(cfg, s)
		if err != nil {
			log.Error(ctx, "failed to derive scenario configuration", logging.String("scenario", string(s)), logging.String("error", err.Error()))
			os.Exit(1)
		}
		scenarioCfgs[s] = sc
	}
	if err := writeJSON(filepath.Join(*outDir, stamp+"_simulation_configs.json"), scenarioCfgs); err != nil {
		log.Error(ctx, "failed to write configuration snapshot", logging.String("error", err.Error()))
		os.Exit(1)
	}

	results := make([]*montecarlo.Result, 0, len(scenarios))
	for _, s := range scenarios {
		if ctx.Err() != nil {
			log.Warn(ctx, "sweep interrupted", logging.String("scenario", string(s)))
			break
		}

		driver, err := montecarlo.NewDriver(scenarioCfgs[s], s,
			montecarlo.WithLogger(log),
			montecarlo.WithCollector(collector),
			montecarlo.WithParallelism(*parallelism),
		)
		if err != nil {
			log.Error(ctx, "failed to prepare batch", logging.String("scenario", string(s)), logging.String("error", err.Error()))
			os.Exit(1)
		}

		res, err := driver.Run(ctx)
		if err != nil {
			log.Warn(ctx, "batch aborted", logging.String("scenario", string(s)), logging.String("error", err.Error()))
			break
		}

		path := filepath.Join(*outDir, fmt.Sprintf("%s_%s_results.json", stamp, s))
		if err := writeJSON(path, res); err != nil {
			log.Error(ctx, "failed to write results", logging.String("path", path), logging.String("error", err.Error()))
			os.Exit(1)
		}
		printScenarioSummary(res)
		results = append(results, res)
	}

	if len(results) > 1 {
		printComparison(results)
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

func loadConfig(path string) (*core.Config, []string, error) {
	if path == "" {
		cfg := core.DefaultConfig()
		return cfg, cfg.Normalize(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return core.LoadConfig(f)
}

func selectScenarios(name string) ([]core.Scenario, error) {
	if strings.EqualFold(name, "all") {
		return core.Scenarios, nil
	}
	for _, s := range core.Scenarios {
		if string(s) == name {
			return []core.Scenario{s}, nil
		}
	}
	return nil, fmt.Errorf("scenario %q is not one of %v", name, core.Scenarios)
}

func serveMetrics(addr string, collector *observability.SimCollector, log logging.Logger) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printScenarioSummary(res *montecarlo.Result) {
	fmt.Printf("\n=== %s ===\n", res.Scenario)
	fmt.Printf("Runs: %d succeeded, %d failed (seed %d)\n", res.Succeeded, res.Failed, res.Seed)
	fmt.Printf("Resilience:      %.4f ± %.4f\n", res.Stats.Resilience.Mean, res.Stats.Resilience.StdDev)
	fmt.Printf("Service level:   %.4f ± %.4f\n", res.Stats.ServiceLevel.Mean, res.Stats.ServiceLevel.StdDev)
	fmt.Printf("Cost impact:     %.4f ± %.4f\n", res.Stats.CostImpact.Mean, res.Stats.CostImpact.StdDev)
	fmt.Printf("Recovery time:   %.2f weeks (p95 %.2f)\n", res.Stats.RecoveryTime.Mean, res.Stats.RecoveryTime.P95)
	fmt.Printf("Risk exposure:   %.4f\n", res.Stats.RiskExposure.Mean)
	fmt.Printf("Disruptions/run: %.1f\n", res.Stats.DisruptionCount.Mean)
	fmt.Printf("Strategy ROI:    %.4f\n", res.Stats.ROI.Mean)
}

func printComparison(results []*montecarlo.Result) {
	fmt.Printf("\n=== Scenario comparison ===\n")
	fmt.Printf("%-28s %12s %14s %12s %10s\n", "scenario", "resilience", "service level", "cost impact", "roi")
	for _, res := range results {
		fmt.Printf("%-28s %12.4f %14.4f %12.4f %10.4f\n",
			res.Scenario,
			res.Stats.Resilience.Mean,
			res.Stats.ServiceLevel.Mean,
			res.Stats.CostImpact.Mean,
			res.Stats.ROI.Mean,
		)
	}
}
