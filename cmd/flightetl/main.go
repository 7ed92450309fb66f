package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"flightetl/internal/config"
	"flightetl/internal/metrics"
	"flightetl/internal/metrics/datadog"
	"flightetl/internal/metrics/prompush"
	"flightetl/internal/pipeline"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "flightetl/internal/storage/all"
)

// main is the entry point for the flightetl binary. It loads the run config,
// optionally initializes a metrics backend, and executes the extraction run.
func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
		opts              pipeline.Options
	)

	flag.StringVar(&cfgPath, "config", "configs/sample.json", "run config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, datadog, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&opts.Offline, "offline", false, "replay saved result documents instead of querying the API")
	flag.BoolVar(&opts.SkipDB, "skip-db", false, "skip the database load")
	flag.BoolVar(&opts.SkipSave, "skip-save", false, "do not save query/result documents to scratch")
	flag.BoolVar(&opts.SkipCleanup, "skip-cleanup", false, "keep scratch files after the run")
	flag.BoolVar(&opts.NoBatching, "no-batching", false, "send one request per direction regardless of config")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	// Validate run config.
	issues := config.ValidatePipeline(p)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}

	// If validate flag is set, only validate the configuration and exit
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	setupMetrics(p, metricsBackendFlg, pushGatewayURLFlg, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	start := time.Now()

	if *verbose {
		log.Printf("pipeline: job=%s types=%v storage=%s table=%s offline=%v",
			p.Job, p.Search.FlightTypes, p.Storage.Kind, p.Storage.DB.Table, opts.Offline)
	}

	runner, err := pipeline.New(p, opts)
	if err != nil {
		log.Fatalf("%v", err)
	}
	sum, err := runner.Run(ctx)
	if sum != nil {
		log.Print(sum.Report())
	}
	if err != nil {
		log.Fatalf("%v", err)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// setupMetrics installs the selected metrics backend. Selection order is
// flag, then environment, then the config file. Failures fall back to the
// nop backend so metrics never block a run.
func setupMetrics(p config.Pipeline, backendFlag, gwFlag string, verbose bool) {
	backendName := backendFlag
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	if backendName == "" {
		backendName = p.Metrics.Backend
	}

	jobName := p.Job
	if jobName == "" {
		jobName = "flights"
	}

	switch backendName {
	case "pushgateway", "prometheus":
		gwURL := gwFlag
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = p.Metrics.PushGatewayURL
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}

		b, err := prompush.NewBackend(jobName, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: url=%v, backend=%v, job_name=%v", gwURL, backendName, jobName)
		metrics.SetBackend(b)

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:      p.Metrics.StatsdAddr,
			Namespace: "flights.",
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: addr=%v, backend=%v, job_name=%v", p.Metrics.StatsdAddr, backendName, jobName)
		metrics.SetBackend(b)

	case "", "none", "nop":
		// metrics disabled; nop backend remains
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
