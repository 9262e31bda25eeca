package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/catalog"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/config"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/metrics"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/metrics/prompush"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/report"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/server"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/sink"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/source"
)

// main is the entry point for the analytics server. It loads the config,
// optionally initializes a metrics backend, wires the sources, sink and
// report catalog, and serves HTTP.
func main() {
	var (
		cfgPath           string
		addrFlg           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "", "service config JSON path (empty: defaults + env)")
	flag.StringVar(&addrFlg, "addr", "", "listen address (overrides config)")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, none; overrides config)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides config)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")

	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if addrFlg != "" {
		cfg.Addr = addrFlg
	}
	if metricsBackendFlg != "" {
		cfg.Metrics.Backend = metricsBackendFlg
	}
	if pushGatewayURLFlg != "" {
		cfg.Metrics.PushgatewayURL = pushGatewayURLFlg
	}

	issues := config.Validate(cfg)
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
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	setupMetrics(cfg.Metrics)

	ctx := context.Background()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		fatalf("aws config: %v", err)
	}
	s3Client := s3.NewFromConfig(awsCfg)
	presigner := s3.NewPresignClient(s3Client)

	httpClient := source.NewHTTPClient(source.HTTPConfig{
		Timeout:    cfg.Remote.Timeout(),
		MaxRetries: cfg.Remote.MaxRetries,
	})

	mux := &source.Mux{
		Blob:   source.NewBlobSource(s3Client, cfg.AWS.DataBucket, cfg.Remote.Timeout()),
		Remote: source.NewRemoteSource(httpClient, cfg.Remote.Timeout()),
	}
	if cfg.SQL.DSN != "" {
		pool, err := pgxpool.New(ctx, cfg.SQL.DSN)
		if err != nil {
			fatalf("sql source: %v", err)
		}
		defer pool.Close()
		mux.SQL = source.NewSQLSource(pool, cfg.Remote.Timeout())
	}

	cat, err := catalog.New(catalog.Builtin(catalog.Endpoints{
		Heart: cfg.Remote.HeartEndpoint,
		Lung:  cfg.Remote.LungEndpoint,
	})...)
	if err != nil {
		fatalf("catalog: %v", err)
	}
	log.Printf("catalog: %d reports registered", len(cat.IDs()))

	s3Sink := sink.NewS3Sink(s3Client, presigner, cfg.AWS.UploadBucket, cfg.AWS.PresignTTL())
	executor := &report.Executor{
		Source:  mux,
		Catalog: cat,
		Sink:    s3Sink,
	}
	patients := &report.PatientService{
		Source:     mux,
		Patients:   source.Selector{Kind: source.KindRemote, Endpoint: cfg.Remote.PatientsEndpoint},
		BloodSugar: source.Selector{Kind: source.KindRemote, Endpoint: cfg.Remote.BloodSugarEndpoint},
		Sink:       s3Sink,
	}

	srv := server.NewServer(server.Config{Addr: cfg.Addr}, executor, patients)
	if err := srv.ListenAndServe(); err != nil {
		fatalf("server: %v", err)
	}
}

// setupMetrics installs the configured metrics backend; the nop backend
// stays installed on any failure.
func setupMetrics(mc config.MetricsConfig) {
	switch mc.Backend {
	case "pushgateway":
		gwURL := mc.PushgatewayURL
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		jobName := mc.Job
		if jobName == "" {
			jobName = "analytics"
		}
		b, err := prompush.NewBackend(jobName, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: url=%v, backend=%v, job_name=%v", gwURL, mc.Backend, jobName)
		metrics.SetBackend(b)
		go func() {
			for range time.Tick(15 * time.Second) {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}
		}()

	case "", "none":
		// metrics disabled; nop backend remains

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", mc.Backend)
	}
}

func fatalf(format string, args ...any) {
	log.Printf(format, args...)
	os.Exit(1)
}
