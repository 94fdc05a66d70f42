package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"lighterprobe/config"
	"lighterprobe/lighter"
	"lighterprobe/logger"
	"lighterprobe/models"
	"lighterprobe/probe"
	"lighterprobe/writer"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", config.DefaultConfigPath, "Path to configuration file")
	flag.Parse()

	path := config.ResolveConfigPath(*configPath)
	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.WithError(err).WithFields(logger.Fields{"path": path}).Error("Failed to load configuration")
		return 1
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		return 1
	}

	log.WithFields(logger.Fields{
		"service":     cfg.Probe.Name,
		"version":     cfg.Probe.Version,
		"environment": config.AppEnvironment(),
		"host":        cfg.Lighter.Host,
	}).Info("Running Lighter API verification")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.CloudWatch.Enabled {
		logger.InitCloudWatch(ctx, cfg.Metrics.CloudWatch.Region, cfg.Metrics.CloudWatch.Namespace, cfg.Metrics.CloudWatch.Dashboard)
	}

	report, runErr := probe.Execute(ctx, probe.OpenLighter(lighter.ConfigurationFrom(cfg.Lighter)), log.WithComponent("probe"))

	publishRunMetrics(log, report)

	if cfg.Storage.Report.Enabled {
		writeReport(ctx, log, cfg, report)
	}

	logger.LogSummary(ctx, log)

	if runErr != nil {
		log.WithFields(logger.Fields{"run_id": report.RunID}).Info("Verification failed")
		return 1
	}
	log.WithFields(logger.Fields{"run_id": report.RunID}).Info("Verification completed")
	return 0
}

func publishRunMetrics(log *logger.Log, report *models.RunReport) {
	for _, step := range report.Steps {
		if step.Status == models.StepSkipped {
			continue
		}
		log.LogMetric("probe", "step_duration_ms", step.Duration.Milliseconds(), "duration", logger.Fields{
			"step":   step.Name,
			"status": string(step.Status),
		})
	}
	log.LogMetric("probe", "run_success", report.Success, "gauge", logger.Fields{
		"host": report.Host,
	})
	logger.LogPerformanceEntry(log.WithComponent("probe"), "probe", "run", report.Duration(), logger.Fields{
		"run_id": report.RunID,
		"steps":  len(report.Steps),
	})
}

func writeReport(ctx context.Context, log *logger.Log, cfg *config.Config, report *models.RunReport) {
	w, err := writer.NewReportWriter(ctx, cfg)
	if err != nil {
		log.WithComponent("report_writer").WithError(err).Warn("Report writer unavailable")
		return
	}
	if _, err := w.Write(ctx, report); err != nil {
		log.WithComponent("report_writer").WithError(err).WithEnv("S3_BUCKET").Warn("Failed to write run report")
	}
}
