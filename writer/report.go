package writer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "lighterprobe/config"
	"lighterprobe/logger"
	"lighterprobe/models"
)

// objectPutter is the part of *s3.Client the writer uses.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ReportWriter persists run reports as Parquet, to S3 when storage.s3 is
// enabled and below the local report directory otherwise.
type ReportWriter struct {
	report  appconfig.ReportConfig
	bucket  string
	version string
	s3      objectPutter
	log     *logger.Log
}

// NewReportWriter builds a writer from cfg. The S3 client is only created
// when storage.s3.enabled is set.
func NewReportWriter(ctx context.Context, cfg *appconfig.Config) (*ReportWriter, error) {
	log := logger.GetLogger()
	w := &ReportWriter{
		report:  cfg.Storage.Report,
		version: cfg.Probe.Version,
		log:     log,
	}
	if !cfg.Storage.S3.Enabled {
		log.WithComponent("report_writer").WithFields(logger.Fields{
			"local_dir": cfg.Storage.Report.LocalDir,
		}).Debug("report writer initialized")
		return w, nil
	}

	client, err := newS3Client(ctx, cfg.Storage.S3)
	if err != nil {
		log.WithComponent("report_writer").WithError(err).Warn("failed to create S3 client")
		return nil, err
	}
	w.s3 = client
	w.bucket = cfg.Storage.S3.Bucket

	log.WithComponent("report_writer").WithFields(logger.Fields{
		"bucket":     cfg.Storage.S3.Bucket,
		"region":     cfg.Storage.S3.Region,
		"endpoint":   cfg.Storage.S3.Endpoint,
		"path_style": cfg.Storage.S3.PathStyle,
	}).Info("report writer initialized")
	return w, nil
}

func newS3Client(ctx context.Context, cfg appconfig.S3Config) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	}), nil
}

// Key returns <prefix>/date=YYYY-MM-DD/<run_id>.parquet for report.
func (w *ReportWriter) Key(report *models.RunReport) string {
	date := report.StartedAt.UTC().Format("2006-01-02")
	return path.Join(w.report.Prefix, "date="+date, report.RunID+".parquet")
}

// Write encodes report and stores it. It returns the location written to,
// or "" when nothing was written.
func (w *ReportWriter) Write(ctx context.Context, report *models.RunReport) (string, error) {
	log := w.log.WithComponent("report_writer").WithFields(logger.Fields{
		"run_id":    report.RunID,
		"operation": "write_report",
	})

	if !w.report.Enabled {
		log.Debug("report writing disabled, skipping")
		return "", nil
	}
	rows := records(report)
	if len(rows) == 0 {
		log.Debug("report has no steps, skipping")
		return "", nil
	}

	data, err := encodeParquet(rows, w.report.Compression)
	if err != nil {
		return "", err
	}

	key := w.Key(report)
	log = log.WithFields(logger.Fields{"key": key, "file_size": len(data), "rows": len(rows)})

	if w.s3 != nil {
		if err := w.upload(ctx, key, data); err != nil {
			return "", err
		}
		location := fmt.Sprintf("s3://%s/%s", w.bucket, key)
		log.WithFields(logger.Fields{"location": location}).Info("report uploaded")
		return location, nil
	}

	target := filepath.Join(w.report.LocalDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	log.WithFields(logger.Fields{"location": target}).Info("report written")
	return target, nil
}

func (w *ReportWriter) upload(ctx context.Context, key string, data []byte) error {
	compression := w.report.Compression
	if compression == "" {
		compression = "snappy"
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
		Metadata: map[string]string{
			"content-type":         "parquet",
			"compression":          compression,
			"lighterprobe-version": w.version,
		},
	}

	if _, err := w.s3.PutObject(context.WithoutCancel(ctx), input); err != nil {
		return fmt.Errorf("failed to upload to S3 bucket %s: %w", w.bucket, err)
	}
	return nil
}
