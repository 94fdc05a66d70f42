package writer

import (
	"bytes"
	"fmt"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"lighterprobe/models"
)

// StepRecord is one row of a run report file.
type StepRecord struct {
	RunID      string `parquet:"name=run_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Host       string `parquet:"name=host, type=BYTE_ARRAY, convertedtype=UTF8"`
	Step       string `parquet:"name=step, type=BYTE_ARRAY, convertedtype=UTF8"`
	Seq        int32  `parquet:"name=seq, type=INT32"`
	Status     string `parquet:"name=status, type=BYTE_ARRAY, convertedtype=UTF8"`
	DurationMs int64  `parquet:"name=duration_ms, type=INT64"`
	Error      string `parquet:"name=error, type=BYTE_ARRAY, convertedtype=UTF8"`
	StartedAt  int64  `parquet:"name=started_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Success    bool   `parquet:"name=success, type=BOOLEAN"`
}

// memoryFileWriter implements source.ParquetFile over a byte buffer.
type memoryFileWriter struct {
	buffer *bytes.Buffer
}

func newMemoryFileWriter() *memoryFileWriter {
	return &memoryFileWriter{buffer: &bytes.Buffer{}}
}

func (mfw *memoryFileWriter) Create(name string) (source.ParquetFile, error) { return mfw, nil }

func (mfw *memoryFileWriter) Open(name string) (source.ParquetFile, error) { return mfw, nil }

// Seek only reports the current size; the parquet writer never rewinds.
func (mfw *memoryFileWriter) Seek(offset int64, whence int) (int64, error) {
	return int64(mfw.buffer.Len()), nil
}

func (mfw *memoryFileWriter) Read(b []byte) (int, error) { return mfw.buffer.Read(b) }

func (mfw *memoryFileWriter) Write(b []byte) (int, error) { return mfw.buffer.Write(b) }

func (mfw *memoryFileWriter) Close() error { return nil }

func (mfw *memoryFileWriter) Bytes() []byte { return mfw.buffer.Bytes() }

func compressionCodec(name string) parquet.CompressionCodec {
	switch name {
	case "snappy", "":
		return parquet.CompressionCodec_SNAPPY
	case "gzip":
		return parquet.CompressionCodec_GZIP
	default:
		return parquet.CompressionCodec_UNCOMPRESSED
	}
}

// records flattens a report into rows, one per step, in call order.
func records(report *models.RunReport) []StepRecord {
	out := make([]StepRecord, 0, len(report.Steps))
	for i, s := range report.Steps {
		out = append(out, StepRecord{
			RunID:      report.RunID,
			Host:       report.Host,
			Step:       s.Name,
			Seq:        int32(i + 1),
			Status:     string(s.Status),
			DurationMs: s.Duration.Milliseconds(),
			Error:      s.Error,
			StartedAt:  s.StartedAt.UnixMilli(),
			Success:    report.Success,
		})
	}
	return out
}

func encodeParquet(rows []StepRecord, compression string) ([]byte, error) {
	fw := newMemoryFileWriter()

	pw, err := writer.NewParquetWriter(fw, new(StepRecord), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = compressionCodec(compression)

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			pw.WriteStop()
			return nil, fmt.Errorf("failed to write parquet record: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("failed to finalize parquet writing: %w", err)
	}
	return fw.Bytes(), nil
}
