package cleaner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"vcfclean/internal/classify"
	"vcfclean/internal/config"
	"vcfclean/internal/report"
	"vcfclean/internal/segment"
	"vcfclean/internal/textnorm"
	"vcfclean/internal/validate"
	"vcfclean/pkg/diag"
	"vcfclean/pkg/domain"
	"vcfclean/pkg/logger"
	"vcfclean/pkg/metrics"
	"vcfclean/pkg/serrors"
	"vcfclean/pkg/storage"
	"vcfclean/pkg/vcard"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	bucketValid   = "valid"
	bucketInvalid = "invalid"
)

// Options configure a cleaning run. These settings are typically derived from
// application configuration.
type Options struct {
	// BeginMarker and EndMarker delimit a record block.
	BeginMarker string
	EndMarker   string
	// FallbackEncoding is used when the input encoding cannot be detected.
	FallbackEncoding string
	// Charset forces the input encoding instead of detecting it.
	Charset string
	// ReportPath is where the text explanation report is written.
	ReportPath string
	// XLSXReportPath enables the spreadsheet report when set.
	XLSXReportPath string
	// PersistArtifacts stores the normalized and sanitized text next to the
	// run for inspection. They are removed when the run ends.
	PersistArtifacts bool
	// ArtifactsDir holds the artifacts. Empty means the OS temp dir.
	ArtifactsDir string
	// MetricsTextfilePath enables the metrics dump when set.
	MetricsTextfilePath string
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		BeginMarker:         cfg.Markers.Begin,
		EndMarker:           cfg.Markers.End,
		FallbackEncoding:    cfg.Encoding.Fallback,
		Charset:             cfg.Encoding.Charset,
		ReportPath:          cfg.Report.Path,
		XLSXReportPath:      cfg.Report.XLSXPath,
		PersistArtifacts:    cfg.Artifacts.Persist,
		ArtifactsDir:        cfg.Artifacts.Dir,
		MetricsTextfilePath: cfg.Metrics.TextfilePath,
	}
}

// cleaner is the concrete implementation of the Cleaner interface.
// It runs the pipeline stages in order and does all I/O through storage.
type cleaner struct {
	options   Options
	storage   storage.Storage
	codec     vcard.Codec
	segmenter *segment.Segmenter
	validator validate.Validator
	metrics   metrics.Recorder
}

// run is the per-invocation state shared by the pipeline steps.
type run struct {
	id        string
	dc        *diag.Collector
	artifacts []string
	started   time.Time
}

// Clean implements Cleaner.
func (c *cleaner) Clean(ctx context.Context, req Request) (*Result, error) {
	if req.Input == "" || req.ValidOutput == "" || req.InvalidOutput == "" {
		return nil, serrors.With(serrors.ErrInvalidArgument, "input, valid and invalid output paths are required")
	}

	ctx, r := c.begin(ctx)
	res, err := c.analyze(ctx, r, req.Input)
	defer func() { c.finish(ctx, r, res) }()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := c.storage.Write(ctx, c.options.ReportPath, []byte(res.Report)); err != nil {
		return nil, fmt.Errorf("could not write report: %w", err)
	}
	if res.ValidWritten, err = c.writeBucket(ctx, r, bucketValid, req.ValidOutput, res.Classified.Valid); err != nil {
		return nil, err
	}
	if res.InvalidWritten, err = c.writeBucket(ctx, r, bucketInvalid, req.InvalidOutput, res.Classified.Invalid); err != nil {
		return nil, err
	}
	if c.options.XLSXReportPath != "" {
		data, err := report.RenderXLSX(res.Classified.Invalid)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrInternal, err, "could not render xlsx report")
		}
		if err := c.storage.Write(ctx, c.options.XLSXReportPath, data); err != nil {
			return nil, fmt.Errorf("could not write xlsx report: %w", err)
		}
	}
	c.metrics.Stage(ctx, string(diag.StageWrite), time.Since(start))

	return res, nil
}

// Check implements Cleaner.
func (c *cleaner) Check(ctx context.Context, input string) (*Result, error) {
	if input == "" {
		return nil, serrors.With(serrors.ErrInvalidArgument, "input path is required")
	}

	ctx, r := c.begin(ctx)
	res, err := c.analyze(ctx, r, input)
	defer func() { c.finish(ctx, r, res) }()
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (c *cleaner) begin(ctx context.Context) (context.Context, *run) {
	r := &run{
		id:      uuid.New().String(),
		dc:      diag.NewCollector(),
		started: time.Now(),
	}

	return logger.WithFields(ctx, zap.String("runID", r.id)), r
}

// analyze reads, decodes, segments and classifies input. On success the
// returned result carries everything but the written counts.
func (c *cleaner) analyze(ctx context.Context, r *run, input string) (*Result, error) {
	raw, err := c.storage.Read(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("could not read input: %w", err)
	}

	start := time.Now()
	normalized := textnorm.Normalize(raw, textnorm.Options{
		Fallback: c.options.FallbackEncoding,
		Charset:  c.options.Charset,
	}, r.dc)
	if err := c.persist(ctx, r, "utf8", normalized.Text); err != nil {
		return nil, err
	}
	cleaned := textnorm.Sanitize(normalized.Text)
	if err := c.persist(ctx, r, "cleaned", cleaned); err != nil {
		return nil, err
	}
	c.metrics.Stage(ctx, string(diag.StageNormalize), time.Since(start))

	start = time.Now()
	records := c.segmenter.Segment(cleaned, r.dc)
	c.metrics.Stage(ctx, string(diag.StageSegment), time.Since(start))
	c.metrics.Malformed(ctx, r.dc.Count(serrors.ErrMalformedRecord))

	if len(records) == 0 {
		r.dc.Add(diag.Diagnostic{
			Stage:   diag.StagePipeline,
			Kind:    serrors.ErrEmptyInput,
			Message: "no records loaded, nothing to write",
			Detail:  input,
		})

		return nil, serrors.With(serrors.ErrEmptyInput, "no records found in input")
	}

	classified := classify.Classify(records, c.validator)
	c.metrics.Records(ctx, metrics.OutcomeValid, len(classified.Valid))
	c.metrics.Records(ctx, metrics.OutcomeInvalid, len(classified.Invalid))

	return &Result{
		RunID:      r.id,
		Encoding:   normalized.Encoding,
		Records:    len(records),
		Classified: classified,
		Report:     report.Render(classified.Invalid),
	}, nil
}

// persist stores an intermediate artifact when artifacts are enabled and
// remembers it for removal.
func (c *cleaner) persist(ctx context.Context, r *run, suffix, text string) error {
	if !c.options.PersistArtifacts {
		return nil
	}

	dir := c.options.ArtifactsDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("vcfclean-%s-%s.vcf", r.id, suffix))
	r.artifacts = append(r.artifacts, path)
	if err := c.storage.Write(ctx, path, []byte(text)); err != nil {
		return fmt.Errorf("could not persist %s artifact: %w", suffix, err)
	}

	return nil
}

// writeBucket serializes entries and writes them to path. Records that cannot
// be serialized are skipped with a diagnostic. A bucket without records is not
// written at all.
func (c *cleaner) writeBucket(ctx context.Context,
	r *run,
	bucket, path string,
	entries []domain.Classified) (int, error) {
	if len(entries) == 0 {
		r.dc.Add(diag.Diagnostic{
			Stage:    diag.StageWrite,
			Severity: diag.SeverityInfo,
			Message:  "no " + bucket + " records to save, output not written",
			Detail:   path,
		})

		return 0, nil
	}

	var b strings.Builder
	written := 0
	for _, entry := range entries {
		out := c.codec.Serialize(entry.Record)
		if !out.OK() || strings.TrimSpace(out.Text) == "" {
			reason := "empty serialization"
			if !out.OK() {
				reason = out.Err.Error()
			}
			r.dc.Add(diag.Diagnostic{
				Stage:   diag.StageWrite,
				Kind:    serrors.ErrSerialization,
				Message: "skipping " + bucket + " record " + entry.Record.Label() + ": " + reason,
				Detail:  entry.Record.Block,
			})
			c.metrics.SerializationFailure(ctx, bucket)

			continue
		}
		b.WriteString(out.Text)
		written++
	}

	if err := c.storage.Write(ctx, path, []byte(b.String())); err != nil {
		return written, fmt.Errorf("could not write %s records: %w", bucket, err)
	}

	return written, nil
}

// finish removes artifacts, dumps metrics and logs the diagnostics and a
// summary of the run. res is nil when the run failed.
func (c *cleaner) finish(ctx context.Context, r *run, res *Result) {
	for _, path := range r.artifacts {
		if err := c.storage.Remove(ctx, path); err != nil {
			r.dc.Add(diag.Diagnostic{
				Stage:   diag.StagePipeline,
				Kind:    serrors.KindOf(err),
				Message: "could not remove artifact",
				Detail:  path,
			})
		}
	}

	if c.options.MetricsTextfilePath != "" {
		if err := c.metrics.WriteTextfile(c.options.MetricsTextfilePath); err != nil {
			r.dc.Add(diag.Diagnostic{
				Stage:   diag.StagePipeline,
				Kind:    serrors.ErrIO,
				Message: "could not write metrics textfile",
				Detail:  err.Error(),
			})
		}
	}

	r.dc.Log(ctx)

	fields := []zap.Field{
		zap.Duration("took", time.Since(r.started)),
		zap.Int("diagnostics", r.dc.Len()),
	}
	if res != nil {
		res.Diagnostics = r.dc.Items()
		fields = append(fields,
			zap.String("encoding", res.Encoding),
			zap.Int("records", res.Records),
			zap.Int("valid", len(res.Classified.Valid)),
			zap.Int("invalid", len(res.Classified.Invalid)),
		)
	}
	logger.Info(ctx, "run finished", fields...)
}

// New creates a new Cleaner backed by the provided storage and codec and
// configured with the given options. A nil recorder disables metrics.
func New(storage storage.Storage, codec vcard.Codec, recorder metrics.Recorder, options Options) Cleaner {
	if recorder == nil {
		recorder = metrics.Nop()
	}
	if options.ReportPath == "" {
		options.ReportPath = report.DefaultPath
	}

	return &cleaner{
		options: options,
		storage: storage,
		codec:   codec,
		segmenter: segment.New(codec, segment.Options{
			BeginMarker: options.BeginMarker,
			EndMarker:   options.EndMarker,
		}),
		validator: validate.New(),
		metrics:   recorder,
	}
}
