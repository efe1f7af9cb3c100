// Package metrics records run counters and stage durations through an
// OpenTelemetry meter exported to a private Prometheus registry, so a run can
// dump them as a node-exporter textfile.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

const meterName = "vcfclean"

// Outcome labels for the records counter.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

// Recorder collects the counters of a single run.
type Recorder interface {
	// Records adds n records classified with the given outcome.
	Records(ctx context.Context, outcome string, n int)
	// Malformed adds n blocks dropped during segmentation.
	Malformed(ctx context.Context, n int)
	// SerializationFailure counts one record that could not be written to bucket.
	SerializationFailure(ctx context.Context, bucket string)
	// Stage observes how long a pipeline stage took.
	Stage(ctx context.Context, stage string, d time.Duration)
	// WriteTextfile dumps every collected metric in the Prometheus text format.
	WriteTextfile(path string) error
	// Shutdown flushes and releases the meter provider.
	Shutdown(ctx context.Context) error
}

type otelRecorder struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider

	records       metric.Int64Counter
	malformed     metric.Int64Counter
	serialization metric.Int64Counter
	stages        metric.Float64Histogram
}

// New creates a Recorder backed by its own Prometheus registry.
func New() (Recorder, error) {
	registry := prometheus.NewRegistry()
	exp, err := otelprom.New(otelprom.WithRegisterer(registry), otelprom.WithoutScopeInfo())
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	meter := mp.Meter(meterName)

	r := &otelRecorder{registry: registry, provider: mp}
	if r.records, err = meter.Int64Counter("vcfclean_records",
		metric.WithDescription("Records classified per outcome.")); err != nil {
		return nil, fmt.Errorf("could not create records counter: %w", err)
	}
	if r.malformed, err = meter.Int64Counter("vcfclean_malformed_blocks",
		metric.WithDescription("Blocks dropped because they could not be parsed.")); err != nil {
		return nil, fmt.Errorf("could not create malformed counter: %w", err)
	}
	if r.serialization, err = meter.Int64Counter("vcfclean_serialization_failures",
		metric.WithDescription("Records left out of an output file because they could not be serialized.")); err != nil {
		return nil, fmt.Errorf("could not create serialization counter: %w", err)
	}
	if r.stages, err = meter.Float64Histogram("vcfclean_stage_duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of pipeline stages."),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...)); err != nil {
		return nil, fmt.Errorf("could not create stage histogram: %w", err)
	}

	return r, nil
}

func (r *otelRecorder) Records(ctx context.Context, outcome string, n int) {
	r.records.Add(ctx, int64(n), metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (r *otelRecorder) Malformed(ctx context.Context, n int) {
	r.malformed.Add(ctx, int64(n))
}

func (r *otelRecorder) SerializationFailure(ctx context.Context, bucket string) {
	r.serialization.Add(ctx, 1, metric.WithAttributes(attribute.String("bucket", bucket)))
}

func (r *otelRecorder) Stage(ctx context.Context, stage string, d time.Duration) {
	r.stages.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

func (r *otelRecorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("could not write metrics textfile: %w", err)
	}

	return nil
}

func (r *otelRecorder) Shutdown(ctx context.Context) error {
	if err := r.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not shutdown meter provider: %w", err)
	}

	return nil
}

type nop struct{}

// Nop returns a Recorder that discards everything.
func Nop() Recorder { return nop{} }

func (nop) Records(context.Context, string, int) {}
func (nop) Malformed(context.Context, int) {}
func (nop) SerializationFailure(context.Context, string) {}
func (nop) Stage(context.Context, string, time.Duration) {}
func (nop) WriteTextfile(string) error { return nil }
func (nop) Shutdown(context.Context) error { return nil }
