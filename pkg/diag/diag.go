// Package diag collects the non-fatal anomalies found while cleaning a file.
//
// Stages never log directly; they add Diagnostics to a Collector that is
// threaded through the pipeline, and the caller decides how to surface them
// (the cleaner logs them once per run and returns them in its result).
package diag

import (
	"context"
	"vcfclean/pkg/logger"
	"vcfclean/pkg/serrors"

	"go.uber.org/zap"
)

// Severity ranks a diagnostic.
type Severity string

const (
	// SeverityInfo is used for expected, informative events.
	SeverityInfo Severity = "info"
	// SeverityWarn is used for anomalies that dropped or altered data.
	SeverityWarn Severity = "warn"
)

// Stage names the pipeline stage that produced a diagnostic.
type Stage string

const (
	StageNormalize Stage = "normalize"
	StageSegment   Stage = "segment"
	StageWrite     Stage = "write"
	StagePipeline  Stage = "pipeline"
)

// Diagnostic is a single non-fatal anomaly.
type Diagnostic struct {
	Stage    Stage
	Kind     serrors.Kind
	Severity Severity
	Message  string
	// Detail carries supporting data such as the raw text of a dropped block.
	Detail string
	// Line is the 1-based input line the anomaly relates to, when known.
	Line int
}

// Collector accumulates diagnostics in the order they are added.
// A nil *Collector discards everything.
type Collector struct {
	items []Diagnostic
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends d to the collector.
func (c *Collector) Add(d Diagnostic) {
	if c == nil {
		return
	}
	if d.Severity == "" {
		d.Severity = SeverityWarn
	}
	c.items = append(c.items, d)
}

// Items returns a copy of the collected diagnostics.
func (c *Collector) Items() []Diagnostic {
	if c == nil {
		return nil
	}
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)

	return out
}

// Count returns how many collected diagnostics have the given kind.
func (c *Collector) Count(k serrors.Kind) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, d := range c.items {
		if d.Kind == k {
			n++
		}
	}

	return n
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}

	return len(c.items)
}

// Log writes every collected diagnostic to the logger found in ctx.
func (c *Collector) Log(ctx context.Context) {
	for _, d := range c.Items() {
		fields := []zap.Field{zap.String("stage", string(d.Stage))}
		if d.Kind != nil {
			fields = append(fields, zap.String("kind", d.Kind.Error()))
		}
		if d.Line > 0 {
			fields = append(fields, zap.Int("line", d.Line))
		}
		if d.Detail != "" {
			fields = append(fields, zap.String("detail", d.Detail))
		}

		if d.Severity == SeverityInfo {
			logger.Info(ctx, d.Message, fields...)
		} else {
			logger.Warn(ctx, d.Message, fields...)
		}
	}
}
