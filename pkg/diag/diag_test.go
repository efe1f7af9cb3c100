package diag_test

import (
	"context"
	"testing"
	"vcfclean/pkg/diag"
	"vcfclean/pkg/logger"
	"vcfclean/pkg/serrors"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCollector_AddKeepsOrderAndDefaultsSeverity(t *testing.T) {
	c := diag.NewCollector()
	c.Add(diag.Diagnostic{Stage: diag.StageSegment, Kind: serrors.ErrMalformedRecord, Message: "first"})
	c.Add(diag.Diagnostic{Stage: diag.StageWrite, Severity: diag.SeverityInfo, Message: "second"})

	items := c.Items()
	require.Len(t, items, 2)
	require.Equal(t, "first", items[0].Message)
	require.Equal(t, diag.SeverityWarn, items[0].Severity)
	require.Equal(t, diag.SeverityInfo, items[1].Severity)
	require.Equal(t, 2, c.Len())
	require.Equal(t, 1, c.Count(serrors.ErrMalformedRecord))
	require.Equal(t, 0, c.Count(serrors.ErrDecode))
}

func TestCollector_ItemsIsACopy(t *testing.T) {
	c := diag.NewCollector()
	c.Add(diag.Diagnostic{Message: "x"})

	items := c.Items()
	items[0].Message = "changed"
	require.Equal(t, "x", c.Items()[0].Message)
}

func TestCollector_NilIsSafe(t *testing.T) {
	var c *diag.Collector
	require.NotPanics(t, func() {
		c.Add(diag.Diagnostic{Message: "dropped"})
		c.Log(context.Background())
	})
	require.Nil(t, c.Items())
	require.Zero(t, c.Len())
	require.Zero(t, c.Count(serrors.ErrDecode))
}

func TestCollector_Log(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	c := diag.NewCollector()
	c.Add(diag.Diagnostic{Stage: diag.StageSegment, Kind: serrors.ErrMalformedRecord, Message: "dropped block", Line: 7})
	c.Add(diag.Diagnostic{Stage: diag.StageWrite, Severity: diag.SeverityInfo, Message: "nothing to write"})
	c.Log(ctx)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	require.Equal(t, zap.WarnLevel, entries[0].Level)
	require.Equal(t, "dropped block", entries[0].Message)
	require.Equal(t, "MALFORMED_RECORD", entries[0].ContextMap()["kind"])
	require.EqualValues(t, 7, entries[0].ContextMap()["line"])
	require.Equal(t, zap.InfoLevel, entries[1].Level)
}
