package cleaner

import (
	"context"
	"vcfclean/pkg/diag"
	"vcfclean/pkg/domain"
)

// Request names the files of a cleaning run.
type Request struct {
	// Input is the contact file to clean.
	Input string
	// ValidOutput receives the records that passed validation.
	ValidOutput string
	// InvalidOutput receives the records that failed validation.
	InvalidOutput string
}

// Result describes a finished run.
type Result struct {
	RunID string
	// Encoding is the label the input was decoded from.
	Encoding string
	// Records is the number of records that survived segmentation.
	Records int
	// Classified holds every segmented record, split by validation outcome.
	Classified domain.ClassifiedSet
	// Report is the rendered explanation report.
	Report string
	// ValidWritten and InvalidWritten count the records actually serialized
	// into each output file.
	ValidWritten   int
	InvalidWritten int
	Diagnostics    []diag.Diagnostic
}

//go:generate mockgen -package mockcleaner -source=interface.go -destination=mock/mockcleaner.go *
type Cleaner interface {
	// Clean splits req.Input into the valid and invalid outputs and writes the
	// explanation report. It fails with serrors.ErrEmptyInput, without writing
	// anything, when no record survives segmentation.
	Clean(ctx context.Context, req Request) (*Result, error)
	// Check runs the same analysis as Clean without writing any output.
	Check(ctx context.Context, input string) (*Result, error)
}
