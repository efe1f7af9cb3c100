// Package segment splits normalized text into record blocks delimited by a
// begin-marker line and an end-marker line, and hands every complete block to
// a Parser.
//
// The scanner is a two-state machine (outside / inside a block). Lines are
// trimmed before they are evaluated and markers match as case-sensitive line
// prefixes. A begin marker seen while a block is already open abandons that
// block and starts capturing again from the new marker. Blocks that fail to
// parse, blocks left open at end of input and stray end markers are dropped and
// reported as serrors.ErrMalformedRecord diagnostics; segmentation itself never
// fails.
package segment

import (
	"strings"
	"vcfclean/pkg/diag"
	"vcfclean/pkg/domain"
	"vcfclean/pkg/serrors"
)

const (
	// DefaultBeginMarker opens a vCard block.
	DefaultBeginMarker = "BEGIN:VCARD"
	// DefaultEndMarker closes a vCard block.
	DefaultEndMarker = "END:VCARD"
)

// Parser turns the text of one complete block into a record.
type Parser interface {
	Parse(block string) (domain.Record, error)
}

// Options configure the block delimiters. Empty markers use the defaults.
type Options struct {
	BeginMarker string
	EndMarker   string
}

// Segmenter scans text for record blocks.
type Segmenter struct {
	parser Parser
	begin  string
	end    string
}

// New creates a Segmenter that parses blocks with parser.
func New(parser Parser, options Options) *Segmenter {
	s := &Segmenter{parser: parser, begin: options.BeginMarker, end: options.EndMarker}
	if s.begin == "" {
		s.begin = DefaultBeginMarker
	}
	if s.end == "" {
		s.end = DefaultEndMarker
	}

	return s
}

type state int

const (
	outside state = iota
	inside
)

// Segment returns the records parsed from text, in input order. Each record's
// Index is its position in the returned slice.
func (s *Segmenter) Segment(text string, dc *diag.Collector) []domain.Record {
	var (
		records []domain.Record
		current state
		buffer  []string
		opened  int
	)

	for i, line := range splitLines(text) {
		lineNo := i + 1
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, s.begin):
			if current == inside {
				dc.Add(diag.Diagnostic{
					Stage:   diag.StageSegment,
					Kind:    serrors.ErrMalformedRecord,
					Message: "block abandoned by a new begin marker",
					Detail:  strings.Join(buffer, "\n"),
					Line:    opened,
				})
			}
			current, buffer, opened = inside, []string{line}, lineNo

		case strings.HasPrefix(line, s.end):
			if current == outside {
				dc.Add(diag.Diagnostic{
					Stage:   diag.StageSegment,
					Kind:    serrors.ErrMalformedRecord,
					Message: "end marker outside of a block ignored",
					Line:    lineNo,
				})

				continue
			}

			buffer = append(buffer, line)
			block := strings.Join(buffer, "\n")
			record, err := s.parser.Parse(block)
			if err != nil {
				dc.Add(diag.Diagnostic{
					Stage:   diag.StageSegment,
					Kind:    serrors.ErrMalformedRecord,
					Message: "malformed block dropped: " + err.Error(),
					Detail:  block,
					Line:    opened,
				})
			} else {
				record.Index = len(records)
				records = append(records, record)
			}
			current, buffer = outside, nil

		case current == inside:
			buffer = append(buffer, line)
		}
	}

	if current == inside {
		dc.Add(diag.Diagnostic{
			Stage:   diag.StageSegment,
			Kind:    serrors.ErrMalformedRecord,
			Message: "unterminated block at end of input dropped",
			Detail:  strings.Join(buffer, "\n"),
			Line:    opened,
		})
	}

	return records
}

// splitLines splits text on \r\n, \n and lone \r. A trailing line break does
// not produce an extra empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")

	return strings.Split(text, "\n")
}
