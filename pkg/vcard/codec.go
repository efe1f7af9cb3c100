// Package vcard is the record-format capability of the pipeline: it parses a
// single BEGIN:VCARD/END:VCARD block into a domain.Record and serializes a
// record back into block text. Parsing is delegated to
// github.com/emersion/go-vcard; serialization writes the stored properties
// back in order with the escaping that decoder expects.
//
//go:generate mockgen -package mockvcard -source=codec.go -destination=mock/mockvcard.go *
package vcard

import (
	"sort"
	"strings"
	"vcfclean/pkg/domain"
	"vcfclean/pkg/serrors"

	govcard "github.com/emersion/go-vcard"
)

// Codec parses and serializes single record blocks.
type Codec interface {
	// Parse turns the text of one block into a record. The returned error has
	// kind serrors.ErrMalformedRecord.
	Parse(block string) (domain.Record, error)
	// Serialize turns a record back into block text.
	Serialize(record domain.Record) Serialized
}

// Serialized is the outcome of serializing one record: either Text is set or
// Err explains why the record could not be serialized.
type Serialized struct {
	Text string
	Err  error
}

// OK reports whether serialization succeeded.
func (s Serialized) OK() bool { return s.Err == nil }

// Options configure the codec.
type Options struct {
	// DefaultVersion is written as VERSION when a record has none. When empty,
	// records without VERSION fail to serialize.
	DefaultVersion string
}

type codec struct {
	options Options
}

// New creates a Codec.
func New(options Options) Codec {
	return codec{options: options}
}

// Parse implements Codec.
func (c codec) Parse(block string) (domain.Record, error) {
	lines := contentLines(block)
	if len(lines) < 2 {
		return domain.Record{}, serrors.With(serrors.ErrMalformedRecord, "block has no content lines")
	}
	for i, line := range lines {
		if !strings.Contains(line, ":") {
			return domain.Record{}, serrors.With(serrors.ErrMalformedRecord,
				"line %d of block has no colon: %q", i+1, line)
		}
	}

	if !isDelimiter(lines[0], "BEGIN") {
		return domain.Record{}, serrors.With(serrors.ErrMalformedRecord, "block does not start with BEGIN:VCARD")
	}
	if !isDelimiter(lines[len(lines)-1], "END") {
		return domain.Record{}, serrors.With(serrors.ErrMalformedRecord, "block does not end with END:VCARD")
	}

	card, err := govcard.NewDecoder(strings.NewReader(strings.Join(lines, "\r\n") + "\r\n")).Decode()
	if err != nil {
		return domain.Record{}, serrors.Wrap(serrors.ErrMalformedRecord, err, "could not decode block")
	}

	return toRecord(card, propertyOrder(lines), block), nil
}

// Serialize implements Codec. The output is BEGIN, VERSION, then every other
// property in the order it appeared in the block, then END. Parameters are
// written in key order so the same record always yields the same text.
func (c codec) Serialize(record domain.Record) Serialized {
	version := domain.Property{Name: govcard.FieldVersion, Value: c.options.DefaultVersion}
	hasVersion := false
	for _, p := range record.Properties {
		if strings.EqualFold(p.Name, govcard.FieldVersion) {
			version, hasVersion = p, true

			break
		}
	}
	if !hasVersion && c.options.DefaultVersion == "" {
		return Serialized{Err: serrors.With(serrors.ErrSerialization, "record has no VERSION property")}
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCARD\r\n")
	writeLine(&b, version)
	for _, p := range record.Properties {
		name := strings.ToUpper(p.Name)
		if name == "" || name == govcard.FieldVersion || name == "BEGIN" || name == "END" {
			continue
		}
		writeLine(&b, p)
	}
	b.WriteString("END:VCARD\r\n")

	return Serialized{Text: b.String()}
}

// valueEscaper applies the escaping go-vcard's decoder reverses.
var valueEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, ",", `\,`) //nolint: gochecknoglobals

// writeLine writes one content line: [group.]NAME[;KEY=value...]:value.
func writeLine(b *strings.Builder, p domain.Property) {
	if p.Group != "" {
		b.WriteString(p.Group)
		b.WriteByte('.')
	}
	b.WriteString(strings.ToUpper(p.Name))

	keys := make([]string, 0, len(p.Params))
	for k := range p.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range p.Params[k] {
			b.WriteByte(';')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(valueEscaper.Replace(v))
		}
	}

	b.WriteByte(':')
	b.WriteString(valueEscaper.Replace(p.Value))
	b.WriteString("\r\n")
}

// contentLines returns the trimmed, non-blank lines of block.
func contentLines(block string) []string {
	block = strings.ReplaceAll(block, "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

// isDelimiter reports whether line is "<name>:VCARD", ignoring case.
func isDelimiter(line, name string) bool {
	k, v, ok := strings.Cut(line, ":")

	return ok && strings.EqualFold(strings.TrimSpace(k), name) && strings.EqualFold(strings.TrimSpace(v), "VCARD")
}

// propertyName extracts the upper-case property name of a content line,
// dropping its group and parameters.
func propertyName(line string) string {
	if i := strings.IndexAny(line, ";:"); i >= 0 {
		line = line[:i]
	}
	if i := strings.LastIndexByte(line, '.'); i >= 0 {
		line = line[i+1:]
	}

	return strings.ToUpper(strings.TrimSpace(line))
}

// propertyOrder returns the property names of lines in first-appearance
// order, without the BEGIN and END delimiters.
func propertyOrder(lines []string) []string {
	seen := make(map[string]bool)
	var order []string
	for _, line := range lines {
		name := propertyName(line)
		if name == "" || name == "BEGIN" || name == "END" || seen[name] {
			continue
		}
		seen[name] = true
		order = append(order, name)
	}

	return order
}

func toRecord(card govcard.Card, order []string, block string) domain.Record {
	byName := make(map[string][]*govcard.Field, len(card))
	for k, fields := range card {
		name := strings.ToUpper(k)
		byName[name] = append(byName[name], fields...)
	}

	// names the decoder produced that were not seen while scanning lines go last
	known := make(map[string]bool, len(order))
	for _, name := range order {
		known[name] = true
	}
	var extra []string
	for name := range byName {
		if !known[name] && name != "BEGIN" && name != "END" {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	record := domain.Record{Block: block}
	for _, name := range order {
		for _, f := range byName[name] {
			if f == nil {
				continue
			}
			record.Properties = append(record.Properties, domain.Property{
				Group:  f.Group,
				Name:   name,
				Params: copyParams(domain.Params(f.Params)),
				Value:  f.Value,
			})
		}
	}

	if fields := byName[govcard.FieldFormattedName]; len(fields) > 0 && fields[0] != nil {
		name := fields[0].Value
		record.FullName = &name
	}
	record.Telephones = values(byName[govcard.FieldTelephone])
	record.Emails = values(byName[govcard.FieldEmail])

	return record
}

func values(fields []*govcard.Field) []string {
	var out []string
	for _, f := range fields {
		if f != nil {
			out = append(out, f.Value)
		}
	}

	return out
}

func copyParams(params map[string][]string) map[string][]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string][]string, len(params))
	for k, v := range params {
		out[k] = append([]string(nil), v...)
	}

	return out
}
