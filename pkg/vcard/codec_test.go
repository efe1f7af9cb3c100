package vcard_test

import (
	"strings"
	"testing"
	"vcfclean/pkg/domain"
	"vcfclean/pkg/serrors"
	"vcfclean/pkg/vcard"

	"github.com/stretchr/testify/require"
)

const janeBlock = "BEGIN:VCARD\nVERSION:3.0\nFN:Jane Doe\nTEL;TYPE=CELL:+1 555-1234\nEMAIL:jane@example.com\nEND:VCARD"

func TestCodec_Parse(t *testing.T) {
	codec := vcard.New(vcard.Options{DefaultVersion: "3.0"})

	record, err := codec.Parse(janeBlock)
	require.NoError(t, err)

	name, ok := record.Name()
	require.True(t, ok)
	require.Equal(t, "Jane Doe", name)
	require.Equal(t, []string{"+1 555-1234"}, record.Telephones)
	require.Equal(t, []string{"jane@example.com"}, record.Emails)
	require.Equal(t, janeBlock, record.Block)

	names := make([]string, 0, len(record.Properties))
	for _, p := range record.Properties {
		names = append(names, p.Name)
	}
	require.Equal(t, []string{"VERSION", "FN", "TEL", "EMAIL"}, names)
}

func TestCodec_ParseRepeatedAndMissingFields(t *testing.T) {
	codec := vcard.New(vcard.Options{})

	record, err := codec.Parse("BEGIN:VCARD\nVERSION:3.0\nTEL:123\nTEL:456\nEND:VCARD")
	require.NoError(t, err)

	_, ok := record.Name()
	require.False(t, ok)
	require.Nil(t, record.FullName)
	require.Equal(t, []string{"123", "456"}, record.Telephones)
	require.Empty(t, record.Emails)
	require.Equal(t, domain.UnknownLabel, record.Label())
}

func TestCodec_ParseIgnoresBlankLines(t *testing.T) {
	codec := vcard.New(vcard.Options{})

	record, err := codec.Parse("BEGIN:VCARD\n\nVERSION:3.0\n   \nFN:Bob\nEND:VCARD")
	require.NoError(t, err)
	require.Equal(t, "Bob", record.Label())
}

func TestCodec_ParseMalformed(t *testing.T) {
	codec := vcard.New(vcard.Options{})

	tests := []struct {
		name  string
		block string
	}{
		{name: "empty", block: ""},
		{name: "only begin", block: "BEGIN:VCARD"},
		{name: "line without colon", block: "BEGIN:VCARD\nVERSION:3.0\nthis is not a property\nEND:VCARD"},
		{name: "wrong begin value", block: "BEGIN:VCARDX\nFN:Bob\nEND:VCARD"},
		{name: "wrong end value", block: "BEGIN:VCARD\nFN:Bob\nEND:VCARDS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Parse(tt.block)
			require.Error(t, err)
			require.ErrorIs(t, err, serrors.ErrMalformedRecord)
		})
	}
}

func TestCodec_SerializeRoundTrip(t *testing.T) {
	codec := vcard.New(vcard.Options{DefaultVersion: "3.0"})

	record, err := codec.Parse(janeBlock)
	require.NoError(t, err)

	out := codec.Serialize(record)
	require.True(t, out.OK(), "unexpected error: %v", out.Err)
	require.True(t, strings.HasPrefix(out.Text, "BEGIN:VCARD"))
	require.Contains(t, out.Text, "FN:Jane Doe")
	require.Contains(t, out.Text, "END:VCARD")

	again, err := codec.Parse(out.Text)
	require.NoError(t, err)
	require.Equal(t, record.FullName, again.FullName)
	require.Equal(t, record.Telephones, again.Telephones)
	require.Equal(t, record.Emails, again.Emails)
}

func TestCodec_SerializeFillsMissingVersion(t *testing.T) {
	codec := vcard.New(vcard.Options{DefaultVersion: "3.0"})
	name := "Bob"
	record := domain.Record{
		FullName:   &name,
		Properties: []domain.Property{{Name: "FN", Value: name}},
	}

	out := codec.Serialize(record)
	require.True(t, out.OK())
	require.Contains(t, out.Text, "VERSION:3.0")
}

func TestCodec_SerializeWithoutVersionFails(t *testing.T) {
	codec := vcard.New(vcard.Options{})
	record := domain.Record{Properties: []domain.Property{{Name: "FN", Value: "Bob"}}}

	out := codec.Serialize(record)
	require.False(t, out.OK())
	require.ErrorIs(t, out.Err, serrors.ErrSerialization)
	require.Empty(t, out.Text)
}

func TestCodec_SerializeIsStable(t *testing.T) {
	codec := vcard.New(vcard.Options{DefaultVersion: "3.0"})

	record, err := codec.Parse("BEGIN:VCARD\nVERSION:3.0\nFN:Jane Doe\n" +
		"TEL;TYPE=CELL;PREF=1;X-A=b:+1 555-1234\nEND:VCARD")
	require.NoError(t, err)

	first := codec.Serialize(record)
	require.True(t, first.OK(), "unexpected error: %v", first.Err)
	require.Contains(t, first.Text, "TEL;PREF=1;TYPE=CELL;X-A=b:+1 555-1234\r\n")

	for range 200 {
		require.Equal(t, first.Text, codec.Serialize(record).Text)
	}
}

func TestCodec_SerializeKeepsPropertyOrder(t *testing.T) {
	codec := vcard.New(vcard.Options{DefaultVersion: "3.0"})

	record, err := codec.Parse("BEGIN:VCARD\nFN:Jane Doe\nVERSION:3.0\nTEL:+1 555-1234\n" +
		"EMAIL:jane@example.com\nitem1.NOTE:friend\nEND:VCARD")
	require.NoError(t, err)

	out := codec.Serialize(record)
	require.True(t, out.OK(), "unexpected error: %v", out.Err)
	require.Equal(t, "BEGIN:VCARD\r\n"+
		"VERSION:3.0\r\n"+
		"FN:Jane Doe\r\n"+
		"TEL:+1 555-1234\r\n"+
		"EMAIL:jane@example.com\r\n"+
		"item1.NOTE:friend\r\n"+
		"END:VCARD\r\n", out.Text)
}

func TestCodec_SerializeEscapesValues(t *testing.T) {
	codec := vcard.New(vcard.Options{DefaultVersion: "4.0"})
	record := domain.Record{Properties: []domain.Property{
		{Name: "FN", Value: "Bob"},
		{Name: "NOTE", Params: domain.Params{"X-TAG": {"a,b"}}, Value: "one, two\nthree \\ four"},
	}}

	out := codec.Serialize(record)
	require.True(t, out.OK(), "unexpected error: %v", out.Err)
	require.Equal(t, "BEGIN:VCARD\r\n"+
		"VERSION:4.0\r\n"+
		"FN:Bob\r\n"+
		`NOTE;X-TAG=a\,b:one\, two\nthree \\ four`+"\r\n"+
		"END:VCARD\r\n", out.Text)
}
