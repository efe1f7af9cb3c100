// Package textnorm turns raw input bytes into clean UTF-8 text: Normalize
// detects the source charset and decodes it, Sanitize replaces everything that
// is not printable ASCII with a placeholder.
package textnorm

import (
	"strings"
	"unicode/utf8"
	"vcfclean/pkg/diag"
	"vcfclean/pkg/serrors"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// DefaultEncoding is the canonical output encoding and the default fallback.
const DefaultEncoding = "UTF-8"

// aliases maps detector labels that neither the WHATWG nor the IANA index
// know to a decoder.
var aliases = map[string]encoding.Encoding{ //nolint: gochecknoglobals
	"GB-18030": simplifiedChinese(),
	"UTF-32BE": utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	"UTF-32LE": utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
}

func simplifiedChinese() encoding.Encoding {
	enc, _ := htmlindex.Get("gb18030")

	return enc
}

// Options configure Normalize.
type Options struct {
	// Fallback is the encoding label used when detection yields nothing usable.
	// Empty means DefaultEncoding.
	Fallback string
	// Charset, when set, names the input encoding and skips detection.
	Charset string
}

// Normalized is the result of Normalize.
type Normalized struct {
	// Text is valid UTF-8.
	Text string
	// Encoding is the label of the encoding Text was decoded from.
	Encoding string
	// Replaced counts U+FFFD replacement characters in Text.
	Replaced int
}

// Normalize decodes raw into UTF-8 text. It never fails: undecodable sequences
// become U+FFFD and are reported to dc as a single ErrDecode diagnostic.
func Normalize(raw []byte, options Options, dc *diag.Collector) Normalized {
	fallback := options.Fallback
	if fallback == "" {
		fallback = DefaultEncoding
	}

	label := options.Charset
	if label == "" {
		label = Detect(raw, fallback)
	}
	enc := Lookup(label)
	if enc == nil {
		dc.Add(diag.Diagnostic{
			Stage:    diag.StageNormalize,
			Kind:     serrors.ErrDecode,
			Severity: diag.SeverityInfo,
			Message:  "no decoder for input encoding, using fallback",
			Detail:   label + " -> " + fallback,
		})
		label = fallback
		if enc = Lookup(fallback); enc == nil {
			label, enc = DefaultEncoding, unicode.UTF8
		}
	}

	text, err := decode(raw, enc)
	if err != nil {
		dc.Add(diag.Diagnostic{
			Stage:   diag.StageNormalize,
			Kind:    serrors.ErrDecode,
			Message: "could not decode input, reading it as UTF-8",
			Detail:  err.Error(),
		})
		label = DefaultEncoding
		text = strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}

	replaced := strings.Count(text, string(utf8.RuneError))
	if replaced > 0 {
		dc.Add(diag.Diagnostic{
			Stage:   diag.StageNormalize,
			Kind:    serrors.ErrDecode,
			Message: "undecodable byte sequences replaced",
			Detail:  label,
		})
	}

	return Normalized{Text: text, Encoding: label, Replaced: replaced}
}

// Detect returns the most probable charset label of raw, or fallback when the
// input is empty or the detector has no answer.
func Detect(raw []byte, fallback string) string {
	if len(raw) == 0 {
		return fallback
	}

	res, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil || res == nil || res.Charset == "" {
		return fallback
	}

	return res.Charset
}

// Lookup resolves a charset label to an encoding, or nil when it is unknown.
func Lookup(label string) encoding.Encoding {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil
	}
	if enc := aliases[strings.ToUpper(label)]; enc != nil {
		return enc
	}
	if enc, err := htmlindex.Get(label); err == nil {
		return enc
	}
	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return enc
	}

	return nil
}

// Decode decodes raw under the encoding named by label. Unknown labels decode
// as UTF-8.
func Decode(raw []byte, label string) (string, error) {
	enc := Lookup(label)
	if enc == nil {
		enc = unicode.UTF8
	}

	return decode(raw, enc)
}

// decode runs raw through enc's decoder. A leading byte-order mark overrides
// enc and is dropped.
func decode(raw []byte, enc encoding.Encoding) (string, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), raw)
	if err != nil {
		return "", err //nolint: wrapcheck
	}
	if !utf8.Valid(out) {
		out = []byte(strings.ToValidUTF8(string(out), string(utf8.RuneError)))
	}

	return string(out), nil
}
