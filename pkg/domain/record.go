package domain

// UnknownLabel is the label used for records that carry no usable full name.
const UnknownLabel = "Unknown"

// Params holds the parameters of a single content line, keyed by upper-case
// parameter name. A parameter may be repeated.
type Params map[string][]string

// Property is a single content line of a record block, e.g.
// "item1.TEL;TYPE=CELL:+1 555-1234".
type Property struct {
	// Group is the optional property group ("item1" above).
	Group string
	// Name is the upper-case property name ("TEL" above).
	Name string
	// Params are the property parameters ("TYPE=CELL" above).
	Params Params
	// Value is the unescaped property value.
	Value string
}

// Record is the structured result of parsing one begin/end block.
//
// FullName, Telephones and Emails are the typed slots the validator reads.
// Properties keeps every content line of the block in first-appearance order
// and is what gets serialized back to text. Records are not mutated once parsed.
type Record struct {
	// Index is the position of the record in the segmenter output.
	Index int
	// FullName is the formatted name. It is nil when the block has no FN line.
	FullName *string
	// Telephones holds every TEL value, in block order.
	Telephones []string
	// Emails holds every EMAIL value, in block order.
	Emails []string
	// Properties holds every content line of the block.
	Properties []Property
	// Block is the raw block text the record was parsed from.
	Block string
}

// Name returns the full name and whether the record has one.
func (r Record) Name() (string, bool) {
	if r.FullName == nil {
		return "", false
	}

	return *r.FullName, true
}

// Label returns the identifying label used in reports: the full name when it
// is present and non-empty, UnknownLabel otherwise.
func (r Record) Label() string {
	if name, ok := r.Name(); ok && name != "" {
		return name
	}

	return UnknownLabel
}
