package domain

// ValidationResult is the ordered list of rule violations of one record.
// An empty result means the record is valid.
type ValidationResult []string

// Valid reports whether the result holds no violation.
func (v ValidationResult) Valid() bool { return len(v) == 0 }

// Classified pairs a record with its validation result.
type Classified struct {
	Record Record
	Result ValidationResult
}

// ClassifiedSet is the valid/invalid partition of a run. Both slices keep the
// input order of the records. Valid entries always carry an empty result and
// Invalid entries never do.
type ClassifiedSet struct {
	Valid   []Classified
	Invalid []Classified
}

// Len returns the total number of classified records.
func (s ClassifiedSet) Len() int { return len(s.Valid) + len(s.Invalid) }
