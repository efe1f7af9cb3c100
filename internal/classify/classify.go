// Package classify partitions validated records into valid and invalid sets.
package classify

import (
	"vcfclean/internal/validate"
	"vcfclean/pkg/domain"
)

// Classify validates every record in input order and routes it to the valid
// set when the validator returns no message, to the invalid set otherwise.
// Every record ends up in exactly one set and relative order is preserved.
func Classify(records []domain.Record, validator validate.Validator) domain.ClassifiedSet {
	set := domain.ClassifiedSet{
		Valid:   make([]domain.Classified, 0, len(records)),
		Invalid: make([]domain.Classified, 0),
	}

	for _, record := range records {
		result := validator.Validate(record)
		entry := domain.Classified{Record: record, Result: result}
		if result.Valid() {
			set.Valid = append(set.Valid, entry)
		} else {
			set.Invalid = append(set.Invalid, entry)
		}
	}

	return set
}
